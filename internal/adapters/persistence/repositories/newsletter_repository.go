package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"apcb-events/internal/adapters/persistence/models"
	"apcb-events/internal/core/domain"
	"apcb-events/internal/pkg/pagination"
)

// newsletterRepository implements NewsletterRepository with GORM
type newsletterRepository struct {
	db *gorm.DB
}

// NewNewsletterRepository creates a new newsletter repository
func NewNewsletterRepository(db *gorm.DB) NewsletterRepository {
	return &newsletterRepository{db: db}
}

// Subscribe inserts a subscription
func (r *newsletterRepository) Subscribe(ctx context.Context, sub *models.NewsletterSubscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

// ExistsByEmail checks whether an email is already subscribed
func (r *newsletterRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.NewsletterSubscription{}).
		Where("email = ?", email).
		Count(&count).Error
	return count > 0, err
}

// List returns a page of subscribers, newest first
func (r *newsletterRepository) List(ctx context.Context, params *pagination.Params) ([]*models.NewsletterSubscription, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.NewsletterSubscription{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var subs []*models.NewsletterSubscription
	err := query.
		Order("subscribed_at DESC").
		Offset(params.Offset).
		Limit(params.Limit).
		Find(&subs).Error
	return subs, total, err
}

// SubscriberEmails returns every subscriber email
func (r *newsletterRepository) SubscriberEmails(ctx context.Context) ([]string, error) {
	var emails []string
	err := r.db.WithContext(ctx).
		Model(&models.NewsletterSubscription{}).
		Pluck("email", &emails).Error
	return emails, err
}

// campaignRepository implements CampaignRepository with GORM
type campaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db *gorm.DB) CampaignRepository {
	return &campaignRepository{db: db}
}

// Create inserts a campaign
func (r *campaignRepository) Create(ctx context.Context, campaign *models.EmailCampaign) error {
	return r.db.WithContext(ctx).Create(campaign).Error
}

// GetByID returns a campaign by ID
func (r *campaignRepository) GetByID(ctx context.Context, id uint) (*models.EmailCampaign, error) {
	var campaign models.EmailCampaign
	if err := r.db.WithContext(ctx).First(&campaign, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, err
	}
	return &campaign, nil
}

// Update saves campaign changes
func (r *campaignRepository) Update(ctx context.Context, campaign *models.EmailCampaign) error {
	return r.db.WithContext(ctx).Save(campaign).Error
}

// List returns a page of campaigns, newest first
func (r *campaignRepository) List(ctx context.Context, params *pagination.Params) ([]*models.EmailCampaign, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.EmailCampaign{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var campaigns []*models.EmailCampaign
	err := query.
		Order("created_at DESC").
		Offset(params.Offset).
		Limit(params.Limit).
		Find(&campaigns).Error
	return campaigns, total, err
}

// DueScheduled returns scheduled campaigns whose send time has passed
func (r *campaignRepository) DueScheduled(ctx context.Context) ([]*models.EmailCampaign, error) {
	var campaigns []*models.EmailCampaign
	err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?",
			string(domain.CampaignScheduled), time.Now()).
		Find(&campaigns).Error
	return campaigns, err
}

// RegistrantEmails returns emails of users with an active registration,
// optionally narrowed to one event
func (r *campaignRepository) RegistrantEmails(ctx context.Context, eventID *uint) ([]string, error) {
	query := r.db.WithContext(ctx).
		Model(&models.EventRegistration{}).
		Joins("JOIN users ON users.id = event_registrations.user_id").
		Where("event_registrations.payment_status <> ?", string(domain.PaymentCancelled))
	if eventID != nil {
		query = query.Where("event_registrations.event_id = ?", *eventID)
	}

	var emails []string
	err := query.Distinct().Pluck("users.email", &emails).Error
	return emails, err
}
