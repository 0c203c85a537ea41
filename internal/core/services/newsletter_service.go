package services

import (
	"context"
	"log"
	"time"

	"apcb-events/internal/adapters/persistence/models"
	"apcb-events/internal/adapters/persistence/repositories"
	"apcb-events/internal/core/domain"
	"apcb-events/internal/pkg/pagination"
	"apcb-events/internal/pkg/validator"
)

// NewsletterService handles newsletter subscriptions and email campaigns
type NewsletterService struct {
	newsletterRepo repositories.NewsletterRepository
	campaignRepo   repositories.CampaignRepository
	mail           *MailService
}

// NewNewsletterService creates a new newsletter service
func NewNewsletterService(
	newsletterRepo repositories.NewsletterRepository,
	campaignRepo repositories.CampaignRepository,
	mail *MailService,
) *NewsletterService {
	return &NewsletterService{
		newsletterRepo: newsletterRepo,
		campaignRepo:   campaignRepo,
		mail:           mail,
	}
}

// SubscribeInput represents a public newsletter signup
type SubscribeInput struct {
	Email string  `json:"email" validate:"required,email"`
	Name  *string `json:"name" validate:"omitempty,max=200"`
}

// Subscribe adds an email to the newsletter list
func (s *NewsletterService) Subscribe(ctx context.Context, input *SubscribeInput) (*models.NewsletterSubscription, error) {
	if fields := validator.Struct(input); fields != nil {
		return nil, domain.NewValidationError(fields...)
	}

	exists, err := s.newsletterRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrAlreadySubscribed
	}

	sub := &models.NewsletterSubscription{
		Email: input.Email,
		Name:  input.Name,
	}
	if err := s.newsletterRepo.Subscribe(ctx, sub); err != nil {
		return nil, err
	}

	log.Printf("✅ Newsletter subscription: %s", sub.Email)
	return sub, nil
}

// ListSubscribers returns a page of subscribers (admin surface)
func (s *NewsletterService) ListSubscribers(ctx context.Context, page, limit int) (*pagination.Response, error) {
	params := pagination.Normalize(page, limit)
	subs, total, err := s.newsletterRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewResponse(subs, params, total), nil
}

// CampaignInput represents campaign creation input
type CampaignInput struct {
	Subject     string     `json:"subject" validate:"required,max=200"`
	Body        string     `json:"body" validate:"required"`
	Audience    string     `json:"audience" validate:"required"`
	EventID     *uint      `json:"event_id"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

// CreateCampaign records a campaign as draft, or scheduled when a future
// send time is given
func (s *NewsletterService) CreateCampaign(ctx context.Context, principal domain.Principal, input *CampaignInput) (*models.EmailCampaign, error) {
	if fields := validator.Struct(input); fields != nil {
		return nil, domain.NewValidationError(fields...)
	}
	if !domain.ValidCampaignAudience(domain.CampaignAudience(input.Audience)) {
		return nil, domain.NewValidationError(domain.FieldError{
			Field:   "audience",
			Message: "Must be one of: subscribers registrants all",
		})
	}

	status := domain.CampaignDraft
	if input.ScheduledAt != nil {
		if input.ScheduledAt.Before(time.Now()) {
			return nil, domain.NewValidationError(domain.FieldError{
				Field:   "scheduled_at",
				Message: "Scheduled time must be in the future",
			})
		}
		status = domain.CampaignScheduled
	}

	campaign := &models.EmailCampaign{
		Subject:     input.Subject,
		Body:        input.Body,
		Audience:    input.Audience,
		EventID:     input.EventID,
		Status:      string(status),
		ScheduledAt: input.ScheduledAt,
		CreatedBy:   principal.UserID,
	}
	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		return nil, err
	}

	log.Printf("✅ Campaign %d created (%s, audience: %s)", campaign.ID, status, campaign.Audience)
	return campaign, nil
}

// ListCampaigns returns a page of campaigns (admin surface)
func (s *NewsletterService) ListCampaigns(ctx context.Context, page, limit int) (*pagination.Response, error) {
	params := pagination.Normalize(page, limit)
	campaigns, total, err := s.campaignRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewResponse(campaigns, params, total), nil
}

// GetCampaign returns a single campaign
func (s *NewsletterService) GetCampaign(ctx context.Context, id uint) (*models.EmailCampaign, error) {
	return s.campaignRepo.GetByID(ctx, id)
}

// SendCampaign dispatches a campaign immediately. Already-sent campaigns
// are rejected; sending is not retried per recipient.
func (s *NewsletterService) SendCampaign(ctx context.Context, id uint) (*models.EmailCampaign, error) {
	campaign, err := s.campaignRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign.Status == string(domain.CampaignSent) {
		return nil, domain.ErrCampaignSent
	}
	return s.dispatch(ctx, campaign)
}

// DispatchDue sends every scheduled campaign whose send time has passed.
// Called from the cron scheduler.
func (s *NewsletterService) DispatchDue(ctx context.Context) {
	due, err := s.campaignRepo.DueScheduled(ctx)
	if err != nil {
		log.Printf("❌ Scheduled campaign lookup failed: %v", err)
		return
	}

	for _, campaign := range due {
		if _, err := s.dispatch(ctx, campaign); err != nil {
			log.Printf("❌ Scheduled campaign %d failed: %v", campaign.ID, err)
		}
	}
}

// dispatch resolves the audience, sends, and records the outcome
func (s *NewsletterService) dispatch(ctx context.Context, campaign *models.EmailCampaign) (*models.EmailCampaign, error) {
	recipients, err := s.resolveAudience(ctx, campaign)
	if err != nil {
		return nil, err
	}

	sent := s.mail.SendBatch(ctx, recipients, campaign.Subject, campaign.Body)

	now := time.Now()
	campaign.SentAt = &now
	campaign.Recipients = sent
	if sent == 0 && len(recipients) > 0 {
		campaign.Status = string(domain.CampaignFailed)
	} else {
		campaign.Status = string(domain.CampaignSent)
	}

	if err := s.campaignRepo.Update(ctx, campaign); err != nil {
		return nil, err
	}

	log.Printf("✅ Campaign %d dispatched: %d/%d recipients", campaign.ID, sent, len(recipients))
	return campaign, nil
}

// resolveAudience builds the de-duplicated recipient list
func (s *NewsletterService) resolveAudience(ctx context.Context, campaign *models.EmailCampaign) ([]string, error) {
	var lists [][]string

	switch domain.CampaignAudience(campaign.Audience) {
	case domain.AudienceSubscribers:
		emails, err := s.newsletterRepo.SubscriberEmails(ctx)
		if err != nil {
			return nil, err
		}
		lists = append(lists, emails)
	case domain.AudienceRegistrants:
		emails, err := s.campaignRepo.RegistrantEmails(ctx, campaign.EventID)
		if err != nil {
			return nil, err
		}
		lists = append(lists, emails)
	case domain.AudienceAll:
		subs, err := s.newsletterRepo.SubscriberEmails(ctx)
		if err != nil {
			return nil, err
		}
		regs, err := s.campaignRepo.RegistrantEmails(ctx, campaign.EventID)
		if err != nil {
			return nil, err
		}
		lists = append(lists, subs, regs)
	}

	seen := make(map[string]bool)
	var recipients []string
	for _, list := range lists {
		for _, email := range list {
			if !seen[email] {
				seen[email] = true
				recipients = append(recipients, email)
			}
		}
	}
	return recipients, nil
}
