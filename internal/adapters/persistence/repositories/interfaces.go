package repositories

import (
	"context"

	"apcb-events/internal/adapters/persistence/models"
	"apcb-events/internal/pkg/pagination"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, params *pagination.Params, role string) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) error
}

// EventRepository defines event repository interface
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uint) (*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, params *pagination.Params, filter EventFilter) ([]*models.Event, int64, error)
	CountActiveRegistrations(ctx context.Context, eventID uint) (int64, error)
}

// EventFilter narrows event listings
type EventFilter struct {
	Tag      string
	Featured *bool
	Upcoming bool
}

// RegistrationRepository defines the registration ledger interface.
// Mutations that touch the attendee counter are transactional: the counter
// and the registration row must never diverge.
type RegistrationRepository interface {
	// CreateWithClaim atomically claims a seat, allocates the next
	// registration number and inserts the row. Returns domain.ErrEventFull
	// when the capacity claim finds no free seat and
	// domain.ErrAlreadyRegistered when an active row already exists for
	// the (user, event) pair.
	CreateWithClaim(ctx context.Context, reg *models.EventRegistration) error

	GetByID(ctx context.Context, id uint) (*models.EventRegistration, error)
	GetActiveByUserAndEvent(ctx context.Context, userID, eventID uint) (*models.EventRegistration, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.EventRegistration, error)
	ListByEvent(ctx context.Context, eventID uint, params *pagination.Params) ([]*models.EventRegistration, int64, error)
	List(ctx context.Context, params *pagination.Params, status string) ([]*models.EventRegistration, int64, error)

	// Cancel marks the registration cancelled and releases its seat
	Cancel(ctx context.Context, id, eventID uint) error
	// Reactivate moves a cancelled registration back to an active status,
	// re-claiming a seat (may fail with domain.ErrEventFull)
	Reactivate(ctx context.Context, id, eventID uint, status string, hasPaid bool) error
	// SetPaymentState updates status/hasPaid without touching the counter
	SetPaymentState(ctx context.Context, id uint, status string, hasPaid bool) error
	SetEvidence(ctx context.Context, id uint, path string) error
	// HardDelete removes the row, releasing the seat when it was active
	HardDelete(ctx context.Context, id, eventID uint, active bool) error
}

// NewsletterRepository defines newsletter subscription interface
type NewsletterRepository interface {
	Subscribe(ctx context.Context, sub *models.NewsletterSubscription) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, params *pagination.Params) ([]*models.NewsletterSubscription, int64, error)
	SubscriberEmails(ctx context.Context) ([]string, error)
}

// CampaignRepository defines email campaign interface
type CampaignRepository interface {
	Create(ctx context.Context, campaign *models.EmailCampaign) error
	GetByID(ctx context.Context, id uint) (*models.EmailCampaign, error)
	Update(ctx context.Context, campaign *models.EmailCampaign) error
	List(ctx context.Context, params *pagination.Params) ([]*models.EmailCampaign, int64, error)
	DueScheduled(ctx context.Context) ([]*models.EmailCampaign, error)
	// RegistrantEmails returns emails of users holding an active
	// registration, optionally narrowed to one event
	RegistrantEmails(ctx context.Context, eventID *uint) ([]string, error)
}
