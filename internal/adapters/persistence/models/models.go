package models

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"apcb-events/internal/core/domain"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	FirstName   string         `gorm:"size:100;not null" json:"first_name"`
	LastName    string         `gorm:"size:100;not null" json:"last_name"`
	Email       string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password    string         `gorm:"size:255;not null" json:"-"`
	PhoneNumber *string        `gorm:"size:30" json:"phone_number"`
	Role        string         `gorm:"size:20;not null;default:'ordinary_user'" json:"role"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID          uint      `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	PhoneNumber *string   `json:"phone_number,omitempty"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Event Tables
// ============================================================

// Event represents events table
type Event struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Title            string         `gorm:"size:200;not null" json:"title"`
	Description      string         `gorm:"type:text" json:"description"`
	StartDate        time.Time      `gorm:"not null;index" json:"start_date"`
	EndDate          time.Time      `gorm:"not null" json:"end_date"`
	Location         *string        `gorm:"size:200" json:"location"`
	Price            string         `gorm:"size:50;not null;default:'0'" json:"price"`
	MaxAttendees     *int           `json:"max_attendees"`
	CurrentAttendees int            `gorm:"not null;default:0" json:"current_attendees"`
	ImageURL         *string        `gorm:"size:500" json:"image_url"`
	Tags             string         `gorm:"size:500" json:"-"`
	Featured         bool           `gorm:"default:false;index" json:"featured"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Event) TableName() string {
	return "events"
}

// TagList splits the stored comma-joined tags preserving order
func (e *Event) TagList() []string {
	if e.Tags == "" {
		return []string{}
	}
	parts := strings.Split(e.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// SetTags stores an ordered tag list as a comma-joined column
func (e *Event) SetTags(tags []string) {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	e.Tags = strings.Join(cleaned, ",")
}

// IsFull reports whether the event reached its attendee cap
func (e *Event) IsFull() bool {
	return e.MaxAttendees != nil && e.CurrentAttendees >= *e.MaxAttendees
}

// EventResponse DTO
type EventResponse struct {
	ID               uint      `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	Location         *string   `json:"location"`
	Price            string    `json:"price"`
	MaxAttendees     *int      `json:"max_attendees"`
	CurrentAttendees int       `json:"current_attendees"`
	ImageURL         *string   `json:"image_url"`
	Tags             []string  `json:"tags"`
	Featured         bool      `json:"featured"`
	CreatedAt        time.Time `json:"created_at"`
}

func (e *Event) ToResponse() *EventResponse {
	return &EventResponse{
		ID:               e.ID,
		Title:            e.Title,
		Description:      e.Description,
		StartDate:        e.StartDate,
		EndDate:          e.EndDate,
		Location:         e.Location,
		Price:            e.Price,
		MaxAttendees:     e.MaxAttendees,
		CurrentAttendees: e.CurrentAttendees,
		ImageURL:         e.ImageURL,
		Tags:             e.TagList(),
		Featured:         e.Featured,
		CreatedAt:        e.CreatedAt,
	}
}

// ============================================================
// Registration Tables
// ============================================================

// EventRegistration represents event_registrations table
type EventRegistration struct {
	ID                    uint           `gorm:"primaryKey" json:"id"`
	RegistrationNumber    string         `gorm:"uniqueIndex;size:10;not null" json:"registration_number"`
	UserID                uint           `gorm:"not null;index:idx_user_event" json:"user_id"`
	EventID               uint           `gorm:"not null;index:idx_user_event" json:"event_id"`
	PaymentStatus         string         `gorm:"size:20;not null;default:'pending';index" json:"payment_status"`
	PaymentMethod         *string        `gorm:"size:20" json:"payment_method"`
	HasPaid               bool           `gorm:"not null;default:false" json:"has_paid"`
	PaymentEvidence       *string        `gorm:"size:500" json:"payment_evidence"`
	DelegateType          string         `gorm:"size:20;not null" json:"delegate_type"`
	Country               string         `gorm:"size:100;not null" json:"country"`
	Organization          string         `gorm:"size:200;not null" json:"organization"`
	Position              string         `gorm:"size:200;not null" json:"position"`
	Notes                 *string        `gorm:"type:text" json:"notes"`
	GroupSize             *int           `json:"group_size"`
	GroupPaymentAmount    *string        `gorm:"size:50" json:"group_payment_amount"`
	GroupPaymentCurrency  *string        `gorm:"size:10" json:"group_payment_currency"`
	OrganizationReference *string        `gorm:"size:200" json:"organization_reference"`
	RegisteredAt          time.Time      `gorm:"autoCreateTime" json:"registered_at"`
	UpdatedAt             time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Event *Event `gorm:"foreignKey:EventID" json:"event,omitempty"`
}

func (EventRegistration) TableName() string {
	return "event_registrations"
}

// IsActive reports whether the registration still holds a seat
func (r *EventRegistration) IsActive() bool {
	return domain.PaymentStatus(r.PaymentStatus).Active()
}

// RegistrationSequence backs the registration number allocator.
// A single row is incremented inside the creation transaction so two
// concurrent registrations can never read the same value.
type RegistrationSequence struct {
	ID    uint  `gorm:"primaryKey" json:"id"`
	Value int64 `gorm:"not null;default:0" json:"value"`
}

func (RegistrationSequence) TableName() string {
	return "registration_sequences"
}

// ============================================================
// Newsletter & Campaign Tables
// ============================================================

// NewsletterSubscription represents newsletter_subscriptions table
type NewsletterSubscription struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Name         *string   `gorm:"size:200" json:"name"`
	SubscribedAt time.Time `gorm:"autoCreateTime" json:"subscribed_at"`
}

func (NewsletterSubscription) TableName() string {
	return "newsletter_subscriptions"
}

// EmailCampaign represents email_campaigns table
type EmailCampaign struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Subject     string     `gorm:"size:200;not null" json:"subject"`
	Body        string     `gorm:"type:text;not null" json:"body"`
	Audience    string     `gorm:"size:20;not null;default:'subscribers'" json:"audience"`
	EventID     *uint      `gorm:"index" json:"event_id"`
	Status      string     `gorm:"size:20;not null;default:'draft';index" json:"status"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	SentAt      *time.Time `json:"sent_at"`
	Recipients  int        `gorm:"not null;default:0" json:"recipients"`
	CreatedBy   uint       `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Creator *User `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
}

func (EmailCampaign) TableName() string {
	return "email_campaigns"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Event{},
		&EventRegistration{},
		&RegistrationSequence{},
		&NewsletterSubscription{},
		&EmailCampaign{},
	)
}
