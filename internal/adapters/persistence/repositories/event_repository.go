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

// eventRepository implements EventRepository with GORM
type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

// Create inserts a new event
func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// GetByID returns an event by ID
func (r *eventRepository) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

// Update saves event changes. CurrentAttendees is owned by the
// registration ledger and is deliberately excluded.
func (r *eventRepository) Update(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).
		Model(event).
		Omit("current_attendees").
		Updates(map[string]interface{}{
			"title":         event.Title,
			"description":   event.Description,
			"start_date":    event.StartDate,
			"end_date":      event.EndDate,
			"location":      event.Location,
			"price":         event.Price,
			"max_attendees": event.MaxAttendees,
			"image_url":     event.ImageURL,
			"tags":          event.Tags,
			"featured":      event.Featured,
		}).Error
}

// Delete soft-deletes an event
func (r *eventRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Event{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// List returns a page of events with optional filters
func (r *eventRepository) List(ctx context.Context, params *pagination.Params, filter EventFilter) ([]*models.Event, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Event{})

	if filter.Tag != "" {
		query = query.Where("FIND_IN_SET(?, tags) > 0", filter.Tag)
	}
	if filter.Featured != nil {
		query = query.Where("featured = ?", *filter.Featured)
	}
	if filter.Upcoming {
		query = query.Where("end_date >= ?", time.Now())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []*models.Event
	err := query.
		Order("featured DESC, start_date ASC").
		Offset(params.Offset).
		Limit(params.Limit).
		Find(&events).Error
	return events, total, err
}

// CountActiveRegistrations counts non-cancelled registrations of an event
func (r *eventRepository) CountActiveRegistrations(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.EventRegistration{}).
		Where("event_id = ? AND payment_status <> ?", eventID, string(domain.PaymentCancelled)).
		Count(&count).Error
	return count, err
}

// claimSeat atomically takes one seat on the event. The capacity guard
// lives in the WHERE clause so two concurrent claims can never both
// succeed on the last seat.
func claimSeat(tx *gorm.DB, eventID uint) error {
	result := tx.Model(&models.Event{}).
		Where("id = ? AND (max_attendees IS NULL OR current_attendees < max_attendees)", eventID).
		UpdateColumn("current_attendees", gorm.Expr("current_attendees + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Either the event is gone or it is full; look once to tell apart
		var count int64
		if err := tx.Model(&models.Event{}).Where("id = ?", eventID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrEventNotFound
		}
		return domain.ErrEventFull
	}
	return nil
}

// releaseSeat atomically returns one seat, floored at zero
func releaseSeat(tx *gorm.DB, eventID uint) error {
	return tx.Model(&models.Event{}).
		Where("id = ? AND current_attendees > 0", eventID).
		UpdateColumn("current_attendees", gorm.Expr("current_attendees - 1")).Error
}
