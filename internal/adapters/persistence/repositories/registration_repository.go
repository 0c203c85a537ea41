package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"apcb-events/internal/adapters/persistence/models"
	"apcb-events/internal/core/domain"
	"apcb-events/internal/pkg/pagination"
)

// registrationRepository implements RegistrationRepository with GORM
type registrationRepository struct {
	db *gorm.DB
}

// NewRegistrationRepository creates a new registration repository
func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

// nextRegistrationNumber increments the single sequence row inside the
// caller's transaction and returns the zero-padded value. The row lock
// taken by the UPDATE serialises concurrent allocations.
func nextRegistrationNumber(tx *gorm.DB) (string, error) {
	result := tx.Model(&models.RegistrationSequence{}).
		Where("id = ?", 1).
		UpdateColumn("value", gorm.Expr("value + 1"))
	if result.Error != nil {
		return "", result.Error
	}
	if result.RowsAffected == 0 {
		// First allocation ever: seed the sequence row
		if err := tx.Create(&models.RegistrationSequence{ID: 1, Value: 1}).Error; err != nil {
			return "", err
		}
		return fmt.Sprintf("%04d", 1), nil
	}

	var seq models.RegistrationSequence
	if err := tx.First(&seq, 1).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", seq.Value), nil
}

// CreateWithClaim claims a seat, allocates the registration number and
// inserts the row in one transaction. Any failure rolls the whole
// creation back so the counter and the ledger never diverge.
func (r *registrationRepository) CreateWithClaim(ctx context.Context, reg *models.EventRegistration) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Duplicate-active guard under lock: at most one non-cancelled
		// registration per (user, event)
		var existing int64
		err := tx.Model(&models.EventRegistration{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND event_id = ? AND payment_status <> ?",
				reg.UserID, reg.EventID, string(domain.PaymentCancelled)).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return domain.ErrAlreadyRegistered
		}

		if err := claimSeat(tx, reg.EventID); err != nil {
			return err
		}

		number, err := nextRegistrationNumber(tx)
		if err != nil {
			return err
		}
		reg.RegistrationNumber = number

		return tx.Create(reg).Error
	})
}

// GetByID returns a registration with its user and event
func (r *registrationRepository) GetByID(ctx context.Context, id uint) (*models.EventRegistration, error) {
	var reg models.EventRegistration
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Event").
		First(&reg, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, err
	}
	return &reg, nil
}

// GetActiveByUserAndEvent returns the active registration for a
// (user, event) pair, or nil when none exists
func (r *registrationRepository) GetActiveByUserAndEvent(ctx context.Context, userID, eventID uint) (*models.EventRegistration, error) {
	var reg models.EventRegistration
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ? AND payment_status <> ?",
			userID, eventID, string(domain.PaymentCancelled)).
		First(&reg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// ListByUser returns all registrations of a user, newest first, with the
// event embedded
func (r *registrationRepository) ListByUser(ctx context.Context, userID uint) ([]*models.EventRegistration, error) {
	var regs []*models.EventRegistration
	err := r.db.WithContext(ctx).
		Preload("Event").
		Where("user_id = ?", userID).
		Order("registered_at DESC").
		Find(&regs).Error
	return regs, err
}

// ListByEvent returns a page of an event's registrations
func (r *registrationRepository) ListByEvent(ctx context.Context, eventID uint, params *pagination.Params) ([]*models.EventRegistration, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.EventRegistration{}).
		Where("event_id = ?", eventID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var regs []*models.EventRegistration
	err := query.
		Preload("User").
		Order("registration_number ASC").
		Offset(params.Offset).
		Limit(params.Limit).
		Find(&regs).Error
	return regs, total, err
}

// List returns a page of all registrations, optionally by payment status
func (r *registrationRepository) List(ctx context.Context, params *pagination.Params, status string) ([]*models.EventRegistration, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.EventRegistration{})
	if status != "" {
		query = query.Where("payment_status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var regs []*models.EventRegistration
	err := query.
		Preload("User").
		Preload("Event").
		Order("registered_at DESC").
		Offset(params.Offset).
		Limit(params.Limit).
		Find(&regs).Error
	return regs, total, err
}

// Cancel marks the registration cancelled and releases its seat. The
// UPDATE is guarded on the current status so two concurrent cancels can
// never release the same seat twice: the loser matches zero rows and the
// counter is left alone.
func (r *registrationRepository) Cancel(ctx context.Context, id, eventID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.EventRegistration{}).
			Where("id = ? AND payment_status <> ?", id, string(domain.PaymentCancelled)).
			Updates(map[string]interface{}{
				"payment_status": string(domain.PaymentCancelled),
				"has_paid":       false,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrAlreadyCancelled
		}
		return releaseSeat(tx, eventID)
	})
}

// Reactivate re-claims a seat for a cancelled registration being reverted
// by finance. Fails with domain.ErrEventFull when no seat is free. The
// UPDATE is guarded the same way Cancel is, so a seat is only claimed
// when this call is the one that flipped the row out of cancelled.
func (r *registrationRepository) Reactivate(ctx context.Context, id, eventID uint, status string, hasPaid bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.EventRegistration{}).
			Where("id = ? AND payment_status = ?", id, string(domain.PaymentCancelled)).
			Updates(map[string]interface{}{
				"payment_status": status,
				"has_paid":       hasPaid,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotCancelled
		}
		return claimSeat(tx, eventID)
	})
}

// SetPaymentState updates status and hasPaid without touching the counter
func (r *registrationRepository) SetPaymentState(ctx context.Context, id uint, status string, hasPaid bool) error {
	return r.db.WithContext(ctx).
		Model(&models.EventRegistration{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"payment_status": status,
			"has_paid":       hasPaid,
		}).Error
}

// SetEvidence points the registration at a new evidence blob
func (r *registrationRepository) SetEvidence(ctx context.Context, id uint, path string) error {
	return r.db.WithContext(ctx).
		Model(&models.EventRegistration{}).
		Where("id = ?", id).
		Update("payment_evidence", path).Error
}

// HardDelete removes the row permanently, releasing the seat when the
// registration was still active
func (r *registrationRepository) HardDelete(ctx context.Context, id, eventID uint, active bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Unscoped().Delete(&models.EventRegistration{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrRegistrationNotFound
		}
		if active {
			return releaseSeat(tx, eventID)
		}
		return nil
	})
}
