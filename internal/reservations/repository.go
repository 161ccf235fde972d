package reservations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"teatro/internal/customers"
	"teatro/internal/events"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// Transactional state machine operations
	CreateWithAvailabilityCheck(ctx context.Context, reservation *Reservation) error
	Confirm(ctx context.Context, id uuid.UUID) (*Reservation, error)
	Cancel(ctx context.Context, id uuid.UUID, reason string) (*Reservation, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Queries
	GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error)
	GetByCode(ctx context.Context, code string) (*Reservation, error)
	GetByCustomerID(ctx context.Context, customerID uuid.UUID) ([]Reservation, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID) ([]Reservation, error)
	GetAll(ctx context.Context, query ReservationListQuery) ([]Reservation, int64, error)
	GetStalePending(ctx context.Context, olderThan time.Time) ([]Reservation, error)
	CountFreePassByCustomer(ctx context.Context, customerID uuid.UUID) (int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// lockEvent loads the event row under FOR UPDATE so concurrent availability
// checks against the same event serialize. Ticket configs are read afterwards
// without a lock; the parent row lock covers them.
func lockEvent(tx *gorm.DB, eventID uuid.UUID) (*events.Event, error) {
	var event events.Event
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", eventID).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, events.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to lock event: %w", err)
	}

	if err := tx.Where("event_id = ?", eventID).Find(&event.TicketConfigs).Error; err != nil {
		return nil, fmt.Errorf("failed to load ticket configs: %w", err)
	}

	return &event, nil
}

// lockCustomer loads the customer row under FOR UPDATE so loyalty counter
// updates never race.
func lockCustomer(tx *gorm.DB, customerID uuid.UUID) (*customers.Customer, error) {
	var customer customers.Customer
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", customerID).
		First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customers.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to lock customer: %w", err)
	}
	return &customer, nil
}

// lockReservation loads the reservation row under FOR UPDATE so concurrent
// state transitions on the same reservation serialize.
func lockReservation(tx *gorm.DB, id uuid.UUID) (*Reservation, error) {
	var reservation Reservation
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to lock reservation: %w", err)
	}
	return &reservation, nil
}

func saveLoyaltyCounters(tx *gorm.DB, customer *customers.Customer) error {
	return tx.Model(customer).Updates(map[string]interface{}{
		"attended_events": customer.AttendedEvents,
		"free_passes":     customer.FreePasses,
		"updated_at":      time.Now(),
	}).Error
}

func confirmedCount(tx *gorm.DB, eventID uuid.UUID, ticketType events.TicketType) (int, error) {
	var count int64
	err := tx.Model(&Reservation{}).
		Where("event_id = ? AND ticket_type = ? AND status = ?", eventID, ticketType, StatusConfirmed).
		Count(&count).Error
	return int(count), err
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key")
}

// CreateWithAvailabilityCheck inserts a reservation atomically with the
// availability check. Lock order is event row first, customer row second;
// Confirm follows the same order.
func (r *repository) CreateWithAvailabilityCheck(ctx context.Context, reservation *Reservation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event, err := lockEvent(tx, reservation.EventID)
		if err != nil {
			return err
		}

		if !event.IsCurrent() {
			return events.ErrEventNotCurrent
		}

		capacity, configured := event.CapacityFor(reservation.TicketType)
		if !configured {
			return events.ErrTicketTypeNotConfigured
		}

		confirmed, err := confirmedCount(tx, reservation.EventID, reservation.TicketType)
		if err != nil {
			return fmt.Errorf("failed to count confirmed reservations: %w", err)
		}
		if confirmed >= capacity {
			return ErrNoAvailability
		}

		if reservation.FreePass {
			customer, err := lockCustomer(tx, reservation.CustomerID)
			if err != nil {
				return err
			}
			if !customer.Active {
				return customers.ErrInactiveCustomer
			}
			if err := customer.UseFreePass(); err != nil {
				return err
			}
			if err := saveLoyaltyCounters(tx, customer); err != nil {
				return fmt.Errorf("failed to consume free pass: %w", err)
			}

			// Free-pass reservations skip the pending state entirely
			now := time.Now()
			reservation.Status = StatusConfirmed
			reservation.PricePaid = 0
			reservation.ConfirmedAt = &now
		} else {
			reservation.Status = StatusPending
		}

		if err := tx.Create(reservation).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrCodeCollision
			}
			return fmt.Errorf("failed to create reservation: %w", err)
		}

		return nil
	})
}

// Confirm transitions a pending reservation to confirmed. Availability is
// re-checked under the event lock because confirmed reservations are what
// consume capacity, and the price is read strictly from the event's config.
// Attendance processing runs in the same transaction under the customer lock.
func (r *repository) Confirm(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	var confirmed *Reservation

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := lockReservation(tx, id)
		if err != nil {
			return err
		}

		if !reservation.Status.CanBeConfirmed() {
			return fmt.Errorf("%w: cannot confirm %s reservation", ErrInvalidState, reservation.Status)
		}

		event, err := lockEvent(tx, reservation.EventID)
		if err != nil {
			return err
		}
		if !event.IsCurrent() {
			return events.ErrEventNotCurrent
		}

		price, ok := event.Price(reservation.TicketType)
		if !ok {
			return ErrPriceUnavailable
		}

		capacity, configured := event.CapacityFor(reservation.TicketType)
		if !configured {
			return events.ErrTicketTypeNotConfigured
		}
		count, err := confirmedCount(tx, reservation.EventID, reservation.TicketType)
		if err != nil {
			return fmt.Errorf("failed to count confirmed reservations: %w", err)
		}
		if count >= capacity {
			return ErrNoAvailability
		}

		reservation.Confirm(price)
		err = tx.Model(reservation).Updates(map[string]interface{}{
			"status":       reservation.Status,
			"price_paid":   reservation.PricePaid,
			"confirmed_at": reservation.ConfirmedAt,
			"updated_at":   reservation.UpdatedAt,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to confirm reservation: %w", err)
		}

		customer, err := lockCustomer(tx, reservation.CustomerID)
		if err != nil {
			return err
		}
		customer.RecordAttendance()
		if err := saveLoyaltyCounters(tx, customer); err != nil {
			return fmt.Errorf("failed to process attendance: %w", err)
		}

		confirmed = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}

	return confirmed, nil
}

// Cancel transitions a pending or confirmed reservation to cancelled and
// refunds the free pass when one funded it.
func (r *repository) Cancel(ctx context.Context, id uuid.UUID, reason string) (*Reservation, error) {
	var cancelled *Reservation

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := lockReservation(tx, id)
		if err != nil {
			return err
		}

		if !reservation.CanBeCancelled() {
			return fmt.Errorf("%w: cannot cancel %s reservation", ErrInvalidState, reservation.Status)
		}

		if reservation.FreePass {
			customer, err := lockCustomer(tx, reservation.CustomerID)
			if err != nil {
				return err
			}
			customer.RefundFreePass()
			if err := saveLoyaltyCounters(tx, customer); err != nil {
				return fmt.Errorf("failed to refund free pass: %w", err)
			}
		}

		reservation.Cancel(reason)
		err = tx.Model(reservation).Updates(map[string]interface{}{
			"status":            reservation.Status,
			"cancelled_at":      reservation.CancelledAt,
			"cancellation_note": reservation.CancellationNote,
			"updated_at":        reservation.UpdatedAt,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to cancel reservation: %w", err)
		}

		cancelled = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}

	return cancelled, nil
}

// Delete hard-deletes a reservation. Permitted only while the reservation is
// still cancelable. Loyalty effects are not reversed.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservation, err := lockReservation(tx, id)
		if err != nil {
			return err
		}

		if !reservation.CanBeCancelled() {
			return fmt.Errorf("%w: cannot delete %s reservation", ErrInvalidState, reservation.Status)
		}

		return tx.Delete(reservation).Error
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	var reservation Reservation
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Event").
		Preload("Event.TicketConfigs").
		Where("id = ?", id).
		First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Reservation, error) {
	var reservation Reservation
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Event").
		Where("code = ?", code).
		First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

func (r *repository) GetByCustomerID(ctx context.Context, customerID uuid.UUID) ([]Reservation, error) {
	var result []Reservation
	err := r.db.WithContext(ctx).
		Preload("Event").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&result).Error
	return result, err
}

func (r *repository) GetByEventID(ctx context.Context, eventID uuid.UUID) ([]Reservation, error) {
	var result []Reservation
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Find(&result).Error
	return result, err
}

func (r *repository) GetAll(ctx context.Context, query ReservationListQuery) ([]Reservation, int64, error) {
	var result []Reservation
	var totalCount int64

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	db := r.db.WithContext(ctx).Model(&Reservation{})

	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}

	if query.DateFrom != "" {
		if dateFrom, err := time.Parse("2006-01-02", query.DateFrom); err == nil {
			db = db.Where("created_at >= ?", dateFrom)
		}
	}

	if query.DateTo != "" {
		if dateTo, err := time.Parse("2006-01-02", query.DateTo); err == nil {
			dateTo = dateTo.Add(24 * time.Hour)
			db = db.Where("created_at < ?", dateTo)
		}
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := db.
		Preload("Customer").
		Preload("Event").
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&result).Error

	return result, totalCount, err
}

// GetStalePending returns pending reservations older than the cutoff. The
// expiration sweep itself is run by an external scheduler; this is read-only.
func (r *repository) GetStalePending(ctx context.Context, olderThan time.Time) ([]Reservation, error) {
	var result []Reservation
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", StatusPending, olderThan).
		Order("created_at ASC").
		Find(&result).Error
	return result, err
}

// CountFreePassByCustomer counts every reservation a customer ever funded
// with a free pass, regardless of current state. Reconciliation treats these
// as historically consumed passes.
func (r *repository) CountFreePassByCustomer(ctx context.Context, customerID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Reservation{}).
		Where("customer_id = ? AND free_pass = ?", customerID, true).
		Count(&count).Error
	return int(count), err
}
