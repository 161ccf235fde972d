package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}, configs []TicketConfig) (*Event, error)
	GetAll(ctx context.Context, query EventListQuery) ([]Event, int64, error)
	GetCurrent(ctx context.Context, limit int) ([]Event, error)
	Deactivate(ctx context.Context, id uuid.UUID) error

	// Availability reads against the reservations table
	ConfirmedCount(ctx context.Context, eventID uuid.UUID, ticketType TicketType) (int, error)
	HasConfirmedReservations(ctx context.Context, eventID uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).
		Preload("TicketConfigs").
		Where("id = ?", id).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

// Update applies field updates and, when configs is non-nil, replaces the
// event's ticket configuration rows in the same transaction.
func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}, configs []TicketConfig) (*Event, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event Event
		if err := tx.Where("id = ?", id).First(&event).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		if len(updates) > 0 {
			if err := tx.Model(&event).Updates(updates).Error; err != nil {
				return err
			}
		}

		if configs != nil {
			if err := tx.Where("event_id = ?", id).Delete(&TicketConfig{}).Error; err != nil {
				return fmt.Errorf("failed to delete ticket configs: %w", err)
			}
			for i := range configs {
				configs[i].EventID = id
			}
			if err := tx.Create(&configs).Error; err != nil {
				return fmt.Errorf("failed to create ticket configs: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

func (r *repository) GetAll(ctx context.Context, query EventListQuery) ([]Event, int64, error) {
	var result []Event
	var totalCount int64

	db := r.db.WithContext(ctx).Model(&Event{})

	if query.Search != "" {
		searchTerm := "%" + strings.ToLower(query.Search) + "%"
		db = db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(venue) LIKE ?",
			searchTerm, searchTerm, searchTerm)
	}

	if query.Category != "" {
		db = db.Where("category = ?", query.Category)
	}

	if query.Active != nil {
		db = db.Where("active = ?", *query.Active)
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = 10
	}

	offset := (query.Page - 1) * query.Limit

	err := db.Preload("TicketConfigs").
		Order("date_time ASC").
		Offset(offset).
		Limit(query.Limit).
		Find(&result).Error

	return result, totalCount, err
}

func (r *repository) GetCurrent(ctx context.Context, limit int) ([]Event, error) {
	var result []Event
	err := r.db.WithContext(ctx).
		Preload("TicketConfigs").
		Where("active = ? AND date_time > ?", true, time.Now()).
		Order("date_time ASC").
		Limit(limit).
		Find(&result).Error
	return result, err
}

func (r *repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&Event{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"active":     false,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *repository) ConfirmedCount(ctx context.Context, eventID uuid.UUID, ticketType TicketType) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("reservations").
		Where("event_id = ? AND ticket_type = ? AND status = ?", eventID, ticketType, "CONFIRMED").
		Count(&count).Error
	return int(count), err
}

func (r *repository) HasConfirmedReservations(ctx context.Context, eventID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("reservations").
		Where("event_id = ? AND status = ?", eventID, "CONFIRMED").
		Count(&count).Error
	return count > 0, err
}
