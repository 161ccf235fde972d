package events

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string    `json:"name" gorm:"not null;size:255"`
	Description string    `json:"description" gorm:"type:text"`
	Venue       string    `json:"venue" gorm:"size:255"`
	DateTime    time.Time `json:"date_time" gorm:"not null"`
	Category    Category  `json:"category" gorm:"type:varchar(20);not null"`
	Active      bool      `json:"active" gorm:"default:true"`

	// Per-ticket-type price and capacity rows
	TicketConfigs []TicketConfig `json:"ticket_configs" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type TicketConfig struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID    uuid.UUID  `json:"event_id" gorm:"type:uuid;not null;index"`
	TicketType TicketType `json:"ticket_type" gorm:"type:varchar(30);not null"`
	Price      float64    `json:"price" gorm:"not null;check:price >= 0"`
	Capacity   int        `json:"capacity" gorm:"not null;check:capacity > 0"`
}

// IsCurrent reports whether the event is active and still in the future.
func (e *Event) IsCurrent() bool {
	return e.Active && e.DateTime.After(time.Now())
}

// Price returns the configured price for a ticket type.
func (e *Event) Price(ticketType TicketType) (float64, bool) {
	for _, cfg := range e.TicketConfigs {
		if cfg.TicketType == ticketType {
			return cfg.Price, true
		}
	}
	return 0, false
}

// CapacityFor returns the configured capacity for a ticket type.
func (e *Event) CapacityFor(ticketType TicketType) (int, bool) {
	for _, cfg := range e.TicketConfigs {
		if cfg.TicketType == ticketType {
			return cfg.Capacity, true
		}
	}
	return 0, false
}

// HasTicketType reports whether a ticket type is configured on the event.
func (e *Event) HasTicketType(ticketType TicketType) bool {
	_, ok := e.Price(ticketType)
	return ok
}

// ConfiguredTypes lists the ticket types the event sells.
func (e *Event) ConfiguredTypes() []TicketType {
	result := make([]TicketType, len(e.TicketConfigs))
	for i, cfg := range e.TicketConfigs {
		result[i] = cfg.TicketType
	}
	return result
}

// TotalCapacity sums the per-type capacities.
func (e *Event) TotalCapacity() int {
	total := 0
	for _, cfg := range e.TicketConfigs {
		total += cfg.Capacity
	}
	return total
}

type TicketConfigInput struct {
	TicketType string  `json:"ticket_type" binding:"required,tickettype"`
	Price      float64 `json:"price" binding:"min=0"`
	Capacity   int     `json:"capacity" binding:"required,min=1,max=100000"`
}

type TicketConfigResponse struct {
	TicketType TicketType `json:"ticket_type"`
	Price      float64    `json:"price"`
	Capacity   int        `json:"capacity"`
}

type EventResponse struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	Description   string                 `json:"description"`
	Venue         string                 `json:"venue"`
	DateTime      time.Time              `json:"date_time"`
	Category      Category               `json:"category"`
	Active        bool                   `json:"active"`
	Current       bool                   `json:"current"`
	TotalCapacity int                    `json:"total_capacity"`
	TicketConfigs []TicketConfigResponse `json:"ticket_configs"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

type CreateEventRequest struct {
	Name          string              `json:"name" binding:"required,min=3,max=255"`
	Description   string              `json:"description" binding:"max=2000"`
	Venue         string              `json:"venue" binding:"omitempty,max=255"`
	DateTime      time.Time           `json:"date_time" binding:"required"`
	Category      string              `json:"category" binding:"required,eventcategory"`
	TicketConfigs []TicketConfigInput `json:"ticket_configs" binding:"required,min=1,dive"`
}

type UpdateEventRequest struct {
	Name          *string             `json:"name" binding:"omitempty,min=3,max=255"`
	Description   *string             `json:"description" binding:"omitempty,max=2000"`
	Venue         *string             `json:"venue" binding:"omitempty,max=255"`
	DateTime      *time.Time          `json:"date_time"`
	TicketConfigs []TicketConfigInput `json:"ticket_configs" binding:"omitempty,min=1,dive"`
}

type EventListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	Category string `form:"category" binding:"omitempty,eventcategory"`
	Active   *bool  `form:"active"`
}

type PaginatedEvents struct {
	Events     []EventResponse `json:"events"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

type AvailabilityResponse struct {
	EventID           string     `json:"event_id"`
	TicketType        TicketType `json:"ticket_type"`
	Capacity          int        `json:"capacity"`
	ConfirmedCount    int        `json:"confirmed_count"`
	RemainingCapacity int        `json:"remaining_capacity"`
}

func (e *Event) ToResponse() EventResponse {
	configs := make([]TicketConfigResponse, len(e.TicketConfigs))
	for i, cfg := range e.TicketConfigs {
		configs[i] = TicketConfigResponse{
			TicketType: cfg.TicketType,
			Price:      cfg.Price,
			Capacity:   cfg.Capacity,
		}
	}

	return EventResponse{
		ID:            e.ID.String(),
		Name:          e.Name,
		Description:   e.Description,
		Venue:         e.Venue,
		DateTime:      e.DateTime,
		Category:      e.Category,
		Active:        e.Active,
		Current:       e.IsCurrent(),
		TotalCapacity: e.TotalCapacity(),
		TicketConfigs: configs,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// TableName specifies the table name for GORM
func (Event) TableName() string {
	return "events"
}

func (TicketConfig) TableName() string {
	return "event_ticket_configs"
}
