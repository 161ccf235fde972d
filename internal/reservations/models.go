package reservations

import (
	"time"

	"teatro/internal/customers"
	"teatro/internal/events"

	"github.com/google/uuid"
)

// Reservation ties a customer to an event and a ticket type and carries the
// full lifecycle state.
type Reservation struct {
	ID         uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Code       string            `gorm:"type:varchar(20);unique;not null" json:"code"`
	CustomerID uuid.UUID         `gorm:"type:uuid;index;not null" json:"customer_id"`
	EventID    uuid.UUID         `gorm:"type:uuid;index;not null" json:"event_id"`
	TicketType events.TicketType `gorm:"type:varchar(30);not null" json:"ticket_type"`
	Status     Status            `gorm:"type:varchar(20);check:status IN ('PENDING', 'CONFIRMED', 'CANCELLED');default:'PENDING'" json:"status"`
	FreePass   bool              `gorm:"default:false" json:"free_pass"`
	PricePaid  float64           `gorm:"default:0" json:"price_paid"`

	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	ConfirmedAt      *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
	CancellationNote string     `gorm:"size:500" json:"cancellation_note,omitempty"`

	// Relationships
	Customer *customers.Customer `json:"customer,omitempty" gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT;"`
	Event    *events.Event       `json:"event,omitempty" gorm:"foreignKey:EventID;constraint:OnDelete:RESTRICT;"`
}

// TableName sets the table name for Reservation
func (Reservation) TableName() string {
	return "reservations"
}

// Helper methods for reservation management

func (r *Reservation) IsPending() bool {
	return r.Status == StatusPending
}

func (r *Reservation) IsConfirmed() bool {
	return r.Status == StatusConfirmed
}

func (r *Reservation) IsCancelled() bool {
	return r.Status == StatusCancelled
}

// CanBeCancelled reports whether the reservation may still be cancelled.
// Hard deletion is gated on the same predicate.
func (r *Reservation) CanBeCancelled() bool {
	return r.Status.CanBeCancelled()
}

// IsCurrent reports whether the reservation occupies capacity against a
// still-current event.
func (r *Reservation) IsCurrent() bool {
	return r.Status.IsActive() && r.Event != nil && r.Event.IsCurrent()
}

func (r *Reservation) Confirm(price float64) {
	now := time.Now()
	r.Status = StatusConfirmed
	r.PricePaid = price
	r.ConfirmedAt = &now
	r.UpdatedAt = now
}

func (r *Reservation) Cancel(reason string) {
	now := time.Now()
	r.Status = StatusCancelled
	r.CancelledAt = &now
	r.CancellationNote = reason
	r.UpdatedAt = now
}

// Request/response shapes

type CreateReservationRequest struct {
	CustomerID  string `json:"customer_id" binding:"required,uuid"`
	EventID     string `json:"event_id" binding:"required,uuid"`
	TicketType  string `json:"ticket_type" binding:"required,tickettype"`
	UseFreePass bool   `json:"use_free_pass"`
}

type CancelReservationRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

type ReservationListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED CANCELLED"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
}

type ReservationResponse struct {
	ID               string            `json:"id"`
	Code             string            `json:"code"`
	CustomerID       string            `json:"customer_id"`
	CustomerName     string            `json:"customer_name,omitempty"`
	EventID          string            `json:"event_id"`
	EventName        string            `json:"event_name,omitempty"`
	TicketType       events.TicketType `json:"ticket_type"`
	Status           Status            `json:"status"`
	FreePass         bool              `json:"free_pass"`
	PricePaid        float64           `json:"price_paid"`
	CreatedAt        time.Time         `json:"created_at"`
	ConfirmedAt      *time.Time        `json:"confirmed_at,omitempty"`
	CancelledAt      *time.Time        `json:"cancelled_at,omitempty"`
	CancellationNote string            `json:"cancellation_note,omitempty"`
}

type PaginatedReservations struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalCount   int64                 `json:"total_count"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
	TotalPages   int                   `json:"total_pages"`
}

func (r *Reservation) ToResponse() ReservationResponse {
	response := ReservationResponse{
		ID:               r.ID.String(),
		Code:             r.Code,
		CustomerID:       r.CustomerID.String(),
		EventID:          r.EventID.String(),
		TicketType:       r.TicketType,
		Status:           r.Status,
		FreePass:         r.FreePass,
		PricePaid:        r.PricePaid,
		CreatedAt:        r.CreatedAt,
		ConfirmedAt:      r.ConfirmedAt,
		CancelledAt:      r.CancelledAt,
		CancellationNote: r.CancellationNote,
	}

	if r.Customer != nil {
		response.CustomerName = r.Customer.Name
	}
	if r.Event != nil {
		response.EventName = r.Event.Name
	}

	return response
}
