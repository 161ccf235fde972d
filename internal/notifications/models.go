package notifications

import (
	"context"
	"encoding/json"
	"time"
)

// Reservation lifecycle message types
const (
	TypeReservationCreated   = "reservation.created"
	TypeReservationConfirmed = "reservation.confirmed"
	TypeReservationCancelled = "reservation.cancelled"
)

// Publisher is the contract the reservation engine publishes through
type Publisher interface {
	PublishReservationMessage(ctx context.Context, msg ReservationMessage) error
}

// ReservationMessage is the wire format for reservation lifecycle events
type ReservationMessage struct {
	Type          string    `json:"type"`
	ReservationID string    `json:"reservation_id"`
	Code          string    `json:"code"`
	CustomerID    string    `json:"customer_id"`
	EventID       string    `json:"event_id"`
	TicketType    string    `json:"ticket_type"`
	FreePass      bool      `json:"free_pass"`
	PricePaid     float64   `json:"price_paid"`
	Timestamp     time.Time `json:"timestamp"`
}

// ToJSON serializes the message for the wire
func (m *ReservationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// GetPartitionKey routes all messages for a customer to the same partition
// so lifecycle events are consumed in order per customer.
func (m *ReservationMessage) GetPartitionKey() string {
	return m.CustomerID
}

// FromJSON deserializes a wire message
func FromJSON(data []byte) (*ReservationMessage, error) {
	var msg ReservationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
