package events

import "errors"

var (
	ErrEventNotFound           = errors.New("event not found")
	ErrEventNotCurrent         = errors.New("event is not current")
	ErrIncompatibleTicketType  = errors.New("ticket type is incompatible with event category")
	ErrTicketTypeNotConfigured = errors.New("ticket type is not configured on this event")
	ErrEventHasReservations    = errors.New("event has confirmed reservations")
)
