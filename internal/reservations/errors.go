package reservations

import "errors"

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrNoAvailability      = errors.New("no availability for this ticket type")
	ErrInvalidState        = errors.New("reservation state does not allow this operation")
	ErrPriceUnavailable    = errors.New("no price configured for this ticket type")
	ErrCodeCollision       = errors.New("reservation code already exists")
)
