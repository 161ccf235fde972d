package customers

import "errors"

var (
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrDuplicateEmail      = errors.New("email is already registered")
	ErrInactiveCustomer    = errors.New("customer is not active")
	ErrNoFreePassAvailable = errors.New("customer has no free passes available")
)
