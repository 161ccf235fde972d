package customers

import (
	"time"

	"github.com/google/uuid"
)

// AttendancesPerFreePass is the loyalty threshold: every 5th confirmed
// attendance grants one free pass.
const AttendancesPerFreePass = 5

type Customer struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name           string    `json:"name" gorm:"not null;size:255"`
	Email          string    `json:"email" gorm:"not null;size:255;uniqueIndex"`
	Phone          string    `json:"phone" gorm:"size:50"`
	AttendedEvents int       `json:"attended_events" gorm:"default:0;check:attended_events >= 0"`
	FreePasses     int       `json:"free_passes" gorm:"default:0;check:free_passes >= 0"`
	Active         bool      `json:"active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// RecordAttendance increments the attendance counter and grants a free pass
// when the new count reaches a multiple of the loyalty threshold.
// Returns true when a pass was granted.
func (c *Customer) RecordAttendance() bool {
	c.AttendedEvents++
	if c.AttendedEvents%AttendancesPerFreePass == 0 {
		c.FreePasses++
		return true
	}
	return false
}

// UseFreePass consumes one free pass from the balance.
func (c *Customer) UseFreePass() error {
	if c.FreePasses <= 0 {
		return ErrNoFreePassAvailable
	}
	c.FreePasses--
	return nil
}

// RefundFreePass returns a previously consumed pass to the balance.
func (c *Customer) RefundFreePass() {
	c.FreePasses++
}

// EligibleForPass reports whether the customer sits exactly on a grant
// boundary. Used by reconciliation to detect missed synchronous grants.
func (c *Customer) EligibleForPass() bool {
	return c.AttendedEvents > 0 && c.AttendedEvents%AttendancesPerFreePass == 0
}

// ExpectedPassFloor is the total number of passes the customer should have
// been granted over their lifetime.
func (c *Customer) ExpectedPassFloor() int {
	return c.AttendedEvents / AttendancesPerFreePass
}

type CustomerResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	AttendedEvents int       `json:"attended_events"`
	FreePasses     int       `json:"free_passes"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type RegisterCustomerRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=255"`
	Email string `json:"email" binding:"required,email,max=255"`
	Phone string `json:"phone" binding:"omitempty,max=50"`
}

type UpdateCustomerRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=2,max=255"`
	Email *string `json:"email" binding:"omitempty,email,max=255"`
	Phone *string `json:"phone" binding:"omitempty,max=50"`
}

type CustomerListQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search string `form:"search"`
	Active *bool  `form:"active"`
}

type PaginatedCustomers struct {
	Customers  []CustomerResponse `json:"customers"`
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

func (c *Customer) ToResponse() CustomerResponse {
	return CustomerResponse{
		ID:             c.ID.String(),
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		AttendedEvents: c.AttendedEvents,
		FreePasses:     c.FreePasses,
		Active:         c.Active,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// TableName specifies the table name for GORM
func (Customer) TableName() string {
	return "customers"
}
