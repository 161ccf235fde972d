package database

import (
	"teatro/internal/customers"
	"teatro/internal/events"
	"teatro/internal/reservations"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&customers.Customer{},
		&events.Event{},
		&events.TicketConfig{},
		&reservations.Reservation{},
	)
}
