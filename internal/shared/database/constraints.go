package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds database constraints and indexes the availability
// checks depend on. The composite index keeps the confirmed-count query fast
// while the event row is held under lock.
func MigrateConstraints(db *gorm.DB) error {
	// One price/capacity row per ticket type per event
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_ticket_type_per_event
		ON event_ticket_configs (event_id, ticket_type);
	`).Error
	if err != nil {
		return err
	}

	// Availability counts filter on (event, ticket type, status)
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reservations_event_type_status
		ON reservations (event_id, ticket_type, status);
	`).Error
	if err != nil {
		return err
	}

	// Customer reservation listings
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reservations_customer_id
		ON reservations (customer_id);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
