package main

import (
	"fmt"
	"log"
	"time"

	"teatro/internal/customers"
	"teatro/internal/events"
	"teatro/internal/shared/config"
	"teatro/internal/shared/database"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Teatro Database Seeder...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	// Clean database
	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	// Seed data
	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"reservations",
		"event_ticket_configs",
		"events",
		"customers",
	}

	pg := s.db.GetPostgreSQL()
	for _, table := range tables {
		if err := pg.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

// SeedAll loads a small realistic data set for local testing
func (s *Seeder) SeedAll() error {
	if err := s.seedCustomers(); err != nil {
		return fmt.Errorf("failed to seed customers: %w", err)
	}
	if err := s.seedEvents(); err != nil {
		return fmt.Errorf("failed to seed events: %w", err)
	}
	return nil
}

func (s *Seeder) seedCustomers() error {
	pg := s.db.GetPostgreSQL()

	seedCustomers := []customers.Customer{
		{Name: "Ana Rivera", Email: "ana.rivera@example.com", Phone: "+34600111222", Active: true},
		{Name: "Bruno Castello", Email: "bruno.castello@example.com", Phone: "+34600333444", Active: true},
		{Name: "Carla Mendes", Email: "carla.mendes@example.com", Phone: "+34600555666", AttendedEvents: 4, Active: true},
		{Name: "Diego Fontana", Email: "diego.fontana@example.com", Phone: "+34600777888", AttendedEvents: 5, FreePasses: 1, Active: true},
		{Name: "Elena Sordi", Email: "elena.sordi@example.com", Phone: "+34600999000", Active: false},
	}

	for i := range seedCustomers {
		if err := pg.Create(&seedCustomers[i]).Error; err != nil {
			return err
		}
		fmt.Printf("  👤 Created customer: %s\n", seedCustomers[i].Name)
	}
	return nil
}

func (s *Seeder) seedEvents() error {
	pg := s.db.GetPostgreSQL()

	now := time.Now()
	seedEvents := []events.Event{
		{
			Name:        "A Midsummer Night's Dream",
			Description: "Classic stage production in the main hall",
			Category:    events.CategoryStageShow,
			DateTime:    now.AddDate(0, 1, 0),
			Active:      true,
			TicketConfigs: []events.TicketConfig{
				{TicketType: events.TicketTypeGeneral, Price: 35.00, Capacity: 200},
				{TicketType: events.TicketTypeVIP, Price: 80.00, Capacity: 40},
			},
		},
		{
			Name:        "Symphonic Rock Night",
			Description: "Open-air concert with full orchestra",
			Category:    events.CategoryConcert,
			DateTime:    now.AddDate(0, 2, 0),
			Active:      true,
			TicketConfigs: []events.TicketConfig{
				{TicketType: events.TicketTypeField, Price: 45.00, Capacity: 1500},
				{TicketType: events.TicketTypeOrchestra, Price: 75.00, Capacity: 300},
				{TicketType: events.TicketTypeBox, Price: 140.00, Capacity: 24},
			},
		},
		{
			Name:        "An Evening with the Director",
			Description: "Talk and Q&A session",
			Category:    events.CategoryTalk,
			DateTime:    now.AddDate(0, 0, 14),
			Active:      true,
			TicketConfigs: []events.TicketConfig{
				{TicketType: events.TicketTypeWithMeetGreet, Price: 60.00, Capacity: 30},
				{TicketType: events.TicketTypeWithoutMeetGreet, Price: 25.00, Capacity: 150},
			},
		},
		{
			Name:        "Last Season's Gala",
			Description: "Already past, kept for history",
			Category:    events.CategoryStageShow,
			DateTime:    now.AddDate(0, -1, 0),
			Active:      true,
			TicketConfigs: []events.TicketConfig{
				{TicketType: events.TicketTypeGeneral, Price: 30.00, Capacity: 100},
			},
		},
	}

	for i := range seedEvents {
		if err := pg.Create(&seedEvents[i]).Error; err != nil {
			return err
		}
		fmt.Printf("  🎭 Created event: %s (%s)\n", seedEvents[i].Name, seedEvents[i].Category)
	}
	return nil
}
