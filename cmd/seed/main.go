package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"tiketin/internal/events"
	"tiketin/internal/shared/clock"
	"tiketin/internal/shared/config"
	"tiketin/internal/shared/database"
	"tiketin/internal/ticketcategories"
	"tiketin/pkg/logger"

	"github.com/google/uuid"
)

type Seeder struct {
	db            *database.DB
	cfg           *config.Config
	eventRepo     events.Repository
	ticketService ticketcategories.Service
	now           time.Time
}

func main() {
	fmt.Println("🌱 Starting Tiketin Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := NewSeeder(db, cfg)

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(context.Background()); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

func NewSeeder(db *database.DB, cfg *config.Config) *Seeder {
	eventRepo := events.NewRepository(db.GetPostgreSQL())
	clk := clock.NewSystem()

	// Categories go through the same service as the API so every seed passes the window rules
	ticketService := ticketcategories.NewService(
		ticketcategories.NewRepository(db.GetPostgreSQL()),
		events.NewTicketWindowAdapter(eventRepo),
		ticketcategories.NewNormalizer(cfg.Location()),
		clk,
	)

	return &Seeder{
		db:            db,
		cfg:           cfg,
		eventRepo:     eventRepo,
		ticketService: ticketService,
		now:           clk.Now().In(cfg.Location()),
	}
}

// CleanDatabase truncates all tables, children first
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"ticket_categories",
		"events",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, table := range tables {
		fmt.Printf("  Truncating table: %s\n", table)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit().Error
}

// SeedAll seeds all required data
func (s *Seeder) SeedAll(ctx context.Context) error {
	eventIDs, err := s.SeedEvents(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed events: %w", err)
	}

	if err := s.SeedTicketCategories(ctx, eventIDs); err != nil {
		return fmt.Errorf("failed to seed ticket categories: %w", err)
	}

	// Clear Redis cache to ensure fresh state
	if s.db.Redis != nil {
		if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
			log.Printf("Warning: Failed to clear Redis cache: %v", err)
		}
	}

	return nil
}

type seedEvent struct {
	key         string
	name        string
	description string
	location    string
	startIn     int // days from today
	length      int // days
	status      events.EventStatus
}

var seedEvents = []seedEvent{
	{"jazz", "Jakarta Jazz Nights", "Three nights of jazz across four stages", "JIExpo Kemayoran, Jakarta", 0, 45, events.EventStatusPublished},
	{"tech", "Nusantara Tech Summit", "Talks and workshops on building for Indonesia", "ICE BSD, Tangerang", 7, 30, events.EventStatusPublished},
	{"art", "Bali Contemporary Art Week", "Gallery walk and artist talks", "Ubud, Bali", 20, 14, events.EventStatusDraft},
	{"tba", "Bandung Indie Fest", "Lineup and dates coming soon", "Bandung", 0, 0, events.EventStatusDraft},
}

// SeedEvents creates events with dates relative to today
func (s *Seeder) SeedEvents(ctx context.Context) (map[string]uuid.UUID, error) {
	fmt.Println("  🎫 Seeding events...")

	today := time.Date(s.now.Year(), s.now.Month(), s.now.Day(), 0, 0, 0, 0, time.UTC)
	eventIDs := make(map[string]uuid.UUID)

	for _, data := range seedEvents {
		event := &events.Event{
			ID:          uuid.New(),
			Name:        data.name,
			Description: data.description,
			Location:    data.location,
			Status:      data.status,
		}
		if data.length > 0 {
			start := today.AddDate(0, 0, data.startIn)
			end := start.AddDate(0, 0, data.length)
			event.DateStart = &start
			event.DateEnd = &end
		}

		if err := s.eventRepo.Create(ctx, event); err != nil {
			return nil, fmt.Errorf("failed to create event %s: %w", data.name, err)
		}

		eventIDs[data.key] = event.ID
		fmt.Printf("    ✅ Created event: %s (%s)\n", event.Name, event.Status)
	}

	return eventIDs, nil
}

type seedCategory struct {
	event       string
	name        string
	quota       string
	price       string
	fromDay     int
	toDay       int
	timeStart   string
	timeEnd     string
	description string
}

var seedCategories = []seedCategory{
	{"jazz", "Presale", "200", "350000", 0, 5, "10:00", "23:59", "Limited presale allocation"},
	{"jazz", "Regular", "1500", "550000", 5, 40, "", "", ""},
	{"jazz", "VIP", "100", "1500000", 0, 40, "09:00", "21:00", "Front row seating and lounge access"},
	{"tech", "Early Bird", "300", "250000", 7, 14, "08:00", "20:00", ""},
	{"tech", "Regular", "800", "400000", 14, 35, "", "", ""},
	{"art", "Festival", "500", "0", 20, 33, "", "", "Free entry with registration"},
	{"tba", "Presale", "150", "175000", 0, 30, "", "", "Dates to be announced"},
}

// SeedTicketCategories creates ticket categories from form-style drafts
func (s *Seeder) SeedTicketCategories(ctx context.Context, eventIDs map[string]uuid.UUID) error {
	fmt.Println("  🎟️ Seeding ticket categories...")

	for _, data := range seedCategories {
		draft := ticketcategories.NewDraft()
		draft.Name = data.name
		draft.Quota = data.quota
		draft.Price = data.price
		draft.WindowStart = s.day(data.fromDay)
		draft.WindowEnd = s.day(data.toDay)
		if data.timeStart != "" {
			draft.TimeStart = data.timeStart
		}
		if data.timeEnd != "" {
			draft.TimeEnd = data.timeEnd
		}
		draft.Description = data.description

		created, err := s.ticketService.Create(ctx, eventIDs[data.event], draft)
		if err != nil {
			return fmt.Errorf("failed to create ticket category %s: %w", data.name, err)
		}

		logger.GetDefault().DebugWithContext(ctx, "seeded ticket category", map[string]interface{}{
			"event_id":    created.EventID,
			"name":        created.Name,
			"sales_start": created.SalesStart,
			"sales_end":   created.SalesEnd,
		})
		fmt.Printf("    ✅ Created ticket category: %s (%s)\n", created.Name, created.SaleStatus)
	}

	return nil
}

func (s *Seeder) day(offset int) string {
	return s.now.AddDate(0, 0, offset).Format(ticketcategories.DateLayout)
}
