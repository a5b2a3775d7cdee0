package database

import (
	"tiketin/internal/events"
	"tiketin/internal/ticketcategories"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}
	return db.AutoMigrate(
		&events.Event{},
		&ticketcategories.TicketCategory{},
	)
}
