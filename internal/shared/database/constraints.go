package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds the integrity rules the service layer also enforces,
// so concurrent writers cannot slip past them.
func MigrateConstraints(db *gorm.DB) error {
	statements := []string{
		// Category names are unique per event regardless of case
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_ticket_categories_event_name
		ON ticket_categories (event_id, LOWER(name));`,

		`CREATE INDEX IF NOT EXISTS idx_ticket_categories_event_sales_start
		ON ticket_categories (event_id, sales_start);`,

		`ALTER TABLE ticket_categories DROP CONSTRAINT IF EXISTS chk_ticket_categories_sales_window;`,
		`ALTER TABLE ticket_categories ADD CONSTRAINT chk_ticket_categories_sales_window
		CHECK (sales_end > sales_start);`,

		`ALTER TABLE ticket_categories DROP CONSTRAINT IF EXISTS chk_ticket_categories_sold;`,
		`ALTER TABLE ticket_categories ADD CONSTRAINT chk_ticket_categories_sold
		CHECK (sold >= 0 AND sold <= quota);`,

		`ALTER TABLE events DROP CONSTRAINT IF EXISTS chk_events_date_range;`,
		`ALTER TABLE events ADD CONSTRAINT chk_events_date_range
		CHECK (date_start IS NULL OR date_end IS NULL OR date_end >= date_start);`,

		`ALTER TABLE ticket_categories DROP CONSTRAINT IF EXISTS fk_events_ticket_categories;`,
		`ALTER TABLE ticket_categories ADD CONSTRAINT fk_events_ticket_categories
		FOREIGN KEY (event_id) REFERENCES events (id) ON DELETE CASCADE;`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}
