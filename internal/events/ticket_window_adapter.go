package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tiketin/internal/ticketcategories"
)

// TicketWindowAdapter lets the ticket categories module read event dates
// without importing this package.
type TicketWindowAdapter struct {
	repo Repository
}

func NewTicketWindowAdapter(repo Repository) *TicketWindowAdapter {
	return &TicketWindowAdapter{repo: repo}
}

func (a *TicketWindowAdapter) GetEventSchedule(ctx context.Context, eventID uuid.UUID) (*ticketcategories.EventSchedule, error) {
	event, err := a.repo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ticketcategories.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return &ticketcategories.EventSchedule{
		Window:   *event.Window(),
		Editable: event.Status.CanBeUpdated(),
	}, nil
}
