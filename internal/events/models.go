package events

import (
	"time"

	"github.com/google/uuid"

	"tiketin/internal/ticketcategories"
)

type Event struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string      `json:"name" gorm:"not null;size:255"`
	Description string      `json:"description" gorm:"type:text"`
	Location    string      `json:"location" gorm:"not null;size:255"`
	DateStart   *time.Time  `json:"date_start" gorm:"type:date;index"`
	DateEnd     *time.Time  `json:"date_end" gorm:"type:date"`
	Status      EventStatus `json:"status" gorm:"type:varchar(20);default:'draft'"`

	TicketCategories []ticketcategories.TicketCategory `json:"-" gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE;"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Event) TableName() string {
	return "events"
}

// Window returns the event dates as ticket sale bounds. Missing dates are not enforced.
func (e *Event) Window() *ticketcategories.EventWindow {
	return &ticketcategories.EventWindow{Start: e.DateStart, End: e.DateEnd}
}

func (e *Event) ToResponse() EventResponse {
	return EventResponse{
		ID:          e.ID.String(),
		Name:        e.Name,
		Description: e.Description,
		Location:    e.Location,
		DateStart:   formatDate(e.DateStart),
		DateEnd:     formatDate(e.DateEnd),
		Status:      e.Status,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

type EventResponse struct {
	ID               string                                    `json:"id"`
	Name             string                                    `json:"name"`
	Description      string                                    `json:"description"`
	Location         string                                    `json:"location"`
	DateStart        string                                    `json:"date_start,omitempty"`
	DateEnd          string                                    `json:"date_end,omitempty"`
	Status           EventStatus                               `json:"status"`
	TicketCategories []ticketcategories.TicketCategoryResponse `json:"ticket_categories,omitempty"`
	CreatedAt        time.Time                                 `json:"created_at"`
	UpdatedAt        time.Time                                 `json:"updated_at"`
}

type CreateEventRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=255"`
	Description string `json:"description" binding:"max=2000"`
	Location    string `json:"location" binding:"required,min=3,max=255"`
	DateStart   string `json:"date_start" binding:"omitempty,datetime=2006-01-02"`
	DateEnd     string `json:"date_end" binding:"omitempty,datetime=2006-01-02"`
}

type UpdateEventRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=3,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Location    *string `json:"location" binding:"omitempty,min=3,max=255"`
	DateStart   *string `json:"date_start" binding:"omitempty,datetime=2006-01-02"`
	DateEnd     *string `json:"date_end" binding:"omitempty,datetime=2006-01-02"`
	Status      *string `json:"status" binding:"omitempty,oneof=draft published cancelled completed"`
}

type EventListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=draft published cancelled completed"`
	DateFrom string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
}

type PaginatedEvents struct {
	Events     []EventResponse `json:"events"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(ticketcategories.DateLayout)
}

// parseDate treats a blank value as an absent date.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(ticketcategories.DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
