package ticketcategories

import (
	"time"

	"github.com/google/uuid"
)

type SaleStatus string

const (
	SaleStatusUpcoming SaleStatus = "upcoming"
	SaleStatusOnSale   SaleStatus = "on_sale"
	SaleStatusEnded    SaleStatus = "ended"
	SaleStatusSoldOut  SaleStatus = "sold_out"
)

// TicketCategory is a sellable ticket class within one event.
type TicketCategory struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EventID     uuid.UUID `json:"event_id" gorm:"type:uuid;not null;index"`
	Name        string    `json:"name" gorm:"not null;size:100"`
	Description string    `json:"description" gorm:"type:text"`
	Quota       int       `json:"quota" gorm:"not null;check:quota > 0"`
	Sold        int       `json:"sold" gorm:"default:0;check:sold >= 0"`
	Price       float64   `json:"price" gorm:"type:decimal(14,2);not null;check:price >= 0"`
	SalesStart  time.Time `json:"sales_start" gorm:"not null;index"`
	SalesEnd    time.Time `json:"sales_end" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (TicketCategory) TableName() string {
	return "ticket_categories"
}

// Available returns the number of unsold tickets
func (tc *TicketCategory) Available() int {
	available := tc.Quota - tc.Sold
	if available < 0 {
		return 0
	}
	return available
}

func (tc *TicketCategory) IsSoldOut() bool {
	return tc.Sold >= tc.Quota
}

// SaleStatusAt reports where now falls relative to the sales window.
func (tc *TicketCategory) SaleStatusAt(now time.Time) SaleStatus {
	switch {
	case now.Before(tc.SalesStart):
		return SaleStatusUpcoming
	case !now.Before(tc.SalesEnd):
		return SaleStatusEnded
	case tc.IsSoldOut():
		return SaleStatusSoldOut
	default:
		return SaleStatusOnSale
	}
}

func (tc *TicketCategory) ToRecord() Record {
	return Record{
		ID:          tc.ID.String(),
		Name:        tc.Name,
		Quota:       tc.Quota,
		Price:       tc.Price,
		Start:       tc.SalesStart,
		End:         tc.SalesEnd,
		Description: tc.Description,
	}
}

// applyRecord copies normalized values onto the entity.
func (tc *TicketCategory) applyRecord(r Record) {
	tc.Name = r.Name
	tc.Quota = r.Quota
	tc.Price = r.Price
	tc.SalesStart = r.Start
	tc.SalesEnd = r.End
	tc.Description = r.Description
}

func (tc *TicketCategory) ToResponse(now time.Time) TicketCategoryResponse {
	status := tc.SaleStatusAt(now)
	return TicketCategoryResponse{
		ID:          tc.ID.String(),
		EventID:     tc.EventID.String(),
		Name:        tc.Name,
		Description: tc.Description,
		Quota:       tc.Quota,
		Sold:        tc.Sold,
		Available:   tc.Available(),
		Price:       tc.Price,
		SalesStart:  tc.SalesStart,
		SalesEnd:    tc.SalesEnd,
		SaleStatus:  status,
		OnSale:      status == SaleStatusOnSale,
		CreatedAt:   tc.CreatedAt,
		UpdatedAt:   tc.UpdatedAt,
	}
}
