package ticketcategories

import "time"

type TicketCategoryResponse struct {
	ID          string     `json:"id"`
	ClientID    string     `json:"client_id,omitempty"`
	EventID     string     `json:"event_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Quota       int        `json:"quota"`
	Sold        int        `json:"sold"`
	Available   int        `json:"available"`
	Price       float64    `json:"price"`
	SalesStart  time.Time  `json:"sales_start"`
	SalesEnd    time.Time  `json:"sales_end"`
	SaleStatus  SaleStatus `json:"sale_status"`
	OnSale      bool       `json:"on_sale"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ValidationResponse pairs a validation result with the record the draft
// would be saved as.
type ValidationResponse struct {
	Result
	Record *Record `json:"record,omitempty"`
}
