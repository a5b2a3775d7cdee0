package ticketcategories

import "errors"

var (
	ErrEventNotFound          = errors.New("event not found")
	ErrTicketCategoryNotFound = errors.New("ticket category not found")
	ErrDuplicateName          = errors.New("a ticket category with this name already exists for the event")
	ErrQuotaBelowSold         = errors.New("quota cannot be lower than the number of tickets already sold")
	ErrCategoryHasSales       = errors.New("ticket category has sold tickets and cannot be deleted")
	ErrEventClosed            = errors.New("ticket categories of a cancelled or completed event cannot be changed")
)
