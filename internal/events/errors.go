package events

import "errors"

var (
	ErrEventNotFound           = errors.New("event not found")
	ErrInvalidDateRange        = errors.New("event start date cannot be after end date")
	ErrEventNotEditable        = errors.New("cancelled or completed events cannot be changed")
	ErrEventNotDeletable       = errors.New("only draft or cancelled events can be deleted")
	ErrInvalidStatusTransition = errors.New("invalid event status transition")
)
