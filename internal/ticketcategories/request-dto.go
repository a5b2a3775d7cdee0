package ticketcategories

import (
	"time"

	"github.com/google/uuid"
)

// ValidateRequest is the body of the stateless validation endpoint. The event
// bounds come from EventID when set, otherwise from EventWindow.
type ValidateRequest struct {
	Draft       Draft               `json:"draft"`
	EventID     string              `json:"event_id" binding:"omitempty,uuid"`
	EventWindow *EventWindowRequest `json:"event_window"`
}

type EventWindowRequest struct {
	Start string `json:"start" binding:"omitempty,datetime=2006-01-02"`
	End   string `json:"end" binding:"omitempty,datetime=2006-01-02"`
}

// ToWindow converts the request bounds. Blank bounds stay nil.
func (r *EventWindowRequest) ToWindow() (*EventWindow, error) {
	if r == nil {
		return nil, nil
	}
	w := &EventWindow{}
	if r.Start != "" {
		t, err := time.Parse(DateLayout, r.Start)
		if err != nil {
			return nil, err
		}
		w.Start = &t
	}
	if r.End != "" {
		t, err := time.Parse(DateLayout, r.End)
		if err != nil {
			return nil, err
		}
		w.End = &t
	}
	return w, nil
}

func (r *ValidateRequest) eventUUID() (uuid.UUID, bool) {
	if r.EventID == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(r.EventID)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
