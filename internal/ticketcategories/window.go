package ticketcategories

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	DefaultTimeStart = "00:00"
	DefaultTimeEnd   = "23:59"

	timeLayoutSeconds = "15:04:05"
)

// Rule identifies the first check a draft failed.
type Rule string

const (
	RuleRequiredFields        Rule = "required_fields"
	RuleInvalidFormat         Rule = "invalid_format"
	RuleStartDateAfterEndDate Rule = "start_date_after_end_date"
	RuleStartTimeAfterEndTime Rule = "start_time_after_end_time"
	RuleIdenticalTimes        Rule = "identical_times"
	RuleEndNotAfterStart      Rule = "end_not_after_start"
	RuleBeforeEventStart      Rule = "before_event_start"
	RuleAfterEventEnd         Rule = "after_event_end"
	RuleInvalidQuota          Rule = "invalid_quota"
	RuleInvalidPrice          Rule = "invalid_price"
)

const (
	MsgRequiredFields        = "Please fill in all required fields"
	MsgStartDateAfterEndDate = "Start date cannot be after end date"
	MsgStartTimeAfterEndTime = "Start time cannot be after end time on the same day"
	MsgIdenticalTimes        = "Start time and end time cannot be the same"
	MsgEndNotAfterStart      = "End date and time must be after start date and time"
	MsgInvalidQuota          = "Quota must be a whole number greater than 0"
	MsgInvalidPrice          = "Price must be a number greater than or equal to 0"
	MsgPriceTooHigh          = "Price cannot exceed 999999999999.99"
	MsgPriceDecimals         = "Price can have at most 2 decimal places"
)

// Prices are stored as decimal(14,2).
const (
	MaxPrice      = 999999999999.99
	priceDecimals = 2
)

// Draft is a ticket category as typed into the organizer form. All values
// are kept as text until Normalize converts them.
type Draft struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"required"`
	Quota       string `json:"quota" validate:"required"`
	Price       string `json:"price" validate:"required"`
	WindowStart string `json:"window_start" validate:"required"`
	WindowEnd   string `json:"window_end" validate:"required"`
	TimeStart   string `json:"time_start"`
	TimeEnd     string `json:"time_end"`
	Description string `json:"description"`
}

// NewDraft returns an empty draft carrying a temporary client-side id.
func NewDraft() Draft {
	return Draft{
		ID:        uuid.NewString(),
		TimeStart: DefaultTimeStart,
		TimeEnd:   DefaultTimeEnd,
	}
}

// EventWindow bounds the dates of the owning event. A nil bound is not enforced.
type EventWindow struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// Result is the outcome of Validate.
type Result struct {
	Valid   bool   `json:"valid"`
	Rule    Rule   `json:"rule,omitempty"`
	Message string `json:"message,omitempty"`
}

// Err returns nil for a valid result and a *ValidationError otherwise.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Rule: r.Rule, Message: r.Message}
}

// ValidationError carries the single message shown to the organizer.
type ValidationError struct {
	Rule    Rule   `json:"rule"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Record is a draft converted into submission-ready values.
type Record struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Quota       int       `json:"quota"`
	Price       float64   `json:"price"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Description string    `json:"description"`
}

var draftValidate = validator.New()

func valid() Result {
	return Result{Valid: true}
}

func invalid(rule Rule, msg string) Result {
	return Result{Rule: rule, Message: msg}
}

// Validate checks a draft against the optional event window and reports the
// first rule it breaks.
func Validate(d Draft, w *EventWindow) Result {
	trimmed := d
	trimmed.Name = strings.TrimSpace(d.Name)
	trimmed.Quota = strings.TrimSpace(d.Quota)
	trimmed.Price = strings.TrimSpace(d.Price)
	trimmed.WindowStart = strings.TrimSpace(d.WindowStart)
	trimmed.WindowEnd = strings.TrimSpace(d.WindowEnd)
	if err := draftValidate.Struct(trimmed); err != nil {
		return invalid(RuleRequiredFields, MsgRequiredFields)
	}

	startDate, err := time.Parse(DateLayout, trimmed.WindowStart)
	if err != nil {
		return invalid(RuleInvalidFormat, fmt.Sprintf("Start date %q is not a valid date", trimmed.WindowStart))
	}
	endDate, err := time.Parse(DateLayout, trimmed.WindowEnd)
	if err != nil {
		return invalid(RuleInvalidFormat, fmt.Sprintf("End date %q is not a valid date", trimmed.WindowEnd))
	}
	startMin, err := minutesOfDay(orDefault(d.TimeStart, DefaultTimeStart))
	if err != nil {
		return invalid(RuleInvalidFormat, fmt.Sprintf("Start time %q is not a valid time", d.TimeStart))
	}
	endMin, err := minutesOfDay(orDefault(d.TimeEnd, DefaultTimeEnd))
	if err != nil {
		return invalid(RuleInvalidFormat, fmt.Sprintf("End time %q is not a valid time", d.TimeEnd))
	}

	if startDate.After(endDate) {
		return invalid(RuleStartDateAfterEndDate, MsgStartDateAfterEndDate)
	}

	if startDate.Equal(endDate) {
		if startMin > endMin {
			return invalid(RuleStartTimeAfterEndTime, MsgStartTimeAfterEndTime)
		}
		if startMin == endMin {
			return invalid(RuleIdenticalTimes, MsgIdenticalTimes)
		}
	}

	startAt := startDate.Add(time.Duration(startMin) * time.Minute)
	endAt := endDate.Add(time.Duration(endMin) * time.Minute)
	if !endAt.After(startAt) {
		return invalid(RuleEndNotAfterStart, MsgEndNotAfterStart)
	}

	if w != nil {
		if w.Start != nil && startDate.Before(civilDate(*w.Start)) {
			return invalid(RuleBeforeEventStart, fmt.Sprintf(
				"Ticket sales cannot start before the event starts (%s)", w.Start.Format(DateLayout)))
		}
		if w.End != nil && endDate.After(civilDate(*w.End)) {
			return invalid(RuleAfterEventEnd, fmt.Sprintf(
				"Ticket sales cannot end after the event ends (%s)", w.End.Format(DateLayout)))
		}
	}

	if q, err := strconv.Atoi(trimmed.Quota); err != nil || q <= 0 {
		return invalid(RuleInvalidQuota, MsgInvalidQuota)
	}
	p, err := strconv.ParseFloat(trimmed.Price, 64)
	if err != nil || p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
		return invalid(RuleInvalidPrice, MsgInvalidPrice)
	}
	if p > MaxPrice {
		return invalid(RuleInvalidPrice, MsgPriceTooHigh)
	}
	if decimalPlaces(p) > priceDecimals {
		return invalid(RuleInvalidPrice, MsgPriceDecimals)
	}

	return valid()
}

// decimalPlaces counts digits after the point in the shortest form that
// round-trips, so "1e-3" counts 3 and "10.50" counts 1.
func decimalPlaces(v float64) int {
	str := strconv.FormatFloat(v, 'f', -1, 64)
	if i := strings.IndexByte(str, '.'); i >= 0 {
		return len(str) - i - 1
	}
	return 0
}

// Normalizer turns drafts into records. Form dates and times are wall-clock
// values in Location; records hold UTC instants.
type Normalizer struct {
	Location *time.Location
}

func NewNormalizer(loc *time.Location) Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return Normalizer{Location: loc}
}

// Normalize assumes Validate already passed. It only errors on text that
// cannot be parsed at all.
func (n Normalizer) Normalize(d Draft) (Record, error) {
	quota, err := strconv.Atoi(strings.TrimSpace(d.Quota))
	if err != nil {
		return Record{}, fmt.Errorf("quota: %w", err)
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(d.Price), 64)
	if err != nil {
		return Record{}, fmt.Errorf("price: %w", err)
	}
	start, err := n.combine(d.WindowStart, orDefault(d.TimeStart, DefaultTimeStart))
	if err != nil {
		return Record{}, fmt.Errorf("start: %w", err)
	}
	end, err := n.combine(d.WindowEnd, orDefault(d.TimeEnd, DefaultTimeEnd))
	if err != nil {
		return Record{}, fmt.Errorf("end: %w", err)
	}

	return Record{
		ID:          d.ID,
		Name:        d.Name,
		Quota:       quota,
		Price:       price,
		Start:       start,
		End:         end,
		Description: d.Description,
	}, nil
}

// DraftFromRecord renders a record back into editable form fields.
func (n Normalizer) DraftFromRecord(r Record) Draft {
	start := r.Start.In(n.loc())
	end := r.End.In(n.loc())
	return Draft{
		ID:          r.ID,
		Name:        r.Name,
		Quota:       strconv.Itoa(r.Quota),
		Price:       strconv.FormatFloat(r.Price, 'f', -1, 64),
		WindowStart: start.Format(DateLayout),
		WindowEnd:   end.Format(DateLayout),
		TimeStart:   start.Format(TimeLayout),
		TimeEnd:     end.Format(TimeLayout),
		Description: r.Description,
	}
}

func (n Normalizer) loc() *time.Location {
	if n.Location == nil {
		return time.UTC
	}
	return n.Location
}

func (n Normalizer) combine(date, clock string) (time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), n.loc())
	if err != nil {
		return time.Time{}, err
	}
	mins, err := minutesOfDay(clock)
	if err != nil {
		return time.Time{}, err
	}
	local := time.Date(day.Year(), day.Month(), day.Day(), mins/60, mins%60, 0, 0, n.loc())
	return local.UTC(), nil
}

func minutesOfDay(s string) (int, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		t, err = time.Parse(timeLayoutSeconds, s)
		if err != nil {
			return 0, err
		}
	}
	return t.Hour()*60 + t.Minute(), nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
