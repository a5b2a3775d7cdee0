package ticketcategories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) *time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func vipDraft() Draft {
	return Draft{
		ID:          "tmp-1",
		Name:        "VIP",
		Quota:       "100",
		Price:       "50000",
		WindowStart: "2025-01-12",
		WindowEnd:   "2025-01-12",
		TimeStart:   "09:00",
		TimeEnd:     "17:00",
		Description: "Front row\nFree merch",
	}
}

func jakarta(t *testing.T) *time.Location {
	t.Helper()
	return time.FixedZone("WIB", 7*60*60)
}

func TestValidate(t *testing.T) {
	window := &EventWindow{Start: date("2025-01-10"), End: date("2025-01-20")}

	tests := []struct {
		name    string
		mutate  func(d *Draft)
		window  *EventWindow
		rule    Rule
		message string
	}{
		{
			name:   "valid same-day window",
			mutate: func(d *Draft) {},
			window: window,
		},
		{
			name:    "missing quota short-circuits date checks",
			mutate:  func(d *Draft) { d.Quota = ""; d.WindowStart = "2025-02-01" },
			window:  window,
			rule:    RuleRequiredFields,
			message: MsgRequiredFields,
		},
		{
			name:    "blank name counts as missing",
			mutate:  func(d *Draft) { d.Name = "   " },
			rule:    RuleRequiredFields,
			message: MsgRequiredFields,
		},
		{
			name:    "missing end date",
			mutate:  func(d *Draft) { d.WindowEnd = "" },
			rule:    RuleRequiredFields,
			message: MsgRequiredFields,
		},
		{
			name:   "malformed date",
			mutate: func(d *Draft) { d.WindowStart = "12/01/2025" },
			rule:   RuleInvalidFormat,
		},
		{
			name:   "malformed time",
			mutate: func(d *Draft) { d.TimeEnd = "25:00" },
			rule:   RuleInvalidFormat,
		},
		{
			name:    "start date after end date",
			mutate:  func(d *Draft) { d.WindowStart = "2025-01-13" },
			rule:    RuleStartDateAfterEndDate,
			message: MsgStartDateAfterEndDate,
		},
		{
			name:    "same day start time after end time",
			mutate:  func(d *Draft) { d.TimeStart = "18:00" },
			rule:    RuleStartTimeAfterEndTime,
			message: MsgStartTimeAfterEndTime,
		},
		{
			name:    "same day identical times",
			mutate:  func(d *Draft) { d.TimeStart = "17:00" },
			rule:    RuleIdenticalTimes,
			message: MsgIdenticalTimes,
		},
		{
			name:   "same day defaults fill blank times",
			mutate: func(d *Draft) { d.TimeStart = ""; d.TimeEnd = "" },
			window: window,
		},
		{
			name:    "before event start",
			mutate:  func(d *Draft) { d.WindowStart = "2025-01-05" },
			window:  window,
			rule:    RuleBeforeEventStart,
			message: "Ticket sales cannot start before the event starts (2025-01-10)",
		},
		{
			name:    "after event end",
			mutate:  func(d *Draft) { d.WindowEnd = "2025-01-21" },
			window:  window,
			rule:    RuleAfterEventEnd,
			message: "Ticket sales cannot end after the event ends (2025-01-20)",
		},
		{
			name:   "absent lower bound is not enforced",
			mutate: func(d *Draft) { d.WindowStart = "2024-12-01" },
			window: &EventWindow{End: date("2025-01-20")},
		},
		{
			name:   "absent upper bound is not enforced",
			mutate: func(d *Draft) { d.WindowEnd = "2025-03-01" },
			window: &EventWindow{Start: date("2025-01-10")},
		},
		{
			name:    "zero quota",
			mutate:  func(d *Draft) { d.Quota = "0" },
			rule:    RuleInvalidQuota,
			message: MsgInvalidQuota,
		},
		{
			name:    "fractional quota",
			mutate:  func(d *Draft) { d.Quota = "1.5" },
			rule:    RuleInvalidQuota,
			message: MsgInvalidQuota,
		},
		{
			name:    "negative price",
			mutate:  func(d *Draft) { d.Price = "-1" },
			rule:    RuleInvalidPrice,
			message: MsgInvalidPrice,
		},
		{
			name:    "non-numeric price",
			mutate:  func(d *Draft) { d.Price = "NaN" },
			rule:    RuleInvalidPrice,
			message: MsgInvalidPrice,
		},
		{
			name:   "free ticket",
			mutate: func(d *Draft) { d.Price = "0" },
		},
		{
			name:    "price beyond the stored precision",
			mutate:  func(d *Draft) { d.Price = "1e15" },
			rule:    RuleInvalidPrice,
			message: MsgPriceTooHigh,
		},
		{
			name:   "largest storable price",
			mutate: func(d *Draft) { d.Price = "999999999999.99" },
		},
		{
			name:    "price with three decimals",
			mutate:  func(d *Draft) { d.Price = "50000.125" },
			rule:    RuleInvalidPrice,
			message: MsgPriceDecimals,
		},
		{
			name:    "tiny price in exponent form",
			mutate:  func(d *Draft) { d.Price = "1e-3" },
			rule:    RuleInvalidPrice,
			message: MsgPriceDecimals,
		},
		{
			name:   "trailing zero decimals",
			mutate: func(d *Draft) { d.Price = "50000.50" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := vipDraft()
			tt.mutate(&d)

			got := Validate(d, tt.window)

			if tt.rule == "" {
				assert.True(t, got.Valid, "unexpected failure: %s", got.Message)
				assert.NoError(t, got.Err())
				return
			}
			assert.False(t, got.Valid)
			assert.Equal(t, tt.rule, got.Rule)
			if tt.message != "" {
				assert.Equal(t, tt.message, got.Message)
			}

			var verr *ValidationError
			require.ErrorAs(t, got.Err(), &verr)
			assert.Equal(t, tt.rule, verr.Rule)
		})
	}
}

func TestValidate_IdenticalTimesAlwaysRejected(t *testing.T) {
	for _, clock := range []string{"00:00", "09:30", "12:00", "23:59"} {
		d := vipDraft()
		d.TimeStart = clock
		d.TimeEnd = clock

		got := Validate(d, nil)

		assert.Equal(t, RuleIdenticalTimes, got.Rule, clock)
	}
}

func TestValidate_InvertedDatesRejectedRegardlessOfTimes(t *testing.T) {
	times := [][2]string{{"00:00", "23:59"}, {"23:59", "00:00"}, {"10:00", "10:00"}}
	for _, tm := range times {
		d := vipDraft()
		d.WindowStart = "2025-01-15"
		d.WindowEnd = "2025-01-14"
		d.TimeStart, d.TimeEnd = tm[0], tm[1]

		got := Validate(d, nil)

		assert.Equal(t, RuleStartDateAfterEndDate, got.Rule, tm)
	}
}

func TestValidate_CrossDayNeverHitsSameDayRule(t *testing.T) {
	window := &EventWindow{Start: date("2025-01-10"), End: date("2025-01-20")}
	times := [][2]string{{"23:59", "00:00"}, {"17:00", "09:00"}, {"12:00", "12:00"}}
	for _, tm := range times {
		d := vipDraft()
		d.WindowStart = "2025-01-12"
		d.WindowEnd = "2025-01-13"
		d.TimeStart, d.TimeEnd = tm[0], tm[1]

		got := Validate(d, window)

		assert.True(t, got.Valid, "%v: %s", tm, got.Message)
	}
}

func TestNormalize(t *testing.T) {
	loc := jakarta(t)
	n := NewNormalizer(loc)

	d := vipDraft()
	require.True(t, Validate(d, &EventWindow{Start: date("2025-01-10"), End: date("2025-01-20")}).Valid)

	rec, err := n.Normalize(d)
	require.NoError(t, err)

	assert.Equal(t, "tmp-1", rec.ID)
	assert.Equal(t, "VIP", rec.Name)
	assert.Equal(t, 100, rec.Quota)
	assert.Equal(t, float64(50000), rec.Price)
	assert.Equal(t, "Front row\nFree merch", rec.Description)

	assert.Equal(t, time.UTC, rec.Start.Location())
	assert.Equal(t, "2025-01-12T09:00", rec.Start.In(loc).Format("2006-01-02T15:04"))
	assert.Equal(t, "2025-01-12T17:00", rec.End.In(loc).Format("2006-01-02T15:04"))
	assert.Equal(t, time.Date(2025, 1, 12, 2, 0, 0, 0, time.UTC), rec.Start)
}

func TestNormalize_DefaultTimes(t *testing.T) {
	n := NewNormalizer(nil)
	d := vipDraft()
	d.WindowEnd = "2025-01-14"
	d.TimeStart = ""
	d.TimeEnd = " "

	rec, err := n.Normalize(d)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC), rec.Start)
	assert.Equal(t, time.Date(2025, 1, 14, 23, 59, 0, 0, time.UTC), rec.End)
}

func TestNormalize_RejectsUnparsableInput(t *testing.T) {
	n := NewNormalizer(time.UTC)

	d := vipDraft()
	d.Quota = "many"
	_, err := n.Normalize(d)
	assert.Error(t, err)

	d = vipDraft()
	d.Price = "free"
	_, err = n.Normalize(d)
	assert.Error(t, err)
}

func TestNormalize_RoundTripsThroughDraft(t *testing.T) {
	n := NewNormalizer(jakarta(t))
	drafts := []Draft{vipDraft()}

	crossDay := vipDraft()
	crossDay.WindowEnd = "2025-01-19"
	crossDay.TimeStart = "23:30"
	crossDay.TimeEnd = "06:15"
	crossDay.Price = "75000.5"
	drafts = append(drafts, crossDay)

	for _, d := range drafts {
		first, err := n.Normalize(d)
		require.NoError(t, err)

		again, err := n.Normalize(n.DraftFromRecord(first))
		require.NoError(t, err)

		assert.Equal(t, first, again)
	}
}

func TestDraftFromRecord_FormatsEditableFields(t *testing.T) {
	n := NewNormalizer(jakarta(t))
	rec := Record{
		ID:    "c1",
		Name:  "Early Bird",
		Quota: 250,
		Price: 35000,
		Start: time.Date(2025, 1, 11, 17, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 1, 15, 16, 59, 0, 0, time.UTC),
	}

	d := n.DraftFromRecord(rec)

	assert.Equal(t, "250", d.Quota)
	assert.Equal(t, "35000", d.Price)
	assert.Equal(t, "2025-01-12", d.WindowStart)
	assert.Equal(t, "00:00", d.TimeStart)
	assert.Equal(t, "2025-01-15", d.WindowEnd)
	assert.Equal(t, "23:59", d.TimeEnd)
}

func TestNewDraft(t *testing.T) {
	a := NewDraft()
	b := NewDraft()

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, DefaultTimeStart, a.TimeStart)
	assert.Equal(t, DefaultTimeEnd, a.TimeEnd)
	assert.Equal(t, RuleRequiredFields, Validate(a, nil).Rule)
}
