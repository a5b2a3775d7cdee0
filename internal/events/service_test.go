package events

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tiketin/internal/ticketcategories"
	"tiketin/pkg/cache"
	"tiketin/pkg/logger"
)

type fakeRepo struct {
	events map[uuid.UUID]*Event
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{events: map[uuid.UUID]*Event{}}
}

func (r *fakeRepo) Create(_ context.Context, e *Event) error {
	cp := *e
	r.events[e.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeRepo) Update(_ context.Context, id uuid.UUID, updates map[string]interface{}) (*Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	for k, v := range updates {
		switch k {
		case "name":
			e.Name = v.(string)
		case "description":
			e.Description = v.(string)
		case "location":
			e.Location = v.(string)
		case "status":
			e.Status = v.(EventStatus)
		case "date_start":
			e.DateStart = v.(*time.Time)
		case "date_end":
			e.DateEnd = v.(*time.Time)
		}
	}
	cp := *e
	return &cp, nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.events[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *fakeRepo) GetAll(_ context.Context, query EventListQuery) ([]Event, int64, error) {
	var out []Event
	for _, e := range r.events {
		if query.Status != "" && string(e.Status) != query.Status {
			continue
		}
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

// fakeTickets implements only what the events service calls.
type fakeTickets struct {
	ticketcategories.Service
	windowErr   error
	checked     []*ticketcategories.EventWindow
	invalidated []uuid.UUID
	categories  []ticketcategories.TicketCategoryResponse
}

func (f *fakeTickets) CheckEventWindow(_ context.Context, _ uuid.UUID, w *ticketcategories.EventWindow) error {
	f.checked = append(f.checked, w)
	return f.windowErr
}

func (f *fakeTickets) InvalidateEventCache(_ context.Context, id uuid.UUID) {
	f.invalidated = append(f.invalidated, id)
}

func (f *fakeTickets) ListByEvent(context.Context, uuid.UUID) ([]ticketcategories.TicketCategoryResponse, error) {
	return f.categories, nil
}

func strPtr(s string) *string { return &s }

func newTestService() (Service, *fakeRepo, *fakeTickets) {
	repo := newFakeRepo()
	tickets := &fakeTickets{}
	return NewService(repo, tickets), repo, tickets
}

func TestService_CreateEvent(t *testing.T) {
	svc, repo, _ := newTestService()

	got, err := svc.CreateEvent(context.Background(), CreateEventRequest{
		Name:      " Java Jazz ",
		Location:  "JIExpo Kemayoran",
		DateStart: "2025-01-10",
		DateEnd:   "2025-01-20",
	})
	require.NoError(t, err)

	assert.Equal(t, "Java Jazz", got.Name)
	assert.Equal(t, EventStatusDraft, got.Status)
	assert.Equal(t, "2025-01-10", got.DateStart)
	assert.Equal(t, "2025-01-20", got.DateEnd)
	assert.Len(t, repo.events, 1)
}

func TestService_CreateEventRejectsInvertedDates(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateEvent(context.Background(), CreateEventRequest{
		Name: "Festival", Location: "Bali", DateStart: "2025-02-01", DateEnd: "2025-01-01",
	})

	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestService_CreateEventWithoutDates(t *testing.T) {
	svc, _, _ := newTestService()

	got, err := svc.CreateEvent(context.Background(), CreateEventRequest{Name: "TBA Show", Location: "Bandung"})

	require.NoError(t, err)
	assert.Empty(t, got.DateStart)
	assert.Empty(t, got.DateEnd)
}

func TestService_UpdateEventDatesChecksTicketWindows(t *testing.T) {
	svc, _, tickets := newTestService()
	ctx := context.Background()

	created, err := svc.CreateEvent(ctx, CreateEventRequest{
		Name: "Java Jazz", Location: "Jakarta", DateStart: "2025-01-10", DateEnd: "2025-01-20",
	})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	tickets.windowErr = &ticketcategories.ValidationError{
		Rule:    ticketcategories.RuleAfterEventEnd,
		Message: "VIP: Ticket sales cannot end after the event ends (2025-01-15)",
	}
	_, err = svc.UpdateEvent(ctx, id, UpdateEventRequest{DateEnd: strPtr("2025-01-15")})

	var verr *ticketcategories.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, tickets.checked, 1)
	assert.Equal(t, "2025-01-10", tickets.checked[0].Start.Format("2006-01-02"))
	assert.Equal(t, "2025-01-15", tickets.checked[0].End.Format("2006-01-02"))

	tickets.windowErr = nil
	updated, err := svc.UpdateEvent(ctx, id, UpdateEventRequest{DateEnd: strPtr("2025-01-25")})
	require.NoError(t, err)
	assert.Equal(t, "2025-01-25", updated.DateEnd)
	assert.Contains(t, tickets.invalidated, id)
}

func TestService_UpdateEventStatus(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateEvent(ctx, CreateEventRequest{Name: "Java Jazz", Location: "Jakarta"})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	_, err = svc.UpdateEvent(ctx, id, UpdateEventRequest{Status: strPtr("completed")})
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	got, err := svc.UpdateEvent(ctx, id, UpdateEventRequest{Status: strPtr("published")})
	require.NoError(t, err)
	assert.Equal(t, EventStatusPublished, got.Status)

	_, err = svc.UpdateEvent(ctx, id, UpdateEventRequest{Status: strPtr("cancelled")})
	require.NoError(t, err)

	_, err = svc.UpdateEvent(ctx, id, UpdateEventRequest{Name: strPtr("Renamed")})
	assert.ErrorIs(t, err, ErrEventNotEditable)
}

func TestService_DeleteEvent(t *testing.T) {
	svc, repo, tickets := newTestService()
	ctx := context.Background()

	created, err := svc.CreateEvent(ctx, CreateEventRequest{Name: "Java Jazz", Location: "Jakarta"})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	repo.events[id].Status = EventStatusPublished
	assert.ErrorIs(t, svc.DeleteEvent(ctx, id), ErrEventNotDeletable)

	repo.events[id].Status = EventStatusCancelled
	require.NoError(t, svc.DeleteEvent(ctx, id))
	assert.Empty(t, repo.events)
	assert.Contains(t, tickets.invalidated, id)

	assert.ErrorIs(t, svc.DeleteEvent(ctx, id), ErrEventNotFound)
}

func TestService_GetEventByIDIncludesCategories(t *testing.T) {
	svc, _, tickets := newTestService()
	ctx := context.Background()

	created, err := svc.CreateEvent(ctx, CreateEventRequest{Name: "Java Jazz", Location: "Jakarta"})
	require.NoError(t, err)
	tickets.categories = []ticketcategories.TicketCategoryResponse{{Name: "VIP"}}

	got, err := svc.GetEventByID(ctx, uuid.MustParse(created.ID))
	require.NoError(t, err)
	require.Len(t, got.TicketCategories, 1)
	assert.Equal(t, "VIP", got.TicketCategories[0].Name)

	_, err = svc.GetEventByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestService_GetAllEventsPaginates(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	for _, name := range []string{"One", "Two", "Three"} {
		_, err := svc.CreateEvent(ctx, CreateEventRequest{Name: name + " Fest", Location: "Jakarta"})
		require.NoError(t, err)
	}

	got, err := svc.GetAllEvents(ctx, EventListQuery{Limit: 2})
	require.NoError(t, err)

	assert.Equal(t, 1, got.Page)
	assert.Equal(t, int64(3), got.TotalCount)
	assert.Equal(t, 2, got.TotalPages)
}

// downCache fails every call, like a Redis that has gone away.
type downCache struct{ err error }

func (d downCache) Get(context.Context, string, interface{}) error {
	return d.err
}

func (d downCache) Set(context.Context, string, interface{}, time.Duration) error {
	return d.err
}

func (d downCache) Delete(context.Context, string) error {
	return d.err
}

func (d downCache) DeletePattern(context.Context, string) error {
	return d.err
}

func (d downCache) GetOrSet(context.Context, string, time.Duration, func() (interface{}, error), interface{}) error {
	return d.err
}

func (d downCache) Ping(context.Context) error {
	return d.err
}

var _ cache.Service = downCache{}

func TestService_CacheFailuresAreLoggedNotReturned(t *testing.T) {
	var buf bytes.Buffer
	prev := logger.GetDefault()
	logger.SetDefault(&logger.Logger{Logger: slog.New(slog.NewJSONHandler(&buf, nil))})
	t.Cleanup(func() { logger.SetDefault(prev) })

	svc, _, _ := newTestService()
	svc.SetCacheService(downCache{err: errors.New("redis: connection refused")})
	ctx := context.Background()

	created, err := svc.CreateEvent(ctx, CreateEventRequest{Name: "Java Jazz", Location: "Jakarta"})
	require.NoError(t, err)

	_, err = svc.GetEventByID(ctx, uuid.MustParse(created.ID))
	require.NoError(t, err)

	_, err = svc.GetAllEvents(ctx, EventListQuery{})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, "failed to invalidate event cache after creation")
	assert.Contains(t, out, "failed to cache event detail")
	assert.Contains(t, out, "failed to cache event list")
	assert.Contains(t, out, `"error":"failed to invalidate cache pattern`)
	assert.Contains(t, out, "redis: connection refused")
}
