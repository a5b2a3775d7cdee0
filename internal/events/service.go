package events

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tiketin/internal/shared/constants"
	"tiketin/internal/ticketcategories"
	"tiketin/pkg/cache"
	"tiketin/pkg/logger"
)

type Service interface {
	SetCacheService(cacheService cache.Service)

	CreateEvent(ctx context.Context, req CreateEventRequest) (*EventResponse, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*EventResponse, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, req UpdateEventRequest) (*EventResponse, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	GetAllEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error)
}

type service struct {
	repo          Repository
	ticketService ticketcategories.Service
	cacheService  cache.Service
	log           *logger.Logger
}

func NewService(repo Repository, ticketService ticketcategories.Service) Service {
	return &service{
		repo:          repo,
		ticketService: ticketService,
		log:           logger.GetDefault(),
	}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

// Cache helper methods
func (s *service) setCache(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.cacheService == nil {
		return nil // Skip caching if cache service is not available
	}
	return s.cacheService.Set(ctx, key, value, ttl)
}

func (s *service) getCache(ctx context.Context, key string, dest interface{}) error {
	if s.cacheService == nil {
		return fmt.Errorf("cache service not available")
	}
	return s.cacheService.Get(ctx, key, dest)
}

func (s *service) invalidateEventCache(ctx context.Context, eventID *uuid.UUID) error {
	if s.cacheService == nil {
		return nil
	}

	patterns := []string{constants.PATTERN_INVALIDATE_EVENT_LIST}
	if eventID != nil {
		patterns = append(patterns, constants.BuildEventInvalidationPattern(eventID.String()))
	}

	for _, pattern := range patterns {
		if err := s.cacheService.DeletePattern(ctx, pattern); err != nil {
			return fmt.Errorf("failed to invalidate cache pattern %s: %w", pattern, err)
		}
	}
	return nil
}

func (s *service) CreateEvent(ctx context.Context, req CreateEventRequest) (*EventResponse, error) {
	dateStart, dateEnd, err := parseDateRange(req.DateStart, req.DateEnd)
	if err != nil {
		return nil, err
	}

	event := &Event{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Location:    strings.TrimSpace(req.Location),
		DateStart:   dateStart,
		DateEnd:     dateEnd,
		Status:      EventStatusDraft,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	if err := s.invalidateEventCache(ctx, nil); err != nil {
		s.log.WithError(err).WarnContext(ctx, "failed to invalidate event cache after creation")
	}

	s.log.LogEventCreated(ctx, event.ID.String(), event.Name)

	response := event.ToResponse()
	return &response, nil
}

func (s *service) GetEventByID(ctx context.Context, id uuid.UUID) (*EventResponse, error) {
	cacheKey := constants.BuildEventDetailKey(id.String())

	var response EventResponse
	if err := s.getCache(ctx, cacheKey, &response); err != nil {
		event, err := s.getEvent(ctx, id)
		if err != nil {
			return nil, err
		}
		response = event.ToResponse()

		if err := s.setCache(ctx, cacheKey, response, constants.TTL_EVENT_DETAIL); err != nil {
			s.log.WithError(err).WarnContext(ctx, "failed to cache event detail", "event_id", id.String())
		}
	}

	// Categories carry their own cache and a clock-derived sale status
	categories, err := s.ticketService.ListByEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket categories: %w", err)
	}
	response.TicketCategories = categories

	return &response, nil
}

func (s *service) UpdateEvent(ctx context.Context, id uuid.UUID, req UpdateEventRequest) (*EventResponse, error) {
	current, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if req.Status != nil {
		next := EventStatus(*req.Status)
		if !current.Status.CanTransitionTo(next) {
			return nil, fmt.Errorf("%w: %s to %s", ErrInvalidStatusTransition, current.Status, next)
		}
		if next != current.Status {
			updates["status"] = next
		}
	}

	hasDetailChanges := req.Name != nil || req.Description != nil || req.Location != nil ||
		req.DateStart != nil || req.DateEnd != nil
	if hasDetailChanges && !current.Status.CanBeUpdated() {
		return nil, ErrEventNotEditable
	}

	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Location != nil {
		updates["location"] = strings.TrimSpace(*req.Location)
	}

	if req.DateStart != nil || req.DateEnd != nil {
		startStr, endStr := formatDate(current.DateStart), formatDate(current.DateEnd)
		if req.DateStart != nil {
			startStr = *req.DateStart
		}
		if req.DateEnd != nil {
			endStr = *req.DateEnd
		}

		dateStart, dateEnd, err := parseDateRange(startStr, endStr)
		if err != nil {
			return nil, err
		}

		// Moving the event must not strand existing ticket sales outside it
		window := &ticketcategories.EventWindow{Start: dateStart, End: dateEnd}
		if err := s.ticketService.CheckEventWindow(ctx, id, window); err != nil {
			return nil, err
		}

		updates["date_start"] = dateStart
		updates["date_end"] = dateEnd
	}

	event, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	if err := s.invalidateEventCache(ctx, &id); err != nil {
		s.log.WithError(err).WarnContext(ctx, "failed to invalidate event cache after update", "event_id", id.String())
	}
	// Editability of categories follows the event status
	s.ticketService.InvalidateEventCache(ctx, id)

	if next, ok := updates["status"]; ok {
		s.log.InfoWithContext(ctx, "Event status changed", map[string]interface{}{
			"event_id": id.String(),
			"from":     string(current.Status),
			"to":       string(next.(EventStatus)),
		})
	}

	response := event.ToResponse()
	return &response, nil
}

func (s *service) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	event, err := s.getEvent(ctx, id)
	if err != nil {
		return err
	}
	if !event.Status.CanBeDeleted() {
		return ErrEventNotDeletable
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to delete event: %w", err)
	}

	if err := s.invalidateEventCache(ctx, &id); err != nil {
		s.log.WithError(err).WarnContext(ctx, "failed to invalidate event cache after deletion", "event_id", id.String())
	}
	s.ticketService.InvalidateEventCache(ctx, id)

	return nil
}

func (s *service) GetAllEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error) {
	if query.Page == 0 {
		query.Page = 1
	}
	if query.Limit == 0 {
		query.Limit = 10
	}

	cacheKey := constants.BuildEventListKey(query.Page, query.Limit, query.Status, query.Search)
	cacheable := query.DateFrom == "" && query.DateTo == ""

	if cacheable {
		var cachedResult PaginatedEvents
		if err := s.getCache(ctx, cacheKey, &cachedResult); err == nil {
			return &cachedResult, nil
		}
	}

	events, totalCount, err := s.repo.GetAll(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}

	responses := make([]EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, events[i].ToResponse())
	}

	result := &PaginatedEvents{
		Events:     responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: int(math.Ceil(float64(totalCount) / float64(query.Limit))),
	}

	if cacheable {
		if err := s.setCache(ctx, cacheKey, result, constants.TTL_EVENT_LIST); err != nil {
			s.log.WithError(err).WarnContext(ctx, "failed to cache event list", "key", cacheKey)
		}
	}

	return result, nil
}

func (s *service) getEvent(ctx context.Context, id uuid.UUID) (*Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

func parseDateRange(startStr, endStr string) (*time.Time, *time.Time, error) {
	dateStart, err := parseDate(startStr)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidDateRange, err)
	}
	dateEnd, err := parseDate(endStr)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidDateRange, err)
	}
	if dateStart != nil && dateEnd != nil && dateStart.After(*dateEnd) {
		return nil, nil, ErrInvalidDateRange
	}
	return dateStart, dateEnd, nil
}
