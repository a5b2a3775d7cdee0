package ticketcategories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tiketin/internal/shared/clock"
	"tiketin/internal/shared/constants"
	"tiketin/pkg/cache"
	"tiketin/pkg/logger"
)

// DefaultSuggestions are offered to organizers before any event has categories.
var DefaultSuggestions = []string{"Presale", "Early Bird", "Regular", "VIP", "VVIP", "Festival"}

const popularNamesLimit = 10

// EventSchedule is what this package needs to know about the owning event.
type EventSchedule struct {
	Window   EventWindow
	Editable bool
}

// EventReader is implemented by the events module.
type EventReader interface {
	GetEventSchedule(ctx context.Context, eventID uuid.UUID) (*EventSchedule, error)
}

type Service interface {
	SetCacheService(cacheService cache.Service)
	SetPublisher(publisher ChangePublisher)

	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]TicketCategoryResponse, error)
	Create(ctx context.Context, eventID uuid.UUID, draft Draft) (*TicketCategoryResponse, error)
	Update(ctx context.Context, eventID, categoryID uuid.UUID, draft Draft) (*TicketCategoryResponse, error)
	Delete(ctx context.Context, eventID, categoryID uuid.UUID) error
	GetDraft(ctx context.Context, eventID, categoryID uuid.UUID) (*Draft, error)

	Preview(ctx context.Context, req ValidateRequest) (*ValidationResponse, error)
	Suggestions(ctx context.Context) ([]string, error)

	// CheckEventWindow reports the first stored category that would fall
	// outside window. Called by the events module before moving event dates.
	CheckEventWindow(ctx context.Context, eventID uuid.UUID, window *EventWindow) error
	InvalidateEventCache(ctx context.Context, eventID uuid.UUID)
}

type service struct {
	repo         Repository
	events       EventReader
	normalizer   Normalizer
	clock        clock.Clock
	cacheService cache.Service
	publisher    ChangePublisher
	log          *logger.Logger
}

func NewService(repo Repository, events EventReader, normalizer Normalizer, clk clock.Clock) Service {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &service{
		repo:       repo,
		events:     events,
		normalizer: normalizer,
		clock:      clk,
		publisher:  NoopPublisher{},
		log:        logger.GetDefault(),
	}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) SetPublisher(publisher ChangePublisher) {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	s.publisher = publisher
}

// Cache helper methods
func (s *service) setCache(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.cacheService == nil {
		return nil
	}
	return s.cacheService.Set(ctx, key, value, ttl)
}

func (s *service) getCache(ctx context.Context, key string, dest interface{}) error {
	if s.cacheService == nil {
		return fmt.Errorf("cache service not available")
	}
	return s.cacheService.Get(ctx, key, dest)
}

func (s *service) InvalidateEventCache(ctx context.Context, eventID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	keys := []string{
		constants.BuildTicketCategoriesKey(eventID.String()),
		constants.BuildEventDetailKey(eventID.String()),
		constants.CACHE_KEY_TICKET_CATEGORY_SUGGESTION,
	}
	for _, key := range keys {
		if err := s.cacheService.Delete(ctx, key); err != nil {
			s.log.WithError(err).WarnContext(ctx, "failed to invalidate ticket category cache", "key", key)
		}
	}
}

func (s *service) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]TicketCategoryResponse, error) {
	if _, err := s.events.GetEventSchedule(ctx, eventID); err != nil {
		return nil, err
	}

	categories, err := s.listCached(ctx, eventID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	responses := make([]TicketCategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, categories[i].ToResponse(now))
	}
	return responses, nil
}

// listCached caches entities rather than responses since sale status moves with the clock.
func (s *service) listCached(ctx context.Context, eventID uuid.UUID) ([]TicketCategory, error) {
	cacheKey := constants.BuildTicketCategoriesKey(eventID.String())

	var cached []TicketCategory
	if err := s.getCache(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	categories, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket categories: %w", err)
	}

	if err := s.setCache(ctx, cacheKey, categories, constants.TTL_TICKET_CATEGORIES); err != nil {
		s.log.WithError(err).WarnContext(ctx, "failed to cache ticket categories", "event_id", eventID.String())
	}
	return categories, nil
}

func (s *service) Create(ctx context.Context, eventID uuid.UUID, draft Draft) (*TicketCategoryResponse, error) {
	schedule, err := s.editableSchedule(ctx, eventID)
	if err != nil {
		return nil, err
	}

	record, err := s.validateAndNormalize(ctx, eventID, draft, &schedule.Window)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.NameExists(ctx, eventID, record.Name, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check ticket category name: %w", err)
	}
	if exists {
		return nil, ErrDuplicateName
	}

	category := &TicketCategory{ID: uuid.New(), EventID: eventID}
	category.applyRecord(record)

	if err := s.repo.Create(ctx, category); err != nil {
		// A concurrent create can win the name between NameExists and here
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to create ticket category: %w", err)
	}

	s.afterChange(ctx, ChangeCreated, category)

	response := category.ToResponse(s.clock.Now())
	if draft.ID != "" && draft.ID != response.ID {
		response.ClientID = draft.ID
	}
	return &response, nil
}

func (s *service) Update(ctx context.Context, eventID, categoryID uuid.UUID, draft Draft) (*TicketCategoryResponse, error) {
	category, err := s.getCategory(ctx, eventID, categoryID)
	if err != nil {
		return nil, err
	}

	schedule, err := s.editableSchedule(ctx, eventID)
	if err != nil {
		return nil, err
	}

	record, err := s.validateAndNormalize(ctx, eventID, draft, &schedule.Window)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.NameExists(ctx, eventID, record.Name, &categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to check ticket category name: %w", err)
	}
	if exists {
		return nil, ErrDuplicateName
	}
	if record.Quota < category.Sold {
		return nil, ErrQuotaBelowSold
	}

	category.applyRecord(record)
	if err := s.repo.Update(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to update ticket category: %w", err)
	}

	s.afterChange(ctx, ChangeUpdated, category)

	response := category.ToResponse(s.clock.Now())
	return &response, nil
}

func (s *service) Delete(ctx context.Context, eventID, categoryID uuid.UUID) error {
	category, err := s.getCategory(ctx, eventID, categoryID)
	if err != nil {
		return err
	}
	if _, err := s.editableSchedule(ctx, eventID); err != nil {
		return err
	}
	if category.Sold > 0 {
		return ErrCategoryHasSales
	}

	if err := s.repo.Delete(ctx, eventID, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTicketCategoryNotFound
		}
		return fmt.Errorf("failed to delete ticket category: %w", err)
	}

	s.afterChange(ctx, ChangeDeleted, category)
	return nil
}

func (s *service) GetDraft(ctx context.Context, eventID, categoryID uuid.UUID) (*Draft, error) {
	category, err := s.getCategory(ctx, eventID, categoryID)
	if err != nil {
		return nil, err
	}
	draft := s.normalizer.DraftFromRecord(category.ToRecord())
	return &draft, nil
}

func (s *service) Preview(ctx context.Context, req ValidateRequest) (*ValidationResponse, error) {
	var window *EventWindow
	if eventID, ok := req.eventUUID(); ok {
		schedule, err := s.events.GetEventSchedule(ctx, eventID)
		if err != nil {
			return nil, err
		}
		window = &schedule.Window
	} else {
		w, err := req.EventWindow.ToWindow()
		if err != nil {
			return nil, fmt.Errorf("invalid event window: %w", err)
		}
		window = w
	}

	result := Validate(req.Draft, window)
	response := &ValidationResponse{Result: result}
	if !result.Valid {
		return response, nil
	}

	record, err := s.normalizer.Normalize(req.Draft)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize ticket category: %w", err)
	}
	record.Name = strings.TrimSpace(record.Name)
	response.Record = &record
	return response, nil
}

func (s *service) Suggestions(ctx context.Context) ([]string, error) {
	load := func() (interface{}, error) {
		popular, err := s.repo.PopularNames(ctx, popularNamesLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to load popular ticket category names: %w", err)
		}
		return mergeNames(DefaultSuggestions, popular), nil
	}

	if s.cacheService == nil {
		names, err := load()
		if err != nil {
			return nil, err
		}
		return names.([]string), nil
	}

	var suggestions []string
	err := s.cacheService.GetOrSet(ctx, constants.CACHE_KEY_TICKET_CATEGORY_SUGGESTION,
		constants.TTL_TICKET_CATEGORY_SUGGESTIONS, load, &suggestions)
	if err != nil {
		return nil, err
	}
	return suggestions, nil
}

func (s *service) CheckEventWindow(ctx context.Context, eventID uuid.UUID, window *EventWindow) error {
	categories, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to list ticket categories: %w", err)
	}

	for i := range categories {
		draft := s.normalizer.DraftFromRecord(categories[i].ToRecord())
		if result := Validate(draft, window); !result.Valid {
			return &ValidationError{
				Rule:    result.Rule,
				Message: fmt.Sprintf("%s: %s", categories[i].Name, result.Message),
			}
		}
	}
	return nil
}

func (s *service) getCategory(ctx context.Context, eventID, categoryID uuid.UUID) (*TicketCategory, error) {
	category, err := s.repo.GetByID(ctx, eventID, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get ticket category: %w", err)
	}
	return category, nil
}

func (s *service) editableSchedule(ctx context.Context, eventID uuid.UUID) (*EventSchedule, error) {
	schedule, err := s.events.GetEventSchedule(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !schedule.Editable {
		return nil, ErrEventClosed
	}
	return schedule, nil
}

func (s *service) validateAndNormalize(ctx context.Context, eventID uuid.UUID, draft Draft, window *EventWindow) (Record, error) {
	result := Validate(draft, window)
	if !result.Valid {
		s.log.LogValidationRejected(ctx, eventID.String(), string(result.Rule), result.Message)
		return Record{}, result.Err()
	}

	record, err := s.normalizer.Normalize(draft)
	if err != nil {
		return Record{}, fmt.Errorf("failed to normalize ticket category: %w", err)
	}
	record.Name = strings.TrimSpace(record.Name)
	return record, nil
}

// afterChange never fails the request. Cache and broker errors are logged.
func (s *service) afterChange(ctx context.Context, changeType ChangeType, category *TicketCategory) {
	s.InvalidateEventCache(ctx, category.EventID)

	change := NewChangeEvent(changeType, category, s.clock.Now())
	if err := s.publisher.Publish(ctx, change); err != nil {
		s.log.ErrorWithContext(ctx, "failed to publish ticket category change", err, map[string]interface{}{
			"change_type":        string(changeType),
			"ticket_category_id": category.ID.String(),
		})
	}

	s.log.LogTicketCategoryChanged(ctx, string(changeType), category.EventID.String(), category.ID.String())
}

func mergeNames(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	merged := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, name := range list {
			name = strings.TrimSpace(name)
			key := strings.ToLower(name)
			if name == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, name)
		}
	}
	return merged
}
