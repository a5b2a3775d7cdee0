package constants

import (
	"fmt"
	"time"
)

// Redis Cache Configuration
// This file centralizes all Redis cache keys and TTL values for the Tiketin application
// Pattern: tiketin:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

// Static Data (Long TTL: rarely changes)
const (
	TTL_STATIC_LONG = 24 * time.Hour // 24 hours - for very stable data
)

// Semi-Static Data (Medium TTL: changes occasionally)
const (
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour    // 2 hours - for event details
	TTL_SEMI_STATIC_SHORT  = 1 * time.Hour    // 1 hour - for event listings
	TTL_SEMI_STATIC_QUICK  = 15 * time.Minute // 15 minutes - for ticket categories
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "tiketin"
)

// ================== EVENTS MODULE ==================

// Event Cache Keys
const (
	CACHE_KEY_EVENTS_LIST  = CACHE_PREFIX + ":events:list"         // + :page:X:limit:Y:status:Z
	CACHE_KEY_EVENT_DETAIL = CACHE_PREFIX + ":events:detail:uuid:" // + event-id
)

// Event Cache TTLs
const (
	TTL_EVENT_LIST   = TTL_SEMI_STATIC_SHORT  // 1 hour
	TTL_EVENT_DETAIL = TTL_SEMI_STATIC_MEDIUM // 2 hours
)

// ================== TICKET CATEGORIES MODULE ==================

// Ticket Category Cache Keys
const (
	CACHE_KEY_TICKET_CATEGORIES_BY_EVENT = CACHE_PREFIX + ":ticket_categories:event:uuid:" // + event-id
	CACHE_KEY_TICKET_CATEGORY_SUGGESTION = CACHE_PREFIX + ":ticket_categories:suggestions"
)

// Ticket Category Cache TTLs
const (
	TTL_TICKET_CATEGORIES           = TTL_SEMI_STATIC_QUICK // 15 minutes
	TTL_TICKET_CATEGORY_SUGGESTIONS = TTL_STATIC_LONG       // 24 hours
)

// ================== CACHE INVALIDATION PATTERNS ==================

// Patterns for cache invalidation (matched with SCAN in cache.DeletePattern)
const (
	PATTERN_INVALIDATE_EVENT_LIST   = CACHE_PREFIX + ":events:list*"
	PATTERN_INVALIDATE_EVENT_DETAIL = CACHE_PREFIX + ":events:*:uuid:" // + event-id + *
)

// ================== HELPER FUNCTIONS ==================

// BuildEventListKey constructs the paginated list key
// Example: BuildEventListKey(1, 10, "published") -> "tiketin:events:list:page:1:limit:10:status:published"
func BuildEventListKey(page, limit int, status, search string) string {
	key := fmt.Sprintf("%s:page:%d:limit:%d", CACHE_KEY_EVENTS_LIST, page, limit)
	if status != "" {
		key += ":status:" + status
	}
	if search != "" {
		key += ":search:" + search
	}
	return key
}

func BuildEventDetailKey(eventID string) string {
	return CACHE_KEY_EVENT_DETAIL + eventID
}

func BuildEventInvalidationPattern(eventID string) string {
	return PATTERN_INVALIDATE_EVENT_DETAIL + eventID + "*"
}

func BuildTicketCategoriesKey(eventID string) string {
	return CACHE_KEY_TICKET_CATEGORIES_BY_EVENT + eventID
}

/*
INVALIDATION:

1. When a ticket category is created, updated or deleted:
   - Delete: tiketin:ticket_categories:event:uuid:eventID
   - Delete: tiketin:events:detail:uuid:eventID
   - Delete: tiketin:ticket_categories:suggestions

2. When an event is updated or deleted:
   - Invalidate: tiketin:events:list*
   - Invalidate: tiketin:events:*:uuid:eventID*
   - Delete: tiketin:ticket_categories:event:uuid:eventID (delete only)
*/
