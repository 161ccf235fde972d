package constants

import (
	"fmt"
	"time"
)

// Redis Cache Configuration
// This file centralizes all Redis cache keys and TTL values for the Teatro application
// Pattern: teatro:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

// Static Data (Long TTL: rarely changes)
const (
	TTL_STATIC_LONG  = 24 * time.Hour // 24 hours - for very stable data
	TTL_STATIC_SHORT = 6 * time.Hour  // 6 hours - for customer profiles
)

// Semi-Static Data (Medium TTL: changes occasionally)
const (
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour    // 2 hours - for event details
	TTL_SEMI_STATIC_SHORT  = 1 * time.Hour    // 1 hour - for event listings
	TTL_SEMI_STATIC_QUICK  = 15 * time.Minute // 15 minutes - for current events
)

// Dynamic Data (Short TTL: changes frequently)
const (
	TTL_DYNAMIC_MEDIUM = 10 * time.Minute // 10 minutes - for loyalty stats
	TTL_DYNAMIC_SHORT  = 5 * time.Minute  // 5 minutes - for reservation listings
	TTL_DYNAMIC_QUICK  = 2 * time.Minute  // 2 minutes - for availability counts
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "teatro"
)

// ================== EVENTS MODULE ==================

// Event Cache Keys
const (
	CACHE_KEY_EVENTS_LIST    = CACHE_PREFIX + ":events:list"    // + :page:X:limit:Y:category:Z
	CACHE_KEY_EVENTS_CURRENT = CACHE_PREFIX + ":events:current" // + :page:X:limit:Y

	CACHE_KEY_EVENT_DETAIL       = CACHE_PREFIX + ":events:detail:uuid:"       // + event-id
	CACHE_KEY_EVENT_AVAILABILITY = CACHE_PREFIX + ":events:availability:uuid:" // + event-id:type:ticket-type
)

// Event Cache TTLs
const (
	TTL_EVENT_LIST         = TTL_SEMI_STATIC_SHORT  // 1 hour
	TTL_EVENT_CURRENT      = TTL_SEMI_STATIC_QUICK  // 15 minutes
	TTL_EVENT_DETAIL       = TTL_SEMI_STATIC_MEDIUM // 2 hours
	TTL_EVENT_AVAILABILITY = TTL_DYNAMIC_QUICK      // 2 minutes
)

// ================== CUSTOMERS MODULE ==================

// Customer Cache Keys
const (
	CACHE_KEY_CUSTOMER_DETAIL   = CACHE_PREFIX + ":customers:detail:uuid:" // + customer-id
	CACHE_KEY_CUSTOMER_BY_EMAIL = CACHE_PREFIX + ":customers:email:"       // + email
)

// Customer Cache TTLs
const (
	TTL_CUSTOMER_DETAIL = TTL_STATIC_SHORT // 6 hours
)

// ================== RESERVATIONS MODULE ==================

// Reservation Cache Keys
const (
	CACHE_KEY_CUSTOMER_RESERVATIONS = CACHE_PREFIX + ":reservations:customer:uuid:" // + customer-id
	CACHE_KEY_EVENT_RESERVATIONS    = CACHE_PREFIX + ":reservations:event:uuid:"    // + event-id
	CACHE_KEY_RESERVATION_DETAIL    = CACHE_PREFIX + ":reservations:detail:code:"   // + reservation-code
)

// Reservation Cache TTLs
const (
	TTL_CUSTOMER_RESERVATIONS = TTL_DYNAMIC_SHORT  // 5 minutes
	TTL_RESERVATION_DETAIL    = TTL_DYNAMIC_MEDIUM // 10 minutes
)

// ================== LOYALTY MODULE ==================

// Loyalty Cache Keys
const (
	CACHE_KEY_LOYALTY_STATS    = CACHE_PREFIX + ":loyalty:stats:overview"
	CACHE_KEY_LOYALTY_CUSTOMER = CACHE_PREFIX + ":loyalty:customer:uuid:" // + customer-id
	CACHE_KEY_LOYALTY_ELIGIBLE = CACHE_PREFIX + ":loyalty:eligible:all"
)

// Loyalty Cache TTLs
const (
	TTL_LOYALTY_STATS    = TTL_DYNAMIC_MEDIUM // 10 minutes
	TTL_LOYALTY_CUSTOMER = TTL_DYNAMIC_SHORT  // 5 minutes
)

// ================== CACHE INVALIDATION PATTERNS ==================

// Patterns for cache invalidation (used with pattern-based deletes)
const (
	PATTERN_INVALIDATE_EVENTS_ALL       = CACHE_PREFIX + ":events:*"
	PATTERN_INVALIDATE_CUSTOMERS_ALL    = CACHE_PREFIX + ":customers:*"
	PATTERN_INVALIDATE_RESERVATIONS_ALL = CACHE_PREFIX + ":reservations:*"
	PATTERN_INVALIDATE_LOYALTY_ALL      = CACHE_PREFIX + ":loyalty:*"
)

// ================== HELPER FUNCTIONS ==================

// BuildEventListKey constructs paged event listing keys
// Example: BuildEventListKey(1, 10, "CONCERT") -> "teatro:events:list:page:1:limit:10:category:CONCERT"
func BuildEventListKey(page, limit int, category string) string {
	if category != "" {
		return CACHE_KEY_EVENTS_LIST + ":page:" + fmt.Sprintf("%d", page) + ":limit:" + fmt.Sprintf("%d", limit) + ":category:" + category
	}
	return CACHE_KEY_EVENTS_LIST + ":page:" + fmt.Sprintf("%d", page) + ":limit:" + fmt.Sprintf("%d", limit)
}

func BuildEventDetailKey(eventID string) string {
	return CACHE_KEY_EVENT_DETAIL + eventID
}

func BuildEventAvailabilityKey(eventID, ticketType string) string {
	return CACHE_KEY_EVENT_AVAILABILITY + eventID + ":type:" + ticketType
}

func BuildCustomerDetailKey(customerID string) string {
	return CACHE_KEY_CUSTOMER_DETAIL + customerID
}

func BuildCustomerReservationsKey(customerID string) string {
	return CACHE_KEY_CUSTOMER_RESERVATIONS + customerID
}

func BuildEventReservationsKey(eventID string) string {
	return CACHE_KEY_EVENT_RESERVATIONS + eventID
}

func BuildReservationDetailKey(code string) string {
	return CACHE_KEY_RESERVATION_DETAIL + code
}

func BuildLoyaltyCustomerKey(customerID string) string {
	return CACHE_KEY_LOYALTY_CUSTOMER + customerID
}
