package events

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"teatro/internal/shared/constants"
	"teatro/pkg/cache"

	"github.com/google/uuid"
)

type Service interface {
	SetCacheService(cacheService cache.Service)
	CreateEvent(ctx context.Context, req CreateEventRequest) (*EventResponse, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*EventResponse, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, req UpdateEventRequest) (*EventResponse, error)
	DeactivateEvent(ctx context.Context, id uuid.UUID) error
	GetAllEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error)
	GetCurrentEvents(ctx context.Context, limit int) ([]EventResponse, error)
	RemainingCapacity(ctx context.Context, eventID uuid.UUID, ticketType TicketType) (*AvailabilityResponse, error)
}

type service struct {
	repo         Repository
	cacheService cache.Service
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) getCache(ctx context.Context, key string, dest interface{}) error {
	if s.cacheService == nil {
		return fmt.Errorf("cache service not available")
	}
	return s.cacheService.Get(ctx, key, dest)
}

func (s *service) setCache(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Set(ctx, key, value, ttl); err != nil {
		fmt.Printf("Warning: failed to cache %s: %v\n", key, err)
	}
}

func (s *service) invalidateEventCache(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeletePattern(ctx, constants.PATTERN_INVALIDATE_EVENTS_ALL); err != nil {
		fmt.Printf("Warning: failed to invalidate event cache: %v\n", err)
	}
}

// buildTicketConfigs validates and converts config inputs. Duplicate ticket
// types within one request are rejected.
func buildTicketConfigs(category Category, inputs []TicketConfigInput) ([]TicketConfig, error) {
	seen := make(map[TicketType]bool, len(inputs))
	types := make([]TicketType, 0, len(inputs))
	configs := make([]TicketConfig, 0, len(inputs))

	for _, input := range inputs {
		ticketType := TicketType(input.TicketType)
		if seen[ticketType] {
			return nil, fmt.Errorf("duplicate ticket type in configuration: %s", ticketType)
		}
		seen[ticketType] = true
		types = append(types, ticketType)
		configs = append(configs, TicketConfig{
			TicketType: ticketType,
			Price:      input.Price,
			Capacity:   input.Capacity,
		})
	}

	if err := ValidateCompatible(category, types); err != nil {
		return nil, err
	}

	return configs, nil
}

func (s *service) CreateEvent(ctx context.Context, req CreateEventRequest) (*EventResponse, error) {
	if req.DateTime.Before(time.Now()) {
		return nil, errors.New("event date must be in the future")
	}

	category := Category(req.Category)
	configs, err := buildTicketConfigs(category, req.TicketConfigs)
	if err != nil {
		return nil, err
	}

	event := &Event{
		Name:          req.Name,
		Description:   req.Description,
		Venue:         req.Venue,
		DateTime:      req.DateTime,
		Category:      category,
		Active:        true,
		TicketConfigs: configs,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.invalidateEventCache(ctx)

	response := event.ToResponse()
	return &response, nil
}

func (s *service) GetEventByID(ctx context.Context, id uuid.UUID) (*EventResponse, error) {
	cacheKey := constants.BuildEventDetailKey(id.String())

	var cached EventResponse
	if err := s.getCache(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := event.ToResponse()
	s.setCache(ctx, cacheKey, response, constants.TTL_EVENT_DETAIL)

	return &response, nil
}

func (s *service) UpdateEvent(ctx context.Context, id uuid.UUID, req UpdateEventRequest) (*EventResponse, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Events are only updatable while still current
	if !current.IsCurrent() {
		return nil, ErrEventNotCurrent
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Venue != nil {
		updates["venue"] = *req.Venue
	}
	if req.DateTime != nil {
		if req.DateTime.Before(time.Now()) {
			return nil, errors.New("event date must be in the future")
		}
		updates["date_time"] = *req.DateTime
	}

	var configs []TicketConfig
	if req.TicketConfigs != nil {
		configs, err = buildTicketConfigs(current.Category, req.TicketConfigs)
		if err != nil {
			return nil, err
		}
	}

	updates["updated_at"] = time.Now()

	updated, err := s.repo.Update(ctx, id, updates, configs)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.invalidateEventCache(ctx)

	response := updated.ToResponse()
	return &response, nil
}

func (s *service) DeactivateEvent(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	hasConfirmed, err := s.repo.HasConfirmedReservations(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check event reservations: %w", err)
	}
	if hasConfirmed {
		return ErrEventHasReservations
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}

	s.invalidateEventCache(ctx)
	return nil
}

func (s *service) GetAllEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	cacheKey := constants.BuildEventListKey(query.Page, query.Limit, query.Category)

	// Filtered searches bypass the cache
	cacheable := query.Search == "" && query.Active == nil

	if cacheable {
		var cached PaginatedEvents
		if err := s.getCache(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	result, totalCount, err := s.repo.GetAll(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}

	responses := make([]EventResponse, len(result))
	for i, event := range result {
		responses[i] = event.ToResponse()
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(query.Limit)))

	paginated := &PaginatedEvents{
		Events:     responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages,
	}

	if cacheable {
		s.setCache(ctx, cacheKey, paginated, constants.TTL_EVENT_LIST)
	}

	return paginated, nil
}

func (s *service) GetCurrentEvents(ctx context.Context, limit int) ([]EventResponse, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	cacheKey := constants.CACHE_KEY_EVENTS_CURRENT + ":limit:" + fmt.Sprintf("%d", limit)

	var cached []EventResponse
	if err := s.getCache(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	result, err := s.repo.GetCurrent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get current events: %w", err)
	}

	responses := make([]EventResponse, len(result))
	for i, event := range result {
		responses[i] = event.ToResponse()
	}

	s.setCache(ctx, cacheKey, responses, constants.TTL_EVENT_CURRENT)

	return responses, nil
}

// RemainingCapacity computes capacity minus confirmed reservations for one
// ticket type. Unconfigured types report zero remaining, not an error.
func (s *service) RemainingCapacity(ctx context.Context, eventID uuid.UUID, ticketType TicketType) (*AvailabilityResponse, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	capacity, configured := event.CapacityFor(ticketType)
	if !configured {
		return &AvailabilityResponse{
			EventID:           eventID.String(),
			TicketType:        ticketType,
			Capacity:          0,
			ConfirmedCount:    0,
			RemainingCapacity: 0,
		}, nil
	}

	confirmed, err := s.repo.ConfirmedCount(ctx, eventID, ticketType)
	if err != nil {
		return nil, fmt.Errorf("failed to count confirmed reservations: %w", err)
	}

	remaining := capacity - confirmed
	if remaining < 0 {
		remaining = 0
	}

	return &AvailabilityResponse{
		EventID:           eventID.String(),
		TicketType:        ticketType,
		Capacity:          capacity,
		ConfirmedCount:    confirmed,
		RemainingCapacity: remaining,
	}, nil
}
