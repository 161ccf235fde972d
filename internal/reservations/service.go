package reservations

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"time"

	"teatro/internal/customers"
	"teatro/internal/events"
	"teatro/internal/notifications"
	"teatro/internal/shared/constants"
	"teatro/pkg/cache"
	"teatro/pkg/logger"

	"github.com/google/uuid"
)

const (
	codePrefix     = "RES-"
	codeRandomLen  = 8
	codeCharset    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	defaultRetries = 3
)

// CustomerStore is the slice of the customer repository the orchestrator needs
type CustomerStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*customers.Customer, error)
}

// EventStore is the slice of the event repository the orchestrator needs
type EventStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*events.Event, error)
}

type Service interface {
	SetCacheService(cacheService cache.Service)
	SetNotificationPublisher(publisher notifications.Publisher)

	Create(ctx context.Context, req CreateReservationRequest) (*ReservationResponse, error)
	CreateAndConfirm(ctx context.Context, req CreateReservationRequest) (*ReservationResponse, error)
	Confirm(ctx context.Context, id uuid.UUID) (*ReservationResponse, error)
	Cancel(ctx context.Context, id uuid.UUID, reason string) (*ReservationResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error

	GetByID(ctx context.Context, id uuid.UUID) (*ReservationResponse, error)
	GetByCode(ctx context.Context, code string) (*ReservationResponse, error)
	GetByCustomerID(ctx context.Context, customerID uuid.UUID) ([]ReservationResponse, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID) ([]ReservationResponse, error)
	GetAll(ctx context.Context, query ReservationListQuery) (*PaginatedReservations, error)
	GetStalePending(ctx context.Context) ([]ReservationResponse, error)
}

// Options carries tuning knobs for the reservation engine
type Options struct {
	CodeRetryAttempts int
	PendingExpiry     time.Duration
}

type service struct {
	repo          Repository
	customerStore CustomerStore
	eventStore    EventStore
	opts          Options
	cacheService  cache.Service
	publisher     notifications.Publisher
	log           *logger.Logger
}

func NewService(repo Repository, customerStore CustomerStore, eventStore EventStore, opts Options) Service {
	if opts.CodeRetryAttempts <= 0 {
		opts.CodeRetryAttempts = defaultRetries
	}
	if opts.PendingExpiry <= 0 {
		opts.PendingExpiry = 48 * time.Hour
	}
	return &service{
		repo:          repo,
		customerStore: customerStore,
		eventStore:    eventStore,
		opts:          opts,
		log:           logger.GetDefault(),
	}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

// SetNotificationPublisher injects the lifecycle message publisher
func (s *service) SetNotificationPublisher(publisher notifications.Publisher) {
	s.publisher = publisher
}

func (s *service) invalidateReservationCache(ctx context.Context, eventID uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	patterns := []string{
		constants.PATTERN_INVALIDATE_RESERVATIONS_ALL,
		constants.CACHE_KEY_EVENT_AVAILABILITY + eventID.String() + "*",
	}
	for _, pattern := range patterns {
		if err := s.cacheService.DeletePattern(ctx, pattern); err != nil {
			fmt.Printf("Warning: failed to invalidate reservation cache: %v\n", err)
		}
	}
}

func (s *service) publish(ctx context.Context, msgType string, reservation *Reservation) {
	if s.publisher == nil {
		return
	}

	msg := notifications.ReservationMessage{
		Type:          msgType,
		ReservationID: reservation.ID.String(),
		Code:          reservation.Code,
		CustomerID:    reservation.CustomerID.String(),
		EventID:       reservation.EventID.String(),
		TicketType:    string(reservation.TicketType),
		FreePass:      reservation.FreePass,
		PricePaid:     reservation.PricePaid,
		Timestamp:     time.Now(),
	}

	// Best effort: a messaging failure never fails the request
	if err := s.publisher.PublishReservationMessage(ctx, msg); err != nil {
		fmt.Printf("Warning: failed to publish %s notification for %s: %v\n", msgType, reservation.Code, err)
	}
}

// generateReservationCode builds a code of the form RES-XXXXXXXX with 8
// random uppercase alphanumeric characters.
func generateReservationCode() (string, error) {
	randomPart := make([]byte, codeRandomLen)
	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeCharset))))
		if err != nil {
			return "", err
		}
		randomPart[i] = codeCharset[num.Int64()]
	}
	return codePrefix + string(randomPart), nil
}

func (s *service) Create(ctx context.Context, req CreateReservationRequest) (*ReservationResponse, error) {
	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("invalid customer ID: %w", err)
	}
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}
	ticketType := events.TicketType(req.TicketType)

	customer, err := s.customerStore.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !customer.Active {
		return nil, customers.ErrInactiveCustomer
	}

	event, err := s.eventStore.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsCurrent() {
		return nil, events.ErrEventNotCurrent
	}
	if !event.HasTicketType(ticketType) {
		return nil, events.ErrTicketTypeNotConfigured
	}
	if req.UseFreePass && customer.FreePasses <= 0 {
		return nil, customers.ErrNoFreePassAvailable
	}

	// The transactional create re-checks availability and the free-pass
	// balance under row locks; code collisions retry with a fresh code.
	var reservation *Reservation
	created := false
	for attempt := 0; attempt < s.opts.CodeRetryAttempts; attempt++ {
		code, err := generateReservationCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate reservation code: %w", err)
		}

		reservation = &Reservation{
			Code:       code,
			CustomerID: customerID,
			EventID:    eventID,
			TicketType: ticketType,
			FreePass:   req.UseFreePass,
		}

		err = s.repo.CreateWithAvailabilityCheck(ctx, reservation)
		if err == nil {
			created = true
			break
		}
		if errors.Is(err, ErrCodeCollision) {
			continue
		}
		return nil, err
	}
	if !created {
		return nil, fmt.Errorf("failed to create reservation after %d attempts: %w", s.opts.CodeRetryAttempts, ErrCodeCollision)
	}

	s.log.LogReservationCreated(ctx, reservation.Code, reservation.EventID.String(), reservation.CustomerID.String())
	s.invalidateReservationCache(ctx, eventID)
	s.publish(ctx, notifications.TypeReservationCreated, reservation)
	if reservation.IsConfirmed() {
		s.publish(ctx, notifications.TypeReservationConfirmed, reservation)
	}

	response := reservation.ToResponse()
	response.CustomerName = customer.Name
	response.EventName = event.Name
	return &response, nil
}

// CreateAndConfirm creates a standard reservation and immediately confirms
// it. Free-pass reservations come back confirmed from creation, so the
// confirm step is skipped for them.
func (s *service) CreateAndConfirm(ctx context.Context, req CreateReservationRequest) (*ReservationResponse, error) {
	created, err := s.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	if created.Status == StatusConfirmed {
		return created, nil
	}

	id, err := uuid.Parse(created.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid reservation ID: %w", err)
	}

	return s.Confirm(ctx, id)
}

func (s *service) Confirm(ctx context.Context, id uuid.UUID) (*ReservationResponse, error) {
	reservation, err := s.repo.Confirm(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.LogReservationConfirmed(ctx, reservation.Code, reservation.CustomerID.String())
	s.invalidateReservationCache(ctx, reservation.EventID)
	s.publish(ctx, notifications.TypeReservationConfirmed, reservation)

	response := reservation.ToResponse()
	return &response, nil
}

func (s *service) Cancel(ctx context.Context, id uuid.UUID, reason string) (*ReservationResponse, error) {
	reservation, err := s.repo.Cancel(ctx, id, reason)
	if err != nil {
		return nil, err
	}

	s.log.LogReservationCancelled(ctx, reservation.Code, reservation.CustomerID.String())
	s.invalidateReservationCache(ctx, reservation.EventID)
	s.publish(ctx, notifications.TypeReservationCancelled, reservation)

	response := reservation.ToResponse()
	return &response, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateReservationCache(ctx, reservation.EventID)
	return nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ReservationResponse, error) {
	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := reservation.ToResponse()
	return &response, nil
}

func (s *service) GetByCode(ctx context.Context, code string) (*ReservationResponse, error) {
	cacheKey := constants.BuildReservationDetailKey(code)

	if s.cacheService != nil {
		var cached ReservationResponse
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	reservation, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	response := reservation.ToResponse()

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, response, constants.TTL_RESERVATION_DETAIL); err != nil {
			fmt.Printf("Warning: failed to cache reservation detail: %v\n", err)
		}
	}

	return &response, nil
}

func (s *service) GetByCustomerID(ctx context.Context, customerID uuid.UUID) ([]ReservationResponse, error) {
	if _, err := s.customerStore.GetByID(ctx, customerID); err != nil {
		return nil, err
	}

	result, err := s.repo.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer reservations: %w", err)
	}

	return toResponses(result), nil
}

func (s *service) GetByEventID(ctx context.Context, eventID uuid.UUID) ([]ReservationResponse, error) {
	if _, err := s.eventStore.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	result, err := s.repo.GetByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event reservations: %w", err)
	}

	return toResponses(result), nil
}

func (s *service) GetAll(ctx context.Context, query ReservationListQuery) (*PaginatedReservations, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	result, totalCount, err := s.repo.GetAll(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get reservations: %w", err)
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(query.Limit)))

	return &PaginatedReservations{
		Reservations: toResponses(result),
		TotalCount:   totalCount,
		Page:         query.Page,
		Limit:        query.Limit,
		TotalPages:   totalPages,
	}, nil
}

// GetStalePending lists pending reservations older than the configured
// expiry. Read-only; sweeping them is left to an external scheduler.
func (s *service) GetStalePending(ctx context.Context) ([]ReservationResponse, error) {
	cutoff := time.Now().Add(-s.opts.PendingExpiry)

	result, err := s.repo.GetStalePending(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to get stale pending reservations: %w", err)
	}

	return toResponses(result), nil
}

func toResponses(result []Reservation) []ReservationResponse {
	responses := make([]ReservationResponse, len(result))
	for i := range result {
		responses[i] = result[i].ToResponse()
	}
	return responses
}
