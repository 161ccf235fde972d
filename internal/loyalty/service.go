package loyalty

import (
	"context"
	"fmt"

	"teatro/internal/customers"
	"teatro/internal/shared/constants"
	"teatro/pkg/cache"
	"teatro/pkg/logger"

	"github.com/google/uuid"
)

// CustomerStore is the slice of the customer repository the loyalty
// engine needs
type CustomerStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*customers.Customer, error)
	GetAllActive(ctx context.Context) ([]customers.Customer, error)
	ListAll(ctx context.Context) ([]customers.Customer, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*customers.Customer, error)
}

// ReservationStore exposes the historical free-pass consumption count
type ReservationStore interface {
	CountFreePassByCustomer(ctx context.Context, customerID uuid.UUID) (int, error)
}

type Service interface {
	SetCacheService(cacheService cache.Service)

	GetCustomerLoyalty(ctx context.Context, customerID uuid.UUID) (*CustomerLoyaltyResponse, error)
	GetEligibleCustomers(ctx context.Context) ([]EligibleCustomer, error)
	GetStats(ctx context.Context) (*StatsResponse, error)
	Reconcile(ctx context.Context) (*ReconcileReport, error)
}

type service struct {
	customerStore    CustomerStore
	reservationStore ReservationStore
	cacheService     cache.Service
	log              *logger.Logger
}

func NewService(customerStore CustomerStore, reservationStore ReservationStore) Service {
	return &service{
		customerStore:    customerStore,
		reservationStore: reservationStore,
		log:              logger.GetDefault(),
	}
}

// SetCacheService injects the cache service dependency
func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) GetCustomerLoyalty(ctx context.Context, customerID uuid.UUID) (*CustomerLoyaltyResponse, error) {
	cacheKey := constants.BuildLoyaltyCustomerKey(customerID.String())

	if s.cacheService != nil {
		var cached CustomerLoyaltyResponse
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	customer, err := s.customerStore.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	consumed, err := s.reservationStore.CountFreePassByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count consumed passes: %w", err)
	}

	response := &CustomerLoyaltyResponse{
		CustomerID:           customer.ID.String(),
		Name:                 customer.Name,
		AttendedEvents:       customer.AttendedEvents,
		FreePasses:           customer.FreePasses,
		PassesConsumed:       consumed,
		EligibleForPass:      customer.EligibleForPass(),
		AttendancesUntilPass: attendancesUntilPass(customer.AttendedEvents),
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, response, constants.TTL_LOYALTY_CUSTOMER); err != nil {
			fmt.Printf("Warning: failed to cache customer loyalty: %v\n", err)
		}
	}

	return response, nil
}

// GetEligibleCustomers lists active customers whose attendance count sits
// exactly on a reward threshold.
func (s *service) GetEligibleCustomers(ctx context.Context) ([]EligibleCustomer, error) {
	active, err := s.customerStore.GetAllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active customers: %w", err)
	}

	eligible := make([]EligibleCustomer, 0)
	for i := range active {
		if !active[i].EligibleForPass() {
			continue
		}
		eligible = append(eligible, EligibleCustomer{
			CustomerID:     active[i].ID.String(),
			Name:           active[i].Name,
			Email:          active[i].Email,
			AttendedEvents: active[i].AttendedEvents,
			FreePasses:     active[i].FreePasses,
		})
	}

	return eligible, nil
}

func (s *service) GetStats(ctx context.Context) (*StatsResponse, error) {
	cacheKey := constants.CACHE_KEY_LOYALTY_STATS

	if s.cacheService != nil {
		var cached StatsResponse
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	active, err := s.customerStore.GetAllActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active customers: %w", err)
	}

	stats := &StatsResponse{ActiveCustomers: len(active)}
	for i := range active {
		stats.TotalAttendances += active[i].AttendedEvents
		stats.OutstandingPasses += active[i].FreePasses
		if active[i].FreePasses > 0 {
			stats.CustomersWithPasses++
		}
		if active[i].EligibleForPass() {
			stats.EligibleRightNow++
		}
	}

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, cacheKey, stats, constants.TTL_LOYALTY_STATS); err != nil {
			fmt.Printf("Warning: failed to cache loyalty stats: %v\n", err)
		}
	}

	return stats, nil
}

// Reconcile sweeps every customer, deactivated ones included, and grants
// any passes the attendance count has earned but the balance does not
// reflect. A customer is inconsistent when balance plus historically
// consumed passes falls short of attendedEvents / attendancesPerPass.
// Granting the difference makes a second sweep a no-op.
func (s *service) Reconcile(ctx context.Context) (*ReconcileReport, error) {
	all, err := s.customerStore.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	report := &ReconcileReport{Details: make([]ReconcileDetail, 0)}

	for i := range all {
		customer := &all[i]
		report.CustomersChecked++

		consumed, err := s.reservationStore.CountFreePassByCustomer(ctx, customer.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count consumed passes for %s: %w", customer.ID, err)
		}

		expected := customer.ExpectedPassFloor()
		if customer.FreePasses+consumed >= expected {
			continue
		}

		missing := expected - customer.FreePasses - consumed
		if _, err := s.customerStore.Update(ctx, customer.ID, map[string]interface{}{
			"free_passes": customer.FreePasses + missing,
		}); err != nil {
			return nil, fmt.Errorf("failed to grant passes to %s: %w", customer.ID, err)
		}

		s.log.LogFreePassGranted(ctx, customer.ID.String(), customer.AttendedEvents, customer.FreePasses+missing)

		report.InconsistenciesFound++
		report.PassesGranted += missing
		report.Details = append(report.Details, ReconcileDetail{
			CustomerID:     customer.ID.String(),
			Email:          customer.Email,
			ExpectedFloor:  expected,
			Balance:        customer.FreePasses,
			PassesConsumed: consumed,
			PassesGranted:  missing,
		})
	}

	if report.PassesGranted > 0 {
		s.invalidateLoyaltyCache(ctx)
	}

	return report, nil
}

func (s *service) invalidateLoyaltyCache(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	patterns := []string{
		constants.PATTERN_INVALIDATE_LOYALTY_ALL,
		constants.PATTERN_INVALIDATE_CUSTOMERS_ALL,
	}
	for _, pattern := range patterns {
		if err := s.cacheService.DeletePattern(ctx, pattern); err != nil {
			fmt.Printf("Warning: failed to invalidate loyalty cache: %v\n", err)
		}
	}
}

func attendancesUntilPass(attended int) int {
	remainder := attended % customers.AttendancesPerFreePass
	return customers.AttendancesPerFreePass - remainder
}
