package customers

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
	Register(ctx context.Context, req RegisterCustomerRequest) (*CustomerResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*CustomerResponse, error)
	GetByEmail(ctx context.Context, email string) (*CustomerResponse, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	GetAll(ctx context.Context, query CustomerListQuery) (*PaginatedCustomers, error)
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

func (s *service) invalidateCustomerCache(ctx context.Context, id uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Delete(ctx, constants.BuildCustomerDetailKey(id.String())); err != nil {
		fmt.Printf("Warning: failed to invalidate customer cache: %v\n", err)
	}
}

func (s *service) Register(ctx context.Context, req RegisterCustomerRequest) (*CustomerResponse, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	customer := &Customer{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Active: true,
	}

	if err := s.repo.Create(ctx, customer); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	response := customer.ToResponse()
	return &response, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	if s.cacheService != nil {
		cacheKey := constants.BuildCustomerDetailKey(id.String())
		var cached CustomerResponse
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := customer.ToResponse()

	if s.cacheService != nil {
		cacheKey := constants.BuildCustomerDetailKey(id.String())
		if err := s.cacheService.Set(ctx, cacheKey, response, constants.TTL_CUSTOMER_DETAIL); err != nil {
			fmt.Printf("Warning: failed to cache customer detail: %v\n", err)
		}
	}

	return &response, nil
}

func (s *service) GetByEmail(ctx context.Context, email string) (*CustomerResponse, error) {
	customer, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	response := customer.ToResponse()
	return &response, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil && *req.Email != current.Email {
		exists, err := s.repo.EmailExists(ctx, *req.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return nil, ErrDuplicateEmail
		}
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}

	updates["updated_at"] = time.Now()

	updated, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	s.invalidateCustomerCache(ctx, id)

	response := updated.ToResponse()
	return &response, nil
}

func (s *service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}

	s.invalidateCustomerCache(ctx, id)
	return nil
}

func (s *service) GetAll(ctx context.Context, query CustomerListQuery) (*PaginatedCustomers, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	result, totalCount, err := s.repo.GetAll(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get customers: %w", err)
	}

	responses := make([]CustomerResponse, len(result))
	for i, customer := range result {
		responses[i] = customer.ToResponse()
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(query.Limit)))

	return &PaginatedCustomers{
		Customers:  responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages,
	}, nil
}
