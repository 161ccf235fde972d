package customers

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

// fakeRepository simulates the customer table. Setting raceWinnerEmail models
// a concurrent registration that commits between the EmailExists pre-check
// and the insert: EmailExists reports the address as free, but Create hits
// the unique index.
type fakeRepository struct {
	customersByID   map[uuid.UUID]*Customer
	raceWinnerEmail string
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{customersByID: make(map[uuid.UUID]*Customer)}
}

func (f *fakeRepository) Create(ctx context.Context, customer *Customer) error {
	if customer.Email == f.raceWinnerEmail {
		return ErrDuplicateEmail
	}
	for _, existing := range f.customersByID {
		if existing.Email == customer.Email {
			return ErrDuplicateEmail
		}
	}
	customer.ID = uuid.New()
	f.customersByID[customer.ID] = customer
	return nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id uuid.UUID) (*Customer, error) {
	if c, ok := f.customersByID[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, ErrCustomerNotFound
}

func (f *fakeRepository) GetByEmail(ctx context.Context, email string) (*Customer, error) {
	for _, c := range f.customersByID {
		if c.Email == email {
			copied := *c
			return &copied, nil
		}
	}
	return nil, ErrCustomerNotFound
}

func (f *fakeRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Customer, error) {
	c, ok := f.customersByID[id]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	if email, ok := updates["email"]; ok {
		if email.(string) == f.raceWinnerEmail {
			return nil, ErrDuplicateEmail
		}
		c.Email = email.(string)
	}
	if name, ok := updates["name"]; ok {
		c.Name = name.(string)
	}
	copied := *c
	return &copied, nil
}

func (f *fakeRepository) GetAll(ctx context.Context, query CustomerListQuery) ([]Customer, int64, error) {
	var result []Customer
	for _, c := range f.customersByID {
		result = append(result, *c)
	}
	return result, int64(len(result)), nil
}

func (f *fakeRepository) GetAllActive(ctx context.Context) ([]Customer, error) {
	var result []Customer
	for _, c := range f.customersByID {
		if c.Active {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (f *fakeRepository) ListAll(ctx context.Context) ([]Customer, error) {
	var result []Customer
	for _, c := range f.customersByID {
		result = append(result, *c)
	}
	return result, nil
}

func (f *fakeRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	c, ok := f.customersByID[id]
	if !ok {
		return ErrCustomerNotFound
	}
	c.Active = false
	return nil
}

func (f *fakeRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	for _, c := range f.customersByID {
		if c.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func TestRegisterCustomer(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	customer, err := svc.Register(context.Background(), RegisterCustomerRequest{
		Name:  "Ana Torres",
		Email: "ana@example.com",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !customer.Active {
		t.Error("registered customer should start active")
	}
}

func TestRegisterRejectsKnownDuplicateEmail(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	if _, err := svc.Register(context.Background(), RegisterCustomerRequest{Name: "Ana", Email: "ana@example.com"}); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	_, err := svc.Register(context.Background(), RegisterCustomerRequest{Name: "Other Ana", Email: "ana@example.com"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("err = %v, want ErrDuplicateEmail", err)
	}
}

// A concurrent registration can commit the same email after the pre-check
// passes; the unique-index violation on insert must still surface as a
// duplicate, not as a generic failure.
func TestRegisterSurfacesDuplicateFromInsertRace(t *testing.T) {
	repo := newFakeRepository()
	repo.raceWinnerEmail = "ana@example.com"
	svc := NewService(repo)

	_, err := svc.Register(context.Background(), RegisterCustomerRequest{Name: "Ana", Email: "ana@example.com"})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestUpdateSurfacesDuplicateFromEmailRace(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	created, err := svc.Register(context.Background(), RegisterCustomerRequest{Name: "Ana", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	repo.raceWinnerEmail = "taken@example.com"

	customerID, err := uuid.Parse(created.ID)
	if err != nil {
		t.Fatalf("parse customer ID: %v", err)
	}

	newEmail := "taken@example.com"
	_, err = svc.Update(context.Background(), customerID, UpdateCustomerRequest{Email: &newEmail})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	violation := fmt.Errorf("ERROR: duplicate key value violates unique constraint \"idx_customers_email\" (SQLSTATE 23505)")
	if !isUniqueViolation(violation) {
		t.Error("unique constraint violation not detected")
	}
	if isUniqueViolation(fmt.Errorf("connection refused")) {
		t.Error("unrelated error misclassified as unique violation")
	}
	if isUniqueViolation(nil) {
		t.Error("nil error misclassified as unique violation")
	}
}
