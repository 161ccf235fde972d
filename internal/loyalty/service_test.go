package loyalty

import (
	"context"
	"errors"
	"testing"

	"teatro/internal/customers"

	"github.com/google/uuid"
)

type fakeCustomerStore struct {
	customersByID map[uuid.UUID]*customers.Customer
}

func newFakeCustomerStore() *fakeCustomerStore {
	return &fakeCustomerStore{customersByID: make(map[uuid.UUID]*customers.Customer)}
}

func (f *fakeCustomerStore) add(c *customers.Customer) *customers.Customer {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.customersByID[c.ID] = c
	return c
}

func (f *fakeCustomerStore) GetByID(ctx context.Context, id uuid.UUID) (*customers.Customer, error) {
	if c, ok := f.customersByID[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, customers.ErrCustomerNotFound
}

func (f *fakeCustomerStore) GetAllActive(ctx context.Context) ([]customers.Customer, error) {
	var result []customers.Customer
	for _, c := range f.customersByID {
		if c.Active {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (f *fakeCustomerStore) ListAll(ctx context.Context) ([]customers.Customer, error) {
	var result []customers.Customer
	for _, c := range f.customersByID {
		result = append(result, *c)
	}
	return result, nil
}

func (f *fakeCustomerStore) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*customers.Customer, error) {
	c, ok := f.customersByID[id]
	if !ok {
		return nil, customers.ErrCustomerNotFound
	}
	if passes, ok := updates["free_passes"]; ok {
		c.FreePasses = passes.(int)
	}
	copied := *c
	return &copied, nil
}

type fakeReservationStore struct {
	consumed map[uuid.UUID]int
}

func (f *fakeReservationStore) CountFreePassByCustomer(ctx context.Context, customerID uuid.UUID) (int, error) {
	return f.consumed[customerID], nil
}

func newTestService() (*fakeCustomerStore, *fakeReservationStore, Service) {
	cs := newFakeCustomerStore()
	rs := &fakeReservationStore{consumed: make(map[uuid.UUID]int)}
	return cs, rs, NewService(cs, rs)
}

func TestGetCustomerLoyalty(t *testing.T) {
	cs, rs, svc := newTestService()
	customer := cs.add(&customers.Customer{Name: "Carla", AttendedEvents: 7, FreePasses: 1, Active: true})
	rs.consumed[customer.ID] = 1

	result, err := svc.GetCustomerLoyalty(context.Background(), customer.ID)
	if err != nil {
		t.Fatalf("GetCustomerLoyalty: %v", err)
	}

	if result.AttendedEvents != 7 {
		t.Errorf("AttendedEvents = %d, want 7", result.AttendedEvents)
	}
	if result.FreePasses != 1 {
		t.Errorf("FreePasses = %d, want 1", result.FreePasses)
	}
	if result.PassesConsumed != 1 {
		t.Errorf("PassesConsumed = %d, want 1", result.PassesConsumed)
	}
	if result.EligibleForPass {
		t.Error("EligibleForPass should be false at 7 attendances")
	}
	if result.AttendancesUntilPass != 3 {
		t.Errorf("AttendancesUntilPass = %d, want 3", result.AttendancesUntilPass)
	}
}

func TestGetCustomerLoyaltyNotFound(t *testing.T) {
	_, _, svc := newTestService()
	_, err := svc.GetCustomerLoyalty(context.Background(), uuid.New())
	if !errors.Is(err, customers.ErrCustomerNotFound) {
		t.Errorf("err = %v, want ErrCustomerNotFound", err)
	}
}

func TestGetEligibleCustomers(t *testing.T) {
	cs, _, svc := newTestService()
	eligible := cs.add(&customers.Customer{Name: "Diego", AttendedEvents: 10, Active: true})
	cs.add(&customers.Customer{Name: "Ana", AttendedEvents: 3, Active: true})
	cs.add(&customers.Customer{Name: "Elena", AttendedEvents: 5, Active: false})

	result, err := svc.GetEligibleCustomers(context.Background())
	if err != nil {
		t.Fatalf("GetEligibleCustomers: %v", err)
	}

	if len(result) != 1 {
		t.Fatalf("len = %d, want 1 (inactive customers excluded)", len(result))
	}
	if result[0].CustomerID != eligible.ID.String() {
		t.Errorf("CustomerID = %s, want %s", result[0].CustomerID, eligible.ID)
	}
}

func TestGetStats(t *testing.T) {
	cs, _, svc := newTestService()
	cs.add(&customers.Customer{Name: "Diego", AttendedEvents: 10, FreePasses: 2, Active: true})
	cs.add(&customers.Customer{Name: "Ana", AttendedEvents: 3, Active: true})
	cs.add(&customers.Customer{Name: "Elena", AttendedEvents: 5, FreePasses: 1, Active: false})

	stats, err := svc.GetStats(context.Background())
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}

	if stats.ActiveCustomers != 2 {
		t.Errorf("ActiveCustomers = %d, want 2", stats.ActiveCustomers)
	}
	if stats.TotalAttendances != 13 {
		t.Errorf("TotalAttendances = %d, want 13", stats.TotalAttendances)
	}
	if stats.OutstandingPasses != 2 {
		t.Errorf("OutstandingPasses = %d, want 2", stats.OutstandingPasses)
	}
	if stats.CustomersWithPasses != 1 {
		t.Errorf("CustomersWithPasses = %d, want 1", stats.CustomersWithPasses)
	}
	if stats.EligibleRightNow != 1 {
		t.Errorf("EligibleRightNow = %d, want 1", stats.EligibleRightNow)
	}
}

func TestReconcileGrantsMissingPasses(t *testing.T) {
	cs, rs, svc := newTestService()

	// 10 attendances earn 2 passes; balance 0 with nothing consumed means
	// 2 passes were never granted.
	broken := cs.add(&customers.Customer{Name: "Diego", AttendedEvents: 10, FreePasses: 0, Active: true})

	// 5 attendances, pass consumed already; nothing to grant.
	consistent := cs.add(&customers.Customer{Name: "Carla", AttendedEvents: 5, FreePasses: 0, Active: true})
	rs.consumed[consistent.ID] = 1

	report, err := svc.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if report.CustomersChecked != 2 {
		t.Errorf("CustomersChecked = %d, want 2", report.CustomersChecked)
	}
	if report.InconsistenciesFound != 1 {
		t.Errorf("InconsistenciesFound = %d, want 1", report.InconsistenciesFound)
	}
	if report.PassesGranted != 2 {
		t.Errorf("PassesGranted = %d, want 2", report.PassesGranted)
	}
	if cs.customersByID[broken.ID].FreePasses != 2 {
		t.Errorf("FreePasses = %d after reconcile, want 2", cs.customersByID[broken.ID].FreePasses)
	}
	if cs.customersByID[consistent.ID].FreePasses != 0 {
		t.Errorf("consistent customer touched: FreePasses = %d, want 0", cs.customersByID[consistent.ID].FreePasses)
	}
}

func TestReconcileCoversDeactivatedCustomers(t *testing.T) {
	cs, _, svc := newTestService()
	inactive := cs.add(&customers.Customer{Name: "Elena", AttendedEvents: 5, FreePasses: 0, Active: false})

	report, err := svc.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if report.CustomersChecked != 1 {
		t.Errorf("CustomersChecked = %d, want 1", report.CustomersChecked)
	}
	if report.PassesGranted != 1 {
		t.Errorf("PassesGranted = %d, want 1", report.PassesGranted)
	}
	if cs.customersByID[inactive.ID].FreePasses != 1 {
		t.Errorf("FreePasses = %d after reconcile, want 1", cs.customersByID[inactive.ID].FreePasses)
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	cs, _, svc := newTestService()
	cs.add(&customers.Customer{Name: "Diego", AttendedEvents: 15, FreePasses: 0, Active: true})

	first, err := svc.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("first Reconcile: %v", err)
	}
	if first.PassesGranted != 3 {
		t.Errorf("first run PassesGranted = %d, want 3", first.PassesGranted)
	}

	second, err := svc.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("second Reconcile: %v", err)
	}
	if second.InconsistenciesFound != 0 || second.PassesGranted != 0 {
		t.Errorf("second run found %d inconsistencies and granted %d passes, want none",
			second.InconsistenciesFound, second.PassesGranted)
	}
}

func TestReconcileRefundedPassDoesNotOverGrant(t *testing.T) {
	cs, rs, svc := newTestService()

	// Consumed a pass then cancelled: balance refunded to 1, one free-pass
	// reservation on record. Balance + consumed exceeds the floor, which is
	// not an inconsistency.
	customer := cs.add(&customers.Customer{Name: "Carla", AttendedEvents: 5, FreePasses: 1, Active: true})
	rs.consumed[customer.ID] = 1

	report, err := svc.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if report.InconsistenciesFound != 0 {
		t.Errorf("InconsistenciesFound = %d, want 0", report.InconsistenciesFound)
	}
	if cs.customersByID[customer.ID].FreePasses != 1 {
		t.Errorf("FreePasses = %d, want untouched 1", cs.customersByID[customer.ID].FreePasses)
	}
}
