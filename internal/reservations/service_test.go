package reservations

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"teatro/internal/customers"
	"teatro/internal/events"

	"github.com/google/uuid"
)

// fakeStore emulates the transactional repository in memory. A single mutex
// stands in for the row locks the real repository takes.
type fakeStore struct {
	mu               sync.Mutex
	customersByID    map[uuid.UUID]*customers.Customer
	eventsByID       map[uuid.UUID]*events.Event
	reservationsByID map[uuid.UUID]*Reservation
	codes            map[string]uuid.UUID
	forcedCollisions int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		customersByID:    make(map[uuid.UUID]*customers.Customer),
		eventsByID:       make(map[uuid.UUID]*events.Event),
		reservationsByID: make(map[uuid.UUID]*Reservation),
		codes:            make(map[string]uuid.UUID),
	}
}

func (f *fakeStore) addCustomer(c *customers.Customer) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.customersByID[c.ID] = c
}

func (f *fakeStore) addEvent(e *events.Event) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	f.eventsByID[e.ID] = e
}

// customerStore and eventStore wrap the fake so the three GetByID
// signatures do not clash on one type.
type customerStore struct{ f *fakeStore }

func (s customerStore) GetByID(ctx context.Context, id uuid.UUID) (*customers.Customer, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	if c, ok := s.f.customersByID[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, customers.ErrCustomerNotFound
}

type eventStore struct{ f *fakeStore }

func (s eventStore) GetByID(ctx context.Context, id uuid.UUID) (*events.Event, error) {
	s.f.mu.Lock()
	defer s.f.mu.Unlock()
	if e, ok := s.f.eventsByID[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, events.ErrEventNotFound
}

func (f *fakeStore) confirmedCount(eventID uuid.UUID, ticketType events.TicketType) int {
	count := 0
	for _, r := range f.reservationsByID {
		if r.EventID == eventID && r.TicketType == ticketType && r.Status == StatusConfirmed {
			count++
		}
	}
	return count
}

func (f *fakeStore) CreateWithAvailabilityCheck(ctx context.Context, reservation *Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.forcedCollisions > 0 {
		f.forcedCollisions--
		return ErrCodeCollision
	}
	if _, exists := f.codes[reservation.Code]; exists {
		return ErrCodeCollision
	}

	event, ok := f.eventsByID[reservation.EventID]
	if !ok {
		return events.ErrEventNotFound
	}
	if !event.IsCurrent() {
		return events.ErrEventNotCurrent
	}
	capacity, ok := event.CapacityFor(reservation.TicketType)
	if !ok {
		return events.ErrTicketTypeNotConfigured
	}
	if f.confirmedCount(reservation.EventID, reservation.TicketType) >= capacity {
		return ErrNoAvailability
	}

	if reservation.FreePass {
		customer, ok := f.customersByID[reservation.CustomerID]
		if !ok {
			return customers.ErrCustomerNotFound
		}
		if !customer.Active {
			return customers.ErrInactiveCustomer
		}
		if err := customer.UseFreePass(); err != nil {
			return err
		}
		now := time.Now()
		reservation.Status = StatusConfirmed
		reservation.PricePaid = 0
		reservation.ConfirmedAt = &now
	} else {
		reservation.Status = StatusPending
	}

	reservation.ID = uuid.New()
	reservation.CreatedAt = time.Now()
	f.reservationsByID[reservation.ID] = reservation
	f.codes[reservation.Code] = reservation.ID
	return nil
}

func (f *fakeStore) Confirm(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	reservation, ok := f.reservationsByID[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	if !reservation.Status.CanBeConfirmed() {
		return nil, ErrInvalidState
	}

	event, ok := f.eventsByID[reservation.EventID]
	if !ok {
		return nil, events.ErrEventNotFound
	}
	if !event.IsCurrent() {
		return nil, events.ErrEventNotCurrent
	}
	price, ok := event.Price(reservation.TicketType)
	if !ok {
		return nil, ErrPriceUnavailable
	}
	capacity, _ := event.CapacityFor(reservation.TicketType)
	if f.confirmedCount(reservation.EventID, reservation.TicketType) >= capacity {
		return nil, ErrNoAvailability
	}

	reservation.Confirm(price)

	customer, ok := f.customersByID[reservation.CustomerID]
	if !ok {
		return nil, customers.ErrCustomerNotFound
	}
	customer.RecordAttendance()

	copied := *reservation
	return &copied, nil
}

func (f *fakeStore) Cancel(ctx context.Context, id uuid.UUID, reason string) (*Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	reservation, ok := f.reservationsByID[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	if !reservation.CanBeCancelled() {
		return nil, ErrInvalidState
	}

	if reservation.FreePass {
		if customer, ok := f.customersByID[reservation.CustomerID]; ok {
			customer.RefundFreePass()
		}
	}

	reservation.Cancel(reason)
	copied := *reservation
	return &copied, nil
}

func (f *fakeStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	reservation, ok := f.reservationsByID[id]
	if !ok {
		return ErrReservationNotFound
	}
	if !reservation.CanBeCancelled() {
		return ErrInvalidState
	}
	delete(f.codes, reservation.Code)
	delete(f.reservationsByID, id)
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.reservationsByID[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, ErrReservationNotFound
}

func (f *fakeStore) GetByCode(ctx context.Context, code string) (*Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id, ok := f.codes[code]; ok {
		copied := *f.reservationsByID[id]
		return &copied, nil
	}
	return nil, ErrReservationNotFound
}

func (f *fakeStore) GetByCustomerID(ctx context.Context, customerID uuid.UUID) ([]Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []Reservation
	for _, r := range f.reservationsByID {
		if r.CustomerID == customerID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (f *fakeStore) GetByEventID(ctx context.Context, eventID uuid.UUID) ([]Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []Reservation
	for _, r := range f.reservationsByID {
		if r.EventID == eventID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (f *fakeStore) GetAll(ctx context.Context, query ReservationListQuery) ([]Reservation, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []Reservation
	for _, r := range f.reservationsByID {
		if query.Status != "" && string(r.Status) != query.Status {
			continue
		}
		result = append(result, *r)
	}
	return result, int64(len(result)), nil
}

func (f *fakeStore) GetStalePending(ctx context.Context, olderThan time.Time) ([]Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []Reservation
	for _, r := range f.reservationsByID {
		if r.Status == StatusPending && r.CreatedAt.Before(olderThan) {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (f *fakeStore) CountFreePassByCustomer(ctx context.Context, customerID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, r := range f.reservationsByID {
		if r.CustomerID == customerID && r.FreePass {
			count++
		}
	}
	return count, nil
}

func newTestService(f *fakeStore) Service {
	return NewService(f, customerStore{f}, eventStore{f}, Options{})
}

func futureEvent(capacity int) *events.Event {
	return &events.Event{
		Name:     "Test Show",
		Category: events.CategoryStageShow,
		DateTime: time.Now().Add(48 * time.Hour),
		Active:   true,
		TicketConfigs: []events.TicketConfig{
			{TicketType: events.TicketTypeGeneral, Price: 30, Capacity: capacity},
			{TicketType: events.TicketTypeVIP, Price: 75, Capacity: capacity},
		},
	}
}

func activeCustomer() *customers.Customer {
	return &customers.Customer{Name: "Ana", Email: "ana@example.com", Active: true}
}

func TestCreateReservationPending(t *testing.T) {
	f := newFakeStore()
	customer := activeCustomer()
	event := futureEvent(10)
	f.addCustomer(customer)
	f.addEvent(event)

	svc := newTestService(f)
	created, err := svc.Create(context.Background(), CreateReservationRequest{
		CustomerID: customer.ID.String(),
		EventID:    event.ID.String(),
		TicketType: "GENERAL",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if created.Status != StatusPending {
		t.Errorf("Status = %s, want PENDING", created.Status)
	}
	if created.PricePaid != 0 {
		t.Errorf("PricePaid = %v before confirmation, want 0", created.PricePaid)
	}
	if !strings.HasPrefix(created.Code, "RES-") || len(created.Code) != 12 {
		t.Errorf("Code = %q, want RES- prefix and 8 random characters", created.Code)
	}
}

func TestCreateReservationChecks(t *testing.T) {
	f := newFakeStore()
	inactive := &customers.Customer{Name: "Elena", Email: "elena@example.com", Active: false}
	active := activeCustomer()
	pastEvent := &events.Event{
		Name: "Old Gala", Category: events.CategoryStageShow, Active: true,
		DateTime:      time.Now().Add(-time.Hour),
		TicketConfigs: []events.TicketConfig{{TicketType: events.TicketTypeGeneral, Price: 30, Capacity: 5}},
	}
	event := futureEvent(5)
	f.addCustomer(inactive)
	f.addCustomer(active)
	f.addEvent(pastEvent)
	f.addEvent(event)

	svc := newTestService(f)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateReservationRequest{
		CustomerID: inactive.ID.String(), EventID: event.ID.String(), TicketType: "GENERAL",
	})
	if !errors.Is(err, customers.ErrInactiveCustomer) {
		t.Errorf("inactive customer: err = %v, want ErrInactiveCustomer", err)
	}

	_, err = svc.Create(ctx, CreateReservationRequest{
		CustomerID: active.ID.String(), EventID: pastEvent.ID.String(), TicketType: "GENERAL",
	})
	if !errors.Is(err, events.ErrEventNotCurrent) {
		t.Errorf("past event: err = %v, want ErrEventNotCurrent", err)
	}

	_, err = svc.Create(ctx, CreateReservationRequest{
		CustomerID: active.ID.String(), EventID: event.ID.String(), TicketType: "BOX",
	})
	if !errors.Is(err, events.ErrTicketTypeNotConfigured) {
		t.Errorf("unconfigured type: err = %v, want ErrTicketTypeNotConfigured", err)
	}

	_, err = svc.Create(ctx, CreateReservationRequest{
		CustomerID: uuid.New().String(), EventID: event.ID.String(), TicketType: "GENERAL",
	})
	if !errors.Is(err, customers.ErrCustomerNotFound) {
		t.Errorf("unknown customer: err = %v, want ErrCustomerNotFound", err)
	}
}

func TestCreateFreePassReservation(t *testing.T) {
	f := newFakeStore()
	customer := activeCustomer()
	customer.AttendedEvents = 5
	customer.FreePasses = 1
	event := futureEvent(10)
	f.addCustomer(customer)
	f.addEvent(event)

	svc := newTestService(f)
	created, err := svc.Create(context.Background(), CreateReservationRequest{
		CustomerID:  customer.ID.String(),
		EventID:     event.ID.String(),
		TicketType:  "GENERAL",
		UseFreePass: true,
	})
	if err != nil {
		t.Fatalf("Create with free pass: %v", err)
	}

	if created.Status != StatusConfirmed {
		t.Errorf("Status = %s, want CONFIRMED immediately", created.Status)
	}
	if created.PricePaid != 0 {
		t.Errorf("PricePaid = %v, want 0 for free pass", created.PricePaid)
	}
	if !created.FreePass {
		t.Error("FreePass flag should be set")
	}

	stored := f.customersByID[customer.ID]
	if stored.FreePasses != 0 {
		t.Errorf("FreePasses = %d after consumption, want 0", stored.FreePasses)
	}
	if stored.AttendedEvents != 5 {
		t.Errorf("AttendedEvents = %d, want 5; free pass attendance does not count toward the next pass", stored.AttendedEvents)
	}
}

func TestCreateFreePassWithoutBalance(t *testing.T) {
	f := newFakeStore()
	customer := activeCustomer()
	event := futureEvent(10)
	f.addCustomer(customer)
	f.addEvent(event)

	svc := newTestService(f)
	_, err := svc.Create(context.Background(), CreateReservationRequest{
		CustomerID:  customer.ID.String(),
		EventID:     event.ID.String(),
		TicketType:  "GENERAL",
		UseFreePass: true,
	})
	if !errors.Is(err, customers.ErrNoFreePassAvailable) {
		t.Errorf("err = %v, want ErrNoFreePassAvailable", err)
	}
}

func TestCreateRetriesOnCodeCollision(t *testing.T) {
	f := newFakeStore()
	customer := activeCustomer()
	event := futureEvent(10)
	f.addCustomer(customer)
	f.addEvent(event)
	f.forcedCollisions = 2

	svc := newTestService(f)
	created, err := svc.Create(context.Background(), CreateReservationRequest{
		CustomerID: customer.ID.String(), EventID: event.ID.String(), TicketType: "GENERAL",
	})
	if err != nil {
		t.Fatalf("Create with 2 collisions: %v", err)
	}
	if created.Status != StatusPending {
		t.Errorf("Status = %s, want PENDING", created.Status)
	}
}

func TestCreateGivesUpAfterRepeatedCollisions(t *testing.T) {
	f := newFakeStore()
	customer := activeCustomer()
	event := futureEvent(10)
	f.addCustomer(customer)
	f.addEvent(event)
	f.forcedCollisions = 10

	svc := newTestService(f)
	_, err := svc.Create(context.Background(), CreateReservationRequest{
		CustomerID: customer.ID.String(), EventID: event.ID.String(), TicketType: "GENERAL",
	})
	if !errors.Is(err, ErrCodeCollision) {
		t.Errorf("err = %v, want wrapped ErrCodeCollision", err)
	}
}

func TestConfirmSetsPriceAndRecordsAttendance(t *testing.T) {
	f := newFakeStore()
	customer := activeCustomer()
	event := futureEvent(10)
	f.addCustomer(customer)
	f.addEvent(event)

	svc := newTestService(f)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateReservationRequest{
		CustomerID: customer.ID.String(), EventID: event.ID.String(), TicketType: "VIP",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	id := uuid.MustParse(created.ID)
	confirmed, err := svc.Confirm(ctx, id)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	if confirmed.Status != StatusConfirmed {
		t.Errorf("Status = %s, want CONFIRMED", confirmed.Status)
	}
	if confirmed.PricePaid != 75 {
		t.Errorf("PricePaid = %v, want the configured VIP price 75", confirmed.PricePaid)
	}
	if f.customersByID[customer.ID].AttendedEvents != 1 {
		t.Errorf("AttendedEvents = %d, want 1", f.customersByID[customer.ID].AttendedEvents)
	}

	// A second confirm must be rejected
	if _, err := svc.Confirm(ctx, id); !errors.Is(err, ErrInvalidState) {
		t.Errorf("double confirm: err = %v, want ErrInvalidState", err)
	}
}

func TestFifthConfirmedAttendanceGrantsPass(t *testing.T) {
	f := newFakeStore()
	customer := activeCustomer()
	event := futureEvent(10)
	f.addCustomer(customer)
	f.addEvent(event)

	svc := newTestService(f)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		created, err := svc.Create(ctx, CreateReservationRequest{
			CustomerID: customer.ID.String(), EventID: event.ID.String(), TicketType: "GENERAL",
		})
		if err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
		if _, err := svc.Confirm(ctx, uuid.MustParse(created.ID)); err != nil {
			t.Fatalf("Confirm %d: %v", i, err)
		}
	}

	stored := f.customersByID[customer.ID]
	if stored.AttendedEvents != 5 {
		t.Errorf("AttendedEvents = %d, want 5", stored.AttendedEvents)
	}
	if stored.FreePasses != 1 {
		t.Errorf("FreePasses = %d after 5 confirmed attendances, want 1", stored.FreePasses)
	}
}

func TestConcurrentConfirmsRespectCapacity(t *testing.T) {
	const pending = 5
	const capacity = 2

	f := newFakeStore()
	event := futureEvent(capacity)
	f.addEvent(event)

	svc := newTestService(f)
	ctx := context.Background()

	ids := make([]uuid.UUID, 0, pending)
	for i := 0; i < pending; i++ {
		customer := activeCustomer()
		customer.Email = uuid.New().String() + "@example.com"
		f.addCustomer(customer)

		created, err := svc.Create(ctx, CreateReservationRequest{
			CustomerID: customer.ID.String(), EventID: event.ID.String(), TicketType: "GENERAL",
		})
		if err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
		ids = append(ids, uuid.MustParse(created.ID))
	}

	var wg sync.WaitGroup
	var confirmedCount, rejectedCount int32
	var countMu sync.Mutex

	for _, id := range ids {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, err := svc.Confirm(ctx, id)
			countMu.Lock()
			defer countMu.Unlock()
			switch {
			case err == nil:
				confirmedCount++
			case errors.Is(err, ErrNoAvailability):
				rejectedCount++
			default:
				t.Errorf("unexpected confirm error: %v", err)
			}
		}(id)
	}
	wg.Wait()

	if confirmedCount != capacity {
		t.Errorf("confirmed = %d, want exactly %d", confirmedCount, capacity)
	}
	if rejectedCount != pending-capacity {
		t.Errorf("rejected = %d, want %d", rejectedCount, pending-capacity)
	}
}

func TestCancelRefundsFreePass(t *testing.T) {
	f := newFakeStore()
	customer := activeCustomer()
	customer.FreePasses = 1
	event := futureEvent(10)
	f.addCustomer(customer)
	f.addEvent(event)

	svc := newTestService(f)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateReservationRequest{
		CustomerID:  customer.ID.String(),
		EventID:     event.ID.String(),
		TicketType:  "GENERAL",
		UseFreePass: true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if f.customersByID[customer.ID].FreePasses != 0 {
		t.Fatalf("pass should be consumed at creation")
	}

	cancelled, err := svc.Cancel(ctx, uuid.MustParse(created.ID), "plans changed")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	if cancelled.Status != StatusCancelled {
		t.Errorf("Status = %s, want CANCELLED", cancelled.Status)
	}
	if f.customersByID[customer.ID].FreePasses != 1 {
		t.Errorf("FreePasses = %d after cancel, want the pass refunded", f.customersByID[customer.ID].FreePasses)
	}

	// Cancelling again must be rejected
	if _, err := svc.Cancel(ctx, uuid.MustParse(created.ID), "again"); !errors.Is(err, ErrInvalidState) {
		t.Errorf("double cancel: err = %v, want ErrInvalidState", err)
	}
}

func TestCreateAndConfirmExpress(t *testing.T) {
	f := newFakeStore()
	customer := activeCustomer()
	event := futureEvent(10)
	f.addCustomer(customer)
	f.addEvent(event)

	svc := newTestService(f)
	result, err := svc.CreateAndConfirm(context.Background(), CreateReservationRequest{
		CustomerID: customer.ID.String(), EventID: event.ID.String(), TicketType: "GENERAL",
	})
	if err != nil {
		t.Fatalf("CreateAndConfirm: %v", err)
	}

	if result.Status != StatusConfirmed {
		t.Errorf("Status = %s, want CONFIRMED", result.Status)
	}
	if result.PricePaid != 30 {
		t.Errorf("PricePaid = %v, want 30", result.PricePaid)
	}
	if f.customersByID[customer.ID].AttendedEvents != 1 {
		t.Errorf("AttendedEvents = %d, want 1", f.customersByID[customer.ID].AttendedEvents)
	}
}

func TestCreateAndConfirmWithFreePassSkipsConfirm(t *testing.T) {
	f := newFakeStore()
	customer := activeCustomer()
	customer.FreePasses = 1
	event := futureEvent(10)
	f.addCustomer(customer)
	f.addEvent(event)

	svc := newTestService(f)
	result, err := svc.CreateAndConfirm(context.Background(), CreateReservationRequest{
		CustomerID:  customer.ID.String(),
		EventID:     event.ID.String(),
		TicketType:  "GENERAL",
		UseFreePass: true,
	})
	if err != nil {
		t.Fatalf("CreateAndConfirm with free pass: %v", err)
	}

	if result.Status != StatusConfirmed {
		t.Errorf("Status = %s, want CONFIRMED", result.Status)
	}
	if result.PricePaid != 0 {
		t.Errorf("PricePaid = %v, want 0", result.PricePaid)
	}
	if f.customersByID[customer.ID].AttendedEvents != 0 {
		t.Errorf("AttendedEvents = %d, want 0; the free pass path skips the confirm step", f.customersByID[customer.ID].AttendedEvents)
	}
}
