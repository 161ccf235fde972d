package reservations

import "testing"

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		status      Status
		canConfirm  bool
		canCancel   bool
		stillActive bool
	}{
		{StatusPending, true, true, true},
		{StatusConfirmed, false, true, true},
		{StatusCancelled, false, false, false},
	}

	for _, tc := range cases {
		if got := tc.status.CanBeConfirmed(); got != tc.canConfirm {
			t.Errorf("%s: CanBeConfirmed = %v, want %v", tc.status, got, tc.canConfirm)
		}
		if got := tc.status.CanBeCancelled(); got != tc.canCancel {
			t.Errorf("%s: CanBeCancelled = %v, want %v", tc.status, got, tc.canCancel)
		}
		if got := tc.status.IsActive(); got != tc.stillActive {
			t.Errorf("%s: IsActive = %v, want %v", tc.status, got, tc.stillActive)
		}
	}
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusCancelled} {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if Status("EXPIRED").IsValid() {
		t.Error("EXPIRED should not be valid")
	}
}

func TestReservationMutators(t *testing.T) {
	r := &Reservation{Status: StatusPending}

	r.Confirm(42.50)
	if r.Status != StatusConfirmed {
		t.Errorf("Status = %s after Confirm, want CONFIRMED", r.Status)
	}
	if r.PricePaid != 42.50 {
		t.Errorf("PricePaid = %v, want 42.50", r.PricePaid)
	}
	if r.ConfirmedAt == nil {
		t.Error("ConfirmedAt should be set after Confirm")
	}

	r.Cancel("customer request")
	if r.Status != StatusCancelled {
		t.Errorf("Status = %s after Cancel, want CANCELLED", r.Status)
	}
	if r.CancelledAt == nil {
		t.Error("CancelledAt should be set after Cancel")
	}
	if r.CancellationNote != "customer request" {
		t.Errorf("CancellationNote = %q", r.CancellationNote)
	}
}
