package customers

import "testing"

func TestRecordAttendanceGrantsPassEveryFifth(t *testing.T) {
	customer := &Customer{Active: true}

	for i := 1; i <= 12; i++ {
		granted := customer.RecordAttendance()
		wantGrant := i%AttendancesPerFreePass == 0
		if granted != wantGrant {
			t.Errorf("attendance %d: granted = %v, want %v", i, granted, wantGrant)
		}
	}

	if customer.AttendedEvents != 12 {
		t.Errorf("AttendedEvents = %d, want 12", customer.AttendedEvents)
	}
	if customer.FreePasses != 2 {
		t.Errorf("FreePasses = %d, want 2 after 12 attendances", customer.FreePasses)
	}
}

func TestUseFreePass(t *testing.T) {
	customer := &Customer{FreePasses: 1}

	if err := customer.UseFreePass(); err != nil {
		t.Fatalf("UseFreePass with balance 1: %v", err)
	}
	if customer.FreePasses != 0 {
		t.Errorf("FreePasses = %d, want 0", customer.FreePasses)
	}

	if err := customer.UseFreePass(); err != ErrNoFreePassAvailable {
		t.Errorf("UseFreePass with balance 0: err = %v, want ErrNoFreePassAvailable", err)
	}
	if customer.FreePasses != 0 {
		t.Errorf("FreePasses = %d after failed use, want 0", customer.FreePasses)
	}
}

func TestRefundFreePass(t *testing.T) {
	customer := &Customer{FreePasses: 0}
	customer.RefundFreePass()
	if customer.FreePasses != 1 {
		t.Errorf("FreePasses = %d after refund, want 1", customer.FreePasses)
	}
}

func TestEligibleForPass(t *testing.T) {
	cases := []struct {
		attended int
		want     bool
	}{
		{0, false},
		{1, false},
		{4, false},
		{5, true},
		{6, false},
		{10, true},
		{15, true},
	}

	for _, tc := range cases {
		customer := &Customer{AttendedEvents: tc.attended}
		if got := customer.EligibleForPass(); got != tc.want {
			t.Errorf("EligibleForPass with %d attendances = %v, want %v", tc.attended, got, tc.want)
		}
	}
}

func TestExpectedPassFloor(t *testing.T) {
	cases := []struct {
		attended int
		want     int
	}{
		{0, 0},
		{4, 0},
		{5, 1},
		{9, 1},
		{10, 2},
		{23, 4},
	}

	for _, tc := range cases {
		customer := &Customer{AttendedEvents: tc.attended}
		if got := customer.ExpectedPassFloor(); got != tc.want {
			t.Errorf("ExpectedPassFloor with %d attendances = %d, want %d", tc.attended, got, tc.want)
		}
	}
}
