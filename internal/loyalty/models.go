package loyalty

// CustomerLoyaltyResponse describes a customer's loyalty standing
type CustomerLoyaltyResponse struct {
	CustomerID           string `json:"customer_id"`
	Name                 string `json:"name"`
	AttendedEvents       int    `json:"attended_events"`
	FreePasses           int    `json:"free_passes"`
	PassesConsumed       int    `json:"passes_consumed"`
	EligibleForPass      bool   `json:"eligible_for_pass"`
	AttendancesUntilPass int    `json:"attendances_until_pass"`
}

// EligibleCustomer is a customer whose attendance count sits exactly on a
// reward threshold
type EligibleCustomer struct {
	CustomerID     string `json:"customer_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	AttendedEvents int    `json:"attended_events"`
	FreePasses     int    `json:"free_passes"`
}

// StatsResponse aggregates loyalty figures across active customers
type StatsResponse struct {
	ActiveCustomers     int `json:"active_customers"`
	CustomersWithPasses int `json:"customers_with_passes"`
	OutstandingPasses   int `json:"outstanding_passes"`
	TotalAttendances    int `json:"total_attendances"`
	EligibleRightNow    int `json:"eligible_right_now"`
}

// ReconcileDetail records one corrected customer
type ReconcileDetail struct {
	CustomerID     string `json:"customer_id"`
	Email          string `json:"email"`
	ExpectedFloor  int    `json:"expected_floor"`
	Balance        int    `json:"balance"`
	PassesConsumed int    `json:"passes_consumed"`
	PassesGranted  int    `json:"passes_granted"`
}

// ReconcileReport summarizes a reconciliation sweep
type ReconcileReport struct {
	CustomersChecked     int               `json:"customers_checked"`
	InconsistenciesFound int               `json:"inconsistencies_found"`
	PassesGranted        int               `json:"passes_granted"`
	Details              []ReconcileDetail `json:"details"`
}
