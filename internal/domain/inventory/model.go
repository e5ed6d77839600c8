package inventory

import "time"

// Claim statuses.
const (
	StatusPaid    = "Paid"
	StatusDenied  = "Denied"
	StatusPending = "Pending"
)

// Statuses is the closed set of claim statuses.
var Statuses = []string{StatusPaid, StatusDenied, StatusPending}

// Record is one supply/claim event from the inventory extract (claims
// variant): a visit consumed a quantity of an item and produced a claim.
type Record struct {
	PatientID   int       `json:"patient_id"`
	VisitDate   time.Time `json:"visit_date"`
	ItemCode    string    `json:"item_code"`
	Provider    string    `json:"provider_name"`
	Quantity    int       `json:"quantity"`
	UnitCost    float64   `json:"unit_cost"`
	ClaimAmount float64   `json:"claim_amount"`
	ClaimPaid   float64   `json:"claim_paid"`
	ClaimStatus string    `json:"claim_status"`
}

// Aggregate holds per-provider inventory and claim metrics.
type Aggregate struct {
	Provider         string  `json:"provider_name"`
	TotalVisits      int     `json:"total_visits"`
	AvgSupplies      float64 `json:"avg_supplies"`
	TotalClaimAmount float64 `json:"total_claim_amount"`
	TotalClaimPaid   float64 `json:"total_claim_paid"`
	DenialRate       float64 `json:"denial_rate"`
	CollectionRate   float64 `json:"claim_collection_rate"`
}

// ValidStatus reports whether s is a known claim status.
func ValidStatus(s string) bool {
	for _, status := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}
