package crm

import (
	"errors"
	"fmt"
)

// ErrDuplicateProvider reports duplicate provider names in the CRM extract.
// The CRM dataset anchors the provider join, so duplicates are fatal rather
// than resolved first-wins: a silent pick would make the merge depend on row
// order.
var ErrDuplicateProvider = errors.New("duplicate provider in CRM data")

// Stages is the closed, ordered set of pipeline stages.
var Stages = []string{
	"Prospecting",
	"Qualified",
	"Proposal",
	"Negotiation",
	"Closed Won",
	"Closed Lost",
}

// Record is one referring provider's CRM metrics. Immutable after creation.
type Record struct {
	ProviderName     string  `json:"provider_name"`
	ContactCount     int     `json:"contact_count"`
	DealsValue       float64 `json:"deals_value"`
	OpportunityValue float64 `json:"opportunity_value"`
	MarketingCost    float64 `json:"marketing_cost"`
	PipelineStage    string  `json:"pipeline_stage"`
}

// ValidStage reports whether s is a known pipeline stage.
func ValidStage(s string) bool {
	for _, stage := range Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// ByProvider indexes records by provider name, failing on duplicate anchors.
func ByProvider(recs []Record) (map[string]Record, error) {
	out := make(map[string]Record, len(recs))
	for _, r := range recs {
		if _, ok := out[r.ProviderName]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateProvider, r.ProviderName)
		}
		out[r.ProviderName] = r
	}
	return out, nil
}
