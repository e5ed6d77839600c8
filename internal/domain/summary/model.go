package summary

// ProviderSummary is the provider-level analytic row: clinical aggregates,
// CRM metrics, claim metrics, derived ROI figures, and the model prediction.
// One row exists per distinct provider in the CRM extract. Rows are built
// once per pipeline run and are read-only afterwards.
//
// ROI and PredictedOpportunityValue are pointers because both can be
// legitimately absent: ROI is undefined when marketing cost is zero, and
// predictions are absent when the regression stage was skipped.
type ProviderSummary struct {
	ProviderName              string   `db:"provider_name" json:"provider_name"`
	TotalPatients             int      `db:"total_patients" json:"total_patients"`
	AvgLengthOfStay           float64  `db:"avg_length_of_stay" json:"avg_length_of_stay"`
	AvgSatisfaction           float64  `db:"avg_satisfaction" json:"avg_satisfaction"`
	AvgCost                   float64  `db:"avg_cost" json:"avg_cost"`
	ContactCount              int      `db:"contact_count" json:"contact_count"`
	PipelineStage             string   `db:"pipeline_stage" json:"pipeline_stage"`
	DealsValue                float64  `db:"deals_value" json:"deals_value"`
	OpportunityValue          float64  `db:"opportunity_value" json:"opportunity_value"`
	MarketingCost             float64  `db:"marketing_cost" json:"marketing_cost"`
	TotalVisits               int      `db:"total_visits" json:"total_visits"`
	AvgSupplies               float64  `db:"avg_supplies" json:"avg_supplies"`
	TotalClaimAmount          float64  `db:"total_claim_amount" json:"total_claim_amount"`
	TotalClaimPaid            float64  `db:"total_claim_paid" json:"total_claim_paid"`
	DenialRate                float64  `db:"denial_rate" json:"denial_rate"`
	ClaimCollectionRate       float64  `db:"claim_collection_rate" json:"claim_collection_rate"`
	ROI                       *float64 `db:"roi" json:"roi"`
	ValuePerPatient           float64  `db:"value_per_patient" json:"value_per_patient"`
	PredictedOpportunityValue *float64 `db:"predicted_opportunity_value" json:"predicted_opportunity_value"`
}
