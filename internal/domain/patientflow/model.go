package patientflow

import "time"

// Record is one patient encounter from the patient-flow extract. Records are
// created by the generator (or ingested from CSV) and never mutated.
type Record struct {
	PatientID        int       `json:"patient_id"`
	ReferralProvider string    `json:"referral_provider"`
	ServiceLine      string    `json:"service_line"`
	AdmissionDate    time.Time `json:"admission_date"`
	LengthOfStay     int       `json:"length_of_stay"`
	DischargeDate    time.Time `json:"discharge_date"`
	Satisfaction     float64   `json:"satisfaction_score"`
	TreatmentCost    float64   `json:"treatment_cost"`
}

// Aggregate holds per-group clinical metrics.
type Aggregate struct {
	Provider        string  `json:"provider_name"`
	TotalPatients   int     `json:"total_patients"`
	AvgLengthOfStay float64 `json:"avg_length_of_stay"`
	AvgSatisfaction float64 `json:"avg_satisfaction"`
	AvgCost         float64 `json:"avg_cost"`
}

// ServiceLineKey identifies a provider/service-line group.
type ServiceLineKey struct {
	Provider    string
	ServiceLine string
}
