package summary

// ComputeMetrics derives ROI and value-per-patient on each row. Both are
// row-local. ROI is left nil when marketing cost is zero rather than
// producing an infinity.
func ComputeMetrics(rows []*ProviderSummary) {
	for _, s := range rows {
		if s.MarketingCost != 0 {
			roi := (s.OpportunityValue - s.MarketingCost) / s.MarketingCost
			s.ROI = &roi
		} else {
			s.ROI = nil
		}

		patients := s.TotalPatients
		if patients < 1 {
			patients = 1
		}
		s.ValuePerPatient = s.OpportunityValue / float64(patients)
	}
}
