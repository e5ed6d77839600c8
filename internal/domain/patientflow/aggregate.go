package patientflow

// AggregateByProvider groups records by referral provider and computes the
// count and arithmetic means over length-of-stay, satisfaction, and cost.
// Groups exist only when at least one record maps to them.
func AggregateByProvider(recs []Record) map[string]Aggregate {
	type sums struct {
		n              int
		los, sat, cost float64
	}
	acc := make(map[string]*sums)
	for _, r := range recs {
		s := acc[r.ReferralProvider]
		if s == nil {
			s = &sums{}
			acc[r.ReferralProvider] = s
		}
		s.n++
		s.los += float64(r.LengthOfStay)
		s.sat += r.Satisfaction
		s.cost += r.TreatmentCost
	}

	out := make(map[string]Aggregate, len(acc))
	for provider, s := range acc {
		n := float64(s.n)
		out[provider] = Aggregate{
			Provider:        provider,
			TotalPatients:   s.n,
			AvgLengthOfStay: s.los / n,
			AvgSatisfaction: s.sat / n,
			AvgCost:         s.cost / n,
		}
	}
	return out
}

// AggregateByServiceLine is the richer grouping variant: one aggregate per
// provider and service line.
func AggregateByServiceLine(recs []Record) map[ServiceLineKey]Aggregate {
	grouped := make(map[ServiceLineKey][]Record)
	for _, r := range recs {
		k := ServiceLineKey{Provider: r.ReferralProvider, ServiceLine: r.ServiceLine}
		grouped[k] = append(grouped[k], r)
	}

	out := make(map[ServiceLineKey]Aggregate, len(grouped))
	for k, group := range grouped {
		agg := AggregateByProvider(group)[k.Provider]
		out[k] = agg
	}
	return out
}

// VolumeByServiceLine counts patients per service line across all providers.
func VolumeByServiceLine(recs []Record) map[string]int {
	out := make(map[string]int)
	for _, r := range recs {
		out[r.ServiceLine]++
	}
	return out
}
