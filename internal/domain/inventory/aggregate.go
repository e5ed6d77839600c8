package inventory

// AggregateByProvider sums claims and averages supply usage per provider.
// CollectionRate is paid over billed across the provider's claims; DenialRate
// is the fraction of claims with Denied status.
func AggregateByProvider(recs []Record) map[string]Aggregate {
	type sums struct {
		visits   int
		quantity int
		denied   int
		amount   float64
		paid     float64
	}
	acc := make(map[string]*sums)
	for _, r := range recs {
		s := acc[r.Provider]
		if s == nil {
			s = &sums{}
			acc[r.Provider] = s
		}
		s.visits++
		s.quantity += r.Quantity
		s.amount += r.ClaimAmount
		s.paid += r.ClaimPaid
		if r.ClaimStatus == StatusDenied {
			s.denied++
		}
	}

	out := make(map[string]Aggregate, len(acc))
	for provider, s := range acc {
		agg := Aggregate{
			Provider:         provider,
			TotalVisits:      s.visits,
			AvgSupplies:      float64(s.quantity) / float64(s.visits),
			TotalClaimAmount: s.amount,
			TotalClaimPaid:   s.paid,
			DenialRate:       float64(s.denied) / float64(s.visits),
		}
		if s.amount > 0 {
			agg.CollectionRate = s.paid / s.amount
		}
		out[provider] = agg
	}
	return out
}
