package summary

import (
	"fmt"

	"github.com/ayavvari/carti-bi-project/internal/domain/crm"
	"github.com/ayavvari/carti-bi-project/internal/domain/inventory"
	"github.com/ayavvari/carti-bi-project/internal/domain/patientflow"
)

// Merge left-joins clinical and claim aggregates onto the CRM extract. The
// CRM dataset is the join anchor: every CRM provider yields exactly one row,
// in CRM order, with zero-valued clinical/claim columns when that provider
// has no matching records. Duplicate CRM providers are a fatal
// join-integrity error (crm.ErrDuplicateProvider).
func Merge(crmRecs []crm.Record, clinical map[string]patientflow.Aggregate, claims map[string]inventory.Aggregate) ([]*ProviderSummary, error) {
	if _, err := crm.ByProvider(crmRecs); err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	out := make([]*ProviderSummary, 0, len(crmRecs))
	for _, c := range crmRecs {
		s := &ProviderSummary{
			ProviderName:     c.ProviderName,
			ContactCount:     c.ContactCount,
			PipelineStage:    c.PipelineStage,
			DealsValue:       c.DealsValue,
			OpportunityValue: c.OpportunityValue,
			MarketingCost:    c.MarketingCost,
		}
		if agg, ok := clinical[c.ProviderName]; ok {
			s.TotalPatients = agg.TotalPatients
			s.AvgLengthOfStay = agg.AvgLengthOfStay
			s.AvgSatisfaction = agg.AvgSatisfaction
			s.AvgCost = agg.AvgCost
		}
		if inv, ok := claims[c.ProviderName]; ok {
			s.TotalVisits = inv.TotalVisits
			s.AvgSupplies = inv.AvgSupplies
			s.TotalClaimAmount = inv.TotalClaimAmount
			s.TotalClaimPaid = inv.TotalClaimPaid
			s.DenialRate = inv.DenialRate
			s.ClaimCollectionRate = inv.CollectionRate
		}
		out = append(out, s)
	}
	return out, nil
}
