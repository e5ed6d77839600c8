package summary

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ayavvari/carti-bi-project/internal/platform/csvio"
)

// Columns is the provider_summary.csv schema, in order. Nullable columns
// (roi, predicted_opportunity_value) serialize nil as the empty string.
var Columns = []string{
	"provider_name",
	"total_patients",
	"avg_length_of_stay",
	"avg_satisfaction",
	"avg_cost",
	"contact_count",
	"pipeline_stage",
	"deals_value",
	"opportunity_value",
	"marketing_cost",
	"total_visits",
	"avg_supplies",
	"total_claim_amount",
	"total_claim_paid",
	"denial_rate",
	"claim_collection_rate",
	"roi",
	"value_per_patient",
	"predicted_opportunity_value",
}

// Row renders a summary as CSV fields in column order.
func Row(s *ProviderSummary) []string {
	return []string{
		s.ProviderName,
		strconv.Itoa(s.TotalPatients),
		csvio.FormatFloat(s.AvgLengthOfStay),
		csvio.FormatFloat(s.AvgSatisfaction),
		csvio.FormatFloat(s.AvgCost),
		strconv.Itoa(s.ContactCount),
		s.PipelineStage,
		csvio.FormatFloat(s.DealsValue),
		csvio.FormatFloat(s.OpportunityValue),
		csvio.FormatFloat(s.MarketingCost),
		strconv.Itoa(s.TotalVisits),
		csvio.FormatFloat(s.AvgSupplies),
		csvio.FormatFloat(s.TotalClaimAmount),
		csvio.FormatFloat(s.TotalClaimPaid),
		csvio.FormatFloat(s.DenialRate),
		csvio.FormatFloat(s.ClaimCollectionRate),
		csvio.FormatNullableFloat(s.ROI),
		csvio.FormatFloat(s.ValuePerPatient),
		csvio.FormatNullableFloat(s.PredictedOpportunityValue),
	}
}

func WriteCSV(w io.Writer, rows []*ProviderSummary) error {
	out := make([][]string, 0, len(rows))
	for _, s := range rows {
		out = append(out, Row(s))
	}
	if err := csvio.WriteRows(w, Columns, out); err != nil {
		return fmt.Errorf("provider summary: %w", err)
	}
	return nil
}

func ReadCSV(r io.Reader) ([]*ProviderSummary, error) {
	rows, err := csvio.ReadRows(r, Columns)
	if err != nil {
		return nil, fmt.Errorf("provider summary: %w", err)
	}

	out := make([]*ProviderSummary, 0, len(rows))
	for i, row := range rows {
		s, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("provider summary row %d: %w", i+1, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func parseRow(row []string) (*ProviderSummary, error) {
	s := &ProviderSummary{ProviderName: row[0], PipelineStage: row[6]}
	if s.ProviderName == "" {
		return nil, fmt.Errorf("%w: column %q is empty", csvio.ErrSchema, "provider_name")
	}

	var err error
	if s.TotalPatients, err = csvio.Int("total_patients", row[1]); err != nil {
		return nil, err
	}
	if s.AvgLengthOfStay, err = csvio.Float("avg_length_of_stay", row[2]); err != nil {
		return nil, err
	}
	if s.AvgSatisfaction, err = csvio.Float("avg_satisfaction", row[3]); err != nil {
		return nil, err
	}
	if s.AvgCost, err = csvio.Float("avg_cost", row[4]); err != nil {
		return nil, err
	}
	if s.ContactCount, err = csvio.Int("contact_count", row[5]); err != nil {
		return nil, err
	}
	if s.DealsValue, err = csvio.Float("deals_value", row[7]); err != nil {
		return nil, err
	}
	if s.OpportunityValue, err = csvio.Float("opportunity_value", row[8]); err != nil {
		return nil, err
	}
	if s.MarketingCost, err = csvio.Float("marketing_cost", row[9]); err != nil {
		return nil, err
	}
	if s.TotalVisits, err = csvio.Int("total_visits", row[10]); err != nil {
		return nil, err
	}
	if s.AvgSupplies, err = csvio.Float("avg_supplies", row[11]); err != nil {
		return nil, err
	}
	if s.TotalClaimAmount, err = csvio.Float("total_claim_amount", row[12]); err != nil {
		return nil, err
	}
	if s.TotalClaimPaid, err = csvio.Float("total_claim_paid", row[13]); err != nil {
		return nil, err
	}
	if s.DenialRate, err = csvio.Float("denial_rate", row[14]); err != nil {
		return nil, err
	}
	if s.ClaimCollectionRate, err = csvio.Float("claim_collection_rate", row[15]); err != nil {
		return nil, err
	}
	if s.ROI, err = csvio.NullableFloat("roi", row[16]); err != nil {
		return nil, err
	}
	if s.ValuePerPatient, err = csvio.Float("value_per_patient", row[17]); err != nil {
		return nil, err
	}
	if s.PredictedOpportunityValue, err = csvio.NullableFloat("predicted_opportunity_value", row[18]); err != nil {
		return nil, err
	}
	return s, nil
}
