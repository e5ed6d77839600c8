package crm

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ayavvari/carti-bi-project/internal/platform/csvio"
)

// Columns is the crm.csv schema, in order.
var Columns = []string{
	"provider_name",
	"contact_count",
	"deals_value",
	"opportunity_value",
	"marketing_cost",
	"pipeline_stage",
}

func ReadCSV(r io.Reader) ([]Record, error) {
	rows, err := csvio.ReadRows(r, Columns)
	if err != nil {
		return nil, fmt.Errorf("crm: %w", err)
	}

	recs := make([]Record, 0, len(rows))
	for i, row := range rows {
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("crm row %d: %w", i+1, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func WriteCSV(w io.Writer, recs []Record) error {
	rows := make([][]string, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, []string{
			rec.ProviderName,
			strconv.Itoa(rec.ContactCount),
			csvio.FormatFloat(rec.DealsValue),
			csvio.FormatFloat(rec.OpportunityValue),
			csvio.FormatFloat(rec.MarketingCost),
			rec.PipelineStage,
		})
	}
	if err := csvio.WriteRows(w, Columns, rows); err != nil {
		return fmt.Errorf("crm: %w", err)
	}
	return nil
}

func parseRow(row []string) (Record, error) {
	var rec Record
	var err error

	rec.ProviderName = row[0]
	if rec.ProviderName == "" {
		return rec, fmt.Errorf("%w: column %q is empty", csvio.ErrSchema, "provider_name")
	}
	if rec.ContactCount, err = csvio.Int("contact_count", row[1]); err != nil {
		return rec, err
	}
	if rec.DealsValue, err = csvio.Float("deals_value", row[2]); err != nil {
		return rec, err
	}
	if rec.OpportunityValue, err = csvio.Float("opportunity_value", row[3]); err != nil {
		return rec, err
	}
	if rec.MarketingCost, err = csvio.Float("marketing_cost", row[4]); err != nil {
		return rec, err
	}
	rec.PipelineStage = row[5]
	if !ValidStage(rec.PipelineStage) {
		return rec, fmt.Errorf("%w: column %q: unknown stage %q", csvio.ErrSchema, "pipeline_stage", rec.PipelineStage)
	}
	return rec, nil
}
