package inventory

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ayavvari/carti-bi-project/internal/platform/csvio"
)

// Columns is the inventory.csv schema, in order.
var Columns = []string{
	"patient_id",
	"visit_date",
	"item_code",
	"provider_name",
	"quantity",
	"unit_cost",
	"claim_amount",
	"claim_paid",
	"claim_status",
}

func ReadCSV(r io.Reader) ([]Record, error) {
	rows, err := csvio.ReadRows(r, Columns)
	if err != nil {
		return nil, fmt.Errorf("inventory: %w", err)
	}

	recs := make([]Record, 0, len(rows))
	for i, row := range rows {
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("inventory row %d: %w", i+1, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func WriteCSV(w io.Writer, recs []Record) error {
	rows := make([][]string, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, []string{
			strconv.Itoa(rec.PatientID),
			rec.VisitDate.Format(csvio.DateLayout),
			rec.ItemCode,
			rec.Provider,
			strconv.Itoa(rec.Quantity),
			csvio.FormatFloat(rec.UnitCost),
			csvio.FormatFloat(rec.ClaimAmount),
			csvio.FormatFloat(rec.ClaimPaid),
			rec.ClaimStatus,
		})
	}
	if err := csvio.WriteRows(w, Columns, rows); err != nil {
		return fmt.Errorf("inventory: %w", err)
	}
	return nil
}

func parseRow(row []string) (Record, error) {
	var rec Record
	var err error

	if rec.PatientID, err = csvio.Int("patient_id", row[0]); err != nil {
		return rec, err
	}
	if rec.VisitDate, err = csvio.Date("visit_date", row[1]); err != nil {
		return rec, err
	}
	rec.ItemCode = row[2]
	rec.Provider = row[3]
	if rec.Quantity, err = csvio.Int("quantity", row[4]); err != nil {
		return rec, err
	}
	if rec.UnitCost, err = csvio.Float("unit_cost", row[5]); err != nil {
		return rec, err
	}
	if rec.ClaimAmount, err = csvio.Float("claim_amount", row[6]); err != nil {
		return rec, err
	}
	if rec.ClaimPaid, err = csvio.Float("claim_paid", row[7]); err != nil {
		return rec, err
	}
	rec.ClaimStatus = row[8]
	if !ValidStatus(rec.ClaimStatus) {
		return rec, fmt.Errorf("%w: column %q: unknown status %q", csvio.ErrSchema, "claim_status", rec.ClaimStatus)
	}
	return rec, nil
}
