package patientflow

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ayavvari/carti-bi-project/internal/platform/csvio"
)

// Columns is the patient_flow.csv schema, in order.
var Columns = []string{
	"patient_id",
	"referral_provider",
	"service_line",
	"admission_date",
	"length_of_stay",
	"discharge_date",
	"satisfaction_score",
	"treatment_cost",
}

func ReadCSV(r io.Reader) ([]Record, error) {
	rows, err := csvio.ReadRows(r, Columns)
	if err != nil {
		return nil, fmt.Errorf("patient flow: %w", err)
	}

	recs := make([]Record, 0, len(rows))
	for i, row := range rows {
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("patient flow row %d: %w", i+1, err)
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
			rec.ReferralProvider,
			rec.ServiceLine,
			rec.AdmissionDate.Format(csvio.DateLayout),
			strconv.Itoa(rec.LengthOfStay),
			rec.DischargeDate.Format(csvio.DateLayout),
			csvio.FormatFloat(rec.Satisfaction),
			csvio.FormatFloat(rec.TreatmentCost),
		})
	}
	if err := csvio.WriteRows(w, Columns, rows); err != nil {
		return fmt.Errorf("patient flow: %w", err)
	}
	return nil
}

func parseRow(row []string) (Record, error) {
	var rec Record
	var err error

	if rec.PatientID, err = csvio.Int("patient_id", row[0]); err != nil {
		return rec, err
	}
	rec.ReferralProvider = row[1]
	rec.ServiceLine = row[2]
	if rec.AdmissionDate, err = csvio.Date("admission_date", row[3]); err != nil {
		return rec, err
	}
	if rec.LengthOfStay, err = csvio.Int("length_of_stay", row[4]); err != nil {
		return rec, err
	}
	if rec.DischargeDate, err = csvio.Date("discharge_date", row[5]); err != nil {
		return rec, err
	}
	if rec.Satisfaction, err = csvio.Float("satisfaction_score", row[6]); err != nil {
		return rec, err
	}
	if rec.TreatmentCost, err = csvio.Float("treatment_cost", row[7]); err != nil {
		return rec, err
	}
	return rec, nil
}
