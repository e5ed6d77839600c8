package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ayavvari/carti-bi-project/internal/domain/crm"
	"github.com/ayavvari/carti-bi-project/internal/domain/inventory"
	"github.com/ayavvari/carti-bi-project/internal/domain/patientflow"
	"github.com/ayavvari/carti-bi-project/internal/domain/summary"
	"github.com/ayavvari/carti-bi-project/internal/platform/csvio"
)

// Workbook sheet names, in tab order.
const (
	SheetPatientFlow = "Patient_Flow"
	SheetCRM         = "CRM"
	SheetInventory   = "Inventory"
	SheetSummary     = "Provider_Summary"
)

// WorkbookData is everything the multi-sheet analysis workbook contains.
type WorkbookData struct {
	PatientFlow []patientflow.Record
	CRM         []crm.Record
	Inventory   []inventory.Record
	Summary     []*summary.ProviderSummary
}

// WriteWorkbook writes the four-sheet xlsx workbook to path atomically.
func WriteWorkbook(path string, data *WorkbookData) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSheet(f, SheetPatientFlow, patientflow.Columns, patientFlowCells(data.PatientFlow)); err != nil {
		return err
	}
	if err := writeSheet(f, SheetCRM, crm.Columns, crmCells(data.CRM)); err != nil {
		return err
	}
	if err := writeSheet(f, SheetInventory, inventory.Columns, inventoryCells(data.Inventory)); err != nil {
		return err
	}
	if err := writeSheet(f, SheetSummary, summary.Columns, summaryCells(data.Summary)); err != nil {
		return err
	}

	// Drop the implicit default sheet so the workbook opens on Patient_Flow.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}
	idx, err := f.GetSheetIndex(SheetPatientFlow)
	if err != nil {
		return fmt.Errorf("sheet index: %w", err)
	}
	f.SetActiveSheet(idx)

	return WriteFileAtomic(path, func(w io.Writer) error {
		if err := f.Write(w); err != nil {
			return fmt.Errorf("write workbook: %w", err)
		}
		return nil
	})
}

func writeSheet(f *excelize.File, name string, columns []string, rows [][]any) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("sheet %s: %w", name, err)
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("sheet %s header: %w", name, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("sheet %s: %w", name, err)
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", name, i+2, err)
		}
	}
	return nil
}

func patientFlowCells(recs []patientflow.Record) [][]any {
	rows := make([][]any, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []any{
			r.PatientID,
			r.ReferralProvider,
			r.ServiceLine,
			r.AdmissionDate.Format(csvio.DateLayout),
			r.LengthOfStay,
			r.DischargeDate.Format(csvio.DateLayout),
			r.Satisfaction,
			r.TreatmentCost,
		})
	}
	return rows
}

func crmCells(recs []crm.Record) [][]any {
	rows := make([][]any, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []any{
			r.ProviderName,
			r.ContactCount,
			r.DealsValue,
			r.OpportunityValue,
			r.MarketingCost,
			r.PipelineStage,
		})
	}
	return rows
}

func inventoryCells(recs []inventory.Record) [][]any {
	rows := make([][]any, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []any{
			r.PatientID,
			r.VisitDate.Format(csvio.DateLayout),
			r.ItemCode,
			r.Provider,
			r.Quantity,
			r.UnitCost,
			r.ClaimAmount,
			r.ClaimPaid,
			r.ClaimStatus,
		})
	}
	return rows
}

func summaryCells(summaries []*summary.ProviderSummary) [][]any {
	rows := make([][]any, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []any{
			s.ProviderName,
			s.TotalPatients,
			s.AvgLengthOfStay,
			s.AvgSatisfaction,
			s.AvgCost,
			s.ContactCount,
			s.PipelineStage,
			s.DealsValue,
			s.OpportunityValue,
			s.MarketingCost,
			s.TotalVisits,
			s.AvgSupplies,
			s.TotalClaimAmount,
			s.TotalClaimPaid,
			s.DenialRate,
			s.ClaimCollectionRate,
			nullableCell(s.ROI),
			s.ValuePerPatient,
			nullableCell(s.PredictedOpportunityValue),
		})
	}
	return rows
}

// nullableCell renders nil as an empty cell, matching the CSV convention.
func nullableCell(f *float64) any {
	if f == nil {
		return ""
	}
	return *f
}
