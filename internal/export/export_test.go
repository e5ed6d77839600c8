package export

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ayavvari/carti-bi-project/internal/domain/summary"
	"github.com/ayavvari/carti-bi-project/internal/generator"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func testDataset(t *testing.T) *generator.Dataset {
	t.Helper()
	ds, err := generator.New(generator.Config{Seed: 42, NumPatients: 20, NumProviders: 3}).Generate()
	if err != nil {
		t.Fatalf("generate fixture: %v", err)
	}
	return ds
}

func testSummaries() []*summary.ProviderSummary {
	roi, pred := 4.5, 210000.0
	return []*summary.ProviderSummary{
		{
			ProviderName:     "Dr. Smith",
			TotalPatients:    12,
			PipelineStage:    "Proposal",
			OpportunityValue: 250000,
			MarketingCost:    50000,
			ROI:              &roi,
			ValuePerPatient:  20833.33,

			PredictedOpportunityValue: &pred,
		},
		{
			ProviderName:     "Dr. Jones",
			TotalPatients:    4,
			PipelineStage:    "Qualified",
			OpportunityValue: 90000,
			MarketingCost:    0,
			ValuePerPatient:  22500,
		},
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	if err := WriteFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write([]byte("hello"))
		return err
	}); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("unexpected contents %q", got)
	}
	assertNoTempFiles(t, dir)
}

func TestWriteFileAtomicFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	boom := errors.New("boom")

	err := WriteFileAtomic(path, func(io.Writer) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected writer error, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("failed write must not create the target file")
	}
	assertNoTempFiles(t, dir)
}

func TestWriteFileAtomicPreservesPreviousOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	if err := os.WriteFile(path, []byte("previous"), 0o644); err != nil {
		t.Fatal(err)
	}

	WriteFileAtomic(path, func(io.Writer) error { return errors.New("boom") })

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "previous" {
		t.Errorf("failed write clobbered the existing file: %q", got)
	}
}

func TestWriteSummaryCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "provider_summary.csv")
	rows := testSummaries()

	if err := WriteSummaryCSV(path, rows); err != nil {
		t.Fatalf("WriteSummaryCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	got, err := summary.ReadCSV(f)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(got) != len(rows) {
		t.Fatalf("expected %d rows, got %d", len(rows), len(got))
	}
	if got[1].ROI != nil {
		t.Error("nil ROI must survive the file round trip")
	}
}

func TestWriteWorkbook(t *testing.T) {
	ds := testDataset(t)
	path := filepath.Join(t.TempDir(), "analysis.xlsx")

	err := WriteWorkbook(path, &WorkbookData{
		PatientFlow: ds.PatientFlow,
		CRM:         ds.CRM,
		Inventory:   ds.Inventory,
		Summary:     testSummaries(),
	})
	if err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	want := []string{SheetPatientFlow, SheetCRM, SheetInventory, SheetSummary}
	got := f.GetSheetList()
	if len(got) != len(want) {
		t.Fatalf("expected sheets %v, got %v", want, got)
	}
	for _, name := range want {
		if idx, _ := f.GetSheetIndex(name); idx < 0 {
			t.Errorf("missing sheet %q", name)
		}
	}

	cell, err := f.GetCellValue(SheetCRM, "A2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if cell != ds.CRM[0].ProviderName {
		t.Errorf("CRM!A2 = %q, expected %q", cell, ds.CRM[0].ProviderName)
	}

	header, err := f.GetCellValue(SheetSummary, "A1")
	if err != nil {
		t.Fatalf("read header: %v", err)
	}
	if header != summary.Columns[0] {
		t.Errorf("summary header A1 = %q, expected %q", header, summary.Columns[0])
	}
}

func TestChartsProducePNG(t *testing.T) {
	volumes := map[string]int{"Oncology": 40, "Cardiology": 25, "Surgery": 12}
	rows := testSummaries()

	renders := map[string]func(io.Writer) error{
		"volume":   func(w io.Writer) error { return PatientVolumeChart(w, volumes) },
		"opp-cost": func(w io.Writer) error { return OpportunityVsCostChart(w, rows) },
		"pred-act": func(w io.Writer) error { return PredictedVsActualChart(w, rows) },
		"roi":      func(w io.Writer) error { return ROIByProviderChart(w, rows) },
	}
	for name, render := range renders {
		var buf bytes.Buffer
		if err := render(&buf); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
			t.Errorf("%s: output is not a PNG", name)
		}
	}
}

func TestPredictedVsActualChartWithoutPredictions(t *testing.T) {
	rows := testSummaries()
	for _, s := range rows {
		s.PredictedOpportunityValue = nil
	}
	var buf bytes.Buffer
	if err := PredictedVsActualChart(&buf, rows); err != nil {
		t.Fatalf("chart without predictions must still render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestWriteCharts(t *testing.T) {
	dir := t.TempDir()
	volumes := map[string]int{"Oncology": 40, "Urology": 9}

	if err := WriteCharts(dir, volumes, testSummaries()); err != nil {
		t.Fatalf("WriteCharts: %v", err)
	}

	for _, name := range []string{ChartPatientVolume, ChartOpportunityVsCost, ChartPredictedVsActual, ChartROIByProvider} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("missing chart %s: %v", name, err)
		}
		if !bytes.HasPrefix(data, pngMagic) {
			t.Errorf("%s is not a PNG", name)
		}
	}
	assertNoTempFiles(t, dir)
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}
