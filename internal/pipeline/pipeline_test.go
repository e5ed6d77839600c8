package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ayavvari/carti-bi-project/internal/analytics"
	"github.com/ayavvari/carti-bi-project/internal/domain/crm"
	"github.com/ayavvari/carti-bi-project/internal/domain/summary"
	"github.com/ayavvari/carti-bi-project/internal/export"
	"github.com/ayavvari/carti-bi-project/internal/generator"
)

var testFeatures = []string{"total_patients", "marketing_cost", "contact_count"}

func writeExtracts(t *testing.T, dir string, cfg generator.Config) *generator.Dataset {
	t.Helper()
	ds, err := generator.New(cfg).Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if err := export.WritePatientFlowCSV(filepath.Join(dir, PatientFlowFile), ds.PatientFlow); err != nil {
		t.Fatalf("write patient flow: %v", err)
	}
	if err := export.WriteCRMCSV(filepath.Join(dir, CRMFile), ds.CRM); err != nil {
		t.Fatalf("write crm: %v", err)
	}
	if err := export.WriteInventoryCSV(filepath.Join(dir, InventoryFile), ds.Inventory); err != nil {
		t.Fatalf("write inventory: %v", err)
	}
	return ds
}

func newTestPipeline(dataDir, outDir string) *Pipeline {
	return &Pipeline{
		Log:             zerolog.Nop(),
		DataDir:         dataDir,
		OutDir:          outDir,
		Features:        testFeatures,
		FeaturesVersion: "v1",
	}
}

func TestRunEndToEnd(t *testing.T) {
	dataDir, outDir := t.TempDir(), t.TempDir()
	ds := writeExtracts(t, dataDir, generator.Config{Seed: 42, NumPatients: 60, NumProviders: 6})

	res, err := newTestPipeline(dataDir, outDir).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(res.Summaries) != len(ds.CRM) {
		t.Errorf("expected one summary per CRM provider (%d), got %d", len(ds.CRM), len(res.Summaries))
	}
	if res.Fit == nil {
		t.Fatal("expected a fit report")
	}
	if res.Fit.Rows != len(ds.CRM) {
		t.Errorf("fit covered %d rows, expected %d", res.Fit.Rows, len(ds.CRM))
	}
	if res.Fit.MAE < 0 {
		t.Errorf("MAE must be non-negative, got %v", res.Fit.MAE)
	}
	if res.Fit.R2 > 1 {
		t.Errorf("R² must be ≤ 1, got %v", res.Fit.R2)
	}
	for _, s := range res.Summaries {
		if s.PredictedOpportunityValue == nil {
			t.Errorf("missing prediction for %s", s.ProviderName)
		}
	}

	for _, artifact := range res.Artifacts {
		if _, err := os.Stat(artifact); err != nil {
			t.Errorf("missing artifact %s: %v", artifact, err)
		}
	}
}

func TestRunDeterministic(t *testing.T) {
	dataDir := t.TempDir()
	writeExtracts(t, dataDir, generator.Config{Seed: 7, NumPatients: 40, NumProviders: 5})

	out1, out2 := t.TempDir(), t.TempDir()
	if _, err := newTestPipeline(dataDir, out1).Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, err := newTestPipeline(dataDir, out2).Run(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}

	a, err := os.ReadFile(filepath.Join(out1, SummaryFile))
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(filepath.Join(out2, SummaryFile))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("identical inputs must produce byte-identical summary files")
	}
}

func TestRunDegenerateFitFails(t *testing.T) {
	dataDir, outDir := t.TempDir(), t.TempDir()
	writeExtracts(t, dataDir, generator.Config{Seed: 1, NumPatients: 5, NumProviders: 1})

	_, err := newTestPipeline(dataDir, outDir).Run(context.Background())
	if !errors.Is(err, analytics.ErrDegenerate) {
		t.Fatalf("expected degenerate-fit error with one provider, got %v", err)
	}
}

func TestRunAllowDegenerate(t *testing.T) {
	dataDir, outDir := t.TempDir(), t.TempDir()
	writeExtracts(t, dataDir, generator.Config{Seed: 1, NumPatients: 5, NumProviders: 1})

	p := newTestPipeline(dataDir, outDir)
	p.AllowDegenerate = true

	res, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Fit != nil {
		t.Error("skipped regression must not produce a fit report")
	}
	for _, s := range res.Summaries {
		if s.PredictedOpportunityValue != nil {
			t.Errorf("%s: expected null prediction", s.ProviderName)
		}
	}

	f, err := os.Open(filepath.Join(outDir, SummaryFile))
	if err != nil {
		t.Fatalf("summary must still be exported: %v", err)
	}
	defer f.Close()
	rows, err := summary.ReadCSV(f)
	if err != nil {
		t.Fatalf("read exported summary: %v", err)
	}
	if len(rows) != 1 || rows[0].PredictedOpportunityValue != nil {
		t.Error("exported summary must carry the null prediction")
	}
}

func TestRunDuplicateCRMProviderFails(t *testing.T) {
	dataDir, outDir := t.TempDir(), t.TempDir()
	writeExtracts(t, dataDir, generator.Config{Seed: 3, NumPatients: 20, NumProviders: 3})

	dup := []crm.Record{
		{ProviderName: "Dr. Smith", ContactCount: 5, PipelineStage: "Qualified"},
		{ProviderName: "Dr. Smith", ContactCount: 9, PipelineStage: "Proposal"},
	}
	if err := export.WriteCRMCSV(filepath.Join(dataDir, CRMFile), dup); err != nil {
		t.Fatal(err)
	}

	_, err := newTestPipeline(dataDir, outDir).Run(context.Background())
	if !errors.Is(err, crm.ErrDuplicateProvider) {
		t.Fatalf("expected duplicate-provider error, got %v", err)
	}
}

func TestRunMissingExtract(t *testing.T) {
	if _, err := newTestPipeline(t.TempDir(), t.TempDir()).Run(context.Background()); err == nil {
		t.Fatal("expected error when extracts are missing")
	}
}

func TestRunCancelledContext(t *testing.T) {
	dataDir, outDir := t.TempDir(), t.TempDir()
	writeExtracts(t, dataDir, generator.Config{Seed: 9, NumPatients: 10, NumProviders: 3})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestPipeline(dataDir, outDir).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
