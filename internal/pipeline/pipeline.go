// Package pipeline runs the batch analysis: load the three extracts, build
// provider-level aggregates, merge them into the summary table, fit the
// opportunity-value regression, and write every artifact. One Run is one
// end-to-end pass; stages share nothing across runs.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ayavvari/carti-bi-project/internal/analytics"
	"github.com/ayavvari/carti-bi-project/internal/domain/crm"
	"github.com/ayavvari/carti-bi-project/internal/domain/inventory"
	"github.com/ayavvari/carti-bi-project/internal/domain/patientflow"
	"github.com/ayavvari/carti-bi-project/internal/domain/summary"
	"github.com/ayavvari/carti-bi-project/internal/export"
)

// Input extract file names, resolved under DataDir.
const (
	PatientFlowFile = "patient_flow.csv"
	CRMFile         = "crm.csv"
	InventoryFile   = "inventory.csv"
)

// Artifact file names, resolved under OutDir.
const (
	SummaryFile  = "provider_summary.csv"
	WorkbookFile = "carti_bi_dataset.xlsx"
)

type Pipeline struct {
	Log     zerolog.Logger
	DataDir string
	OutDir  string

	Features        []string
	FeaturesVersion string

	// AllowDegenerate turns an underdetermined regression into a warning:
	// the summary is exported with null predictions instead of failing the
	// run.
	AllowDegenerate bool
}

// Result reports what one run produced. Fit is nil when the regression stage
// was skipped.
type Result struct {
	RunID     string
	Summaries []*summary.ProviderSummary
	Fit       *analytics.FitReport
	Artifacts []string
}

// Run executes all stages in order and returns the summary rows it exported.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	log := p.Log.With().Str("run_id", runID).Logger()
	started := time.Now()

	flows, crmRecs, claims, err := p.loadExtracts()
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("patient_flow", len(flows)).
		Int("crm", len(crmRecs)).
		Int("inventory", len(claims)).
		Msg("extracts loaded")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clinical := patientflow.AggregateByProvider(flows)
	volumes := patientflow.VolumeByServiceLine(flows)
	claimAggs := inventory.AggregateByProvider(claims)

	rows, err := summary.Merge(crmRecs, clinical, claimAggs)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	summary.ComputeMetrics(rows)
	log.Info().Int("providers", len(rows)).Msg("summary table built")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fit, err := p.train(log, rows)
	if err != nil {
		return nil, err
	}

	artifacts, err := p.export(log, flows, crmRecs, claims, rows, volumes)
	if err != nil {
		return nil, err
	}

	log.Info().
		Dur("elapsed", time.Since(started)).
		Int("artifacts", len(artifacts)).
		Msg("run complete")
	return &Result{
		RunID:     runID,
		Summaries: rows,
		Fit:       fit,
		Artifacts: artifacts,
	}, nil
}

func (p *Pipeline) loadExtracts() ([]patientflow.Record, []crm.Record, []inventory.Record, error) {
	flows, err := readExtract(filepath.Join(p.DataDir, PatientFlowFile), patientflow.ReadCSV)
	if err != nil {
		return nil, nil, nil, err
	}
	crmRecs, err := readExtract(filepath.Join(p.DataDir, CRMFile), crm.ReadCSV)
	if err != nil {
		return nil, nil, nil, err
	}
	claims, err := readExtract(filepath.Join(p.DataDir, InventoryFile), inventory.ReadCSV)
	if err != nil {
		return nil, nil, nil, err
	}
	return flows, crmRecs, claims, nil
}

func (p *Pipeline) train(log zerolog.Logger, rows []*summary.ProviderSummary) (*analytics.FitReport, error) {
	trainer := &analytics.Trainer{Features: p.Features, Version: p.FeaturesVersion}
	model, err := trainer.Fit(rows)
	if err != nil {
		if errors.Is(err, analytics.ErrDegenerate) && p.AllowDegenerate {
			log.Warn().Err(err).Msg("regression skipped, predictions will be null")
			return nil, nil
		}
		return nil, fmt.Errorf("fit model: %w", err)
	}

	fit := model.Apply(rows)
	log.Info().
		Str("model_version", model.Version).
		Strs("features", model.Features).
		Int("rows", fit.Rows).
		Float64("mae", fit.MAE).
		Float64("r2", fit.R2).
		Msg("model fitted")
	return fit, nil
}

func (p *Pipeline) export(
	log zerolog.Logger,
	flows []patientflow.Record,
	crmRecs []crm.Record,
	claims []inventory.Record,
	rows []*summary.ProviderSummary,
	volumes map[string]int,
) ([]string, error) {
	summaryPath := filepath.Join(p.OutDir, SummaryFile)
	if err := export.WriteSummaryCSV(summaryPath, rows); err != nil {
		return nil, fmt.Errorf("export summary: %w", err)
	}

	workbookPath := filepath.Join(p.OutDir, WorkbookFile)
	err := export.WriteWorkbook(workbookPath, &export.WorkbookData{
		PatientFlow: flows,
		CRM:         crmRecs,
		Inventory:   claims,
		Summary:     rows,
	})
	if err != nil {
		return nil, fmt.Errorf("export workbook: %w", err)
	}

	if err := export.WriteCharts(p.OutDir, volumes, rows); err != nil {
		return nil, fmt.Errorf("export charts: %w", err)
	}

	artifacts := []string{
		summaryPath,
		workbookPath,
		filepath.Join(p.OutDir, export.ChartPatientVolume),
		filepath.Join(p.OutDir, export.ChartOpportunityVsCost),
		filepath.Join(p.OutDir, export.ChartPredictedVsActual),
		filepath.Join(p.OutDir, export.ChartROIByProvider),
	}
	for _, a := range artifacts {
		log.Debug().Str("artifact", a).Msg("artifact written")
	}
	return artifacts, nil
}

func readExtract[T any](path string, decode func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open extract: %w", err)
	}
	defer f.Close()

	recs, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return recs, nil
}
