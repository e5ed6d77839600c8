// Package analytics fits the opportunity-value regression over the provider
// summary table. The model is ordinary least squares with an intercept,
// deterministic for a given table and feature ordering: no splits, no
// regularization, no randomness.
package analytics

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ayavvari/carti-bi-project/internal/domain/summary"
)

// ErrDegenerate reports an underdetermined fit: too few distinct rows, a
// zero-variance feature column, or singular normal equations.
var ErrDegenerate = errors.New("regression is underdetermined")

// TargetColumn is the column the model predicts. It is rejected as a feature.
const TargetColumn = "opportunity_value"

type extractor func(*summary.ProviderSummary) float64

// featureRegistry is the closed set of summary columns usable as features.
// Derived columns that embed the target (roi, value_per_patient) are
// deliberately absent.
var featureRegistry = map[string]extractor{
	"total_patients":        func(s *summary.ProviderSummary) float64 { return float64(s.TotalPatients) },
	"avg_length_of_stay":    func(s *summary.ProviderSummary) float64 { return s.AvgLengthOfStay },
	"avg_satisfaction":      func(s *summary.ProviderSummary) float64 { return s.AvgSatisfaction },
	"avg_cost":              func(s *summary.ProviderSummary) float64 { return s.AvgCost },
	"contact_count":         func(s *summary.ProviderSummary) float64 { return float64(s.ContactCount) },
	"deals_value":           func(s *summary.ProviderSummary) float64 { return s.DealsValue },
	"marketing_cost":        func(s *summary.ProviderSummary) float64 { return s.MarketingCost },
	"total_visits":          func(s *summary.ProviderSummary) float64 { return float64(s.TotalVisits) },
	"avg_supplies":          func(s *summary.ProviderSummary) float64 { return s.AvgSupplies },
	"total_claim_amount":    func(s *summary.ProviderSummary) float64 { return s.TotalClaimAmount },
	"total_claim_paid":      func(s *summary.ProviderSummary) float64 { return s.TotalClaimPaid },
	"denial_rate":           func(s *summary.ProviderSummary) float64 { return s.DenialRate },
	"claim_collection_rate": func(s *summary.ProviderSummary) float64 { return s.ClaimCollectionRate },
}

type Trainer struct {
	Features []string
	Version  string
}

// Model is a fitted regression: one coefficient per feature plus an
// intercept.
type Model struct {
	Version      string
	Features     []string
	Intercept    float64
	Coefficients []float64

	extractors []extractor
}

// FitReport summarizes fit quality over the training set.
type FitReport struct {
	Rows int     `json:"rows"`
	MAE  float64 `json:"mae"`
	R2   float64 `json:"r2"`
}

// Fit solves the least-squares problem over the full summary table.
func (t *Trainer) Fit(rows []*summary.ProviderSummary) (*Model, error) {
	extractors, err := resolveFeatures(t.Features)
	if err != nil {
		return nil, err
	}

	n, p := len(rows), len(t.Features)
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 rows, have %d", ErrDegenerate, n)
	}
	// QR needs at least as many rows as unknowns (features plus intercept).
	if n < p+1 {
		return nil, fmt.Errorf("%w: %d rows cannot determine %d coefficients", ErrDegenerate, n, p+1)
	}
	if distinctRows(rows, extractors) < 2 {
		return nil, fmt.Errorf("%w: all %d rows have identical feature values", ErrDegenerate, n)
	}

	// Design matrix with a leading intercept column of ones.
	x := mat.NewDense(n, p+1, nil)
	y := mat.NewDense(n, 1, nil)
	for i, s := range rows {
		x.Set(i, 0, 1)
		for j, ex := range extractors {
			x.Set(i, j+1, ex(s))
		}
		y.Set(i, 0, s.OpportunityValue)
	}

	for j, name := range t.Features {
		if columnVariance(x, j+1) == 0 {
			return nil, fmt.Errorf("%w: feature %q has zero variance", ErrDegenerate, name)
		}
	}

	var qr mat.QR
	qr.Factorize(x)
	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, y); err != nil {
		return nil, fmt.Errorf("%w: singular system: %v", ErrDegenerate, err)
	}

	m := &Model{
		Version:      t.Version,
		Features:     append([]string(nil), t.Features...),
		Intercept:    beta.At(0, 0),
		Coefficients: make([]float64, p),
		extractors:   extractors,
	}
	for j := 0; j < p; j++ {
		m.Coefficients[j] = beta.At(j+1, 0)
	}
	return m, nil
}

// Predict evaluates the model for one summary row.
func (m *Model) Predict(s *summary.ProviderSummary) float64 {
	pred := m.Intercept
	for j, ex := range m.extractors {
		pred += m.Coefficients[j] * ex(s)
	}
	return pred
}

// Apply writes a prediction onto every row and reports training-set fit
// quality (mean absolute error and coefficient of determination).
func (m *Model) Apply(rows []*summary.ProviderSummary) *FitReport {
	predicted := make([]float64, len(rows))
	observed := make([]float64, len(rows))

	var absErr float64
	for i, s := range rows {
		pred := m.Predict(s)
		s.PredictedOpportunityValue = &pred
		predicted[i] = pred
		observed[i] = s.OpportunityValue
		absErr += math.Abs(pred - s.OpportunityValue)
	}

	report := &FitReport{Rows: len(rows)}
	if len(rows) == 0 {
		return report
	}
	report.MAE = absErr / float64(len(rows))

	// A constant target is fitted exactly by the intercept; define R² as 1
	// rather than propagating 0/0.
	if variance(observed) == 0 {
		report.R2 = 1
	} else {
		report.R2 = stat.RSquaredFrom(predicted, observed, nil)
	}
	return report
}

func resolveFeatures(names []string) ([]extractor, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("no feature columns configured")
	}
	out := make([]extractor, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if name == TargetColumn {
			return nil, fmt.Errorf("target column %q cannot be a feature", TargetColumn)
		}
		if seen[name] {
			return nil, fmt.Errorf("feature %q listed twice", name)
		}
		seen[name] = true
		ex, ok := featureRegistry[name]
		if !ok {
			return nil, fmt.Errorf("unknown feature column %q", name)
		}
		out = append(out, ex)
	}
	return out, nil
}

func distinctRows(rows []*summary.ProviderSummary, extractors []extractor) int {
	seen := make(map[string]bool)
	for _, s := range rows {
		key := ""
		for _, ex := range extractors {
			key += fmt.Sprintf("%x|", math.Float64bits(ex(s)))
		}
		seen[key] = true
	}
	return len(seen)
}

func columnVariance(x *mat.Dense, j int) float64 {
	n, _ := x.Dims()
	col := make([]float64, n)
	mat.Col(col, j, x)
	return variance(col)
}

func variance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	lo, hi := xs[0], xs[0]
	for _, v := range xs {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		return 0
	}
	return stat.Variance(xs, nil)
}
