package export

import (
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ayavvari/carti-bi-project/internal/domain/summary"
)

// Chart artifact file names.
const (
	ChartPatientVolume     = "patient_volume_service_line.png"
	ChartOpportunityVsCost = "opportunity_vs_cost.png"
	ChartPredictedVsActual = "predicted_vs_actual.png"
	ChartROIByProvider     = "roi_by_provider.png"
)

var (
	barColor     = color.RGBA{R: 0x2b, G: 0x6c, B: 0xb0, A: 0xff}
	scatterColor = color.RGBA{R: 0xd9, G: 0x53, B: 0x19, A: 0xff}
)

const (
	chartWidth  = 8 * vg.Inch
	chartHeight = 5 * vg.Inch
)

// WriteCharts renders all four pipeline charts into dir.
func WriteCharts(dir string, volumes map[string]int, rows []*summary.ProviderSummary) error {
	charts := []struct {
		name   string
		render func(io.Writer) error
	}{
		{ChartPatientVolume, func(w io.Writer) error { return PatientVolumeChart(w, volumes) }},
		{ChartOpportunityVsCost, func(w io.Writer) error { return OpportunityVsCostChart(w, rows) }},
		{ChartPredictedVsActual, func(w io.Writer) error { return PredictedVsActualChart(w, rows) }},
		{ChartROIByProvider, func(w io.Writer) error { return ROIByProviderChart(w, rows) }},
	}
	for _, c := range charts {
		if err := WriteFileAtomic(filepath.Join(dir, c.name), c.render); err != nil {
			return fmt.Errorf("chart %s: %w", c.name, err)
		}
	}
	return nil
}

// PatientVolumeChart draws patient counts per service line as a bar chart.
func PatientVolumeChart(w io.Writer, volumes map[string]int) error {
	lines := make([]string, 0, len(volumes))
	for line := range volumes {
		lines = append(lines, line)
	}
	sort.Strings(lines)

	values := make(plotter.Values, len(lines))
	for i, line := range lines {
		values[i] = float64(volumes[line])
	}

	p := plot.New()
	p.Title.Text = "Patient Volume by Service Line"
	p.Y.Label.Text = "Patients"
	p.X.Tick.Label.Rotation = 0.5

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return fmt.Errorf("bar chart: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(lines...)

	return renderPNG(p, w)
}

// OpportunityVsCostChart plots average treatment cost against opportunity
// value, one point per provider.
func OpportunityVsCostChart(w io.Writer, rows []*summary.ProviderSummary) error {
	pts := make(plotter.XYs, 0, len(rows))
	for _, s := range rows {
		pts = append(pts, plotter.XY{X: s.AvgCost, Y: s.OpportunityValue})
	}

	p := plot.New()
	p.Title.Text = "Opportunity Value vs Avg Treatment Cost"
	p.X.Label.Text = "Avg Treatment Cost"
	p.Y.Label.Text = "Opportunity Value"

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("scatter: %w", err)
	}
	scatter.GlyphStyle.Color = scatterColor
	scatter.GlyphStyle.Radius = vg.Points(3)
	p.Add(scatter)

	return renderPNG(p, w)
}

// PredictedVsActualChart plots model predictions against actual opportunity
// values with a dashed identity line. Rows without a prediction are skipped.
func PredictedVsActualChart(w io.Writer, rows []*summary.ProviderSummary) error {
	pts := make(plotter.XYs, 0, len(rows))
	lo, hi := 0.0, 0.0
	for _, s := range rows {
		if s.PredictedOpportunityValue == nil {
			continue
		}
		pts = append(pts, plotter.XY{X: s.OpportunityValue, Y: *s.PredictedOpportunityValue})
		if len(pts) == 1 {
			lo, hi = s.OpportunityValue, s.OpportunityValue
			continue
		}
		if s.OpportunityValue < lo {
			lo = s.OpportunityValue
		}
		if s.OpportunityValue > hi {
			hi = s.OpportunityValue
		}
	}

	p := plot.New()
	p.Title.Text = "Predicted vs Actual Opportunity Value"
	p.X.Label.Text = "Actual"
	p.Y.Label.Text = "Predicted"

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("scatter: %w", err)
	}
	scatter.GlyphStyle.Color = scatterColor
	scatter.GlyphStyle.Radius = vg.Points(3)
	p.Add(scatter)

	if len(pts) > 0 {
		identity, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
		if err != nil {
			return fmt.Errorf("identity line: %w", err)
		}
		identity.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		identity.LineStyle.Color = color.Gray{Y: 0x60}
		p.Add(identity)
	}

	return renderPNG(p, w)
}

// ROIByProviderChart draws ROI per provider as a bar chart. Providers with
// undefined ROI (zero marketing cost) are omitted.
func ROIByProviderChart(w io.Writer, rows []*summary.ProviderSummary) error {
	var names []string
	var values plotter.Values
	for _, s := range rows {
		if s.ROI == nil {
			continue
		}
		names = append(names, s.ProviderName)
		values = append(values, *s.ROI)
	}

	p := plot.New()
	p.Title.Text = "Marketing ROI by Provider"
	p.Y.Label.Text = "ROI"
	p.X.Tick.Label.Rotation = 0.5

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return fmt.Errorf("bar chart: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(names...)

	return renderPNG(p, w)
}

func renderPNG(p *plot.Plot, w io.Writer) error {
	wt, err := p.WriterTo(chartWidth, chartHeight, "png")
	if err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}
