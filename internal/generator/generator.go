// Package generator produces the synthetic patient-flow, CRM, and
// inventory/claims datasets the pipeline consumes. Generation is seeded and
// fully deterministic: the same Config always yields byte-identical CSVs.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/ayavvari/carti-bi-project/internal/domain/crm"
	"github.com/ayavvari/carti-bi-project/internal/domain/inventory"
	"github.com/ayavvari/carti-bi-project/internal/domain/patientflow"
)

var surnames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller",
	"Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez",
	"Wilson", "Anderson", "Taylor",
}

// serviceLines and their base treatment costs; actual costs vary ±20%.
var serviceLines = []struct {
	Name     string
	BaseCost float64
}{
	{"Oncology", 25000},
	{"Cardiology", 18000},
	{"Orthopedics", 22000},
	{"Surgery", 30000},
	{"Behavioral Health", 12000},
	{"Urology", 15000},
}

// itemCodes are CPT procedure codes used as supply/claim item identifiers.
var itemCodes = []string{"99213", "93000", "27130", "47562", "99214", "52240"}

type Config struct {
	Seed         int64
	NumPatients  int
	NumProviders int
	BaseDate     time.Time
}

// Dataset holds one generated run of all three extracts.
type Dataset struct {
	PatientFlow []patientflow.Record
	CRM         []crm.Record
	Inventory   []inventory.Record
}

type Generator struct {
	cfg Config
	rng *rand.Rand
}

func New(cfg Config) *Generator {
	if cfg.BaseDate.IsZero() {
		cfg.BaseDate = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// Providers returns the referring provider names for this run.
func (g *Generator) Providers() ([]string, error) {
	if g.cfg.NumProviders < 1 || g.cfg.NumProviders > len(surnames) {
		return nil, fmt.Errorf("provider count must be between 1 and %d, got %d", len(surnames), g.cfg.NumProviders)
	}
	out := make([]string, g.cfg.NumProviders)
	for i := range out {
		out[i] = "Dr. " + surnames[i]
	}
	return out, nil
}

// Generate produces all three datasets. Record order is fixed (patient id,
// then visit order) so output files are reproducible.
func (g *Generator) Generate() (*Dataset, error) {
	providers, err := g.Providers()
	if err != nil {
		return nil, err
	}
	if g.cfg.NumPatients < 1 {
		return nil, fmt.Errorf("patient count must be positive, got %d", g.cfg.NumPatients)
	}

	ds := &Dataset{
		PatientFlow: g.patientFlow(providers),
		CRM:         g.crm(providers),
	}
	ds.Inventory = g.inventory(providers)
	return ds, nil
}

func (g *Generator) patientFlow(providers []string) []patientflow.Record {
	recs := make([]patientflow.Record, 0, g.cfg.NumPatients)
	for pid := 1; pid <= g.cfg.NumPatients; pid++ {
		line := serviceLines[g.rng.Intn(len(serviceLines))]
		admission := g.cfg.BaseDate.AddDate(0, 0, g.rng.Intn(365))
		los := g.rng.Intn(14) + 1

		recs = append(recs, patientflow.Record{
			PatientID:        pid,
			ReferralProvider: providers[g.rng.Intn(len(providers))],
			ServiceLine:      line.Name,
			AdmissionDate:    admission,
			LengthOfStay:     los,
			DischargeDate:    admission.AddDate(0, 0, los),
			Satisfaction:     clamp(g.rng.NormFloat64()*10+80, 50, 100),
			TreatmentCost:    line.BaseCost * (0.8 + 0.4*g.rng.Float64()),
		})
	}
	return recs
}

func (g *Generator) crm(providers []string) []crm.Record {
	recs := make([]crm.Record, 0, len(providers))
	for _, provider := range providers {
		recs = append(recs, crm.Record{
			ProviderName:     provider,
			ContactCount:     10 + g.rng.Intn(70),
			DealsValue:       float64(100_000 + g.rng.Intn(500_000)),
			OpportunityValue: float64(50_000 + g.rng.Intn(350_000)),
			MarketingCost:    float64(10_000 + g.rng.Intn(50_000)),
			PipelineStage:    crm.Stages[g.rng.Intn(len(crm.Stages))],
		})
	}
	return recs
}

func (g *Generator) inventory(providers []string) []inventory.Record {
	var recs []inventory.Record
	for pid := 1; pid <= g.cfg.NumPatients; pid++ {
		visits := g.rng.Intn(3) + 1
		for v := 0; v < visits; v++ {
			amount := 5000 + 25000*g.rng.Float64()
			paidRatio := 0.6 + 0.4*g.rng.Float64()

			recs = append(recs, inventory.Record{
				PatientID:   pid,
				VisitDate:   g.cfg.BaseDate.AddDate(0, 0, g.rng.Intn(365)),
				ItemCode:    itemCodes[g.rng.Intn(len(itemCodes))],
				Provider:    providers[g.rng.Intn(len(providers))],
				Quantity:    g.rng.Intn(8) + 1,
				UnitCost:    20 + 480*g.rng.Float64(),
				ClaimAmount: amount,
				ClaimPaid:   amount * paidRatio,
				ClaimStatus: g.claimStatus(),
			})
		}
	}
	return recs
}

// claimStatus draws Paid/Denied/Pending at 80/10/10.
func (g *Generator) claimStatus() string {
	switch r := g.rng.Float64(); {
	case r < 0.8:
		return inventory.StatusPaid
	case r < 0.9:
		return inventory.StatusDenied
	default:
		return inventory.StatusPending
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
