package summary

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGRepo stores summaries in a Postgres warehouse table.
type PGRepo struct {
	pool *pgxpool.Pool
}

func NewPGRepo(pool *pgxpool.Pool) *PGRepo {
	return &PGRepo{pool: pool}
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS provider_summary (
	provider_name               TEXT PRIMARY KEY,
	total_patients              INTEGER NOT NULL DEFAULT 0,
	avg_length_of_stay          DOUBLE PRECISION NOT NULL DEFAULT 0,
	avg_satisfaction            DOUBLE PRECISION NOT NULL DEFAULT 0,
	avg_cost                    DOUBLE PRECISION NOT NULL DEFAULT 0,
	contact_count               INTEGER NOT NULL DEFAULT 0,
	pipeline_stage              TEXT NOT NULL DEFAULT '',
	deals_value                 DOUBLE PRECISION NOT NULL DEFAULT 0,
	opportunity_value           DOUBLE PRECISION NOT NULL DEFAULT 0,
	marketing_cost              DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_visits                INTEGER NOT NULL DEFAULT 0,
	avg_supplies                DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_claim_amount          DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_claim_paid            DOUBLE PRECISION NOT NULL DEFAULT 0,
	denial_rate                 DOUBLE PRECISION NOT NULL DEFAULT 0,
	claim_collection_rate       DOUBLE PRECISION NOT NULL DEFAULT 0,
	roi                         DOUBLE PRECISION,
	value_per_patient           DOUBLE PRECISION NOT NULL DEFAULT 0,
	predicted_opportunity_value DOUBLE PRECISION
)`

const selectColumns = `provider_name, total_patients, avg_length_of_stay, avg_satisfaction,
	avg_cost, contact_count, pipeline_stage, deals_value, opportunity_value,
	marketing_cost, total_visits, avg_supplies, total_claim_amount,
	total_claim_paid, denial_rate, claim_collection_rate, roi,
	value_per_patient, predicted_opportunity_value`

// CreateSchema creates the provider_summary table if it does not exist.
func (r *PGRepo) CreateSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create provider_summary table: %w", err)
	}
	return nil
}

func (r *PGRepo) List(ctx context.Context) ([]*ProviderSummary, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+selectColumns+` FROM provider_summary ORDER BY provider_name`)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	defer rows.Close()

	var out []*ProviderSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PGRepo) GetByProvider(ctx context.Context, name string) (*ProviderSummary, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM provider_summary WHERE provider_name = $1`, name)
	s, err := scanSummary(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("get summary: %w", err)
	}
	return s, nil
}

// ReplaceAll swaps the table contents in one transaction so readers never
// observe a half-loaded run.
func (r *PGRepo) ReplaceAll(ctx context.Context, summaries []*ProviderSummary) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM provider_summary`); err != nil {
		return fmt.Errorf("clear provider_summary: %w", err)
	}

	batch := &pgx.Batch{}
	for _, s := range summaries {
		batch.Queue(`INSERT INTO provider_summary (`+selectColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`,
			s.ProviderName, s.TotalPatients, s.AvgLengthOfStay, s.AvgSatisfaction,
			s.AvgCost, s.ContactCount, s.PipelineStage, s.DealsValue, s.OpportunityValue,
			s.MarketingCost, s.TotalVisits, s.AvgSupplies, s.TotalClaimAmount,
			s.TotalClaimPaid, s.DenialRate, s.ClaimCollectionRate, s.ROI,
			s.ValuePerPatient, s.PredictedOpportunityValue)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert summaries: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

func scanSummary(row pgx.Row) (*ProviderSummary, error) {
	s := &ProviderSummary{}
	err := row.Scan(
		&s.ProviderName, &s.TotalPatients, &s.AvgLengthOfStay, &s.AvgSatisfaction,
		&s.AvgCost, &s.ContactCount, &s.PipelineStage, &s.DealsValue, &s.OpportunityValue,
		&s.MarketingCost, &s.TotalVisits, &s.AvgSupplies, &s.TotalClaimAmount,
		&s.TotalClaimPaid, &s.DenialRate, &s.ClaimCollectionRate, &s.ROI,
		&s.ValuePerPatient, &s.PredictedOpportunityValue,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}
