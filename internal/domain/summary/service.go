package summary

import (
	"context"
	"fmt"
)

// Loader supplies a fresh summary table, typically by re-reading the
// exported provider_summary.csv.
type Loader interface {
	Load(ctx context.Context) ([]*ProviderSummary, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context) ([]*ProviderSummary, error)

func (f LoaderFunc) Load(ctx context.Context) ([]*ProviderSummary, error) { return f(ctx) }

type Service struct {
	repo   Repository
	loader Loader
}

// NewService builds the summary read service. loader may be nil when the
// backing store is refreshed out-of-band (e.g. by the load command).
func NewService(repo Repository, loader Loader) *Service {
	return &Service{repo: repo, loader: loader}
}

func (s *Service) List(ctx context.Context) ([]*ProviderSummary, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, name string) (*ProviderSummary, error) {
	if name == "" {
		return nil, fmt.Errorf("provider name is required")
	}
	return s.repo.GetByProvider(ctx, name)
}

// Refresh reloads the summary table from the configured source and swaps it
// in atomically.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	if s.loader == nil {
		return 0, fmt.Errorf("no refresh source configured")
	}
	rows, err := s.loader.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("reload summaries: %w", err)
	}
	if err := s.repo.ReplaceAll(ctx, rows); err != nil {
		return 0, fmt.Errorf("replace summaries: %w", err)
	}
	return len(rows), nil
}
