package summary

import (
	"context"
	"errors"
)

// ErrNotFound reports a provider with no summary row.
var ErrNotFound = errors.New("provider not found")

// Repository stores one immutable summary table per pipeline run. ReplaceAll
// swaps the whole table; rows are never mutated in place.
type Repository interface {
	List(ctx context.Context) ([]*ProviderSummary, error)
	GetByProvider(ctx context.Context, name string) (*ProviderSummary, error)
	ReplaceAll(ctx context.Context, rows []*ProviderSummary) error
}
