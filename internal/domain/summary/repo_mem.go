package summary

import (
	"context"
	"fmt"
	"sync"
)

// MemoryRepo serves a summary table loaded from the exported CSV. Reads see
// a consistent snapshot; ReplaceAll swaps the table atomically so a refresh
// never interleaves with an in-flight read.
type MemoryRepo struct {
	mu   sync.RWMutex
	rows []*ProviderSummary
}

func NewMemoryRepo(rows []*ProviderSummary) *MemoryRepo {
	return &MemoryRepo{rows: rows}
}

func (m *MemoryRepo) List(_ context.Context) ([]*ProviderSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*ProviderSummary, len(m.rows))
	copy(out, m.rows)
	return out, nil
}

func (m *MemoryRepo) GetByProvider(_ context.Context, name string) (*ProviderSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.rows {
		if s.ProviderName == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

func (m *MemoryRepo) ReplaceAll(_ context.Context, rows []*ProviderSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = rows
	return nil
}
