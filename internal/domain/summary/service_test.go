package summary

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestServiceGet(t *testing.T) {
	repo := NewMemoryRepo(sampleRows())
	svc := NewService(repo, nil)

	s, err := svc.Get(context.Background(), "Dr. Smith")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if s.ProviderName != "Dr. Smith" {
		t.Errorf("unexpected provider %q", s.ProviderName)
	}
}

func TestServiceGetEmptyName(t *testing.T) {
	svc := NewService(NewMemoryRepo(nil), nil)
	if _, err := svc.Get(context.Background(), ""); err == nil {
		t.Error("expected error for empty provider name")
	}
}

func TestServiceGetNotFound(t *testing.T) {
	svc := NewService(NewMemoryRepo(sampleRows()), nil)
	_, err := svc.Get(context.Background(), "Dr. Nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceRefresh(t *testing.T) {
	repo := NewMemoryRepo(nil)
	loads := 0
	loader := LoaderFunc(func(context.Context) ([]*ProviderSummary, error) {
		loads++
		return sampleRows(), nil
	})
	svc := NewService(repo, loader)

	n, err := svc.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if n != 2 || loads != 1 {
		t.Errorf("expected 2 rows from 1 load, got %d rows, %d loads", n, loads)
	}

	rows, _ := repo.List(context.Background())
	if len(rows) != 2 {
		t.Errorf("repo should hold refreshed rows, got %d", len(rows))
	}
}

func TestServiceRefreshNoLoader(t *testing.T) {
	svc := NewService(NewMemoryRepo(nil), nil)
	if _, err := svc.Refresh(context.Background()); err == nil {
		t.Error("expected error when no loader configured")
	}
}

func TestServiceRefreshLoaderError(t *testing.T) {
	svc := NewService(NewMemoryRepo(sampleRows()), LoaderFunc(func(context.Context) ([]*ProviderSummary, error) {
		return nil, fmt.Errorf("csv missing")
	}))
	if _, err := svc.Refresh(context.Background()); err == nil {
		t.Error("expected loader error to propagate")
	}
	// Old table must survive a failed refresh.
	rows, _ := svc.List(context.Background())
	if len(rows) != 2 {
		t.Errorf("failed refresh should not clear the table, got %d rows", len(rows))
	}
}

func TestMemoryRepoReplaceAll(t *testing.T) {
	repo := NewMemoryRepo(sampleRows())
	if err := repo.ReplaceAll(context.Background(), nil); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	rows, _ := repo.List(context.Background())
	if len(rows) != 0 {
		t.Errorf("expected empty table after replace, got %d rows", len(rows))
	}
}
