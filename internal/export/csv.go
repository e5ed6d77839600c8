// Package export writes pipeline artifacts: CSV extracts, the Excel
// workbook, and PNG charts. All writes are atomic (temp file plus rename) so
// a crash mid-export never leaves a truncated artifact behind.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ayavvari/carti-bi-project/internal/domain/crm"
	"github.com/ayavvari/carti-bi-project/internal/domain/inventory"
	"github.com/ayavvari/carti-bi-project/internal/domain/patientflow"
	"github.com/ayavvari/carti-bi-project/internal/domain/summary"
)

// WriteFileAtomic streams write into a temp file next to path and renames it
// into place on success. On failure the temp file is removed and path is left
// untouched.
func WriteFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}

func WritePatientFlowCSV(path string, recs []patientflow.Record) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		return patientflow.WriteCSV(w, recs)
	})
}

func WriteCRMCSV(path string, recs []crm.Record) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		return crm.WriteCSV(w, recs)
	})
}

func WriteInventoryCSV(path string, recs []inventory.Record) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		return inventory.WriteCSV(w, recs)
	})
}

func WriteSummaryCSV(path string, rows []*summary.ProviderSummary) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		return summary.WriteCSV(w, rows)
	})
}
