package mapping_test

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ramis-khasianov/uchr-scetl/internal/mapping"
	"github.com/ramis-khasianov/uchr-scetl/internal/model"
)

// ── ExportForReview ────────────────────────────────────────────────────────

func TestExportForReview_EmptyQueueWritesNothing(t *testing.T) {
	dir := t.TempDir()

	path, err := mapping.ExportForReview(dir, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty for empty queue", path)
	}
	if _, err := os.Stat(filepath.Join(dir, mapping.ExportFileName)); !os.IsNotExist(err) {
		t.Errorf("export file must not exist for an empty queue")
	}
}

func TestExportForReview_WritesRows(t *testing.T) {
	dir := t.TempDir()
	pending := []model.PendingItem{
		{HrSystem: "lms", SystemEmail: "a@x.com", PossibleOption: "1",
			Method: model.MethodNeedsManual, Source: model.SourceLastFirstName},
		{HrSystem: "lms", SystemEmail: "b@x.com", PossibleOption: model.NoOptions,
			Method: model.MethodNotMapped, Source: model.SourceNone, AlreadyMapped: true},
	}

	path, err := mapping.ExportForReview(dir, pending)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d csv rows, want header + 2", len(records))
	}
	if records[0][0] != "hr_system" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][1] != "a@x.com" || records[1][5] != "0" {
		t.Errorf("row 1 = %v", records[1])
	}
	if records[2][2] != model.NoOptions || records[2][5] != "1" {
		t.Errorf("row 2 = %v", records[2])
	}
}

// ── ReadManualOverrides ────────────────────────────────────────────────────

func writeImportFile(t *testing.T, dir string, rows [][]string) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, mapping.ImportFileName))
	if err != nil {
		t.Fatalf("create import file: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write import file: %v", err)
	}
}

func TestReadManualOverrides_KeepsOnlyFlaggedRows(t *testing.T) {
	dir := t.TempDir()
	writeImportFile(t, dir, [][]string{
		{"hr_system", "system_email", "possible_options", "load_to_manual"},
		{"lms", "a@x.com", "42", "1"},
		{"lms", "b@x.com", "43", "0"},
		{"lms", "c@x.com", "44", ""},
		{"lms", "d@x.com", "45", "yes"},
	})

	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	overrides, err := mapping.ReadManualOverrides(dir, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(overrides) != 1 {
		t.Fatalf("got %d overrides, want 1", len(overrides))
	}
	o := overrides[0]
	if o.SystemEmail != "a@x.com" || o.EmployeeID != "42" || o.HrSystem != "lms" {
		t.Errorf("override = %+v", o)
	}
	if !o.LastUpdate.Equal(now) {
		t.Errorf("LastUpdate = %v, want %v", o.LastUpdate, now)
	}
}

func TestReadManualOverrides_FlagWithStrayWhitespace(t *testing.T) {
	dir := t.TempDir()
	writeImportFile(t, dir, [][]string{
		{"hr_system", "system_email", "possible_options", "load_to_manual"},
		{"lms", "a@x.com", "42", "1 "},
		{"lms", "b@x.com", "43", " 1"},
	})

	overrides, err := mapping.ReadManualOverrides(dir, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(overrides) != 2 {
		t.Fatalf("got %d overrides, want 2 — padded flags must still count", len(overrides))
	}
}

func TestReadManualOverrides_ReorderedColumns(t *testing.T) {
	dir := t.TempDir()
	writeImportFile(t, dir, [][]string{
		{"load_to_manual", "possible_options", "system_email", "reviewer_note"},
		{"1", "42", "a@x.com", "checked against 1C"},
	})

	overrides, err := mapping.ReadManualOverrides(dir, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(overrides) != 1 || overrides[0].EmployeeID != "42" {
		t.Errorf("overrides = %+v", overrides)
	}
}

func TestReadManualOverrides_MissingFile(t *testing.T) {
	_, err := mapping.ReadManualOverrides(t.TempDir(), time.Now())
	if !errors.Is(err, mapping.ErrNoReviewFile) {
		t.Errorf("err = %v, want ErrNoReviewFile", err)
	}
}

func TestReadManualOverrides_MissingColumn(t *testing.T) {
	dir := t.TempDir()
	writeImportFile(t, dir, [][]string{
		{"system_email", "possible_options"},
		{"a@x.com", "42"},
	})

	if _, err := mapping.ReadManualOverrides(dir, time.Now()); err == nil {
		t.Error("expected error for missing load_to_manual column")
	}
}
