package mapping

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ramis-khasianov/uchr-scetl/internal/model"
)

// File names under the review directory. The export is what goes out to the
// reviewer; the import is the reviewer's edited copy coming back.
const (
	ExportFileName = "for_manual_mapping.csv"
	ImportFileName = "manual_mapping.csv"
)

// ErrNoReviewFile is returned by ReadManualOverrides when no reviewed file
// exists at the expected path.
var ErrNoReviewFile = fmt.Errorf("reviewed mapping file not found")

// ExportForReview writes the pending-review queue to a CSV under dir and
// returns its path. Nothing is written when the queue is empty.
func ExportForReview(dir string, pending []model.PendingItem) (string, error) {
	if len(pending) == 0 {
		return "", nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create review dir: %w", err)
	}

	path := filepath.Join(dir, ExportFileName)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"hr_system", "system_email", "possible_options",
		"mapping_method", "mapping_source", "already_mapped", "load_to_manual",
	}); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}

	for _, p := range pending {
		already := "0"
		if p.AlreadyMapped {
			already = "1"
		}
		// load_to_manual is left empty for the reviewer to fill in
		row := []string{p.HrSystem, p.SystemEmail, p.PossibleOption, string(p.Method), string(p.Source), already, ""}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush %s: %w", path, err)
	}
	return path, nil
}

// ReadManualOverrides reads the reviewer-edited CSV from dir and returns the
// rows flagged load_to_manual = 1, stamped with now. Column order is taken
// from the header, so reviewers can reorder or add columns freely.
func ReadManualOverrides(dir string, now time.Time) ([]model.ManualOverride, error) {
	path := filepath.Join(dir, ImportFileName)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoReviewFile, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // reviewers trim trailing empty cells

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[name] = i
	}
	for _, required := range []string{"system_email", "possible_options", "load_to_manual"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", path, required)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var overrides []model.ManualOverride
	for _, row := range records[1:] {
		// hand-edited cells often carry stray whitespace
		flag, err := strconv.Atoi(strings.TrimSpace(cell(row, "load_to_manual")))
		if err != nil || flag != 1 {
			continue
		}
		overrides = append(overrides, model.ManualOverride{
			HrSystem:    cell(row, "hr_system"),
			SystemEmail: cell(row, "system_email"),
			EmployeeID:  cell(row, "possible_options"),
			LastUpdate:  now,
		})
	}

	return overrides, nil
}
