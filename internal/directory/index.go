// Package directory holds the in-memory snapshot of the HR system of record
// used by the match cascade. The index is built once per run and read-only
// afterwards.
package directory

import (
	"github.com/ramis-khasianov/uchr-scetl/internal/model"
)

// Index provides equality lookup of normalized HR records by each candidate
// key the matcher tries. Every map may hold several records per key: one
// employee can have multiple concurrent work records, and distinct employees
// can collide on name keys.
type Index struct {
	byEmail     map[string][]model.HrRecord
	byName      map[string][]model.HrRecord
	byLastFirst map[string][]model.HrRecord
	byLogin     map[string][]model.HrRecord
	size        int
}

// Build constructs an Index from normalized HR records.
func Build(records []model.HrRecord) *Index {
	ix := &Index{
		byEmail:     make(map[string][]model.HrRecord, len(records)),
		byName:      make(map[string][]model.HrRecord, len(records)),
		byLastFirst: make(map[string][]model.HrRecord, len(records)),
		byLogin:     make(map[string][]model.HrRecord, len(records)),
		size:        len(records),
	}

	for _, rec := range records {
		if rec.Email != "" {
			ix.byEmail[rec.Email] = append(ix.byEmail[rec.Email], rec)
		}
		if rec.EmployeeName != "" {
			ix.byName[rec.EmployeeName] = append(ix.byName[rec.EmployeeName], rec)
		}
		if rec.LastFirstName != "" {
			ix.byLastFirst[rec.LastFirstName] = append(ix.byLastFirst[rec.LastFirstName], rec)
		}
		if rec.Login != "" {
			ix.byLogin[rec.Login] = append(ix.byLogin[rec.Login], rec)
		}
	}

	return ix
}

// Size returns the number of HR records the index was built from.
func (ix *Index) Size() int { return ix.size }

// Lookup returns the HR records whose field named by source equals key.
// An empty key never matches anything, and an unknown source matches nothing.
func (ix *Index) Lookup(source model.Source, key string) []model.HrRecord {
	if key == "" {
		return nil
	}
	switch source {
	case model.SourceEmail:
		return ix.byEmail[key]
	case model.SourceEmployeeName:
		return ix.byName[key]
	case model.SourceLastFirstName:
		return ix.byLastFirst[key]
	case model.SourceLogin:
		return ix.byLogin[key]
	}
	return nil
}

// Filter returns the records in rows for which keep returns true. Used by
// the tie-break rules to narrow a candidate set without mutating it.
func Filter(rows []model.HrRecord, keep func(model.HrRecord) bool) []model.HrRecord {
	out := make([]model.HrRecord, 0, len(rows))
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
