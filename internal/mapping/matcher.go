// Package mapping implements the identity-resolution engine: the match
// cascade that links cloud-platform accounts to HR employee records, the
// persistence of its results, and the import of human-reviewed corrections.
package mapping

import (
	"github.com/ramis-khasianov/uchr-scetl/internal/directory"
	"github.com/ramis-khasianov/uchr-scetl/internal/model"
	"github.com/ramis-khasianov/uchr-scetl/internal/normalize"
)

// attempt is one (candidate key, value) pair of the cascade.
type attempt struct {
	source model.Source
	value  string
}

// Resolve links one normalized cloud account to the HR directory and returns
// exactly one MatchResult. It is a pure function over the immutable index,
// safe to call concurrently across accounts.
//
// Candidate keys are tried strongest-first: corporate email, then full name,
// then last+first name (transliterated to Cyrillic when Latin), then login.
// The first key that yields any candidates decides the outcome — once a key
// produced candidates the cascade never falls through to a weaker key, even
// if the candidate set stays ambiguous after tie-breaking.
func Resolve(acct model.NormalizedAccount, ix *directory.Index) model.MatchResult {
	attempts := []attempt{
		{model.SourceEmail, acct.EmailClean},
		{model.SourceEmployeeName, acct.FullName},
		{model.SourceLastFirstName, normalize.TransliterateLatin(acct.LastFirstName)},
		{model.SourceLogin, acct.Login},
	}

	for _, at := range attempts {
		rows := ix.Lookup(at.source, at.value)
		if len(rows) == 0 {
			continue
		}

		if len(rows) == 1 {
			return model.MatchResult{
				HrSystem:    acct.HrSystem,
				SystemEmail: acct.Email,
				EmployeeIDs: []string{rows[0].EmployeeUID},
				Method:      model.MethodOnlyChoice,
				Source:      at.source,
			}
		}

		ids, method := tieBreak(rows)
		return model.MatchResult{
			HrSystem:    acct.HrSystem,
			SystemEmail: acct.Email,
			EmployeeIDs: ids,
			Method:      method,
			Source:      at.source,
		}
	}

	return model.MatchResult{
		HrSystem:    acct.HrSystem,
		SystemEmail: acct.Email,
		EmployeeIDs: []string{model.NoOptions},
		Method:      model.MethodNotMapped,
		Source:      model.SourceNone,
	}
}

// tieBreak narrows a multi-candidate set (all candidates already equal on
// the matched key) using two ordered rules:
//
//  1. Activity recency: keep only rows with the maximum exit date. Active
//     records carry the sentinel far-future date, so any active record
//     dominates all terminated ones.
//  2. Primary workplace: keep only rows flagged as the main workplace.
//
// If either rule narrows to exactly one row the tie is broken. Otherwise the
// remaining candidates go to human review; if the main-workplace filter
// empties the set entirely, the activity-filtered candidates are reported so
// the review queue never carries an empty list.
func tieBreak(rows []model.HrRecord) ([]string, model.Method) {
	maxExit := rows[0].ExitDate
	for _, r := range rows[1:] {
		if r.ExitDate.After(maxExit) {
			maxExit = r.ExitDate
		}
	}

	active := directory.Filter(rows, func(r model.HrRecord) bool {
		return r.ExitDate.Equal(maxExit)
	})
	if len(active) == 1 {
		return []string{active[0].EmployeeUID}, model.MethodOnlyActive
	}

	main := directory.Filter(active, func(r model.HrRecord) bool {
		return r.MainWorkplace
	})
	if len(main) == 1 {
		return []string{main[0].EmployeeUID}, model.MethodOnlyMain
	}
	if len(main) == 0 {
		main = active
	}

	ids := make([]string, 0, len(main))
	for _, r := range main {
		ids = append(ids, r.EmployeeUID)
	}
	return ids, model.MethodNeedsManual
}
