// Package normalize turns raw HR and cloud-platform records into comparable
// identity keys. All matching downstream is exact equality over these keys,
// so every string passes through the same cleanup: Unicode NFC, lower case,
// collapsed whitespace.
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ramis-khasianov/uchr-scetl/internal/model"
)

// Clean applies the baseline string cleanup: NFC normalization (platforms
// disagree on composed vs decomposed Cyrillic), lower case, internal
// whitespace collapsed to single spaces, trimmed.
func Clean(s string) string {
	s = norm.NFC.String(s)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// CleanHr is Clean plus dropping a trailing parenthetical suffix, which the
// HR system appends to names and emails of contractors and secondments,
// e.g. "Иванов Иван (совместитель)".
func CleanHr(s string) string {
	s = Clean(s)
	if i := strings.Index(s, "("); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}

// SplitName splits a cleaned full name on single spaces into positional
// parts: last, first, middle. Missing parts default to empty strings.
// Patronymic suffix forms ("ogly"/"kyzy") are not special-cased; those few
// records end up with the suffix as the middle name and match on weaker keys.
func SplitName(name string) (last, first, middle string) {
	parts := strings.Split(name, " ")
	if name == "" {
		parts = nil
	}
	if len(parts) > 0 {
		last = parts[0]
	}
	if len(parts) > 1 {
		first = parts[1]
	}
	if len(parts) > 2 {
		middle = parts[2]
	}
	return last, first, middle
}

// loginOf returns the local part of an email address (everything before the
// first "@"), which some platforms use as the account alias.
func loginOf(email string) string {
	login, _, _ := strings.Cut(email, "@")
	return login
}

// HrRecord normalizes one raw HR row into the keyed form the directory index
// is built from. employee_name is rebuilt from the split parts so that its
// shape is identical to what cloud full names normalize to.
func HrRecord(raw model.RawHrRecord) model.HrRecord {
	email := CleanHr(raw.Email)
	name := CleanHr(raw.EmployeeName)
	last, first, middle := SplitName(name)

	return model.HrRecord{
		EmployeeUID:   raw.EmployeeUID,
		EmployeeName:  strings.TrimSpace(last + " " + first + " " + middle),
		Email:         email,
		Login:         loginOf(email),
		LastName:      last,
		FirstName:     first,
		MiddleName:    middle,
		LastFirstName: strings.TrimSpace(last + " " + first),
		ExitDate:      raw.ExitDate,
		MainWorkplace: raw.MainWorkplace,
	}
}

// cloudNamePart cleans a platform-reported name field: lower case, trimmed,
// the literal string "none" treated as absent, and only the first token kept
// (platforms sometimes stuff the whole name into one field).
func cloudNamePart(s string) string {
	s = Clean(s)
	if s == "none" {
		return ""
	}
	part, _, _ := strings.Cut(s, " ")
	return part
}

// CloudAccount normalizes one platform account. last_first_name is populated
// only when both last and first name are present; full_name only when all
// three parts are. A partially named account simply skips those keys in the
// match cascade.
func CloudAccount(raw model.CloudAccount) model.NormalizedAccount {
	emailClean := Clean(raw.Email)
	last := cloudNamePart(raw.LastName)
	first := cloudNamePart(raw.FirstName)
	middle := cloudNamePart(raw.MiddleName)

	var lastFirst, full string
	if last != "" && first != "" {
		lastFirst = last + " " + first
		if middle != "" {
			full = last + " " + first + " " + middle
		}
	}

	return model.NormalizedAccount{
		HrSystem:      raw.HrSystem,
		Email:         raw.Email,
		EmailClean:    emailClean,
		Login:         loginOf(emailClean),
		LastName:      last,
		FirstName:     first,
		MiddleName:    middle,
		LastFirstName: lastFirst,
		FullName:      full,
	}
}
