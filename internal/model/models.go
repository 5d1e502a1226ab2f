// Package model defines shared data structures for the mapping service.
package model

import "time"

// SentinelExitDate marks a currently active employment record in the HR
// system of record. The v_hr_mapping view substitutes it for NULL exit dates,
// so "still employed" always sorts above any real termination date.
var SentinelExitDate = time.Date(2100, time.December, 31, 0, 0, 0, 0, time.UTC)

// RawHrRecord mirrors one row of the v_hr_mapping view. employee_uid is NOT
// unique across rows: one employee may hold several concurrent work records.
type RawHrRecord struct {
	EmployeeUID   string
	EmployeeName  string
	Email         string
	ExitDate      time.Time
	MainWorkplace bool
}

// HrRecord is the normalized, immutable view of a RawHrRecord carrying every
// candidate key the matcher can look up.
type HrRecord struct {
	EmployeeUID   string
	EmployeeName  string // rebuilt "last first middle" with missing parts defaulted
	Email         string
	Login         string // local part of email
	LastName      string
	FirstName     string
	MiddleName    string
	LastFirstName string
	ExitDate      time.Time
	MainWorkplace bool
}

// CloudAccount mirrors one row of the v_hr_cloud_users view: a user account
// reported by an external cloud platform, identified by whatever that
// platform happens to expose.
type CloudAccount struct {
	HrSystem   string
	Email      string
	LastName   string
	FirstName  string
	MiddleName string
}

// NormalizedAccount is the cleaned-up view of a CloudAccount. full_name is
// populated only when all three name parts are present; last_first_name only
// when last and first are.
type NormalizedAccount struct {
	HrSystem      string
	Email         string // raw, as stored in system_email
	EmailClean    string
	Login         string
	LastName      string
	FirstName     string
	MiddleName    string
	LastFirstName string
	FullName      string
}

// Method enumerates how an account was (or was not) resolved.
type Method string

const (
	MethodOnlyChoice  Method = "only_choice"
	MethodOnlyActive  Method = "only_active"
	MethodOnlyMain    Method = "only_main"
	MethodNeedsManual Method = "needs_manual"
	MethodNotMapped   Method = "not_mapped"
)

// Resolved reports whether the method stands for a confirmed automatic
// mapping (exactly one employee id) rather than a review-queue outcome.
func (m Method) Resolved() bool {
	switch m {
	case MethodOnlyChoice, MethodOnlyActive, MethodOnlyMain:
		return true
	}
	return false
}

// Source names the candidate key that produced a match result.
type Source string

const (
	SourceEmail         Source = "email"
	SourceEmployeeName  Source = "employee_name"
	SourceLastFirstName Source = "last_first_name"
	SourceLogin         Source = "login"
	SourceNone          Source = "not_mapped"
)

// NoOptions is the employee id sentinel for accounts with no HR candidates.
const NoOptions = "no_options"

// MatchResult is the outcome of resolving one cloud account. EmployeeIDs
// holds exactly one id for resolved methods, the full candidate list for
// needs_manual, and the NoOptions sentinel for not_mapped.
type MatchResult struct {
	HrSystem    string
	SystemEmail string
	EmployeeIDs []string
	Method      Method
	Source      Source
}

// MappingRecord is a resolved MatchResult as persisted to
// hr_cloud_mapped_auto. The table is append-only; rows are never rewritten.
type MappingRecord struct {
	HrSystem    string
	SystemEmail string
	EmployeeID  string
	Method      Method
	Source      Source
	LastUpdate  time.Time
}

// PendingItem is one (account, candidate) pair queued for human review in
// hr_cloud_mapping_needed. AlreadyMapped marks accounts that were present in
// the queue on a previous run, so reviewers can spot the new rows.
type PendingItem struct {
	HrSystem       string `json:"hrSystem"`
	SystemEmail    string `json:"systemEmail"`
	PossibleOption string `json:"possibleOption"`
	Method         Method `json:"mappingMethod"`
	Source         Source `json:"mappingSource"`
	AlreadyMapped  bool   `json:"alreadyMapped"`
}

// ManualOverride is a human-confirmed mapping imported from the reviewed
// file. The manual table is replaced wholesale on every import.
type ManualOverride struct {
	HrSystem    string
	SystemEmail string
	EmployeeID  string
	LastUpdate  time.Time
}
