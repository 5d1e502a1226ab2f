package normalize_test

import (
	"testing"

	"github.com/ramis-khasianov/uchr-scetl/internal/model"
	"github.com/ramis-khasianov/uchr-scetl/internal/normalize"
)

// ── Clean ──────────────────────────────────────────────────────────────────

func TestClean(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Иванов   Иван ", "иванов иван"},
		{"IVAN.SMIRNOV@CO.COM", "ivan.smirnov@co.com"},
		{"a  b\tc", "a b c"},
		{"", ""},
	}
	for _, c := range cases {
		if got := normalize.Clean(c.in); got != c.want {
			t.Errorf("Clean(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestClean_UnicodeComposition(t *testing.T) {
	// decomposed e + combining acute vs precomposed é must produce equal keys
	decomposed := "Jose\u0301"
	composed := "Jos\u00e9"
	if normalize.Clean(decomposed) != normalize.Clean(composed) {
		t.Errorf("Clean should unify NFC/NFD forms: %q vs %q",
			normalize.Clean(decomposed), normalize.Clean(composed))
	}
}

func TestCleanHr_DropsParentheticalSuffix(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Иванов Иван (совместитель)", "иванов иван"},
		{"IVANOV@CO.COM (ext)", "ivanov@co.com"},
		{"Петров Пётр", "петров пётр"},
	}
	for _, c := range cases {
		if got := normalize.CleanHr(c.in); got != c.want {
			t.Errorf("CleanHr(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

// ── SplitName ──────────────────────────────────────────────────────────────

func TestSplitName(t *testing.T) {
	cases := []struct {
		in                  string
		last, first, middle string
	}{
		{"смирнов иван петрович", "смирнов", "иван", "петрович"},
		{"смирнов иван", "смирнов", "иван", ""},
		{"смирнов", "смирнов", "", ""},
		{"", "", "", ""},
	}
	for _, c := range cases {
		last, first, middle := normalize.SplitName(c.in)
		if last != c.last || first != c.first || middle != c.middle {
			t.Errorf("SplitName(%q) = (%q, %q, %q), want (%q, %q, %q)",
				c.in, last, first, middle, c.last, c.first, c.middle)
		}
	}
}

// ── HrRecord ───────────────────────────────────────────────────────────────

func TestHrRecord(t *testing.T) {
	raw := model.RawHrRecord{
		EmployeeUID:   "42",
		EmployeeName:  "Смирнов  Иван Петрович (совместитель)",
		Email:         "Ivan.Smirnov@Co.com",
		ExitDate:      model.SentinelExitDate,
		MainWorkplace: true,
	}

	rec := normalize.HrRecord(raw)

	if rec.Email != "ivan.smirnov@co.com" {
		t.Errorf("Email = %q", rec.Email)
	}
	if rec.Login != "ivan.smirnov" {
		t.Errorf("Login = %q", rec.Login)
	}
	if rec.EmployeeName != "смирнов иван петрович" {
		t.Errorf("EmployeeName = %q", rec.EmployeeName)
	}
	if rec.LastFirstName != "смирнов иван" {
		t.Errorf("LastFirstName = %q", rec.LastFirstName)
	}
	if rec.LastName != "смирнов" || rec.FirstName != "иван" || rec.MiddleName != "петрович" {
		t.Errorf("name parts = (%q, %q, %q)", rec.LastName, rec.FirstName, rec.MiddleName)
	}
}

func TestHrRecord_MissingMiddleName(t *testing.T) {
	rec := normalize.HrRecord(model.RawHrRecord{
		EmployeeUID:  "7",
		EmployeeName: "Смирнов Иван",
		Email:        "i.smirnov@co.com",
	})

	if rec.MiddleName != "" {
		t.Errorf("MiddleName = %q, want empty", rec.MiddleName)
	}
	if rec.EmployeeName != "смирнов иван" {
		t.Errorf("EmployeeName = %q, want no trailing space", rec.EmployeeName)
	}
}

// ── CloudAccount ───────────────────────────────────────────────────────────

func TestCloudAccount(t *testing.T) {
	acct := normalize.CloudAccount(model.CloudAccount{
		HrSystem:   "lms",
		Email:      "Ivan.Smirnov@Co.com",
		LastName:   "Смирнов",
		FirstName:  "Иван",
		MiddleName: "Петрович",
	})

	if acct.Email != "Ivan.Smirnov@Co.com" {
		t.Errorf("raw Email must be preserved, got %q", acct.Email)
	}
	if acct.EmailClean != "ivan.smirnov@co.com" {
		t.Errorf("EmailClean = %q", acct.EmailClean)
	}
	if acct.Login != "ivan.smirnov" {
		t.Errorf("Login = %q", acct.Login)
	}
	if acct.LastFirstName != "смирнов иван" {
		t.Errorf("LastFirstName = %q", acct.LastFirstName)
	}
	if acct.FullName != "смирнов иван петрович" {
		t.Errorf("FullName = %q", acct.FullName)
	}
}

func TestCloudAccount_PartialNames(t *testing.T) {
	// full_name requires all three parts, last_first_name requires two
	acct := normalize.CloudAccount(model.CloudAccount{
		HrSystem:  "lms",
		Email:     "x@co.com",
		LastName:  "Смирнов",
		FirstName: "Иван",
	})
	if acct.FullName != "" {
		t.Errorf("FullName = %q, want empty without middle name", acct.FullName)
	}
	if acct.LastFirstName != "смирнов иван" {
		t.Errorf("LastFirstName = %q", acct.LastFirstName)
	}

	acct = normalize.CloudAccount(model.CloudAccount{Email: "x@co.com", LastName: "Смирнов"})
	if acct.LastFirstName != "" {
		t.Errorf("LastFirstName = %q, want empty without first name", acct.LastFirstName)
	}
}

func TestCloudAccount_NoneLiteralAndExtraTokens(t *testing.T) {
	acct := normalize.CloudAccount(model.CloudAccount{
		Email:      "y@co.com",
		LastName:   "Smirnov Ivan", // whole name stuffed into one field
		FirstName:  "None",
		MiddleName: "none",
	})
	if acct.LastName != "smirnov" {
		t.Errorf("LastName = %q, want first token only", acct.LastName)
	}
	if acct.FirstName != "" || acct.MiddleName != "" {
		t.Errorf("'none' must normalize to empty, got (%q, %q)", acct.FirstName, acct.MiddleName)
	}
}
