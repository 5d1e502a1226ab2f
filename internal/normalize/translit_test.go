package normalize_test

import (
	"testing"

	"github.com/ramis-khasianov/uchr-scetl/internal/normalize"
)

// ── IsASCII ────────────────────────────────────────────────────────────────

func TestIsASCII(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"smirnov ivan", true},
		{"", true},
		{"смирнов", false},
		{"smirnov иван", false},
		{"jose\u0301", false}, // combining acute mark is not ASCII
	}
	for _, c := range cases {
		if got := normalize.IsASCII(c.in); got != c.want {
			t.Errorf("IsASCII(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

// ── TransliterateLatin ─────────────────────────────────────────────────────

func TestTransliterateLatin(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"smirnov ivan", "смирнов иван"},
		{"zhukov", "жуков"},
		{"chekhov", "чехов"},
		{"shchukin", "щукин"},
		{"tsaryov", "царёв"},
	}
	for _, c := range cases {
		if got := normalize.TransliterateLatin(c.in); got != c.want {
			t.Errorf("TransliterateLatin(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTransliterateLatin_NonASCIIUnchanged(t *testing.T) {
	// Cyrillic and mixed-script input must pass through untouched
	for _, s := range []string{"смирнов иван", "smirnov иван", "пётр"} {
		if got := normalize.TransliterateLatin(s); got != s {
			t.Errorf("TransliterateLatin(%q) = %q, want unchanged", s, got)
		}
	}
}

func TestTransliterateLatin_PassThroughPunctuation(t *testing.T) {
	if got := normalize.TransliterateLatin("ivanov-petrov 2"); got != "иванов-петров 2" {
		t.Errorf("got %q", got)
	}
}
