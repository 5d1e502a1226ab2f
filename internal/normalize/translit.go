package normalize

import (
	"strings"
	"unicode"
)

// translitPairs maps Latin letter groups to Cyrillic, longest group first so
// that digraphs win over their single-letter prefixes ("sh" before "s").
// Best-effort: transliteration is lossy in both directions, and this table
// only needs to reproduce the common corporate-directory spellings.
var translitPairs = []struct {
	latin    string
	cyrillic string
}{
	{"shch", "щ"},
	{"sch", "щ"},
	{"zh", "ж"},
	{"kh", "х"},
	{"ts", "ц"},
	{"ch", "ч"},
	{"sh", "ш"},
	{"yu", "ю"},
	{"ju", "ю"},
	{"ya", "я"},
	{"ja", "я"},
	{"yo", "ё"},
	{"jo", "ё"},
	{"a", "а"},
	{"b", "б"},
	{"c", "ц"},
	{"d", "д"},
	{"e", "е"},
	{"f", "ф"},
	{"g", "г"},
	{"h", "х"},
	{"i", "и"},
	{"j", "й"},
	{"k", "к"},
	{"l", "л"},
	{"m", "м"},
	{"n", "н"},
	{"o", "о"},
	{"p", "п"},
	{"q", "к"},
	{"r", "р"},
	{"s", "с"},
	{"t", "т"},
	{"u", "у"},
	{"v", "в"},
	{"w", "в"},
	{"x", "кс"},
	{"y", "й"},
	{"z", "з"},
	{"'", "ь"},
}

// IsASCII reports whether s consists entirely of ASCII characters. It is the
// cheap stand-in for "is this a Latin-script string": anything already in
// Cyrillic (or mixed) fails the check and is left alone.
func IsASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// TransliterateLatin converts a Latin-script string to its Cyrillic
// transliteration. Non-ASCII input is returned unchanged: some platforms
// store employee names in Latin script while the HR system keeps Cyrillic,
// and only the former needs converting.
func TransliterateLatin(s string) string {
	if !IsASCII(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) * 2)

	for i := 0; i < len(s); {
		matched := false
		for _, p := range translitPairs {
			if strings.HasPrefix(s[i:], p.latin) {
				b.WriteString(p.cyrillic)
				i += len(p.latin)
				matched = true
				break
			}
		}
		if !matched {
			// digits, spaces, punctuation pass through
			b.WriteByte(s[i])
			i++
		}
	}

	return b.String()
}
