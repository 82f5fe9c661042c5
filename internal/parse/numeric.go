package parse

import (
	"strconv"
	"strings"
)

// Locale selects how a numeric token uses comma and period. Vendors are
// inconsistent about this, so every call site names its convention
// explicitly instead of guessing from the token.
type Locale int

const (
	// LocaleCommaDecimal reads "1.234,50" and "1234,50" as 1234.50.
	LocaleCommaDecimal Locale = iota
	// LocaleCommaThousands reads "1,234.50" as 1234.50.
	LocaleCommaThousands
)

// ParseDecimal parses a numeric token under the given locale. Malformed
// tokens degrade to zero; they never abort extraction.
func ParseDecimal(s string, loc Locale) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	switch loc {
	case LocaleCommaDecimal:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case LocaleCommaThousands:
		s = strings.ReplaceAll(s, ",", "")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

// ParseCount parses a package-count token. Anything malformed or below
// one degrades to one, keeping the package_count >= 1 invariant.
func ParseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
