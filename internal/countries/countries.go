// Package countries resolves spelled-out or abbreviated country tokens to
// ISO 3166-1 alpha-2 codes. The address parser only ever consumes the
// Resolver interface, so a networked lookup can replace the built-in table
// without touching extraction code.
package countries

import "strings"

// Resolver maps a free-text country token to an ISO alpha-2 code.
type Resolver interface {
	Alpha2(token string) (string, bool)
}

// TableResolver is the default in-process Resolver backed by a static
// lookup table of names, legacy abbreviations, and prefix tokens.
type TableResolver struct{}

// alpha2 holds every code the extraction rules can emit. Kept small on
// purpose: intake documents come from European road freight.
var alpha2 = map[string]struct{}{
	"AT": {}, "BE": {}, "CH": {}, "CZ": {}, "DE": {}, "DK": {}, "ES": {},
	"FR": {}, "GB": {}, "IE": {}, "IT": {}, "LU": {}, "NL": {}, "PL": {},
	"PT": {}, "SE": {},
}

var nameToAlpha2 = map[string]string{
	"AUSTRIA":        "AT",
	"BELGIUM":        "BE",
	"CZECH REPUBLIC": "CZ",
	"CZECHIA":        "CZ",
	"DENMARK":        "DK",
	"ENGLAND":        "GB",
	"FRANCE":         "FR",
	"GERMANY":        "DE",
	"GREAT BRITAIN":  "GB",
	"IRELAND":        "IE",
	"ITALY":          "IT",
	"LUXEMBOURG":     "LU",
	"NETHERLANDS":    "NL",
	"POLAND":         "PL",
	"PORTUGAL":       "PT",
	"SCOTLAND":       "GB",
	"SPAIN":          "ES",
	"SWEDEN":         "SE",
	"SWITZERLAND":    "CH",
	"UK":             "GB",
	"UNITED KINGDOM": "GB",
	"WALES":          "GB",
}

// cityAnchors are well-known city substrings used as a last-resort country
// hint when an address carries no explicit marker. Ordered so repeated
// calls on ambiguous text always resolve the same way.
var cityAnchors = []struct {
	city string
	code string
}{
	{"LONDON", "GB"},
	{"MANCHESTER", "GB"},
	{"BIRMINGHAM", "GB"},
	{"PETERBOROUGH", "GB"},
	{"ASHFORD", "GB"},
	{"PARIS", "FR"},
	{"LYON", "FR"},
	{"LILLE", "FR"},
	{"METZ", "FR"},
	{"CALAIS", "FR"},
	{"ROTTERDAM", "NL"},
	{"ANTWERPEN", "BE"},
	{"ANTWERP", "BE"},
	{"HAMBURG", "DE"},
	{"DUISBURG", "DE"},
}

// Alpha2 resolves a country token. Already-valid alpha-2 codes pass
// through; names and abbreviations go through the table.
func (TableResolver) Alpha2(token string) (string, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(token))
	normalized = strings.Trim(normalized, ".-")
	if normalized == "" {
		return "", false
	}
	if IsAlpha2(normalized) {
		return normalized, true
	}
	if code, ok := nameToAlpha2[normalized]; ok {
		return code, true
	}
	return "", false
}

// IsAlpha2 reports whether s is a known two-letter country code.
func IsAlpha2(s string) bool {
	if len(s) != 2 {
		return false
	}
	_, ok := alpha2[strings.ToUpper(s)]
	return ok
}

// FromCityAnchor infers a country from well-known city substrings in text.
func FromCityAnchor(text string) (string, bool) {
	upper := strings.ToUpper(text)
	for _, anchor := range cityAnchors {
		if strings.Contains(upper, anchor.city) {
			return anchor.code, true
		}
	}
	return "", false
}
