package parse

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/freightdock/intake/internal/countries"
)

// Address is the postal part of a party, split out of a free-text fragment.
type Address struct {
	StreetAddress string
	City          string
	PostalCode    string
	Country       string
}

// AddressDefaults carries the vendor- and section-specific fallbacks used
// when a fragment does not yield a field on its own.
type AddressDefaults struct {
	Country    string
	City       string
	PostalCode string
}

// AddressParser splits unlabeled address fragments using an ordered list
// of country-specific grammars with a generic fallback. Grammar order is a
// deliberate specificity ranking; reordering changes which of two
// plausible matches wins on ambiguous input.
type AddressParser struct {
	resolver countries.Resolver
	logger   *slog.Logger
}

func NewAddressParser(resolver countries.Resolver, logger *slog.Logger) *AddressParser {
	if resolver == nil {
		resolver = countries.TableResolver{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AddressParser{resolver: resolver, logger: logger}
}

// grammar is one country-specific pattern over the trailing portion of a
// fragment. apply mutates addr and reports whether the match was accepted.
type grammar struct {
	name  string
	re    *regexp.Regexp
	apply func(p *AddressParser, text string, m []string, addr *Address) bool
}

var (
	// "BAKEWELL RD GB-PE2 6DP PETERBOROUGH"
	rePrefixedPostcodeCity = regexp.MustCompile(`\b([A-Z]{2})-([A-Z0-9]{2,4}(?:\s?\d[A-Z]{2})?)\s+([A-Za-z\s\-']+)$`)
	// "ZONE EST, ENNERY, FR-57365" / "STIRING WENDEL, FR57350"
	rePrefixedNumericPostal = regexp.MustCompile(`(.*),\s*([A-Z]{2})-?(\d{5})$`)
	// "UNIT 9, LEIGHTON BUZZARD, LU7 4UH"
	reUKPostcodeAtEnd = regexp.MustCompile(`(?i)(.*),\s*([A-Z]{1,2}\d{1,2}[A-Z]?\s*\d[A-Z]{2})$`)
	// "WAREHOUSE 3 TN25 6GE Ashford"
	reUKPostcodeMid = regexp.MustCompile(`(?i)(.*?)\s+([A-Z]{1,2}\d{1,2}[A-Z]?\s*\d[A-Z]{2})\s+([A-Za-z\s\-']+)$`)
	// "10 RTE DES INDUSTRIES -37530 POCE-SUR-CISSE"
	reDashNumericPostal = regexp.MustCompile(`-\s*(\d{5})\s+([A-Za-z\s\-']+)$`)
	// "10 RTE DES INDUSTRIES, 37530 POCE-SUR-CISSE"
	reCommaNumericPostalCity = regexp.MustCompile(`(.*),\s*(\d{5})\s+([A-Za-z\s\-']+)$`)
	// "STIRING WENDEL, 57350"
	reCommaNumericPostal = regexp.MustCompile(`(.*),\s*(\d{5})$`)

	// bare five-digit token, the national marker of a French postal code
	reBareFrenchPostal = regexp.MustCompile(`(?:^|[\s,-])(\d{5})(?:$|[\s,])`)
)

// grammars run in order; the first accepted match wins.
var grammars = []grammar{
	{
		name: "prefixed-postcode-city",
		re:   rePrefixedPostcodeCity,
		apply: func(p *AddressParser, text string, m []string, addr *Address) bool {
			code, ok := p.resolver.Alpha2(m[1])
			if !ok {
				return false
			}
			addr.Country = code
			addr.PostalCode = strings.TrimSpace(m[2])
			addr.City = m[3]
			addr.StreetAddress = strings.TrimSuffix(text, m[0])
			return true
		},
	},
	{
		name: "prefixed-numeric-postal",
		re:   rePrefixedNumericPostal,
		apply: func(p *AddressParser, text string, m []string, addr *Address) bool {
			code, ok := p.resolver.Alpha2(m[2])
			if !ok {
				return false
			}
			addr.Country = code
			addr.PostalCode = m[3]
			addr.StreetAddress, addr.City = splitTrailingCity(m[1])
			return true
		},
	},
	{
		name: "uk-postcode-at-end",
		re:   reUKPostcodeAtEnd,
		apply: func(p *AddressParser, text string, m []string, addr *Address) bool {
			addr.Country = "GB"
			addr.PostalCode = compactSpaces(m[2])
			addr.StreetAddress, addr.City = splitTrailingCity(m[1])
			return true
		},
	},
	{
		name: "uk-postcode-mid",
		re:   reUKPostcodeMid,
		apply: func(p *AddressParser, text string, m []string, addr *Address) bool {
			addr.Country = "GB"
			addr.PostalCode = compactSpaces(m[2])
			addr.StreetAddress = m[1]
			addr.City = m[3]
			return true
		},
	},
	{
		name: "dash-numeric-postal",
		re:   reDashNumericPostal,
		apply: func(p *AddressParser, text string, m []string, addr *Address) bool {
			addr.Country = "FR"
			addr.PostalCode = m[1]
			addr.City = m[2]
			addr.StreetAddress = strings.TrimSuffix(text, m[0])
			return true
		},
	},
	{
		name: "comma-numeric-postal-city",
		re:   reCommaNumericPostalCity,
		apply: func(p *AddressParser, text string, m []string, addr *Address) bool {
			addr.Country = "FR"
			addr.PostalCode = m[2]
			addr.StreetAddress = m[1]
			addr.City = m[3]
			return true
		},
	},
	{
		name: "comma-numeric-postal",
		re:   reCommaNumericPostal,
		apply: func(p *AddressParser, text string, m []string, addr *Address) bool {
			addr.Country = "FR"
			addr.PostalCode = m[2]
			addr.StreetAddress, addr.City = splitTrailingCity(m[1])
			return true
		},
	},
}

// Parse splits a free-text address fragment. It never fails: whatever no
// grammar could claim stays in StreetAddress and the defaults fill the rest.
func (p *AddressParser) Parse(text string, def AddressDefaults) Address {
	text = strings.TrimSpace(text)
	addr := Address{StreetAddress: text}

	matched := ""
	for _, g := range grammars {
		m := g.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if g.apply(p, text, m, &addr) {
			matched = g.name
			break
		}
	}

	if matched == "" {
		p.fallback(text, &addr)
	}

	addr.StreetAddress = strings.Trim(addr.StreetAddress, " ,-")
	addr.City = strings.Trim(addr.City, " ,-")

	if addr.Country == "" {
		addr.Country = def.Country
	}
	if len(addr.City) < 2 {
		if def.City != "" {
			addr.City = def.City
		} else {
			addr.City = "Unknown"
		}
	}
	if addr.PostalCode == "" {
		addr.PostalCode = def.PostalCode
	}

	p.logger.Debug("address.parse",
		"grammar", matched, "city", addr.City,
		"postal_code", addr.PostalCode, "country", addr.Country,
	)
	return addr
}

// fallback handles fragments no grammar matched: the final token becomes
// the city and national markers in the text decide the country.
func (p *AddressParser) fallback(text string, addr *Address) {
	fields := strings.Fields(text)
	if len(fields) > 1 {
		last := strings.Trim(fields[len(fields)-1], " ,-")
		if len(last) >= 2 && !startsWithDigit(last) {
			addr.City = last
			addr.StreetAddress = strings.TrimSuffix(text, fields[len(fields)-1])
		}
	}

	for _, token := range fields {
		token = strings.Trim(token, ",.")
		if code, ok := p.resolver.Alpha2(token); ok && len(token) == 2 {
			addr.Country = code
			return
		}
	}
	if reBareFrenchPostal.MatchString(text) {
		addr.Country = "FR"
		return
	}
	if code, ok := countries.FromCityAnchor(text); ok {
		addr.Country = code
	}
}

func splitTrailingCity(street string) (string, string) {
	idx := strings.LastIndex(street, ",")
	if idx < 0 {
		return street, ""
	}
	return street[:idx], strings.TrimSpace(street[idx+1:])
}

func compactSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
