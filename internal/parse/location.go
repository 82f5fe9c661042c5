package parse

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/freightdock/intake/internal/entity"
	"github.com/freightdock/intake/internal/textline"
)

// reDateToken matches day/month/year tokens anywhere in a line, with a
// 2- or 4-digit year.
var reDateToken = regexp.MustCompile(`\b(\d{2}/\d{2}/(?:\d{4}|\d{2}))\b`)

// reTimeToken matches both time-range encodings vendors use. The compact
// form requires valid clock digits on both sides so that numeric fragments
// such as phone numbers never latch the time slot.
var reTimeToken = regexp.MustCompile(`\d{1,2}h\d{2}\s*[–-]\s*\d{1,2}h\d{2}|\b(?:[01]\d|2[0-3])[0-5]\d-(?:[01]\d|2[0-3])[0-5]\d\b`)

// SectionRules parameterizes a bounded scan below a section anchor. Each
// vendor adapter supplies its own markers, terminators, and defaults; the
// scan algorithm itself is shared.
type SectionRules struct {
	Window         int      // lines inspected below the anchor
	DateLayouts    []string // vendor date orderings, most specific first
	RefLabel       string   // label line whose successor is a booking reference
	IntroMarker    string   // optional "introduced-by" line preceding the company name
	CompanyRe      *regexp.Regexp // when set, a company candidate must match
	CompanyExclude []string // substrings disqualifying a company candidate
	SkipRe         *regexp.Regexp // lines ignored entirely (e.g. inline cargo counts)
	Terminators    []string // exact-match lines ending the section
	StopPrefixes   []string // prefix-match lines ending the section
	BoilerplateRe  *regexp.Regexp // lines never accumulated as address
	JoinSep        string    // separator for accumulated address fragments
	Defaults       AddressDefaults
}

// LocationExtractor assembles a Location from the bounded window below a
// section anchor, delegating address splitting and time parsing to the
// shared sub-parsers.
type LocationExtractor struct {
	addresses *AddressParser
	logger    *slog.Logger
}

func NewLocationExtractor(addresses *AddressParser, logger *slog.Logger) *LocationExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocationExtractor{addresses: addresses, logger: logger}
}

// ExtractSection scans forward from anchor under the given rules. A
// negative anchor means the section is absent from the document; the
// result then carries empty company and street with the rule defaults and
// a start-of-today window. Extraction never fails.
func (e *LocationExtractor) ExtractSection(doc textline.Document, anchor int, rules SectionRules) entity.Location {
	if anchor < 0 || anchor >= len(doc) {
		return entity.Location{
			CompanyAddress: entity.PartyDetails{
				City:    "Unknown",
				Country: rules.Defaults.Country,
			},
			Time: entity.TimeWindow{DatetimeFrom: StartOfToday()},
		}
	}

	window := rules.Window
	if window <= 0 {
		window = 15
	}
	end := doc.WindowEnd(anchor+1, window)

	var dateToken, timeToken, reference string

	// Company selection happens first so address accumulation can start
	// strictly below the company line.
	companyIdx := e.findCompany(doc, anchor, end, rules)

	for i := anchor + 1; i < end; i++ {
		line := doc[i]
		if isTerminator(line, rules) {
			end = i
			break
		}
		if rules.SkipRe != nil && rules.SkipRe.MatchString(line) {
			continue
		}
		if rules.RefLabel != "" && line == rules.RefLabel {
			if next := doc.At(i + 1); next != "" && next != rules.RefLabel {
				reference = next
				i++
			}
			continue
		}
		if m := reDateToken.FindString(line); m != "" && dateToken == "" {
			dateToken = m
		}
		if m := reTimeToken.FindString(line); m != "" && timeToken == "" {
			timeToken = m
		}
	}

	company := ""
	if companyIdx >= 0 {
		company = doc[companyIdx]
	}

	// The intro marker can place the company past the section window; the
	// address scan then continues in a short window of its own below it.
	addrEnd := end
	if companyIdx >= 0 && companyIdx+1 >= end {
		addrEnd = doc.WindowEnd(companyIdx+1, 5)
	}
	addressLines := e.collectAddressLines(doc, companyIdx, anchor, addrEnd, rules)

	sep := rules.JoinSep
	if sep == "" {
		sep = ", "
	}
	fragment := strings.Join(addressLines, sep)
	addr := e.addresses.Parse(fragment, rules.Defaults)

	loc := entity.Location{
		CompanyAddress: entity.PartyDetails{
			Company:       company,
			StreetAddress: addr.StreetAddress,
			City:          addr.City,
			PostalCode:    addr.PostalCode,
			Country:       addr.Country,
		},
		Time:    ParseWindow(dateToken, timeToken, rules.DateLayouts...),
		Comment: reference,
	}
	e.logger.Debug("location.extract",
		"anchor", anchor, "company", company,
		"address_lines", len(addressLines), "date", dateToken, "time", timeToken,
	)
	return loc
}

// findCompany picks the company-name line: the first eligible line after
// the intro marker when one is present, otherwise the first eligible line
// below the anchor.
func (e *LocationExtractor) findCompany(doc textline.Document, anchor, end int, rules SectionRules) int {
	start := anchor + 1
	if rules.IntroMarker != "" {
		if markerIdx := doc.FindFrom(anchor+1, func(l string) bool { return l == rules.IntroMarker }); markerIdx >= 0 {
			// The marker may sit past the scan window; look just below it.
			if idx := e.companyFrom(doc, markerIdx+1, doc.WindowEnd(markerIdx+1, 5), rules); idx >= 0 {
				return idx
			}
		}
	}
	return e.companyFrom(doc, start, end, rules)
}

func (e *LocationExtractor) companyFrom(doc textline.Document, start, end int, rules SectionRules) int {
	for i := start; i < end; i++ {
		line := doc[i]
		if isTerminator(line, rules) {
			return -1
		}
		if line == rules.IntroMarker {
			continue
		}
		if rules.RefLabel != "" && line == rules.RefLabel {
			i++ // the following line is the reference value, not a company
			continue
		}
		if reDateToken.MatchString(line) || reTimeToken.MatchString(line) {
			continue
		}
		if rules.SkipRe != nil && rules.SkipRe.MatchString(line) {
			continue
		}
		if rules.CompanyRe != nil && !rules.CompanyRe.MatchString(line) {
			continue
		}
		if containsAny(line, rules.CompanyExclude) {
			continue
		}
		return i
	}
	return -1
}

// collectAddressLines accumulates address fragments below the company line
// (or below the anchor when no company was found) up to the terminator.
func (e *LocationExtractor) collectAddressLines(doc textline.Document, companyIdx, anchor, end int, rules SectionRules) []string {
	start := anchor + 1
	if companyIdx >= 0 {
		start = companyIdx + 1
	}
	var lines []string
	for i := start; i < end; i++ {
		line := doc[i]
		if isTerminator(line, rules) {
			break
		}
		if rules.RefLabel != "" && line == rules.RefLabel {
			i++ // the reference value is not address content
			continue
		}
		if reDateToken.MatchString(line) || reTimeToken.MatchString(line) {
			continue
		}
		if rules.SkipRe != nil && rules.SkipRe.MatchString(line) {
			continue
		}
		if rules.BoilerplateRe != nil && rules.BoilerplateRe.MatchString(line) {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func isTerminator(line string, rules SectionRules) bool {
	for _, t := range rules.Terminators {
		if line == t {
			return true
		}
	}
	for _, p := range rules.StopPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
