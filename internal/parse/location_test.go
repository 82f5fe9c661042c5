package parse

import (
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightdock/intake/internal/textline"
)

func newTestLocationExtractor() *LocationExtractor {
	return NewLocationExtractor(newTestAddressParser(), slog.Default())
}

// Rules close to the booking-confirmation layout: section headers repeat,
// REF labels precede their value, boilerplate trails every section.
func bookingRules() SectionRules {
	return SectionRules{
		Window:        15,
		DateLayouts:   []string{DateLayoutDMYLong},
		RefLabel:      "REF",
		CompanyRe:     regexp.MustCompile(`^[^0-9]`),
		SkipRe:        regexp.MustCompile(`(?i)^\d+\s+(PALLETS?|CARTONS?|BOXES)`),
		Terminators:   []string{"Collection", "Delivery", "Clearance"},
		StopPrefixes:  []string{"- ", "Please find below"},
		BoilerplateRe: regexp.MustCompile(`(?i)^(delivery slot|please|payment|all business|this booking)`),
		Defaults:      AddressDefaults{Country: "GB"},
	}
}

func TestExtractSection(t *testing.T) {
	doc := textline.Normalize([]string{
		"Collection",
		"ACME WAREHOUSING",
		"UNIT 9 CHARTMOOR RD, LEIGHTON BUZZARD, LU7 4UH",
		"REF",
		"BK-4471",
		"15/10/2025",
		"0800-1600",
		"12 PALLETS",
		"Delivery",
	})

	loc := newTestLocationExtractor().ExtractSection(doc, 0, bookingRules())

	assert.Equal(t, "ACME WAREHOUSING", loc.CompanyAddress.Company)
	assert.Equal(t, "UNIT 9 CHARTMOOR RD", loc.CompanyAddress.StreetAddress)
	assert.Equal(t, "LEIGHTON BUZZARD", loc.CompanyAddress.City)
	assert.Equal(t, "LU74UH", loc.CompanyAddress.PostalCode)
	assert.Equal(t, "GB", loc.CompanyAddress.Country)
	assert.Equal(t, "BK-4471", loc.Comment)

	assert.Equal(t, time.Date(2025, 10, 15, 8, 0, 0, 0, time.UTC), loc.Time.DatetimeFrom)
	require.NotNil(t, loc.Time.DatetimeTo)
	assert.Equal(t, time.Date(2025, 10, 15, 16, 0, 0, 0, time.UTC), *loc.Time.DatetimeTo)
}

func TestExtractSectionIgnoresPhoneLikeFragments(t *testing.T) {
	doc := textline.Normalize([]string{
		"Collection",
		"ACME WAREHOUSING",
		"CALL 1283-5530 ON ARRIVAL",
		"15/10/2025",
		"0800-1600",
		"Delivery",
	})

	loc := newTestLocationExtractor().ExtractSection(doc, 0, bookingRules())

	assert.Equal(t, time.Date(2025, 10, 15, 8, 0, 0, 0, time.UTC), loc.Time.DatetimeFrom)
	require.NotNil(t, loc.Time.DatetimeTo)
	assert.Equal(t, time.Date(2025, 10, 15, 16, 0, 0, 0, time.UTC), *loc.Time.DatetimeTo)
}

func TestExtractSectionMissingAnchor(t *testing.T) {
	doc := textline.Normalize([]string{"nothing", "relevant"})
	rules := bookingRules()
	rules.Defaults = AddressDefaults{Country: "FR"}

	loc := newTestLocationExtractor().ExtractSection(doc, -1, rules)

	assert.Empty(t, loc.CompanyAddress.Company)
	assert.Empty(t, loc.CompanyAddress.StreetAddress)
	assert.Equal(t, "Unknown", loc.CompanyAddress.City)
	assert.Equal(t, "FR", loc.CompanyAddress.Country)
	assert.Equal(t, StartOfToday(), loc.Time.DatetimeFrom)
	assert.Nil(t, loc.Time.DatetimeTo)
}

func TestExtractSectionIntroMarker(t *testing.T) {
	doc := textline.Normalize([]string{
		"Loading",
		"ONE: 17/09/25 8h00 – 15h00",
		"ON:",
		"REFERENCE FOO",
		"SHARP CLOTHING",
		"BAKEWELL RD GB-PE2 6DP PETERBOROUGH",
		"Contact: planning dept",
	})

	rules := SectionRules{
		Window:         12,
		DateLayouts:    []string{DateLayoutDMYShort},
		IntroMarker:    "ON:",
		CompanyRe:      regexp.MustCompile(`^[A-Z][A-Za-z\s]+$`),
		CompanyExclude: []string{"REFERENCE"},
		StopPrefixes:   []string{"Contact:", "Instructions", "LM . . . :", "Weight . :"},
		Defaults:       AddressDefaults{Country: "GB", City: "Peterborough", PostalCode: "PE2 6DP"},
	}

	loc := newTestLocationExtractor().ExtractSection(doc, 0, rules)

	assert.Equal(t, "SHARP CLOTHING", loc.CompanyAddress.Company)
	assert.Equal(t, "BAKEWELL RD", loc.CompanyAddress.StreetAddress)
	assert.Equal(t, "PETERBOROUGH", loc.CompanyAddress.City)
	assert.Equal(t, "PE2 6DP", loc.CompanyAddress.PostalCode)

	assert.Equal(t, time.Date(2025, 9, 17, 8, 0, 0, 0, time.UTC), loc.Time.DatetimeFrom)
	require.NotNil(t, loc.Time.DatetimeTo)
	assert.Equal(t, time.Date(2025, 9, 17, 15, 0, 0, 0, time.UTC), *loc.Time.DatetimeTo)
}

func TestExtractSectionCompanyOnly(t *testing.T) {
	doc := textline.Normalize([]string{
		"Collection",
		"ACME WAREHOUSING",
		"Delivery",
	})

	rules := bookingRules()
	rules.Defaults = AddressDefaults{Country: "GB"}
	loc := newTestLocationExtractor().ExtractSection(doc, 0, rules)

	assert.Equal(t, "ACME WAREHOUSING", loc.CompanyAddress.Company)
	assert.Empty(t, loc.CompanyAddress.StreetAddress)
	assert.Equal(t, "Unknown", loc.CompanyAddress.City)
	assert.Equal(t, "GB", loc.CompanyAddress.Country)
}

func TestExtractSectionWindowNeverOverruns(t *testing.T) {
	doc := textline.Normalize([]string{"Collection", "ACME"})
	rules := bookingRules()
	rules.Window = 50

	loc := newTestLocationExtractor().ExtractSection(doc, 0, rules)
	assert.Equal(t, "ACME", loc.CompanyAddress.Company)
}
