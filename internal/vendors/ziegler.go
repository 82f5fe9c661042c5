package vendors

import (
	"regexp"
	"strings"

	"github.com/freightdock/intake/constants"
	"github.com/freightdock/intake/internal/entity"
	"github.com/freightdock/intake/internal/parse"
	"github.com/freightdock/intake/internal/textline"
)

const (
	zieglerName    = "ziegler"
	zieglerCompany = "ZIEGLER UK LTD"
)

var (
	reZieglerPriceEuro = regexp.MustCompile(`€\s*([0-9,.]+)`)
	reZieglerPriceBare = regexp.MustCompile(`([0-9,.]+)`)
	reZieglerCargo     = regexp.MustCompile(`(?i)^(\d+)\s+(PALLETS?|CARTONS?|BOXES)`)
	reZieglerCompany   = regexp.MustCompile(`^[^0-9]`)

	// Trailing boilerplate below booking sections: slot notices, payment
	// terms and similar free text that must never enter an address.
	reZieglerBoilerplate = regexp.MustCompile(`(?i)^(delivery slot|please|payment|all business|delivery to|this booking)`)
)

var zieglerPackageTypes = map[string]constants.PackageType{
	"PALLETS": constants.PackagePallet,
	"PALLET":  constants.PackagePallet,
	"CARTONS": constants.PackageCarton,
	"BOXES":   constants.PackageCarton,
}

// Ziegler handles booking confirmations. Documents carry repeated
// Collection, Delivery, and Clearance sections with REF label lines,
// 4-digit-year dates, compact time ranges, and inline package counts.
type Ziegler struct {
	locations *parse.LocationExtractor
}

func NewZiegler(locations *parse.LocationExtractor) *Ziegler {
	return &Ziegler{locations: locations}
}

func (a *Ziegler) Name() string { return zieglerName }

func (a *Ziegler) Detect(doc textline.Document) bool {
	return len(doc) > 5 &&
		strings.Contains(doc.At(0), zieglerCompany) &&
		strings.Contains(doc.At(1), "LONDON GATEWAY LOGISTICS PARK")
}

func (a *Ziegler) Extract(doc textline.Document, attachmentFilename string) entity.ShipmentOrder {
	return entity.ShipmentOrder{
		OrderReference: a.extractReference(doc),
		Customer: entity.Customer{
			Side:    constants.SideNone,
			Details: a.party(),
		},
		LoadingLocations:     a.extractSections(doc, []string{"Collection"}),
		DestinationLocations: a.extractSections(doc, []string{"Delivery", "Clearance"}),
		Cargos:               parse.ExtractCargoCounts(doc, a.cargoRules()),
		FreightPrice:         a.extractPrice(doc),
		FreightCurrency:      constants.DefaultCurrency,
		AttachmentFilenames:  []string{attachmentFilename},
	}
}

// extractReference reads the line following the "Ziegler Ref" label.
func (a *Ziegler) extractReference(doc textline.Document) string {
	idx := doc.FindContaining("Ziegler Ref")
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(doc.At(idx + 1))
}

// extractPrice reads the line following the "Rate" label. Amounts appear
// with a euro sign or bare, both with comma thousands separators.
func (a *Ziegler) extractPrice(doc textline.Document) float64 {
	idx := doc.FindContaining("Rate")
	if idx < 0 {
		return 0
	}
	text := doc.At(idx + 1)
	if m := reZieglerPriceEuro.FindStringSubmatch(text); m != nil {
		return parse.ParseDecimal(m[1], parse.LocaleCommaThousands)
	}
	if m := reZieglerPriceBare.FindStringSubmatch(text); m != nil {
		return parse.ParseDecimal(m[1], parse.LocaleCommaThousands)
	}
	return 0
}

func (a *Ziegler) party() entity.PartyDetails {
	return entity.PartyDetails{
		Company:       zieglerCompany,
		StreetAddress: "LONDON GATEWAY LOGISTICS PARK, NORTH 4, NORTH SEA CROSSING",
		City:          "STANFORD LE HOPE",
		PostalCode:    "SS17 9FJ",
		Country:       "GB",
	}
}

// extractSections collects one Location per anchor occurrence, in document
// order. A document with none of the anchors still yields a single default
// location so the sequence is never empty.
func (a *Ziegler) extractSections(doc textline.Document, anchors []string) []entity.Location {
	var locations []entity.Location
	for _, anchor := range anchors {
		for i, line := range doc {
			if line == anchor {
				locations = append(locations, a.locations.ExtractSection(doc, i, a.sectionRules()))
			}
		}
	}
	if len(locations) == 0 {
		locations = append(locations, a.locations.ExtractSection(doc, -1, a.sectionRules()))
	}
	return locations
}

func (a *Ziegler) sectionRules() parse.SectionRules {
	return parse.SectionRules{
		Window:        15,
		DateLayouts:   []string{parse.DateLayoutDMYLong},
		RefLabel:      "REF",
		CompanyRe:     reZieglerCompany,
		SkipRe:        reZieglerCargo,
		Terminators:   []string{"Collection", "Delivery", "Clearance"},
		StopPrefixes:  []string{"- ", "Please find below"},
		BoilerplateRe: reZieglerBoilerplate,
		JoinSep:       ", ",
		Defaults:      parse.AddressDefaults{Country: "GB"},
	}
}

func (a *Ziegler) cargoRules() parse.CargoCountRules {
	return parse.CargoCountRules{
		Pattern:      reZieglerCargo,
		TypeMap:      zieglerPackageTypes,
		PreferLast:   true,
		DefaultTitle: "General Cargo",
	}
}
