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
	transallianceName    = "transalliance"
	transallianceCompany = "TRANSALLIANCE TS LTD"
	transallianceEmail   = "invoice.ts@transalliance.eu"
)

var (
	reTransRef     = regexp.MustCompile(`^REF\.:?\s*(\S+)`)
	reTransCompany = regexp.MustCompile(`^[A-Z][A-Za-z\s]+$`)

	reTransPriceInline = regexp.MustCompile(`([0-9,\.]+)\s+EUR`)
	reTransPriceValue  = regexp.MustCompile(`([0-9,\.]+)\s*([A-Z]{3})?`)
)

var transalliancePackageTypes = map[string]constants.PackageType{
	"PACKAGING":   constants.PackageOther,
	"PAPER ROLLS": constants.PackageOther,
}

// Transalliance handles chartering confirmations. The layout carries a
// fixed header block for the vendor itself, Loading and Delivery sections
// introduced by an "ON:" marker, dotted field labels for cargo numerics,
// and a shipping-price footer.
type Transalliance struct {
	locations *parse.LocationExtractor
}

func NewTransalliance(locations *parse.LocationExtractor) *Transalliance {
	return &Transalliance{locations: locations}
}

func (a *Transalliance) Name() string { return transallianceName }

func (a *Transalliance) Detect(doc textline.Document) bool {
	return len(doc) > 5 &&
		strings.Contains(doc.At(0), "Date/Time :") &&
		doc.FindContaining(transallianceCompany) >= 0 &&
		doc.FindExact("CHARTERING CONFIRMATION") >= 0
}

func (a *Transalliance) Extract(doc textline.Document, attachmentFilename string) entity.ShipmentOrder {
	price, currency := a.extractPrice(doc)

	return entity.ShipmentOrder{
		OrderReference: a.extractReference(doc),
		Customer: entity.Customer{
			Side:    constants.SideNone,
			Details: a.extractParty(doc),
		},
		LoadingLocations: []entity.Location{
			a.locations.ExtractSection(doc, doc.FindExact("Loading"), a.loadingRules()),
		},
		DestinationLocations: []entity.Location{
			a.locations.ExtractSection(doc, doc.FindExact("Delivery"), a.deliveryRules()),
		},
		Cargos:              parse.ExtractCargoLabeled(doc, a.cargoRules()),
		FreightPrice:        price,
		FreightCurrency:     currency,
		AttachmentFilenames: []string{strings.ToLower(attachmentFilename)},
	}
}

func (a *Transalliance) extractReference(doc textline.Document) string {
	idx := doc.Find(func(l string) bool { return reTransRef.MatchString(l) })
	if idx < 0 {
		return ""
	}
	m := reTransRef.FindStringSubmatch(doc[idx])
	return strings.TrimSpace(m[1])
}

// extractParty builds the vendor's own party block: the company header is
// static, the street lines sit directly below it, and VAT and contact
// lines are scraped by label anywhere in the document.
func (a *Transalliance) extractParty(doc textline.Document) entity.PartyDetails {
	var street []string
	if idx := doc.FindContaining(transallianceCompany); idx >= 0 {
		for i := idx + 1; i < doc.WindowEnd(idx+1, 3); i++ {
			if strings.Contains(doc[i], "Tel :") || strings.Contains(doc[i], "VAT NUM:") {
				break
			}
			street = append(street, doc[i])
		}
	}

	vat := ""
	if idx := doc.FindContaining("VAT NUM:"); idx >= 0 {
		vat = strings.TrimSpace(strings.Replace(doc[idx], "VAT NUM:", "", 1))
	}
	contact := ""
	if idx := doc.Find(func(l string) bool {
		return strings.Contains(l, "Contact:") && !strings.Contains(l, "Tel :")
	}); idx >= 0 {
		contact = strings.TrimSpace(strings.Replace(doc[idx], "Contact:", "", 1))
	}

	return entity.PartyDetails{
		Company:       transallianceCompany,
		StreetAddress: strings.Join(street, ", "),
		City:          "BURTON UPON TRENT",
		PostalCode:    "DE14 2WX",
		Country:       "GB",
		VATCode:       vat,
		ContactPerson: contact,
		Email:         transallianceEmail,
	}
}

func (a *Transalliance) loadingRules() parse.SectionRules {
	r := a.sectionRules()
	r.Defaults = parse.AddressDefaults{Country: "GB", City: "Peterborough", PostalCode: "PE2 6DP"}
	return r
}

func (a *Transalliance) deliveryRules() parse.SectionRules {
	r := a.sectionRules()
	r.Defaults = parse.AddressDefaults{Country: "FR", City: "Poce-sur-Cisse", PostalCode: "37530"}
	return r
}

func (a *Transalliance) sectionRules() parse.SectionRules {
	return parse.SectionRules{
		Window:         10,
		DateLayouts:    []string{parse.DateLayoutDMYShort},
		IntroMarker:    "ON:",
		CompanyRe:      reTransCompany,
		CompanyExclude: []string{"REFERENCE", "ON:"},
		StopPrefixes:   []string{"Contact:", "Instructions", "LM . . . :", "Weight . :"},
		JoinSep:        ", ",
	}
}

func (a *Transalliance) cargoRules() parse.CargoLabelRules {
	return parse.CargoLabelRules{
		WeightLabel:  "Weight . :",
		WeightRe:     regexp.MustCompile(`Weight \. :\s*([0-9,\.]+)`),
		LDMLabel:     "LM . . . :",
		LDMRe:        regexp.MustCompile(`LM \. \. \. :\s*([0-9,\.]+)`),
		NatureLabel:  "M. nature:",
		NatureRe:     regexp.MustCompile(`M\. nature:\s*([A-Za-z\s]+)`),
		NumberLabel:  "OT :",
		Locale:       parse.LocaleCommaDecimal,
		TypeMap:      transalliancePackageTypes,
		DefaultTitle: "General cargo",
	}
}

// extractPrice anchors on the SHIPPING PRICE label. The amount sits either
// inline next to an EUR token or on the following line, where a trailing
// currency code may override the default.
func (a *Transalliance) extractPrice(doc textline.Document) (float64, string) {
	currency := constants.DefaultCurrency
	idx := doc.FindContaining("SHIPPING PRICE")
	if idx < 0 {
		return 0, currency
	}
	if m := reTransPriceInline.FindStringSubmatch(doc[idx]); m != nil {
		return parse.ParseDecimal(m[1], parse.LocaleCommaDecimal), currency
	}
	next := doc.At(idx + 1)
	if m := reTransPriceValue.FindStringSubmatch(next); m != nil && m[1] != "" {
		if m[2] != "" {
			currency = m[2]
		}
		return parse.ParseDecimal(m[1], parse.LocaleCommaDecimal), currency
	}
	return 0, currency
}
