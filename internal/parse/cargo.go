package parse

import (
	"regexp"
	"strings"

	"github.com/freightdock/intake/constants"
	"github.com/freightdock/intake/internal/entity"
	"github.com/freightdock/intake/internal/textline"
)

// CargoLabelRules drives the label-anchored strategy: fixed labels for
// weight, linear meters, packaging nature, and shipment number, each read
// from the remainder of its own line.
type CargoLabelRules struct {
	WeightLabel string
	WeightRe    *regexp.Regexp // capture group 1 is the numeric token
	LDMLabel    string
	LDMRe       *regexp.Regexp
	NatureLabel string
	NatureRe    *regexp.Regexp // capture group 1 is the free-text nature
	NumberLabel string         // value is the line remainder after the label
	Locale      Locale
	TypeMap     map[string]constants.PackageType
	DefaultTitle string
}

// CargoCountRules drives the pattern-anchored strategy: "<integer>
// <unit-word>" lines scanned across the whole document.
type CargoCountRules struct {
	Pattern      *regexp.Regexp // group 1 count, group 2 unit word
	TypeMap      map[string]constants.PackageType
	PreferLast   bool // occurrence policy when several blocks match
	DefaultTitle string
}

// ExtractCargoLabeled reads one cargo record from label-anchored numeric
// fields. Missing labels degrade field by field; the result is always a
// single, structurally complete cargo.
func ExtractCargoLabeled(doc textline.Document, rules CargoLabelRules) []entity.Cargo {
	weight := labeledDecimal(doc, rules.WeightLabel, rules.WeightRe, rules.Locale)
	ldm := labeledDecimal(doc, rules.LDMLabel, rules.LDMRe, rules.Locale)

	title := rules.DefaultTitle
	packageType := constants.PackageOther
	if rules.NatureLabel != "" {
		if idx := doc.FindContaining(rules.NatureLabel); idx >= 0 {
			if m := rules.NatureRe.FindStringSubmatch(doc[idx]); m != nil {
				nature := strings.TrimSpace(m[1])
				if nature != "" {
					title = nature
					packageType = constants.MapPackageType(rules.TypeMap, nature)
				}
			}
		}
	}

	number := ""
	if rules.NumberLabel != "" {
		if idx := doc.FindContaining(rules.NumberLabel); idx >= 0 {
			number = strings.TrimSpace(strings.Replace(doc[idx], rules.NumberLabel, "", 1))
		}
	}

	return []entity.Cargo{{
		Title:        title,
		PackageCount: 1,
		PackageType:  packageType,
		Weight:       weight,
		LDM:          ldm,
		Number:       number,
		Type:         constants.ClassifyByWeight(weight),
	}}
}

// ExtractCargoCounts scans every line for the count pattern. When several
// structurally identical blocks match, the occurrence policy of the rules
// decides which one is authoritative.
func ExtractCargoCounts(doc textline.Document, rules CargoCountRules) []entity.Cargo {
	matchIdx := -1
	for i, line := range doc {
		if rules.Pattern.MatchString(line) {
			matchIdx = i
			if !rules.PreferLast {
				break
			}
		}
	}
	if matchIdx < 0 {
		return []entity.Cargo{{
			Title:        rules.DefaultTitle,
			PackageCount: 1,
			PackageType:  constants.PackageOther,
			Weight:       0,
			LDM:          0,
			Type:         constants.ShipmentFTL,
		}}
	}

	m := rules.Pattern.FindStringSubmatch(doc[matchIdx])
	count := ParseCount(m[1])
	return []entity.Cargo{{
		Title:        rules.DefaultTitle,
		PackageCount: count,
		PackageType:  constants.MapPackageType(rules.TypeMap, m[2]),
		Weight:       0,
		LDM:          0,
		Type:         constants.ClassifyByCount(count),
	}}
}

func labeledDecimal(doc textline.Document, label string, re *regexp.Regexp, loc Locale) float64 {
	if label == "" || re == nil {
		return 0
	}
	idx := doc.FindContaining(label)
	if idx < 0 {
		return 0
	}
	m := re.FindStringSubmatch(doc[idx])
	if m == nil {
		return 0
	}
	return ParseDecimal(m[1], loc)
}
