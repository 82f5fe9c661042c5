package constants

import "strings"

// PackageType is the normalized cargo packaging classification.
type PackageType string

const (
	PackagePallet PackageType = "pallet"
	PackageCarton PackageType = "carton"
	PackageBox    PackageType = "box"
	PackageRoll   PackageType = "roll"
	PackageOther  PackageType = "other"
)

var allPackageTypes = []PackageType{
	PackagePallet,
	PackageCarton,
	PackageBox,
	PackageRoll,
	PackageOther,
}

func PackageTypeStrings() []string {
	result := make([]string, len(allPackageTypes))
	for i, pt := range allPackageTypes {
		result[i] = string(pt)
	}
	return result
}

// MapPackageType resolves a free-text packaging description through a
// vendor lookup table. Keys are matched case-insensitively; anything not
// in the table classifies as PackageOther.
func MapPackageType(table map[string]PackageType, value string) PackageType {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	if pt, ok := table[normalized]; ok {
		return pt
	}
	return PackageOther
}
