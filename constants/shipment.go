package constants

// ShipmentType classifies cargo volume against the full-truck thresholds.
type ShipmentType string

// Stable values (these exact strings appear in serialized orders).
const (
	ShipmentFTL ShipmentType = "FTL" // full truck load
	ShipmentLTL ShipmentType = "LTL" // less than truck load
)

// CustomerSide records which party of the order the paying customer is.
type CustomerSide string

const (
	SideSender    CustomerSide = "sender"
	SideRecipient CustomerSide = "recipient"
	SideNone      CustomerSide = "none"
)

// Full-truck classification boundaries. Both are exclusive: a shipment at
// exactly the boundary stays LTL.
const (
	FTLWeightThresholdKg = 10000.0
	FTLPackageThreshold  = 10
)

// DefaultCurrency is assumed whenever a document carries no currency token.
const DefaultCurrency = "EUR"

// ClassifyByWeight returns FTL when weight exceeds the kilogram threshold.
func ClassifyByWeight(weightKg float64) ShipmentType {
	if weightKg > FTLWeightThresholdKg {
		return ShipmentFTL
	}
	return ShipmentLTL
}

// ClassifyByCount returns FTL when the package count exceeds the unit threshold.
func ClassifyByCount(packageCount int) ShipmentType {
	if packageCount > FTLPackageThreshold {
		return ShipmentFTL
	}
	return ShipmentLTL
}
