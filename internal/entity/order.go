package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/freightdock/intake/constants"
)

// PartyDetails identifies one party of a shipment and its postal address.
type PartyDetails struct {
	Company       string `json:"company"`
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country"` // ISO 3166-1 alpha-2
	VATCode       string `json:"vat_code,omitempty"`
	ContactPerson string `json:"contact_person,omitempty"`
	Email         string `json:"email,omitempty"`
}

// TimeWindow is a pickup or delivery slot. DatetimeTo is only present when
// an explicit end time was parsed from the document.
type TimeWindow struct {
	DatetimeFrom time.Time  `json:"datetime_from"`
	DatetimeTo   *time.Time `json:"datetime_to,omitempty"`
}

// Location is a loading or destination stop.
type Location struct {
	CompanyAddress PartyDetails `json:"company_address"`
	Time           TimeWindow   `json:"time"`
	Comment        string       `json:"comment,omitempty"`
}

// Cargo describes one freight item of the order.
type Cargo struct {
	Title        string                 `json:"title"`
	PackageCount int                    `json:"package_count"`
	PackageType  constants.PackageType  `json:"package_type"`
	Weight       float64                `json:"weight"` // kilograms
	LDM          float64                `json:"ldm"`    // linear meters
	Number       string                 `json:"number,omitempty"`
	Type         constants.ShipmentType `json:"type"`
}

// Customer is the paying party and its role within the order.
type Customer struct {
	Side    constants.CustomerSide `json:"side"`
	Details PartyDetails           `json:"details"`
}

// ShipmentOrder is the canonical, vendor-agnostic record every adapter
// produces. Instances are immutable after extraction.
type ShipmentOrder struct {
	OrderReference       string     `json:"order_reference"`
	Customer             Customer   `json:"customer"`
	LoadingLocations     []Location `json:"loading_locations"`
	DestinationLocations []Location `json:"destination_locations"`
	Cargos               []Cargo    `json:"cargos"`
	FreightPrice         float64    `json:"freight_price"`
	FreightCurrency      string     `json:"freight_currency"`
	AttachmentFilenames  []string   `json:"attachment_filenames"`
}

// StoredOrder wraps a ShipmentOrder with its persistence identity.
type StoredOrder struct {
	ID        uuid.UUID     `json:"id"`
	Vendor    string        `json:"vendor"`
	Order     ShipmentOrder `json:"order"`
	CreatedAt time.Time     `json:"created_at"`
}
