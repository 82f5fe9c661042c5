// Package schema holds the JSON-Schema contract for extracted orders and
// validates records against it before they cross the persistence boundary.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/freightdock/intake/constants"
	"github.com/freightdock/intake/internal/entity"
)

// BuildShipmentOrderJSONSchema returns a JSON-Schema (draft 2020-12
// subset) as a generic map, mirroring the canonical field names consumed
// by the order-persistence collaborator.
func BuildShipmentOrderJSONSchema() map[string]any {
	partyProps := map[string]any{
		"company":        map[string]any{"type": "string"},
		"street_address": map[string]any{"type": "string"},
		"city":           map[string]any{"type": "string", "minLength": 1},
		"postal_code":    map[string]any{"type": "string"},
		"country":        map[string]any{"type": "string", "pattern": `^[A-Z]{2}$`},
		"vat_code":       map[string]any{"type": "string"},
		"contact_person": map[string]any{"type": "string"},
		"email":          map[string]any{"type": "string"},
	}
	party := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           partyProps,
		"required":             []string{"city", "country"},
	}
	timeWindow := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"datetime_from": map[string]any{"type": "string", "format": "date-time"},
			"datetime_to":   map[string]any{"type": "string", "format": "date-time"},
		},
		"required": []string{"datetime_from"},
	}
	location := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"company_address": party,
			"time":            timeWindow,
			"comment":         map[string]any{"type": "string"},
		},
		"required": []string{"company_address", "time"},
	}
	cargo := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"title":         map[string]any{"type": "string"},
			"package_count": map[string]any{"type": "integer", "minimum": 1},
			"package_type":  map[string]any{"type": "string", "enum": constants.PackageTypeStrings()},
			"weight":        map[string]any{"type": "number", "minimum": 0},
			"ldm":           map[string]any{"type": "number", "minimum": 0},
			"number":        map[string]any{"type": "string"},
			"type":          map[string]any{"type": "string", "enum": []string{"FTL", "LTL"}},
		},
		"required": []string{"package_count", "package_type", "type"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"order_reference": map[string]any{"type": "string"},
			"customer": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"side":    map[string]any{"type": "string", "enum": []string{"sender", "recipient", "none"}},
					"details": party,
				},
				"required": []string{"side", "details"},
			},
			"loading_locations":     map[string]any{"type": "array", "minItems": 1, "items": location},
			"destination_locations": map[string]any{"type": "array", "minItems": 1, "items": location},
			"cargos":                map[string]any{"type": "array", "minItems": 1, "items": cargo},
			"freight_price":         map[string]any{"type": "number", "minimum": 0},
			"freight_currency":      map[string]any{"type": "string", "minLength": 3, "maxLength": 3},
			"attachment_filenames":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []string{
			"customer", "loading_locations", "destination_locations",
			"cargos", "freight_price", "freight_currency",
		},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// ValidateOrder serializes the order and checks it against the canonical
// contract. Adapters should make this unreachable; it guards the boundary
// against rule regressions.
func ValidateOrder(order entity.ShipmentOrder) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}
	return ValidateJSONAgainstSchema(BuildShipmentOrderJSONSchema(), data)
}
