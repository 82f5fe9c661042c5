// Package pipeline ties the extraction engine to the persistence
// boundary: normalize, route, extract, validate, store.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/freightdock/intake/internal/common"
	"github.com/freightdock/intake/internal/entity"
	"github.com/freightdock/intake/internal/repository"
	"github.com/freightdock/intake/internal/schema"
	"github.com/freightdock/intake/internal/textline"
	"github.com/freightdock/intake/internal/vendors"
)

type Processor struct {
	Registry *vendors.Registry
	Orders   repository.OrderRepository
	Logger   *slog.Logger
}

func NewProcessor(registry *vendors.Registry, orders repository.OrderRepository, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Registry: registry, Orders: orders, Logger: logger}
}

// ExtractOrder runs the pure part of the pipeline: normalization, vendor
// routing, extraction, and contract validation. No persistence happens.
func (p *Processor) ExtractOrder(rawLines []string, filename string) (entity.ShipmentOrder, string, error) {
	doc := textline.Normalize(rawLines)

	order, vendor, err := p.Registry.Extract(doc, filename)
	if err != nil {
		return entity.ShipmentOrder{}, "", err
	}
	if err := schema.ValidateOrder(order); err != nil {
		// Adapters guarantee structurally complete output; reaching this
		// means a rule regression, not bad input.
		return entity.ShipmentOrder{}, "", common.NewAppError("VALIDATION", "extracted order violates contract", err)
	}
	return order, vendor, nil
}

// Process extracts one document and persists the resulting order.
func (p *Processor) Process(ctx context.Context, rawLines []string, filename string) (entity.StoredOrder, error) {
	order, vendor, err := p.ExtractOrder(rawLines, filename)
	if err != nil {
		return entity.StoredOrder{}, err
	}

	stored, err := p.Orders.SaveOrder(ctx, vendor, order)
	if err != nil {
		return entity.StoredOrder{}, err
	}
	p.Logger.Info("pipeline.order.stored",
		"order_id", stored.ID.String(),
		"vendor", vendor,
		"order_reference", order.OrderReference,
		"source", common.SourceFromContext(ctx),
	)
	return stored, nil
}
