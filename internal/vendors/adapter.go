// Package vendors holds one adapter per document originator plus the
// registry that routes a normalized document to the adapter claiming it.
// Detection is cheap and anchor-based; extraction is best-effort and never
// fails once an adapter was selected.
package vendors

import (
	"log/slog"

	"github.com/freightdock/intake/internal/common"
	"github.com/freightdock/intake/internal/countries"
	"github.com/freightdock/intake/internal/entity"
	"github.com/freightdock/intake/internal/parse"
	"github.com/freightdock/intake/internal/textline"
)

// Adapter is one vendor's rule set.
type Adapter interface {
	// Name identifies the vendor in logs and stored orders.
	Name() string
	// Detect reports whether the document matches this vendor's layout.
	// It must be side-effect-free and based on stable anchors only.
	Detect(doc textline.Document) bool
	// Extract applies the vendor's rules. It always returns a
	// structurally complete order; anomalies resolve to defaults.
	Extract(doc textline.Document, attachmentFilename string) entity.ShipmentOrder
}

// Registry tries adapters in a fixed registration order; the first
// positive Detect wins.
type Registry struct {
	adapters []Adapter
	logger   *slog.Logger
}

func NewRegistry(logger *slog.Logger, adapters ...Adapter) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{adapters: adapters, logger: logger}
}

// NewDefaultRegistry wires every supported vendor with the shared
// sub-parsers. Registration order is part of the routing contract.
func NewDefaultRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	resolver := countries.TableResolver{}
	addresses := parse.NewAddressParser(resolver, logger)
	locations := parse.NewLocationExtractor(addresses, logger)

	return NewRegistry(logger,
		NewTransalliance(locations),
		NewZiegler(locations),
	)
}

// Route returns the first adapter whose Detect accepts the document, or
// ErrUnrecognizedFormat. This is the pipeline's only hard failure.
func (r *Registry) Route(doc textline.Document) (Adapter, error) {
	for _, a := range r.adapters {
		if a.Detect(doc) {
			return a, nil
		}
	}
	return nil, common.ErrUnrecognizedFormat
}

// Extract routes the document and runs the matching adapter, returning
// the canonical order and the vendor name that produced it.
func (r *Registry) Extract(doc textline.Document, attachmentFilename string) (entity.ShipmentOrder, string, error) {
	adapter, err := r.Route(doc)
	if err != nil {
		r.logger.Warn("dispatch.unrecognized", "lines", len(doc))
		return entity.ShipmentOrder{}, "", err
	}

	order := adapter.Extract(doc, attachmentFilename)
	r.logger.Info("dispatch.extract.ok",
		"vendor", adapter.Name(),
		"order_reference", order.OrderReference,
		"loading_locations", len(order.LoadingLocations),
		"destination_locations", len(order.DestinationLocations),
		"cargos", len(order.Cargos),
	)
	return order, adapter.Name(), nil
}
