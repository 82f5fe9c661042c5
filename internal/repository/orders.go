// Package repository persists extracted orders. Two backends implement
// the same interface: Postgres for the service deployment and SQLite for
// the CLI and single-node setups.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/freightdock/intake/internal/entity"
)

// OrderRepository stores canonical orders keyed by a generated identity.
type OrderRepository interface {
	// SaveOrder persists one extracted order and returns it with its
	// assigned identity and timestamp.
	SaveOrder(ctx context.Context, vendor string, order entity.ShipmentOrder) (entity.StoredOrder, error)
	// GetOrder loads one stored order; common.ErrNotFound when absent.
	GetOrder(ctx context.Context, id uuid.UUID) (entity.StoredOrder, error)
	// ListOrders returns stored orders newest first, up to limit.
	// A limit of zero or less returns every stored order.
	ListOrders(ctx context.Context, limit int) ([]entity.StoredOrder, error)
}
