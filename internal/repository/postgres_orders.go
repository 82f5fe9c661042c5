package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/freightdock/intake/internal/common"
	"github.com/freightdock/intake/internal/entity"
)

// PostgresOrderRepository stores orders as JSONB rows.
type PostgresOrderRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresOrderRepository(pool *pgxpool.Pool) *PostgresOrderRepository {
	return &PostgresOrderRepository{pool: pool}
}

// InitSchema creates the orders table when it does not exist yet.
func (r *PostgresOrderRepository) InitSchema(ctx context.Context) error {
	const stmt = `
	CREATE TABLE IF NOT EXISTS shipment_orders (
		id              UUID PRIMARY KEY,
		vendor          TEXT NOT NULL,
		order_reference TEXT NOT NULL DEFAULT '',
		payload         JSONB NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_shipment_orders_vendor ON shipment_orders (vendor);
	CREATE INDEX IF NOT EXISTS idx_shipment_orders_reference ON shipment_orders (order_reference);
	`
	if _, err := r.pool.Exec(ctx, stmt); err != nil {
		return common.WrapError(err, "init orders schema")
	}
	return nil
}

func (r *PostgresOrderRepository) SaveOrder(ctx context.Context, vendor string, order entity.ShipmentOrder) (entity.StoredOrder, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return entity.StoredOrder{}, fmt.Errorf("marshal order: %w", err)
	}

	stored := entity.StoredOrder{
		ID:        uuid.New(),
		Vendor:    vendor,
		Order:     order,
		CreatedAt: time.Now().UTC(),
	}
	const stmt = `
	INSERT INTO shipment_orders (id, vendor, order_reference, payload, created_at)
	VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.pool.Exec(ctx, stmt, stored.ID, vendor, order.OrderReference, payload, stored.CreatedAt); err != nil {
		return entity.StoredOrder{}, common.WrapError(err, "insert order")
	}
	return stored, nil
}

func (r *PostgresOrderRepository) GetOrder(ctx context.Context, id uuid.UUID) (entity.StoredOrder, error) {
	const stmt = `
	SELECT id, vendor, payload, created_at
	FROM shipment_orders WHERE id = $1`
	row := r.pool.QueryRow(ctx, stmt, id)

	stored, err := scanStoredOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return entity.StoredOrder{}, common.ErrNotFound
	}
	if err != nil {
		return entity.StoredOrder{}, common.WrapError(err, "get order")
	}
	return stored, nil
}

func (r *PostgresOrderRepository) ListOrders(ctx context.Context, limit int) ([]entity.StoredOrder, error) {
	stmt := `
	SELECT id, vendor, payload, created_at
	FROM shipment_orders ORDER BY created_at DESC`
	var args []any
	if limit > 0 {
		stmt += " LIMIT $1"
		args = append(args, limit)
	}
	rows, err := r.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, common.WrapError(err, "list orders")
	}
	defer rows.Close()

	orders := []entity.StoredOrder{}
	for rows.Next() {
		stored, err := scanStoredOrder(rows)
		if err != nil {
			return nil, common.WrapError(err, "scan order row")
		}
		orders = append(orders, stored)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapError(err, "iterate order rows")
	}
	return orders, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStoredOrder(row rowScanner) (entity.StoredOrder, error) {
	var stored entity.StoredOrder
	var payload []byte
	if err := row.Scan(&stored.ID, &stored.Vendor, &payload, &stored.CreatedAt); err != nil {
		return entity.StoredOrder{}, err
	}
	if err := json.Unmarshal(payload, &stored.Order); err != nil {
		return entity.StoredOrder{}, fmt.Errorf("unmarshal payload: %w", err)
	}
	return stored, nil
}
