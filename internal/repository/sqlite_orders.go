package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/freightdock/intake/internal/common"
	"github.com/freightdock/intake/internal/entity"
)

// SQLiteOrderRepository is the single-node backend used by the CLI and
// small deployments. Orders are stored as JSON text rows.
type SQLiteOrderRepository struct {
	db *sql.DB
}

// OpenSQLite opens (and creates if needed) the order database at path.
func OpenSQLite(path string) (*SQLiteOrderRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %q: %w", path, err)
	}
	// modernc sqlite serializes writes; one connection avoids lock errors.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("verify sqlite connection: %w", err)
	}

	repo := &SQLiteOrderRepository{db: db}
	if err := repo.initSchema(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteOrderRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteOrderRepository) initSchema() error {
	const stmt = `
	CREATE TABLE IF NOT EXISTS shipment_orders (
		id              TEXT PRIMARY KEY,
		vendor          TEXT NOT NULL,
		order_reference TEXT NOT NULL DEFAULT '',
		payload         TEXT NOT NULL,
		created_at      TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_shipment_orders_vendor ON shipment_orders (vendor);
	`
	if _, err := r.db.Exec(stmt); err != nil {
		return fmt.Errorf("init orders schema: %w", err)
	}
	return nil
}

func (r *SQLiteOrderRepository) SaveOrder(ctx context.Context, vendor string, order entity.ShipmentOrder) (entity.StoredOrder, error) {
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
	VALUES (?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, stmt,
		stored.ID.String(), vendor, order.OrderReference,
		string(payload), stored.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return entity.StoredOrder{}, common.WrapError(err, "insert order")
	}
	return stored, nil
}

func (r *SQLiteOrderRepository) GetOrder(ctx context.Context, id uuid.UUID) (entity.StoredOrder, error) {
	const stmt = `
	SELECT id, vendor, payload, created_at
	FROM shipment_orders WHERE id = ?`
	stored, err := scanSQLiteOrder(r.db.QueryRowContext(ctx, stmt, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return entity.StoredOrder{}, common.ErrNotFound
	}
	if err != nil {
		return entity.StoredOrder{}, common.WrapError(err, "get order")
	}
	return stored, nil
}

func (r *SQLiteOrderRepository) ListOrders(ctx context.Context, limit int) ([]entity.StoredOrder, error) {
	stmt := `
	SELECT id, vendor, payload, created_at
	FROM shipment_orders ORDER BY created_at DESC`
	var args []any
	if limit > 0 {
		stmt += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, common.WrapError(err, "list orders")
	}
	defer rows.Close()

	orders := []entity.StoredOrder{}
	for rows.Next() {
		stored, err := scanSQLiteOrder(rows)
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

func scanSQLiteOrder(row rowScanner) (entity.StoredOrder, error) {
	var (
		stored    entity.StoredOrder
		id        string
		payload   string
		createdAt string
	)
	if err := row.Scan(&id, &stored.Vendor, &payload, &createdAt); err != nil {
		return entity.StoredOrder{}, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return entity.StoredOrder{}, fmt.Errorf("parse order id %q: %w", id, err)
	}
	stored.ID = parsed

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return entity.StoredOrder{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	stored.CreatedAt = ts

	if err := json.Unmarshal([]byte(payload), &stored.Order); err != nil {
		return entity.StoredOrder{}, fmt.Errorf("unmarshal payload: %w", err)
	}
	return stored, nil
}
