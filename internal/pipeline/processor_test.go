package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightdock/intake/internal/common"
	"github.com/freightdock/intake/internal/repository"
	"github.com/freightdock/intake/internal/vendors"
)

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	repo, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return NewProcessor(vendors.NewDefaultRegistry(slog.Default()), repo, slog.Default())
}

func charteringConfirmationLines() []string {
	return []string{
		"Date/Time : 12/09/2025 10:31",
		"TRANSALLIANCE TS LTD",
		"VENTURE WAY",
		"Tel : +44 1283 553099",
		"CHARTERING CONFIRMATION",
		"REF.: AB123",
		"Loading",
		"ON:",
		"17/09/25 8h00 – 15h00",
		"SHARP CLOTHING",
		"BAKEWELL RD GB-PE2 6DP PETERBOROUGH",
		"Weight . : 11.500,00 KG",
		"SHIPPING PRICE",
		"1234,50 EUR",
	}
}

func TestProcessStoresExtractedOrder(t *testing.T) {
	p := newTestProcessor(t)

	stored, err := p.Process(context.Background(), charteringConfirmationLines(), "Conf_AB123.PDF")
	require.NoError(t, err)

	assert.Equal(t, "transalliance", stored.Vendor)
	assert.Equal(t, "AB123", stored.Order.OrderReference)
	assert.Equal(t, 1234.50, stored.Order.FreightPrice)
	assert.Equal(t, []string{"conf_ab123.pdf"}, stored.Order.AttachmentFilenames)

	got, err := p.Orders.GetOrder(context.Background(), stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.Order, got.Order)
}

func TestProcessUnrecognizedFormat(t *testing.T) {
	p := newTestProcessor(t)

	_, err := p.Process(context.Background(), []string{"some", "random", "text", "a", "b", "c", "d"}, "x.pdf")
	assert.ErrorIs(t, err, common.ErrUnrecognizedFormat)
}

func TestExtractOrderDoesNotPersist(t *testing.T) {
	p := newTestProcessor(t)

	order, vendor, err := p.ExtractOrder(charteringConfirmationLines(), "conf.pdf")
	require.NoError(t, err)
	assert.Equal(t, "transalliance", vendor)
	assert.Equal(t, "AB123", order.OrderReference)

	orders, err := p.Orders.ListOrders(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, orders)
}
