package async

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightdock/intake/internal/pipeline"
	"github.com/freightdock/intake/internal/repository"
	"github.com/freightdock/intake/internal/vendors"
)

func writeDocument(t *testing.T, dir, name string, lines []string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644))
	return path
}

func TestQueueProcessesDroppedDocument(t *testing.T) {
	dir := t.TempDir()
	repo, err := repository.OpenSQLite(filepath.Join(dir, "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	proc := pipeline.NewProcessor(vendors.NewDefaultRegistry(slog.Default()), repo, slog.Default())
	q := NewProcessorQueue(proc, slog.Default(), WithWorkers(2), WithQueueSize(8))

	path := writeDocument(t, dir, "booking.txt", []string{
		"ZIEGLER UK LTD",
		"LONDON GATEWAY LOGISTICS PARK, NORTH 4",
		"Ziegler Ref",
		"BK-7001",
		"Rate",
		"€ 900.00",
		"Collection",
		"ACME WAREHOUSING",
		"LEIGHTON BUZZARD, LU7 4UH",
		"Delivery",
		"SAFRAM",
		"ENNERY, FR-57365",
	})
	require.NoError(t, q.Enqueue(context.Background(), Job{Path: path}))

	// also drop something unprocessable; it must not block the drain
	badPath := writeDocument(t, dir, "noise.txt", []string{"a", "b", "c", "d", "e", "f", "g"})
	require.NoError(t, q.Enqueue(context.Background(), Job{Path: badPath}))

	q.Shutdown(context.Background())

	orders, err := repo.ListOrders(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "ziegler", orders[0].Vendor)
	assert.Equal(t, "BK-7001", orders[0].Order.OrderReference)
	assert.Equal(t, []string{"booking.txt"}, orders[0].Order.AttachmentFilenames)
}

func TestEnqueueAfterShutdown(t *testing.T) {
	repo, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	proc := pipeline.NewProcessor(vendors.NewDefaultRegistry(slog.Default()), repo, slog.Default())
	q := NewProcessorQueue(proc, slog.Default(), WithWorkers(1))
	q.Shutdown(context.Background())

	assert.NoError(t, q.Enqueue(context.Background(), Job{Path: "ignored.txt"}))
}
