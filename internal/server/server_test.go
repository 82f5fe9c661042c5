package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freightdock/intake/internal/entity"
	"github.com/freightdock/intake/internal/export"
	"github.com/freightdock/intake/internal/pipeline"
	"github.com/freightdock/intake/internal/repository"
	"github.com/freightdock/intake/internal/vendors"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	repo, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	logger := slog.Default()
	processor := pipeline.NewProcessor(vendors.NewDefaultRegistry(logger), repo, logger)
	exporter := export.NewService(repo, logger)
	return NewRouter(processor, repo, exporter, nil, logger)
}

func submitBody(t *testing.T, filename string, lines []string) *bytes.Reader {
	t.Helper()
	body, err := json.Marshal(SubmitDocumentRequest{AttachmentFilename: filename, Lines: lines})
	require.NoError(t, err)
	return bytes.NewReader(body)
}

func bookingLines() []string {
	return []string{
		"ZIEGLER UK LTD",
		"LONDON GATEWAY LOGISTICS PARK, NORTH 4",
		"Ziegler Ref",
		"BK-4471",
		"Rate",
		"€ 1,250.00",
		"Collection",
		"ACME WAREHOUSING",
		"LEIGHTON BUZZARD, LU7 4UH",
		"15/10/2025",
		"66 PALLETS",
		"Delivery",
		"SAFRAM",
		"ENNERY, FR-57365",
	}
}

func TestSubmitDocument(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/documents", submitBody(t, "booking.pdf", bookingLines()))
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var stored entity.StoredOrder
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stored))
	assert.Equal(t, "ziegler", stored.Vendor)
	assert.Equal(t, "BK-4471", stored.Order.OrderReference)
	assert.Equal(t, 1250.0, stored.Order.FreightPrice)

	// stored order is visible through the query API
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/"+stored.ID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSubmitDocumentUnrecognized(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	lines := []string{"nothing", "matches", "here", "a", "b", "c", "d"}
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/documents", submitBody(t, "x.pdf", lines)))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "not recognized")
}

func TestSubmitDocumentBadRequest(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/documents", bytes.NewReader([]byte("{"))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/documents", submitBody(t, "x.pdf", nil)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListOrders(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/documents", submitBody(t, "booking.pdf", bookingLines())))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var orders []entity.StoredOrder
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	assert.Len(t, orders, 1)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrderNotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/51d5f2f9-3000-4c01-a1a5-5c5409c3c3a5", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportOrders(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/export", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
