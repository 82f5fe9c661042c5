// Package server exposes the intake pipeline over HTTP: document
// submission, stored-order queries, and workbook export.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/freightdock/intake/internal/common"
	"github.com/freightdock/intake/internal/export"
	"github.com/freightdock/intake/internal/pipeline"
	"github.com/freightdock/intake/internal/repository"
)

// SubmitDocumentRequest is the POST /documents payload: the text lines of
// one converted document plus its source filename.
type SubmitDocumentRequest struct {
	AttachmentFilename string   `json:"attachment_filename"`
	Lines              []string `json:"lines"`
}

type DocumentHandler struct {
	Processor *pipeline.Processor
	Logger    *slog.Logger
}

// Submit extracts and persists one document.
func (h *DocumentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if len(req.Lines) == 0 {
		writeError(w, r, http.StatusBadRequest, "lines must not be empty")
		return
	}

	ctx := common.WithSource(r.Context(), "http")
	stored, err := h.Processor.Process(ctx, req.Lines, req.AttachmentFilename)
	if err != nil {
		if errors.Is(err, common.ErrUnrecognizedFormat) {
			writeError(w, r, http.StatusUnprocessableEntity, common.ErrUnrecognizedFormat.Error())
			return
		}
		h.Logger.Error("document processing failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "processing failed")
		return
	}
	writeJSON(w, r, http.StatusCreated, stored)
}

type OrderHandler struct {
	Orders   repository.OrderRepository
	Exporter *export.Service
	Logger   *slog.Logger
}

// List returns stored orders, newest first. Supports ?limit=N.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	orders, err := h.Orders.ListOrders(r.Context(), limit)
	if err != nil {
		h.Logger.Error("list orders failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "query failed")
		return
	}
	writeJSON(w, r, http.StatusOK, orders)
}

// Get returns one stored order by id.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid order id")
		return
	}

	stored, err := h.Orders.GetOrder(r.Context(), id)
	if errors.Is(err, common.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		h.Logger.Error("get order failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "query failed")
		return
	}
	writeJSON(w, r, http.StatusOK, stored)
}

// Export streams an XLSX workbook of stored orders.
func (h *OrderHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.Exporter.ExportOrdersXLSX(r.Context(), 0)
	if err != nil {
		h.Logger.Error("export failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="orders.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Health reports readiness; check is optional and typically pings the
// database.
func Health(check func(r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r); err != nil {
				writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("response encode failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}
