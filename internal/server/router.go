package server

import (
	"log/slog"
	"net/http"

	"github.com/freightdock/intake/internal/export"
	"github.com/freightdock/intake/internal/pipeline"
	"github.com/freightdock/intake/internal/repository"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. Handlers stay unaware of concrete storage backends.
func NewRouter(processor *pipeline.Processor, orders repository.OrderRepository, exporter *export.Service, healthCheck func(r *http.Request) error, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()

	docs := &DocumentHandler{Processor: processor, Logger: logger}
	ordersHandler := &OrderHandler{Orders: orders, Exporter: exporter, Logger: logger}

	mux.HandleFunc("POST /documents", docs.Submit)
	mux.HandleFunc("GET /orders", ordersHandler.List)
	mux.HandleFunc("GET /orders/export", ordersHandler.Export)
	mux.HandleFunc("GET /orders/{id}", ordersHandler.Get)
	mux.HandleFunc("GET /health", Health(healthCheck))

	return loggingMiddleware(mux, logger)
}
