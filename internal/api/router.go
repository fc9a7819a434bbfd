package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter wires the API, health and metrics endpoints. pinger may be nil.
func NewRouter(h *Handler, gatherer prometheus.Gatherer, pinger Pinger, log *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/refresh", h.Refresh)
	mux.HandleFunc("GET /api/model", h.Model)
	mux.HandleFunc("POST /api/selection/{id}", h.Toggle)
	mux.HandleFunc("DELETE /api/selection", h.Clear)
	mux.HandleFunc("GET /api/insights", h.Insights)
	mux.HandleFunc("POST /api/ask", h.Ask)

	mux.HandleFunc("GET /healthz", health(pinger, log))
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return loggingMiddleware(log, mux)
}

func health(pinger Pinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log.DebugContext(ctx, "Performing health checks...")

		status, body := http.StatusOK, "OK"
		if pinger != nil {
			if err := pinger.Ping(ctx); err != nil {
				status, body = http.StatusServiceUnavailable, "cache ping failed"
			}
		}

		w.WriteHeader(status)
		if _, err := w.Write([]byte(body)); err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}

		log.DebugContext(ctx, "Health checks completed", "status", status)
	}
}
