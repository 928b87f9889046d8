package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mapposter/pkg/version"
)

// NewServer creates and configures the HTTP server exposing the cache
// management boundary. It accepts a CacheHandler for all cache endpoints
// and a shutdownFunc for graceful shutdown.
func NewServer(addr string, cacheH *CacheHandler, shutdown func()) *http.Server {
	mux := http.NewServeMux()

	// 1. Health Endpoint
	mux.HandleFunc("GET /health", cacheH.HandleHealth)

	// 2. Version Endpoint
	mux.HandleFunc("GET /api/version", handleVersion)

	// 3. Cache Management Endpoints
	mux.HandleFunc("GET /api/cache/stats", cacheH.HandleStats)
	mux.HandleFunc("POST /api/cache/clear", cacheH.HandleClear)
	mux.HandleFunc("POST /api/cache/cleanup", cacheH.HandleCleanup)

	// 4. Metrics Endpoint
	mux.Handle("GET /metrics", promhttp.Handler())

	// 5. Shutdown Endpoint
	mux.HandleFunc("POST /api/shutdown", func(w http.ResponseWriter, r *http.Request) {
		slog.Info("Graceful shutdown initiated via API")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("Shutting down...")); err != nil {
			slog.Error("Failed to write shutdown response", "error", err)
		}
		// Call shutdown in a goroutine to allow response to flush
		go func() {
			time.Sleep(100 * time.Millisecond)
			shutdown()
		}()
	})

	return &http.Server{
		Addr:         addr,
		Handler:      requestLogging(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := fmt.Fprintf(w, `{"version": "%s"}`, version.Version); err != nil {
		slog.Error("Failed to write version response", "error", err)
	}
}
