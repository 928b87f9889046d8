package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"mapposter/pkg/cache"
)

// CacheHandler exposes the cache manager's stats, clear, cleanup and
// health operations over HTTP. Scope validation happens here, at the
// boundary; the manager only ever sees well-formed requests (and treats
// anything else as a no-op anyway).
type CacheHandler struct {
	manager *cache.Manager
}

// NewCacheHandler creates a new CacheHandler.
func NewCacheHandler(m *cache.Manager) *CacheHandler {
	return &CacheHandler{manager: m}
}

type statsResponse struct {
	Success bool         `json:"success"`
	Stats   *cache.Stats `json:"stats"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type cleanupResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	RemovedCount int    `json:"removed_count"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// HandleStats serves GET /api/cache/stats.
func (h *CacheHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.manager.Stats()
	if err != nil {
		slog.Error("failed to compute cache stats", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{Success: true, Stats: stats})
}

type clearRequest struct {
	Type string `json:"type"`
}

// HandleClear serves POST /api/cache/clear. The scope defaults to "all"
// when the body is empty; an unrecognized scope is rejected with 400
// before it reaches the manager.
func (h *CacheHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	req := clearRequest{Type: cache.ScopeAll}
	// An empty or absent body keeps the default scope.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Type == "" {
		req.Type = cache.ScopeAll
	}

	if !cache.ValidScope(req.Type) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "Invalid cache type. Use: all, geocoding, osm, or posters",
		})
		return
	}

	h.manager.Clear(req.Type)
	writeJSON(w, http.StatusOK, messageResponse{
		Success: true,
		Message: fmt.Sprintf("Cleared %s cache", req.Type),
	})
}

// HandleCleanup serves POST /api/cache/cleanup.
func (h *CacheHandler) HandleCleanup(w http.ResponseWriter, r *http.Request) {
	removed := h.manager.CleanupExpired()
	writeJSON(w, http.StatusOK, cleanupResponse{
		Success:      true,
		Message:      fmt.Sprintf("Removed %d expired files", removed),
		RemovedCount: removed,
	})
}

type healthCache struct {
	Enabled        bool    `json:"enabled"`
	TotalSizeMB    float64 `json:"total_size_mb"`
	GeocodingCount int     `json:"geocoding_count"`
	OSMCount       int     `json:"osm_count"`
	PostersCount   int     `json:"posters_count"`
}

type healthResponse struct {
	Status string       `json:"status"`
	Cache  *healthCache `json:"cache,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// HandleHealth serves GET /health. A cache whose statistics cannot be
// computed degrades the status instead of failing the whole process.
func (h *CacheHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	stats, err := h.manager.Stats()
	if err != nil {
		slog.Error("health check degraded", "error", err)
		writeJSON(w, http.StatusInternalServerError, healthResponse{
			Status: "degraded",
			Error:  err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status: "healthy",
		Cache: &healthCache{
			Enabled:        true,
			TotalSizeMB:    stats.TotalSizeMB,
			GeocodingCount: stats.Geocoding.Count,
			OSMCount:       stats.OSMData.Count,
			PostersCount:   stats.Posters.Count,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
