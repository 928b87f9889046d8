package cache

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"mapposter/pkg/model"
)

// GetGeocoding returns the cached coordinates for a city/country pair.
// The lookup is case-insensitive. A missing, expired or unreadable entry
// is a miss; corruption never propagates to the caller.
func (m *Manager) GetGeocoding(city, country string) (lat, lon float64, ok bool) {
	key := deriveKey(foldName(city), foldName(country))
	path := filepath.Join(m.geocodingDir, key+geocodingExt)

	if !isValid(path, geocodingTTL) {
		slog.Info("geocoding cache miss", "city", city, "country", country)
		cacheMisses.WithLabelValues(geocodingDirName).Inc()
		return 0, 0, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		slog.Error("failed to read geocoding cache entry", "file", filepath.Base(path), "error", err)
		cacheMisses.WithLabelValues(geocodingDirName).Inc()
		return 0, 0, false
	}

	var res model.GeocodeResult
	if err := json.Unmarshal(data, &res); err != nil {
		slog.Error("corrupt geocoding cache entry", "file", filepath.Base(path), "error", err)
		cacheMisses.WithLabelValues(geocodingDirName).Inc()
		return 0, 0, false
	}

	slog.Info("geocoding cache hit", "city", city, "country", country)
	cacheHits.WithLabelValues(geocodingDirName).Inc()
	return res.Latitude, res.Longitude, true
}

// SetGeocoding caches a geocoding result. Write failures are logged and
// swallowed: caching is an optimization, never a requirement.
func (m *Manager) SetGeocoding(city, country string, lat, lon float64) {
	key := deriveKey(foldName(city), foldName(country))
	path := filepath.Join(m.geocodingDir, key+geocodingExt)

	res := model.GeocodeResult{
		City:      city,
		Country:   country,
		Latitude:  lat,
		Longitude: lon,
		CachedAt:  time.Now(),
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		slog.Error("failed to encode geocoding cache entry", "city", city, "country", country, "error", err)
		cacheWriteErrors.WithLabelValues(geocodingDirName).Inc()
		return
	}

	if err := writeArtifact(path, data); err != nil {
		slog.Error("failed to write geocoding cache entry", "city", city, "country", country, "error", err)
		cacheWriteErrors.WithLabelValues(geocodingDirName).Inc()
		return
	}

	slog.Info("cached geocoding result", "city", city, "country", country)
}
