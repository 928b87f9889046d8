package cache

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/paulmach/orb/geojson"

	"mapposter/pkg/model"
)

// GetOSMData returns the cached feature bundle for a center point, search
// radius and network type. Coordinates are rounded to 4 decimals before
// key derivation, so requests within ~11 m of each other share an entry.
// A bundle whose schema no longer decodes is treated as a miss, which is
// how old entries age out across schema changes.
func (m *Manager) GetOSMData(lat, lon float64, distance int, networkType string) (*model.FeatureBundle, bool) {
	latR, lonR := roundCoord(lat), roundCoord(lon)
	key := deriveKey(latR, lonR, distance, networkType)
	path := filepath.Join(m.osmDir, key+osmExt)

	if !isValid(path, osmTTL) {
		slog.Info("osm cache miss", "lat", latR, "lon", lonR, "distance", distance)
		cacheMisses.WithLabelValues(osmDirName).Inc()
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		slog.Error("failed to read osm cache entry", "file", filepath.Base(path), "error", err)
		cacheMisses.WithLabelValues(osmDirName).Inc()
		return nil, false
	}

	var bundle model.FeatureBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		slog.Error("corrupt osm cache entry", "file", filepath.Base(path), "error", err)
		cacheMisses.WithLabelValues(osmDirName).Inc()
		return nil, false
	}

	slog.Info("osm cache hit", "lat", latR, "lon", lonR, "distance", distance)
	cacheHits.WithLabelValues(osmDirName).Inc()
	return &bundle, true
}

// SetOSMData caches a feature bundle. Water and parks may be nil; that is
// stored and returned as-is. Write failures are logged and swallowed.
func (m *Manager) SetOSMData(lat, lon float64, distance int, networkType string, graph *model.StreetNetwork, water, parks *geojson.FeatureCollection) {
	latR, lonR := roundCoord(lat), roundCoord(lon)
	key := deriveKey(latR, lonR, distance, networkType)
	path := filepath.Join(m.osmDir, key+osmExt)

	bundle := model.FeatureBundle{
		Graph:       graph,
		Water:       water,
		Parks:       parks,
		Latitude:    latR,
		Longitude:   lonR,
		Distance:    distance,
		NetworkType: networkType,
		CachedAt:    time.Now(),
	}

	data, err := json.Marshal(&bundle)
	if err != nil {
		slog.Error("failed to encode osm cache entry", "lat", latR, "lon", lonR, "error", err)
		cacheWriteErrors.WithLabelValues(osmDirName).Inc()
		return
	}

	if err := writeArtifact(path, data); err != nil {
		slog.Error("failed to write osm cache entry", "lat", latR, "lon", lonR, "error", err)
		cacheWriteErrors.WithLabelValues(osmDirName).Inc()
		return
	}

	slog.Info("cached osm data", "lat", latR, "lon", lonR, "distance", distance)
}
