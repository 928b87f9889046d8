// Package cache implements the on-disk cache that shields the poster
// pipeline from its slow, rate-limited collaborators. Three categories
// (geocoding results, OSM feature bundles, rendered posters) live in
// three flat directories under one root; artifacts are content-addressed
// by a digest of their normalized lookup fields, and freshness is derived
// from the artifact's modification time.
package cache

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Per-category time-to-live. Policy constants, not configuration.
const (
	geocodingTTL = 90 * 24 * time.Hour // coordinates rarely change
	osmTTL       = 7 * 24 * time.Hour  // OSM data changes more frequently
	posterTTL    = 30 * 24 * time.Hour
)

// Category directory names and artifact extensions.
const (
	geocodingDirName = "geocoding"
	osmDirName       = "osm_data"
	posterDirName    = "posters"

	geocodingExt = ".json"
	osmExt       = ".json"
	posterExt    = ".png"
)

// Manager owns the three cache directories. It is safe for concurrent use
// from multiple goroutines and from multiple processes sharing the same
// root: writers publish via rename, so readers never see a torn artifact.
// There is no stronger coordination; a lost race degrades to a miss.
type Manager struct {
	root         string
	geocodingDir string
	osmDir       string
	posterDir    string
}

// NewManager creates the category directories under root (idempotently)
// and returns a manager for them.
func NewManager(root string) (*Manager, error) {
	m := &Manager{
		root:         root,
		geocodingDir: filepath.Join(root, geocodingDirName),
		osmDir:       filepath.Join(root, osmDirName),
		posterDir:    filepath.Join(root, posterDirName),
	}

	for _, dir := range []string{m.geocodingDir, m.osmDir, m.posterDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	slog.Info("cache manager initialized", "dir", root)
	return m, nil
}

// Root returns the cache root directory.
func (m *Manager) Root() string {
	return m.root
}

// isValid reports whether the artifact at path exists and is younger than
// ttl. Age is the time since last modification; an artifact exactly ttl
// old counts as expired. Stat errors (missing file, permissions) resolve
// to false, never to an error: callers only want a freshness boolean.
func isValid(path string, ttl time.Duration) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if time.Since(info.ModTime()) >= ttl {
		slog.Info("cache entry expired", "file", filepath.Base(path))
		return false
	}
	return true
}

// writeArtifact publishes data at path atomically: write to a temp file
// in the same directory, then rename over the destination. Readers either
// see the old artifact or the complete new one.
func writeArtifact(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
