package cache

import (
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"
)

// Clear scopes. "all" covers every category; the other values select one.
const (
	ScopeAll       = "all"
	ScopeGeocoding = "geocoding"
	ScopeOSM       = "osm"
	ScopePosters   = "posters"
)

// ValidScope reports whether scope names a clearable cache selection.
// The HTTP boundary uses this to reject bad requests before they reach
// the manager.
func ValidScope(scope string) bool {
	switch scope {
	case ScopeAll, ScopeGeocoding, ScopeOSM, ScopePosters:
		return true
	}
	return false
}

// CategoryStats describes one category directory.
type CategoryStats struct {
	Count  int     `json:"count"`
	SizeMB float64 `json:"size_mb"`
}

// Stats aggregates all three categories. TotalSizeMB sums the already
// rounded per-category sizes; keep that order, downstream consumers
// compare against it.
type Stats struct {
	Geocoding   CategoryStats `json:"geocoding"`
	OSMData     CategoryStats `json:"osm_data"`
	Posters     CategoryStats `json:"posters"`
	TotalSizeMB float64       `json:"total_size_mb"`
}

// Stats counts and sizes every entry currently on disk, expired ones
// included: an expired-but-unswept entry still occupies space.
func (m *Manager) Stats() (*Stats, error) {
	geo, err := dirStats(m.geocodingDir)
	if err != nil {
		return nil, err
	}
	osmData, err := dirStats(m.osmDir)
	if err != nil {
		return nil, err
	}
	posters, err := dirStats(m.posterDir)
	if err != nil {
		return nil, err
	}

	return &Stats{
		Geocoding:   geo,
		OSMData:     osmData,
		Posters:     posters,
		TotalSizeMB: round2(geo.SizeMB + osmData.SizeMB + posters.SizeMB),
	}, nil
}

func dirStats(dir string) (CategoryStats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return CategoryStats{}, err
	}

	var total int64
	count := 0
	for _, e := range entries {
		count++
		info, err := e.Info()
		if err != nil {
			// Entry vanished between listing and stat; a concurrent
			// sweep or clear got there first.
			continue
		}
		if info.Mode().IsRegular() {
			total += info.Size()
		}
	}

	return CategoryStats{Count: count, SizeMB: roundMB(total)}, nil
}

func roundMB(bytes int64) float64 {
	return round2(float64(bytes) / (1024 * 1024))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Clear deletes every entry, valid or expired, in the selected scope.
// Unknown scopes select nothing but still log; validation belongs to
// the boundary. Per-file failures are logged and skipped so one
// stubborn file cannot abort the batch.
func (m *Manager) Clear(scope string) {
	var dirs []string
	switch scope {
	case ScopeAll:
		dirs = []string{m.geocodingDir, m.osmDir, m.posterDir}
	case ScopeGeocoding:
		dirs = []string{m.geocodingDir}
	case ScopeOSM:
		dirs = []string{m.osmDir}
	case ScopePosters:
		dirs = []string{m.posterDir}
	}

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			slog.Error("failed to list cache directory", "dir", dir, "error", err)
			continue
		}
		for _, e := range entries {
			path := filepath.Join(dir, e.Name())
			if err := os.Remove(path); err != nil {
				slog.Error("failed to delete cache file", "file", e.Name(), "error", err)
				continue
			}
			slog.Info("deleted cache file", "file", e.Name())
		}
	}

	slog.Info("cleared cache", "scope", scope)
}

// CleanupExpired sweeps all three categories and removes every entry
// whose age has reached its category TTL. It returns the number of
// entries actually removed; a file deleted out from under the sweep by a
// concurrent clear is logged and not counted. Temp files stranded by a
// writer that died before its rename are reclaimed on the same pass once
// they age past the category TTL, but they are not entries and do not
// count either.
func (m *Manager) CleanupExpired() int {
	sweeps := []struct {
		dir string
		ext string
		ttl time.Duration
	}{
		{m.geocodingDir, geocodingExt, geocodingTTL},
		{m.osmDir, osmExt, osmTTL},
		{m.posterDir, posterExt, posterTTL},
	}

	removed := 0
	for _, s := range sweeps {
		paths, err := filepath.Glob(filepath.Join(s.dir, "*"+s.ext))
		if err != nil {
			slog.Error("failed to scan cache directory", "dir", s.dir, "error", err)
			continue
		}
		for _, path := range paths {
			if isValid(path, s.ttl) {
				continue
			}
			if err := os.Remove(path); err != nil {
				if !os.IsNotExist(err) {
					slog.Error("failed to remove expired cache file", "file", filepath.Base(path), "error", err)
				}
				continue
			}
			removed++
		}

		tmps, err := filepath.Glob(filepath.Join(s.dir, "*.tmp*"))
		if err != nil {
			continue
		}
		for _, path := range tmps {
			info, err := os.Stat(path)
			if err != nil || time.Since(info.ModTime()) < s.ttl {
				continue
			}
			if err := os.Remove(path); err != nil {
				if !os.IsNotExist(err) {
					slog.Error("failed to remove stale temp file", "file", filepath.Base(path), "error", err)
				}
				continue
			}
			slog.Info("removed stale temp file", "file", filepath.Base(path))
		}
	}

	cacheSweepRemovals.Add(float64(removed))
	slog.Info("removed expired cache files", "count", removed)
	return removed
}
