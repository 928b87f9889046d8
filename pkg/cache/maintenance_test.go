package cache

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedGeocoding(t *testing.T, m *Manager, n int) {
	t.Helper()
	cities := []string{"Paris", "London", "Berlin", "Madrid", "Rome"}
	for i := 0; i < n; i++ {
		m.SetGeocoding(cities[i%len(cities)], "EU", float64(i), float64(i))
	}
}

func TestStatsEmpty(t *testing.T) {
	m := newTestManager(t)

	stats, err := m.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Geocoding.Count)
	assert.Equal(t, 0, stats.OSMData.Count)
	assert.Equal(t, 0, stats.Posters.Count)
	assert.Equal(t, 0.0, stats.TotalSizeMB)
}

func TestStatsCountsAllCategories(t *testing.T) {
	m := newTestManager(t)
	seedGeocoding(t, m, 3)

	graph, water, parks := testBundleInputs()
	m.SetOSMData(51.5074, -0.1278, 15000, "all", graph, water, parks)

	src := filepath.Join(t.TempDir(), "p.png")
	require.NoError(t, os.WriteFile(src, []byte("imgbytes"), 0o644))
	m.SetPoster(src, posterSpecFixture())

	stats, err := m.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Geocoding.Count)
	assert.Equal(t, 1, stats.OSMData.Count)
	assert.Equal(t, 1, stats.Posters.Count)
}

func TestStatsSizeRounding(t *testing.T) {
	m := newTestManager(t)

	// ~5 KB per category rounds to 0.00 each. The total sums the already
	// rounded per-category values, so it is 0.00 too — rounding the raw
	// byte sum instead would yield 0.01.
	small := make([]byte, 5242)
	require.NoError(t, os.WriteFile(filepath.Join(m.geocodingDir, "a"+geocodingExt), small, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(m.osmDir, "b"+osmExt), small, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(m.posterDir, "c"+posterExt), small, 0o644))

	stats, err := m.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0.0, stats.Geocoding.SizeMB)
	assert.Equal(t, 0.0, stats.OSMData.SizeMB)
	assert.Equal(t, 0.0, stats.Posters.SizeMB)
	assert.Equal(t, 0.0, stats.TotalSizeMB)

	// A poster just over 1 MiB lands at 1.01 and carries the total.
	big := make([]byte, 1054867)
	require.NoError(t, os.WriteFile(filepath.Join(m.posterDir, "d"+posterExt), big, 0o644))

	stats, err = m.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0.0, stats.Geocoding.SizeMB)
	assert.Equal(t, 1.01, stats.Posters.SizeMB)
	assert.Equal(t, 1.01, stats.TotalSizeMB)
}

func TestStatsCountExpiredEntries(t *testing.T) {
	m := newTestManager(t)
	seedGeocoding(t, m, 2)

	// Expired but not yet swept entries still count.
	ageArtifacts(t, m.geocodingDir, geocodingTTL+time.Hour)

	stats, err := m.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Geocoding.Count)
}

func TestClearSingleCategory(t *testing.T) {
	m := newTestManager(t)
	seedGeocoding(t, m, 3)

	graph, _, _ := testBundleInputs()
	m.SetOSMData(51.5074, -0.1278, 15000, "all", graph, nil, nil)

	m.Clear(ScopeGeocoding)

	stats, err := m.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Geocoding.Count)
	assert.Equal(t, 1, stats.OSMData.Count, "other categories must be untouched")
}

func TestClearAll(t *testing.T) {
	m := newTestManager(t)
	seedGeocoding(t, m, 2)

	graph, _, _ := testBundleInputs()
	m.SetOSMData(51.5074, -0.1278, 15000, "all", graph, nil, nil)

	m.Clear(ScopeAll)

	stats, err := m.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Geocoding.Count)
	assert.Equal(t, 0, stats.OSMData.Count)
	assert.Equal(t, 0, stats.Posters.Count)
}

func TestClearUnknownScopeIsNoop(t *testing.T) {
	m := newTestManager(t)
	seedGeocoding(t, m, 2)

	m.Clear("everything")

	stats, err := m.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Geocoding.Count)
}

func TestClearUnknownScopeStillLogs(t *testing.T) {
	m := newTestManager(t)

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	m.Clear("everything")

	assert.Contains(t, buf.String(), "cleared cache")
	assert.Contains(t, buf.String(), "everything")
}

func TestValidScope(t *testing.T) {
	for _, s := range []string{ScopeAll, ScopeGeocoding, ScopeOSM, ScopePosters} {
		assert.True(t, ValidScope(s), s)
	}
	assert.False(t, ValidScope("osm_data"))
	assert.False(t, ValidScope(""))
}

func TestCleanupExpiredRemovesOnlyExpired(t *testing.T) {
	m := newTestManager(t)
	graph, _, _ := testBundleInputs()

	m.SetOSMData(51.5074, -0.1278, 15000, "all", graph, nil, nil)
	m.SetOSMData(48.8566, 2.3522, 15000, "all", graph, nil, nil)
	m.SetOSMData(52.5200, 13.4050, 15000, "all", graph, nil, nil)

	// Age exactly one artifact past the 7-day OSM TTL.
	entries, err := os.ReadDir(m.osmDir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	past := time.Now().Add(-8 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(m.osmDir, entries[0].Name()), past, past))

	removed := m.CleanupExpired()
	assert.Equal(t, 1, removed)

	stats, err := m.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.OSMData.Count)
}

func TestCleanupExpiredIdempotent(t *testing.T) {
	m := newTestManager(t)
	seedGeocoding(t, m, 2)
	ageArtifacts(t, m.geocodingDir, geocodingTTL+time.Hour)

	first := m.CleanupExpired()
	assert.Equal(t, 2, first)

	second := m.CleanupExpired()
	assert.Equal(t, 0, second, "second sweep with no elapsed time removes nothing")
}

func TestCleanupExpiredReclaimsStaleTempFiles(t *testing.T) {
	m := newTestManager(t)

	// A writer that dies between create and rename strands a temp file
	// the entry globs never match.
	stale := filepath.Join(m.osmDir, "deadbeef"+osmExt+".tmp123456")
	require.NoError(t, os.WriteFile(stale, []byte("partial"), 0o644))
	past := time.Now().Add(-(osmTTL + time.Hour))
	require.NoError(t, os.Chtimes(stale, past, past))

	fresh := filepath.Join(m.osmDir, "cafebabe"+osmExt+".tmp654321")
	require.NoError(t, os.WriteFile(fresh, []byte("partial"), 0o644))

	removed := m.CleanupExpired()
	assert.Equal(t, 0, removed, "temp leftovers are not cache entries")

	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh, "a write still in progress must survive the sweep")
}

func TestCleanupExpiredSpansCategories(t *testing.T) {
	m := newTestManager(t)
	seedGeocoding(t, m, 1)

	graph, _, _ := testBundleInputs()
	m.SetOSMData(51.5074, -0.1278, 15000, "all", graph, nil, nil)

	src := filepath.Join(t.TempDir(), "p.png")
	require.NoError(t, os.WriteFile(src, []byte("img"), 0o644))
	m.SetPoster(src, posterSpecFixture())

	// Each category uses its own TTL: 8 days expires only the OSM entry.
	ageArtifacts(t, m.geocodingDir, 8*24*time.Hour)
	ageArtifacts(t, m.osmDir, 8*24*time.Hour)
	ageArtifacts(t, m.posterDir, 8*24*time.Hour)

	removed := m.CleanupExpired()
	assert.Equal(t, 1, removed)

	stats, err := m.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Geocoding.Count)
	assert.Equal(t, 0, stats.OSMData.Count)
	assert.Equal(t, 1, stats.Posters.Count)
}
