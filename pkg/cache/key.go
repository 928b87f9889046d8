package cache

import (
	"encoding/hex"
	"math"
	"strings"

	"github.com/goccy/go-json"
	"github.com/zeebo/xxh3"
)

// keyEnvelope is the canonical form hashed into a cache key. Field order
// is fixed by the struct, so identical inputs always serialize to
// identical bytes. Kwargs is kept (always empty today) so that adding
// named fields later cannot silently collide with positional ones.
type keyEnvelope struct {
	Args   []any          `json:"args"`
	Kwargs map[string]any `json:"kwargs"`
}

// deriveKey hashes the ordered field values into a 32-hex-char digest
// used as the artifact filename stem. Inputs must already be normalized
// (case-folded strings, rounded coordinates); the digest is deterministic
// for identical inputs and collision-resistant enough (xxh3, 128 bit) for
// a best-effort cache.
func deriveKey(args ...any) string {
	data, _ := json.Marshal(keyEnvelope{Args: args, Kwargs: map[string]any{}})
	sum := xxh3.Hash128(data).Bytes()
	return hex.EncodeToString(sum[:])
}

// foldName normalizes a city or country name for key derivation.
// Geocoding is case-insensitive, so "London" and "LONDON" must share an
// entry.
func foldName(s string) string {
	return strings.ToLower(s)
}

// roundCoord rounds a coordinate to 4 decimal places (~11 m). Requests
// whose raw coordinates differ by less than that hit the same entry,
// which bounds fragmentation from floating-point geocoding noise.
func roundCoord(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
