package model

import (
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GeocodeResult is a cached geocoding lookup. City and Country echo the
// request as the user typed them; the cache key is derived from the
// case-folded forms.
type GeocodeResult struct {
	City      string    `json:"city"`
	Country   string    `json:"country"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CachedAt  time.Time `json:"cached_at"`
}

// GraphNode is a street-network intersection or dead end.
type GraphNode struct {
	ID  int64   `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GraphEdge is a road segment between two nodes. Highway carries the
// road classification ("motorway", "residential", ...) that the renderer
// maps to color and width.
type GraphEdge struct {
	From     int64          `json:"from"`
	To       int64          `json:"to"`
	Highway  string         `json:"highway"`
	Name     string         `json:"name,omitempty"`
	Length   float64        `json:"length"` // meters
	Geometry orb.LineString `json:"geometry,omitempty"`
}

// StreetNetwork is the full road graph for one map query.
type StreetNetwork struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// FeatureBundle is everything the feature-fetch collaborator returns for
// one center/radius query: the street network plus optional water and park
// layers. Water and Parks are nil when the area simply has none; that is a
// normal outcome, not an error.
type FeatureBundle struct {
	Graph       *StreetNetwork             `json:"graph"`
	Water       *geojson.FeatureCollection `json:"water"`
	Parks       *geojson.FeatureCollection `json:"parks"`
	Latitude    float64                    `json:"latitude"`  // rounded to 4 decimals
	Longitude   float64                    `json:"longitude"` // rounded to 4 decimals
	Distance    int                        `json:"distance"`  // radius in meters
	NetworkType string                     `json:"network_type"`
	CachedAt    time.Time                  `json:"cached_at"`
}

// PosterSpec identifies one rendered poster variant.
type PosterSpec struct {
	City     string `json:"city"`
	Country  string `json:"country"`
	Theme    string `json:"theme"`
	Distance int    `json:"distance"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	DPI      int    `json:"dpi"`
}
