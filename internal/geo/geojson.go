// Package geo inspects converted files to report how many places they hold.
package geo

import "encoding/json"

// GeoJSONFeatureCollection represents a collection of geographic features.
// Only the parts needed for counting are decoded.
type GeoJSONFeatureCollection struct {
	Type     string           `json:"type"`
	Features []GeoJSONFeature `json:"features"`
}

// GeoJSONFeature represents a single geographic feature.
type GeoJSONFeature struct {
	Type     string          `json:"type"`
	Geometry json.RawMessage `json:"geometry"`
}

func countGeoJSON(body []byte) (int, bool) {
	var fc GeoJSONFeatureCollection
	if err := json.Unmarshal(body, &fc); err != nil || fc.Type != "FeatureCollection" {
		return 0, false
	}
	return len(fc.Features), true
}
