// Package format defines the export formats understood by the remote service.
package format

import (
	"errors"
	"fmt"
	"strings"
)

// Format is one of the fixed export formats.
type Format string

// Known export formats.
const (
	GeoJSON Format = "geojson"
	GPX     Format = "gpx"
	KML     Format = "kml"
	KMZ     Format = "kmz"
	CSV     Format = "csv"
)

// Default is used when no valid preference exists.
const Default = GeoJSON

// ErrUnknown is returned by Parse for values outside the known set.
var ErrUnknown = errors.New("unknown export format")

var all = []Format{GeoJSON, GPX, KML, KMZ, CSV}

var meta = map[Format]struct {
	label string
	mime  string
}{
	GeoJSON: {"GeoJSON", "application/geo+json"},
	GPX:     {"GPX", "application/gpx+xml"},
	KML:     {"KML", "application/vnd.google-earth.kml+xml"},
	KMZ:     {"KMZ", "application/vnd.google-earth.kmz"},
	CSV:     {"CSV", "text/csv"},
}

// All returns the known formats in menu order.
func All() []Format {
	out := make([]Format, len(all))
	copy(out, all)
	return out
}

// Parse converts s into a Format, ignoring case and surrounding spaces.
func Parse(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := meta[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknown, s)
	}
	return f, nil
}

// Sanitize returns the parsed value of s or Default when s is not a known format.
// Values read back from storage always pass through here.
func Sanitize(s string) Format {
	f, err := Parse(s)
	if err != nil {
		return Default
	}
	return f
}

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	_, ok := meta[f]
	return ok
}

// Label is the human readable name.
func (f Format) Label() string {
	if m, ok := meta[f]; ok {
		return m.label
	}
	return strings.ToUpper(string(f))
}

// Extension is the file extension without the leading dot.
func (f Format) Extension() string {
	return string(f)
}

// MIME is the content type of files in this format.
func (f Format) MIME() string {
	if m, ok := meta[f]; ok {
		return m.mime
	}
	return "application/octet-stream"
}

// DefaultFilename is the name used when the service does not suggest one.
func (f Format) DefaultFilename() string {
	return "google_maps_favorites." + f.Extension()
}

// Next returns the format after f in menu order, wrapping around.
func (f Format) Next() Format {
	return f.step(1)
}

// Prev returns the format before f in menu order, wrapping around.
func (f Format) Prev() Format {
	return f.step(len(all) - 1)
}

func (f Format) step(n int) Format {
	for i, v := range all {
		if v == f {
			return all[(i+n)%len(all)]
		}
	}
	return Default
}

func (f Format) String() string {
	return string(f)
}
