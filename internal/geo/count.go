package geo

import (
	"bytes"
	"encoding/csv"
	"io"

	"github.com/woozymasta/gmexport/internal/format"
)

// Count reports the number of places in a converted file. ok is false when
// the body cannot be read as f; callers treat that as "unknown", not an error.
func Count(body []byte, f format.Format) (n int, ok bool) {
	switch f {
	case format.GeoJSON:
		return countGeoJSON(body)
	case format.GPX:
		return countGPX(body)
	case format.KML:
		return countKML(bytes.NewReader(body))
	case format.KMZ:
		return countKMZ(body)
	case format.CSV:
		return countCSV(body)
	default:
		return 0, false
	}
}

// countCSV counts data rows, excluding the header.
func countCSV(body []byte) (int, bool) {
	r := csv.NewReader(bytes.NewReader(body))
	r.FieldsPerRecord = -1

	rows := 0
	for {
		_, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, false
		}
		rows++
	}
	if rows == 0 {
		return 0, true
	}
	return rows - 1, true
}
