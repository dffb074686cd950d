package geo

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/woozymasta/gmexport/internal/format"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kmlDoc = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2"><Document>
<Placemark><name>A</name></Placemark>
<Folder><Placemark><name>B</name></Placemark></Folder>
</Document></kml>`

func kmz(t *testing.T, name, doc string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = w.Write([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestCount(t *testing.T) {
	tests := []struct {
		name   string
		format format.Format
		body   []byte
		want   int
		wantOK bool
	}{
		{
			name:   "geojson",
			format: format.GeoJSON,
			body:   []byte(`{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":[1,2]}},{"type":"Feature","geometry":null}]}`),
			want:   2, wantOK: true,
		},
		{name: "geojson not a collection", format: format.GeoJSON, body: []byte(`{"type":"Feature"}`)},
		{
			name:   "gpx",
			format: format.GPX,
			body:   []byte(`<gpx version="1.1"><wpt lat="1" lon="2"><name>A</name></wpt><wpt lat="3" lon="4"/></gpx>`),
			want:   2, wantOK: true,
		},
		{
			name:   "gpx ignores routes and tracks",
			format: format.GPX,
			body:   []byte(`<gpx version="1.1"><wpt lat="1" lon="2"/><rte><rtept lat="1" lon="2"/></rte><trk><trkseg/></trk></gpx>`),
			want:   1, wantOK: true,
		},
		{name: "kml nested", format: format.KML, body: []byte(kmlDoc), want: 2, wantOK: true},
		{name: "kml garbage", format: format.KML, body: []byte("not xml <")},
		{name: "kmz", format: format.KMZ, body: kmz(t, "doc.kml", kmlDoc), want: 2, wantOK: true},
		{name: "kmz without kml", format: format.KMZ, body: kmz(t, "readme.txt", "hi")},
		{name: "csv", format: format.CSV, body: []byte("name,lat,lng\nA,1,2\nB,3,4\n"), want: 2, wantOK: true},
		{name: "csv empty", format: format.CSV, body: []byte(""), want: 0, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := Count(tt.body, tt.format)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, n)
		})
	}
}
