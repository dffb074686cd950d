package geo

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"path"
	"strings"
)

// gpxRoot holds the top-level waypoints; routes and tracks are not places.
type gpxRoot struct {
	XMLName   xml.Name   `xml:"gpx"`
	Waypoints []struct{} `xml:"wpt"`
}

func countGPX(body []byte) (int, bool) {
	var root gpxRoot
	if err := xml.Unmarshal(body, &root); err != nil {
		return 0, false
	}
	return len(root.Waypoints), true
}

// countKML streams through the document counting Placemark elements at any depth.
func countKML(r io.Reader) (int, bool) {
	dec := xml.NewDecoder(r)
	sawRoot := false
	n := 0

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return n, sawRoot
		}
		if err != nil {
			return 0, false
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "kml":
			sawRoot = true
		case "Placemark":
			n++
		}
	}
}

// countKMZ opens the archive and counts the first .kml document in it.
func countKMZ(body []byte) (int, bool) {
	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return 0, false
	}

	for _, f := range zr.File {
		if !strings.EqualFold(path.Ext(f.Name), ".kml") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return 0, false
		}
		n, ok := countKML(rc)
		_ = rc.Close()
		return n, ok
	}
	return 0, false
}
