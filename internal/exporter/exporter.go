// Package exporter calls the remote conversion service.
package exporter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/woozymasta/gmexport/internal/disposition"
	"github.com/woozymasta/gmexport/internal/format"
	"github.com/woozymasta/gmexport/internal/mapsurl"

	"github.com/carlmjohnson/requests"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
)

// Route is the export path on the remote service.
const Route = "/exportGoogleFavs"

var (
	// ErrInvalidURL is returned before any request when the input is not a URL.
	ErrInvalidURL = mapsurl.ErrInvalidURL
	// ErrNotGoogleMaps is returned before any request for non Google Maps URLs.
	ErrNotGoogleMaps = mapsurl.ErrNotGoogleMaps
	// ErrRemote covers every non-2xx answer from the service.
	ErrRemote = errors.New("failed to export location data")
	// ErrUnexpected wraps transport and other unrecognized failures.
	ErrUnexpected = errors.New("an unexpected error occurred")
)

// StatusError carries the HTTP status of a failed export.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d", ErrRemote, e.Code)
}

// Unwrap makes StatusError match ErrRemote.
func (e *StatusError) Unwrap() error {
	return ErrRemote
}

// Endpoints holds the two base addresses of the service.
type Endpoints struct {
	Production string `yaml:"production"`
	Local      string `yaml:"local"`
}

// Base selects the local development address when local is set.
func (e Endpoints) Base(local bool) string {
	if local {
		return e.Local
	}
	return e.Production
}

// LocalMode reports whether the page address carries the local marker.
func LocalMode(location *url.URL) bool {
	if location == nil {
		return false
	}
	return location.Query().Has("local")
}

// Result is a converted file as returned by the service.
type Result struct {
	Format      format.Format
	Filename    string
	ContentType string
	Body        []byte
}

// Client issues export requests. No client timeout is set.
type Client struct {
	http *http.Client
	base string
}

// New returns a Client for base using hc, or http.DefaultClient when hc is nil.
func New(base string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{http: hc, base: base}
}

// Base returns the service address in use.
func (c *Client) Base() string {
	return c.base
}

// Export validates rawURL and requests the conversion in a single shot.
func (c *Client) Export(ctx context.Context, rawURL string, f format.Format) (*Result, error) {
	u, err := mapsurl.Validate(rawURL)
	if err != nil {
		return nil, err
	}
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %w", ErrUnexpected, format.ErrUnknown)
	}

	start := time.Now()
	endpoint := strings.TrimRight(c.base, "/") + Route

	log.Debug().
		Str("endpoint", endpoint).
		Str("format", string(f)).
		Str("url", u.String()).
		Msg("Requesting export")

	var body bytes.Buffer
	headers := http.Header{}

	err = requests.URL(endpoint).
		Client(c.http).
		Param("format", string(f)).
		Param("url", u.String()).
		AddValidator(checkStatus).
		CopyHeaders(headers).
		ToBytesBuffer(&body).
		Fetch(ctx)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			log.Warn().Int("status", se.Code).Str("format", string(f)).Msg("Export rejected by service")
			return nil, se
		}
		return nil, fmt.Errorf("%w: %w", ErrUnexpected, err)
	}

	res := &Result{
		Format:      f,
		Filename:    disposition.Resolve(headers, f.DefaultFilename()),
		ContentType: headers.Get("Content-Type"),
		Body:        body.Bytes(),
	}

	log.Info().
		Str("format", string(f)).
		Str("filename", res.Filename).
		Str("size", humanize.Bytes(uint64(len(res.Body)))).
		Dur("duration", time.Since(start)).
		Msg("Export received")

	return res, nil
}

func checkStatus(res *http.Response) error {
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &StatusError{Code: res.StatusCode}
	}
	return nil
}

// Message maps err to the text shown to the user.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidURL):
		return ErrInvalidURL.Error()
	case errors.Is(err, ErrNotGoogleMaps):
		return ErrNotGoogleMaps.Error()
	case errors.Is(err, ErrRemote):
		return ErrRemote.Error()
	default:
		return ErrUnexpected.Error()
	}
}
