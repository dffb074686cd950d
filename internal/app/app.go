// Package app holds the state of the single-page client: the URL input,
// the selected format, the in-flight export and the feedback banner.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/woozymasta/gmexport/internal/download"
	"github.com/woozymasta/gmexport/internal/exporter"
	"github.com/woozymasta/gmexport/internal/format"
	"github.com/woozymasta/gmexport/internal/geo"
	"github.com/woozymasta/gmexport/internal/settings"

	"github.com/rs/zerolog/log"
)

// ErrBusy is returned when an export is triggered while another is outstanding.
var ErrBusy = errors.New("an export is already in progress")

// BannerKind tells success and error banners apart.
type BannerKind int

// Banner kinds.
const (
	BannerNone BannerKind = iota
	BannerSuccess
	BannerError
)

// Banner is the dismissible outcome of the last export attempt.
type Banner struct {
	Kind    BannerKind
	Message string
}

// Visible reports whether there is anything to show.
func (b Banner) Visible() bool {
	return b.Kind != BannerNone
}

// Options configures an App.
type Options struct {
	Endpoints  exporter.Endpoints
	HTTPClient *http.Client
	// Local forces the local development endpoint regardless of the page address.
	Local bool
}

// App is the client state. It is safe for concurrent use, but at most one
// export runs at a time.
type App struct {
	store settings.Store
	sink  download.Sink
	opts  Options

	busy       atomic.Bool
	intakeOnce sync.Once

	mu       sync.Mutex
	input    string
	selected format.Format
	banner   Banner
	location *url.URL
	local    bool
}

// New restores the format preference from store and returns an idle App.
func New(store settings.Store, sink download.Sink, opts Options) *App {
	a := &App{
		store:    store,
		sink:     sink,
		opts:     opts,
		selected: store.Format(),
		location: &url.URL{Path: "/"},
		local:    opts.Local,
	}

	log.Debug().Str("format", string(a.selected)).Msg("Export format restored")
	return a
}

// Intake reads a shared link from the page address on first call only.
// When a url parameter is present it prefills the input and returns the
// address scrubbed to the root path; the returned value replaces the
// current location instead of adding to it. Later calls are no-ops.
func (a *App) Intake(location *url.URL) *url.URL {
	a.intakeOnce.Do(func() {
		if location == nil {
			return
		}

		a.mu.Lock()
		defer a.mu.Unlock()

		a.location = location
		if exporter.LocalMode(location) {
			a.local = true
		}

		shared := location.Query().Get("url")
		if shared == "" {
			return
		}

		a.input = shared
		a.location = &url.URL{Scheme: location.Scheme, Host: location.Host, Path: "/"}

		log.Info().Str("url", shared).Msg("Shared link received")
	})

	return a.Location()
}

// Location returns the visible page address.
func (a *App) Location() *url.URL {
	a.mu.Lock()
	defer a.mu.Unlock()
	u := *a.location
	return &u
}

// Local reports whether exports go to the local development endpoint.
func (a *App) Local() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.local
}

// SetURL stores the current input.
func (a *App) SetURL(v string) {
	a.mu.Lock()
	a.input = v
	a.mu.Unlock()
}

// URL returns the current input.
func (a *App) URL() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.input
}

// Format returns the selected export format.
func (a *App) Format() format.Format {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.selected
}

// SelectFormat changes the format and writes it through to the store.
// The menu is locked while an export is outstanding.
func (a *App) SelectFormat(f format.Format) error {
	if !f.Valid() {
		return format.ErrUnknown
	}
	if a.Busy() {
		return ErrBusy
	}

	a.mu.Lock()
	a.selected = f
	a.mu.Unlock()

	return a.store.SetFormat(f)
}

// Busy reports whether an export is outstanding.
func (a *App) Busy() bool {
	return a.busy.Load()
}

// Banner returns the outcome of the last attempt.
func (a *App) Banner() Banner {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.banner
}

// Dismiss hides the banner.
func (a *App) Dismiss() {
	a.mu.Lock()
	a.banner = Banner{}
	a.mu.Unlock()
}

// Export converts the current input with the selected format and saves the
// result. It returns the saved location. A second call while one is
// outstanding returns ErrBusy without touching the network.
func (a *App) Export(ctx context.Context) (string, error) {
	if !a.busy.CompareAndSwap(false, true) {
		return "", ErrBusy
	}
	defer a.busy.Store(false)

	a.mu.Lock()
	rawURL, f, local := a.input, a.selected, a.local
	a.banner = Banner{}
	a.mu.Unlock()

	client := exporter.New(a.opts.Endpoints.Base(local), a.opts.HTTPClient)

	location, places, err := a.run(ctx, client, rawURL, f)
	if err != nil {
		msg := exporter.Message(err)
		log.Error().Err(err).Str("format", string(f)).Msg("Export failed")
		a.setBanner(Banner{Kind: BannerError, Message: msg})
		return "", err
	}

	msg := "exported " + location
	if places >= 0 {
		msg = fmt.Sprintf("%s (%d places)", msg, places)
	}
	a.setBanner(Banner{Kind: BannerSuccess, Message: msg})
	return location, nil
}

// run performs the one suspension point and the save. places is -1 when
// the payload could not be inspected.
func (a *App) run(ctx context.Context, client *exporter.Client, rawURL string, f format.Format) (string, int, error) {
	res, err := client.Export(ctx, rawURL, f)
	if err != nil {
		return "", 0, err
	}

	if kind, ok := download.Sniff(res.Body, f); !ok {
		log.Warn().
			Str("format", string(f)).
			Str("detected", kind).
			Msg("Payload does not look like the requested format")
	}

	places := -1
	if n, ok := geo.Count(res.Body, f); ok {
		places = n
	}

	location, err := a.sink.Save(ctx, res.Filename, res.Body)
	if err != nil {
		return "", 0, errors.Join(exporter.ErrUnexpected, err)
	}

	log.Info().Str("location", location).Int("places", places).Msg("Export saved")
	return location, places, nil
}

func (a *App) setBanner(b Banner) {
	a.mu.Lock()
	a.banner = b
	a.mu.Unlock()
}
