// Package server handles HTTP requests and middleware.
package server

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/woozymasta/gmexport/internal/mapsurl"
	"github.com/woozymasta/gmexport/internal/shell"

	"github.com/rs/zerolog/log"
)

// HandleShareTarget redirects an OS share action into the app with the
// shared link in the url parameter.
func (s *ServerContext) HandleShareTarget(w http.ResponseWriter, r *http.Request) {
	code := http.StatusFound
	if r.Method == http.MethodPost {
		code = http.StatusSeeOther
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad share payload", http.StatusBadRequest)
			return
		}
	}

	shared := SharedURL(r)
	log.Debug().Str("shared", shared).Msg("Share target invoked")

	http.Redirect(w, r, "/?url="+url.QueryEscape(shared), code)
}

// SharedURL picks the shared link from the url field, then from a link in
// text or title, and finally falls back to the full request URL.
func SharedURL(r *http.Request) string {
	values := r.URL.Query()
	if r.Form != nil {
		values = r.Form
	}

	if v := strings.TrimSpace(values.Get("url")); v != "" {
		return v
	}
	for _, field := range []string{"text", "title"} {
		if v := mapsurl.Extract(values.Get(field)); v != "" {
			return v
		}
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}

// HandleShell serves cached shell assets, passes everything else to the
// upstream and falls back to the page for extension-less paths.
func (s *ServerContext) HandleShell(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/" {
		path = shell.IndexPath
	}

	cache := s.Assets.Load()
	if asset, ok := cache.Get(path); ok && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
		serveAsset(w, r, asset, cache.Version())
		return
	}

	if s.Upstream != nil {
		s.Upstream.ServeHTTP(w, r)
		return
	}

	if r.Method == http.MethodGet && !strings.Contains(path, ".") {
		if index, ok := cache.Get(shell.IndexPath); ok {
			serveAsset(w, r, index, cache.Version())
			return
		}
	}

	http.NotFound(w, r)
}

func serveAsset(w http.ResponseWriter, r *http.Request, asset shell.Asset, version string) {
	if match := r.Header.Get("If-None-Match"); match == asset.ETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", asset.ContentType)
	w.Header().Set("ETag", asset.ETag)
	w.Header().Set("X-Shell-Cache", version)
	if asset.MaxAge > 0 {
		w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(asset.MaxAge))
	} else {
		w.Header().Set("Cache-Control", "public, no-cache")
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(asset.Body)))

	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(asset.Body)
}
