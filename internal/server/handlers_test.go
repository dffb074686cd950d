package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/woozymasta/gmexport/assets"
	"github.com/woozymasta/gmexport/internal/exporter"
	"github.com/woozymasta/gmexport/internal/shell"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(t *testing.T, upstream string) *ServerContext {
	t.Helper()
	c, err := shell.Build(assets.FS, shell.BuildOptions{
		Endpoints: exporter.Endpoints{Local: "http://localhost:8000"},
	})
	require.NoError(t, err)

	s, err := NewServerContext(shell.NewHolder(c), upstream)
	require.NoError(t, err)
	return s
}

func TestShareTargetRedirect(t *testing.T) {
	s := newContext(t, "")
	h := s.Routes()

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{
			name:   "url field",
			target: "/share-target?url=" + url.QueryEscape("https://maps.app.goo.gl/abc"),
			want:   "https://maps.app.goo.gl/abc",
		},
		{
			name:   "link inside text",
			target: "/share-target?title=Saved&text=" + url.QueryEscape("My list https://maps.app.goo.gl/xyz"),
			want:   "https://maps.app.goo.gl/xyz",
		},
		{
			name:   "nothing shared",
			target: "/share-target?title=hello",
			want:   "http://example.com/share-target?title=hello",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			require.Equal(t, http.StatusFound, rec.Code)
			loc, err := url.Parse(rec.Header().Get("Location"))
			require.NoError(t, err)
			assert.Equal(t, "/", loc.Path)
			assert.Equal(t, tt.want, loc.Query().Get("url"))
		})
	}
}

func TestShareTargetPost(t *testing.T) {
	h := newContext(t, "").Routes()

	form := url.Values{"text": {"https://maps.app.goo.gl/post"}}
	req := httptest.NewRequest(http.MethodPost, "/share-target", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?url="+url.QueryEscape("https://maps.app.goo.gl/post"), rec.Header().Get("Location"))
}

func TestShellServesCachedAssets(t *testing.T) {
	s := newContext(t, "")
	h := s.Routes()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, s.Assets.Load().Version(), rec.Header().Get("X-Shell-Cache"))

	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/index.html", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/icon-512.png", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=86400", rec.Header().Get("Cache-Control"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sw.js", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), s.Assets.Load().Version())
}

func TestShellWithoutUpstream(t *testing.T) {
	h := newContext(t, "").Routes()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing.js", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/about", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestShellPassesThroughToUpstream(t *testing.T) {
	var gotQuery string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Disposition", `attachment; filename="x.gpx"`)
		_, _ = w.Write([]byte("<gpx/>"))
	}))
	t.Cleanup(upstream.Close)

	h := newContext(t, upstream.URL).Routes()

	target := exporter.Route + "?format=gpx&url=" + url.QueryEscape("https://maps.app.goo.gl/abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<gpx/>", rec.Body.String())
	assert.Equal(t, `attachment; filename="x.gpx"`, rec.Header().Get("Content-Disposition"))
	assert.Contains(t, gotQuery, "format=gpx")

	// cached assets still win over the upstream
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/manifest.json", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/manifest+json", rec.Header().Get("Content-Type"))
}

func TestInvalidUpstream(t *testing.T) {
	c, err := shell.Build(assets.FS, shell.BuildOptions{})
	require.NoError(t, err)

	_, err = NewServerContext(shell.NewHolder(c), "not a url")
	assert.Error(t, err)
}
