// Package shell serves the browser single-page shell: the page itself, its
// offline cache (service worker, manifest, icons) and the share-target redirect.
package shell

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"sync/atomic"
	"text/template"

	"github.com/woozymasta/gmexport/internal/exporter"
	"github.com/woozymasta/gmexport/internal/format"
	"github.com/woozymasta/gmexport/internal/mapsurl"
	"github.com/woozymasta/gmexport/internal/settings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	mjson "github.com/tdewolff/minify/v2/json"
)

// Paths of the shell.
const (
	IndexPath    = "/index.html"
	ManifestPath = "/manifest.json"
	WorkerPath   = "/sw.js"
	SharePath    = "/share-target"

	cachePrefix = "gmaps-exporter-"
)

// Asset is one cached shell file.
type Asset struct {
	Path        string
	ContentType string
	ETag        string
	Body        []byte
	// MaxAge > 0 marks assets that may be cached by browsers without revalidation.
	MaxAge int
}

// Cache is an immutable, versioned set of shell assets.
type Cache struct {
	version string
	assets  map[string]Asset
}

// Version is the cache name; it changes whenever any shell asset changes.
func (c *Cache) Version() string {
	return c.version
}

// Get returns the asset at path.
func (c *Cache) Get(path string) (Asset, bool) {
	a, ok := c.assets[path]
	return a, ok
}

// Paths lists cached asset paths in sorted order.
func (c *Cache) Paths() []string {
	paths := make([]string, 0, len(c.assets))
	for p := range c.assets {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Holder publishes the current Cache to concurrent readers.
type Holder struct {
	current atomic.Pointer[Cache]
}

// NewHolder returns a Holder serving c.
func NewHolder(c *Cache) *Holder {
	h := &Holder{}
	h.current.Store(c)
	return h
}

// Load returns the cache being served.
func (h *Holder) Load() *Cache {
	return h.current.Load()
}

// Swap replaces the whole cache when the version differs and reports whether it did.
func (h *Holder) Swap(c *Cache) bool {
	old := h.current.Load()
	if old != nil && old.version == c.version {
		return false
	}
	h.current.Store(c)
	return true
}

// BuildOptions tunes the generated page.
type BuildOptions struct {
	Title string
	// Endpoints are used by the page; an empty Production means same origin.
	Endpoints exporter.Endpoints
}

type pageFormat struct {
	Value string
	Label string
}

type pageData struct {
	Title   string
	CSS     string
	JS      string
	Config  string
	Formats []pageFormat
}

type pageConfig struct {
	Production    string   `json:"production"`
	Local         string   `json:"local"`
	Route         string   `json:"route"`
	StorageKey    string   `json:"storageKey"`
	DefaultFormat string   `json:"defaultFormat"`
	Formats       []string `json:"formats"`
	Markers       []string `json:"markers"`
}

type workerData struct {
	CacheName string
	Assets    string
	SharePath string
}

func newMinifier() *minify.M {
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/javascript", js.Minify)
	m.AddFunc("application/json", mjson.Minify)
	return m
}

// Build renders and minifies the shell from the sources in fsys.
func Build(fsys fs.FS, opts BuildOptions) (*Cache, error) {
	if opts.Title == "" {
		opts.Title = "Google Maps Export Tool"
	}
	m := newMinifier()

	cssMin, err := minifyFile(m, fsys, "style.css", "text/css")
	if err != nil {
		return nil, err
	}
	jsMin, err := minifyFile(m, fsys, "script.js", "text/javascript")
	if err != nil {
		return nil, err
	}

	index, err := renderIndex(m, fsys, opts, cssMin, jsMin)
	if err != nil {
		return nil, err
	}

	manifest, err := renderManifest(m, opts.Title)
	if err != nil {
		return nil, err
	}

	assets := map[string]Asset{
		IndexPath:    newAsset(IndexPath, "text/html; charset=utf-8", index, 0),
		ManifestPath: newAsset(ManifestPath, "application/manifest+json", manifest, 0),
	}

	icons, err := renderIcons()
	if err != nil {
		return nil, err
	}
	for _, icon := range icons {
		assets[icon.Path] = icon
	}

	version := cachePrefix + hashAssets(assets)

	worker, err := renderWorker(m, fsys, version, assets)
	if err != nil {
		return nil, err
	}
	assets[WorkerPath] = newAsset(WorkerPath, "text/javascript; charset=utf-8", worker, 0)

	return &Cache{version: version, assets: assets}, nil
}

func newAsset(path, contentType string, body []byte, maxAge int) Asset {
	sum := sha256.Sum256(body)
	return Asset{
		Path:        path,
		ContentType: contentType,
		ETag:        `"` + hex.EncodeToString(sum[:8]) + `"`,
		Body:        body,
		MaxAge:      maxAge,
	}
}

func minifyFile(m *minify.M, fsys fs.FS, name, mediatype string) (string, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	out, err := m.String(mediatype, string(raw))
	if err != nil {
		return "", fmt.Errorf("minify %s: %w", name, err)
	}
	return out, nil
}

func renderIndex(m *minify.M, fsys fs.FS, opts BuildOptions, cssMin, jsMin string) ([]byte, error) {
	raw, err := fs.ReadFile(fsys, "index.html.tpl")
	if err != nil {
		return nil, fmt.Errorf("read index template: %w", err)
	}
	tmpl, err := template.New("index").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}

	formats := format.All()
	cfg := pageConfig{
		Production:    opts.Endpoints.Production,
		Local:         opts.Endpoints.Local,
		Route:         exporter.Route,
		StorageKey:    settings.Key,
		DefaultFormat: string(format.Default),
		Markers:       mapsurl.Markers(),
	}
	data := pageData{Title: opts.Title, CSS: cssMin, JS: jsMin}
	for _, f := range formats {
		cfg.Formats = append(cfg.Formats, string(f))
		data.Formats = append(data.Formats, pageFormat{Value: string(f), Label: f.Label()})
	}

	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	data.Config = string(cfgJSON)

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render index: %w", err)
	}

	out, err := m.Bytes("text/html", buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("minify index: %w", err)
	}
	return out, nil
}

func renderWorker(m *minify.M, fsys fs.FS, version string, assets map[string]Asset) ([]byte, error) {
	raw, err := fs.ReadFile(fsys, "sw.js.tpl")
	if err != nil {
		return nil, fmt.Errorf("read worker template: %w", err)
	}
	tmpl, err := template.New("sw").Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse worker template: %w", err)
	}

	paths := []string{"/"}
	for p := range assets {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	list, err := json.Marshal(paths)
	if err != nil {
		return nil, err
	}
	name, _ := json.Marshal(version)
	share, _ := json.Marshal(SharePath)

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, workerData{CacheName: string(name), Assets: string(list), SharePath: string(share)}); err != nil {
		return nil, fmt.Errorf("render worker: %w", err)
	}

	out, err := m.Bytes("text/javascript", buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("minify worker: %w", err)
	}
	return out, nil
}

// hashAssets digests paths and bodies in a stable order.
func hashAssets(assets map[string]Asset) string {
	paths := make([]string, 0, len(assets))
	for p := range assets {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	h := sha256.New()
	for _, p := range paths {
		h.Write([]byte(p))
		h.Write([]byte{0})
		h.Write(assets[p].Body)
	}
	return hex.EncodeToString(h.Sum(nil))[:12]
}
