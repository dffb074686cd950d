package shell

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/woozymasta/gmexport/assets"
	"github.com/woozymasta/gmexport/internal/exporter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testOpts = BuildOptions{
	Endpoints: exporter.Endpoints{Production: "https://prod.example", Local: "http://localhost:8000"},
}

func sourceFS(t *testing.T) fstest.MapFS {
	t.Helper()
	out := fstest.MapFS{}
	for _, name := range []string{"index.html.tpl", "style.css", "script.js", "sw.js.tpl"} {
		data, err := fs.ReadFile(assets.FS, name)
		require.NoError(t, err)
		out[name] = &fstest.MapFile{Data: data}
	}
	return out
}

func TestBuild(t *testing.T) {
	c, err := Build(assets.FS, testOpts)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(c.Version(), "gmaps-exporter-"))
	for _, p := range []string{IndexPath, ManifestPath, WorkerPath, "/icon-192.png", "/icon-512.png", "/icon-512.webp"} {
		a, ok := c.Get(p)
		require.True(t, ok, p)
		assert.NotEmpty(t, a.Body, p)
		assert.NotEmpty(t, a.ETag, p)
	}

	index, _ := c.Get(IndexPath)
	assert.Contains(t, string(index.Body), "https://prod.example")
	assert.Contains(t, string(index.Body), "exportFormat")
	assert.Contains(t, string(index.Body), "maps.app.goo.gl")
	assert.Contains(t, string(index.Body), "KMZ")

	worker, _ := c.Get(WorkerPath)
	assert.Contains(t, string(worker.Body), c.Version())
	assert.Contains(t, string(worker.Body), "/share-target")
	assert.Contains(t, string(worker.Body), "/manifest.json")
}

func TestBuildManifestShareTarget(t *testing.T) {
	c, err := Build(assets.FS, testOpts)
	require.NoError(t, err)

	a, _ := c.Get(ManifestPath)
	var doc webManifest
	require.NoError(t, json.Unmarshal(a.Body, &doc))
	assert.Equal(t, SharePath, doc.ShareTarget.Action)
	assert.Equal(t, "url", doc.ShareTarget.Params.URL)
	assert.Len(t, doc.Icons, len(iconSpecs))
}

func TestBuildIcons(t *testing.T) {
	c, err := Build(assets.FS, testOpts)
	require.NoError(t, err)

	a, _ := c.Get("/icon-192.png")
	img, err := png.Decode(bytes.NewReader(a.Body))
	require.NoError(t, err)
	assert.Equal(t, 192, img.Bounds().Dx())
	assert.Equal(t, iconMaxAge, a.MaxAge)
}

func TestVersionTracksContent(t *testing.T) {
	src := sourceFS(t)
	first, err := Build(src, testOpts)
	require.NoError(t, err)
	second, err := Build(src, testOpts)
	require.NoError(t, err)
	assert.Equal(t, first.Version(), second.Version())

	src["style.css"] = &fstest.MapFile{Data: append(src["style.css"].Data, []byte("\nh2 { color: red; }")...)}
	changed, err := Build(src, testOpts)
	require.NoError(t, err)
	assert.NotEqual(t, first.Version(), changed.Version())
}

func TestHolderSwapIsWholesale(t *testing.T) {
	src := sourceFS(t)
	first, err := Build(src, testOpts)
	require.NoError(t, err)
	same, err := Build(src, testOpts)
	require.NoError(t, err)

	h := NewHolder(first)
	assert.False(t, h.Swap(same))
	assert.Same(t, first, h.Load())

	src["script.js"] = &fstest.MapFile{Data: append(src["script.js"].Data, []byte("\nconsole.log(1);")...)}
	next, err := Build(src, testOpts)
	require.NoError(t, err)
	assert.True(t, h.Swap(next))
	assert.Same(t, next, h.Load())
}

func TestBuildMissingSource(t *testing.T) {
	src := sourceFS(t)
	delete(src, "script.js")
	_, err := Build(src, testOpts)
	assert.ErrorContains(t, err, "script.js")
}

func TestWatcherRebuild(t *testing.T) {
	dir := t.TempDir()
	for name, f := range sourceFS(t) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), f.Data, 0644))
	}

	initial, err := Build(os.DirFS(dir), testOpts)
	require.NoError(t, err)
	h := NewHolder(initial)

	w, err := NewWatcher(dir, testOpts, h)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.fsw.Close() })

	assert.False(t, w.Rebuild())

	f, err := os.OpenFile(filepath.Join(dir, "style.css"), os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("\nfooter { margin: 0; }")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.True(t, w.Rebuild())
	assert.NotEqual(t, initial.Version(), h.Load().Version())
}
