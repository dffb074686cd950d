package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/woozymasta/gmexport/internal/format"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryDefaultsAndRoundTrip(t *testing.T) {
	m := NewMemory("")
	assert.Equal(t, format.GeoJSON, m.Format())

	require.NoError(t, m.SetFormat(format.KMZ))
	assert.Equal(t, format.KMZ, m.Format())

	assert.ErrorIs(t, m.SetFormat(format.Format("shp")), format.ErrUnknown)
	assert.Equal(t, format.KMZ, m.Format())
}

func TestMemoryStaleValue(t *testing.T) {
	assert.Equal(t, format.GeoJSON, NewMemory("topojson").Format())
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")

	store := NewFile(path)
	assert.Equal(t, format.GeoJSON, store.Format(), "missing file reads as default")

	require.NoError(t, store.SetFormat(format.KMZ))

	// A fresh store simulates a new session.
	reloaded := NewFile(path)
	assert.Equal(t, format.KMZ, reloaded.Format())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "exportFormat: kmz")
}

func TestFileStaleOrCorruptValue(t *testing.T) {
	dir := t.TempDir()

	stale := filepath.Join(dir, "stale.yaml")
	require.NoError(t, os.WriteFile(stale, []byte("exportFormat: topojson\n"), 0644))
	assert.Equal(t, format.GeoJSON, NewFile(stale).Format())

	corrupt := filepath.Join(dir, "corrupt.yaml")
	require.NoError(t, os.WriteFile(corrupt, []byte("exportFormat: [\n"), 0644))
	assert.Equal(t, format.GeoJSON, NewFile(corrupt).Format())
}

func TestFileRejectsUnknownFormat(t *testing.T) {
	store := NewFile(filepath.Join(t.TempDir(), "settings.yaml"))
	assert.ErrorIs(t, store.SetFormat(format.Format("shp")), format.ErrUnknown)
	_, err := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err))
}
