package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/woozymasta/gmexport/internal/app"
	"github.com/woozymasta/gmexport/internal/download"
	"github.com/woozymasta/gmexport/internal/exporter"
	"github.com/woozymasta/gmexport/internal/format"
	"github.com/woozymasta/gmexport/internal/settings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModel(t *testing.T, status int) (Model, *app.App, *atomic.Int32) {
	t.Helper()
	calls := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if status != 0 {
			w.WriteHeader(status)
		}
		_, _ = w.Write([]byte("data"))
	}))
	t.Cleanup(srv.Close)

	a := app.New(settings.NewMemory(""), download.NewDir(t.TempDir()), app.Options{
		Endpoints:  exporter.Endpoints{Production: srv.URL},
		HTTPClient: srv.Client(),
	})
	return New(context.Background(), a), a, calls
}

func press(m Model, key string) (Model, tea.Cmd) {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		msg = tea.KeyMsg{Type: tea.KeyShiftTab}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// runExport executes the batched command and feeds the export result back.
func runExport(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)

	for _, c := range batch {
		if c == nil {
			continue
		}
		if done, ok := c().(exportDoneMsg); ok {
			next, _ := m.Update(done)
			return next.(Model)
		}
	}
	t.Fatal("export command not found in batch")
	return m
}

func TestTypingUpdatesApp(t *testing.T) {
	m, a, _ := newModel(t, 0)
	m, _ = press(m, "https://maps.app.goo.gl/abc")
	assert.Equal(t, "https://maps.app.goo.gl/abc", a.URL())
}

func TestTabCyclesAndPersistsFormat(t *testing.T) {
	m, a, _ := newModel(t, 0)

	m, _ = press(m, "tab")
	assert.Equal(t, format.GPX, a.Format())
	m, _ = press(m, "shift+tab")
	_, _ = press(m, "shift+tab")
	assert.Equal(t, format.CSV, a.Format())
}

func TestEnterWithEmptyInputDoesNothing(t *testing.T) {
	m, _, calls := newModel(t, 0)
	_, cmd := press(m, "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, int32(0), calls.Load())
}

func TestExportLocksUntilDone(t *testing.T) {
	m, a, calls := newModel(t, http.StatusInternalServerError)
	m, _ = press(m, "https://maps.app.goo.gl/abc")

	m, cmd := press(m, "enter")
	assert.True(t, m.pending)

	// second trigger and format changes are ignored while pending
	_, again := press(m, "enter")
	assert.Nil(t, again)
	m, _ = press(m, "tab")
	assert.Equal(t, format.GeoJSON, a.Format())

	m = runExport(t, m, cmd)
	assert.False(t, m.pending)
	assert.Equal(t, int32(1), calls.Load())
	assert.Contains(t, m.View(), "failed to export location data")

	m, _ = press(m, "esc")
	assert.False(t, a.Banner().Visible())
	assert.NotContains(t, m.View(), "failed to export location data")
}

func TestViewShowsFormats(t *testing.T) {
	m, _, _ := newModel(t, 0)
	view := m.View()
	for _, f := range format.All() {
		assert.Contains(t, view, f.Label())
	}
}
