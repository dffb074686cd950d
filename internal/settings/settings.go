// Package settings persists the per-device export format preference.
package settings

import (
	"sync"

	"github.com/woozymasta/gmexport/internal/format"
)

// Key is the fixed name the preference is stored under.
const Key = "exportFormat"

// Store is the typed contract for the format preference.
type Store interface {
	Format() format.Format
	SetFormat(format.Format) error
}

// Memory is an in-process Store.
type Memory struct {
	mu    sync.Mutex
	value string
}

// NewMemory returns a Memory store holding the raw value v.
// An empty or unknown v reads back as format.Default.
func NewMemory(v string) *Memory {
	return &Memory{value: v}
}

// Format implements Store.
func (m *Memory) Format() format.Format {
	m.mu.Lock()
	defer m.mu.Unlock()
	return format.Sanitize(m.value)
}

// SetFormat implements Store.
func (m *Memory) SetFormat(f format.Format) error {
	if !f.Valid() {
		return format.ErrUnknown
	}
	m.mu.Lock()
	m.value = string(f)
	m.mu.Unlock()
	return nil
}
