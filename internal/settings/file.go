package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/woozymasta/gmexport/internal/format"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const appDir = "gmexport"

// File is a Store backed by a small YAML document on disk.
type File struct {
	path string
	lock *flock.Flock
}

type document struct {
	ExportFormat string `yaml:"exportFormat"`
}

// NewFile returns a File store at path. The file is created on first write.
func NewFile(path string) *File {
	return &File{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the location of the settings document.
func (f *File) Path() string {
	return f.path
}

// Format implements Store. Missing, unreadable or stale values read as format.Default.
func (f *File) Format() format.Format {
	doc, err := f.read()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", f.path).Msg("Failed to read settings, using default format")
		}
		return format.Default
	}

	v := format.Sanitize(doc.ExportFormat)
	if doc.ExportFormat != "" && string(v) != doc.ExportFormat {
		log.Warn().
			Str("stored", doc.ExportFormat).
			Str("using", string(v)).
			Msg("Stored export format is not recognized")
	}
	return v
}

// SetFormat implements Store.
func (f *File) SetFormat(v format.Format) error {
	if !v.Valid() {
		return format.ErrUnknown
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	if err := f.lock.Lock(); err != nil {
		return fmt.Errorf("lock settings: %w", err)
	}
	defer func() { _ = f.lock.Unlock() }()

	data, err := yaml.Marshal(document{ExportFormat: string(v)})
	if err != nil {
		return err
	}

	tmp := filepath.Join(filepath.Dir(f.path), "."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace settings: %w", err)
	}

	log.Debug().Str("path", f.path).Str(Key, string(v)).Msg("Export format saved")
	return nil
}

func (f *File) read() (document, error) {
	var doc document
	data, err := os.ReadFile(f.path)
	if err != nil {
		return doc, err
	}
	err = yaml.Unmarshal(data, &doc)
	return doc, err
}

// DefaultPath returns the per-user settings location based on OS conventions.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "settings.yaml")
}

// ConfigDir returns the per-user config root.
func ConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		return filepath.Join(appData, appDir)
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", appDir)
	default:
		configHome := os.Getenv("XDG_CONFIG_HOME")
		if configHome == "" {
			home, _ := os.UserHomeDir()
			configHome = filepath.Join(home, ".config")
		}
		return filepath.Join(configHome, appDir)
	}
}
