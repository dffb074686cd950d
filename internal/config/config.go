// Package config handles configuration loading and defaults.
package config

import (
	"errors"
	"os"

	"github.com/woozymasta/gmexport/internal/download"
	"github.com/woozymasta/gmexport/internal/exporter"
	"github.com/woozymasta/gmexport/internal/settings"

	"gopkg.in/yaml.v3"
)

// Default service addresses.
const (
	DefaultProductionEndpoint = "https://api.gmaps-exporter.app"
	DefaultLocalEndpoint      = "http://localhost:8000"
)

// Config represents the root configuration file structure.
type Config struct {
	Endpoints exporter.Endpoints `yaml:"endpoints"`

	// Output is a directory or an s3://bucket/prefix destination.
	Output string `yaml:"output,omitempty"`
	// Settings is the path of the format preference document.
	Settings string `yaml:"settings,omitempty"`
	// Upstream receives requests the shell server does not serve itself.
	Upstream string `yaml:"upstream,omitempty"`

	S3 download.S3Options `yaml:"s3,omitempty"`
}

// Defaults returns a configuration with every field set.
func Defaults() *Config {
	return &Config{
		Endpoints: exporter.Endpoints{
			Production: DefaultProductionEndpoint,
			Local:      DefaultLocalEndpoint,
		},
		Output:   download.DefaultDir(),
		Settings: settings.DefaultPath(),
	}
}

// Load reads the YAML configuration at path on top of Defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// keep defaults for partially filled blocks
	def := Defaults()
	if cfg.Endpoints.Production == "" {
		cfg.Endpoints.Production = def.Endpoints.Production
	}
	if cfg.Endpoints.Local == "" {
		cfg.Endpoints.Local = def.Endpoints.Local
	}
	if cfg.Output == "" {
		cfg.Output = def.Output
	}
	if cfg.Settings == "" {
		cfg.Settings = def.Settings
	}

	return cfg, nil
}
