package main

import (
	"github.com/woozymasta/gmexport/internal/app"
	"github.com/woozymasta/gmexport/internal/config"
	"github.com/woozymasta/gmexport/internal/download"
	"github.com/woozymasta/gmexport/internal/settings"

	"github.com/rs/zerolog/log"
)

// loadConfig reads the config file and applies command line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if opts.Output != "" {
		cfg.Output = opts.Output
	}
	if opts.Settings != "" {
		cfg.Settings = opts.Settings
	}
	return cfg, nil
}

// newApp wires the client from configuration.
func newApp() (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		log.Error().Err(err).Str("path", opts.ConfigFile).Msg("Failed to load configuration")
		return nil, err
	}

	sink, err := download.NewSink(ctx, cfg.Output, cfg.S3)
	if err != nil {
		log.Error().Err(err).Str("output", cfg.Output).Msg("Failed to prepare output")
		return nil, err
	}

	a := app.New(settings.NewFile(cfg.Settings), sink, app.Options{
		Endpoints: cfg.Endpoints,
		Local:     opts.Local,
	})

	log.Debug().
		Str("output", cfg.Output).
		Str("settings", cfg.Settings).
		Str("endpoint", cfg.Endpoints.Base(a.Local())).
		Msg("Client ready")

	return a, nil
}
