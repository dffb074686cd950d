package main

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/woozymasta/gmexport/internal/config"
	"github.com/woozymasta/gmexport/internal/logger"
	"github.com/woozymasta/gmexport/internal/shell"

	"github.com/dustin/go-humanize"
	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" description:"Path to configuration file" default:"config.yaml"`
	Src        string `short:"s" long:"src"    description:"Shell sources directory"    default:"assets"`
	Out        string `short:"o" long:"out"    description:"Output directory"           default:"assets"`
}

// rendered maps cache paths to output file names.
var rendered = map[string]string{
	shell.IndexPath:    "index.html",
	shell.WorkerPath:   "sw.js",
	shell.ManifestPath: "manifest.json",
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	var src fs.FS = os.DirFS(opts.Src)
	cache, err := shell.Build(src, shell.BuildOptions{Endpoints: cfg.Endpoints})
	if err != nil {
		log.Fatal().Err(err).Str("src", opts.Src).Msg("Failed to build shell")
	}

	if err := os.MkdirAll(opts.Out, 0o755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create output directory")
	}

	for path, name := range rendered {
		asset, ok := cache.Get(path)
		if !ok {
			continue
		}
		dst := filepath.Join(opts.Out, name)
		if err := os.WriteFile(dst, asset.Body, 0o644); err != nil {
			log.Fatal().Err(err).Str("file", dst).Msg("Failed to write asset")
		}
		log.Info().
			Str("file", dst).
			Str("size", humanize.Bytes(uint64(len(asset.Body)))).
			Msg("Asset written")
	}

	log.Info().Str("cache", cache.Version()).Msg("Minify done")
}
