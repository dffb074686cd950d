package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/woozymasta/gmexport/assets"
	"github.com/woozymasta/gmexport/internal/config"
	"github.com/woozymasta/gmexport/internal/logger"
	"github.com/woozymasta/gmexport/internal/server"
	"github.com/woozymasta/gmexport/internal/shell"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"     env:"CONFIG_FILE"    description:"Path to configuration file" default:"config.yaml"`
	Addr       string `short:"a" long:"addr"       env:"LISTEN_ADDRESS" description:"Address to listen on"       default:"0.0.0.0"`
	Port       int    `short:"p" long:"port"       env:"LISTEN_PORT"    description:"Port to listen on"          default:"8080"`
	AssetsDir  string `short:"d" long:"assets-dir" env:"ASSETS_DIR"     description:"Serve shell sources from a directory instead of the embedded copy"`
	Watch      bool   `short:"w" long:"watch"      env:"ASSETS_WATCH"   description:"Rebuild the shell when files in --assets-dir change"`
	Upstream   string `short:"u" long:"upstream"   env:"UPSTREAM"       description:"Export service to pass unknown requests through to"`
	Open       bool   `long:"open"                                      description:"Open the page in the default browser"`
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

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if opts.Upstream != "" {
		cfg.Upstream = opts.Upstream
	}

	buildOpts := shell.BuildOptions{Endpoints: cfg.Endpoints}
	if cfg.Upstream != "" {
		// page calls the export route on its own origin, proxied upstream
		buildOpts.Endpoints.Production = ""
	}

	var src fs.FS = assets.FS
	if opts.AssetsDir != "" {
		src = os.DirFS(opts.AssetsDir)
	}

	cache, err := shell.Build(src, buildOpts)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build shell")
	}
	holder := shell.NewHolder(cache)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.Watch {
		if opts.AssetsDir == "" {
			log.Fatal().Msg("--watch requires --assets-dir")
		}
		watcher, err := shell.NewWatcher(opts.AssetsDir, buildOpts, holder)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to watch assets")
		}
		go watcher.Run(ctx)
	}

	srvCtx, err := server.NewServerContext(holder, cfg.Upstream)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           srvCtx.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}()

	log.Info().
		Str("addr", listenAddr).
		Str("cache", cache.Version()).
		Str("upstream", cfg.Upstream).
		Bool("watch", opts.Watch).
		Msg("Web server started")

	if opts.Open {
		go openBrowser(opts.Port)
	}

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
	log.Info().Msg("Web server stopped")
}

func openBrowser(port int) {
	page := fmt.Sprintf("http://localhost:%d/", port)
	if err := browser.OpenURL(page); err != nil {
		log.Warn().Err(err).Str("url", page).Msg("Failed to open browser")
	}
}
