package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/woozymasta/gmexport/internal/logger"

	"github.com/jessevdk/go-flags"
)

// Options are shared by every command.
type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config" env:"GMEXPORT_CONFIG" description:"Path to configuration file"`
	Output     string `short:"o" long:"output" env:"GMEXPORT_OUTPUT" description:"Directory or s3://bucket/prefix for exported files"`
	Settings   string `long:"settings"         env:"GMEXPORT_SETTINGS" description:"Path of the stored format preference"`
	Local      bool   `short:"l" long:"local"  env:"GMEXPORT_LOCAL"  description:"Use the local development endpoint"`

	TUI    TUICommand    `command:"tui"    description:"Interactive client (default)"`
	Export ExportCommand `command:"export" description:"Export a Google Maps link once and exit"`
	Format FormatCommand `command:"format" description:"Show or change the stored export format"`
}

var (
	opts Options
	ctx  context.Context
)

func main() {
	var stop context.CancelFunc
	ctx, stop = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	parser := flags.NewParser(&opts, flags.Default)
	parser.SubcommandsOptional = true

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		stop()
		os.Exit(1)
	}

	if parser.Active == nil {
		if code := runDefault(os.Stderr); code != 0 {
			stop()
			os.Exit(code)
		}
	}
}

// runDefault runs the tui command when none was named. The full screen
// logger writes nowhere, so failures are printed the way go-flags does.
func runDefault(stderr io.Writer) int {
	if err := opts.TUI.Execute(nil); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}
