package main

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/woozymasta/gmexport/internal/config"
	"github.com/woozymasta/gmexport/internal/format"
	"github.com/woozymasta/gmexport/internal/mapsurl"
	"github.com/woozymasta/gmexport/internal/settings"
	"github.com/woozymasta/gmexport/internal/tui"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog/log"
)

// TUICommand runs the interactive client.
type TUICommand struct {
	Launch    string `long:"launch"    description:"Launch address from an OS share handler, e.g. gmexport:///?url=..."`
	Clipboard bool   `long:"clipboard" description:"Prefill the URL from the clipboard"`
}

// Execute implements flags.Commander.
func (c *TUICommand) Execute(_ []string) error {
	opts.Logger.SetupQuiet()

	a, err := newApp()
	if err != nil {
		return err
	}

	if c.Launch != "" {
		loc, err := url.Parse(c.Launch)
		if err != nil {
			return fmt.Errorf("invalid launch address: %w", err)
		}
		a.Intake(loc)
	}

	if c.Clipboard && a.URL() == "" {
		if link, err := readClipboard(); err == nil {
			a.SetURL(link)
		} else {
			log.Warn().Err(err).Msg("Clipboard ignored")
		}
	}

	return tui.Run(ctx, a)
}

// ExportCommand exports one link and exits.
type ExportCommand struct {
	Format    string `short:"f" long:"format" description:"Export format, stored as the new preference" choice:"geojson" choice:"gpx" choice:"kml" choice:"kmz" choice:"csv"`
	Clipboard bool   `long:"clipboard"        description:"Read the URL from the clipboard"`

	Args struct {
		URL string `positional-arg-name:"url" description:"Google Maps link"`
	} `positional-args:"yes"`
}

// Execute implements flags.Commander.
func (c *ExportCommand) Execute(_ []string) error {
	opts.Logger.Setup()

	a, err := newApp()
	if err != nil {
		return err
	}

	if c.Format != "" {
		f, err := format.Parse(c.Format)
		if err != nil {
			return err
		}
		if err := a.SelectFormat(f); err != nil {
			return err
		}
	}

	link := c.Args.URL
	if link == "" && c.Clipboard {
		if link, err = readClipboard(); err != nil {
			return err
		}
	}
	a.SetURL(link)

	location, err := a.Export(ctx)
	if err != nil {
		return errors.New(a.Banner().Message)
	}

	fmt.Println(location)
	log.Info().Msg(a.Banner().Message)
	return nil
}

// FormatCommand prints or sets the stored export format.
type FormatCommand struct {
	Args struct {
		Name string `positional-arg-name:"format" description:"geojson, gpx, kml, kmz or csv"`
	} `positional-args:"yes"`
}

// Execute implements flags.Commander.
func (c *FormatCommand) Execute(_ []string) error {
	opts.Logger.Setup()

	path := opts.Settings
	if path == "" {
		cfg, err := config.Load(opts.ConfigFile)
		if err != nil {
			return err
		}
		path = cfg.Settings
	}
	store := settings.NewFile(path)

	if c.Args.Name == "" {
		fmt.Println(store.Format())
		return nil
	}

	f, err := format.Parse(c.Args.Name)
	if err != nil {
		names := make([]string, 0, 5)
		for _, v := range format.All() {
			names = append(names, string(v))
		}
		return fmt.Errorf("%w, expected one of: %s", err, strings.Join(names, ", "))
	}
	if err := store.SetFormat(f); err != nil {
		return err
	}

	fmt.Println(f)
	return nil
}

var errClipboardEmpty = errors.New("clipboard does not contain a valid URL")

func readClipboard() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("failed to read from clipboard: %w", err)
	}
	link := mapsurl.Extract(text)
	if link == "" {
		return "", errClipboardEmpty
	}
	return link, nil
}
