// Package logger configures the global zerolog logger from command line options.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger holds logging options, embedded into command options as a group.
type Logger struct {
	Level   string `long:"log-level"    env:"LOG_LEVEL"    description:"Log level" choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error" default:"info"`
	Format  string `long:"log-format"   env:"LOG_FORMAT"   description:"Log output format" choice:"text" choice:"json" default:"text"`
	File    string `long:"log-file"     env:"LOG_FILE"     description:"Write logs to a rotated file instead of stderr"`
	NoColor bool   `long:"log-no-color" env:"LOG_NO_COLOR" description:"Disable colored text output"`
}

// Setup configures the global logger to write to stderr or the log file.
func (l *Logger) Setup() {
	l.apply(os.Stderr)
}

// SetupQuiet is Setup for full screen programs: without a log file nothing is written.
func (l *Logger) SetupQuiet() {
	l.apply(io.Discard)
}

func (l *Logger) apply(fallback io.Writer) {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil || l.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = fallback
	color := !l.NoColor
	if l.File != "" {
		out = &lumberjack.Logger{
			Filename:   l.File,
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		}
		color = false
	}

	if l.Format == "text" || l.Format == "" {
		out = zerolog.ConsoleWriter{Out: out, NoColor: !color, TimeFormat: time.DateTime}
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}
