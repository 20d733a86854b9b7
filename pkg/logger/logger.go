// Package logger builds the zerolog loggers used across the client.
//
// Logs go to stderr by default so command output on stdout stays
// parseable. Pretty output is meant for terminals; leave it off when logs
// are collected.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures New. The zero value logs JSON at info to stderr.
type Options struct {
	Level   string // trace, debug, info, warn (warning), error
	Pretty  bool
	Output  io.Writer
	Service string // stamped as "service" on every entry when set
}

var levels = map[string]zerolog.Level{
	"trace":   zerolog.TraceLevel,
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
}

// New returns a logger for opts. Call sites are only recorded at debug
// and below.
func New(opts Options) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	level := parseLevel(opts.Level)

	fields := zerolog.New(writerFor(opts)).Level(level).With().Timestamp()
	if opts.Service != "" {
		fields = fields.Str("service", opts.Service)
	}
	if level <= zerolog.DebugLevel {
		fields = fields.Caller()
	}
	return fields.Logger()
}

// Named tags base with the subsystem that writes through it.
func Named(base zerolog.Logger, component string) zerolog.Logger {
	return base.With().Str("component", component).Logger()
}

func writerFor(opts Options) io.Writer {
	w := opts.Output
	if w == nil {
		w = os.Stderr
	}
	if opts.Pretty {
		return zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return w
}

// parseLevel falls back to info for anything it does not know.
func parseLevel(s string) zerolog.Level {
	if lvl, ok := levels[strings.ToLower(strings.TrimSpace(s))]; ok {
		return lvl
	}
	return zerolog.InfoLevel
}
