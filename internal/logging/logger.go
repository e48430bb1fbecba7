// Feedrank - Personalized Recommendation and Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/feedrank

package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Config mirrors config.LoggingConfig plus an optional writer.
type Config struct {
	Level  string
	Format string
	Caller bool

	// Output defaults to os.Stderr.
	Output io.Writer
}

var global atomic.Pointer[zerolog.Logger]

//nolint:gochecknoinits // the package logger must work before Init
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFieldName = "time"
	zerolog.MessageFieldName = "message"

	l := newLogger(Config{Level: "info", Format: "json"})
	global.Store(&l)
}

// Init replaces the package logger. Safe to call more than once.
func Init(cfg Config) {
	l := newLogger(cfg)
	global.Store(&l)
}

func newLogger(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	lc := zerolog.New(out).Level(ParseLevel(cfg.Level)).With().Timestamp()
	if cfg.Caller {
		lc = lc.Caller()
	}
	return lc.Logger()
}

// ParseLevel maps a level name to zerolog.Level. Unknown names mean info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Logger returns a copy of the package logger.
func Logger() zerolog.Logger {
	return *global.Load()
}

// WithComponent returns a child of the package logger tagged with component.
// Long-lived components take one at construction.
func WithComponent(component string) zerolog.Logger {
	return global.Load().With().Str("component", component).Logger()
}

// Info starts an info event on the package logger.
func Info() *zerolog.Event { return global.Load().Info() }

// Warn starts a warn event on the package logger.
func Warn() *zerolog.Event { return global.Load().Warn() }

// Error starts an error event on the package logger.
func Error() *zerolog.Event { return global.Load().Error() }

// Fatal logs and then calls os.Exit(1).
func Fatal() *zerolog.Event { return global.Load().Fatal() }

// NewTestLogger returns a JSON logger writing to w at every level.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
