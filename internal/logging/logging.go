// Package logging wraps zerolog the way jhkimqd-chaos-utils/pkg/reporting
// does: a small Level/Format config struct feeding a configured
// zerolog.Logger, with field helpers for the structured lines the search
// engine and CLI emit ("search exceeded", "fault scenario ignored", etc, per
// SPEC_FULL.md §7).
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Level is a log verbosity selector.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format selects the wire format of log lines.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config configures a Logger.
type Config struct {
	Level  Level
	Format Format
	Output io.Writer
}

// Logger is a structured logger bound to one circuit-verification run.
type Logger struct {
	z zerolog.Logger
}

// New builds a Logger from cfg, defaulting output to stdout and level to
// info when unset.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	var out io.Writer = cfg.Output
	if cfg.Format == FormatText {
		out = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: time.RFC3339}
	}
	z := zerolog.New(out).With().Timestamp().Logger()
	switch cfg.Level {
	case LevelDebug:
		z = z.Level(zerolog.DebugLevel)
	case LevelWarn:
		z = z.Level(zerolog.WarnLevel)
	case LevelError:
		z = z.Level(zerolog.ErrorLevel)
	default:
		z = z.Level(zerolog.InfoLevel)
	}
	return &Logger{z: z}
}

func (l *Logger) Debug(msg string) { l.z.Debug().Msg(msg) }
func (l *Logger) Info(msg string)  { l.z.Info().Msg(msg) }
func (l *Logger) Warn(msg string)  { l.z.Warn().Msg(msg) }
func (l *Logger) Error(err error, msg string) {
	l.z.Error().Err(err).Msg(msg)
}

// WithProperty returns a child logger tagging every subsequent line with the
// property name and circuit file being verified.
func (l *Logger) WithProperty(name, file string) *Logger {
	return &Logger{z: l.z.With().Str("property", name).Str("circuit", file).Logger()}
}

// SearchExceeded logs the "search exceeded compiled-in maxima" case
// (SPEC_FULL.md §7: not an error, an ordinary Info line).
func (l *Logger) SearchExceeded(size, max int) {
	l.z.Info().Int("tuple_size", size).Int("max", max).Msg("search exceeded compiled-in maximum tuple size")
}

// FaultScenarioIgnored logs a fault scenario skipped by the ignore list
// (spec.md §7).
func (l *Logger) FaultScenarioIgnored(scenario string) {
	l.z.Debug().Str("scenario", scenario).Msg("fault scenario ignored")
}
