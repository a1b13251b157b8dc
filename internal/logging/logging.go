// Package logging configures the zerolog loggers used by the command line
// tool. Library packages never log on their own; they take a
// zerolog.Logger through their options and default to zerolog.Nop().
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger initialization.
// Values can be provided directly or via environment variables:
//   - SLUGLINE_LOG_LEVEL=debug|info|warn|error|off
//   - SLUGLINE_LOG_FORMAT=console|json
//   - SLUGLINE_LOG_FILE=<path> (adds a rotated JSON log file)
//
// Defaults: info level, console format on stderr.
type Options struct {
	Level  string
	Format string // "console" or "json"
	File   string

	// Out receives console or JSON output; nil means os.Stderr
	Out io.Writer
}

var (
	defaultMu     sync.RWMutex
	defaultLogger *zerolog.Logger
	defaultFile   *lj.Logger
)

// FromEnv builds Options from environment variables.
func FromEnv() Options {
	return Options{
		Level:  getenv("SLUGLINE_LOG_LEVEL", "info"),
		Format: getenv("SLUGLINE_LOG_FORMAT", "console"),
		File:   os.Getenv("SLUGLINE_LOG_FILE"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// New builds a logger from opts. The returned closer releases the log file,
// if one was opened.
func New(opts Options) (zerolog.Logger, io.Closer) {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	var console io.Writer = out
	if !strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		console = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	var file *lj.Logger
	w := console
	if strings.TrimSpace(opts.File) != "" {
		file = &lj.Logger{Filename: opts.File, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		w = zerolog.MultiLevelWriter(console, file)
	}

	logger := zerolog.New(w).
		Level(parseLevel(opts.Level)).
		With().
		Timestamp().
		Str("app", "slugline").
		Logger()

	return logger, closer{file}
}

type closer struct{ f *lj.Logger }

func (c closer) Close() error {
	if c.f == nil {
		return nil
	}
	return c.f.Close()
}

// Init configures the default logger and returns it.
func Init(opts Options) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	logger, c := New(opts)

	defaultMu.Lock()
	if defaultFile != nil {
		defaultFile.Close()
	}
	defaultLogger = &logger
	defaultFile = c.(closer).f
	defaultMu.Unlock()

	return logger
}

// L returns the default logger, initializing it from the environment if
// needed.
func L() zerolog.Logger {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	if l != nil {
		return *l
	}
	return Init(FromEnv())
}

// Close releases the default logger's file, if any.
func Close() error {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultFile == nil {
		return nil
	}
	err := defaultFile.Close()
	defaultFile = nil
	return err
}

// WithComponent returns a logger with the component field pre-set.
func WithComponent(name string) zerolog.Logger {
	return L().With().Str("component", name).Logger()
}

// WithOperation annotates the logger with an operation name.
func WithOperation(l zerolog.Logger, op string) zerolog.Logger {
	return l.With().Str("op", op).Logger()
}

// parseLevel converts a level name to a zerolog level.
func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "off", "disabled", "none":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
