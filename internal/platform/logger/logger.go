package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
)

func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	default:
		return FormatConsole
	}
}

func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

type Options struct {
	Level  zerolog.Level
	Format Format
	App    string
}

func New(opts Options) zerolog.Logger {
	var l zerolog.Logger
	switch opts.Format {
	case FormatJSON:
		l = zerolog.New(os.Stdout)
	default:
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	ctx := l.Level(opts.Level).With().Timestamp()
	if app := strings.TrimSpace(opts.App); app != "" {
		ctx = ctx.Str("app", app)
	}
	return ctx.Logger()
}

// NewFromEnv crea logger desde env:
// - LOG_LEVEL=debug|info|warn|error (default info)
// - LOG_FORMAT=console|json (default console)
// - APP_NAME=pet-care-marketplace (opcional)
func NewFromEnv() zerolog.Logger {
	return New(Options{
		Level:  ParseLevel(os.Getenv("LOG_LEVEL")),
		Format: ParseFormat(os.Getenv("LOG_FORMAT")),
		App:    os.Getenv("APP_NAME"),
	})
}
