package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultService = "pawnledger"

// Config holds logger configuration.
type Config struct {
	Level   string // trace, debug, info, warn, error
	Format  string // json, console
	Service string // defaults to pawnledger
	Output  io.Writer
}

// New builds the application logger. Debug and trace loggers also record the caller.
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	service := cfg.Service
	if service == "" {
		service = defaultService
	}

	level := parseLevel(cfg.Level)
	ctx := zerolog.New(out).Level(level).With().Timestamp().Str("service", service)
	if level <= zerolog.DebugLevel {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// SetGlobal installs l behind github.com/rs/zerolog/log. Durations are logged in
// milliseconds so request latency and upstream timings read the same everywhere.
func SetGlobal(l zerolog.Logger) {
	zerolog.DurationFieldUnit = time.Millisecond
	zerolog.SetGlobalLevel(l.GetLevel())
	log.Logger = l
}

// parseLevel falls back to info for empty or unknown names.
func parseLevel(name string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
