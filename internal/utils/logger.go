package utils

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/navikt/huddle/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogger configures the global zerolog logger. Unknown levels fall back
// to info; format "console" writes human-readable lines, anything else JSON.
func SetupLogger(cfg config.LogConfig) zerolog.Logger {
	return setupLogger(cfg, os.Stdout)
}

func setupLogger(cfg config.LogConfig, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: true}
	}

	log.Logger = zerolog.New(out).With().Timestamp().Str("service", "huddle").Logger()
	return log.Logger
}
