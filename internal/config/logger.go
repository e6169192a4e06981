package config

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the root logger. Components derive sub-loggers from it
// via With(), so service fields set here appear on every line.
func NewLogger(cfg LoggerConfig) zerolog.Logger {
	var level zerolog.Level
	switch cfg.Level {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	default:
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Str("service", "clinic-offers").Logger()
	} else {
		logger = zerolog.New(os.Stdout).With().Timestamp().Str("service", "clinic-offers").Logger()
	}

	return logger
}
