// Package logger configures the global zerolog logger.
package logger

import (
	"os"
	"purohit/config"
	"purohit/shared/constant"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger installs a human readable console logger at trace level. It runs
// before config is loaded so startup failures are still logged.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	log.Trace().Msg("Zerolog initialized.")
}

// Configure applies the configured level and, in production, switches to
// JSON lines on stdout.
func Configure(cfg *config.Config) {
	if cfg.Server.Env == constant.ServerEnvProduction {
		log.Logger = log.Output(os.Stdout).With().Str("service", cfg.App.Name).Logger()
	}

	zerolog.SetGlobalLevel(Level(cfg.Server.LogLevel, cfg.Server.Env))
}

// Level parses raw. Production without a level logs at info; anything
// unparseable falls back to trace.
func Level(raw, env string) zerolog.Level {
	level, err := zerolog.ParseLevel(raw)

	switch {
	case err != nil:
		log.Trace().Str("loglevel", raw).Msg("Invalid log level configured, using trace.")

		return zerolog.TraceLevel
	case level == zerolog.NoLevel && env == constant.ServerEnvProduction:
		return zerolog.InfoLevel
	default:
		return level
	}
}

func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}
