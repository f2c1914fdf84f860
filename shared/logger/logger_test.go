package logger_test

import (
	"bytes"
	"errors"
	"purohit/config"
	"purohit/shared/constant"
	"purohit/shared/logger"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func restore(t *testing.T) {
	t.Helper()

	original := log.Logger
	level := zerolog.GlobalLevel()

	t.Cleanup(func() {
		log.Logger = original
		zerolog.SetGlobalLevel(level)
	})
}

func TestInitLogger(t *testing.T) {
	restore(t)

	logger.InitLogger()

	assert.Equal(t, zerolog.TimeFormatUnix, zerolog.TimeFieldFormat)
	assert.Equal(t, zerolog.TraceLevel, zerolog.GlobalLevel())
}

func TestErrorWithStack(t *testing.T) {
	restore(t)

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	logger.ErrorWithStack(errors.New("insert failed"))

	assert.Contains(t, buf.String(), "insert failed")
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestLevel(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		env  string
		want zerolog.Level
	}{
		{"explicit debug", "debug", constant.ServerEnvDevelopment, zerolog.DebugLevel},
		{"explicit warn in production", "warn", constant.ServerEnvProduction, zerolog.WarnLevel},
		{"unset in production", "", constant.ServerEnvProduction, zerolog.InfoLevel},
		{"unset in development", "", constant.ServerEnvDevelopment, zerolog.NoLevel},
		{"garbage", "loud", constant.ServerEnvProduction, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.Level(tt.raw, tt.env))
		})
	}
}

func TestConfigure(t *testing.T) {
	restore(t)

	cfg := &config.Config{}
	cfg.Server.Env = constant.ServerEnvDevelopment
	cfg.Server.LogLevel = "error"

	logger.Configure(cfg)

	assert.Equal(t, zerolog.ErrorLevel, zerolog.GlobalLevel())
}
