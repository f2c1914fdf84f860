package main

import (
	"os"
	"purohit/config"
	"purohit/infras/postgres"
	"purohit/shared/logger"

	"github.com/rs/zerolog/log"
)

const (
	argLength = 2
)

func main() {
	logger.InitLogger()

	if len(os.Args) < argLength {
		log.Fatal().Msg("Migration direction (up, down, drop or step-up) is required")
	}

	cfg := config.Get()

	logger.Configure(cfg)

	if err := postgres.Migrate(cfg, postgres.Direction(os.Args[1])); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
