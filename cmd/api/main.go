package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/kickoff-quiz/internal/app"
	"github.com/gokatarajesh/kickoff-quiz/internal/config"
)

func main() {
	envFile := flag.String("env", "configs/.env", "Optional dotenv file loaded outside production")
	flag.Parse()

	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(*envFile); err != nil {
			log.Warn().Err(err).Str("file", *envFile).Msg("could not load dotenv file")
		}
	}

	loadCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	cfg, err := config.Load(loadCtx)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx := context.Background()
	server, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("app", cfg.Name).Msg("failed to build app")
	}

	if err := server.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}
