package main

import (
	"context"
	"errors"
	"os"

	"github.com/rs/zerolog"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/config"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/repository/postgres"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/service"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	repos := postgres.NewRepositories(db)
	themes := service.NewThemeService(repos.Theme)

	if err := themes.Seed(context.Background()); err != nil {
		if errors.Is(err, service.ErrThemesAlreadySeeded) {
			log.Info().Msg("themes already seeded, nothing to do")
			return
		}
		log.Fatal().Err(err).Msg("failed to seed themes")
	}

	log.Info().Msg("theme catalog seeded")
}
