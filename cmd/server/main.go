package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/api"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/assets"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/battle"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/config"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/generation/lyrics"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/generation/music"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/repository/postgres"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/service"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/websocket"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Environment == "development" {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// Initialize WebSocket hub
	hub := websocket.NewHub(log)
	go hub.Run()
	defer hub.Stop()

	// Asset storage for generated audio
	store, err := assets.NewDiskStore(cfg.AssetDir, "/api/v1/assets")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize asset store")
	}

	// Battle orchestration core
	gate := battle.NewGate(repos.Battle, cfg.GatePoll)
	progress := battle.NewProgress(repos.Battle, repos.Turn)
	playback := battle.NewPlayback(repos.Battle, repos.Turn, repos.Track, hub, cfg.PlaybackBuffer, log)
	executor := battle.NewExecutor(battle.ExecutorDeps{
		Battles:         repos.Battle,
		Turns:           repos.Turn,
		Tracks:          repos.Track,
		Gate:            gate,
		Lyrics:          lyrics.NewClient(cfg.LyricsAPIKey, cfg.LyricsBaseURL, cfg.LyricsModel),
		Music:           music.NewClient(cfg.MusicAPIKey, cfg.MusicBaseURL),
		Assets:          store,
		Progress:        progress,
		Playback:        playback,
		Notifier:        hub,
		TurnWindow:      cfg.TurnWindow,
		MusicDurationMs: cfg.MusicDurationMs,
		Log:             log,
	})
	runner := battle.NewRunner(repos.Battle, repos.Turn, executor, progress, playback, cfg.GatePoll, log)

	// Initialize services
	services := service.NewServices(repos, cfg, runner, hub, store, log)

	// Initialize router
	router := api.NewRouter(services, hub, store)

	// Re-arm completion checks for playback that was mid-flight, then pick
	// up battles whose workflow loop was cut short.
	if err := playback.Resume(context.Background()); err != nil {
		log.Error().Err(err).Msg("failed to resume playback checks")
	}
	if err := runner.Resume(context.Background()); err != nil {
		log.Error().Err(err).Msg("failed to resume battles")
	}

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
