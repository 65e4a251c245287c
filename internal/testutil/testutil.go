package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/api"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/assets"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/battle"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/config"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/domain"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/repository"
	repoPostgres "github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/repository/postgres"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/service"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/websocket"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB creates a new PostgreSQL testcontainer and returns a connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_rap_battle"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	// Run migrations
	err = db.AutoMigrate(
		&domain.User{},
		&domain.UserSession{},
		&domain.Theme{},
		&domain.Battle{},
		&domain.Turn{},
		&domain.MusicTrack{},
		&domain.Cheer{},
	)
	if err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	testDB := &TestDB{
		Container: container,
		DB:        db,
		DSN:       dsn,
	}

	t.Cleanup(func() {
		testDB.Cleanup()
	})

	return testDB
}

// Cleanup terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.Container != nil {
		ctx := context.Background()
		tdb.Container.Terminate(ctx)
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	tables := []string{
		"cheers",
		"turns",
		"music_tracks",
		"battles",
		"themes",
		"user_sessions",
		"users",
	}

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
}

// TestConfig returns a configuration with timings compressed for tests.
func TestConfig() *config.Config {
	return &config.Config{
		Port:               "0", // Random port
		Environment:        "test",
		JWTSecret:          "test-jwt-secret-key-for-testing-only",
		JWTExpirationHours: 1,
		TurnWindow:         300 * time.Millisecond,
		GatePoll:           20 * time.Millisecond,
		PlaybackBuffer:     20 * time.Millisecond,
		MusicDurationMs:    100,
	}
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server   *httptest.Server
	DB       *TestDB
	Repos    *repository.Repositories
	Services *service.Services
	Hub      *websocket.Hub
	Runner   *battle.Runner
	Lyrics   *FakeLyrics
	Music    *FakeMusic
	Config   *config.Config
}

// NewTestServer creates a complete test server with all dependencies.
// Generation providers are faked so no external API is touched.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	testDB := NewTestDB(t)
	cfg := TestConfig()
	log := zerolog.Nop()

	repos := repoPostgres.NewRepositories(testDB.DB)
	hub := websocket.NewHub(log)
	go hub.Run()

	store, err := assets.NewDiskStore(t.TempDir(), "/api/v1/assets")
	if err != nil {
		t.Fatalf("failed to create asset store: %v", err)
	}

	fakeLyrics := NewFakeLyrics()
	fakeMusic := NewFakeMusic(cfg.MusicDurationMs)

	gate := battle.NewGate(repos.Battle, cfg.GatePoll)
	progress := battle.NewProgress(repos.Battle, repos.Turn)
	playback := battle.NewPlayback(repos.Battle, repos.Turn, repos.Track, hub, cfg.PlaybackBuffer, log)
	executor := battle.NewExecutor(battle.ExecutorDeps{
		Battles:         repos.Battle,
		Turns:           repos.Turn,
		Tracks:          repos.Track,
		Gate:            gate,
		Lyrics:          fakeLyrics,
		Music:           fakeMusic,
		Assets:          store,
		Progress:        progress,
		Playback:        playback,
		Notifier:        hub,
		TurnWindow:      cfg.TurnWindow,
		MusicDurationMs: cfg.MusicDurationMs,
		Log:             log,
	})
	runner := battle.NewRunner(repos.Battle, repos.Turn, executor, progress, playback, cfg.GatePoll, log)

	services := service.NewServices(repos, cfg, runner, hub, store, log)
	router := api.NewRouter(services, hub, store)

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		DB:       testDB,
		Repos:    repos,
		Services: services,
		Hub:      hub,
		Runner:   runner,
		Lyrics:   fakeLyrics,
		Music:    fakeMusic,
		Config:   cfg,
	}

	t.Cleanup(func() {
		server.Close()
		hub.Stop()
	})

	return ts
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api/v1%s", ts.Server.URL, path)
}

// WebSocketURL returns the WebSocket URL for one battle with token
func (ts *TestServer) WebSocketURL(battleID, token string) string {
	wsURL := "ws" + ts.Server.URL[4:] // Replace "http" with "ws"
	return fmt.Sprintf("%s/api/v1/ws?battle=%s&token=%s", wsURL, battleID, token)
}
