package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/api/handlers"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/api/middleware"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/assets"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/service"
	"github.com/yemyat/cursor-hackathon-ai-rap-battle-submission/internal/websocket"
)

func NewRouter(services *service.Services, hub *websocket.Hub, store assets.Store) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	battleHandler := handlers.NewBattleHandler(services.Battle)
	themeHandler := handlers.NewThemeHandler(services.Theme, services.Battle)
	cheerHandler := handlers.NewCheerHandler(services.Cheer)
	trackHandler := handlers.NewTrackHandler(services.Battle, store)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Theme routes (public)
		r.Route("/themes", func(r chi.Router) {
			r.Get("/", themeHandler.GetAll)
			r.Get("/{id}", themeHandler.Get)
			r.Get("/{id}/battles", themeHandler.GetBattles)
			r.Post("/seed", themeHandler.Seed) // Should be admin-only in production
		})

		// Public battle reads
		r.Route("/battles", func(r chi.Router) {
			r.Get("/", battleHandler.List)
			r.Get("/{id}", battleHandler.Get)
			r.Get("/{id}/turns", battleHandler.GetTurns)
			r.Get("/{id}/turn-info", battleHandler.GetTurnInfo)
			r.Get("/{id}/playback", battleHandler.GetPlayback)
			r.Get("/{id}/cheers", cheerHandler.List)
			r.Get("/{id}/cheers/tally", cheerHandler.GetTally)

			// Protected battle writes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Post("/", battleHandler.Create)
				r.Post("/{id}/join", battleHandler.Join)
				r.Post("/{id}/instructions", battleHandler.SubmitInstructions)
				r.Post("/{id}/cheers", cheerHandler.Send)
			})
		})

		// Track metadata and audio
		r.Route("/tracks", func(r chi.Router) {
			r.Get("/{id}", trackHandler.Get)
		})
		r.Get("/assets/{ref}", trackHandler.ServeAsset)

		// WebSocket endpoint
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
