package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/duelsmp/internal/api/handler"
	"github.com/mcoot/duelsmp/internal/api/middleware"
	"github.com/mcoot/duelsmp/internal/services/engine"
	"github.com/mcoot/duelsmp/internal/sse"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	Engine      *engine.Engine
	Hub         *sse.Hub
	Broadcaster *sse.Broadcaster
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.Engine, cfg.Broadcaster)
	duelHandler := handler.NewDuelHandler(cfg.Engine, cfg.Broadcaster)
	ladderHandler := handler.NewLadderHandler(cfg.Engine, cfg.Broadcaster, cfg.Hub)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Player routes
	api.HandleFunc("/players", playerHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/players", playerHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/players/{id}", playerHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/players/{id}", playerHandler.Update).Methods(http.MethodPut)
	api.HandleFunc("/players/{id}", playerHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/players/{id}/hearts", playerHandler.UpdateHearts).Methods(http.MethodPut)
	api.HandleFunc("/players/{id}/eligibility", playerHandler.Eligibility).Methods(http.MethodGet)

	// Duel routes; the fixed paths are registered before /duels/{id}
	api.HandleFunc("/duels", duelHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/duels", duelHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/duels/random", duelHandler.Random).Methods(http.MethodPost)
	api.HandleFunc("/duels/active", duelHandler.Active).Methods(http.MethodGet)
	api.HandleFunc("/duels/{id}", duelHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/duels/{id}/complete", duelHandler.Complete).Methods(http.MethodPost)
	api.HandleFunc("/history", duelHandler.History).Methods(http.MethodGet)

	// Ladder routes
	api.HandleFunc("/leaderboard", ladderHandler.Leaderboard).Methods(http.MethodGet)
	api.HandleFunc("/stats", ladderHandler.Stats).Methods(http.MethodGet)
	api.HandleFunc("/dashboard", ladderHandler.Dashboard).Methods(http.MethodGet)
	api.HandleFunc("/reset", ladderHandler.Reset).Methods(http.MethodPost)
	api.HandleFunc("/events", ladderHandler.Events).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
