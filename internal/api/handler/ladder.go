package handler

import (
	"net/http"

	"github.com/mcoot/duelsmp/internal/api/response"
	"github.com/mcoot/duelsmp/internal/model"
	"github.com/mcoot/duelsmp/internal/services/engine"
	"github.com/mcoot/duelsmp/internal/services/ranking"
	"github.com/mcoot/duelsmp/internal/sse"
)

// LadderHandler handles ladder-wide endpoints
type LadderHandler struct {
	engine *engine.Engine
	events Publisher
	hub    *sse.Hub
}

// NewLadderHandler creates a new ladder handler
func NewLadderHandler(engine *engine.Engine, events Publisher, hub *sse.Hub) *LadderHandler {
	return &LadderHandler{
		engine: engine,
		events: events,
		hub:    hub,
	}
}

// Leaderboard handles GET /api/v1/leaderboard
func (h *LadderHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	players, err := h.engine.GetAllPlayers(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.PlayerList{
		Players: response.PlayersFromModel(ranking.Leaderboard(players)),
	})
}

// Stats handles GET /api/v1/stats
func (h *LadderHandler) Stats(w http.ResponseWriter, r *http.Request) {
	snap, err := h.engine.Snapshot(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.StatsFromRanking(ranking.GetStats(snap.Players, snap.Duels)))
}

// Dashboard handles GET /api/v1/dashboard
func (h *LadderHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := h.engine.Snapshot(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := response.Dashboard{
		Stats:       response.StatsFromRanking(ranking.GetStats(snap.Players, snap.Duels)),
		Leaderboard: response.PlayersFromModel(ranking.Leaderboard(snap.Players)),
	}
	if active := ranking.ActiveDuel(snap.Duels); active != nil {
		d := response.DuelFromView(ranking.ViewDuel(active, snap.Names()))
		resp.ActiveDuel = &d
	}
	response.OK(w, resp)
}

// Reset handles POST /api/v1/reset
func (h *LadderHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.ResetGame(r.Context()); err != nil {
		WriteError(w, err)
		return
	}

	h.events.PlayerEvent(model.EventGameReset, "")
	response.NoContent(w)
}

// Events handles GET /api/v1/events
func (h *LadderHandler) Events(w http.ResponseWriter, r *http.Request) {
	sse.ServeSSE(w, r, h.hub)
}
