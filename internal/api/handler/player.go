package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/duelsmp/internal/api/request"
	"github.com/mcoot/duelsmp/internal/api/response"
	"github.com/mcoot/duelsmp/internal/model"
	"github.com/mcoot/duelsmp/internal/services/engine"
	"github.com/mcoot/duelsmp/internal/services/ranking"
)

// PlayerHandler handles player-related endpoints
type PlayerHandler struct {
	engine *engine.Engine
	events Publisher
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(engine *engine.Engine, events Publisher) *PlayerHandler {
	return &PlayerHandler{
		engine: engine,
		events: events,
	}
}

func playerID(r *http.Request) model.PlayerID {
	return model.PlayerID(mux.Vars(r)["id"])
}

// List handles GET /api/v1/players, ordered as the leaderboard
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	players, err := h.engine.GetAllPlayers(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.PlayerList{
		Players: response.PlayersFromModel(ranking.Leaderboard(players)),
	})
}

// Create handles POST /api/v1/players
func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.AddPlayerRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	player, err := h.engine.AddPlayer(r.Context(), model.PlayerID(req.ID), req.DisplayName)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.events.PlayerEvent(model.EventPlayerAdded, player.ID)
	response.Created(w, response.PlayerFromModel(player))
}

// Get handles GET /api/v1/players/{id}
func (h *PlayerHandler) Get(w http.ResponseWriter, r *http.Request) {
	player, err := h.engine.GetPlayer(r.Context(), playerID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.PlayerFromModel(player))
}

// Update handles PUT /api/v1/players/{id}
func (h *PlayerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.UpdatePlayerRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	player, err := h.engine.UpdatePlayer(r.Context(), &model.Player{
		ID:          playerID(r),
		DisplayName: req.DisplayName,
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	h.events.PlayerEvent(model.EventPlayerUpdated, player.ID)
	response.OK(w, response.PlayerFromModel(player))
}

// Delete handles DELETE /api/v1/players/{id}
func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := playerID(r)
	if err := h.engine.RemovePlayer(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	h.events.PlayerEvent(model.EventPlayerRemoved, id)
	response.NoContent(w)
}

// UpdateHearts handles PUT /api/v1/players/{id}/hearts
func (h *PlayerHandler) UpdateHearts(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateHeartsRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Hearts == nil {
		WriteError(w, NewInvalidRequestError("hearts is required"))
		return
	}

	player, err := h.engine.UpdateHearts(r.Context(), playerID(r), *req.Hearts)
	if err != nil {
		WriteError(w, err)
		return
	}

	h.events.PlayerEvent(model.EventHeartsUpdated, player.ID)
	response.OK(w, response.PlayerFromModel(player))
}

// Eligibility handles GET /api/v1/players/{id}/eligibility
func (h *PlayerHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	id := playerID(r)
	eligible, err := h.engine.IsPlayerEligible(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.Eligibility{PlayerID: string(id), Eligible: eligible})
}
