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

// DuelHandler handles duel-related endpoints
type DuelHandler struct {
	engine *engine.Engine
	events Publisher
}

// NewDuelHandler creates a new duel handler
func NewDuelHandler(engine *engine.Engine, events Publisher) *DuelHandler {
	return &DuelHandler{
		engine: engine,
		events: events,
	}
}

func duelID(r *http.Request) model.DuelID {
	return model.DuelID(mux.Vars(r)["id"])
}

// duelResponse renders a duel with the names captured alongside it
func duelResponse(result *engine.DuelResult) response.Duel {
	return response.DuelFromView(ranking.ViewDuel(result.Duel, result.Names))
}

// List handles GET /api/v1/duels, newest first.
// ?status=pending or ?status=complete filters the list.
func (h *DuelHandler) List(w http.ResponseWriter, r *http.Request) {
	snap, err := h.engine.Snapshot(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	var duels []*model.Duel
	switch model.DuelStatus(r.URL.Query().Get("status")) {
	case "":
		duels = append(ranking.PendingDuels(snap.Duels), ranking.MatchHistory(snap.Duels)...)
	case model.DuelStatusPending:
		duels = ranking.PendingDuels(snap.Duels)
	case model.DuelStatusComplete:
		duels = ranking.MatchHistory(snap.Duels)
	default:
		WriteError(w, NewInvalidRequestError("status must be pending or complete"))
		return
	}

	response.OK(w, response.DuelList{
		Duels: response.DuelsFromViews(ranking.ViewDuels(duels, snap.Names())),
	})
}

// Create handles POST /api/v1/duels
func (h *DuelHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateDuelRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	betMode := model.BetMode(req.BetMode)
	if betMode == "" {
		betMode = model.BetModeAgreed
	}

	result, err := h.engine.CreateDuel(r.Context(),
		model.PlayerID(req.Player1), model.PlayerID(req.Player2),
		req.P1Bet, req.P2Bet, betMode)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := duelResponse(result)
	h.events.DuelEvent(model.EventDuelCreated, result.Duel)
	response.Created(w, resp)
}

// Random handles POST /api/v1/duels/random
func (h *DuelHandler) Random(w http.ResponseWriter, r *http.Request) {
	result, err := h.engine.GenerateRandomDuel(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := duelResponse(result)
	h.events.DuelEvent(model.EventDuelCreated, result.Duel)
	response.Created(w, resp)
}

// Active handles GET /api/v1/duels/active
func (h *DuelHandler) Active(w http.ResponseWriter, r *http.Request) {
	snap, err := h.engine.Snapshot(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	var resp response.ActiveDuel
	if active := ranking.ActiveDuel(snap.Duels); active != nil {
		d := response.DuelFromView(ranking.ViewDuel(active, snap.Names()))
		resp.Duel = &d
	}
	response.OK(w, resp)
}

// Get handles GET /api/v1/duels/{id}
func (h *DuelHandler) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.engine.LookupDuel(r.Context(), duelID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, duelResponse(result))
}

// Complete handles POST /api/v1/duels/{id}/complete
func (h *DuelHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req request.CompleteDuelRequest
	if err := decodeBody(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.Winner == "" {
		WriteError(w, NewInvalidRequestError("winner is required"))
		return
	}

	result, err := h.engine.CompleteMatch(r.Context(), duelID(r), model.PlayerID(req.Winner))
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := duelResponse(result)
	h.events.DuelEvent(model.EventMatchCompleted, result.Duel)
	response.OK(w, resp)
}

// History handles GET /api/v1/history
func (h *DuelHandler) History(w http.ResponseWriter, r *http.Request) {
	snap, err := h.engine.Snapshot(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	history := ranking.MatchHistory(snap.Duels)
	response.OK(w, response.DuelList{
		Duels: response.DuelsFromViews(ranking.ViewDuels(history, snap.Names())),
	})
}
