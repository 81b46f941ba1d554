package sse

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mcoot/duelsmp/internal/dependencies/clock"
	"github.com/mcoot/duelsmp/internal/model"
)

// eventPayload is the JSON data of a ladder event
type eventPayload struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	PlayerID  string    `json:"player_id,omitempty"`
	DuelID    string    `json:"duel_id,omitempty"`
}

// Broadcaster publishes ladder events to the hub
type Broadcaster struct {
	hub    *Hub
	clock  clock.Clock
	logger *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub, clock clock.Clock, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:    hub,
		clock:  clock,
		logger: logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Publish sends an event to every connected client, stamping it if needed
func (b *Broadcaster) Publish(event model.Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = b.clock.Now()
	}

	data, err := json.Marshal(eventPayload{
		Type:      string(event.Type),
		Timestamp: event.Timestamp,
		PlayerID:  string(event.PlayerID),
		DuelID:    string(event.DuelID),
	})
	if err != nil {
		b.logger.Error("sse failed to encode event",
			slog.String("event", string(event.Type)),
			slog.Any("error", err))
		return
	}

	b.hub.BroadcastEvent(string(event.Type), string(data))
}

// PlayerEvent publishes an event about a single player
func (b *Broadcaster) PlayerEvent(eventType model.EventType, id model.PlayerID) {
	b.Publish(model.Event{Type: eventType, PlayerID: id})
}

// DuelEvent publishes an event about a duel
func (b *Broadcaster) DuelEvent(eventType model.EventType, duel *model.Duel) {
	b.Publish(model.Event{Type: eventType, DuelID: duel.ID, PlayerID: duel.Winner})
}
