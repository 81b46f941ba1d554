package model

import "time"

// EventType identifies the type of ladder event
type EventType string

const (
	EventPlayerAdded    EventType = "player-added"
	EventPlayerUpdated  EventType = "player-updated"
	EventPlayerRemoved  EventType = "player-removed"
	EventHeartsUpdated  EventType = "hearts-updated"
	EventDuelCreated    EventType = "duel-created"
	EventMatchCompleted EventType = "match-completed"
	EventGameReset      EventType = "game-reset"
)

// Event describes a successful mutation of ladder state
type Event struct {
	Type      EventType
	Timestamp time.Time
	PlayerID  PlayerID // Set for player events and match winners
	DuelID    DuelID   // Set for duel events
}
