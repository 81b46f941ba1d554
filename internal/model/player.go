package model

import "time"

// InitialHearts is the heart count every newly registered player starts with
const InitialHearts = 10

// PlayerID uniquely identifies a player across the system
type PlayerID string

// Player represents a ladder participant and their heart/match counters
type Player struct {
	ID            PlayerID
	DisplayName   string
	CurrentHearts int
	Wins          int
	Losses        int
	HeartsWon     int
	HeartsLost    int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewPlayer returns a freshly registered player with the initial heart count
func NewPlayer(id PlayerID, displayName string, now time.Time) *Player {
	return &Player{
		ID:            id,
		DisplayName:   displayName,
		CurrentHearts: InitialHearts,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Eliminated reports whether the player has run out of hearts.
// It is always derived from CurrentHearts and never stored.
func (p *Player) Eliminated() bool {
	return p.CurrentHearts == 0
}

// Clone returns a copy of the player
func (p *Player) Clone() *Player {
	c := *p
	return &c
}

// SameState reports whether two snapshots of a player hold identical values
func (p *Player) SameState(other *Player) bool {
	return p.ID == other.ID &&
		p.DisplayName == other.DisplayName &&
		p.CurrentHearts == other.CurrentHearts &&
		p.Wins == other.Wins &&
		p.Losses == other.Losses &&
		p.HeartsWon == other.HeartsWon &&
		p.HeartsLost == other.HeartsLost &&
		p.CreatedAt.Equal(other.CreatedAt) &&
		p.UpdatedAt.Equal(other.UpdatedAt)
}
