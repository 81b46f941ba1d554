package model

import "time"

const (
	// MinBet is the smallest number of hearts a player may wager
	MinBet = 1
	// MaxBet is the largest number of hearts a player may wager
	MaxBet = 5
)

// DuelID uniquely identifies a duel
type DuelID string

// BetMode controls whether the wagers are visible before resolution
type BetMode string

const (
	BetModeAgreed BetMode = "agreed" // Both bets visible to everyone
	BetModeBlind  BetMode = "blind"  // Bets hidden until the duel resolves
)

// Valid reports whether m is a known bet mode
func (m BetMode) Valid() bool {
	return m == BetModeAgreed || m == BetModeBlind
}

// DuelStatus is the lifecycle state of a duel
type DuelStatus string

const (
	DuelStatusPending  DuelStatus = "pending"
	DuelStatusComplete DuelStatus = "complete"
)

// Duel is a single wagered match between two players
type Duel struct {
	ID      DuelID
	Player1 PlayerID
	Player2 PlayerID
	P1Bet   int
	P2Bet   int
	BetMode BetMode
	Status  DuelStatus

	// Set on completion
	Winner            PlayerID // Empty while pending
	HeartsTransferred int
	CompletedAt       *time.Time

	// Timestamp is the creation time, used for recency ordering
	Timestamp time.Time
}

// IsPending returns true while the duel has not been resolved
func (d *Duel) IsPending() bool {
	return d.Status == DuelStatusPending
}

// IsComplete returns true once a winner has been recorded
func (d *Duel) IsComplete() bool {
	return d.Status == DuelStatusComplete
}

// HasParticipant returns true if id is one of the two players
func (d *Duel) HasParticipant(id PlayerID) bool {
	return id == d.Player1 || id == d.Player2
}

// Opponent returns the other participant, or empty if id is not in the duel
func (d *Duel) Opponent(id PlayerID) PlayerID {
	switch id {
	case d.Player1:
		return d.Player2
	case d.Player2:
		return d.Player1
	default:
		return ""
	}
}

// BetOf returns the wager placed by the given participant
func (d *Duel) BetOf(id PlayerID) int {
	switch id {
	case d.Player1:
		return d.P1Bet
	case d.Player2:
		return d.P2Bet
	default:
		return 0
	}
}

// BetsVisible reports whether the bets may be shown in a read-only view
func (d *Duel) BetsVisible() bool {
	return d.BetMode != BetModeBlind || !d.IsPending()
}

// Clone returns a deep copy of the duel
func (d *Duel) Clone() *Duel {
	c := *d
	if d.CompletedAt != nil {
		t := *d.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

// ValidBet reports whether amount is within the allowed wager range
func ValidBet(amount int) bool {
	return amount >= MinBet && amount <= MaxBet
}
