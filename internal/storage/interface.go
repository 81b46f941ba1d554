package storage

import (
	"context"

	"github.com/mcoot/duelsmp/internal/model"
)

// Storage defines the interface for ladder persistence.
//
// Implementations must hand out copies: mutating a returned value never
// changes stored state until it is saved again.
type Storage interface {
	// Player operations
	CreatePlayer(ctx context.Context, player *model.Player) error // ErrDuplicatePlayer if the id exists
	SavePlayer(ctx context.Context, player *model.Player) error   // ErrPlayerNotFound if the id is absent
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	ListPlayers(ctx context.Context) ([]*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error // ErrPlayerNotFound if the id is absent

	// Duel operations
	SaveDuel(ctx context.Context, duel *model.Duel) error
	GetDuel(ctx context.Context, id model.DuelID) (*model.Duel, error)
	ListDuels(ctx context.Context) ([]*model.Duel, error)

	// CompleteDuel atomically stores a resolved duel together with both
	// updated participants. Nothing is written if it fails: with
	// ErrAlreadyComplete when the stored duel is no longer pending, and with
	// ErrConcurrentModification when a stored participant no longer matches
	// the state the settlement was computed from.
	CompleteDuel(ctx context.Context, settlement Settlement) error

	// Reset removes every player and duel
	Reset(ctx context.Context) error
}

// Settlement is a resolved duel and the participant writes it implies
type Settlement struct {
	Duel   *model.Duel
	Winner PlayerUpdate
	Loser  PlayerUpdate
}

// PlayerUpdate pairs the player state a resolution read with the state to
// store in its place
type PlayerUpdate struct {
	Base *model.Player
	Next *model.Player
}

// Unchanged reports whether stored still matches the state the update was
// computed from
func (u PlayerUpdate) Unchanged(stored *model.Player) bool {
	return u.Base.SameState(stored)
}
