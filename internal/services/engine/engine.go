// Package engine is the single entry point to ladder state.
package engine

import (
	"context"
	"sync"

	"github.com/mcoot/duelsmp/internal/model"
	"github.com/mcoot/duelsmp/internal/services/ledger"
	"github.com/mcoot/duelsmp/internal/services/matchmaker"
	"github.com/mcoot/duelsmp/internal/services/ranking"
	"github.com/mcoot/duelsmp/internal/services/registry"
)

// Engine serializes every mutation of players and duels. Reads share the
// lock so a view never mixes state from before and after a mutation.
type Engine struct {
	mu         sync.RWMutex
	registry   *registry.Service
	ledger     *ledger.Service
	matchmaker *matchmaker.Service
}

// New creates an engine over the given services
func New(registry *registry.Service, ledger *ledger.Service, matchmaker *matchmaker.Service) *Engine {
	return &Engine{
		registry:   registry,
		ledger:     ledger,
		matchmaker: matchmaker,
	}
}

// Player operations

// AddPlayer registers a player with the initial heart count
func (e *Engine) AddPlayer(ctx context.Context, id model.PlayerID, displayName string) (*model.Player, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.AddPlayer(ctx, id, displayName)
}

// RemovePlayer deletes a player; their duels stay in history
func (e *Engine) RemovePlayer(ctx context.Context, id model.PlayerID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.RemovePlayer(ctx, id)
}

// GetPlayer retrieves a player by ID
func (e *Engine) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.registry.GetPlayer(ctx, id)
}

// GetAllPlayers returns every registered player in no particular order
func (e *Engine) GetAllPlayers(ctx context.Context) ([]*model.Player, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.registry.GetAllPlayers(ctx)
}

// UpdatePlayer changes a player's display name
func (e *Engine) UpdatePlayer(ctx context.Context, player *model.Player) (*model.Player, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.UpdatePlayer(ctx, player)
}

// UpdateHearts sets a player's heart total and returns the stored player
func (e *Engine) UpdateHearts(ctx context.Context, id model.PlayerID, hearts int) (*model.Player, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.UpdateHearts(ctx, id, hearts)
}

// IsPlayerEligible reports whether a player exists and still has hearts
func (e *Engine) IsPlayerEligible(ctx context.Context, id model.PlayerID) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.registry.IsPlayerEligible(ctx, id)
}

// Duel operations

// DuelResult is a duel together with the player names in effect when it was
// written, so callers can render it without reading state again
type DuelResult struct {
	*model.Duel
	Names ranking.Names
}

// CreateDuel validates a pairing and records a pending duel
func (e *Engine) CreateDuel(
	ctx context.Context,
	player1, player2 model.PlayerID,
	p1Bet, p2Bet int,
	betMode model.BetMode,
) (*DuelResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.withNames(ctx, func() (*model.Duel, error) {
		return e.ledger.CreateDuel(ctx, player1, player2, p1Bet, p2Bet, betMode)
	})
}

// GenerateRandomDuel pairs two distinct eligible players at random
func (e *Engine) GenerateRandomDuel(ctx context.Context) (*DuelResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.withNames(ctx, func() (*model.Duel, error) {
		return e.matchmaker.GenerateRandomDuel(ctx)
	})
}

// CompleteMatch records the winner of a pending duel and settles the hearts
func (e *Engine) CompleteMatch(ctx context.Context, id model.DuelID, winnerID model.PlayerID) (*DuelResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.withNames(ctx, func() (*model.Duel, error) {
		return e.ledger.CompleteMatch(ctx, id, winnerID)
	})
}

// GetMatchByID retrieves a duel by ID
func (e *Engine) GetMatchByID(ctx context.Context, id model.DuelID) (*model.Duel, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ledger.GetMatchByID(ctx, id)
}

// LookupDuel retrieves a duel and the current player names under one read lock
func (e *Engine) LookupDuel(ctx context.Context, id model.DuelID) (*DuelResult, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.withNames(ctx, func() (*model.Duel, error) {
		return e.ledger.GetMatchByID(ctx, id)
	})
}

// GetAllDuels returns every duel in no particular order
func (e *Engine) GetAllDuels(ctx context.Context) ([]*model.Duel, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.ledger.GetAllDuels(ctx)
}

// ResetGame removes every player and duel
func (e *Engine) ResetGame(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.registry.ResetGame(ctx)
}

// withNames reads player names before running op. Duel operations never
// rename players, so the names still hold once op has written and nothing
// is read after a commit. Callers hold the lock.
func (e *Engine) withNames(ctx context.Context, op func() (*model.Duel, error)) (*DuelResult, error) {
	players, err := e.registry.GetAllPlayers(ctx)
	if err != nil {
		return nil, err
	}
	duel, err := op()
	if err != nil {
		return nil, err
	}
	return &DuelResult{Duel: duel, Names: ranking.NamesOf(players)}, nil
}

// Snapshot is a consistent copy of all players and duels
type Snapshot struct {
	Players []*model.Player
	Duels   []*model.Duel
}

// Names resolves display names for the snapshot's players
func (s *Snapshot) Names() ranking.Names {
	return ranking.NamesOf(s.Players)
}

// Snapshot reads players and duels under one lock for derived views
func (e *Engine) Snapshot(ctx context.Context) (*Snapshot, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	players, err := e.registry.GetAllPlayers(ctx)
	if err != nil {
		return nil, err
	}
	duels, err := e.ledger.GetAllDuels(ctx)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Players: players, Duels: duels}, nil
}
