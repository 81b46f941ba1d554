// Package ledger creates duels and records their results.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mcoot/duelsmp/internal/dependencies/clock"
	"github.com/mcoot/duelsmp/internal/dependencies/idgen"
	"github.com/mcoot/duelsmp/internal/model"
	"github.com/mcoot/duelsmp/internal/services/registry"
	"github.com/mcoot/duelsmp/internal/services/resolver"
	"github.com/mcoot/duelsmp/internal/storage"
)

// Service manages the duel lifecycle from creation to completion
type Service struct {
	storage  storage.Storage
	registry *registry.Service
	clock    clock.Clock
	ids      idgen.Generator
	logger   *slog.Logger
}

// New creates a new ledger service
func New(
	storage storage.Storage,
	registry *registry.Service,
	clock clock.Clock,
	ids idgen.Generator,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:  storage,
		registry: registry,
		clock:    clock,
		ids:      ids,
		logger:   logger,
	}
}

// CreateDuel validates a pairing and its wagers and records a pending duel
func (s *Service) CreateDuel(
	ctx context.Context,
	player1, player2 model.PlayerID,
	p1Bet, p2Bet int,
	betMode model.BetMode,
) (*model.Duel, error) {
	if player1 == player2 {
		return nil, fmt.Errorf("%w: %s cannot duel themselves", model.ErrInvalidPlayers, player1)
	}
	if !model.ValidBet(p1Bet) || !model.ValidBet(p2Bet) {
		return nil, fmt.Errorf("%w: got %d and %d", model.ErrInvalidBet, p1Bet, p2Bet)
	}
	if !betMode.Valid() {
		return nil, fmt.Errorf("%w: unknown bet mode %q", model.ErrInvalidBet, betMode)
	}

	p1, err := s.participant(ctx, player1)
	if err != nil {
		return nil, err
	}
	p2, err := s.participant(ctx, player2)
	if err != nil {
		return nil, err
	}

	if p1.CurrentHearts < p1Bet {
		return nil, fmt.Errorf("%w: %s bet %d with %d hearts", model.ErrInsufficientHearts, player1, p1Bet, p1.CurrentHearts)
	}
	if p2.CurrentHearts < p2Bet {
		return nil, fmt.Errorf("%w: %s bet %d with %d hearts", model.ErrInsufficientHearts, player2, p2Bet, p2.CurrentHearts)
	}

	duel := &model.Duel{
		ID:        model.DuelID(s.ids.NewID()),
		Player1:   player1,
		Player2:   player2,
		P1Bet:     p1Bet,
		P2Bet:     p2Bet,
		BetMode:   betMode,
		Status:    model.DuelStatusPending,
		Timestamp: s.clock.Now(),
	}

	if err := s.storage.SaveDuel(ctx, duel); err != nil {
		s.logger.Error("failed to save duel",
			slog.String("duel_id", string(duel.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("duel created",
		slog.String("duel_id", string(duel.ID)),
		slog.String("player1", string(player1)),
		slog.String("player2", string(player2)),
		slog.String("bet_mode", string(betMode)),
	)
	return duel, nil
}

// participant loads a player and checks they may duel
func (s *Service) participant(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	player, err := s.registry.GetPlayer(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return nil, fmt.Errorf("%w: %s is not registered", model.ErrInvalidPlayers, id)
		}
		return nil, err
	}
	if !registry.Eligible(player) {
		return nil, fmt.Errorf("%w: %s is eliminated", model.ErrInvalidPlayers, id)
	}
	return player, nil
}

// maxSettleAttempts bounds how often a completion is recomputed after
// another writer changed one of its participants
const maxSettleAttempts = 3

// CompleteMatch records the winner of a pending duel and settles the hearts.
// The duel and both players are written in a single atomic step. If a
// participant changes between the read and the write, the completion is
// recomputed from fresh state.
func (s *Service) CompleteMatch(ctx context.Context, id model.DuelID, winnerID model.PlayerID) (*model.Duel, error) {
	var err error
	for attempt := 1; attempt <= maxSettleAttempts; attempt++ {
		var completed *model.Duel
		completed, err = s.settle(ctx, id, winnerID)
		if !errors.Is(err, model.ErrConcurrentModification) {
			return completed, err
		}
		s.logger.Warn("duel participants changed during completion",
			slog.String("duel_id", string(id)),
			slog.Int("attempt", attempt),
		)
	}
	return nil, fmt.Errorf("complete duel %s: %w", id, err)
}

// settle makes one attempt at resolving and storing a duel result
func (s *Service) settle(ctx context.Context, id model.DuelID, winnerID model.PlayerID) (*model.Duel, error) {
	duel, err := s.GetMatchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !duel.IsPending() {
		return nil, fmt.Errorf("%w: %s", model.ErrAlreadyComplete, id)
	}
	if !duel.HasParticipant(winnerID) {
		return nil, fmt.Errorf("%w: %s is not in duel %s", model.ErrInvalidWinner, winnerID, id)
	}

	players := make(map[model.PlayerID]*model.Player, 2)
	for _, pid := range []model.PlayerID{duel.Player1, duel.Player2} {
		player, err := s.registry.GetPlayer(ctx, pid)
		if err != nil {
			if errors.Is(err, model.ErrPlayerNotFound) {
				continue // Resolve reports the missing participant
			}
			return nil, err
		}
		players[pid] = player
	}

	outcome, err := resolver.Resolve(duel, winnerID, players)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	completed := duel.Clone()
	completed.Status = model.DuelStatusComplete
	completed.Winner = winnerID
	completed.HeartsTransferred = outcome.HeartsTransferred
	completed.CompletedAt = &now
	outcome.Winner.UpdatedAt = now
	outcome.Loser.UpdatedAt = now

	settlement := storage.Settlement{
		Duel:   completed,
		Winner: storage.PlayerUpdate{Base: players[winnerID], Next: outcome.Winner},
		Loser:  storage.PlayerUpdate{Base: players[outcome.Loser.ID], Next: outcome.Loser},
	}
	if err := s.storage.CompleteDuel(ctx, settlement); err != nil {
		switch {
		case errors.Is(err, model.ErrAlreadyComplete):
			return nil, fmt.Errorf("%w: %s", model.ErrAlreadyComplete, id)
		case errors.Is(err, model.ErrPlayerNotFound):
			return nil, fmt.Errorf("%w: participant of %s was removed", model.ErrInvalidPlayers, id)
		case errors.Is(err, model.ErrConcurrentModification):
			return nil, err
		}
		s.logger.Error("failed to complete duel",
			slog.String("duel_id", string(id)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("match completed",
		slog.String("duel_id", string(id)),
		slog.String("winner", string(winnerID)),
		slog.String("loser", string(outcome.Loser.ID)),
		slog.Int("hearts_transferred", outcome.HeartsTransferred),
		slog.Bool("loser_eliminated", outcome.Loser.Eliminated()),
	)
	return completed, nil
}

// GetMatchByID retrieves a duel by ID
func (s *Service) GetMatchByID(ctx context.Context, id model.DuelID) (*model.Duel, error) {
	duel, err := s.storage.GetDuel(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrDuelNotFound) {
			return nil, fmt.Errorf("%w: %s", model.ErrDuelNotFound, id)
		}
		return nil, err
	}
	return duel, nil
}

// GetAllDuels returns every duel in no particular order
func (s *Service) GetAllDuels(ctx context.Context) ([]*model.Duel, error) {
	return s.storage.ListDuels(ctx)
}
