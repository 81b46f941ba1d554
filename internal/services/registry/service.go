// Package registry manages ladder players and their heart totals.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mcoot/duelsmp/internal/dependencies/clock"
	"github.com/mcoot/duelsmp/internal/model"
	"github.com/mcoot/duelsmp/internal/storage"
)

// Service handles player registration and administrative updates
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new registry service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// AddPlayer registers a new player with the initial heart count
func (s *Service) AddPlayer(ctx context.Context, id model.PlayerID, displayName string) (*model.Player, error) {
	id = model.PlayerID(strings.TrimSpace(string(id)))
	displayName = strings.TrimSpace(displayName)
	if id == "" || displayName == "" {
		return nil, model.ErrInvalidPlayerInput
	}

	player := model.NewPlayer(id, displayName, s.clock.Now())
	if err := s.storage.CreatePlayer(ctx, player); err != nil {
		if errors.Is(err, model.ErrDuplicatePlayer) {
			return nil, fmt.Errorf("%w: %s", model.ErrDuplicatePlayer, id)
		}
		s.logger.Error("failed to create player",
			slog.String("player_id", string(id)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	s.logger.Info("player added",
		slog.String("player_id", string(id)),
		slog.String("display_name", displayName),
	)
	return player, nil
}

// RemovePlayer deletes a player. Duels referencing the id are kept as history.
func (s *Service) RemovePlayer(ctx context.Context, id model.PlayerID) error {
	if err := s.storage.DeletePlayer(ctx, id); err != nil {
		return wrapNotFound(err, id)
	}

	s.logger.Info("player removed", slog.String("player_id", string(id)))
	return nil
}

// GetPlayer retrieves a player by ID
func (s *Service) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	player, err := s.storage.GetPlayer(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, id)
	}
	return player, nil
}

// GetAllPlayers returns every registered player in no particular order
func (s *Service) GetAllPlayers(ctx context.Context) ([]*model.Player, error) {
	return s.storage.ListPlayers(ctx)
}

// UpdatePlayer replaces the display fields of an existing player.
// Hearts and match counters on the argument are ignored.
func (s *Service) UpdatePlayer(ctx context.Context, update *model.Player) (*model.Player, error) {
	displayName := strings.TrimSpace(update.DisplayName)
	if displayName == "" {
		return nil, model.ErrInvalidPlayerInput
	}

	player, err := s.storage.GetPlayer(ctx, update.ID)
	if err != nil {
		return nil, wrapNotFound(err, update.ID)
	}

	player.DisplayName = displayName
	player.UpdatedAt = s.clock.Now()

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, wrapNotFound(err, update.ID)
	}

	s.logger.Info("player updated",
		slog.String("player_id", string(player.ID)),
		slog.String("display_name", displayName),
	)
	return player, nil
}

// UpdateHearts sets a player's heart total directly. It is an administrative
// correction and leaves HeartsWon and HeartsLost untouched.
func (s *Service) UpdateHearts(ctx context.Context, id model.PlayerID, hearts int) (*model.Player, error) {
	if hearts < 0 {
		return nil, fmt.Errorf("%w: %d", model.ErrInvalidAmount, hearts)
	}

	player, err := s.storage.GetPlayer(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err, id)
	}

	previous := player.CurrentHearts
	player.CurrentHearts = hearts
	player.UpdatedAt = s.clock.Now()

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, wrapNotFound(err, id)
	}

	s.logger.Info("hearts updated",
		slog.String("player_id", string(id)),
		slog.Int("previous", previous),
		slog.Int("hearts", hearts),
	)
	return player, nil
}

// IsPlayerEligible reports whether the player exists and still has hearts.
// An unknown id is simply not eligible.
func (s *Service) IsPlayerEligible(ctx context.Context, id model.PlayerID) (bool, error) {
	player, err := s.storage.GetPlayer(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrPlayerNotFound) {
			return false, nil
		}
		return false, err
	}
	return Eligible(player), nil
}

// EligiblePlayers returns every player that may take part in a duel
func (s *Service) EligiblePlayers(ctx context.Context) ([]*model.Player, error) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}

	eligible := make([]*model.Player, 0, len(players))
	for _, p := range players {
		if Eligible(p) {
			eligible = append(eligible, p)
		}
	}
	return eligible, nil
}

// ResetGame clears every player and duel
func (s *Service) ResetGame(ctx context.Context) error {
	if err := s.storage.Reset(ctx); err != nil {
		s.logger.Error("failed to reset ladder", slog.String("error", err.Error()))
		return err
	}

	s.logger.Info("ladder reset")
	return nil
}

// Eligible reports whether a player may take part in a duel
func Eligible(p *model.Player) bool {
	return !p.Eliminated() && p.CurrentHearts > 0
}

func wrapNotFound(err error, id model.PlayerID) error {
	if errors.Is(err, model.ErrPlayerNotFound) {
		return fmt.Errorf("%w: %s", model.ErrPlayerNotFound, id)
	}
	return err
}
