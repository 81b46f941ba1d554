// Package matchmaker pairs random eligible players into duels.
package matchmaker

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/mcoot/duelsmp/internal/dependencies/random"
	"github.com/mcoot/duelsmp/internal/model"
	"github.com/mcoot/duelsmp/internal/services/ledger"
	"github.com/mcoot/duelsmp/internal/services/registry"
)

// Config controls the wagers of generated duels
type Config struct {
	// DefaultBet is wagered by both players, capped at each player's hearts
	DefaultBet int
	// DefaultBetMode is used unless RandomBetMode is set
	DefaultBetMode model.BetMode
	// RandomBetMode picks agreed or blind with equal probability
	RandomBetMode bool
}

// DefaultConfig returns the standard matchmaking settings
func DefaultConfig() Config {
	return Config{
		DefaultBet:     1,
		DefaultBetMode: model.BetModeAgreed,
	}
}

// Service generates random duels
type Service struct {
	registry *registry.Service
	ledger   *ledger.Service
	random   random.Random
	config   Config
	logger   *slog.Logger
}

// New creates a new matchmaker service. Zero fields in cfg fall back to DefaultConfig.
func New(
	registry *registry.Service,
	ledger *ledger.Service,
	random random.Random,
	cfg Config,
	logger *slog.Logger,
) *Service {
	defaults := DefaultConfig()
	if cfg.DefaultBet == 0 {
		cfg.DefaultBet = defaults.DefaultBet
	}
	if cfg.DefaultBetMode == "" {
		cfg.DefaultBetMode = defaults.DefaultBetMode
	}

	return &Service{
		registry: registry,
		ledger:   ledger,
		random:   random,
		config:   cfg,
		logger:   logger,
	}
}

// GenerateRandomDuel pairs two distinct eligible players chosen uniformly at random
func (s *Service) GenerateRandomDuel(ctx context.Context) (*model.Duel, error) {
	eligible, err := s.registry.EligiblePlayers(ctx)
	if err != nil {
		return nil, err
	}
	if len(eligible) < 2 {
		return nil, fmt.Errorf("%w: %d eligible", model.ErrInsufficientPlayers, len(eligible))
	}

	// Storage order is arbitrary; sort so a draw always maps to the same player
	slices.SortFunc(eligible, func(a, b *model.Player) int {
		return cmp.Compare(a.ID, b.ID)
	})

	// Pick the second player from the remaining n-1 so it can never repeat the first
	i := s.random.Intn(len(eligible))
	j := s.random.Intn(len(eligible) - 1)
	if j >= i {
		j++
	}
	p1, p2 := eligible[i], eligible[j]

	betMode := s.config.DefaultBetMode
	if s.config.RandomBetMode {
		betMode = model.BetModeAgreed
		if s.random.Intn(2) == 1 {
			betMode = model.BetModeBlind
		}
	}

	s.logger.Info("random pairing selected",
		slog.String("player1", string(p1.ID)),
		slog.String("player2", string(p2.ID)),
		slog.Int("eligible", len(eligible)),
	)

	return s.ledger.CreateDuel(ctx, p1.ID, p2.ID, s.betFor(p1), s.betFor(p2), betMode)
}

func (s *Service) betFor(p *model.Player) int {
	return max(model.MinBet, min(s.config.DefaultBet, p.CurrentHearts, model.MaxBet))
}
