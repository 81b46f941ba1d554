package memory

import (
	"context"
	"sync"

	"github.com/mcoot/duelsmp/internal/model"
	"github.com/mcoot/duelsmp/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players map[model.PlayerID]*model.Player
	duels   map[model.DuelID]*model.Duel
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players: make(map[model.PlayerID]*model.Player),
		duels:   make(map[model.DuelID]*model.Duel),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[player.ID]; ok {
		return model.ErrDuplicatePlayer
	}
	s.players[player.ID] = player.Clone()
	return nil
}

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[player.ID]; !ok {
		return model.ErrPlayerNotFound
	}
	s.players[player.ID] = player.Clone()
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player.Clone(), nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]*model.Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, p.Clone())
	}
	return players, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[id]; !ok {
		return model.ErrPlayerNotFound
	}
	delete(s.players, id)
	return nil
}

// Duel operations

func (s *Storage) SaveDuel(ctx context.Context, duel *model.Duel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.duels[duel.ID] = duel.Clone()
	return nil
}

func (s *Storage) GetDuel(ctx context.Context, id model.DuelID) (*model.Duel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	duel, ok := s.duels[id]
	if !ok {
		return nil, model.ErrDuelNotFound
	}
	return duel.Clone(), nil
}

func (s *Storage) ListDuels(ctx context.Context) ([]*model.Duel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	duels := make([]*model.Duel, 0, len(s.duels))
	for _, d := range s.duels {
		duels = append(duels, d.Clone())
	}
	return duels, nil
}

func (s *Storage) CompleteDuel(ctx context.Context, settlement storage.Settlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	duel := settlement.Duel
	stored, ok := s.duels[duel.ID]
	if !ok {
		return model.ErrDuelNotFound
	}
	if !stored.IsPending() {
		return model.ErrAlreadyComplete
	}
	for _, update := range []storage.PlayerUpdate{settlement.Winner, settlement.Loser} {
		current, ok := s.players[update.Next.ID]
		if !ok {
			return model.ErrPlayerNotFound
		}
		if !update.Unchanged(current) {
			return model.ErrConcurrentModification
		}
	}

	s.duels[duel.ID] = duel.Clone()
	s.players[settlement.Winner.Next.ID] = settlement.Winner.Next.Clone()
	s.players[settlement.Loser.Next.ID] = settlement.Loser.Next.Clone()
	return nil
}

func (s *Storage) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = make(map[model.PlayerID]*model.Player)
	s.duels = make(map[model.DuelID]*model.Duel)
	return nil
}
