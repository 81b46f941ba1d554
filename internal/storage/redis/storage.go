package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/duelsmp/internal/model"
	"github.com/mcoot/duelsmp/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	key := playerKey(player.ID)

	// SETNX guards the id; the index add is idempotent so it can share the transaction
	var created *redis.BoolCmd
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		created = pipe.SetNX(ctx, key, data, 0)
		pipe.SAdd(ctx, playersIndexKey(), key)
		return nil
	})
	if err != nil {
		return err
	}
	if !created.Val() {
		return model.ErrDuplicatePlayer
	}
	return nil
}

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	// SET XX only overwrites an existing key
	updated, err := s.client.SetXX(ctx, playerKey(player.ID), data, 0).Result()
	if err != nil {
		return err
	}
	if !updated {
		return model.ErrPlayerNotFound
	}
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	values, err := s.loadIndexed(ctx, playersIndexKey())
	if err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(values))
	for _, val := range values {
		var player model.Player
		if err := json.Unmarshal([]byte(val), &player); err != nil {
			return nil, fmt.Errorf("decode player: %w", err)
		}
		players = append(players, &player)
	}
	return players, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	key := playerKey(id)

	var deleted *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		deleted = pipe.Del(ctx, key)
		pipe.SRem(ctx, playersIndexKey(), key)
		return nil
	})
	if err != nil {
		return err
	}
	if deleted.Val() == 0 {
		return model.ErrPlayerNotFound
	}
	return nil
}

// Duel operations

func (s *Storage) SaveDuel(ctx context.Context, duel *model.Duel) error {
	data, err := json.Marshal(duel)
	if err != nil {
		return err
	}

	key := duelKey(duel.ID)

	// Use pipeline for atomic save + index update
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, data, 0)
		pipe.SAdd(ctx, duelsIndexKey(), key)
		return nil
	})
	return err
}

func (s *Storage) GetDuel(ctx context.Context, id model.DuelID) (*model.Duel, error) {
	data, err := s.client.Get(ctx, duelKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrDuelNotFound
		}
		return nil, err
	}

	var duel model.Duel
	if err := json.Unmarshal(data, &duel); err != nil {
		return nil, err
	}
	return &duel, nil
}

func (s *Storage) ListDuels(ctx context.Context) ([]*model.Duel, error) {
	values, err := s.loadIndexed(ctx, duelsIndexKey())
	if err != nil {
		return nil, err
	}

	duels := make([]*model.Duel, 0, len(values))
	for _, val := range values {
		var duel model.Duel
		if err := json.Unmarshal([]byte(val), &duel); err != nil {
			return nil, fmt.Errorf("decode duel: %w", err)
		}
		duels = append(duels, &duel)
	}
	return duels, nil
}

func (s *Storage) CompleteDuel(ctx context.Context, settlement storage.Settlement) error {
	duel := settlement.Duel
	winner := settlement.Winner.Next
	loser := settlement.Loser.Next
	dKey := duelKey(duel.ID)
	wKey := playerKey(winner.ID)
	lKey := playerKey(loser.ID)

	duelData, err := json.Marshal(duel)
	if err != nil {
		return err
	}
	winnerData, err := json.Marshal(winner)
	if err != nil {
		return err
	}
	loserData, err := json.Marshal(loser)
	if err != nil {
		return err
	}

	// WATCH aborts on writes after this point; the state checks below catch
	// writes that landed between the caller's read and the WATCH
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		stored, err := tx.Get(ctx, dKey).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrDuelNotFound
			}
			return err
		}

		var current model.Duel
		if err := json.Unmarshal(stored, &current); err != nil {
			return err
		}
		if !current.IsPending() {
			return model.ErrAlreadyComplete
		}

		for _, update := range []storage.PlayerUpdate{settlement.Winner, settlement.Loser} {
			player, err := watchedPlayer(ctx, tx, update.Next.ID)
			if err != nil {
				return err
			}
			if !update.Unchanged(player) {
				return model.ErrConcurrentModification
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, dKey, duelData, 0)
			pipe.Set(ctx, wKey, winnerData, 0)
			pipe.Set(ctx, lKey, loserData, 0)
			return nil
		})
		return err
	}, dKey, wKey, lKey)

	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("complete duel %s: %w", duel.ID, model.ErrConcurrentModification)
	}
	return err
}

// watchedPlayer reads a player inside a WATCH transaction
func watchedPlayer(ctx context.Context, tx *redis.Tx, id model.PlayerID) (*model.Player, error) {
	data, err := tx.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) Reset(ctx context.Context) error {
	playerKeys, err := s.client.SMembers(ctx, playersIndexKey()).Result()
	if err != nil {
		return err
	}
	duelKeys, err := s.client.SMembers(ctx, duelsIndexKey()).Result()
	if err != nil {
		return err
	}

	// Delete every entity and both indexes in one transaction
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range playerKeys {
			pipe.Del(ctx, key)
		}
		for _, key := range duelKeys {
			pipe.Del(ctx, key)
		}
		pipe.Del(ctx, playersIndexKey(), duelsIndexKey())
		return nil
	})
	return err
}

// loadIndexed fetches the raw JSON of every live entity referenced by an index set
func (s *Storage) loadIndexed(ctx context.Context, indexKey string) ([]string, error) {
	keys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}

	if len(keys) == 0 {
		return []string{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	result := make([]string, 0, len(values))
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue // Key removed since the index was read
		}
		result = append(result, str)
	}
	return result, nil
}
