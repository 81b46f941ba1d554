package factory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/duelsmp/internal/model"
	redisstorage "github.com/mcoot/duelsmp/internal/storage/redis"
	"github.com/mcoot/duelsmp/internal/testutil"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) TearDownTest() {
	s.NoError(s.app.Close())
}

func (s *IntegrationSuite) addPlayers(ids ...string) {
	for _, id := range ids {
		_, err := s.app.Engine.AddPlayer(s.ctx, model.PlayerID(id), "Player "+id)
		s.Require().NoError(err)
	}
}

// Test: A ladder played down to a single survivor
func (s *IntegrationSuite) TestLadderToElimination() {
	s.addPlayers("alice", "bob")

	// Two max-bet duels knock bob from 10 to 0
	for range 2 {
		duel, err := s.app.Engine.CreateDuel(s.ctx, "alice", "bob", 5, 5, model.BetModeBlind)
		s.Require().NoError(err)
		_, err = s.app.Engine.CompleteMatch(s.ctx, duel.ID, "alice")
		s.Require().NoError(err)
	}

	bob, err := s.app.Engine.GetPlayer(s.ctx, "bob")
	s.Require().NoError(err)
	s.Equal(0, bob.CurrentHearts)
	s.True(bob.Eliminated())
	s.Equal(2, bob.Losses)
	s.Equal(10, bob.HeartsLost)

	alice, err := s.app.Engine.GetPlayer(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(20, alice.CurrentHearts)
	s.Equal(10, alice.HeartsWon)

	// An eliminated player can no longer be drawn or paired
	_, err = s.app.Engine.GenerateRandomDuel(s.ctx)
	s.ErrorIs(err, model.ErrInsufficientPlayers)
	_, err = s.app.Engine.CreateDuel(s.ctx, "alice", "bob", 1, 1, model.BetModeAgreed)
	s.ErrorIs(err, model.ErrInvalidPlayers)

	// An administrative correction brings bob back without touching his record
	bob, err = s.app.Engine.UpdateHearts(s.ctx, "bob", 3)
	s.Require().NoError(err)
	s.Equal(3, bob.CurrentHearts)
	eligible, err := s.app.Engine.IsPlayerEligible(s.ctx, "bob")
	s.Require().NoError(err)
	s.True(eligible)

	bob, err = s.app.Engine.GetPlayer(s.ctx, "bob")
	s.Require().NoError(err)
	s.Equal(10, bob.HeartsLost)
	s.Equal(2, bob.Losses)
}

// Test: Random matchmaking uses the injected random source and mock ids
func (s *IntegrationSuite) TestRandomDuelUsesMocks() {
	s.addPlayers("carol", "alice", "bob")
	s.app.MockIDs.QueueID("fixed-duel")
	s.app.MockRandom.QueueIntn(2, 0)

	duel, err := s.app.Engine.GenerateRandomDuel(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.DuelID("fixed-duel"), duel.ID)
	s.Equal(model.PlayerID("carol"), duel.Player1)
	s.Equal(model.PlayerID("alice"), duel.Player2)
	s.Equal(s.app.MockClock.Now(), duel.Timestamp)
}

// Test: Reset empties both players and duels
func (s *IntegrationSuite) TestResetGame() {
	s.addPlayers("alice", "bob")
	_, err := s.app.Engine.CreateDuel(s.ctx, "alice", "bob", 1, 1, model.BetModeAgreed)
	s.Require().NoError(err)

	s.Require().NoError(s.app.Engine.ResetGame(s.ctx))

	players, err := s.app.Engine.GetAllPlayers(s.ctx)
	s.Require().NoError(err)
	s.Empty(players)
	duels, err := s.app.Engine.GetAllDuels(s.ctx)
	s.Require().NoError(err)
	s.Empty(duels)
}

func TestNewRejectsUnknownStorage(t *testing.T) {
	_, err := New(Config{StorageType: "etcd"})
	require.Error(t, err)
}

func TestNewRequiresBackendSettings(t *testing.T) {
	_, err := New(Config{StorageType: StorageTypeRedis})
	require.Error(t, err)

	_, err = New(Config{StorageType: StorageTypeSQLite})
	require.Error(t, err)
}

func TestNewWiresEveryBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = "redis://" + mr.Addr()

	configs := map[string]Config{
		StorageTypeMemory: {},
		StorageTypeRedis:  {StorageType: StorageTypeRedis, RedisConfig: &redisCfg},
		StorageTypeSQLite: {StorageType: StorageTypeSQLite, SQLitePath: filepath.Join(t.TempDir(), "ladder.db")},
	}

	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			cfg.Logger = testutil.NopLogger()
			app, err := New(cfg)
			require.NoError(t, err)
			defer func() { _ = app.Close() }()

			ctx := context.Background()
			_, err = app.Engine.AddPlayer(ctx, "alice", "Alice")
			require.NoError(t, err)
			_, err = app.Engine.AddPlayer(ctx, "bob", "Bob")
			require.NoError(t, err)

			duel, err := app.Engine.GenerateRandomDuel(ctx)
			require.NoError(t, err)
			done, err := app.Engine.CompleteMatch(ctx, duel.ID, duel.Player1)
			require.NoError(t, err)
			require.Equal(t, 1, done.HeartsTransferred)
		})
	}
}
