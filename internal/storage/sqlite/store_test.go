package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/duelsmp/internal/model"
	"github.com/mcoot/duelsmp/internal/storage/storagetest"
)

type StoreSuite struct {
	storagetest.Suite
	path  string
	store *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.path = filepath.Join(s.T().TempDir(), "duelsmp.db")

	store, err := Open(s.path)
	s.Require().NoError(err)

	s.store = store
	s.Storage = store
	s.Ctx = context.Background()
}

func (s *StoreSuite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

func (s *StoreSuite) TestOpenRequiresPath() {
	_, err := Open("  ")
	s.Error(err)
}

func (s *StoreSuite) TestStateSurvivesReopen() {
	player := model.NewPlayer("alice", "Alice", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.Require().NoError(s.store.CreatePlayer(s.Ctx, player))
	s.Require().NoError(s.store.Close())

	reopened, err := Open(s.path)
	s.Require().NoError(err)
	s.store = reopened

	retrieved, err := reopened.GetPlayer(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal("Alice", retrieved.DisplayName)
	s.Equal(model.InitialHearts, retrieved.CurrentHearts)
}

func (s *StoreSuite) TestSaveDuelOverwrites() {
	duel := &model.Duel{
		ID:        "duel-1",
		Player1:   "alice",
		Player2:   "bob",
		P1Bet:     1,
		P2Bet:     1,
		BetMode:   model.BetModeAgreed,
		Status:    model.DuelStatusPending,
		Timestamp: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	s.Require().NoError(s.store.SaveDuel(s.Ctx, duel))

	duel.P2Bet = 4
	s.Require().NoError(s.store.SaveDuel(s.Ctx, duel))

	duels, err := s.store.ListDuels(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(duels, 1)
	s.Equal(4, duels[0].P2Bet)
}
