package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/duelsmp/internal/model"
	"github.com/mcoot/duelsmp/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.Storage = New()
	s.Ctx = context.Background()
}

func (s *StorageSuite) TestSavedPlayerIsACopy() {
	player := model.NewPlayer("alice", "Alice", time.Now())
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, player))

	// Mutating the caller's value after saving must not leak into the store
	player.CurrentHearts = 1

	retrieved, err := s.Storage.GetPlayer(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.InitialHearts, retrieved.CurrentHearts)
}
