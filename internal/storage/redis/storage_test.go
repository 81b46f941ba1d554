package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/duelsmp/internal/model"
	"github.com/mcoot/duelsmp/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	mini    *miniredis.Miniredis
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.Storage = s.storage
	s.Ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestKeysAreNamespaced() {
	player := model.NewPlayer("alice", "Alice", time.Now())
	s.Require().NoError(s.storage.CreatePlayer(s.Ctx, player))

	s.True(s.mini.Exists("duelsmp:player:alice"))
	members, err := s.mini.Members("duelsmp:idx:players")
	s.Require().NoError(err)
	s.Equal([]string{"duelsmp:player:alice"}, members)
}

func (s *StorageSuite) TestListSkipsDanglingIndexEntries() {
	player := model.NewPlayer("alice", "Alice", time.Now())
	s.Require().NoError(s.storage.CreatePlayer(s.Ctx, player))

	// An index entry whose value disappeared is ignored
	_, err := s.mini.SAdd("duelsmp:idx:players", "duelsmp:player:ghost")
	s.Require().NoError(err)

	players, err := s.storage.ListPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Len(players, 1)
	s.Equal(model.PlayerID("alice"), players[0].ID)
}
