// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/duelsmp/internal/model"
	"github.com/mcoot/duelsmp/internal/storage"
)

// Suite runs the storage contract against a backend.
// Backends embed it and assign Storage in their own SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func (s *Suite) newPlayer(id, name string) *model.Player {
	return model.NewPlayer(model.PlayerID(id), name, baseTime)
}

func (s *Suite) newDuel(id string, p1, p2 model.PlayerID) *model.Duel {
	return &model.Duel{
		ID:        model.DuelID(id),
		Player1:   p1,
		Player2:   p2,
		P1Bet:     2,
		P2Bet:     3,
		BetMode:   model.BetModeBlind,
		Status:    model.DuelStatusPending,
		Timestamp: baseTime.Add(time.Minute),
	}
}

// Player tests

func (s *Suite) TestCreateAndGetPlayer() {
	player := s.newPlayer("alice", "Alice")

	err := s.Storage.CreatePlayer(s.Ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.Storage.GetPlayer(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal("Alice", retrieved.DisplayName)
	s.Equal(model.InitialHearts, retrieved.CurrentHearts)
	s.True(player.CreatedAt.Equal(retrieved.CreatedAt))
}

func (s *Suite) TestCreatePlayerDuplicate() {
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, s.newPlayer("alice", "Alice")))

	err := s.Storage.CreatePlayer(s.Ctx, s.newPlayer("alice", "Other"))
	s.ErrorIs(err, model.ErrDuplicatePlayer)

	retrieved, err := s.Storage.GetPlayer(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal("Alice", retrieved.DisplayName)
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.Storage.GetPlayer(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestSavePlayer() {
	player := s.newPlayer("alice", "Alice")
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, player))

	player.DisplayName = "Alice the Bold"
	player.CurrentHearts = 7
	player.Wins = 2
	s.Require().NoError(s.Storage.SavePlayer(s.Ctx, player))

	retrieved, err := s.Storage.GetPlayer(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal("Alice the Bold", retrieved.DisplayName)
	s.Equal(7, retrieved.CurrentHearts)
	s.Equal(2, retrieved.Wins)
}

func (s *Suite) TestSavePlayerNotFound() {
	err := s.Storage.SavePlayer(s.Ctx, s.newPlayer("ghost", "Ghost"))
	s.ErrorIs(err, model.ErrPlayerNotFound)

	_, err = s.Storage.GetPlayer(s.Ctx, "ghost")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestReturnedPlayerIsACopy() {
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, s.newPlayer("alice", "Alice")))

	retrieved, err := s.Storage.GetPlayer(s.Ctx, "alice")
	s.Require().NoError(err)
	retrieved.CurrentHearts = 0

	again, err := s.Storage.GetPlayer(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.InitialHearts, again.CurrentHearts)
}

func (s *Suite) TestListPlayers() {
	players, err := s.Storage.ListPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Empty(players)

	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, s.newPlayer("alice", "Alice")))
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, s.newPlayer("bob", "Bob")))

	players, err = s.Storage.ListPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Len(players, 2)

	ids := []model.PlayerID{players[0].ID, players[1].ID}
	s.ElementsMatch([]model.PlayerID{"alice", "bob"}, ids)
}

func (s *Suite) TestDeletePlayer() {
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, s.newPlayer("alice", "Alice")))

	err := s.Storage.DeletePlayer(s.Ctx, "alice")
	s.Require().NoError(err)

	_, err = s.Storage.GetPlayer(s.Ctx, "alice")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	players, err := s.Storage.ListPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *Suite) TestDeletePlayerNotFound() {
	err := s.Storage.DeletePlayer(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestDeletePlayerKeepsDuels() {
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, s.newPlayer("alice", "Alice")))
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, s.newPlayer("bob", "Bob")))
	s.Require().NoError(s.Storage.SaveDuel(s.Ctx, s.newDuel("duel-1", "alice", "bob")))

	s.Require().NoError(s.Storage.DeletePlayer(s.Ctx, "alice"))

	duel, err := s.Storage.GetDuel(s.Ctx, "duel-1")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("alice"), duel.Player1)
}

// Duel tests

func (s *Suite) TestSaveAndGetDuel() {
	duel := s.newDuel("duel-1", "alice", "bob")

	err := s.Storage.SaveDuel(s.Ctx, duel)
	s.Require().NoError(err)

	retrieved, err := s.Storage.GetDuel(s.Ctx, "duel-1")
	s.Require().NoError(err)
	s.Equal(duel.ID, retrieved.ID)
	s.Equal(duel.Player1, retrieved.Player1)
	s.Equal(duel.Player2, retrieved.Player2)
	s.Equal(2, retrieved.P1Bet)
	s.Equal(3, retrieved.P2Bet)
	s.Equal(model.BetModeBlind, retrieved.BetMode)
	s.Equal(model.DuelStatusPending, retrieved.Status)
	s.Empty(retrieved.Winner)
	s.Nil(retrieved.CompletedAt)
	s.True(duel.Timestamp.Equal(retrieved.Timestamp))
}

func (s *Suite) TestGetDuelNotFound() {
	_, err := s.Storage.GetDuel(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrDuelNotFound)
}

func (s *Suite) TestListDuels() {
	duels, err := s.Storage.ListDuels(s.Ctx)
	s.Require().NoError(err)
	s.Empty(duels)

	s.Require().NoError(s.Storage.SaveDuel(s.Ctx, s.newDuel("duel-1", "alice", "bob")))
	s.Require().NoError(s.Storage.SaveDuel(s.Ctx, s.newDuel("duel-2", "bob", "carol")))

	duels, err = s.Storage.ListDuels(s.Ctx)
	s.Require().NoError(err)
	s.Len(duels, 2)
}

// settle builds a settlement moving hearts from loser to winner on top of
// the given base states
func settle(duel *model.Duel, winner, loser *model.Player, hearts int) storage.Settlement {
	completedAt := baseTime.Add(time.Hour)
	completed := duel.Clone()
	completed.Status = model.DuelStatusComplete
	completed.Winner = winner.ID
	completed.HeartsTransferred = hearts
	completed.CompletedAt = &completedAt

	w := winner.Clone()
	w.CurrentHearts += hearts
	w.Wins++
	w.HeartsWon += hearts
	w.UpdatedAt = completedAt

	l := loser.Clone()
	l.CurrentHearts -= hearts
	l.Losses++
	l.HeartsLost += hearts
	l.UpdatedAt = completedAt

	return storage.Settlement{
		Duel:   completed,
		Winner: storage.PlayerUpdate{Base: winner, Next: w},
		Loser:  storage.PlayerUpdate{Base: loser, Next: l},
	}
}

func (s *Suite) seedDuel() (*model.Duel, *model.Player, *model.Player) {
	alice := s.newPlayer("alice", "Alice")
	bob := s.newPlayer("bob", "Bob")
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, alice))
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, bob))
	duel := s.newDuel("duel-1", "alice", "bob")
	s.Require().NoError(s.Storage.SaveDuel(s.Ctx, duel))
	return duel, alice, bob
}

func (s *Suite) TestCompleteDuel() {
	duel, alice, bob := s.seedDuel()

	err := s.Storage.CompleteDuel(s.Ctx, settle(duel, alice, bob, 3))
	s.Require().NoError(err)

	storedDuel, err := s.Storage.GetDuel(s.Ctx, "duel-1")
	s.Require().NoError(err)
	s.Equal(model.DuelStatusComplete, storedDuel.Status)
	s.Equal(model.PlayerID("alice"), storedDuel.Winner)
	s.Equal(3, storedDuel.HeartsTransferred)
	s.Require().NotNil(storedDuel.CompletedAt)
	s.True(baseTime.Add(time.Hour).Equal(*storedDuel.CompletedAt))

	storedWinner, err := s.Storage.GetPlayer(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal(13, storedWinner.CurrentHearts)
	s.Equal(1, storedWinner.Wins)

	storedLoser, err := s.Storage.GetPlayer(s.Ctx, "bob")
	s.Require().NoError(err)
	s.Equal(7, storedLoser.CurrentHearts)
	s.Equal(1, storedLoser.Losses)
}

func (s *Suite) TestCompleteDuelTwiceFails() {
	duel, alice, bob := s.seedDuel()
	s.Require().NoError(s.Storage.CompleteDuel(s.Ctx, settle(duel, alice, bob, 3)))

	err := s.Storage.CompleteDuel(s.Ctx, settle(duel, bob, alice, 5))
	s.ErrorIs(err, model.ErrAlreadyComplete)

	storedWinner, _ := s.Storage.GetPlayer(s.Ctx, "alice")
	s.Equal(13, storedWinner.CurrentHearts)
	storedLoser, _ := s.Storage.GetPlayer(s.Ctx, "bob")
	s.Equal(7, storedLoser.CurrentHearts)
}

func (s *Suite) TestCompleteDuelMissingPlayerChangesNothing() {
	alice := s.newPlayer("alice", "Alice")
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, alice))
	duel := s.newDuel("duel-1", "alice", "bob")
	s.Require().NoError(s.Storage.SaveDuel(s.Ctx, duel))

	err := s.Storage.CompleteDuel(s.Ctx, settle(duel, alice, s.newPlayer("bob", "Bob"), 3))
	s.ErrorIs(err, model.ErrPlayerNotFound)

	storedDuel, _ := s.Storage.GetDuel(s.Ctx, "duel-1")
	s.Equal(model.DuelStatusPending, storedDuel.Status)
	storedWinner, _ := s.Storage.GetPlayer(s.Ctx, "alice")
	s.Equal(model.InitialHearts, storedWinner.CurrentHearts)
}

func (s *Suite) TestCompleteDuelNotFound() {
	duel := s.newDuel("missing", "alice", "bob")
	err := s.Storage.CompleteDuel(s.Ctx, settle(duel, s.newPlayer("alice", "Alice"), s.newPlayer("bob", "Bob"), 3))
	s.ErrorIs(err, model.ErrDuelNotFound)
}

func (s *Suite) TestCompleteDuelRejectsParticipantChangedSinceRead() {
	duel, _, _ := s.seedDuel()
	alice, err := s.Storage.GetPlayer(s.Ctx, "alice")
	s.Require().NoError(err)
	bob, err := s.Storage.GetPlayer(s.Ctx, "bob")
	s.Require().NoError(err)

	// Another writer settles a different duel for alice after our read
	changed := alice.Clone()
	changed.CurrentHearts = 6
	changed.Losses = 1
	changed.HeartsLost = 4
	changed.UpdatedAt = baseTime.Add(30 * time.Minute)
	s.Require().NoError(s.Storage.SavePlayer(s.Ctx, changed))

	err = s.Storage.CompleteDuel(s.Ctx, settle(duel, bob, alice, 2))
	s.ErrorIs(err, model.ErrConcurrentModification)

	storedDuel, _ := s.Storage.GetDuel(s.Ctx, "duel-1")
	s.Equal(model.DuelStatusPending, storedDuel.Status)
	storedAlice, _ := s.Storage.GetPlayer(s.Ctx, "alice")
	s.Equal(6, storedAlice.CurrentHearts)
	storedBob, _ := s.Storage.GetPlayer(s.Ctx, "bob")
	s.Equal(model.InitialHearts, storedBob.CurrentHearts)
	s.Equal(0, storedBob.Wins)
}

func (s *Suite) TestCompleteDuelRejectsChangeWithUnchangedTimestamp() {
	duel, alice, bob := s.seedDuel()

	// Writers sharing a frozen clock leave UpdatedAt as it was
	changed := bob.Clone()
	changed.CurrentHearts = 4
	s.Require().NoError(s.Storage.SavePlayer(s.Ctx, changed))

	err := s.Storage.CompleteDuel(s.Ctx, settle(duel, alice, bob, 3))
	s.ErrorIs(err, model.ErrConcurrentModification)

	storedAlice, _ := s.Storage.GetPlayer(s.Ctx, "alice")
	s.Equal(model.InitialHearts, storedAlice.CurrentHearts)
	storedBob, _ := s.Storage.GetPlayer(s.Ctx, "bob")
	s.Equal(4, storedBob.CurrentHearts)
}

// Reset tests

func (s *Suite) TestReset() {
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, s.newPlayer("alice", "Alice")))
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, s.newPlayer("bob", "Bob")))
	s.Require().NoError(s.Storage.SaveDuel(s.Ctx, s.newDuel("duel-1", "alice", "bob")))

	err := s.Storage.Reset(s.Ctx)
	s.Require().NoError(err)

	players, err := s.Storage.ListPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Empty(players)

	duels, err := s.Storage.ListDuels(s.Ctx)
	s.Require().NoError(err)
	s.Empty(duels)

	// Ids are free to register again
	s.NoError(s.Storage.CreatePlayer(s.Ctx, s.newPlayer("alice", "Alice")))
}
