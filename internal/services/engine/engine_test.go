package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/duelsmp/internal/dependencies/mocks"
	"github.com/mcoot/duelsmp/internal/model"
	"github.com/mcoot/duelsmp/internal/services/ledger"
	"github.com/mcoot/duelsmp/internal/services/matchmaker"
	"github.com/mcoot/duelsmp/internal/services/ranking"
	"github.com/mcoot/duelsmp/internal/services/registry"
	"github.com/mcoot/duelsmp/internal/storage/memory"
	"github.com/mcoot/duelsmp/internal/testutil"
)

type EngineSuite struct {
	suite.Suite
	clock  *mocks.MockClock
	random *mocks.MockRandom
	engine *Engine
	ctx    context.Context
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	logger := testutil.NopLogger()
	store := memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.clock.Step = time.Second
	s.random = mocks.NewMockRandom()

	reg := registry.New(store, s.clock, logger)
	led := ledger.New(store, reg, s.clock, mocks.NewMockIDGenerator(), logger)
	mm := matchmaker.New(reg, led, s.random, matchmaker.DefaultConfig(), logger)
	s.engine = New(reg, led, mm)
	s.ctx = context.Background()
}

func (s *EngineSuite) addPlayer(id, name string) {
	_, err := s.engine.AddPlayer(s.ctx, model.PlayerID(id), name)
	s.Require().NoError(err)
}

func (s *EngineSuite) totalHearts() int {
	players, err := s.engine.GetAllPlayers(s.ctx)
	s.Require().NoError(err)
	total := 0
	for _, p := range players {
		total += p.CurrentHearts
	}
	return total
}

func (s *EngineSuite) TestLadderFlow() {
	s.addPlayer("alice", "Alice")
	s.addPlayer("bob", "Bob")
	s.addPlayer("carol", "Carol")

	duel, err := s.engine.CreateDuel(s.ctx, "alice", "bob", 3, 5, model.BetModeBlind)
	s.Require().NoError(err)

	// Blind bets stay hidden in the view until the duel completes
	snap, err := s.engine.Snapshot(s.ctx)
	s.Require().NoError(err)
	active := ranking.ActiveDuel(snap.Duels)
	s.Require().NotNil(active)
	s.Nil(ranking.ViewDuel(active, snap.Names()).P1Bet)

	_, err = s.engine.CompleteMatch(s.ctx, duel.ID, "alice")
	s.Require().NoError(err)

	snap, err = s.engine.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Nil(ranking.ActiveDuel(snap.Duels))
	history := ranking.MatchHistory(snap.Duels)
	s.Require().Len(history, 1)
	view := ranking.ViewDuel(history[0], snap.Names())
	s.Require().NotNil(view.P1Bet)
	s.Equal(3, *view.P1Bet)
	s.Equal(5, *view.P2Bet)
	s.Equal("Alice", view.WinnerName)

	board := ranking.Leaderboard(snap.Players)
	s.Equal(model.PlayerID("alice"), board[0].ID)
	s.Equal(15, board[0].CurrentHearts)
	s.Equal(model.PlayerID("carol"), board[1].ID)
	s.Equal(model.PlayerID("bob"), board[2].ID)
	s.Equal(5, board[2].CurrentHearts)
	s.Equal(30, s.totalHearts())

	stats := ranking.GetStats(snap.Players, snap.Duels)
	s.Equal(3, stats.ActivePlayers)
	s.Equal(1, stats.TotalMatches)
	s.Equal(model.PlayerID("alice"), stats.MostWins.ID)
}

func (s *EngineSuite) TestEliminationRemovesPlayerFromRandomDuels() {
	s.addPlayer("alice", "Alice")
	s.addPlayer("bob", "Bob")
	s.addPlayer("carol", "Carol")
	_, err := s.engine.UpdateHearts(s.ctx, "carol", 2)
	s.Require().NoError(err)

	duel, err := s.engine.CreateDuel(s.ctx, "alice", "carol", 1, 2, model.BetModeAgreed)
	s.Require().NoError(err)
	_, err = s.engine.CompleteMatch(s.ctx, duel.ID, "alice")
	s.Require().NoError(err)

	eligible, err := s.engine.IsPlayerEligible(s.ctx, "carol")
	s.Require().NoError(err)
	s.False(eligible)

	for range 5 {
		duel, err := s.engine.GenerateRandomDuel(s.ctx)
		s.Require().NoError(err)
		s.False(duel.HasParticipant("carol"))
	}
}

func (s *EngineSuite) TestDuelResultsCarryNames() {
	s.addPlayer("alice", "Alice")
	s.addPlayer("bob", "Bob")

	created, err := s.engine.CreateDuel(s.ctx, "alice", "bob", 2, 2, model.BetModeAgreed)
	s.Require().NoError(err)
	s.Equal("Alice", created.Names.Of("alice"))
	s.Equal("Bob", created.Names.Of("bob"))

	completed, err := s.engine.CompleteMatch(s.ctx, created.ID, "bob")
	s.Require().NoError(err)
	s.Equal(model.DuelStatusComplete, completed.Status)
	view := ranking.ViewDuel(completed.Duel, completed.Names)
	s.Equal("Bob", view.WinnerName)
	s.Equal(2, completed.HeartsTransferred)

	looked, err := s.engine.LookupDuel(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(completed.Duel, looked.Duel)
	s.Equal("Alice", looked.Names.Of("alice"))

	_, err = s.engine.LookupDuel(s.ctx, "missing")
	s.ErrorIs(err, model.ErrDuelNotFound)
}

func (s *EngineSuite) TestUpdateHeartsReturnsStoredPlayer() {
	s.addPlayer("alice", "Alice")

	player, err := s.engine.UpdateHearts(s.ctx, "alice", 0)
	s.Require().NoError(err)
	s.Equal(0, player.CurrentHearts)
	s.True(player.Eliminated())

	stored, err := s.engine.GetPlayer(s.ctx, "alice")
	s.Require().NoError(err)
	s.True(player.SameState(stored))
}

func (s *EngineSuite) TestRemovedPlayerFallsBackToID() {
	s.addPlayer("alice", "Alice")
	s.addPlayer("bob", "Bob")
	duel, err := s.engine.CreateDuel(s.ctx, "alice", "bob", 1, 1, model.BetModeAgreed)
	s.Require().NoError(err)
	_, err = s.engine.CompleteMatch(s.ctx, duel.ID, "bob")
	s.Require().NoError(err)

	s.Require().NoError(s.engine.RemovePlayer(s.ctx, "bob"))

	snap, err := s.engine.Snapshot(s.ctx)
	s.Require().NoError(err)
	view := ranking.ViewDuel(snap.Duels[0], snap.Names())
	s.Equal("Alice", view.Player1Name)
	s.Equal("bob", view.Player2Name)
	s.Equal("bob", view.WinnerName)
}

func (s *EngineSuite) TestResetGame() {
	s.addPlayer("alice", "Alice")
	s.addPlayer("bob", "Bob")
	_, err := s.engine.CreateDuel(s.ctx, "alice", "bob", 1, 1, model.BetModeAgreed)
	s.Require().NoError(err)

	s.Require().NoError(s.engine.ResetGame(s.ctx))

	players, err := s.engine.GetAllPlayers(s.ctx)
	s.Require().NoError(err)
	s.Empty(players)
	duels, err := s.engine.GetAllDuels(s.ctx)
	s.Require().NoError(err)
	s.Empty(duels)
}

func (s *EngineSuite) TestConcurrentCompletionSucceedsOnce() {
	s.addPlayer("alice", "Alice")
	s.addPlayer("bob", "Bob")
	duel, err := s.engine.CreateDuel(s.ctx, "alice", "bob", 4, 4, model.BetModeAgreed)
	s.Require().NoError(err)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := range attempts {
		winner := model.PlayerID("alice")
		if i%2 == 1 {
			winner = "bob"
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.engine.CompleteMatch(s.ctx, duel.ID, winner)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		s.ErrorIs(err, model.ErrAlreadyComplete)
	}
	s.Equal(1, succeeded)
	s.Equal(20, s.totalHearts())

	alice, _ := s.engine.GetPlayer(s.ctx, "alice")
	bob, _ := s.engine.GetPlayer(s.ctx, "bob")
	s.Equal(1, alice.Wins+bob.Wins)
	s.Equal(1, alice.Losses+bob.Losses)
}

func (s *EngineSuite) TestConcurrentMatchesConserveHearts() {
	players := []string{"a", "b", "c", "d", "e", "f"}
	for _, id := range players {
		s.addPlayer(id, id)
	}

	var duels []*model.Duel
	for i := 0; i < len(players); i++ {
		for j := i + 1; j < len(players); j++ {
			d, err := s.engine.CreateDuel(s.ctx, model.PlayerID(players[i]), model.PlayerID(players[j]), 1, 1, model.BetModeAgreed)
			s.Require().NoError(err)
			duels = append(duels, d.Duel)
		}
	}

	var wg sync.WaitGroup
	for _, d := range duels {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.engine.CompleteMatch(s.ctx, d.ID, d.Player1)
		}()
	}
	wg.Wait()

	s.Equal(len(players)*model.InitialHearts, s.totalHearts())

	all, err := s.engine.GetAllPlayers(s.ctx)
	s.Require().NoError(err)
	wins, losses := 0, 0
	for _, p := range all {
		s.GreaterOrEqual(p.CurrentHearts, 0)
		wins += p.Wins
		losses += p.Losses
	}
	s.Equal(len(duels), wins)
	s.Equal(len(duels), losses)
}
