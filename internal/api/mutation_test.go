package api_test

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/duelsmp/internal/api/response"
	"github.com/mcoot/duelsmp/internal/factory"
	"github.com/mcoot/duelsmp/internal/model"
	"github.com/mcoot/duelsmp/internal/storage"
	"github.com/mcoot/duelsmp/internal/storage/memory"
)

var errReadsDown = errors.New("reads unavailable")

// brittleStorage fails every read once armed, leaving writes working
type brittleStorage struct {
	storage.Storage
	armed     atomic.Bool
	afterSave atomic.Bool
}

// failReadsAfterNextWrite lets the next mutation read normally and fails
// every read once it has written
func (s *brittleStorage) failReadsAfterNextWrite() {
	s.armed.Store(false)
	s.afterSave.Store(true)
}

func (s *brittleStorage) wrote() {
	if s.afterSave.Load() {
		s.armed.Store(true)
	}
}

func (s *brittleStorage) reset() {
	s.armed.Store(false)
	s.afterSave.Store(false)
}

func (s *brittleStorage) SavePlayer(ctx context.Context, player *model.Player) error {
	err := s.Storage.SavePlayer(ctx, player)
	s.wrote()
	return err
}

func (s *brittleStorage) SaveDuel(ctx context.Context, duel *model.Duel) error {
	err := s.Storage.SaveDuel(ctx, duel)
	s.wrote()
	return err
}

func (s *brittleStorage) CompleteDuel(ctx context.Context, settlement storage.Settlement) error {
	err := s.Storage.CompleteDuel(ctx, settlement)
	s.wrote()
	return err
}

func (s *brittleStorage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	if s.armed.Load() {
		return nil, errReadsDown
	}
	return s.Storage.GetPlayer(ctx, id)
}

func (s *brittleStorage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	if s.armed.Load() {
		return nil, errReadsDown
	}
	return s.Storage.ListPlayers(ctx)
}

func (s *brittleStorage) GetDuel(ctx context.Context, id model.DuelID) (*model.Duel, error) {
	if s.armed.Load() {
		return nil, errReadsDown
	}
	return s.Storage.GetDuel(ctx, id)
}

func (s *brittleStorage) ListDuels(ctx context.Context) ([]*model.Duel, error) {
	if s.armed.Load() {
		return nil, errReadsDown
	}
	return s.Storage.ListDuels(ctx)
}

// A committed mutation answers from its own result even when state can no
// longer be read back
func TestMutationsAnswerWithoutReadingBack(t *testing.T) {
	store := &brittleStorage{Storage: memory.New()}
	app := factory.NewTestAppWithStorage(store)
	ts := newTestServerWith(t, app)
	ts.addPlayer(t, "alice", "Alice")
	ts.addPlayer(t, "bob", "Bob")

	store.failReadsAfterNextWrite()
	rr := ts.request(http.MethodPut, "/api/v1/players/bob/hearts", map[string]int{"hearts": 6})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	player := decode[response.Player](t, rr)
	assert.Equal(t, "Bob", player.DisplayName)
	assert.Equal(t, 6, player.CurrentHearts)

	store.failReadsAfterNextWrite()
	app.MockIDs.QueueID("duel-1")
	created := ts.createDuel(t, map[string]any{"player1": "alice", "player2": "bob", "p1_bet": 2, "p2_bet": 3})
	assert.Equal(t, "duel-1", created.ID)
	assert.Equal(t, "Alice", created.Player1Name)
	assert.Equal(t, "Bob", created.Player2Name)

	store.failReadsAfterNextWrite()
	rr = ts.request(http.MethodPost, "/api/v1/duels/duel-1/complete", map[string]string{"winner": "alice"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	completed := decode[response.Duel](t, rr)
	require.NotNil(t, completed.WinnerName)
	assert.Equal(t, "Alice", *completed.WinnerName)
	assert.Equal(t, 3, completed.HeartsTransferred)

	// The failures were real: a plain read is refused while armed
	rr = ts.request(http.MethodGet, "/api/v1/players/bob", nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	store.reset()
	rr = ts.request(http.MethodGet, "/api/v1/players/bob", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 3, decode[response.Player](t, rr).CurrentHearts)
}
