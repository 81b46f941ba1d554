// Package sqlite provides a SQLite-backed ladder storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/mcoot/duelsmp/internal/model"
	"github.com/mcoot/duelsmp/internal/storage"
)

//go:embed schema.sql
var schemaSQL string

// Store persists ladder state in SQLite
type Store struct {
	sqlDB *sql.DB
}

// Ensure Store implements the interface
var _ storage.Storage = (*Store)(nil)

func toNanos(value time.Time) int64 {
	return value.UTC().UnixNano()
}

func fromNanos(value int64) time.Time {
	return time.Unix(0, value).UTC()
}

// Open opens a SQLite ladder store and applies the schema
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schemaSQL); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Player operations

const playerColumns = `id, display_name, current_hearts, wins, losses, hearts_won, hearts_lost, created_at, updated_at`

func (s *Store) CreatePlayer(ctx context.Context, player *model.Player) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO players (`+playerColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(player.ID),
		player.DisplayName,
		player.CurrentHearts,
		player.Wins,
		player.Losses,
		player.HeartsWon,
		player.HeartsLost,
		toNanos(player.CreatedAt),
		toNanos(player.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrDuplicatePlayer
		}
		return fmt.Errorf("create player: %w", err)
	}
	return nil
}

func (s *Store) SavePlayer(ctx context.Context, player *model.Player) error {
	return updatePlayer(ctx, s.sqlDB, player)
}

func (s *Store) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ?`, string(id))
	player, err := scanPlayer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("get player: %w", err)
	}
	return player, nil
}

func (s *Store) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT `+playerColumns+` FROM players`)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer func() { _ = rows.Close() }()

	players := []*model.Player{}
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, player)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate players: %w", err)
	}
	return players, nil
}

func (s *Store) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM players WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete player: %w", err)
	}
	if affected == 0 {
		return model.ErrPlayerNotFound
	}
	return nil
}

// Duel operations

const duelColumns = `id, player1, player2, p1_bet, p2_bet, bet_mode, status, winner, hearts_transferred, created_at, completed_at`

func (s *Store) SaveDuel(ctx context.Context, duel *model.Duel) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO duels (`+duelColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   status = excluded.status,
		   winner = excluded.winner,
		   hearts_transferred = excluded.hearts_transferred,
		   completed_at = excluded.completed_at`,
		string(duel.ID),
		string(duel.Player1),
		string(duel.Player2),
		duel.P1Bet,
		duel.P2Bet,
		string(duel.BetMode),
		string(duel.Status),
		string(duel.Winner),
		duel.HeartsTransferred,
		toNanos(duel.Timestamp),
		nullableNanos(duel.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("save duel: %w", err)
	}
	return nil
}

func (s *Store) GetDuel(ctx context.Context, id model.DuelID) (*model.Duel, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+duelColumns+` FROM duels WHERE id = ?`, string(id))
	duel, err := scanDuel(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrDuelNotFound
		}
		return nil, fmt.Errorf("get duel: %w", err)
	}
	return duel, nil
}

func (s *Store) ListDuels(ctx context.Context) ([]*model.Duel, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT `+duelColumns+` FROM duels`)
	if err != nil {
		return nil, fmt.Errorf("list duels: %w", err)
	}
	defer func() { _ = rows.Close() }()

	duels := []*model.Duel{}
	for rows.Next() {
		duel, err := scanDuel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan duel: %w", err)
		}
		duels = append(duels, duel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate duels: %w", err)
	}
	return duels, nil
}

func (s *Store) CompleteDuel(ctx context.Context, settlement storage.Settlement) (err error) {
	duel := settlement.Duel
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin complete duel: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// The status guard makes a second completion a no-op update
	result, err := tx.ExecContext(ctx,
		`UPDATE duels SET status = ?, winner = ?, hearts_transferred = ?, completed_at = ?
		 WHERE id = ? AND status = ?`,
		string(duel.Status),
		string(duel.Winner),
		duel.HeartsTransferred,
		nullableNanos(duel.CompletedAt),
		string(duel.ID),
		string(model.DuelStatusPending),
	)
	if err != nil {
		return fmt.Errorf("complete duel: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("complete duel: %w", err)
	}
	if affected == 0 {
		var exists int
		if qerr := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM duels WHERE id = ?`, string(duel.ID)).Scan(&exists); qerr != nil {
			return fmt.Errorf("complete duel: %w", qerr)
		}
		if exists == 0 {
			return model.ErrDuelNotFound
		}
		return model.ErrAlreadyComplete
	}

	// The duel update holds the write lock, so these reads see the latest
	// committed players and nothing can change them before commit
	for _, update := range []storage.PlayerUpdate{settlement.Winner, settlement.Loser} {
		row := tx.QueryRowContext(ctx, `SELECT `+playerColumns+` FROM players WHERE id = ?`, string(update.Next.ID))
		current, err := scanPlayer(row)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return model.ErrPlayerNotFound
			}
			return fmt.Errorf("complete duel: %w", err)
		}
		if !update.Unchanged(current) {
			return model.ErrConcurrentModification
		}
		if err := updatePlayer(ctx, tx, update.Next); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit complete duel: %w", err)
	}
	return nil
}

func (s *Store) Reset(ctx context.Context) (err error) {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM duels`); err != nil {
		return fmt.Errorf("reset duels: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM players`); err != nil {
		return fmt.Errorf("reset players: %w", err)
	}
	return tx.Commit()
}

// execer is satisfied by both *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func updatePlayer(ctx context.Context, db execer, player *model.Player) error {
	result, err := db.ExecContext(ctx,
		`UPDATE players SET
		   display_name = ?, current_hearts = ?, wins = ?, losses = ?,
		   hearts_won = ?, hearts_lost = ?, updated_at = ?
		 WHERE id = ?`,
		player.DisplayName,
		player.CurrentHearts,
		player.Wins,
		player.Losses,
		player.HeartsWon,
		player.HeartsLost,
		toNanos(player.UpdatedAt),
		string(player.ID),
	)
	if err != nil {
		return fmt.Errorf("update player: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update player: %w", err)
	}
	if affected == 0 {
		return model.ErrPlayerNotFound
	}
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row scanner) (*model.Player, error) {
	var (
		p         model.Player
		id        string
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&id, &p.DisplayName, &p.CurrentHearts, &p.Wins, &p.Losses, &p.HeartsWon, &p.HeartsLost, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.ID = model.PlayerID(id)
	p.CreatedAt = fromNanos(createdAt)
	p.UpdatedAt = fromNanos(updatedAt)
	return &p, nil
}

func scanDuel(row scanner) (*model.Duel, error) {
	var (
		d           model.Duel
		id          string
		player1     string
		player2     string
		betMode     string
		status      string
		winner      string
		createdAt   int64
		completedAt sql.NullInt64
	)
	if err := row.Scan(&id, &player1, &player2, &d.P1Bet, &d.P2Bet, &betMode, &status, &winner, &d.HeartsTransferred, &createdAt, &completedAt); err != nil {
		return nil, err
	}
	d.ID = model.DuelID(id)
	d.Player1 = model.PlayerID(player1)
	d.Player2 = model.PlayerID(player2)
	d.BetMode = model.BetMode(betMode)
	d.Status = model.DuelStatus(status)
	d.Winner = model.PlayerID(winner)
	d.Timestamp = fromNanos(createdAt)
	if completedAt.Valid {
		t := fromNanos(completedAt.Int64)
		d.CompletedAt = &t
	}
	return &d, nil
}

func nullableNanos(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toNanos(*t), Valid: true}
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
