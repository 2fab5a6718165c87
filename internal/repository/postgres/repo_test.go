package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/iamasit07/connect-n/backend/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

var gameColumns = []string{
	"game_id", "num_rows", "num_columns", "num_to_win", "depth", "difficulty", "moves_made", "created_at", "updated_at",
}

func TestRunMigrations(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS game_state")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, RunMigrations(db))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepo_CreateGame(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGameRepo(db)
	now := time.Now()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO game_state")).
		WithArgs("g1", 6, 7, 4, 5, "hard", sqlmock.AnyArg(), now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CreateGame(context.Background(), &domain.GameRecord{
		ID: "g1", Rows: 6, Columns: 7, WinLength: 4, Depth: 5, Difficulty: "hard", CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepo_GetGame(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGameRepo(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM game_state")).
		WithArgs("g1").
		WillReturnRows(sqlmock.NewRows(gameColumns).AddRow("g1", 6, 7, 4, 5, "hard", "{3,3,2}", now, now))

	game, err := repo.GetGame(context.Background(), "g1")
	require.NoError(t, err)
	require.NotNil(t, game)
	require.Equal(t, "g1", game.ID)
	require.Equal(t, 6, game.Rows)
	require.Equal(t, 7, game.Columns)
	require.Equal(t, 4, game.WinLength)
	require.Equal(t, 5, game.Depth)
	require.Equal(t, []int{3, 3, 2}, game.Moves)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepo_GetGame_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGameRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM game_state")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(gameColumns))

	game, err := repo.GetGame(context.Background(), "missing")
	require.NoError(t, err)
	require.Nil(t, game)
}

func TestGameRepo_GetGame_Error(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGameRepo(db)
	boom := errors.New("connection reset")

	mock.ExpectQuery(regexp.QuoteMeta("FROM game_state")).WithArgs("g1").WillReturnError(boom)

	_, err := repo.GetGame(context.Background(), "g1")
	require.ErrorIs(t, err, boom)
}

func TestGameRepo_SaveMoves(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGameRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE game_state SET moves_made")).
		WithArgs("g1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE game_state SET moves_made")).
		WithArgs("gone", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.SaveMoves(context.Background(), "g1", []int{3, 4}))
	require.ErrorIs(t, repo.SaveMoves(context.Background(), "gone", []int{3}), domain.ErrGameNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGameRepo_DeleteStaleGames(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGameRepo(db)
	cutoff := time.Now().Add(-24 * time.Hour)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM game_state WHERE updated_at < $1")).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 3))

	count, err := repo.DeleteStaleGames(context.Background(), cutoff)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTallyRepo_IncrementTally(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTallyRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO game_wins (id, computer_wins) VALUES (1, 1)")).
		WillReturnRows(sqlmock.NewRows([]string{"human_wins", "computer_wins", "ties"}).AddRow(2, 5, 1))

	tally, err := repo.IncrementTally(context.Background(), domain.OutcomeComputerWin)
	require.NoError(t, err)
	require.Equal(t, domain.Tally{HumanWins: 2, ComputerWins: 5, Ties: 1}, tally)
	require.NoError(t, mock.ExpectationsWereMet())

	_, err = repo.IncrementTally(context.Background(), domain.Outcome("nobody"))
	require.EqualError(t, err, `unknown outcome "nobody"`)
	require.Contains(t, fmt.Sprintf("%+v", err), "tally_repo.go")
}

func TestTallyRepo_GetTally_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTallyRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM game_wins")).
		WillReturnRows(sqlmock.NewRows([]string{"human_wins", "computer_wins", "ties"}))

	tally, err := repo.GetTally(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.Tally{}, tally)
}
