package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/iamasit07/connect-n/backend/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

type GameRepo struct {
	DB *sqlx.DB
}

func NewGameRepo(db *sqlx.DB) *GameRepo {
	return &GameRepo{DB: db}
}

// CreateGame inserts a new game in progress
func (r *GameRepo) CreateGame(ctx context.Context, game *domain.GameRecord) error {
	query := `
	INSERT INTO game_state (game_id, num_rows, num_columns, num_to_win, depth, difficulty, moves_made, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`

	_, err := r.DB.ExecContext(ctx, query, game.ID, game.Rows, game.Columns, game.WinLength, game.Depth,
		game.Difficulty, pq.Array(toInt64s(game.Moves)), game.CreatedAt, game.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "failed to insert game")
	}
	return nil
}

// GetGame loads a game in progress, nil if it does not exist
func (r *GameRepo) GetGame(ctx context.Context, gameID string) (*domain.GameRecord, error) {
	query := `
	SELECT game_id, num_rows, num_columns, num_to_win, depth, difficulty, moves_made, created_at, updated_at
	FROM game_state
	WHERE game_id = $1;
	`

	var game domain.GameRecord
	var moves []int64
	err := r.DB.QueryRowxContext(ctx, query, gameID).Scan(
		&game.ID,
		&game.Rows,
		&game.Columns,
		&game.WinLength,
		&game.Depth,
		&game.Difficulty,
		pq.Array(&moves),
		&game.CreatedAt,
		&game.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get game by ID")
	}

	game.Moves = make([]int, len(moves))
	for i, move := range moves {
		game.Moves[i] = int(move)
	}
	return &game, nil
}

// SaveMoves overwrites the move list of a game in progress
func (r *GameRepo) SaveMoves(ctx context.Context, gameID string, moves []int) error {
	query := `UPDATE game_state SET moves_made = $2, updated_at = NOW() WHERE game_id = $1;`

	result, err := r.DB.ExecContext(ctx, query, gameID, pq.Array(toInt64s(moves)))
	if err != nil {
		return errors.Wrap(err, "failed to save moves")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return domain.ErrGameNotFound
	}
	return nil
}

func (r *GameRepo) DeleteGame(ctx context.Context, gameID string) error {
	query := `DELETE FROM game_state WHERE game_id = $1;`

	if _, err := r.DB.ExecContext(ctx, query, gameID); err != nil {
		return errors.Wrap(err, "failed to delete game")
	}
	return nil
}

// DeleteStaleGames removes abandoned games that have not moved since olderThan
func (r *GameRepo) DeleteStaleGames(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `DELETE FROM game_state WHERE updated_at < $1;`

	result, err := r.DB.ExecContext(ctx, query, olderThan)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete stale games")
	}
	return result.RowsAffected()
}

func toInt64s(moves []int) []int64 {
	out := make([]int64, len(moves))
	for i, move := range moves {
		out[i] = int64(move)
	}
	return out
}
