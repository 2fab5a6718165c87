package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iamasit07/connect-n/backend/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

type TallyRepo struct {
	DB *sqlx.DB
}

func NewTallyRepo(db *sqlx.DB) *TallyRepo {
	return &TallyRepo{DB: db}
}

// the tally lives in a single row, created by the first finished game
var outcomeColumns = map[domain.Outcome]string{
	domain.OutcomeHumanWin:    "human_wins",
	domain.OutcomeComputerWin: "computer_wins",
	domain.OutcomeTie:         "ties",
}

// IncrementTally adds one to the outcome's counter and returns the new totals
func (r *TallyRepo) IncrementTally(ctx context.Context, outcome domain.Outcome) (domain.Tally, error) {
	column, ok := outcomeColumns[outcome]
	if !ok {
		return domain.Tally{}, errors.Errorf("unknown outcome %q", outcome)
	}

	query := fmt.Sprintf(`
	INSERT INTO game_wins (id, %[1]s) VALUES (1, 1)
	ON CONFLICT (id) DO UPDATE SET %[1]s = game_wins.%[1]s + 1
	RETURNING human_wins, computer_wins, ties;
	`, column)

	var tally domain.Tally
	if err := r.DB.GetContext(ctx, &tally, query); err != nil {
		return domain.Tally{}, errors.Wrap(err, "failed to increment tally")
	}
	return tally, nil
}

func (r *TallyRepo) GetTally(ctx context.Context) (domain.Tally, error) {
	query := `SELECT human_wins, computer_wins, ties FROM game_wins WHERE id = 1;`

	var tally domain.Tally
	err := r.DB.GetContext(ctx, &tally, query)
	if err == sql.ErrNoRows {
		return domain.Tally{}, nil
	}
	if err != nil {
		return domain.Tally{}, errors.Wrap(err, "failed to get tally")
	}
	return tally, nil
}

