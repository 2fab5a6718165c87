// Package repository defines the storage contracts for games in progress
// and for the all-time result tally.
package repository

import (
	"context"
	"time"

	"github.com/iamasit07/connect-n/backend/internal/domain"
)

// GameStore persists games in progress.
type GameStore interface {
	CreateGame(ctx context.Context, game *domain.GameRecord) error
	// GetGame returns nil, nil when no game has that id.
	GetGame(ctx context.Context, gameID string) (*domain.GameRecord, error)
	// SaveMoves replaces the move list, domain.ErrGameNotFound if absent.
	SaveMoves(ctx context.Context, gameID string, moves []int) error
	DeleteGame(ctx context.Context, gameID string) error
	// DeleteStaleGames removes games not updated since olderThan.
	DeleteStaleGames(ctx context.Context, olderThan time.Time) (int64, error)
}

// TallyStore counts finished games by outcome.
type TallyStore interface {
	IncrementTally(ctx context.Context, outcome domain.Outcome) (domain.Tally, error)
	GetTally(ctx context.Context) (domain.Tally, error)
}
