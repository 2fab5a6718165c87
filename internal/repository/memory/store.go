// Package memory keeps games and the tally in process memory. It is used
// when no database is configured and by tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/iamasit07/connect-n/backend/internal/domain"
	"github.com/pkg/errors"
)

type Store struct {
	games map[string]domain.GameRecord
	tally domain.Tally
	mu    sync.RWMutex
}

func NewStore() *Store {
	return &Store{games: make(map[string]domain.GameRecord)}
}

func (s *Store) CreateGame(_ context.Context, game *domain.GameRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.games[game.ID]; exists {
		return errors.Errorf("game %s already exists", game.ID)
	}
	s.games[game.ID] = cloneRecord(*game)
	return nil
}

func (s *Store) GetGame(_ context.Context, gameID string) (*domain.GameRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	game, exists := s.games[gameID]
	if !exists {
		return nil, nil
	}
	record := cloneRecord(game)
	return &record, nil
}

func (s *Store) SaveMoves(_ context.Context, gameID string, moves []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	game, exists := s.games[gameID]
	if !exists {
		return domain.ErrGameNotFound
	}
	game.Moves = append([]int(nil), moves...)
	game.UpdatedAt = time.Now()
	s.games[gameID] = game
	return nil
}

func (s *Store) DeleteGame(_ context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.games, gameID)
	return nil
}

func (s *Store) DeleteStaleGames(_ context.Context, olderThan time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for gameID, game := range s.games {
		if game.UpdatedAt.Before(olderThan) {
			delete(s.games, gameID)
			count++
		}
	}
	return count, nil
}

func (s *Store) IncrementTally(_ context.Context, outcome domain.Outcome) (domain.Tally, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch outcome {
	case domain.OutcomeHumanWin:
		s.tally.HumanWins++
	case domain.OutcomeComputerWin:
		s.tally.ComputerWins++
	case domain.OutcomeTie:
		s.tally.Ties++
	default:
		return s.tally, errors.Errorf("unknown outcome %q", outcome)
	}
	return s.tally, nil
}

func (s *Store) GetTally(_ context.Context) (domain.Tally, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.tally, nil
}

func cloneRecord(game domain.GameRecord) domain.GameRecord {
	game.Moves = append([]int(nil), game.Moves...)
	return game
}
