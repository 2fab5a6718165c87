package game

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/iamasit07/connect-n/backend/internal/domain"
	"github.com/iamasit07/connect-n/backend/internal/repository"
	"github.com/iamasit07/connect-n/backend/internal/service/bot"
	"github.com/iamasit07/connect-n/backend/pkg/uid"
	"github.com/pkg/errors"
)

const (
	promptNewGame      = "Click on the board to make a move. You go first."
	promptHumanWins    = "Human Wins!"
	promptComputerWins = "Computer Wins!"
	promptTie          = "It's a tie!"
)

// TicketIssuer signs and checks the tickets that prove a caller owns a game.
type TicketIssuer interface {
	Issue(gameID string) (string, error)
	Verify(ticket, gameID string) error
}

// Options sets the board and search depth of new games.
type Options struct {
	Rows         int
	Columns      int
	WinLength    int
	DefaultDepth int
}

// Service runs human versus computer games. Each request replays the stored
// move list into a fresh GameState, so the engine itself is never shared.
type Service struct {
	games   repository.GameStore
	tallies repository.TallyStore
	tickets TicketIssuer
	opts    Options
	locks   *keyedMutex
}

func NewService(games repository.GameStore, tallies repository.TallyStore, tickets TicketIssuer, opts Options) *Service {
	return &Service{
		games:   games,
		tallies: tallies,
		tickets: tickets,
		opts:    opts,
		locks:   newKeyedMutex(),
	}
}

// View is what clients get back after every request.
type View struct {
	GameID         string   `json:"GameId"`
	Ticket         string   `json:"Ticket,omitempty"`
	NumRows        int      `json:"NumRows"`
	NumColumns     int      `json:"NumColumns"`
	NumToWin       int      `json:"NumToWin"`
	Difficulty     string   `json:"Difficulty,omitempty"`
	Board          []string `json:"Board"`
	MovesMade      []int    `json:"MovesMade"`
	GameOver       bool     `json:"GameOver"`
	Prompt         string   `json:"Prompt"`
	ComputerColumn *int     `json:"ComputerColumn,omitempty"`
}

type NewGameRequest struct {
	PreviousGameID string
	PreviousTicket string
	Difficulty     string
}

type MoveRequest struct {
	GameID string
	Ticket string
	Column int
}

// NewGame starts a game with the human to move. A previous game the caller
// abandoned is deleted when its ticket checks out.
func (s *Service) NewGame(ctx context.Context, req NewGameRequest) (*View, error) {
	difficulty := strings.ToLower(req.Difficulty)
	if difficulty != "" && !bot.IsValidDifficulty(difficulty) {
		return nil, domain.ErrInvalidDifficulty
	}

	if req.PreviousGameID != "" {
		s.discardPrevious(ctx, req.PreviousGameID, req.PreviousTicket)
	}

	now := time.Now()
	record := &domain.GameRecord{
		ID:         uid.GenerateGameID(),
		Rows:       s.opts.Rows,
		Columns:    s.opts.Columns,
		WinLength:  s.opts.WinLength,
		Depth:      bot.DepthForDifficulty(difficulty, s.opts.DefaultDepth),
		Difficulty: difficulty,
		Moves:      []int{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	state, err := record.State()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build board")
	}

	if err := s.games.CreateGame(ctx, record); err != nil {
		return nil, errors.Wrap(err, "failed to create game")
	}

	ticket, err := s.tickets.Issue(record.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue ticket")
	}

	log.Printf("[GAME] Created game %s (%dx%d, %d to win, depth %d)",
		record.ID, record.Rows, record.Columns, record.WinLength, record.Depth)

	view := newView(record, state, promptNewGame)
	view.Ticket = ticket
	return view, nil
}

func (s *Service) discardPrevious(ctx context.Context, gameID, ticket string) {
	if err := s.tickets.Verify(ticket, gameID); err != nil {
		log.Printf("[GAME] Not deleting previous game %s: %v", gameID, err)
		return
	}

	unlock := s.locks.Lock(gameID)
	defer unlock()

	if err := s.games.DeleteGame(ctx, gameID); err != nil {
		log.Printf("[GAME] Error deleting previous game %s: %v", gameID, err)
	}
}

// MakeMove plays the human's column and, unless that ends the game, the
// computer's reply. An unplayable column is reported in the prompt rather
// than as an error.
func (s *Service) MakeMove(ctx context.Context, req MoveRequest) (*View, error) {
	if err := s.tickets.Verify(req.Ticket, req.GameID); err != nil {
		return nil, domain.ErrInvalidTicket
	}

	unlock := s.locks.Lock(req.GameID)
	defer unlock()

	record, err := s.games.GetGame(ctx, req.GameID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load game")
	}
	if record == nil {
		return nil, domain.ErrGameNotFound
	}

	state, err := record.State()
	if err != nil {
		return nil, errors.Wrapf(domain.ErrCorruptGame, "game %s: %v", record.ID, err)
	}
	if state.IsOver() {
		return nil, domain.ErrGameOver
	}

	if !state.CanMakeMove(req.Column) {
		return newView(record, state, "Can't move in column "+displayColumn(req.Column)), nil
	}

	if state.MakeMove(req.Column) {
		return s.finish(ctx, record, state, domain.OutcomeHumanWin, nil)
	}
	if state.IsFull() {
		return s.finish(ctx, record, state, domain.OutcomeTie, nil)
	}

	result := bot.BestMove(state, bot.ClampDepth(record.Depth))
	if !result.Found() {
		return s.finish(ctx, record, state, domain.OutcomeTie, nil)
	}
	computerColumn := result.Column

	if state.MakeMove(computerColumn) {
		return s.finish(ctx, record, state, domain.OutcomeComputerWin, &computerColumn)
	}
	if state.IsFull() {
		return s.finish(ctx, record, state, domain.OutcomeTie, &computerColumn)
	}

	record.Moves = state.MovesMade()
	if err := s.games.SaveMoves(ctx, record.ID, record.Moves); err != nil {
		return nil, errors.Wrap(err, "failed to save moves")
	}

	view := newView(record, state, fmt.Sprintf("Computer moves in column %d. Your turn.", computerColumn+1))
	view.ComputerColumn = &computerColumn
	return view, nil
}

// Score returns the all-time tally.
func (s *Service) Score(ctx context.Context) (domain.Tally, error) {
	tally, err := s.tallies.GetTally(ctx)
	if err != nil {
		return domain.Tally{}, errors.Wrap(err, "failed to load tally")
	}
	return tally, nil
}

// finish removes a concluded game and records its outcome.
func (s *Service) finish(ctx context.Context, record *domain.GameRecord, state *domain.GameState, outcome domain.Outcome, computerColumn *int) (*View, error) {
	if err := s.games.DeleteGame(ctx, record.ID); err != nil {
		return nil, errors.Wrap(err, "failed to delete finished game")
	}

	tally, err := s.tallies.IncrementTally(ctx, outcome)
	if err != nil {
		return nil, errors.Wrap(err, "failed to update tally")
	}

	log.Printf("[GAME] Game %s finished after %d moves: %s", record.ID, len(state.MovesMade()), outcome)

	view := newView(record, state, outcomePrompt(outcome, tally))
	view.GameOver = true
	view.ComputerColumn = computerColumn
	return view, nil
}

// displayColumn renders a column 1-based without overflowing at math.MaxInt
func displayColumn(column int) string {
	if column < 0 {
		return strconv.Itoa(column + 1)
	}
	return strconv.FormatUint(uint64(column)+1, 10)
}

func outcomePrompt(outcome domain.Outcome, tally domain.Tally) string {
	prompt := promptTie
	switch outcome {
	case domain.OutcomeHumanWin:
		prompt = promptHumanWins
	case domain.OutcomeComputerWin:
		prompt = promptComputerWins
	}
	return fmt.Sprintf("%s Total score is Humans: %d, Computer: %d, Ties: %d",
		prompt, tally.HumanWins, tally.ComputerWins, tally.Ties)
}

func newView(record *domain.GameRecord, state *domain.GameState, prompt string) *View {
	return &View{
		GameID:     record.ID,
		NumRows:    state.Rows(),
		NumColumns: state.Columns(),
		NumToWin:   state.WinLength(),
		Difficulty: record.Difficulty,
		Board:      state.FlatBoard(),
		MovesMade:  state.MovesMade(),
		Prompt:     prompt,
	}
}
