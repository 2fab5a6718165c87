package domain

import "fmt"

// GameState is a gravity-drop board that is mutated in place. Moves are
// reversed with UndoLastMove instead of copying the board, so a search can
// walk the whole tree on a single instance.
//
// A GameState is not safe for concurrent use.
type GameState struct {
	rows      int
	columns   int
	winLength int

	// board[row][column], row 0 is the top row
	board [][]Player
	// openRows[column] is the next free row in that column, -1 when full
	openRows []int
	moves    []int

	toMove Player
	score  int
	over   bool
}

// NewGameState returns an empty board with the given dimensions.
func NewGameState(rows, columns, winLength int) (*GameState, error) {
	if err := ValidateDimensions(rows, columns, winLength); err != nil {
		return nil, err
	}

	board := make([][]Player, rows)
	for i := range board {
		board[i] = make([]Player, columns)
	}

	openRows := make([]int, columns)
	for c := range openRows {
		openRows[c] = rows - 1
	}

	return &GameState{
		rows:      rows,
		columns:   columns,
		winLength: winLength,
		board:     board,
		openRows:  openRows,
		moves:     make([]int, 0, rows*columns),
		toMove:    PlayerA,
	}, nil
}

// Replay rebuilds a game from a persisted move list. Unlike MakeMove it
// reports a bad column as an error since the list comes from storage.
func Replay(rows, columns, winLength int, moves []int) (*GameState, error) {
	g, err := NewGameState(rows, columns, winLength)
	if err != nil {
		return nil, err
	}

	for i, column := range moves {
		if !g.CanMakeMove(column) {
			return nil, fmt.Errorf("%w: move %d targets column %d", ErrInvalidColumn, i, column)
		}
		g.MakeMove(column)
	}
	return g, nil
}

// ValidateDimensions checks the board size and run length.
func ValidateDimensions(rows, columns, winLength int) error {
	if rows < 1 || rows > MaxDimension || columns < 1 || columns > MaxDimension {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, rows, columns)
	}
	if winLength < 1 || winLength > max(rows, columns) {
		return fmt.Errorf("%w: win length %d on %dx%d", ErrInvalidDimensions, winLength, rows, columns)
	}
	return nil
}

func (g *GameState) Rows() int      { return g.rows }
func (g *GameState) Columns() int   { return g.columns }
func (g *GameState) WinLength() int { return g.winLength }

// ToMove returns the player whose piece the next MakeMove drops.
func (g *GameState) ToMove() Player { return g.toMove }

// IsOver reports whether the last applied move completed a line.
func (g *GameState) IsOver() bool { return g.over }

// NegamaxScore is the evaluation of the board for the player to move,
// as of the last MakeMove.
func (g *GameState) NegamaxScore() int { return g.score }

// Cell returns the owner of a cell.
func (g *GameState) Cell(row, column int) Player {
	return g.board[row][column]
}

// MovesMade returns a copy of the move history.
func (g *GameState) MovesMade() []int {
	moves := make([]int, len(g.moves))
	copy(moves, g.moves)
	return moves
}

// FlatBoard returns the board row by row, top row first.
func (g *GameState) FlatBoard() []string {
	flat := make([]string, 0, g.rows*g.columns)
	for _, row := range g.board {
		for _, cell := range row {
			flat = append(flat, cell.Symbol())
		}
	}
	return flat
}

func (g *GameState) CanMakeMove(column int) bool {
	return column >= 0 && column < g.columns && g.openRows[column] >= 0
}

// LegalMoves lists the columns that still accept a piece, lowest first.
func (g *GameState) LegalMoves() []int {
	moves := make([]int, 0, g.columns)
	for c := 0; c < g.columns; c++ {
		if g.CanMakeMove(c) {
			moves = append(moves, c)
		}
	}
	return moves
}

// IsFull reports whether no column can accept another piece.
func (g *GameState) IsFull() bool {
	for c := 0; c < g.columns; c++ {
		if g.CanMakeMove(c) {
			return false
		}
	}
	return true
}

// MakeMove drops the current player's piece into column and returns true
// if that move won the game. Callers must check CanMakeMove first; an
// illegal column panics with ErrInvalidColumn.
func (g *GameState) MakeMove(column int) bool {
	if !g.CanMakeMove(column) {
		panic(fmt.Errorf("%w: %d", ErrInvalidColumn, column))
	}

	row := g.openRows[column]
	g.board[row][column] = g.toMove
	g.openRows[column]--
	g.moves = append(g.moves, column)
	g.toMove = g.toMove.Opponent()

	// toMove has flipped, so a win belongs to the opponent of toMove
	g.score, g.over = Evaluate(g, g.toMove)
	return g.over
}

// UndoLastMove takes back the most recent move. The cached score is left
// as it was; it is refreshed by the next MakeMove.
func (g *GameState) UndoLastMove() {
	if len(g.moves) == 0 {
		panic(ErrUndoUnderflow)
	}

	last := len(g.moves) - 1
	column := g.moves[last]
	g.moves = g.moves[:last]

	// after the increment openRows points at the highest occupied cell
	g.openRows[column]++
	g.board[g.openRows[column]][column] = Empty
	g.toMove = g.toMove.Opponent()
	g.over = false
}
