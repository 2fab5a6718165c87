package domain

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

type snapshot struct {
	board    []string
	openRows []int
	moves    []int
	toMove   Player
}

func takeSnapshot(g *GameState) snapshot {
	openRows := make([]int, len(g.openRows))
	copy(openRows, g.openRows)
	return snapshot{
		board:    g.FlatBoard(),
		openRows: openRows,
		moves:    g.MovesMade(),
		toMove:   g.ToMove(),
	}
}

func mustNewGameState(t *testing.T, rows, columns, winLength int) *GameState {
	t.Helper()
	g, err := NewGameState(rows, columns, winLength)
	require.NoError(t, err)
	return g
}

// randomGame plays random legal moves until the game is won or the board fills.
func randomGame(rng *rand.Rand, g *GameState) {
	for !g.IsFull() {
		legal := g.LegalMoves()
		if g.MakeMove(legal[rng.Intn(len(legal))]) {
			return
		}
	}
}

func panicError(f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()
	f()
	return nil
}

func TestNewGameState(t *testing.T) {
	g := mustNewGameState(t, Rows, Columns, ToWin)

	require.Equal(t, Rows, g.Rows())
	require.Equal(t, Columns, g.Columns())
	require.Equal(t, ToWin, g.WinLength())
	require.Equal(t, PlayerA, g.ToMove())
	require.Empty(t, g.MovesMade())
	require.False(t, g.IsOver())
	require.Equal(t, 0, g.NegamaxScore())

	for c := 0; c < Columns; c++ {
		require.Equal(t, Rows-1, g.openRows[c])
		require.True(t, g.CanMakeMove(c))
	}

	board := g.FlatBoard()
	require.Len(t, board, Rows*Columns)
	for _, cell := range board {
		require.Equal(t, "*", cell)
	}
}

func TestNewGameState_InvalidDimensions(t *testing.T) {
	cases := [][3]int{
		{0, 7, 4},
		{6, 0, 4},
		{65, 7, 4},
		{6, 65, 4},
		{6, 7, 0},
		{6, 7, 8},
	}
	for _, c := range cases {
		_, err := NewGameState(c[0], c[1], c[2])
		require.ErrorIs(t, err, ErrInvalidDimensions, "dimensions %v", c)
	}
}

func TestCanMakeMove(t *testing.T) {
	g := mustNewGameState(t, 2, 3, 2)

	require.False(t, g.CanMakeMove(-1))
	require.False(t, g.CanMakeMove(3))
	require.True(t, g.CanMakeMove(0))

	g.MakeMove(0)
	g.MakeMove(0)
	require.False(t, g.CanMakeMove(0))
	require.Equal(t, -1, g.openRows[0])
	require.Equal(t, []int{1, 2}, g.LegalMoves())
}

func TestMakeMove_PlacesPieceAndTogglesPlayer(t *testing.T) {
	g := mustNewGameState(t, Rows, Columns, ToWin)

	require.False(t, g.MakeMove(3))
	require.Equal(t, PlayerA, g.Cell(Rows-1, 3))
	require.Equal(t, PlayerB, g.ToMove())
	require.Equal(t, Rows-2, g.openRows[3])
	require.Equal(t, []int{3}, g.MovesMade())

	require.False(t, g.MakeMove(3))
	require.Equal(t, PlayerB, g.Cell(Rows-2, 3))
	require.Equal(t, PlayerA, g.ToMove())

	board := g.FlatBoard()
	require.Equal(t, "X", board[(Rows-1)*Columns+3])
	require.Equal(t, "O", board[(Rows-2)*Columns+3])
}

func TestMakeMove_IllegalColumnPanics(t *testing.T) {
	g := mustNewGameState(t, 1, 2, 2)
	g.MakeMove(0)

	for _, column := range []int{-1, 0, 2} {
		err := panicError(func() { g.MakeMove(column) })
		require.Error(t, err, "column %d", column)
		require.True(t, errors.Is(err, ErrInvalidColumn))
	}

	// a rejected move must leave the board untouched
	require.Equal(t, []int{0}, g.MovesMade())
	require.Equal(t, PlayerB, g.ToMove())
}

func TestUndoLastMove_EmptyHistoryPanics(t *testing.T) {
	g := mustNewGameState(t, Rows, Columns, ToWin)
	require.PanicsWithValue(t, ErrUndoUnderflow, func() { g.UndoLastMove() })
}

func TestMakeMove_VerticalWin(t *testing.T) {
	g := mustNewGameState(t, Rows, Columns, ToWin)

	for _, column := range []int{0, 1, 0, 1, 0, 1} {
		require.False(t, g.MakeMove(column))
	}
	require.True(t, g.MakeMove(0))
	require.True(t, g.IsOver())
}

func TestMakeMove_WinLengthOne(t *testing.T) {
	g := mustNewGameState(t, 3, 3, 1)
	require.True(t, g.MakeMove(1))
}

func TestMakeUndo_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for game := 0; game < 50; game++ {
		g := mustNewGameState(t, 5, 6, 4)
		for !g.IsFull() {
			legal := g.LegalMoves()
			before := takeSnapshot(g)

			// every legal continuation must undo back to the same position
			for _, column := range legal {
				g.MakeMove(column)
				g.UndoLastMove()
				require.Equal(t, before, takeSnapshot(g))
				require.False(t, g.IsOver())
			}

			if g.MakeMove(legal[rng.Intn(len(legal))]) {
				break
			}
		}
	}
}

func TestUndoLastMove_UnwindsWholeGame(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	g := mustNewGameState(t, Rows, Columns, ToWin)
	empty := takeSnapshot(g)

	randomGame(rng, g)
	for range g.MovesMade() {
		g.UndoLastMove()
	}
	require.Equal(t, empty, takeSnapshot(g))
}

func TestReplay_MatchesLivePlay(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for game := 0; game < 100; game++ {
		live := mustNewGameState(t, Rows, Columns, ToWin)
		randomGame(rng, live)

		replayed, err := Replay(Rows, Columns, ToWin, live.MovesMade())
		require.NoError(t, err)
		require.Equal(t, takeSnapshot(live), takeSnapshot(replayed))
		require.Equal(t, live.NegamaxScore(), replayed.NegamaxScore())
		require.Equal(t, live.IsOver(), replayed.IsOver())
	}
}

func TestReplay_RejectsIllegalMoves(t *testing.T) {
	_, err := Replay(2, 2, 2, []int{0, 0, 0})
	require.ErrorIs(t, err, ErrInvalidColumn)

	_, err = Replay(2, 2, 2, []int{5})
	require.ErrorIs(t, err, ErrInvalidColumn)

	_, err = Replay(0, 2, 2, nil)
	require.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestGameRecord_State(t *testing.T) {
	record := &GameRecord{Rows: Rows, Columns: Columns, WinLength: ToWin, Moves: []int{3, 3, 2}}
	g, err := record.State()
	require.NoError(t, err)
	require.Equal(t, []int{3, 3, 2}, g.MovesMade())
	require.Equal(t, PlayerB, g.ToMove())
}

func TestPlayer(t *testing.T) {
	require.Equal(t, PlayerB, PlayerA.Opponent())
	require.Equal(t, PlayerA, PlayerB.Opponent())
	require.Equal(t, Empty, Empty.Opponent())
	require.Equal(t, "X", PlayerA.Symbol())
	require.Equal(t, "O", PlayerB.Symbol())
	require.Equal(t, "*", Empty.Symbol())
}
