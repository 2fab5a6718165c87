package bot

const (
	// NoMove is returned when a search found no legal column.
	NoMove = -1

	// WinBase scores a position won by the side that just moved. The
	// remaining depth is added so quicker wins score higher. It sits well
	// above domain.MaxScoreMagnitude for the largest allowed board.
	WinBase = 1 << 40

	// Infinity is larger than any score a search can produce.
	Infinity = 1 << 62

	// Draw scores a position where the board filled up without a winner.
	Draw = 0

	// MaxDepth caps the search depth accepted from configuration.
	MaxDepth = 16
)

// Position is the mutable game the search walks. Every MakeMove it applies
// is undone before the search returns.
type Position interface {
	Columns() int
	CanMakeMove(column int) bool
	MakeMove(column int) bool
	UndoLastMove()
	NegamaxScore() int
}

// Result is the outcome of a top level search.
type Result struct {
	Column int
	Score  int
}

// Found reports whether the search produced a playable column.
func (r Result) Found() bool {
	return r.Column != NoMove
}

// BestMove searches depth plies ahead and returns the best column for the
// player to move. Ties go to the lowest column.
func BestMove(pos Position, depth int) Result {
	score, column := Search(pos, depth, -Infinity, Infinity)
	return Result{Column: column, Score: score}
}

// Search is a negamax search with alpha-beta pruning. It returns the value
// of pos for the player to move and the column that achieves it. Called
// with a full window, pruning skips nodes but never changes the returned
// value or column. A full board yields (-Infinity, NoMove). Below the
// root a move that leaves the opponent no legal reply scores Draw rather
// than the negated -Infinity.
func Search(pos Position, depth, alpha, beta int) (int, int) {
	if depth == 0 {
		return pos.NegamaxScore(), NoMove
	}

	best := -Infinity
	bestColumn := NoMove

	for column := 0; column < pos.Columns(); column++ {
		if !pos.CanMakeMove(column) {
			continue
		}

		value := withMove(pos, column, func(terminal bool) int {
			if terminal {
				return WinBase + depth
			}
			// the opponent's best is our worst, so flip the sign and window
			childValue, childColumn := Search(pos, depth-1, -beta, -alpha)
			if depth > 1 && childColumn == NoMove {
				// no reply left: the move filled the board
				return Draw
			}
			return -childValue
		})

		if value > best {
			best = value
			bestColumn = column
		}

		alpha = max(alpha, best)
		if alpha >= beta {
			break
		}
	}

	return best, bestColumn
}

// withMove applies column, scores the resulting position with score and
// undoes the move on every exit path.
func withMove(pos Position, column int, score func(terminal bool) int) int {
	terminal := pos.MakeMove(column)
	defer pos.UndoLastMove()
	return score(terminal)
}
