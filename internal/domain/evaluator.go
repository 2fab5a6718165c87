package domain

// directions are the four ways a line can run from its first cell:
// right, down, down-right and up-right.
var directions = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{-1, 1},
}

// lineCount holds, for one piece count, how many pure windows each side owns.
type lineCount struct {
	toMove   int
	opponent int
}

// Evaluate scores the board for perspective and reports whether the
// opponent of perspective owns a complete line.
//
// Every window of WinLength cells is examined. A window holding pieces of
// only one player adds k^4 for that player, where k is its piece count;
// mixed windows count for nobody. The result is zero-sum: evaluating the
// same board for the other player negates the score.
func Evaluate(g *GameState, perspective Player) (score int, won bool) {
	opponent := perspective.Opponent()
	counts := make([]lineCount, g.winLength+1)

	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.columns; col++ {
			for _, dir := range directions {
				mine, theirs, ok := g.countWindow(row, col, dir[0], dir[1], perspective, opponent)
				if !ok {
					continue
				}
				switch {
				case mine > 0 && theirs == 0:
					counts[mine].toMove++
				case theirs > 0 && mine == 0:
					counts[theirs].opponent++
				}
			}
		}
	}

	for k := 1; k <= g.winLength; k++ {
		weight := k * k * k * k
		score += counts[k].toMove*weight - counts[k].opponent*weight
	}
	return score, counts[g.winLength].opponent >= 1
}

// countWindow counts the pieces of each side in the window starting at
// (row, col). ok is false when the window leaves the board.
func (g *GameState) countWindow(row, col, dRow, dCol int, mine, theirs Player) (nMine, nTheirs int, ok bool) {
	lastRow := row + dRow*(g.winLength-1)
	lastCol := col + dCol*(g.winLength-1)
	if lastRow < 0 || lastRow >= g.rows || lastCol < 0 || lastCol >= g.columns {
		return 0, 0, false
	}

	r, c := row, col
	for i := 0; i < g.winLength; i++ {
		switch g.board[r][c] {
		case mine:
			nMine++
		case theirs:
			nTheirs++
		}
		r += dRow
		c += dCol
	}
	return nMine, nTheirs, true
}

// MaxScoreMagnitude bounds |Evaluate| for a board size: at most four
// windows start at each cell and each is worth at most winLength^4.
func MaxScoreMagnitude(rows, columns, winLength int) int {
	w := winLength * winLength * winLength * winLength
	return 4 * rows * columns * w
}
