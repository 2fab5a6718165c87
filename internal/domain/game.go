package domain

import "time"

// GameRecord is the persisted form of a game in progress. The board itself
// is never stored; it is rebuilt from Moves with Replay.
type GameRecord struct {
	ID         string
	Rows       int
	Columns    int
	WinLength  int
	Depth      int
	Difficulty string
	Moves      []int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// State replays the record into a live board.
func (r *GameRecord) State() (*GameState, error) {
	return Replay(r.Rows, r.Columns, r.WinLength, r.Moves)
}
