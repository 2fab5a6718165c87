package domain

// Player identifies who owns a cell. Empty is the zero value so a fresh
// board needs no initialisation.
type Player int8

const (
	Empty   Player = 0
	PlayerA Player = 1
	PlayerB Player = 2
)

// Opponent returns the other player. Empty has no opponent.
func (p Player) Opponent() Player {
	switch p {
	case PlayerA:
		return PlayerB
	case PlayerB:
		return PlayerA
	default:
		return Empty
	}
}

// Symbol is the single-character form sent to clients.
func (p Player) Symbol() string {
	switch p {
	case PlayerA:
		return "X"
	case PlayerB:
		return "O"
	default:
		return "*"
	}
}

func (p Player) String() string {
	return p.Symbol()
}

// standard board used for new games unless configured otherwise
const (
	Rows    = 6
	Columns = 7
	ToWin   = 4
)

// MaxDimension bounds rows and columns so scores stay far from the search sentinels.
const MaxDimension = 64

// to represent the outcome of a finished game
type Outcome string

const (
	OutcomeHumanWin    Outcome = "human"
	OutcomeComputerWin Outcome = "computer"
	OutcomeTie         Outcome = "tie"
)

// Tally is the all-time result count across every game.
type Tally struct {
	HumanWins    int `json:"HumanWins" db:"human_wins"`
	ComputerWins int `json:"ComputerWins" db:"computer_wins"`
	Ties         int `json:"Ties" db:"ties"`
}

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidColumn     Error = "invalid column"
	ErrUndoUnderflow     Error = "no move to undo"
	ErrInvalidDimensions Error = "invalid board dimensions"

	ErrGameNotFound  Error = "game not found"
	ErrGameOver      Error = "game is already over"
	ErrCorruptGame   Error = "stored game cannot be replayed"
	ErrInvalidTicket Error = "invalid game ticket"

	ErrInvalidDifficulty Error = "unknown difficulty"
)
