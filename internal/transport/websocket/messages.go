package websocket

import "github.com/iamasit07/connect-n/backend/internal/service/game"

const (
	MessageNewGame   = "new_game"
	MessageMove      = "move"
	MessageGameState = "game_state"
	MessageError     = "error"
)

// ClientMessage is a request from the browser
type ClientMessage struct {
	Type       string `json:"type"`
	GameID     string `json:"gameId,omitempty"`
	Ticket     string `json:"ticket,omitempty"`
	Column     *int   `json:"column,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

// ServerMessage is either a game state or an error
type ServerMessage struct {
	Type    string     `json:"type"`
	Game    *game.View `json:"game,omitempty"`
	Message string     `json:"message,omitempty"`
}
