package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iamasit07/connect-n/backend/internal/domain"
	"github.com/iamasit07/connect-n/backend/internal/service/game"
	"github.com/pkg/errors"
)

// GameService is the part of game.Service the socket uses
type GameService interface {
	NewGame(ctx context.Context, req game.NewGameRequest) (*game.View, error)
	MakeMove(ctx context.Context, req game.MoveRequest) (*game.View, error)
}

// Handler manages WebSocket dependencies
type Handler struct {
	Games    GameService
	Upgrader websocket.Upgrader
}

// NewHandler creates a WebSocket handler. An empty allowedOrigins accepts every origin.
func NewHandler(games GameService, allowedOrigins []string) *Handler {
	return &Handler{
		Games: games,
		Upgrader: websocket.Upgrader{
			CheckOrigin:     originChecker(allowedOrigins),
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowedOrigins) == 0 {
			return true
		}
		for _, allowed := range allowedOrigins {
			if allowed == origin {
				return true
			}
		}
		log.Printf("[WS] Rejected origin %s", origin)
		return false
	}
}

// HandleWebSocket is the HTTP handler that upgrades the connection
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	h.handleConnection(r.Context(), newClient(conn))
}

// handleConnection runs the read loop of a single connection
func (h *Handler) handleConnection(ctx context.Context, c *client) {
	defer c.close()

	// Set read deadline to detect stale connections
	c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	go c.keepAlive()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] Client disconnected unexpectedly: %v", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("[WS] Invalid message format: %v", err)
			if err := c.sendError("Invalid message format"); err != nil {
				return
			}
			continue
		}

		if err := c.send(h.processMessage(ctx, msg)); err != nil {
			log.Printf("[WS] Write error: %v", err)
			return
		}
	}
}

// processMessage routes a request to the game service
func (h *Handler) processMessage(ctx context.Context, msg ClientMessage) ServerMessage {
	var (
		view *game.View
		err  error
	)

	switch msg.Type {
	case MessageNewGame:
		view, err = h.Games.NewGame(ctx, game.NewGameRequest{
			PreviousGameID: msg.GameID,
			PreviousTicket: msg.Ticket,
			Difficulty:     msg.Difficulty,
		})
	case MessageMove:
		if msg.GameID == "" || msg.Column == nil {
			return ServerMessage{Type: MessageError, Message: "gameId and column are required"}
		}
		view, err = h.Games.MakeMove(ctx, game.MoveRequest{
			GameID: msg.GameID,
			Ticket: msg.Ticket,
			Column: *msg.Column,
		})
	default:
		return ServerMessage{Type: MessageError, Message: "Unknown message type: " + msg.Type}
	}

	if err != nil {
		return ServerMessage{Type: MessageError, Message: errorMessage(err)}
	}
	return ServerMessage{Type: MessageGameState, Game: view}
}

func errorMessage(err error) string {
	for _, known := range []domain.Error{
		domain.ErrInvalidTicket,
		domain.ErrGameNotFound,
		domain.ErrInvalidDifficulty,
		domain.ErrGameOver,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	log.Printf("[WS] Request failed: %v", err)
	return "Internal server error"
}
