package http

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/connect-n/backend/internal/domain"
	"github.com/iamasit07/connect-n/backend/internal/service/game"
	"github.com/pkg/errors"
)

// HTTP request parameters
const (
	ParamGameID     = "game_id"
	ParamColumn     = "column_index"
	ParamTicket     = "ticket"
	ParamDifficulty = "difficulty"

	// TicketHeader may carry the ticket instead of the query string
	TicketHeader = "X-Game-Ticket"
)

// GameService is the part of game.Service the handlers use
type GameService interface {
	NewGame(ctx context.Context, req game.NewGameRequest) (*game.View, error)
	MakeMove(ctx context.Context, req game.MoveRequest) (*game.View, error)
	Score(ctx context.Context) (domain.Tally, error)
}

type GameHandler struct {
	Service GameService
}

func NewGameHandler(svc GameService) *GameHandler {
	return &GameHandler{Service: svc}
}

// NewGame starts a game, discarding the caller's previous one if given
func (h *GameHandler) NewGame(c *gin.Context) {
	view, err := h.Service.NewGame(c.Request.Context(), game.NewGameRequest{
		PreviousGameID: c.Query(ParamGameID),
		PreviousTicket: ticketFrom(c),
		Difficulty:     c.Query(ParamDifficulty),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// MakeMove plays the human's column and returns the computer's answer
func (h *GameHandler) MakeMove(c *gin.Context) {
	gameID := c.Query(ParamGameID)
	columnParam := c.Query(ParamColumn)

	// only a malformed or hand-crafted request gets here
	if gameID == "" || columnParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request."})
		return
	}

	column, err := strconv.Atoi(columnParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "column_index must be an integer"})
		return
	}

	view, err := h.Service.MakeMove(c.Request.Context(), game.MoveRequest{
		GameID: gameID,
		Ticket: ticketFrom(c),
		Column: column,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Score returns the all-time tally of finished games
func (h *GameHandler) Score(c *gin.Context) {
	tally, err := h.Service.Score(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tally)
}

func ticketFrom(c *gin.Context) string {
	if t := c.Query(ParamTicket); t != "" {
		return t
	}
	return c.GetHeader(TicketHeader)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidTicket):
		c.JSON(http.StatusForbidden, gin.H{"error": domain.ErrInvalidTicket.Error()})
	case errors.Is(err, domain.ErrGameNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Nonexistent game_id."})
	case errors.Is(err, domain.ErrInvalidDifficulty):
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidDifficulty.Error()})
	case errors.Is(err, domain.ErrGameOver):
		c.JSON(http.StatusConflict, gin.H{"error": domain.ErrGameOver.Error()})
	default:
		log.Printf("[HTTP] %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
