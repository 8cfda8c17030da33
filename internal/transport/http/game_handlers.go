package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/drawdash/drawdash-server/internal/core"
	"github.com/drawdash/drawdash-server/internal/game"
	"github.com/drawdash/drawdash-server/internal/words"
)

// GameHandlers provides HTTP handlers for the room lifecycle endpoints.
type GameHandlers struct {
	coord *core.Coordinator
	words words.Source
	log   *zerolog.Logger
}

// NewGameHandlers creates a new game handlers instance.
func NewGameHandlers(coord *core.Coordinator, source words.Source, logger *zerolog.Logger) *GameHandlers {
	return &GameHandlers{
		coord: coord,
		words: source,
		log:   logger,
	}
}

// JoinRequest represents the join request body.
type JoinRequest struct {
	Name string `json:"name"`
}

// GuessRequest represents the guess request body.
type GuessRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
	Guess    string `json:"guess" binding:"required"`
}

// CreateGameResponse represents the room creation response body.
type CreateGameResponse struct {
	GameID  string `json:"game_id"`
	Message string `json:"message"`
}

// JoinResponse represents the join response body.
type JoinResponse struct {
	PlayerID string `json:"player_id"`
	Message  string `json:"message"`
}

// GuessResponse represents the guess response body.
type GuessResponse struct {
	Correct bool   `json:"correct"`
	Message string `json:"message"`
}

// MessageResponse represents a plain acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// CreateGame handles room creation.
// POST /api/games
func (h *GameHandlers) CreateGame(c *gin.Context) {
	id := h.coord.CreateRoom()
	c.JSON(http.StatusCreated, CreateGameResponse{GameID: id, Message: "game created"})
}

// GetGame returns the room state snapshot.
// GET /api/games/:id
func (h *GameHandlers) GetGame(c *gin.Context) {
	snap, err := h.coord.Snapshot(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// JoinGame adds a player to a room.
// POST /api/games/:id/join
func (h *GameHandlers) JoinGame(c *gin.Context) {
	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid join request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Code: game.ErrCodeInvalidInput})
		return
	}

	player, err := h.coord.Join(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, JoinResponse{PlayerID: player.ID, Message: "joined game"})
}

// StartGame begins the first round.
// POST /api/games/:id/start
func (h *GameHandlers) StartGame(c *gin.Context) {
	if err := h.coord.Start(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "game started"})
}

// MakeGuess applies a guess for a player.
// POST /api/games/:id/guess
func (h *GameHandlers) MakeGuess(c *gin.Context) {
	var req GuessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid guess request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing player_id or guess", Code: game.ErrCodeInvalidInput})
		return
	}

	correct, err := h.coord.Guess(c.Request.Context(), c.Param("id"), req.PlayerID, req.Guess)
	if err != nil {
		h.writeError(c, err)
		return
	}

	msg := "try again"
	if correct {
		msg = "correct guess"
	}
	c.JSON(http.StatusOK, GuessResponse{Correct: correct, Message: msg})
}

// ResetGame returns a room to the waiting state.
// POST /api/games/:id/reset
func (h *GameHandlers) ResetGame(c *gin.Context) {
	if err := h.coord.Reset(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "game reset"})
}

// ListWords returns the available word bank.
// GET /api/words
func (h *GameHandlers) ListWords(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"words": h.words.All()})
}

// RandomWord returns one random word.
// GET /api/words/random
func (h *GameHandlers) RandomWord(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"word": h.words.Random()})
}

// Root returns service identification.
// GET /
func (h *GameHandlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Drawdash Game API", "version": "1.0.0"})
}

// Health reports liveness.
// GET /health
func (h *GameHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now().Format(time.RFC3339)})
}

func (h *GameHandlers) writeError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, game.ErrRoomNotFound) || errors.Is(err, game.ErrPlayerNotFound) {
		status = http.StatusNotFound
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: game.Code(err)})
}
