package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/drawdash/drawdash-server/internal/config"
	"github.com/drawdash/drawdash-server/internal/core"
	"github.com/drawdash/drawdash-server/internal/words"
)

// NewServer builds the HTTP server with all routes registered.
func NewServer(coord *core.Coordinator, source words.Source, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), LoggerMiddleware(logger), CORSMiddleware(cfg.CORSOrigins))

	gameHandlers := NewGameHandlers(coord, source, logger)
	wsHandler := NewWSHandler(coord, logger)

	r.GET("/", gameHandlers.Root)
	r.GET("/health", gameHandlers.Health)

	api := r.Group("/api")
	{
		api.POST("/games", gameHandlers.CreateGame)
		api.GET("/games/:id", gameHandlers.GetGame)
		api.POST("/games/:id/join", gameHandlers.JoinGame)
		api.POST("/games/:id/start", gameHandlers.StartGame)
		api.POST("/games/:id/guess", gameHandlers.MakeGuess)
		api.POST("/games/:id/reset", gameHandlers.ResetGame)
		api.GET("/words", gameHandlers.ListWords)
		api.GET("/words/random", gameHandlers.RandomWord)
	}

	r.GET("/ws/:game_id/:player_id", wsHandler.Serve)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
