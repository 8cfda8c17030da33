// Package app wires together the game core and transport layers.
package app

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/drawdash/drawdash-server/internal/config"
	"github.com/drawdash/drawdash-server/internal/core"
	"github.com/drawdash/drawdash-server/internal/fanout"
	"github.com/drawdash/drawdash-server/internal/game"
	transporthttp "github.com/drawdash/drawdash-server/internal/transport/http"
	"github.com/drawdash/drawdash-server/internal/words"
)

// App owns the HTTP server and the game coordinator.
type App struct {
	server          *stdhttp.Server
	coord           *core.Coordinator
	shutdownTimeout time.Duration
	log             *zerolog.Logger
}

// New constructs the application with the provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) *App {
	settings := game.Settings{
		TurnSeconds: cfg.Game.TurnSeconds,
		MaxPlayers:  cfg.Game.MaxPlayers,
		MinPlayers:  cfg.Game.MinPlayers,
		MaxRounds:   cfg.Game.MaxRounds,
		GuessPoints: cfg.Game.GuessPoints,
	}

	bank := words.NewBank()
	rooms := game.NewRegistry(settings)
	conns := fanout.NewRegistry(logger)
	coord := core.New(rooms, conns, bank, cfg.Game.NextRoundDelay, logger)
	server := transporthttp.NewServer(coord, bank, cfg, logger)

	return &App{
		server:          server,
		coord:           coord,
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             logger,
	}
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	a.log.Info().Str("addr", a.server.Addr).Msg("server listening")

	select {
	case err := <-serverErr:
		a.coord.Close()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		a.coord.Close()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}
