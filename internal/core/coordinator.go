// Package core coordinates rooms, timers, and event fan-out. It is the only
// layer that combines the game state machine with the connection registry,
// which keeps the per-room broadcast order identical to the order state
// transitions were applied.
package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/drawdash/drawdash-server/internal/fanout"
	"github.com/drawdash/drawdash-server/internal/game"
	"github.com/drawdash/drawdash-server/internal/proto"
	"github.com/drawdash/drawdash-server/internal/words"
)

// Coordinator drives game operations and pushes the resulting events to
// connected clients.
type Coordinator struct {
	rooms *game.Registry
	conns *fanout.Registry
	sched *game.Scheduler
	words words.Source
	delay time.Duration
	log   *zerolog.Logger
}

// New wires a coordinator. delay is the pause between a round ending and the
// next turn starting automatically.
func New(rooms *game.Registry, conns *fanout.Registry, source words.Source, delay time.Duration, logger *zerolog.Logger) *Coordinator {
	return &Coordinator{
		rooms: rooms,
		conns: conns,
		sched: game.NewScheduler(),
		words: source,
		delay: delay,
		log:   logger,
	}
}

// Close cancels all outstanding room timers and delay jobs.
func (c *Coordinator) Close() {
	c.sched.Close()
}

// CreateRoom allocates a new room and returns its identifier.
func (c *Coordinator) CreateRoom() string {
	g := c.rooms.Create()
	c.log.Info().Str("room_id", g.ID()).Msg("room created")
	return g.ID()
}

// Snapshot returns the room's externally visible state with live connection
// flags.
func (c *Coordinator) Snapshot(roomID string) (game.Snapshot, error) {
	g, ok := c.rooms.Get(roomID)
	if !ok {
		return game.Snapshot{}, game.ErrRoomNotFound
	}
	id := g.ID()
	return g.Snapshot(func(playerID string) bool {
		return c.conns.IsConnected(id, playerID)
	}), nil
}

// Join adds a player to the room and announces the roster change.
func (c *Coordinator) Join(ctx context.Context, roomID, name string) (game.Player, error) {
	g, ok := c.rooms.Get(roomID)
	if !ok {
		return game.Player{}, game.ErrRoomNotFound
	}
	player, err := g.Join(name)
	if err != nil {
		return game.Player{}, err
	}

	c.conns.Broadcast(ctx, g.ID(), proto.NewPlayerJoined(player, g.Players()))
	c.log.Info().Str("room_id", g.ID()).Str("player_id", player.ID).Str("name", player.Name).Msg("player joined")
	return player, nil
}

// Start begins the first round, announces it, and launches the countdown.
func (c *Coordinator) Start(ctx context.Context, roomID string) error {
	g, ok := c.rooms.Get(roomID)
	if !ok {
		return game.ErrRoomNotFound
	}

	word := c.words.Random()
	if err := g.Start(word); err != nil {
		return err
	}

	snap := g.Snapshot(nil)
	c.conns.Broadcast(ctx, g.ID(), proto.NewGameStarted(snap, word))
	c.startTimer(g)
	c.log.Info().Str("room_id", g.ID()).Int("round", snap.RoundNumber).Msg("game started")
	return nil
}

// Guess applies a guess. A correct one ends the round, reveals the word, and
// schedules the next turn; an incorrect one is relayed with its original
// casing.
func (c *Coordinator) Guess(ctx context.Context, roomID, playerID, text string) (bool, error) {
	g, ok := c.rooms.Get(roomID)
	if !ok {
		return false, game.ErrRoomNotFound
	}

	res, err := g.Guess(playerID, text)
	if err != nil {
		return false, err
	}

	if res.Correct {
		c.conns.Broadcast(ctx, g.ID(), proto.NewCorrectGuess(res))
		c.scheduleNextTurn(g)
		c.log.Info().Str("room_id", g.ID()).Str("player_id", playerID).Msg("correct guess")
	} else {
		c.conns.Broadcast(ctx, g.ID(), proto.NewGuessMade(res.Player, text))
	}
	return res.Correct, nil
}

// Reset returns the room to the waiting state, cancelling any outstanding
// timer or delay job first.
func (c *Coordinator) Reset(ctx context.Context, roomID string) error {
	g, ok := c.rooms.Get(roomID)
	if !ok {
		return game.ErrRoomNotFound
	}

	c.sched.Cancel(g.ID())
	g.Reset()
	c.conns.Broadcast(ctx, g.ID(), proto.NewGameReset(g.State(), g.Players()))
	c.log.Info().Str("room_id", g.ID()).Msg("game reset")
	return nil
}

// Connect registers a live connection for the player.
func (c *Coordinator) Connect(roomID, playerID string, conn fanout.Conn) {
	c.conns.Connect(game.Canonical(roomID), playerID, conn)
}

// Disconnect drops the player's live connection. The roster is untouched.
func (c *Coordinator) Disconnect(roomID, playerID string) {
	c.conns.Disconnect(game.Canonical(roomID), playerID)
}

// HandleInbound dispatches one real-time message from a connected player.
// raw is the full message as received; drawing and clear_canvas payloads are
// relayed verbatim to everyone except the sender.
func (c *Coordinator) HandleInbound(ctx context.Context, roomID, playerID string, inbound proto.Inbound, raw json.RawMessage) {
	roomID = game.Canonical(roomID)

	switch inbound.Type {
	case proto.InboundTypeDrawing:
		if g, ok := c.rooms.Get(roomID); ok && len(inbound.Stroke) > 0 {
			var stroke game.Stroke
			if err := json.Unmarshal(inbound.Stroke, &stroke); err == nil {
				g.AddStroke(stroke)
			}
		}
		c.conns.Broadcast(ctx, roomID, raw, playerID)
	case proto.InboundTypeClearCanvas:
		if g, ok := c.rooms.Get(roomID); ok {
			g.ClearStrokes()
		}
		c.conns.Broadcast(ctx, roomID, raw, playerID)
	case proto.InboundTypePing:
		if err := c.conns.Unicast(ctx, roomID, playerID, proto.NewPong()); err != nil {
			c.log.Debug().Err(err).Str("room_id", roomID).Str("player_id", playerID).Msg("pong failed")
		}
	default:
		c.log.Debug().Str("room_id", roomID).Str("type", inbound.Type).Msg("unknown inbound message")
	}
}

// startTimer launches the per-round countdown, replacing any job the room
// already had.
func (c *Coordinator) startTimer(g *game.Game) {
	ctx := c.sched.Replace(g.ID())
	go c.runTimer(ctx, g)
}

// runTimer ticks once per second. Progress is broadcast every five seconds,
// and every second in the final stretch. The state re-check after each tick
// is what loses the race against a correct guess or a reset.
func (c *Coordinator) runTimer(ctx context.Context, g *game.Game) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			left, word, expired, playing := g.Tick()
			if !playing {
				return
			}
			if expired {
				c.conns.Broadcast(ctx, g.ID(), proto.NewTimeUp(word))
				c.log.Info().Str("room_id", g.ID()).Msg("round timed out")
				c.scheduleNextTurn(g)
				return
			}
			if left%5 == 0 || left <= 10 {
				c.conns.Broadcast(ctx, g.ID(), proto.NewTimeUpdate(left))
			}
		}
	}
}

// scheduleNextTurn waits the configured delay, then advances the turn if the
// room is still in the ended state. A reset during the delay makes this a
// no-op.
func (c *Coordinator) scheduleNextTurn(g *game.Game) {
	ctx := c.sched.Replace(g.ID())
	go func() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(c.delay):
		}

		next, ok := g.NextTurn(c.words.Random())
		if !ok {
			return
		}
		c.conns.Broadcast(ctx, g.ID(), proto.NewNextRound(next))
		c.startTimer(g)
		c.log.Info().Str("room_id", g.ID()).Int("round", next.RoundNumber).Msg("next round started")
	}()
}
