package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/drawdash/drawdash-server/internal/core"
	"github.com/drawdash/drawdash-server/internal/game"
	"github.com/drawdash/drawdash-server/internal/proto"
)

const wsWriteTimeout = 5 * time.Second

// WSHandler upgrades HTTP connections and bridges them to the coordinator.
type WSHandler struct {
	coord *core.Coordinator
	log   *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(coord *core.Coordinator, logger *zerolog.Logger) *WSHandler {
	return &WSHandler{coord: coord, log: logger}
}

// Serve handles GET /ws/:game_id/:player_id.
func (h *WSHandler) Serve(c *gin.Context) {
	roomID := game.Canonical(c.Param("game_id"))
	playerID := c.Param("player_id")

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	h.coord.Connect(roomID, playerID, &wsConn{conn: conn})
	defer h.coord.Disconnect(roomID, playerID)

	err = h.readLoop(c.Request.Context(), conn, roomID, playerID)

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
			h.log.Warn().Err(err).Str("room_id", roomID).Str("player_id", playerID).Msg("ws connection closed with error")
		}
	}
	conn.Close(status, reason)
	h.log.Info().Str("room_id", roomID).Str("player_id", playerID).Msg("player disconnected")
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, roomID, playerID string) error {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		var inbound proto.Inbound
		if err := json.Unmarshal(data, &inbound); err != nil {
			h.log.Debug().Err(err).Str("player_id", playerID).Msg("malformed ws message")
			continue
		}
		h.coord.HandleInbound(ctx, roomID, playerID, inbound, json.RawMessage(data))
	}
}

// wsConn adapts a websocket connection to the fan-out layer. Writes carry
// their own timeout so one stuck peer cannot stall a broadcast forever.
type wsConn struct {
	conn *websocket.Conn
}

func (w *wsConn) Send(ctx context.Context, v any) error {
	ctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, w.conn, v)
}
