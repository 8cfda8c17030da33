// Package fanout maintains the live connections of each room and delivers
// events to the right subset of them.
package fanout

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Conn is a live client connection as seen by the fan-out layer.
type Conn interface {
	Send(ctx context.Context, v any) error
}

// Registry maps room id -> player id -> connection. Delivery is best-effort
// per recipient: a failed send prunes that connection and never aborts the
// rest of a broadcast.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]map[string]Conn
	log   *zerolog.Logger
}

// NewRegistry creates an empty connection registry.
func NewRegistry(logger *zerolog.Logger) *Registry {
	return &Registry{
		rooms: make(map[string]map[string]Conn),
		log:   logger,
	}
}

// Connect registers a connection, replacing any prior one for the same
// room/player pair (reconnect semantics).
func (r *Registry) Connect(roomID, playerID string, c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns, ok := r.rooms[roomID]
	if !ok {
		conns = make(map[string]Conn)
		r.rooms[roomID] = conns
	}
	conns[playerID] = c
	r.log.Info().Str("room_id", roomID).Str("player_id", playerID).Msg("connection registered")
}

// Disconnect removes a connection. The room's bookkeeping is dropped once
// its last connection goes away; game state is unaffected.
func (r *Registry) Disconnect(roomID, playerID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disconnectLocked(roomID, playerID)
}

func (r *Registry) disconnectLocked(roomID, playerID string) {
	conns, ok := r.rooms[roomID]
	if !ok {
		return
	}
	if _, ok := conns[playerID]; !ok {
		return
	}
	delete(conns, playerID)
	r.log.Info().Str("room_id", roomID).Str("player_id", playerID).Msg("connection removed")
	if len(conns) == 0 {
		delete(r.rooms, roomID)
		r.log.Debug().Str("room_id", roomID).Msg("room has no live connections")
	}
}

// Broadcast delivers msg to every connection in the room except the excluded
// players. Sends happen under the registry lock so every recipient observes
// room events in the same order. Dead connections are pruned afterwards.
func (r *Registry) Broadcast(ctx context.Context, roomID string, msg any, exclude ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns, ok := r.rooms[roomID]
	if !ok {
		return
	}

	skip := make(map[string]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}

	var dead []string
	for playerID, conn := range conns {
		if _, excluded := skip[playerID]; excluded {
			continue
		}
		if err := conn.Send(ctx, msg); err != nil {
			if ctx.Err() != nil {
				// The caller was cancelled, not the connection. Leave it alone.
				return
			}
			r.log.Warn().Err(err).Str("room_id", roomID).Str("player_id", playerID).Msg("broadcast send failed")
			dead = append(dead, playerID)
		}
	}
	for _, playerID := range dead {
		r.disconnectLocked(roomID, playerID)
	}
}

// Unicast delivers msg to exactly one player. A failed send prunes the
// connection and reports the error.
func (r *Registry) Unicast(ctx context.Context, roomID, playerID string, msg any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns, ok := r.rooms[roomID]
	if !ok {
		return nil
	}
	conn, ok := conns[playerID]
	if !ok {
		return nil
	}
	if err := conn.Send(ctx, msg); err != nil {
		if ctx.Err() != nil {
			return err
		}
		r.log.Warn().Err(err).Str("room_id", roomID).Str("player_id", playerID).Msg("unicast send failed")
		r.disconnectLocked(roomID, playerID)
		return err
	}
	return nil
}

// Count returns the number of live connections in a room.
func (r *Registry) Count(roomID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms[roomID])
}

// ConnectedIDs returns the player ids with a live connection in the room.
func (r *Registry) ConnectedIDs(roomID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns := r.rooms[roomID]
	out := make([]string, 0, len(conns))
	for id := range conns {
		out = append(out, id)
	}
	return out
}

// IsConnected reports whether the player has a live connection in the room.
func (r *Registry) IsConnected(roomID, playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rooms[roomID][playerID]
	return ok
}

// Rooms returns the ids of rooms with at least one live connection.
func (r *Registry) Rooms() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.rooms))
	for id := range r.rooms {
		out = append(out, id)
	}
	return out
}
