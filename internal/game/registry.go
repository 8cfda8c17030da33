package game

import (
	"strings"
	"sync"

	"github.com/drawdash/drawdash-server/internal/utils"
)

// Registry owns the process-wide map of rooms. Identifiers are
// case-insensitive and canonicalized to lowercase at this boundary.
type Registry struct {
	mu       sync.RWMutex
	rooms    map[string]*Game
	settings Settings
}

// NewRegistry creates an empty room registry.
func NewRegistry(settings Settings) *Registry {
	return &Registry{
		rooms:    make(map[string]*Game),
		settings: settings,
	}
}

// Create allocates a fresh room in the waiting state and returns it.
func (r *Registry) Create() *Game {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		id := utils.NewRoomID()
		if _, exists := r.rooms[id]; exists {
			continue
		}
		g := New(id, r.settings)
		r.rooms[id] = g
		return g
	}
}

// Get looks up a room by identifier.
func (r *Registry) Get(id string) (*Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.rooms[Canonical(id)]
	return g, ok
}

// List returns the identifiers of all live rooms.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.rooms))
	for id := range r.rooms {
		out = append(out, id)
	}
	return out
}

// Canonical normalizes a room identifier for lookup.
func Canonical(id string) string {
	return strings.ToLower(id)
}
