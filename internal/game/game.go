// Package game implements the room state machine and the coordination layer
// that drives drawing-and-guessing rounds.
package game

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/drawdash/drawdash-server/internal/utils"
)

// State is the lifecycle phase of a room.
type State string

const (
	StateWaiting State = "waiting"
	StatePlaying State = "playing"
	StateEnded   State = "ended"
)

// Settings tunes a room's rules.
type Settings struct {
	TurnSeconds int
	MaxPlayers  int
	MinPlayers  int
	MaxRounds   int
	GuessPoints int
}

// DefaultSettings returns the standard rules.
func DefaultSettings() Settings {
	return Settings{
		TurnSeconds: 60,
		MaxPlayers:  8,
		MinPlayers:  2,
		MaxRounds:   10,
		GuessPoints: 10,
	}
}

// Player is a roster entry. Connection liveness is tracked by the fan-out
// layer, never here.
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Point is a 2-D canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one drawing operation. The game stores and relays strokes but
// never interprets geometry.
type Stroke struct {
	Points []Point `json:"points"`
	Color  string  `json:"color"`
	Width  float64 `json:"width"`
}

// PlayerView is a player as exposed through snapshots.
type PlayerView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Connected bool   `json:"connected"`
}

// Snapshot is the externally visible room state. Word is populated only when
// the round has ended.
type Snapshot struct {
	ID                 string       `json:"game_id"`
	State              State        `json:"state"`
	Players            []PlayerView `json:"players"`
	CurrentPlayerIndex int          `json:"current_player_index"`
	TimeLeft           int          `json:"time_left"`
	RoundNumber        int          `json:"round_number"`
	Word               string       `json:"word,omitempty"`
	Finished           bool         `json:"finished"`
}

// GuessResult reports the outcome of a guess.
type GuessResult struct {
	Correct bool
	Word    string
	Player  Player
	Players []Player
}

// NextRound carries the state slice broadcast when a new turn begins.
type NextRound struct {
	State              State
	Word               string
	CurrentPlayerIndex int
	TimeLeft           int
	RoundNumber        int
}

// Game is one room's state machine. All transitions are atomic: each method
// is a single critical section under the room mutex.
type Game struct {
	mu sync.Mutex

	id         string
	state      State
	players    []*Player
	currentIdx int
	word       string
	timeLeft   int
	round      int
	strokes    []Stroke
	settings   Settings
}

// New creates an empty room in the waiting state.
func New(id string, settings Settings) *Game {
	return &Game{
		id:       id,
		state:    StateWaiting,
		timeLeft: settings.TurnSeconds,
		settings: settings,
	}
}

// ID returns the room identifier.
func (g *Game) ID() string { return g.id }

// Join adds a player to the roster. An empty name gets a positional default;
// a colliding name gets the smallest " (n)" suffix that avoids the collision.
func (g *Game) Join(name string) (Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.players) >= g.settings.MaxPlayers {
		return Player{}, ErrRoomFull
	}

	if strings.TrimSpace(name) == "" {
		name = fmt.Sprintf("Player %d", len(g.players)+1)
	}
	name = g.dedupNameLocked(name)

	p := &Player{ID: utils.NewPlayerID(), Name: name}
	g.players = append(g.players, p)
	return *p, nil
}

func (g *Game) dedupNameLocked(name string) string {
	taken := make(map[string]struct{}, len(g.players))
	for _, p := range g.players {
		taken[p.Name] = struct{}{}
	}
	if _, exists := taken[name]; !exists {
		return name
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", name, n)
		if _, exists := taken[candidate]; !exists {
			return candidate
		}
	}
}

// RemovePlayer drops a player from the roster, keeping currentIdx valid.
func (g *Game) RemovePlayer(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, p := range g.players {
		if p.ID != playerID {
			continue
		}
		g.players = slices.Delete(g.players, i, i+1)
		if i < g.currentIdx {
			g.currentIdx--
		} else if i == g.currentIdx && g.currentIdx >= len(g.players) {
			g.currentIdx = 0
		}
		return true
	}
	return false
}

// Start begins the first round with the given word. Valid only while waiting
// and with enough players.
func (g *Game) Start(word string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.players) < g.settings.MinPlayers {
		return ErrInsufficientPlayers
	}
	if g.state != StateWaiting {
		return ErrAlreadyStarted
	}
	g.beginRoundLocked(word)
	return nil
}

// beginRoundLocked applies round-start effects. currentIdx is untouched.
func (g *Game) beginRoundLocked(word string) {
	g.state = StatePlaying
	g.word = word
	g.timeLeft = g.settings.TurnSeconds
	g.round++
	g.strokes = nil
}

// Guess checks text against the secret word. Comparison is trimmed and
// case-insensitive. A correct guess awards points and ends the round.
func (g *Game) Guess(playerID, text string) (GuessResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var player *Player
	for _, p := range g.players {
		if p.ID == playerID {
			player = p
			break
		}
	}
	if player == nil {
		return GuessResult{}, ErrPlayerNotFound
	}
	if g.state != StatePlaying {
		return GuessResult{}, ErrNotPlaying
	}

	correct := strings.EqualFold(strings.TrimSpace(text), g.word)
	if correct {
		player.Score += g.settings.GuessPoints
		g.state = StateEnded
		g.timeLeft = 0
	}

	return GuessResult{
		Correct: correct,
		Word:    g.word,
		Player:  *player,
		Players: g.playersLocked(),
	}, nil
}

// Tick decrements the countdown by one second. It reports the remaining
// time, the current word, whether the round just expired, and whether the
// room was still playing. Callers must treat playing == false as a signal to
// stop ticking: a correct guess or reset ended the round concurrently.
func (g *Game) Tick() (left int, word string, expired, playing bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StatePlaying {
		return 0, "", false, false
	}
	g.timeLeft--
	if g.timeLeft <= 0 {
		g.timeLeft = 0
		g.state = StateEnded
		return 0, g.word, true, true
	}
	return g.timeLeft, g.word, false, true
}

// NextTurn advances to the next drawer and starts a fresh round. It no-ops
// unless the previous round has ended, which makes a delayed invocation safe
// against a concurrent reset. With too few players the room returns to
// waiting instead.
func (g *Game) NextTurn(word string) (NextRound, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateEnded {
		return NextRound{}, false
	}
	if len(g.players) < g.settings.MinPlayers {
		g.state = StateWaiting
		g.word = ""
		return NextRound{}, false
	}

	g.currentIdx = (g.currentIdx + 1) % len(g.players)
	g.beginRoundLocked(word)
	return NextRound{
		State:              g.state,
		Word:               g.word,
		CurrentPlayerIndex: g.currentIdx,
		TimeLeft:           g.timeLeft,
		RoundNumber:        g.round,
	}, true
}

// Reset returns the room to the waiting state. The roster survives; scores,
// word, strokes, and counters do not.
func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.state = StateWaiting
	g.currentIdx = 0
	g.word = ""
	g.timeLeft = g.settings.TurnSeconds
	g.round = 0
	g.strokes = nil
	for _, p := range g.players {
		p.Score = 0
	}
}

// AddStroke appends a drawing stroke for the current round.
func (g *Game) AddStroke(s Stroke) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.strokes = append(g.strokes, s)
}

// ClearStrokes drops all strokes for the current round.
func (g *Game) ClearStrokes() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.strokes = nil
}

// Strokes returns a copy of the accumulated strokes.
func (g *Game) Strokes() []Stroke {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.strokes)
}

// State returns the current lifecycle phase.
func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Players returns a copy of the roster in turn order.
func (g *Game) Players() []Player {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.playersLocked()
}

func (g *Game) playersLocked() []Player {
	out := make([]Player, 0, len(g.players))
	for _, p := range g.players {
		out = append(out, *p)
	}
	return out
}

// CurrentPlayer returns the player whose turn it is to draw.
func (g *Game) CurrentPlayer() (Player, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.currentIdx < 0 || g.currentIdx >= len(g.players) {
		return Player{}, false
	}
	return *g.players[g.currentIdx], true
}

// Leaderboard returns players sorted by descending score.
func (g *Game) Leaderboard() []Player {
	players := g.Players()
	slices.SortStableFunc(players, func(a, b Player) int {
		return b.Score - a.Score
	})
	return players
}

// Finished reports whether the configured round cap has been reached. The
// cap is informational: NextTurn keeps cycling regardless.
func (g *Game) Finished() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.round >= g.settings.MaxRounds
}

// Snapshot renders the externally visible state. Connection liveness is
// supplied by the caller so it is always derived from the fan-out layer.
func (g *Game) Snapshot(connected func(playerID string) bool) Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	players := make([]PlayerView, 0, len(g.players))
	for _, p := range g.players {
		pv := PlayerView{ID: p.ID, Name: p.Name, Score: p.Score}
		if connected != nil {
			pv.Connected = connected(p.ID)
		}
		players = append(players, pv)
	}

	snap := Snapshot{
		ID:                 g.id,
		State:              g.state,
		Players:            players,
		CurrentPlayerIndex: g.currentIdx,
		TimeLeft:           g.timeLeft,
		RoundNumber:        g.round,
		Finished:           g.round >= g.settings.MaxRounds,
	}
	if g.state == StateEnded {
		snap.Word = g.word
	}
	return snap
}
