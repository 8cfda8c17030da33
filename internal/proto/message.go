// Package proto defines the JSON messages exchanged over the real-time
// channel. Every message carries a "type" discriminator alongside its
// payload fields.
package proto

import (
	"encoding/json"

	"github.com/drawdash/drawdash-server/internal/game"
)

// Inbound message types accepted from clients.
const (
	InboundTypeDrawing     = "drawing"
	InboundTypeClearCanvas = "clear_canvas"
	InboundTypePing        = "ping"
)

// Outbound message types pushed by the server.
const (
	TypePlayerJoined = "player_joined"
	TypeGameStarted  = "game_started"
	TypeCorrectGuess = "correct_guess"
	TypeGuessMade    = "guess_made"
	TypeGameReset    = "game_reset"
	TypeTimeUpdate   = "time_update"
	TypeTimeUp       = "time_up"
	TypeNextRound    = "next_round"
	TypePong         = "pong"
)

// Inbound is the probe envelope for client messages. Drawing and canvas
// payloads are relayed verbatim, so only the type and the optional stroke
// are decoded.
type Inbound struct {
	Type   string          `json:"type"`
	Stroke json.RawMessage `json:"stroke,omitempty"`
}

// PlayerJoined announces a roster change.
type PlayerJoined struct {
	Type    string        `json:"type"`
	Player  game.Player   `json:"player"`
	Players []game.Player `json:"players"`
}

func NewPlayerJoined(player game.Player, players []game.Player) PlayerJoined {
	return PlayerJoined{Type: TypePlayerJoined, Player: player, Players: players}
}

// GameStarted announces the first round of a game.
type GameStarted struct {
	Type               string     `json:"type"`
	State              game.State `json:"state"`
	CurrentWord        string     `json:"current_word"`
	CurrentPlayerIndex int        `json:"current_player_index"`
	TimeLeft           int        `json:"time_left"`
}

func NewGameStarted(snap game.Snapshot, word string) GameStarted {
	return GameStarted{
		Type:               TypeGameStarted,
		State:              snap.State,
		CurrentWord:        word,
		CurrentPlayerIndex: snap.CurrentPlayerIndex,
		TimeLeft:           snap.TimeLeft,
	}
}

// CorrectGuess reveals the word and the round winner.
type CorrectGuess struct {
	Type    string        `json:"type"`
	Player  game.Player   `json:"player"`
	Word    string        `json:"word"`
	Players []game.Player `json:"players"`
}

func NewCorrectGuess(res game.GuessResult) CorrectGuess {
	return CorrectGuess{Type: TypeCorrectGuess, Player: res.Player, Word: res.Word, Players: res.Players}
}

// GuessMade relays an incorrect guess with its original casing.
type GuessMade struct {
	Type   string      `json:"type"`
	Player game.Player `json:"player"`
	Guess  string      `json:"guess"`
}

func NewGuessMade(player game.Player, guess string) GuessMade {
	return GuessMade{Type: TypeGuessMade, Player: player, Guess: guess}
}

// GameReset announces a return to the waiting state.
type GameReset struct {
	Type    string        `json:"type"`
	State   game.State    `json:"state"`
	Players []game.Player `json:"players"`
}

func NewGameReset(state game.State, players []game.Player) GameReset {
	return GameReset{Type: TypeGameReset, State: state, Players: players}
}

// TimeUpdate reports the countdown value.
type TimeUpdate struct {
	Type     string `json:"type"`
	TimeLeft int    `json:"time_left"`
}

func NewTimeUpdate(timeLeft int) TimeUpdate {
	return TimeUpdate{Type: TypeTimeUpdate, TimeLeft: timeLeft}
}

// TimeUp reveals the word after a timeout.
type TimeUp struct {
	Type string `json:"type"`
	Word string `json:"word"`
}

func NewTimeUp(word string) TimeUp {
	return TimeUp{Type: TypeTimeUp, Word: word}
}

// NextRoundMsg announces a new turn.
type NextRoundMsg struct {
	Type               string     `json:"type"`
	State              game.State `json:"state"`
	CurrentWord        string     `json:"current_word"`
	CurrentPlayerIndex int        `json:"current_player_index"`
	TimeLeft           int        `json:"time_left"`
	RoundNumber        int        `json:"round_number"`
}

func NewNextRound(next game.NextRound) NextRoundMsg {
	return NextRoundMsg{
		Type:               TypeNextRound,
		State:              next.State,
		CurrentWord:        next.Word,
		CurrentPlayerIndex: next.CurrentPlayerIndex,
		TimeLeft:           next.TimeLeft,
		RoundNumber:        next.RoundNumber,
	}
}

// Pong answers a keepalive ping.
type Pong struct {
	Type string `json:"type"`
}

func NewPong() Pong {
	return Pong{Type: TypePong}
}
