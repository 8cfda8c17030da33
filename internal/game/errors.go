package game

import "errors"

// Error codes surfaced on the wire.
const (
	ErrCodeRoomNotFound        = "room_not_found"
	ErrCodePlayerNotFound      = "player_not_found"
	ErrCodeRoomFull            = "room_full"
	ErrCodeInsufficientPlayers = "insufficient_players"
	ErrCodeAlreadyStarted      = "already_started"
	ErrCodeNotPlaying          = "not_playing"
	ErrCodeInvalidInput        = "invalid_input"
)

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrRoomFull            = errors.New("room is full")
	ErrInsufficientPlayers = errors.New("need at least 2 players")
	ErrAlreadyStarted      = errors.New("game already started")
	ErrNotPlaying          = errors.New("game not in playing state")
	ErrInvalidInput        = errors.New("invalid input")
)

// Code maps a domain error to its wire code. Unknown errors map to invalid_input.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return ErrCodeRoomNotFound
	case errors.Is(err, ErrPlayerNotFound):
		return ErrCodePlayerNotFound
	case errors.Is(err, ErrRoomFull):
		return ErrCodeRoomFull
	case errors.Is(err, ErrInsufficientPlayers):
		return ErrCodeInsufficientPlayers
	case errors.Is(err, ErrAlreadyStarted):
		return ErrCodeAlreadyStarted
	case errors.Is(err, ErrNotPlaying):
		return ErrCodeNotPlaying
	default:
		return ErrCodeInvalidInput
	}
}
