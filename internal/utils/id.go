package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewRoomID returns a short lowercase room identifier. Eight hex characters
// of a v4 UUID are enough at this scale; the registry retries on the
// negligible chance of a collision.
func NewRoomID() string {
	return strings.ToLower(uuid.New().String()[:8])
}

// NewPlayerID returns a unique player identifier.
func NewPlayerID() string {
	return uuid.New().String()
}
