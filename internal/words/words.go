// Package words provides the drawing word bank. The game core treats word
// selection as a black box: anything implementing Source works.
package words

import (
	"math/rand"
	"strings"
)

// Source supplies secret words for drawing rounds.
type Source interface {
	// Random returns a non-empty word.
	Random() string
	// All returns every word the source can produce.
	All() []string
}

// Bank is an in-memory Source with category support.
type Bank struct {
	categories map[string][]string
	flat       []string
}

// NewBank returns the default word bank.
func NewBank() *Bank {
	categories := map[string][]string{
		"animals": {
			"cat", "dog", "elephant", "giraffe", "penguin", "butterfly", "shark", "turtle",
			"rabbit", "lion", "tiger", "bear", "whale", "dolphin", "owl", "eagle",
		},
		"objects": {
			"car", "bicycle", "airplane", "boat", "house", "tree", "flower", "sun",
			"moon", "star", "book", "computer", "phone", "chair", "table", "lamp",
		},
		"food": {
			"pizza", "hamburger", "apple", "banana", "ice cream", "cake", "coffee", "bread",
			"cheese", "fish", "chicken", "carrot", "tomato", "potato", "cookie", "sandwich",
		},
		"actions": {
			"running", "jumping", "swimming", "dancing", "singing", "sleeping", "reading", "writing",
			"cooking", "driving", "flying", "climbing", "walking", "sitting", "standing", "laughing",
		},
		"sports": {
			"football", "basketball", "tennis", "golf", "baseball", "soccer", "hockey", "skiing",
			"painting", "music", "guitar", "piano", "camera", "movie", "television", "game",
		},
		"nature": {
			"mountain", "ocean", "forest", "desert", "rainbow", "cloud", "rain", "snow",
			"fire", "wind", "earth", "water", "grass", "leaf", "rock", "sand",
		},
		"emotions": {
			"happy", "sad", "angry", "surprised", "scared", "excited", "tired", "confused",
			"love", "friendship", "family", "birthday", "party", "celebration", "gift", "holiday",
		},
	}

	var flat []string
	for _, ws := range categories {
		flat = append(flat, ws...)
	}

	return &Bank{categories: categories, flat: flat}
}

// Random returns a random word from the whole bank.
func (b *Bank) Random() string {
	return b.flat[rand.Intn(len(b.flat))]
}

// All returns a copy of the full word list.
func (b *Bank) All() []string {
	out := make([]string, len(b.flat))
	copy(out, b.flat)
	return out
}

// Categories returns the category names.
func (b *Bank) Categories() []string {
	out := make([]string, 0, len(b.categories))
	for name := range b.categories {
		out = append(out, name)
	}
	return out
}

// RandomFromCategory returns a random word from the named category,
// falling back to the whole bank for unknown categories.
func (b *Bank) RandomFromCategory(category string) string {
	ws, ok := b.categories[strings.ToLower(category)]
	if !ok || len(ws) == 0 {
		return b.Random()
	}
	return ws[rand.Intn(len(ws))]
}

// IsValid reports whether the word is in the bank (case-insensitive).
func (b *Bank) IsValid(word string) bool {
	word = strings.ToLower(word)
	for _, w := range b.flat {
		if w == word {
			return true
		}
	}
	return false
}
