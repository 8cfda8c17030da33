package game

import (
	"strings"
	"testing"
)

func TestRegistryCreateAndLookup(t *testing.T) {
	r := NewRegistry(DefaultSettings())

	g := r.Create()
	if g.ID() == "" {
		t.Fatal("empty room id")
	}
	if g.ID() != strings.ToLower(g.ID()) {
		t.Fatalf("room id not lowercase: %q", g.ID())
	}
	if g.State() != StateWaiting {
		t.Fatalf("new room state = %v", g.State())
	}

	got, ok := r.Get(g.ID())
	if !ok || got != g {
		t.Fatal("lookup by exact id failed")
	}

	// Identifiers are case-insensitive at the boundary.
	got, ok = r.Get(strings.ToUpper(g.ID()))
	if !ok || got != g {
		t.Fatal("lookup by uppercased id failed")
	}

	if _, ok := r.Get("nope1234"); ok {
		t.Fatal("lookup of unknown id succeeded")
	}
}

func TestRegistryCreateUniqueIDs(t *testing.T) {
	r := NewRegistry(DefaultSettings())

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := r.Create().ID()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate room id %q", id)
		}
		seen[id] = struct{}{}
	}

	if got := len(r.List()); got != 100 {
		t.Fatalf("list size = %d, want 100", got)
	}
}
