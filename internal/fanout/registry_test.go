package fanout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

type fakeConn struct {
	mu   sync.Mutex
	msgs []any
	fail bool
}

func (f *fakeConn) Send(_ context.Context, v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("connection dead")
	}
	f.msgs = append(f.msgs, v)
	return nil
}

func (f *fakeConn) received() []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]any(nil), f.msgs...)
}

func testRegistry() *Registry {
	logger := zerolog.Nop()
	return NewRegistry(&logger)
}

func TestBroadcastExcludesSender(t *testing.T) {
	r := testRegistry()
	alice, bob := &fakeConn{}, &fakeConn{}
	r.Connect("room", "alice", alice)
	r.Connect("room", "bob", bob)

	r.Broadcast(context.Background(), "room", "stroke", "alice")

	if len(alice.received()) != 0 {
		t.Fatalf("excluded sender received %v", alice.received())
	}
	if got := bob.received(); len(got) != 1 || got[0] != "stroke" {
		t.Fatalf("bob received %v", got)
	}
}

func TestBroadcastPrunesDeadConnections(t *testing.T) {
	r := testRegistry()
	live, dead := &fakeConn{}, &fakeConn{fail: true}
	r.Connect("room", "live", live)
	r.Connect("room", "dead", dead)

	r.Broadcast(context.Background(), "room", "first")

	if got := live.received(); len(got) != 1 {
		t.Fatalf("live connection received %v", got)
	}
	if r.IsConnected("room", "dead") {
		t.Fatal("dead connection not pruned")
	}
	if !r.IsConnected("room", "live") {
		t.Fatal("live connection pruned")
	}

	// The pruned connection is not retried.
	dead.mu.Lock()
	dead.fail = false
	dead.mu.Unlock()
	r.Broadcast(context.Background(), "room", "second")

	if len(dead.received()) != 0 {
		t.Fatalf("pruned connection received %v", dead.received())
	}
	if got := live.received(); len(got) != 2 {
		t.Fatalf("live connection received %v", got)
	}
}

func TestBroadcastCancelledContextLeavesConnections(t *testing.T) {
	r := testRegistry()
	c := &fakeConn{fail: true}
	r.Connect("room", "p", c)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r.Broadcast(ctx, "room", "msg")

	if !r.IsConnected("room", "p") {
		t.Fatal("connection pruned on caller cancellation")
	}
}

func TestUnicast(t *testing.T) {
	r := testRegistry()
	alice, bob := &fakeConn{}, &fakeConn{}
	r.Connect("room", "alice", alice)
	r.Connect("room", "bob", bob)

	if err := r.Unicast(context.Background(), "room", "alice", "pong"); err != nil {
		t.Fatalf("unicast: %v", err)
	}
	if got := alice.received(); len(got) != 1 || got[0] != "pong" {
		t.Fatalf("alice received %v", got)
	}
	if len(bob.received()) != 0 {
		t.Fatalf("bob received %v", bob.received())
	}

	// Unknown targets are ignored.
	if err := r.Unicast(context.Background(), "room", "ghost", "pong"); err != nil {
		t.Fatalf("unicast to unknown player: %v", err)
	}
}

func TestUnicastFailurePrunes(t *testing.T) {
	r := testRegistry()
	r.Connect("room", "p", &fakeConn{fail: true})

	if err := r.Unicast(context.Background(), "room", "p", "msg"); err == nil {
		t.Fatal("expected unicast error")
	}
	if r.IsConnected("room", "p") {
		t.Fatal("failed connection not pruned")
	}
}

func TestConnectReplacesPriorConnection(t *testing.T) {
	r := testRegistry()
	old, fresh := &fakeConn{}, &fakeConn{}
	r.Connect("room", "p", old)
	r.Connect("room", "p", fresh)

	r.Broadcast(context.Background(), "room", "msg")

	if len(old.received()) != 0 {
		t.Fatal("replaced connection still receiving")
	}
	if len(fresh.received()) != 1 {
		t.Fatal("reconnected handle not receiving")
	}
	if got := r.Count("room"); got != 1 {
		t.Fatalf("count = %d, want 1", got)
	}
}

func TestDisconnectDropsEmptyRooms(t *testing.T) {
	r := testRegistry()
	r.Connect("room", "a", &fakeConn{})
	r.Connect("room", "b", &fakeConn{})

	r.Disconnect("room", "a")
	if got := r.Count("room"); got != 1 {
		t.Fatalf("count = %d, want 1", got)
	}

	r.Disconnect("room", "b")
	if got := len(r.Rooms()); got != 0 {
		t.Fatalf("rooms remaining: %d", got)
	}

	// Disconnecting again is harmless.
	r.Disconnect("room", "b")
}

func TestConnectedIDs(t *testing.T) {
	r := testRegistry()
	r.Connect("room", "a", &fakeConn{})
	r.Connect("room", "b", &fakeConn{})

	ids := r.ConnectedIDs("room")
	if len(ids) != 2 {
		t.Fatalf("ids = %v", ids)
	}
	seen := map[string]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if !seen["a"] || !seen["b"] {
		t.Fatalf("ids = %v", ids)
	}
}
