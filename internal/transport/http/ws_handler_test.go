package http

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

func dialWS(t *testing.T, ts *httptest.Server, roomID, playerID string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/" + roomID + "/" + playerID
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "test done") })

	// The server registers the connection before it starts reading, so a
	// ping round-trip guarantees this peer now receives broadcasts.
	if err := wsjson.Write(ctx, conn, map[string]string{"type": "ping"}); err != nil {
		t.Fatalf("handshake ping: %v", err)
	}
	if msg := readMessage(t, conn); msg["type"] != "pong" {
		t.Fatalf("handshake got %v, want pong", msg["type"])
	}
	return conn
}

// readMessage reads one JSON message and returns it as a generic map.
func readMessage(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var msg map[string]any
	if err := wsjson.Read(ctx, conn, &msg); err != nil {
		t.Fatalf("read ws message: %v", err)
	}
	return msg
}

func TestWSDrawingRelay(t *testing.T) {
	ts := startTestServer(t, "pizza")
	roomID := createRoom(t, ts)
	aliceID := joinRoom(t, ts, roomID, "Alice")
	bobID := joinRoom(t, ts, roomID, "Bob")

	alice := dialWS(t, ts, roomID, aliceID)
	bob := dialWS(t, ts, roomID, bobID)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stroke := map[string]any{
		"type": "drawing",
		"stroke": map[string]any{
			"color": "#ff0000",
			"width": 3,
			"points": []map[string]float64{
				{"x": 1, "y": 2},
				{"x": 3, "y": 4},
			},
		},
	}
	if err := wsjson.Write(ctx, alice, stroke); err != nil {
		t.Fatalf("send drawing: %v", err)
	}

	msg := readMessage(t, bob)
	if msg["type"] != "drawing" {
		t.Fatalf("bob received %v, want drawing", msg["type"])
	}

	// Alice must not get her own stroke back. A ping makes that observable:
	// the next message she reads has to be the pong.
	if err := wsjson.Write(ctx, alice, map[string]string{"type": "ping"}); err != nil {
		t.Fatalf("send ping: %v", err)
	}
	if msg := readMessage(t, alice); msg["type"] != "pong" {
		t.Fatalf("alice received %v, want pong", msg["type"])
	}
}

func TestWSClearCanvasRelay(t *testing.T) {
	ts := startTestServer(t, "pizza")
	roomID := createRoom(t, ts)
	aliceID := joinRoom(t, ts, roomID, "Alice")
	bobID := joinRoom(t, ts, roomID, "Bob")

	alice := dialWS(t, ts, roomID, aliceID)
	bob := dialWS(t, ts, roomID, bobID)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := wsjson.Write(ctx, alice, map[string]string{"type": "clear_canvas"}); err != nil {
		t.Fatalf("send clear: %v", err)
	}
	if msg := readMessage(t, bob); msg["type"] != "clear_canvas" {
		t.Fatalf("bob received %v, want clear_canvas", msg["type"])
	}
}

func TestWSReceivesGameEvents(t *testing.T) {
	ts := startTestServer(t, "pizza")
	roomID := createRoom(t, ts)
	aliceID := joinRoom(t, ts, roomID, "Alice")

	alice := dialWS(t, ts, roomID, aliceID)

	// A join over REST reaches connected players as a broadcast.
	bobID := joinRoom(t, ts, roomID, "Bob")

	msg := readMessage(t, alice)
	if msg["type"] != "player_joined" {
		t.Fatalf("alice received %v, want player_joined", msg["type"])
	}
	player, ok := msg["player"].(map[string]any)
	if !ok || player["id"] != bobID {
		t.Fatalf("player payload = %v", msg["player"])
	}

	bob := dialWS(t, ts, roomID, bobID)

	resp := postJSON(t, ts, "/api/games/"+roomID+"/start", nil)
	resp.Body.Close()

	for _, conn := range []*websocket.Conn{alice, bob} {
		msg := readMessage(t, conn)
		if msg["type"] != "game_started" {
			t.Fatalf("received %v, want game_started", msg["type"])
		}
		if msg["current_word"] != "pizza" {
			t.Fatalf("current_word = %v", msg["current_word"])
		}
	}
}

func TestWSMalformedMessageIgnored(t *testing.T) {
	ts := startTestServer(t, "pizza")
	roomID := createRoom(t, ts)
	aliceID := joinRoom(t, ts, roomID, "Alice")

	alice := dialWS(t, ts, roomID, aliceID)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := alice.Write(ctx, websocket.MessageText, []byte("not json")); err != nil {
		t.Fatalf("send garbage: %v", err)
	}

	// The connection survives. A ping still gets answered.
	if err := wsjson.Write(ctx, alice, map[string]string{"type": "ping"}); err != nil {
		t.Fatalf("send ping: %v", err)
	}
	if msg := readMessage(t, alice); msg["type"] != "pong" {
		t.Fatalf("alice received %v, want pong", msg["type"])
	}
}
