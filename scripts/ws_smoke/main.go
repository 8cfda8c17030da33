// Smoke client: drives one full round against a running server. It creates a
// room over REST, joins two players, opens their sockets, starts the game and
// prints every broadcast until the round ends or the timeout fires.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	base := flag.String("base", "http://localhost:8000", "server base URL")
	timeout := flag.Duration("timeout", 10*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	roomID, err := createRoom(ctx, *base)
	if err != nil {
		return err
	}
	fmt.Printf("room: %s\n", roomID)

	drawerID, err := join(ctx, *base, roomID, "smoke-drawer")
	if err != nil {
		return err
	}
	guesserID, err := join(ctx, *base, roomID, "smoke-guesser")
	if err != nil {
		return err
	}

	wsBase := "ws" + (*base)[len("http"):]
	drawer, err := dial(ctx, wsBase, roomID, drawerID)
	if err != nil {
		return err
	}
	defer drawer.Close(websocket.StatusNormalClosure, "bye")

	guesser, err := dial(ctx, wsBase, roomID, guesserID)
	if err != nil {
		return err
	}
	defer guesser.Close(websocket.StatusNormalClosure, "bye")

	if err := post(ctx, *base+"/api/games/"+roomID+"/start", nil, nil); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	// The drawer learns the word from the game_started broadcast; feed it
	// back as the guesser's guess to finish the round.
	for {
		var msg map[string]any
		if err := wsjson.Read(ctx, drawer, &msg); err != nil {
			return fmt.Errorf("read: %w", err)
		}
		fmt.Printf("drawer received: type=%v\n", msg["type"])

		switch msg["type"] {
		case "game_started":
			word, _ := msg["current_word"].(string)
			fmt.Printf("word: %q\n", word)
			body := map[string]string{"player_id": guesserID, "guess": word}
			if err := post(ctx, *base+"/api/games/"+roomID+"/guess", body, nil); err != nil {
				return fmt.Errorf("guess: %w", err)
			}
		case "correct_guess":
			fmt.Println("round complete")
			return nil
		}
	}
}

func createRoom(ctx context.Context, base string) (string, error) {
	var out struct {
		GameID string `json:"game_id"`
	}
	if err := post(ctx, base+"/api/games", nil, &out); err != nil {
		return "", fmt.Errorf("create room: %w", err)
	}
	return out.GameID, nil
}

func join(ctx context.Context, base, roomID, name string) (string, error) {
	var out struct {
		PlayerID string `json:"player_id"`
	}
	body := map[string]string{"name": name}
	if err := post(ctx, base+"/api/games/"+roomID+"/join", body, &out); err != nil {
		return "", fmt.Errorf("join %s: %w", name, err)
	}
	fmt.Printf("joined: %s -> %s\n", name, out.PlayerID)
	return out.PlayerID, nil
}

func dial(ctx context.Context, wsBase, roomID, playerID string) (*websocket.Conn, error) {
	conn, _, err := websocket.Dial(ctx, wsBase+"/ws/"+roomID+"/"+playerID, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", playerID, err)
	}
	return conn, nil
}

func post(ctx context.Context, url string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s: status %d", url, resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
