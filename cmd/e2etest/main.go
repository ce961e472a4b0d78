// E2E test: connects two WebSocket clients through a live NeonChat server
// and exercises join, user list, messaging and typing notices.
// Usage: go run ./cmd/e2etest -server ws://localhost:8765/ws
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

var serverURL = flag.String("server", "ws://localhost:8765/ws", "chat WebSocket URL")

type event struct {
	Type     string          `json:"type"`
	Username string          `json:"username,omitempty"`
	Room     string          `json:"room,omitempty"`
	Text     string          `json:"text,omitempty"`
	Active   bool            `json:"active,omitempty"`
	OK       bool            `json:"ok,omitempty"`
	Message  string          `json:"message,omitempty"`
	Users    []string        `json:"users,omitempty"`
	Messages json.RawMessage `json:"messages,omitempty"`
}

func main() {
	flag.Parse()
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	room := fmt.Sprintf("e2e-%d", time.Now().Unix())

	alice := dial("alice")
	defer alice.Close()
	bob := dial("bob")
	defer bob.Close()

	// Alice joins first and must get history, users and an AI status.
	send(alice, event{Type: "join", Username: "alice", Room: room})
	expect(alice, "alice", "history")
	expect(alice, "alice", "users")
	expect(alice, "alice", "ai_status")

	// Bob joins; Alice must see the join notice.
	send(bob, event{Type: "join", Username: "bob", Room: room})
	expect(bob, "bob", "history")
	users := expect(bob, "bob", "users")
	if len(users.Users) != 2 {
		log.Fatalf("FAIL: bob sees %d users, want 2", len(users.Users))
	}
	expect(bob, "bob", "ai_status")
	joined := expect(alice, "alice", "join")
	if joined.Username != "bob" {
		log.Fatalf("FAIL: alice saw join from %q, want bob", joined.Username)
	}

	// A chat message reaches both members, sender included.
	send(alice, event{Type: "message", Text: "hello from alice"})
	for name, conn := range map[string]*websocket.Conn{"alice": alice, "bob": bob} {
		msg := expect(conn, name, "message")
		if msg.Text != "hello from alice" {
			log.Fatalf("FAIL: %s got message %q", name, msg.Text)
		}
	}

	// Typing notices exclude the sender.
	send(bob, event{Type: "typing", Active: true})
	typing := expect(alice, "alice", "typing")
	if typing.Username != "bob" || !typing.Active {
		log.Fatalf("FAIL: alice got typing %+v", typing)
	}

	// Bob leaves; Alice must see the leave notice.
	bob.Close()
	left := expect(alice, "alice", "leave")
	if left.Username != "bob" {
		log.Fatalf("FAIL: alice saw leave from %q, want bob", left.Username)
	}

	log.Println("PASS: e2e chat flow completed")
}

func dial(name string) *websocket.Conn {
	conn, _, err := websocket.DefaultDialer.Dial(*serverURL, nil)
	if err != nil {
		log.Fatalf("FAIL: %s dial: %v", name, err)
	}
	return conn
}

func send(conn *websocket.Conn, ev event) {
	if err := conn.WriteJSON(ev); err != nil {
		log.Fatalf("FAIL: write: %v", err)
	}
}

// expect reads frames until one of the wanted type arrives, skipping
// interleaved notices (e.g. typing vs message ordering is not fixed).
func expect(conn *websocket.Conn, who, wantType string) event {
	deadline := time.Now().Add(5 * time.Second)
	for {
		_ = conn.SetReadDeadline(deadline)
		var ev event
		if err := conn.ReadJSON(&ev); err != nil {
			log.Fatalf("FAIL: %s waiting for %q: %v", who, wantType, err)
		}
		if ev.Type == wantType {
			log.Printf("%s ← %s", who, wantType)
			return ev
		}
		log.Printf("%s ← %s (skipped)", who, ev.Type)
	}
}
