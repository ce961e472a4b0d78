package main

import (
	"strings"
	"time"
)

const (
	maxUsernameLen = 20
	maxRoomNameLen = 30
	maxMessageLen  = 500

	defaultRoom    = "general"
	systemUsername = "System"
)

// Message is one broadcastable chat event. It is immutable once built;
// room history stores copies.
type Message struct {
	Type      string `json:"type"`
	Username  string `json:"username"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
	IsAI      bool   `json:"is_ai,omitempty"`
}

func newChatMessage(username, text string, ai bool) Message {
	return Message{
		Type:      "message",
		Username:  username,
		Text:      text,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		IsAI:      ai,
	}
}

// inboundEvent is the union of all client → server event payloads.
// Unknown fields are ignored by encoding/json, unknown types by the
// protocol dispatcher.
type inboundEvent struct {
	Type     string `json:"type"`
	Key      string `json:"key"`
	Username string `json:"username"`
	Room     string `json:"room"`
	Text     string `json:"text"`
	Active   bool   `json:"active"`
}

type historyEvent struct {
	Type     string    `json:"type"`
	Messages []Message `json:"messages"`
}

type usersEvent struct {
	Type  string   `json:"type"`
	Users []string `json:"users"`
}

// presenceEvent carries both "join" and "leave" notices.
type presenceEvent struct {
	Type     string `json:"type"`
	Username string `json:"username"`
}

type typingEvent struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Active   bool   `json:"active"`
}

type aiStatusEvent struct {
	Type    string `json:"type"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type errorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// normalizeUsername truncates to 20 chars before trimming, so an
// over-long name padded with spaces cannot sneak past the length cap.
func normalizeUsername(s string) string {
	return strings.TrimSpace(truncateRunes(s, maxUsernameLen))
}

// normalizeRoom falls back to the default room when the trimmed name
// is empty.
func normalizeRoom(s string) string {
	name := strings.TrimSpace(truncateRunes(s, maxRoomNameLen))
	if name == "" {
		return defaultRoom
	}
	return name
}

func normalizeText(s string) string {
	return truncateRunes(strings.TrimSpace(s), maxMessageLen)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
