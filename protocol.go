package main

import (
	"encoding/json"
	"strings"

	log "github.com/sirupsen/logrus"
)

// HandleEvent drives the per-connection state machine. Malformed frames
// and unknown event types are ignored; nothing in here may take the
// connection (or the process) down.
func (h *Hub) HandleEvent(c *Client, raw []byte) {
	var ev inboundEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return
	}

	switch ev.Type {
	case "set_api_key":
		h.handleSetAPIKey(c, ev)
	case "join":
		h.handleJoin(c, ev)
	case "message":
		h.handleMessage(c, ev)
	case "typing":
		h.handleTyping(c, ev)
	case "join_room":
		h.handleJoinRoom(c, ev)
	}
}

func (h *Hub) handleSetAPIKey(c *Client, ev inboundEvent) {
	sess := h.registry.Lookup(c.connID)
	if sess == nil {
		return
	}

	key := strings.TrimSpace(ev.Key)
	if key == "" {
		h.SendTo(c, aiStatusEvent{Type: "ai_status", OK: false, Message: "Invalid API key."})
		return
	}
	h.ai.SetRoomKey(sess.Room, key)
	log.Infof("API key set for #%s", sess.Room)
	h.SendTo(c, aiStatusEvent{
		Type:    "ai_status",
		OK:      true,
		Message: "API key saved. Type @ai <question> to chat with the bot!",
	})
}

func (h *Hub) handleJoin(c *Client, ev inboundEvent) {
	username := normalizeUsername(ev.Username)
	room := normalizeRoom(ev.Room)
	if username == "" {
		h.SendTo(c, errorEvent{Type: "error", Message: "Invalid nickname"})
		return
	}

	// Re-join from another room is an implicit leave: membership is
	// revoked there before the new room sees this connection.
	if prev := h.registry.Lookup(c.connID); prev != nil {
		h.rooms.RemoveMember(prev.Room, c.connID)
		h.Broadcast(prev.Room, presenceEvent{Type: "leave", Username: prev.Username}, nil)
	}

	h.registry.Register(c.connID, username, room)
	h.rooms.AddMember(room, c)
	log.Infof("%s joined #%s", username, room)

	h.SendTo(c, historyEvent{Type: "history", Messages: h.historySnapshot(room)})
	h.SendTo(c, usersEvent{Type: "users", Users: h.registry.ListUsernames(room)})
	h.Broadcast(room, presenceEvent{Type: "join", Username: username}, c)

	if h.ai.Available(room) {
		h.SendTo(c, aiStatusEvent{Type: "ai_status", OK: true, Message: "AI is on — type @ai <question>"})
	} else {
		h.SendTo(c, aiStatusEvent{Type: "ai_status", OK: false, Message: "Type /apikey <key> to enable the AI"})
	}
}

func (h *Hub) handleMessage(c *Client, ev inboundEvent) {
	sess := h.registry.Lookup(c.connID)
	if sess == nil {
		return
	}
	text := normalizeText(ev.Text)
	if text == "" {
		return
	}

	msg := newChatMessage(sess.Username, text, false)
	h.rooms.AppendHistory(sess.Room, msg)
	h.Broadcast(sess.Room, msg, nil)

	if prompt, ok := parseAITrigger(text); ok {
		h.ai.Respond(sess.Room, prompt)
	}

	// The /apikey command rides on a normal chat message, so it is
	// evaluated independently of the AI trigger above.
	if strings.HasPrefix(strings.ToLower(text), "/apikey ") {
		key := strings.TrimSpace(text[len("/apikey "):])
		h.ai.SetRoomKey(sess.Room, key)
		log.Infof("API key set via command for #%s", sess.Room)
		h.Broadcast(sess.Room, newChatMessage(systemUsername,
			"API key saved for this room. Type @ai <question> to use the bot!", false), nil)
	}
}

func (h *Hub) handleTyping(c *Client, ev inboundEvent) {
	sess := h.registry.Lookup(c.connID)
	if sess == nil {
		return
	}
	h.Broadcast(sess.Room, typingEvent{Type: "typing", Username: sess.Username, Active: ev.Active}, c)
}

func (h *Hub) handleJoinRoom(c *Client, ev inboundEvent) {
	sess := h.registry.Lookup(c.connID)
	if sess == nil {
		return
	}
	newRoom := normalizeRoom(ev.Room)

	h.rooms.RemoveMember(sess.Room, c.connID)
	h.Broadcast(sess.Room, presenceEvent{Type: "leave", Username: sess.Username}, nil)

	h.registry.SetRoom(c.connID, newRoom)
	h.rooms.AddMember(newRoom, c)
	log.Infof("%s switched to #%s", sess.Username, newRoom)

	h.SendTo(c, historyEvent{Type: "history", Messages: h.historySnapshot(newRoom)})
	h.SendTo(c, usersEvent{Type: "users", Users: h.registry.ListUsernames(newRoom)})
	h.Broadcast(newRoom, presenceEvent{Type: "join", Username: sess.Username}, c)
}

// Disconnect runs once per connection when its read pump exits, whether
// or not the client ever joined.
func (h *Hub) Disconnect(c *Client) {
	metricConnections.Dec()

	sess := h.registry.Unregister(c.connID)
	if sess == nil {
		return
	}
	h.rooms.RemoveMember(sess.Room, c.connID)
	h.Broadcast(sess.Room, presenceEvent{Type: "leave", Username: sess.Username}, nil)
	log.Infof("%s disconnected from #%s", sess.Username, sess.Room)
}

// historySnapshot never returns nil so the wire field is always an
// array, which is what the browser client iterates.
func (h *Hub) historySnapshot(room string) []Message {
	msgs := h.rooms.History(room)
	if msgs == nil {
		return []Message{}
	}
	return msgs
}
