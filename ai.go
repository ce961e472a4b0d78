package main

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	botUsername = "NeonBot"

	// maxTurns caps a room's conversation at 20 exchanges.
	maxTurns = 40

	defaultPrompt = "Hi! How can you help me?"

	aiSystemPrompt = `You are NeonBot, an AI assistant embedded in NeonChat, a
room-based messaging app. Be concise and helpful; the text is rendered in a
chat window, so avoid heavy markdown. Keep answers to a few sentences unless
the user explicitly asks for a long explanation.`
)

const (
	roleUser      = "user"
	roleAssistant = "assistant"
)

// Turn is one entry in a room's AI conversation.
type Turn struct {
	Role string
	Text string
}

// completionFunc turns a credential and the conversation so far into a
// reply. Injectable so tests never touch the network.
type completionFunc func(ctx context.Context, apiKey string, turns []Turn) (string, error)

type conversation struct {
	mu    sync.Mutex
	turns []Turn
}

// AIBridge holds per-room conversation state and API keys, and runs
// completion calls off the protocol's critical path.
type AIBridge struct {
	hub      *Hub
	complete completionFunc
	timeout  time.Duration

	defaultKey string

	mu    sync.RWMutex
	convs map[string]*conversation
	keys  map[string]string
}

func newAIBridge(cfg *Config, hub *Hub) *AIBridge {
	return &AIBridge{
		hub:        hub,
		complete:   openAICompletion(cfg.AIModel, cfg.AIBaseURL),
		timeout:    cfg.AITimeout,
		defaultKey: cfg.DefaultAPIKey,
		convs:      make(map[string]*conversation),
		keys:       make(map[string]string),
	}
}

// parseAITrigger recognizes "@ai"/"/ai" (default prompt) and
// "@ai <q>"/"/ai <q>" prefixes on the trimmed, lower-cased text. Other
// prefixes, including "@aifoo", do not trigger.
func parseAITrigger(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	low := strings.ToLower(trimmed)
	switch {
	case low == "@ai" || low == "/ai":
		return defaultPrompt, true
	case strings.HasPrefix(low, "@ai ") || strings.HasPrefix(low, "/ai "):
		return strings.TrimSpace(trimmed[4:]), true
	}
	return "", false
}

func (b *AIBridge) SetRoomKey(room, key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.keys[room] = strings.TrimSpace(key)
}

// Available reports whether an AI exchange in the room could resolve a
// credential right now.
func (b *AIBridge) Available(room string) bool {
	return b.resolveKey(room) != ""
}

func (b *AIBridge) resolveKey(room string) string {
	b.mu.RLock()
	key := b.keys[room]
	b.mu.RUnlock()
	if key != "" {
		return key
	}
	return b.defaultKey
}

// Respond handles one AI trigger. Without a credential it advises the
// room and leaves conversation state untouched; otherwise the exchange
// runs on its own goroutine so the sender's read loop and all other
// room traffic keep flowing.
func (b *AIBridge) Respond(room, prompt string) {
	key := b.resolveKey(room)
	if key == "" {
		b.hub.Broadcast(room, newChatMessage(botUsername,
			"No API key configured. Type /apikey <your_key> to activate me!", false), nil)
		return
	}
	go b.exchange(room, prompt, key)
}

// exchange holds the room conversation's lock for the whole
// append → call → append/rollback span, so concurrent triggers queue up
// and the history always holds complete request/response pairs.
func (b *AIBridge) exchange(room, prompt, key string) {
	conv := b.conversationFor(room)
	conv.mu.Lock()
	defer conv.mu.Unlock()

	conv.turns = append(conv.turns, Turn{Role: roleUser, Text: prompt})
	b.hub.Broadcast(room, typingEvent{Type: "typing", Username: botUsername, Active: true}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()
	reply, err := b.complete(ctx, key, conv.turns)

	if err != nil {
		// Roll back the unanswered user turn; the visible error goes to
		// room history only, never into the conversation.
		conv.turns = conv.turns[:len(conv.turns)-1]
		log.Warnf("AI error in #%s: %v", room, err)
		metricAIRequests.WithLabelValues("error").Inc()

		b.hub.Broadcast(room, typingEvent{Type: "typing", Username: botUsername, Active: false}, nil)
		msg := newChatMessage(botUsername, "AI error: "+err.Error(), true)
		b.hub.rooms.AppendHistory(room, msg)
		b.hub.Broadcast(room, msg, nil)
		return
	}

	conv.turns = append(conv.turns, Turn{Role: roleAssistant, Text: reply})
	trimTurns(conv)
	metricAIRequests.WithLabelValues("ok").Inc()

	b.hub.Broadcast(room, typingEvent{Type: "typing", Username: botUsername, Active: false}, nil)
	msg := newChatMessage(botUsername, reply, true)
	b.hub.rooms.AppendHistory(room, msg)
	b.hub.Broadcast(room, msg, nil)
}

// trimTurns drops the oldest turns past the cap, always in whole pairs
// so the conversation never starts with a dangling assistant turn.
func trimTurns(conv *conversation) {
	over := len(conv.turns) - maxTurns
	if over <= 0 {
		return
	}
	if over%2 == 1 {
		over++
	}
	conv.turns = append([]Turn(nil), conv.turns[over:]...)
}

func (b *AIBridge) conversationFor(room string) *conversation {
	b.mu.Lock()
	defer b.mu.Unlock()
	conv, ok := b.convs[room]
	if !ok {
		conv = &conversation{}
		b.convs[room] = conv
	}
	return conv
}

// turnsSnapshot is used by tests to inspect a room's conversation.
func (b *AIBridge) turnsSnapshot(room string) []Turn {
	conv := b.conversationFor(room)
	conv.mu.Lock()
	defer conv.mu.Unlock()
	return append([]Turn(nil), conv.turns...)
}

// openAICompletion is the production completion call: system
// instruction plus the conversation so far, against a configurable
// model and base URL.
func openAICompletion(model, baseURL string) completionFunc {
	return func(ctx context.Context, apiKey string, turns []Turn) (string, error) {
		opts := []option.RequestOption{option.WithAPIKey(apiKey)}
		if baseURL != "" {
			opts = append(opts, option.WithBaseURL(baseURL))
		}
		client := openai.NewClient(opts...)

		msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns)+1)
		msgs = append(msgs, openai.SystemMessage(aiSystemPrompt))
		for _, t := range turns {
			if t.Role == roleAssistant {
				msgs = append(msgs, openai.AssistantMessage(t.Text))
			} else {
				msgs = append(msgs, openai.UserMessage(t.Text))
			}
		}

		resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Messages: msgs,
			Model:    model,
		})
		if err != nil {
			return "", errors.Wrap(err, "completion request")
		}
		if len(resp.Choices) == 0 {
			return "", errors.New("completion returned no choices")
		}
		return resp.Choices[0].Message.Content, nil
	}
}
