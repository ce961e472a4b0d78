package main

import (
	"sort"
	"sync"
)

// Session is the (username, room) state tied to one live connection.
type Session struct {
	ConnID   string
	Username string
	Room     string

	seq uint64 // insertion order, kept across re-joins
}

// Registry tracks live connections and their sessions, keyed by
// connection ID. Operations on unknown connections are no-ops.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	nextSeq  uint64
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Register creates the session for connID, or updates it in place on
// re-join so the connection keeps its spot in user listings.
func (r *Registry) Register(connID, username, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[connID]; ok {
		s.Username = username
		s.Room = room
		return
	}
	r.nextSeq++
	r.sessions[connID] = &Session{
		ConnID:   connID,
		Username: username,
		Room:     room,
		seq:      r.nextSeq,
	}
}

// Unregister removes and returns the session, or nil if never joined.
func (r *Registry) Unregister(connID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[connID]
	if !ok {
		return nil
	}
	delete(r.sessions, connID)
	return s
}

// Lookup returns a copy of the session, or nil if never joined.
func (r *Registry) Lookup(connID string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[connID]
	if !ok {
		return nil
	}
	cp := *s
	return &cp
}

func (r *Registry) SetRoom(connID, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[connID]; ok {
		s.Room = room
	}
}

// ListUsernames returns the display names of every session in the room,
// in join order.
func (r *Registry) ListUsernames(room string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		if s.Room == room {
			members = append(members, s)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].seq < members[j].seq })

	names := make([]string, len(members))
	for i, s := range members {
		names[i] = s.Username
	}
	return names
}
