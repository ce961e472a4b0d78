package main

import (
	"sync"
)

const historyLimit = 100

// Room groups the members of one broadcast domain together with its
// bounded message history.
type Room struct {
	name string

	mu      sync.RWMutex
	members map[string]*Client // connID → client
	history []Message
}

func NewRoom(name string) *Room {
	return &Room{
		name:    name,
		members: make(map[string]*Client),
	}
}

func (r *Room) Add(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[c.connID] = c
}

func (r *Room) Remove(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, connID)
}

func (r *Room) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

// Members returns a snapshot so callers never fan out while holding the
// room lock.
func (r *Room) Members() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Client, 0, len(r.members))
	for _, c := range r.members {
		out = append(out, c)
	}
	return out
}

// AppendHistory stores a copy of msg, evicting the oldest entry past
// the history limit.
func (r *Room) AppendHistory(msg Message) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.history = append(r.history, msg)
	if len(r.history) > historyLimit {
		r.history = append([]Message(nil), r.history[len(r.history)-historyLimit:]...)
	}
}

// History returns an oldest-first snapshot of the room's message log.
func (r *Room) History() []Message {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Message(nil), r.history...)
}

func (r *Room) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.members {
		c.Close()
	}
}

// RoomDirectory maps room names to rooms. Rooms are created lazily on
// first reference and never deleted; an empty room is just a name and
// two small slices.
type RoomDirectory struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewRoomDirectory() *RoomDirectory {
	return &RoomDirectory{rooms: make(map[string]*Room)}
}

func (d *RoomDirectory) GetOrCreate(name string) *Room {
	d.mu.RLock()
	room, ok := d.rooms[name]
	d.mu.RUnlock()
	if ok {
		return room
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if room, ok = d.rooms[name]; ok {
		return room
	}
	room = NewRoom(name)
	d.rooms[name] = room
	return room
}

func (d *RoomDirectory) AddMember(name string, c *Client) {
	d.GetOrCreate(name).Add(c)
}

func (d *RoomDirectory) RemoveMember(name, connID string) {
	d.mu.RLock()
	room, ok := d.rooms[name]
	d.mu.RUnlock()
	if ok {
		room.Remove(connID)
	}
}

func (d *RoomDirectory) AppendHistory(name string, msg Message) {
	d.GetOrCreate(name).AppendHistory(msg)
}

func (d *RoomDirectory) History(name string) []Message {
	d.mu.RLock()
	room, ok := d.rooms[name]
	d.mu.RUnlock()
	if !ok {
		return nil
	}
	return room.History()
}

func (d *RoomDirectory) CloseAll() {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, room := range d.rooms {
		room.CloseAll()
	}
}
