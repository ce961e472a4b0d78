package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoom_AddRemove(t *testing.T) {
	room := NewRoom("test-room")

	c1 := &Client{connID: "conn-1", send: make(chan []byte, 10)}
	c2 := &Client{connID: "conn-2", send: make(chan []byte, 10)}

	room.Add(c1)
	assert.Equal(t, 1, room.MemberCount())

	room.Add(c2)
	assert.Equal(t, 2, room.MemberCount())

	room.Remove("conn-1")
	assert.Equal(t, 1, room.MemberCount())

	room.Remove("conn-2")
	assert.Equal(t, 0, room.MemberCount())

	// Removing an unknown member is a no-op.
	room.Remove("conn-99")
	assert.Equal(t, 0, room.MemberCount())
}

func TestRoom_HistoryBound(t *testing.T) {
	room := NewRoom("test-room")

	for i := 0; i < 150; i++ {
		room.AppendHistory(newChatMessage("alice", fmt.Sprintf("m-%d", i), false))
	}

	history := room.History()
	require.Len(t, history, historyLimit)
	assert.Equal(t, "m-50", history[0].Text, "oldest entries should be evicted first")
	assert.Equal(t, "m-149", history[len(history)-1].Text)
}

func TestRoom_HistoryShortOfLimit(t *testing.T) {
	room := NewRoom("test-room")

	for i := 0; i < 3; i++ {
		room.AppendHistory(newChatMessage("alice", fmt.Sprintf("m-%d", i), false))
	}
	assert.Len(t, room.History(), 3)
}

func TestRoom_HistoryIsSnapshot(t *testing.T) {
	room := NewRoom("test-room")
	room.AppendHistory(newChatMessage("alice", "original", false))

	snap := room.History()
	snap[0].Text = "mutated"

	assert.Equal(t, "original", room.History()[0].Text)
}

func TestDirectory_GetOrCreate(t *testing.T) {
	dir := NewRoomDirectory()

	a := dir.GetOrCreate("lobby")
	b := dir.GetOrCreate("lobby")
	assert.Same(t, a, b, "same name must yield the same room")

	c := dir.GetOrCreate("other")
	assert.NotSame(t, a, c)
}

func TestDirectory_UnknownRoomOps(t *testing.T) {
	dir := NewRoomDirectory()

	// Neither may create a room as a side effect, and neither may panic.
	dir.RemoveMember("ghost", "conn-1")
	assert.Nil(t, dir.History("ghost"))
}

func TestDirectory_AddRemoveMember(t *testing.T) {
	dir := NewRoomDirectory()
	c := &Client{connID: "conn-1", send: make(chan []byte, 10)}

	dir.AddMember("lobby", c)
	assert.Equal(t, 1, dir.GetOrCreate("lobby").MemberCount())

	dir.RemoveMember("lobby", "conn-1")
	assert.Equal(t, 0, dir.GetOrCreate("lobby").MemberCount())
}
