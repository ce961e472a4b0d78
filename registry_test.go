package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterLookup(t *testing.T) {
	reg := NewRegistry()

	reg.Register("conn-1", "alice", "lobby")

	sess := reg.Lookup("conn-1")
	require.NotNil(t, sess)
	assert.Equal(t, "alice", sess.Username)
	assert.Equal(t, "lobby", sess.Room)

	assert.Nil(t, reg.Lookup("conn-2"))
}

func TestRegistry_Unregister(t *testing.T) {
	reg := NewRegistry()
	reg.Register("conn-1", "alice", "lobby")

	sess := reg.Unregister("conn-1")
	require.NotNil(t, sess)
	assert.Equal(t, "alice", sess.Username)

	assert.Nil(t, reg.Unregister("conn-1"), "second unregister is a no-op")
	assert.Nil(t, reg.Lookup("conn-1"))
}

func TestRegistry_SetRoom(t *testing.T) {
	reg := NewRegistry()
	reg.Register("conn-1", "alice", "lobby")

	reg.SetRoom("conn-1", "dev")
	assert.Equal(t, "dev", reg.Lookup("conn-1").Room)

	// Unknown connection: no-op, no crash.
	reg.SetRoom("conn-9", "dev")
}

func TestRegistry_ListUsernames_InsertionOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Register("conn-1", "alice", "lobby")
	reg.Register("conn-2", "bob", "lobby")
	reg.Register("conn-3", "carol", "dev")
	reg.Register("conn-4", "dave", "lobby")

	assert.Equal(t, []string{"alice", "bob", "dave"}, reg.ListUsernames("lobby"))
	assert.Equal(t, []string{"carol"}, reg.ListUsernames("dev"))
	assert.Empty(t, reg.ListUsernames("ghost"))
}

func TestRegistry_ReRegisterKeepsOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Register("conn-1", "alice", "lobby")
	reg.Register("conn-2", "bob", "lobby")

	// alice re-joins under a new name; she keeps her listing position.
	reg.Register("conn-1", "alice2", "lobby")
	assert.Equal(t, []string{"alice2", "bob"}, reg.ListUsernames("lobby"))
}
