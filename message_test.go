package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "alice", normalizeUsername("  alice  "))
	assert.Equal(t, "", normalizeUsername("    "))
	// The cap applies before trimming, so padding cannot extend it.
	assert.Equal(t, strings.Repeat("a", 20), normalizeUsername(strings.Repeat("a", 25)))
	assert.Equal(t, "abc", normalizeUsername("   abc"+strings.Repeat(" ", 30)))
}

func TestNormalizeRoom(t *testing.T) {
	assert.Equal(t, "dev", normalizeRoom(" dev "))
	assert.Equal(t, defaultRoom, normalizeRoom(""))
	assert.Equal(t, defaultRoom, normalizeRoom("   "))
	assert.Equal(t, strings.Repeat("r", 30), normalizeRoom(strings.Repeat("r", 40)))
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "hi", normalizeText("  hi  "))
	assert.Equal(t, "", normalizeText("   "))
	assert.Len(t, normalizeText(strings.Repeat("x", 501)), 500)
}

func TestTruncateRunes_MultiByte(t *testing.T) {
	// Truncation counts characters, not bytes.
	assert.Equal(t, "ééé", truncateRunes("ééééé", 3))
	assert.Equal(t, "ab", truncateRunes("ab", 5))
}

func TestNewChatMessage(t *testing.T) {
	msg := newChatMessage("alice", "hi", false)
	assert.Equal(t, "message", msg.Type)
	assert.Equal(t, "alice", msg.Username)
	assert.False(t, msg.IsAI)

	ts, err := time.Parse(time.RFC3339, msg.Timestamp)
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), ts, time.Minute)
}
