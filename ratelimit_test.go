package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(10)

	assert.True(t, rl.Allow("1.2.3.4"), "first request should pass")
	assert.True(t, rl.Allow("5.6.7.8"), "independent IPs get independent buckets")
}

func TestRateLimiter_Burst(t *testing.T) {
	rl := NewRateLimiter(5) // burst = 10

	allowed := 0
	for i := 0; i < 20; i++ {
		if rl.Allow("10.0.0.1") {
			allowed++
		}
	}

	assert.GreaterOrEqual(t, allowed, 5, "the burst should pass")
	assert.Less(t, allowed, 20, "sustained flooding should be throttled")
}
