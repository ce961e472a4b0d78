package main

import (
	"encoding/json"

	log "github.com/sirupsen/logrus"
)

// Broadcast fans event out to every member of the room except exclude.
// Delivery is an enqueue onto each member's buffered send channel; a
// member whose buffer is full just misses the frame. That connection is
// presumed dead and is reaped by its own disconnect path — broadcast
// never evicts members and never fails.
func (h *Hub) Broadcast(room string, event any, exclude *Client) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Errorf("marshal broadcast for #%s: %v", room, err)
		return
	}

	for _, c := range h.rooms.GetOrCreate(room).Members() {
		if c == exclude {
			continue
		}
		c.enqueue(data)
	}
	metricBroadcasts.Inc()
}

// SendTo delivers event to a single connection, swallowing failure.
func (h *Hub) SendTo(c *Client, event any) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Errorf("marshal send to %s: %v", c.connID, err)
		return
	}
	c.enqueue(data)
}
