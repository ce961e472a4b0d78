package main

// Hub owns the process-wide chat state: the connection registry, the
// room directory and the AI bridge. Handlers run on each connection's
// read goroutine; the registry and directory serialize their own
// mutations, so concurrent events from different connections never race
// on a room's membership or history.
type Hub struct {
	cfg      *Config
	registry *Registry
	rooms    *RoomDirectory
	ai       *AIBridge
}

func NewHub(cfg *Config) *Hub {
	h := &Hub{
		cfg:      cfg,
		registry: NewRegistry(),
		rooms:    NewRoomDirectory(),
	}
	h.ai = newAIBridge(cfg, h)
	return h
}

// CloseAll shuts every client's send queue, unblocking write pumps on
// shutdown.
func (h *Hub) CloseAll() {
	h.rooms.CloseAll()
}
