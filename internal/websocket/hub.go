package websocket

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Hub fans battle events out to spectator connections. Clients are
// read-only viewers; all state mutation happens over HTTP, so the hub only
// ever broadcasts.
type Hub struct {
	battles    map[uuid.UUID]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan outbound
	stop       chan struct{}
	done       chan struct{}
	stopped    bool
	log        zerolog.Logger
	mu         sync.RWMutex
}

type outbound struct {
	battleID uuid.UUID
	data     []byte
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		battles:    make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan outbound, 64),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		log:        log,
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for _, clients := range h.battles {
				for client := range clients {
					client.Close()
				}
			}
			h.battles = make(map[uuid.UUID]map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if !h.stopped {
				clients, ok := h.battles[client.battleID]
				if !ok {
					clients = make(map[*Client]bool)
					h.battles[client.battleID] = clients
				}
				clients[client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if !h.stopped {
				if clients, ok := h.battles[client.battleID]; ok {
					if _, ok := clients[client]; ok {
						delete(clients, client)
						client.Close()
						if len(clients) == 0 {
							delete(h.battles, client.battleID)
						}
					}
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			for client := range h.battles[msg.battleID] {
				select {
				case client.send <- msg.data:
				default:
					// Slow consumer; drop the event rather than block the hub.
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Stop shuts down the hub and closes all spectator connections. Blocks
// until Run has exited.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	close(h.stop)
	<-h.done
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()
	if stopped {
		return
	}

	select {
	case h.unregister <- client:
	default:
		// Hub stopped between check and send - that's ok
	}
}

// Broadcast pushes an event to every spectator of the battle.
func (h *Hub) Broadcast(battleID uuid.UUID, eventType string, payload any) {
	data, err := newEvent(eventType, payload)
	if err != nil {
		h.log.Error().Err(err).Str("event", eventType).Msg("failed to encode event")
		return
	}

	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()
	if stopped {
		return
	}

	select {
	case h.broadcast <- outbound{battleID: battleID, data: data}:
	default:
		h.log.Warn().Str("event", eventType).Msg("broadcast queue full, dropping event")
	}
}
