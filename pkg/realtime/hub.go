package realtime

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/pmcoe-ai1/conference-app/pkg/identity"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

// JoinFunc decides whether id may join the room of a conference
type JoinFunc func(ctx context.Context, id *identity.Identity, conferenceID uint) error

// Hub keeps WebSocket clients in rooms keyed by conference id and fans
// events out to them. Broadcasting never blocks: a client whose send buffer
// is full is disconnected.
type Hub struct {
	mu       sync.RWMutex
	rooms    map[uint]map[*Client]struct{}
	clients  map[*Client]struct{}
	join     JoinFunc
	upgrader websocket.Upgrader
}

// NewHub creates a hub. allowedOrigins limits the Origin header of upgrade
// requests; an empty list accepts any origin.
func NewHub(join JoinFunc, allowedOrigins []string) *Hub {
	h := &Hub{
		rooms:   make(map[uint]map[*Client]struct{}),
		clients: make(map[*Client]struct{}),
		join:    join,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}

// Serve upgrades the request and runs the client until it disconnects
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, id *identity.Identity) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error
		log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := newClient(h, conn, id)
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	log.Debug().Str("subject", id.Subject()).Msg("websocket connected")
	go c.writePump()
	c.readPump()
}

// Broadcast sends event to every client in the conference room
func (h *Hub) Broadcast(conferenceID uint, event string, data interface{}) {
	h.broadcast(conferenceID, event, data, nil)
}

// BroadcastAdmins sends event to the organizers in the conference room only.
// Attendees share the room but never see other attendees' answers.
func (h *Hub) BroadcastAdmins(conferenceID uint, event string, data interface{}) {
	h.broadcast(conferenceID, event, data, (*identity.Identity).IsAdmin)
}

func (h *Hub) broadcast(conferenceID uint, event string, data interface{}, allow func(*identity.Identity) bool) {
	msg, err := encode(event, data)
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("failed to encode websocket event")
		return
	}

	var slow []*Client
	h.mu.RLock()
	for c := range h.rooms[conferenceID] {
		if allow != nil && !allow(c.identity) {
			continue
		}
		if !c.offer(msg) {
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		log.Warn().Str("subject", c.identity.Subject()).Uint("conference_id", conferenceID).Msg("dropping slow websocket client")
		h.drop(c)
	}
}

// RoomSize returns the number of clients in a conference room
func (h *Hub) RoomSize(conferenceID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[conferenceID])
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.drop(c)
	}
}

func (h *Hub) enter(c *Client, conferenceID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.closed {
		return
	}
	room, ok := h.rooms[conferenceID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[conferenceID] = room
	}
	room[c] = struct{}{}
	c.rooms[conferenceID] = true
}

func (h *Hub) leave(c *Client, conferenceID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeFromRoom(c, conferenceID)
}

func (h *Hub) removeFromRoom(c *Client, conferenceID uint) {
	if room, ok := h.rooms[conferenceID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, conferenceID)
		}
	}
	delete(c.rooms, conferenceID)
}

// drop removes c from every room and closes its send channel, which makes
// the write pump close the connection.
func (h *Hub) drop(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c.closed {
		return
	}
	for id := range c.rooms {
		h.removeFromRoom(c, id)
	}
	delete(h.clients, c)
	c.closed = true
	close(c.send)
}

// reply sends a message to one client
func (h *Hub) reply(c *Client, event string, data interface{}) {
	msg, err := encode(event, data)
	if err != nil {
		return
	}
	h.mu.RLock()
	ok := c.offer(msg)
	h.mu.RUnlock()
	if !ok {
		h.drop(c)
	}
}
