package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/pmcoe-ai1/conference-app/pkg/identity"
)

// Client is one WebSocket connection. closed and rooms are guarded by the
// hub's mutex.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	identity *identity.Identity
	rooms    map[uint]bool
	closed   bool
}

func newClient(h *Hub, conn *websocket.Conn, id *identity.Identity) *Client {
	return &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		identity: id,
		rooms:    make(map[uint]bool),
	}
}

// offer queues msg without blocking. Caller holds the hub read lock.
func (c *Client) offer(msg []byte) bool {
	if c.closed {
		return true
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.drop(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("subject", c.identity.Subject()).Msg("websocket closed unexpectedly")
			}
			return
		}
		c.handle(data)
	}
}

func (c *Client) handle(data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		c.hub.reply(c, EventError, errorData{Message: "malformed message"})
		return
	}

	switch msg.Event {
	case EventJoinConference, EventLeaveConference:
		var req roomRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil || req.ConferenceID == 0 {
			c.hub.reply(c, EventError, errorData{Message: "conferenceId is required"})
			return
		}
		if msg.Event == EventLeaveConference {
			c.hub.leave(c, req.ConferenceID)
			c.hub.reply(c, EventLeft, req)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()
		if err := c.hub.join(ctx, c.identity, req.ConferenceID); err != nil {
			c.hub.reply(c, EventError, errorData{Message: joinError(err)})
			return
		}
		c.hub.enter(c, req.ConferenceID)
		c.hub.reply(c, EventJoined, req)
	default:
		c.hub.reply(c, EventError, errorData{Message: "unknown event " + msg.Event})
	}
}

// ErrJoinDenied is returned by a JoinFunc when the caller may not watch a conference
var ErrJoinDenied = errors.New("not allowed to join this conference")

func joinError(err error) string {
	if errors.Is(err, ErrJoinDenied) {
		return ErrJoinDenied.Error()
	}
	log.Error().Err(err).Msg("websocket join check failed")
	return "failed to join conference"
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
