package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64

	// authTimeout bounds how long a connection may sit unauthenticated
	// before it's closed (§6's implicit auth handshake).
	authTimeout = 10 * time.Second
)

// client is one WebSocket connection. It is anonymous (userID empty) until
// its first frame authenticates it.
type client struct {
	id     uuid.UUID
	userID string
	conn   *websocket.Conn
	send   chan []byte
	hub    *Hub
}

func newClient(hub *Hub, conn *websocket.Conn) *client {
	return &client{
		id:   uuid.New(),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		hub:  hub,
	}
}

// readPump blocks on the auth handshake, then just drains the socket to
// notice disconnects and pongs; this is a push-only notification channel,
// so nothing past the handshake needs interpreting.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)

	if !c.authenticate() {
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) authenticate() bool {
	_ = c.conn.SetReadDeadline(time.Now().Add(authTimeout))

	_, raw, err := c.conn.ReadMessage()
	if err != nil {
		return false
	}

	var frame AuthFrame
	if err := json.Unmarshal(raw, &frame); err != nil || frame.SessionID == "" {
		return false
	}

	userID, ok := c.hub.resolveSession(frame.SessionID)
	if !ok {
		return false
	}

	c.userID = userID
	c.hub.register <- c

	ack, _ := json.Marshal(newConnectionEstablished(userID))
	c.send <- ack
	return true
}

// writePump drains queued notifications to the socket and keeps the
// connection alive with periodic pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

// trySend is the non-blocking, drop-on-full delivery §5 requires for
// per-user notification fan-out.
func (c *client) trySend(message []byte) bool {
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}
