// Package ws is the §6 "/notifications" WebSocket fan-out: a per-user
// bounded broadcast with non-blocking, drop-on-full delivery, supervised by
// a tomb the way the teacher supervises its TCP accept loop.
package ws

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"gopkg.in/tomb.v2"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// sessionResolver is satisfied by *session.Store; kept as an interface so
// the hub doesn't import the session package's concrete type.
type sessionResolver interface {
	Resolve(sessionID string) (userID string, ok bool)
}

// Hub tracks every authenticated client, grouped by user id, and is the
// single writer of the clients map — all mutation goes through the
// register/unregister channels drained by run.
type Hub struct {
	sessions sessionResolver
	log      zerolog.Logger

	mu      sync.RWMutex
	byUser  map[string]map[*client]bool

	register   chan *client
	unregister chan *client

	t *tomb.Tomb
}

// New builds a hub bound to a session store for auth handshake lookups.
func New(sessions sessionResolver, log zerolog.Logger) *Hub {
	return &Hub{
		sessions:   sessions,
		log:        log,
		byUser:     make(map[string]map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

// Start launches the hub's supervising loop under t, mirroring the
// teacher's tomb.WithContext-driven accept loop.
func (h *Hub) Start(t *tomb.Tomb) {
	h.t = t
	t.Go(h.run)
}

func (h *Hub) run() error {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.byUser[c.userID] == nil {
				h.byUser[c.userID] = make(map[*client]bool)
			}
			h.byUser[c.userID][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.byUser[c.userID]; ok {
				if _, present := clients[c]; present {
					delete(clients, c)
					close(c.send)
					if len(clients) == 0 {
						delete(h.byUser, c.userID)
					}
				}
			}
			h.mu.Unlock()

		case <-h.t.Dying():
			h.closeAll()
			return nil
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID, clients := range h.byUser {
		for c := range clients {
			close(c.send)
		}
		delete(h.byUser, userID)
	}
}

func (h *Hub) resolveSession(sessionID string) (string, bool) {
	return h.sessions.Resolve(sessionID)
}

// Notify delivers message to every connection registered for userID,
// dropping it for any connection whose send buffer is full rather than
// blocking the caller (§5).
func (h *Hub) Notify(userID string, message []byte) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.byUser[userID]))
	for c := range h.byUser[userID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if !c.trySend(message) {
			h.log.Warn().Str("userID", userID).Msg("notification dropped, send buffer full")
		}
	}
}

// ServeWS upgrades an HTTP request to a WebSocket connection and spins up
// its read/write pumps. The connection is anonymous until authenticate
// succeeds inside readPump.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	c := newClient(h, conn)
	go c.writePump()
	go c.readPump()
}
