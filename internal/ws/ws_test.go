package ws_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/tomb.v2"

	"matchbook/internal/ws"
)

type fakeSessions struct {
	valid map[string]string
}

func (f fakeSessions) Resolve(sessionID string) (string, bool) {
	userID, ok := f.valid[sessionID]
	return userID, ok
}

func newTestHub(t *testing.T, sessions fakeSessions) (*ws.Hub, *httptest.Server) {
	t.Helper()

	hub := ws.New(sessions, zerolog.Nop())

	mux := http.NewServeMux()
	mux.HandleFunc("/notifications", hub.ServeWS)
	srv := httptest.NewServer(mux)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	tb, _ := tomb.WithContext(ctx)
	hub.Start(tb)

	return hub, srv
}

func dial(t *testing.T, srvURL string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srvURL, "http") + "/notifications"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	return conn
}

func TestServeWS_ValidSessionGetsConnectionEstablished(t *testing.T) {
	sessions := fakeSessions{valid: map[string]string{"sess-1": "alice"}}
	_, srv := newTestHub(t, sessions)
	defer srv.Close()

	conn := dial(t, srv.URL)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(ws.AuthFrame{SessionID: "sess-1"}))

	var ack ws.ConnectionEstablished
	require.NoError(t, conn.ReadJSON(&ack))
	assert.Equal(t, "connection_established", ack.Type)
	assert.Equal(t, "alice", ack.UserID)
}

func TestServeWS_UnknownSessionClosesConnection(t *testing.T) {
	sessions := fakeSessions{valid: map[string]string{}}
	_, srv := newTestHub(t, sessions)
	defer srv.Close()

	conn := dial(t, srv.URL)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(ws.AuthFrame{SessionID: "unknown"}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestNotify_DeliversToAuthenticatedClient(t *testing.T) {
	sessions := fakeSessions{valid: map[string]string{"sess-1": "alice"}}
	hub, srv := newTestHub(t, sessions)
	defer srv.Close()

	conn := dial(t, srv.URL)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(ws.AuthFrame{SessionID: "sess-1"}))

	var ack ws.ConnectionEstablished
	require.NoError(t, conn.ReadJSON(&ack))

	time.Sleep(50 * time.Millisecond) // let the hub finish registering the client

	payload, _ := json.Marshal(ws.NewOrderCancelled(42, "BTC-USD", "user_requested"))
	hub.Notify("alice", payload)

	var decoded ws.OrderCancelled
	require.NoError(t, conn.ReadJSON(&decoded))
	assert.Equal(t, uint64(42), decoded.OrderID)
	assert.Equal(t, "user_requested", decoded.Reason)
}
