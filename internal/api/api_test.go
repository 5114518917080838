package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchbook/internal/api"
	"matchbook/internal/config"
	"matchbook/internal/engine"
	"matchbook/internal/gateway"
	"matchbook/internal/ledger"
	"matchbook/internal/metrics"
	"matchbook/internal/session"
	"matchbook/internal/ws"
)

func newTestServer(t *testing.T) (*httptest.Server, *session.Store) {
	t.Helper()

	ldg := ledger.New(100000, 100)
	gw := gateway.New(ldg, zerolog.Nop())
	gw.RegisterBook(engine.New("BTC-USD", 100), "BTC")

	sessions := session.New()
	hub := ws.New(sessions, zerolog.Nop())
	mc := metrics.New()
	markets := []config.Market{{Symbol: "BTC-USD", BaseAsset: "BTC", TickMultiplier: 100}}

	srv := api.New(gw, sessions, hub, mc, markets, zerolog.Nop())
	return httptest.NewServer(srv.Router()), sessions
}

func login(t *testing.T, base string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"email": "alice@example.com", "password": "hunter2"})
	resp, err := http.Post(base+"/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decoded struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return decoded.SessionID
}

func doJSON(t *testing.T, method, url, bearer string, body interface{}) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestLogin_ReturnsSeedBalances(t *testing.T) {
	ts, _ := newTestServer(t)
	defer ts.Close()

	body, _ := json.Marshal(map[string]string{"email": "alice@example.com", "password": "hunter2"})
	resp, err := http.Post(ts.URL+"/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var decoded struct {
		SessionID string      `json:"session_id"`
		UserID    string      `json:"user_id"`
		Balances  ledger.User `json:"balances"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	assert.NotEmpty(t, decoded.SessionID)
	assert.Equal(t, "alice@example.com", decoded.UserID)
	assert.Equal(t, int64(100000*1_000_000), decoded.Balances.USDMicros)
}

func TestPlaceOrder_RequiresAuth(t *testing.T) {
	ts, _ := newTestServer(t)
	defer ts.Close()

	resp := doJSON(t, http.MethodPost, ts.URL+"/orders", "", map[string]interface{}{
		"symbol": "BTC-USD", "price_tick": 10000, "quantity": 10, "side": "Bid", "time_in_force": "GTC",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPlaceOrder_RestsThenAppearsInDepth(t *testing.T) {
	ts, _ := newTestServer(t)
	defer ts.Close()

	token := login(t, ts.URL)

	resp := doJSON(t, http.MethodPost, ts.URL+"/orders", token, map[string]interface{}{
		"symbol": "BTC-USD", "price_tick": 10000, "quantity": 10, "side": "Bid", "time_in_force": "GTC",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	depthResp, err := http.Get(ts.URL + "/depth?symbol=BTC-USD")
	require.NoError(t, err)
	defer depthResp.Body.Close()

	var decoded struct {
		Bids []struct {
			PriceTick uint64 `json:"price_tick"`
			Quantity  uint64 `json:"quantity"`
		} `json:"bids"`
	}
	require.NoError(t, json.NewDecoder(depthResp.Body).Decode(&decoded))
	require.Len(t, decoded.Bids, 1)
	assert.Equal(t, uint64(10000), decoded.Bids[0].PriceTick)
	assert.Equal(t, uint64(10), decoded.Bids[0].Quantity)
}

func TestGetMarkets_ListsConfiguredSymbols(t *testing.T) {
	ts, _ := newTestServer(t)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/markets")
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded []struct {
		Symbol         string `json:"symbol"`
		TickMultiplier uint64 `json:"tick_multiplier"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "BTC-USD", decoded[0].Symbol)
}

func TestCancelOrder_UnknownIDReturns404(t *testing.T) {
	ts, _ := newTestServer(t)
	defer ts.Close()

	token := login(t, ts.URL)

	resp := doJSON(t, http.MethodDelete, ts.URL+"/orders/999", token, map[string]interface{}{
		"symbol": "BTC-USD", "price_tick": 10000, "side": "Bid",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
