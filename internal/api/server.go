// Package api is the HTTP transport edge of §6: it owns no matching or
// ledger state itself, only routes requests into the gateway/session/ws
// layers and translates their results to the wire contracts §6 specifies.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"matchbook/internal/config"
	"matchbook/internal/gateway"
	"matchbook/internal/metrics"
	"matchbook/internal/session"
	"matchbook/internal/ws"
)

// Server wires the gateway, session store, notification hub and metrics
// collector behind the §6 HTTP/WebSocket surface.
type Server struct {
	gw       *gateway.Gateway
	sessions *session.Store
	hub      *ws.Hub
	metrics  *metrics.Collector
	markets  []config.Market
	log      zerolog.Logger
}

// New builds a Server. The caller is responsible for starting hub's
// supervising tomb before traffic arrives.
func New(gw *gateway.Gateway, sessions *session.Store, hub *ws.Hub, mc *metrics.Collector, markets []config.Market, log zerolog.Logger) *Server {
	return &Server{gw: gw, sessions: sessions, hub: hub, metrics: mc, markets: markets, log: log}
}

// Router builds the gorilla/mux router for the full §6 surface.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/orders", s.requireAuth(s.handlePlaceOrder)).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id}", s.requireAuth(s.handleCancelOrder)).Methods(http.MethodDelete)
	r.HandleFunc("/depth", s.handleGetDepth).Methods(http.MethodGet)
	r.HandleFunc("/markets", s.handleGetMarkets).Methods(http.MethodGet)
	r.HandleFunc("/notifications", s.hub.ServeWS)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	return r
}
