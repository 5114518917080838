package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"matchbook/internal/common"
	"matchbook/internal/ws"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	sessionID, userID := s.sessions.Login(req.Email, req.Password)
	balances, _ := s.gw.LedgerUser(userID)

	writeJSON(w, http.StatusOK, loginResponse{SessionID: sessionID, UserID: userID, Balances: balances})
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	order, trades, err := s.gw.PlaceOrder(userID, req.Symbol, req.PriceTick, req.Quantity, req.Side, req.TimeInForce)
	if err != nil {
		s.metrics.ObserveOrder(req.Symbol, "rejected", 0)
		writeError(w, statusFor(err), err.Error())
		return
	}

	s.metrics.ObserveOrder(req.Symbol, "accepted", len(trades))
	s.notifyFills(req.Symbol, trades)

	writeJSON(w, http.StatusCreated, placeOrderResponse{Order: order, Trades: trades})
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r)

	orderID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed order id")
		return
	}

	var req cancelOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if err := s.gw.CancelOrder(req.Symbol, orderID, req.PriceTick, req.Side); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	s.metrics.ObserveCancel(req.Symbol)
	s.notifyCancel(userID, orderID, req.Symbol)

	writeJSON(w, http.StatusOK, cancelOrderResponse{Success: true})
}

func (s *Server) handleGetDepth(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")

	levels := 100
	if raw := r.URL.Query().Get("levels"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 1000 {
			writeError(w, http.StatusBadRequest, "levels must be an integer in [1, 1000]")
			return
		}
		levels = parsed
	}

	bids, asks, err := s.gw.GetDepth(symbol, levels)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, depthResponse{Symbol: symbol, Bids: bids, Asks: asks})
}

func (s *Server) handleGetMarkets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, marketsFromConfig(s.markets))
}

// notifyFills pushes a trade_fill frame to both sides of every trade.
func (s *Server) notifyFills(symbol string, trades []common.Trade) {
	for _, t := range trades {
		takerMsg, _ := json.Marshal(ws.NewTradeFill(t, symbol, true))
		s.hub.Notify(t.TakerUserID, takerMsg)

		if t.IsSelfTrade() {
			continue
		}
		makerMsg, _ := json.Marshal(ws.NewTradeFill(t, symbol, false))
		s.hub.Notify(t.MakerUserID, makerMsg)
	}
}

func (s *Server) notifyCancel(userID string, orderID uint64, symbol string) {
	msg, _ := json.Marshal(ws.NewOrderCancelled(orderID, symbol, "user_requested"))
	s.hub.Notify(userID, msg)
}
