package api

import (
	"matchbook/internal/common"
	"matchbook/internal/config"
	"matchbook/internal/engine"
	"matchbook/internal/ledger"
)

// placeOrderRequest is the §6 `POST /orders` body.
type placeOrderRequest struct {
	Symbol      string             `json:"symbol"`
	PriceTick   uint64             `json:"price_tick"`
	Quantity    uint64             `json:"quantity"`
	Side        common.Side        `json:"side"`
	TimeInForce common.TimeInForce `json:"time_in_force"`
}

// placeOrderResponse is the §6 `POST /orders` body: the accepted order (nil
// for an IOC order that left part of its quantity unfilled; a fully filled
// order is included with no residual) plus every trade it produced.
type placeOrderResponse struct {
	Order  *common.Order  `json:"order"`
	Trades []common.Trade `json:"trades"`
}

// cancelOrderRequest is the §6 `DELETE /orders/{id}` body.
type cancelOrderRequest struct {
	Symbol    string      `json:"symbol"`
	PriceTick uint64      `json:"price_tick"`
	Side      common.Side `json:"side"`
}

type cancelOrderResponse struct {
	Success bool `json:"success"`
}

// depthResponse is the §6 `GET /depth` body.
type depthResponse struct {
	Symbol string              `json:"symbol"`
	Bids   []engine.DepthLevel `json:"bids"`
	Asks   []engine.DepthLevel `json:"asks"`
}

// marketResponse is one entry of the §6 `GET /markets` body.
type marketResponse struct {
	Symbol         string `json:"symbol"`
	BaseAsset      string `json:"base_asset"`
	TickMultiplier uint64 `json:"tick_multiplier"`
}

func marketsFromConfig(markets []config.Market) []marketResponse {
	out := make([]marketResponse, 0, len(markets))
	for _, m := range markets {
		out = append(out, marketResponse{Symbol: m.Symbol, BaseAsset: m.BaseAsset, TickMultiplier: m.TickMultiplier})
	}
	return out
}

// loginRequest is the §6 `POST /login` body.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse echoes the seeded balances so a client can render an
// account view immediately after logging in.
type loginResponse struct {
	SessionID string      `json:"session_id"`
	UserID    string      `json:"user_id"`
	Balances  ledger.User `json:"balances"`
}

type errorResponse struct {
	Error string `json:"error"`
}
