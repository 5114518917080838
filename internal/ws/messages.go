package ws

import "matchbook/internal/common"

// AuthFrame is the first frame a client must send after connecting: §6
// "/notifications WebSocket: first client message is {sessionId}".
type AuthFrame struct {
	SessionID string `json:"sessionId"`
}

// ConnectionEstablished acknowledges a successful auth handshake.
type ConnectionEstablished struct {
	Type   string `json:"type"`
	UserID string `json:"user_id"`
}

// TradeFill is pushed to both sides of a trade as it settles.
type TradeFill struct {
	Type    string       `json:"type"`
	Trade   common.Trade `json:"trade"`
	Symbol  string       `json:"symbol"`
	IsTaker bool         `json:"is_taker"`
}

// OrderCancelled is pushed when a resting order is cancelled by its owner.
type OrderCancelled struct {
	Type    string `json:"type"`
	OrderID uint64 `json:"order_id"`
	Symbol  string `json:"symbol"`
	Reason  string `json:"reason"`
}

func newConnectionEstablished(userID string) ConnectionEstablished {
	return ConnectionEstablished{Type: "connection_established", UserID: userID}
}

// NewTradeFill builds a trade_fill notification for one side of trade.
func NewTradeFill(trade common.Trade, symbol string, isTaker bool) TradeFill {
	return TradeFill{Type: "trade_fill", Trade: trade, Symbol: symbol, IsTaker: isTaker}
}

// NewOrderCancelled builds an order_cancelled notification.
func NewOrderCancelled(orderID uint64, symbol, reason string) OrderCancelled {
	return OrderCancelled{Type: "order_cancelled", OrderID: orderID, Symbol: symbol, Reason: reason}
}
