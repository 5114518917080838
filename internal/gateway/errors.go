package gateway

import "errors"

var (
	// ErrInvalidQuantity is a ValidationError: zero quantity.
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	// ErrUnknownSymbol is a ValidationError: no book registered for symbol.
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrOrderRejected is an OrderRejected: FOK infeasible, IOC/market with
	// no liquidity, or a limit order that could not be placed.
	ErrOrderRejected = errors.New("order rejected")
	// ErrOrderNotFound is a NotFound: cancellation target missing or
	// already terminal.
	ErrOrderNotFound = errors.New("order not found")
)
