package ledger

import "errors"

var (
	// ErrInsufficientFunds is returned when a debit would take a balance
	// below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrUnsupportedSymbol is returned for a symbol the ledger was never
	// told the base asset of.
	ErrUnsupportedSymbol = errors.New("unsupported symbol")
	// ErrUserNotFound is returned for an operation against an account that
	// has never authenticated.
	ErrUserNotFound = errors.New("user not found")
)
