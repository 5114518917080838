package api

import (
	"errors"
	"net/http"

	"matchbook/internal/gateway"
	"matchbook/internal/ledger"
)

// statusFor maps the §7 error taxonomy onto HTTP status codes. Anything not
// recognised is treated as an internal error: the gateway already turns
// SettlementError into a logged side effect rather than a return value, so
// by the time an error reaches here it is always local-recoverable.
func statusFor(err error) int {
	switch {
	case errors.Is(err, gateway.ErrInvalidQuantity),
		errors.Is(err, gateway.ErrUnknownSymbol),
		errors.Is(err, gateway.ErrOrderRejected),
		errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrUnsupportedSymbol):
		return http.StatusBadRequest
	case errors.Is(err, gateway.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrUserNotFound):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
