// Package common holds the value objects shared by the book, ledger and
// gateway layers: orders, trades and the small enums that describe them.
package common

import (
	"fmt"
)

// Side is which side of the book an order sits on.
type Side int

const (
	Bid Side = iota
	Ask
)

func (s Side) String() string {
	if s == Bid {
		return "Bid"
	}
	return "Ask"
}

// MarshalText renders Side the way §6's JSON contract names it ("Bid"/"Ask")
// rather than as a bare integer.
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses the §6 wire values back into a Side.
func (s *Side) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Bid":
		*s = Bid
	case "Ask":
		*s = Ask
	default:
		return fmt.Errorf("common: unknown side %q", text)
	}
	return nil
}

// TimeInForce selects how an order behaves when it cannot fully match.
type TimeInForce int

const (
	GTC TimeInForce = iota // good-til-cancelled: rests until filled or cancelled
	IOC                    // immediate-or-cancel: takes what's there, discards the rest
	FOK                    // fill-or-kill: all-or-nothing, atomic
)

func (tif TimeInForce) String() string {
	switch tif {
	case GTC:
		return "GTC"
	case IOC:
		return "IOC"
	case FOK:
		return "FOK"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders TimeInForce as its §6 wire name.
func (tif TimeInForce) MarshalText() ([]byte, error) {
	return []byte(tif.String()), nil
}

// UnmarshalText parses a §6 wire value back into a TimeInForce.
func (tif *TimeInForce) UnmarshalText(text []byte) error {
	switch string(text) {
	case "GTC":
		*tif = GTC
	case "IOC":
		*tif = IOC
	case "FOK":
		*tif = FOK
	default:
		return fmt.Errorf("common: unknown time_in_force %q", text)
	}
	return nil
}

// MarketPriceTick is the reserved price_tick value meaning "market order".
// It is never stored at any resting price level.
const MarketPriceTick uint64 = 0

// Order is a single resting or taken order. Price and quantity are in
// integer ticks of the owning OrderBook's tick multiplier.
type Order struct {
	ID             uint64      `json:"id"`
	UserID         string      `json:"user_id"`
	PriceTick      uint64      `json:"price_tick"`
	Quantity       uint64      `json:"quantity"`
	QuantityFilled uint64      `json:"quantity_filled"`
	Side           Side        `json:"side"`
	TimeInForce    TimeInForce `json:"time_in_force"`
	Timestamp      int64       `json:"timestamp"` // unix milliseconds at intake
	IsCancelled    bool        `json:"is_cancelled"`
}

// IsMarket reports whether this order was submitted with no limit price.
func (o Order) IsMarket() bool {
	return o.PriceTick == MarketPriceTick
}

// Residual is the quantity left to fill. It never reflects cancelled state;
// callers must check IsCancelled separately.
func (o Order) Residual() uint64 {
	return o.Quantity - o.QuantityFilled
}

func (o Order) String() string {
	return fmt.Sprintf(
		"Order{id=%d user=%s side=%s tif=%s price=%d qty=%d/%d cancelled=%v}",
		o.ID, o.UserID, o.Side, o.TimeInForce, o.PriceTick, o.QuantityFilled, o.Quantity, o.IsCancelled,
	)
}
