// Package ledger maintains in-memory per-user fund balances and the
// debit/credit/settle protocol that keeps them a transactional ledger of
// the order book's trade output.
package ledger

import (
	"sync"

	"matchbook/internal/common"
)

// User is a snapshot of one account's balances. Values handed to callers
// are copies.
type User struct {
	ID         string           `json:"id"`
	USDMicros  int64            `json:"usd_micros"`
	BaseMicros map[string]int64 `json:"base_micros"`
}

func (u User) copy() User {
	cp := User{ID: u.ID, USDMicros: u.USDMicros, BaseMicros: make(map[string]int64, len(u.BaseMicros))}
	for asset, amt := range u.BaseMicros {
		cp.BaseMicros[asset] = amt
	}
	return cp
}

// Ledger is the exchange-wide fund ledger. One instance is shared by every
// symbol's gateway; its own mutex protects the user map, since the USD
// asset is touched by every symbol's order flow and the per-symbol book
// locks give no ordering guarantee across symbols.
type Ledger struct {
	mu             sync.Mutex
	users          map[string]*User
	assetsBySymbol map[string]string // symbol -> base asset name
	seedUSDMicros  int64
	seedBaseMicros int64
}

// New builds a ledger that seeds every newly-authenticated user with
// seedUSD (native units) of USD and seedBase (native units) of each
// registered symbol's base asset.
func New(seedUSD, seedBase float64) *Ledger {
	return &Ledger{
		users:          make(map[string]*User),
		assetsBySymbol: make(map[string]string),
		seedUSDMicros:  int64(seedUSD * microsPerUnit),
		seedBaseMicros: int64(seedBase * microsPerUnit),
	}
}

// RegisterSymbol tells the ledger which base asset a symbol settles in, so
// debit/credit/settle calls for that symbol know which balance to touch.
func (l *Ledger) RegisterSymbol(symbol, baseAsset string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.assetsBySymbol[symbol] = baseAsset
}

func (l *Ledger) baseAsset(symbol string) (string, bool) {
	asset, ok := l.assetsBySymbol[symbol]
	return asset, ok
}

// GetOrCreateUser returns the user's balances, seeding a fresh account on
// first authentication.
func (l *Ledger) GetOrCreateUser(userID string) User {
	l.mu.Lock()
	defer l.mu.Unlock()

	u, ok := l.users[userID]
	if !ok {
		u = &User{ID: userID, USDMicros: l.seedUSDMicros, BaseMicros: make(map[string]int64)}
		for _, asset := range l.assetsBySymbol {
			u.BaseMicros[asset] = l.seedBaseMicros
		}
		l.users[userID] = u
	}
	return u.copy()
}

// GetUser looks up a user's balances without creating one.
func (l *Ledger) GetUser(userID string) (User, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	u, ok := l.users[userID]
	if !ok {
		return User{}, false
	}
	return u.copy(), true
}

// DebitForOrder reserves collateral for a new order: USD for a bid, the
// symbol's base asset for an ask. It fails with ErrInsufficientFunds
// without mutating anything if the balance is too low.
func (l *Ledger) DebitForOrder(userID, symbol string, side common.Side, quantityTicks, priceTick, tickMultiplier uint64) error {
	asset, ok := l.baseAsset(symbol)
	if !ok {
		return ErrUnsupportedSymbol
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	u, ok := l.users[userID]
	if !ok {
		return ErrUserNotFound
	}

	switch side {
	case common.Bid:
		cost := costMicros(quantityTicks, priceTick, tickMultiplier)
		if u.USDMicros < cost {
			return ErrInsufficientFunds
		}
		u.USDMicros -= cost
	case common.Ask:
		amt := baseMicros(quantityTicks, tickMultiplier)
		if u.BaseMicros[asset] < amt {
			return ErrInsufficientFunds
		}
		u.BaseMicros[asset] -= amt
	}
	return nil
}

// CreditBack is the inverse of DebitForOrder, used when the book rejects an
// order outright and its collateral must be returned in full.
func (l *Ledger) CreditBack(userID, symbol string, side common.Side, quantityTicks, priceTick, tickMultiplier uint64) error {
	return l.credit(userID, symbol, side, quantityTicks, priceTick, tickMultiplier)
}

// PartialFillRefund refunds the leg of an order that never rested: the
// portion of a fully-filled or IOC-cancelled order that did not trade.
// Mechanically identical to CreditBack. The gateway does not call it: its
// post-placement and cancellation refunds both go through CreditBack.
func (l *Ledger) PartialFillRefund(userID, symbol string, side common.Side, unfilledTicks, priceTick, tickMultiplier uint64) error {
	return l.credit(userID, symbol, side, unfilledTicks, priceTick, tickMultiplier)
}

func (l *Ledger) credit(userID, symbol string, side common.Side, quantityTicks, priceTick, tickMultiplier uint64) error {
	asset, ok := l.baseAsset(symbol)
	if !ok {
		return ErrUnsupportedSymbol
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	u, ok := l.users[userID]
	if !ok {
		return ErrUserNotFound
	}

	switch side {
	case common.Bid:
		u.USDMicros += costMicros(quantityTicks, priceTick, tickMultiplier)
	case common.Ask:
		u.BaseMicros[asset] += baseMicros(quantityTicks, tickMultiplier)
	}
	return nil
}

// SettleTrade moves assets between taker and maker for one executed trade.
// takerSide is the side of the order that triggered the match. A
// self-trade (taker and maker are the same user) is a wash: both legs
// debited at entry for the traded quantity are simply credited back,
// rather than transferred to avoid double-debiting the same account.
func (l *Ledger) SettleTrade(trade common.Trade, symbol string, takerSide common.Side, tickMultiplier uint64) error {
	asset, ok := l.baseAsset(symbol)
	if !ok {
		return ErrUnsupportedSymbol
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	taker, ok := l.users[trade.TakerUserID]
	if !ok {
		return ErrUserNotFound
	}
	maker, ok := l.users[trade.MakerUserID]
	if !ok {
		return ErrUserNotFound
	}

	cost := costMicros(trade.Quantity, trade.PriceTick, tickMultiplier)
	baseAmt := baseMicros(trade.Quantity, tickMultiplier)

	if trade.IsSelfTrade() {
		taker.BaseMicros[asset] += baseAmt
		taker.USDMicros += cost
		return nil
	}

	if takerSide == common.Bid {
		taker.BaseMicros[asset] += baseAmt
		taker.USDMicros -= cost
		maker.BaseMicros[asset] -= baseAmt
		maker.USDMicros += cost
	} else {
		taker.USDMicros += cost
		taker.BaseMicros[asset] -= baseAmt
		maker.USDMicros -= cost
		maker.BaseMicros[asset] += baseAmt
	}
	return nil
}
