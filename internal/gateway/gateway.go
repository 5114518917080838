// Package gateway is the glue layer (§4.5 "OrderGateway") that sequences
// fund debits, matching, settlement and refunds under a per-symbol mutual
// exclusion discipline, so the book's trade output is a transactional
// ledger rather than a bare matching result.
package gateway

import (
	"sync"

	"github.com/rs/zerolog"

	"matchbook/internal/common"
	"matchbook/internal/engine"
	"matchbook/internal/ledger"
)

// Gateway owns one OrderBook and one mutex per registered symbol, and the
// shared FundLedger. All mutation on a symbol happens with that symbol's
// mutex held for the entire request; across symbols there is no ordering
// guarantee, by design.
type Gateway struct {
	mu     sync.RWMutex
	books  map[string]*engine.OrderBook
	locks  map[string]*sync.Mutex
	ledger *ledger.Ledger
	log    zerolog.Logger
}

// New builds a gateway around a shared ledger.
func New(ldg *ledger.Ledger, log zerolog.Logger) *Gateway {
	return &Gateway{
		books:  make(map[string]*engine.OrderBook),
		locks:  make(map[string]*sync.Mutex),
		ledger: ldg,
		log:    log,
	}
}

// RegisterBook wires a symbol's order book and its ledger-facing base asset
// into the gateway. Intended to be called once at boot per configured
// market.
func (g *Gateway) RegisterBook(ob *engine.OrderBook, baseAsset string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.ledger.RegisterSymbol(ob.Symbol(), baseAsset)
	g.books[ob.Symbol()] = ob
	g.locks[ob.Symbol()] = &sync.Mutex{}
}

// Symbols lists every registered market symbol.
func (g *Gateway) Symbols() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	symbols := make([]string, 0, len(g.books))
	for s := range g.books {
		symbols = append(symbols, s)
	}
	return symbols
}

// LedgerUser exposes a user's ledger balances, creating the account with
// seed balances on first lookup (mirrors login-time account creation).
func (g *Gateway) LedgerUser(userID string) (ledger.User, bool) {
	return g.ledger.GetOrCreateUser(userID), true
}

// Book returns the registered order book for symbol, for read-only
// inspection (e.g. market metadata) outside of the critical section.
func (g *Gateway) Book(symbol string) (*engine.OrderBook, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ob, ok := g.books[symbol]
	return ob, ok
}

func (g *Gateway) lockFor(symbol string) (*sync.Mutex, *engine.OrderBook, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	lock, lockOK := g.locks[symbol]
	ob, bookOK := g.books[symbol]
	return lock, ob, lockOK && bookOK
}

// PlaceOrder validates, debits collateral, matches, settles every trade and
// refunds whatever never ends up resting, all under the symbol's lock.
//
// Refund policy (§9 open question, resolved): the gateway never tries to
// reconcile a partially-settled leg against the order's own limit price
// piecemeal. Instead it refunds, at the order's own price, exactly the
// quantity that does NOT end up resting on the book (policy (b) in the
// design notes) — covering a pure reject, an IOC/market leftover, and a
// fully-filled order uniformly, while leaving only a resting residual's
// collateral locked. Settlement moves the real economic value at each
// trade's price independently; this refund only releases the over-reserved
// difference from entry-time debit at the order's own (possibly worse)
// price. See DESIGN.md for the conservation argument.
//
// Self-trades are excluded from that uniform refund: SettleTrade's
// self-trade branch already reverses both legs' entry-time debits for the
// matched quantity directly (crediting the same user back instead of
// transferring to a counterparty), so counting that quantity again in
// nonResting would refund it twice — once via settlement's reversal, once
// via this refund.
func (g *Gateway) PlaceOrder(userID, symbol string, priceTick, quantity uint64, side common.Side, tif common.TimeInForce) (*common.Order, []common.Trade, error) {
	if quantity == 0 {
		return nil, nil, ErrInvalidQuantity
	}

	lock, ob, ok := g.lockFor(symbol)
	if !ok {
		return nil, nil, ErrUnknownSymbol
	}

	lock.Lock()
	defer lock.Unlock()

	tickMultiplier := ob.TickMultiplier()

	if err := g.ledger.DebitForOrder(userID, symbol, side, quantity, priceTick, tickMultiplier); err != nil {
		return nil, nil, err
	}

	order, trades := ob.AddOrder(userID, priceTick, quantity, side, tif)

	for _, trade := range trades {
		if err := g.ledger.SettleTrade(trade, symbol, side, tickMultiplier); err != nil {
			g.log.Error().
				Err(err).
				Uint64("tradeID", trade.ID).
				Str("symbol", symbol).
				Msg("settlement failed for a trade the book already executed")
		}
	}

	var restingResidual uint64
	if order != nil && order.Residual() > 0 && !order.IsMarket() {
		restingResidual = order.Residual()
	}

	var selfTradedQty uint64
	for _, trade := range trades {
		if trade.IsSelfTrade() {
			selfTradedQty += trade.Quantity
		}
	}

	nonResting := quantity - restingResidual
	if nonResting > selfTradedQty {
		nonResting -= selfTradedQty
	} else {
		nonResting = 0
	}
	if nonResting > 0 {
		if err := g.ledger.CreditBack(userID, symbol, side, nonResting, priceTick, tickMultiplier); err != nil {
			g.log.Error().Err(err).Str("symbol", symbol).Msg("refund failed after order placement")
		}
	}

	if order == nil && len(trades) == 0 {
		return nil, nil, ErrOrderRejected
	}
	return order, trades, nil
}

// CancelOrder cancels a resting order and refunds its residual collateral.
func (g *Gateway) CancelOrder(symbol string, orderID, priceTick uint64, side common.Side) error {
	lock, ob, ok := g.lockFor(symbol)
	if !ok {
		return ErrUnknownSymbol
	}

	lock.Lock()
	defer lock.Unlock()

	order, ok := ob.GetOrderByID(orderID)
	if !ok {
		return ErrOrderNotFound
	}

	if !ob.CancelOrder(orderID, priceTick, side) {
		return ErrOrderNotFound
	}

	if err := g.ledger.CreditBack(order.UserID, symbol, side, order.Residual(), priceTick, ob.TickMultiplier()); err != nil {
		g.log.Error().Err(err).Uint64("orderID", orderID).Msg("refund failed after cancellation")
	}
	return nil
}

// GetDepth reads the top-k levels of a symbol's book.
func (g *Gateway) GetDepth(symbol string, levels int) (bids, asks []engine.DepthLevel, err error) {
	lock, ob, ok := g.lockFor(symbol)
	if !ok {
		return nil, nil, ErrUnknownSymbol
	}
	lock.Lock()
	defer lock.Unlock()
	bids, asks = ob.GetDepth(levels)
	return bids, asks, nil
}
