// Package engine holds the per-symbol order-book matching core: intake,
// the three time-in-force policies, matching, cancellation and depth.
//
// An OrderBook is not internally synchronised. Callers (the gateway) are
// expected to serialize all access to one symbol's book behind a single
// mutex, per the concurrency model of the system this engine belongs to.
package engine

import (
	"time"

	"matchbook/internal/book"
	"matchbook/internal/common"
)

// restingRef lets CancelOrder and GetOrderByID locate a currently-resting
// order in O(1) without scanning every level.
type restingRef struct {
	order     *common.Order
	side      common.Side
	priceTick uint64
}

// DepthLevel is one reported (price, quantity) pair from GetDepth.
type DepthLevel struct {
	PriceTick uint64 `json:"price_tick"`
	Quantity  uint64 `json:"quantity"`
}

// OrderBook is the matching engine for a single trading symbol.
type OrderBook struct {
	symbol         string
	tickMultiplier uint64

	bids *book.BookSide
	asks *book.BookSide

	orderIDCounter uint64
	tradeIDCounter uint64
	totalOrders    uint64

	ordersByID map[uint64]*restingRef
}

// New creates an empty order book for symbol, scaling native prices and
// quantities to integer ticks via tickMultiplier.
func New(symbol string, tickMultiplier uint64) *OrderBook {
	return &OrderBook{
		symbol:         symbol,
		tickMultiplier: tickMultiplier,
		bids:           book.NewBookSide(true),
		asks:           book.NewBookSide(false),
		ordersByID:     make(map[uint64]*restingRef),
	}
}

func (ob *OrderBook) Symbol() string         { return ob.symbol }
func (ob *OrderBook) TickMultiplier() uint64 { return ob.tickMultiplier }
func (ob *OrderBook) TotalOrders() uint64    { return ob.totalOrders }

func (ob *OrderBook) BestBidTick() (uint64, bool) { return ob.bids.BestTick() }
func (ob *OrderBook) BestAskTick() (uint64, bool) { return ob.asks.BestTick() }

func (ob *OrderBook) sideBook(side common.Side) *book.BookSide {
	if side == common.Bid {
		return ob.bids
	}
	return ob.asks
}

func (ob *OrderBook) oppositeBook(side common.Side) *book.BookSide {
	if side == common.Bid {
		return ob.asks
	}
	return ob.bids
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// AddOrder submits a new order for matching. The core assumes quantity > 0;
// callers validate that at the gateway boundary. It returns the order and
// the trades produced, following the disposition table in the matching
// core's specification. A fully filled order is returned with no residual;
// the order is nil for an outright reject and for an IOC order that left
// part of its quantity unfilled.
func (ob *OrderBook) AddOrder(userID string, priceTick uint64, quantity uint64, side common.Side, tif common.TimeInForce) (*common.Order, []common.Trade) {
	order := &common.Order{
		ID:          ob.orderIDCounter,
		UserID:      userID,
		PriceTick:   priceTick,
		Quantity:    quantity,
		Side:        side,
		TimeInForce: tif,
		Timestamp:   nowMillis(),
	}
	ob.orderIDCounter++

	opposite := ob.oppositeBook(side)
	_, hasOpposite := opposite.BestTick()

	if !hasOpposite && (tif == common.IOC || tif == common.FOK) {
		return nil, nil
	}

	if tif == common.FOK {
		if !ob.feasible(order, opposite) {
			return nil, nil
		}
	}

	var trades []common.Trade
	if hasOpposite {
		trades = ob.match(order, opposite)
	}

	if order.Residual() == 0 {
		return order, trades
	}

	switch tif {
	case common.GTC:
		if priceTick != common.MarketPriceTick {
			ob.rest(order, side)
			return order, trades
		}
		// Market order with unfilled residual: the residual is discarded,
		// never rests.
		if len(trades) == 0 {
			return nil, nil
		}
		return order, trades
	case common.IOC:
		return nil, trades
	case common.FOK:
		panic("matchbook: FOK order left with residual after feasibility test passed")
	default:
		panic("matchbook: unknown time in force")
	}
}

// feasible runs the FOK pre-trade scan: can the incoming order's full
// quantity be matched against the opposite side's resting liquidity within
// its matchable price range? It never mutates book state, and walks levels
// in the same order the matching loop would.
func (ob *OrderBook) feasible(taker *common.Order, opposite *book.BookSide) bool {
	var cumulative uint64
	ok := false
	opposite.IterPriority(func(lvl *book.PriceLevel) bool {
		if taker.PriceTick != common.MarketPriceTick {
			if taker.Side == common.Bid && lvl.PriceTick > taker.PriceTick {
				return false
			}
			if taker.Side == common.Ask && lvl.PriceTick < taker.PriceTick {
				return false
			}
		}
		cumulative += lvl.TotalQuantity
		if cumulative >= taker.Quantity {
			ok = true
			return false
		}
		return true
	})
	return ok
}

// match sweeps the opposite side's levels in price-time priority, filling
// the taker until it is satisfied, the opposite side is exhausted, or (for
// limit orders) the matchable price range is exhausted.
func (ob *OrderBook) match(taker *common.Order, opposite *book.BookSide) []common.Trade {
	var trades []common.Trade

	for taker.Residual() > 0 {
		bestTick, ok := opposite.BestTick()
		if !ok {
			break
		}
		if taker.PriceTick != common.MarketPriceTick {
			if taker.Side == common.Bid && bestTick > taker.PriceTick {
				break
			}
			if taker.Side == common.Ask && bestTick < taker.PriceTick {
				break
			}
		}

		lvl, ok := opposite.Level(bestTick)
		if !ok {
			// Cached extremum out of sync with the map; should not happen.
			panic("matchbook: best tick has no backing price level")
		}

		ob.drainLevel(taker, lvl, &trades)

		if lvl.Empty() {
			opposite.RemoveLevel(bestTick)
			opposite.RefreshExtrema()
		}
	}

	return trades
}

// drainLevel matches the taker against one price level's FIFO, dropping
// lazily-cancelled tombstones as it encounters them.
func (ob *OrderBook) drainLevel(taker *common.Order, lvl *book.PriceLevel, trades *[]common.Trade) {
	for taker.Residual() > 0 {
		maker, ok := lvl.Front()
		if !ok {
			return
		}
		if maker.IsCancelled {
			lvl.DropFront()
			continue
		}

		fill := min(taker.Residual(), maker.Residual())
		if fill == 0 {
			panic("matchbook: zero-quantity fill against a non-empty level")
		}

		trade := common.Trade{
			ID:           ob.tradeIDCounter,
			TakerOrderID: taker.ID,
			MakerOrderID: maker.ID,
			TakerUserID:  taker.UserID,
			MakerUserID:  maker.UserID,
			Quantity:     fill,
			PriceTick:    maker.PriceTick,
			Timestamp:    nowMillis(),
		}
		ob.tradeIDCounter++
		*trades = append(*trades, trade)

		taker.QuantityFilled += fill
		maker.QuantityFilled += fill
		lvl.TotalQuantity -= fill

		if maker.Residual() == 0 {
			lvl.DropFront()
			ob.totalOrders--
			delete(ob.ordersByID, maker.ID)
		}
		// If the maker still has residual, it stays at the front of the
		// FIFO (its priority is unaffected) and the taker must now be
		// exhausted, so the loop condition exits on the next check.
	}
}

// rest inserts a GTC limit order's residual onto the book.
func (ob *OrderBook) rest(order *common.Order, side common.Side) {
	s := ob.sideBook(side)
	lvl := s.GetOrCreateLevel(order.PriceTick)
	lvl.PushBack(order)
	s.RefreshExtrema()

	ob.totalOrders++
	ob.ordersByID[order.ID] = &restingRef{order: order, side: side, priceTick: order.PriceTick}
}

// CancelOrder cancels a resting order identified by id, on the given side
// at the given price tick. Returns false if the order cannot be found at
// that location, the side doesn't match, or it is already cancelled.
func (ob *OrderBook) CancelOrder(orderID uint64, priceTick uint64, side common.Side) bool {
	ref, ok := ob.ordersByID[orderID]
	if !ok || ref.side != side || ref.priceTick != priceTick {
		return false
	}

	s := ob.sideBook(side)
	lvl, ok := s.Level(priceTick)
	if !ok {
		return false
	}

	if _, cancelled := lvl.Cancel(orderID); !cancelled {
		return false
	}

	ob.totalOrders--
	delete(ob.ordersByID, orderID)

	if lvl.Empty() {
		s.RemoveLevel(priceTick)
		s.RefreshExtrema()
	}
	return true
}

// GetOrderByID returns a copy of a currently-resting order, if any.
func (ob *OrderBook) GetOrderByID(orderID uint64) (common.Order, bool) {
	ref, ok := ob.ordersByID[orderID]
	if !ok {
		return common.Order{}, false
	}
	return *ref.order, true
}

// GetDepth returns up to levels price levels per side, bids descending by
// price_tick and asks ascending, each reported as (price_tick, total open
// quantity).
func (ob *OrderBook) GetDepth(levels int) (bids []DepthLevel, asks []DepthLevel) {
	collect := func(s *book.BookSide) []DepthLevel {
		out := make([]DepthLevel, 0, levels)
		s.IterPriority(func(lvl *book.PriceLevel) bool {
			if len(out) >= levels {
				return false
			}
			if lvl.TotalQuantity == 0 {
				return true
			}
			out = append(out, DepthLevel{PriceTick: lvl.PriceTick, Quantity: lvl.TotalQuantity})
			return true
		})
		return out
	}
	return collect(ob.bids), collect(ob.asks)
}
