package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchbook/internal/common"
	"matchbook/internal/engine"
)

const tickMultiplier = 100

func newBook() *engine.OrderBook {
	return engine.New("BTC-USD", tickMultiplier)
}

// S1 — simple match.
func TestAddOrder_SimpleMatch(t *testing.T) {
	ob := newBook()

	_, trades := ob.AddOrder("alice", 101, 10, common.Ask, common.GTC)
	assert.Empty(t, trades)

	accepted, trades := ob.AddOrder("bob", 101, 5, common.Bid, common.GTC)
	require.Len(t, trades, 1)
	assert.Equal(t, uint64(5), trades[0].Quantity)
	assert.Equal(t, uint64(101), trades[0].PriceTick)
	require.NotNil(t, accepted)
	assert.Equal(t, uint64(0), accepted.Residual(), "bob's order fully filled, nothing rests")

	askBest, ok := ob.BestAskTick()
	require.True(t, ok)
	assert.Equal(t, uint64(101), askBest)

	bids, asks := ob.GetDepth(10)
	assert.Empty(t, bids)
	require.Len(t, asks, 1)
	assert.Equal(t, uint64(5), asks[0].Quantity)
}

// S2 — FOK reject leaves the book untouched.
func TestAddOrder_FOKInfeasibleLeavesBookUnchanged(t *testing.T) {
	ob := newBook()
	ob.AddOrder("alice", 101, 5, common.Ask, common.GTC)

	accepted, trades := ob.AddOrder("bob", 101, 10, common.Bid, common.FOK)
	assert.Nil(t, accepted)
	assert.Empty(t, trades)

	_, asks := ob.GetDepth(10)
	require.Len(t, asks, 1)
	assert.Equal(t, uint64(5), asks[0].Quantity)
}

// S3 — market sweep across two ask levels.
func TestAddOrder_MarketSweep(t *testing.T) {
	ob := newBook()
	ob.AddOrder("alice", 101, 10, common.Ask, common.GTC)
	ob.AddOrder("alice", 102, 10, common.Ask, common.GTC)

	accepted, trades := ob.AddOrder("bob", common.MarketPriceTick, 15, common.Bid, common.GTC)
	require.Len(t, trades, 2)
	assert.Equal(t, uint64(10), trades[0].Quantity)
	assert.Equal(t, uint64(101), trades[0].PriceTick)
	assert.Equal(t, uint64(5), trades[1].Quantity)
	assert.Equal(t, uint64(102), trades[1].PriceTick)
	assert.NotNil(t, accepted)

	bestAsk, ok := ob.BestAskTick()
	require.True(t, ok)
	assert.Equal(t, uint64(102), bestAsk)

	_, asks := ob.GetDepth(10)
	require.Len(t, asks, 1)
	assert.Equal(t, uint64(5), asks[0].Quantity)
}

// S4 — cross and rest: taker fully filled, maker partially consumed.
func TestAddOrder_CrossAndRest(t *testing.T) {
	ob := newBook()
	ob.AddOrder("alice", 100, 10, common.Ask, common.GTC)

	accepted, trades := ob.AddOrder("bob", 103, 8, common.Bid, common.GTC)
	require.Len(t, trades, 1)
	assert.Equal(t, uint64(8), trades[0].Quantity)
	assert.Equal(t, uint64(100), trades[0].PriceTick)
	require.NotNil(t, accepted)
	assert.Equal(t, uint64(0), accepted.Residual(), "bob's order fully filled, nothing rests")

	bestAsk, ok := ob.BestAskTick()
	require.True(t, ok)
	assert.Equal(t, uint64(100), bestAsk)

	_, bestBidOK := ob.BestBidTick()
	assert.False(t, bestBidOK)
}

// S5 — cancel updates best.
func TestCancelOrder_UpdatesBest(t *testing.T) {
	ob := newBook()
	resting1, _ := ob.AddOrder("alice", 101, 10, common.Bid, common.GTC)
	ob.AddOrder("alice", 100, 10, common.Bid, common.GTC)

	require.NotNil(t, resting1)
	ok := ob.CancelOrder(resting1.ID, 101, common.Bid)
	assert.True(t, ok)

	bestBid, ok := ob.BestBidTick()
	require.True(t, ok)
	assert.Equal(t, uint64(100), bestBid)

	_, found := ob.GetOrderByID(resting1.ID)
	assert.False(t, found)
}

// S6 — self-trade still produces exactly one trade; settlement (the wash)
// is the ledger's concern, not the book's, but the book must still report it.
func TestAddOrder_SelfTradeStillMatches(t *testing.T) {
	ob := newBook()
	ob.AddOrder("carol", 100, 5, common.Ask, common.GTC)
	_, trades := ob.AddOrder("carol", 100, 5, common.Bid, common.GTC)

	require.Len(t, trades, 1)
	assert.True(t, trades[0].IsSelfTrade())
}

// S7 — IOC partial fill never rests and reports the partial trade.
func TestAddOrder_IOCPartialFillDoesNotRest(t *testing.T) {
	ob := newBook()
	ob.AddOrder("alice", 101, 5, common.Ask, common.GTC)

	accepted, trades := ob.AddOrder("bob", 102, 10, common.Bid, common.IOC)
	assert.Nil(t, accepted)
	require.Len(t, trades, 1)
	assert.Equal(t, uint64(5), trades[0].Quantity)
	assert.Equal(t, uint64(101), trades[0].PriceTick)
	assert.Equal(t, uint64(0), ob.TotalOrders(), "IOC order must never rest")
}

// Property: IOC never rests regardless of fill outcome.
func TestProperty_IOCNeverRests(t *testing.T) {
	ob := newBook()
	accepted, _ := ob.AddOrder("bob", 100, 10, common.Bid, common.IOC)
	assert.Nil(t, accepted, "no liquidity at all: IOC must reject cleanly")
	assert.Equal(t, uint64(0), ob.TotalOrders())
}

// Property: cancel idempotence.
func TestProperty_CancelIdempotence(t *testing.T) {
	ob := newBook()
	order, _ := ob.AddOrder("alice", 100, 10, common.Bid, common.GTC)
	require.NotNil(t, order)

	assert.True(t, ob.CancelOrder(order.ID, 100, common.Bid))
	assert.False(t, ob.CancelOrder(order.ID, 100, common.Bid))
}

// Property: monotonic ids across successful placements and trades.
func TestProperty_MonotonicIDs(t *testing.T) {
	ob := newBook()
	o1, _ := ob.AddOrder("a", 100, 10, common.Ask, common.GTC)
	o2, _ := ob.AddOrder("b", 101, 10, common.Ask, common.GTC)
	require.NotNil(t, o1)
	require.NotNil(t, o2)
	assert.Less(t, o1.ID, o2.ID)

	_, trades := ob.AddOrder("c", common.MarketPriceTick, 20, common.Bid, common.IOC)
	require.Len(t, trades, 2)
	assert.Less(t, trades[0].ID, trades[1].ID)
}

// Property: no empty levels survive a quiescent point.
func TestProperty_NoEmptyLevels(t *testing.T) {
	ob := newBook()
	ob.AddOrder("a", 100, 10, common.Ask, common.GTC)
	ob.AddOrder("b", 100, 10, common.Bid, common.GTC)

	bids, asks := ob.GetDepth(100)
	assert.Empty(t, bids)
	assert.Empty(t, asks)
}

// Property: depth respects the requested cap and price ordering.
func TestGetDepth_OrderingAndCap(t *testing.T) {
	ob := newBook()
	ob.AddOrder("a", 99, 10, common.Bid, common.GTC)
	ob.AddOrder("a", 98, 10, common.Bid, common.GTC)
	ob.AddOrder("a", 97, 10, common.Bid, common.GTC)
	ob.AddOrder("a", 101, 10, common.Ask, common.GTC)
	ob.AddOrder("a", 102, 10, common.Ask, common.GTC)

	bids, asks := ob.GetDepth(2)
	require.Len(t, bids, 2)
	assert.Equal(t, uint64(99), bids[0].PriceTick)
	assert.Equal(t, uint64(98), bids[1].PriceTick)

	require.Len(t, asks, 2)
	assert.Equal(t, uint64(101), asks[0].PriceTick)
	assert.Equal(t, uint64(102), asks[1].PriceTick)
}

// Time priority: first-in, first-matched within a level.
func TestMatching_TimePriorityWithinLevel(t *testing.T) {
	ob := newBook()
	first, _ := ob.AddOrder("maker1", 100, 5, common.Ask, common.GTC)
	second, _ := ob.AddOrder("maker2", 100, 5, common.Ask, common.GTC)
	require.NotNil(t, first)
	require.NotNil(t, second)

	_, trades := ob.AddOrder("taker", 100, 5, common.Bid, common.GTC)
	require.Len(t, trades, 1)
	assert.Equal(t, first.ID, trades[0].MakerOrderID, "earlier resting order must be matched first")
}
