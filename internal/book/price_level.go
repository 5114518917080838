package book

import "matchbook/internal/common"

// PriceLevel is a FIFO queue of resting orders at one price tick, plus the
// aggregate open quantity of its non-cancelled orders. A PriceLevel with
// TotalQuantity 0 must not be kept in a BookSide's map — see
// BookSide.RemoveLevel.
type PriceLevel struct {
	PriceTick      uint64
	Orders         []*common.Order
	TotalQuantity  uint64
}

// NewPriceLevel creates an empty level at the given tick.
func NewPriceLevel(tick uint64) *PriceLevel {
	return &PriceLevel{PriceTick: tick}
}

// PushBack appends a new resting order to the tail of the FIFO and adds its
// residual to the level's cached quantity.
func (lvl *PriceLevel) PushBack(o *common.Order) {
	lvl.Orders = append(lvl.Orders, o)
	lvl.TotalQuantity += o.Residual()
}

// Front returns the order at the head of the FIFO without removing it.
func (lvl *PriceLevel) Front() (*common.Order, bool) {
	if len(lvl.Orders) == 0 {
		return nil, false
	}
	return lvl.Orders[0], true
}

// DropFront physically removes the head of the FIFO. Used once an order is
// either fully consumed by matching or found already cancelled.
func (lvl *PriceLevel) DropFront() {
	if len(lvl.Orders) == 0 {
		return
	}
	lvl.Orders[0] = nil
	lvl.Orders = lvl.Orders[1:]
}

// Empty reports whether this level has no open quantity left. A level in
// this state must be removed from its BookSide.
func (lvl *PriceLevel) Empty() bool {
	return lvl.TotalQuantity == 0
}

// Cancel marks the order with the given id as cancelled (if found and not
// already cancelled) and debits its residual from the level's cached
// quantity. It does not physically unlink the order from the FIFO; that
// happens lazily the next time the matching loop walks past it.
func (lvl *PriceLevel) Cancel(orderID uint64) (*common.Order, bool) {
	for _, o := range lvl.Orders {
		if o == nil || o.ID != orderID {
			continue
		}
		if o.IsCancelled {
			return nil, false
		}
		o.IsCancelled = true
		lvl.TotalQuantity -= o.Residual()
		return o, true
	}
	return nil, false
}
