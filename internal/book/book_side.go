package book

import "github.com/tidwall/btree"

// BookSide is one side (bid or ask) of a single symbol's order book: a
// price-indexed ordered map of PriceLevels plus cached best/worst ticks.
//
// The comparator baked into the tree at construction time encodes the
// side's polarity, so the tree's own Min() is always "best" and Max() is
// always "worst" regardless of whether higher or lower prices are
// favourable — this mirrors the teacher engine's trick of flipping the
// less-than function per side instead of special-casing reads.
type BookSide struct {
	levels         *btree.BTreeG[*PriceLevel]
	higherIsBetter bool
	bestTick       *uint64
	worstTick      *uint64
}

// NewBookSide builds a BookSide. higherIsBetter is true for bids (highest
// price is most aggressive) and false for asks (lowest price is most
// aggressive).
func NewBookSide(higherIsBetter bool) *BookSide {
	var less func(a, b *PriceLevel) bool
	if higherIsBetter {
		less = func(a, b *PriceLevel) bool { return a.PriceTick > b.PriceTick }
	} else {
		less = func(a, b *PriceLevel) bool { return a.PriceTick < b.PriceTick }
	}
	return &BookSide{
		levels:         btree.NewBTreeG(less),
		higherIsBetter: higherIsBetter,
	}
}

// HigherIsBetter exposes this side's polarity.
func (s *BookSide) HigherIsBetter() bool {
	return s.higherIsBetter
}

// Level looks up an existing level without creating one.
func (s *BookSide) Level(tick uint64) (*PriceLevel, bool) {
	return s.levels.Get(&PriceLevel{PriceTick: tick})
}

// GetOrCreateLevel returns the level at tick, creating and inserting an
// empty one if absent. Callers must call RefreshExtrema after populating a
// freshly created level.
func (s *BookSide) GetOrCreateLevel(tick uint64) *PriceLevel {
	if lvl, ok := s.levels.Get(&PriceLevel{PriceTick: tick}); ok {
		return lvl
	}
	lvl := NewPriceLevel(tick)
	s.levels.Set(lvl)
	return lvl
}

// RemoveLevel deletes the level at tick, if present.
func (s *BookSide) RemoveLevel(tick uint64) {
	s.levels.Delete(&PriceLevel{PriceTick: tick})
}

// Len reports how many non-empty price levels this side holds.
func (s *BookSide) Len() int {
	return s.levels.Len()
}

// RefreshExtrema recomputes the cached best/worst ticks from the tree's own
// extrema. Must be called after any mutation that may add or remove a
// level; no stale cached extremum may survive an operation.
func (s *BookSide) RefreshExtrema() {
	if best, ok := s.levels.Min(); ok {
		t := best.PriceTick
		s.bestTick = &t
	} else {
		s.bestTick = nil
	}
	if worst, ok := s.levels.Max(); ok {
		t := worst.PriceTick
		s.worstTick = &t
	} else {
		s.worstTick = nil
	}
}

// BestTick returns the most aggressive resting price on this side.
func (s *BookSide) BestTick() (uint64, bool) {
	if s.bestTick == nil {
		return 0, false
	}
	return *s.bestTick, true
}

// WorstTick returns the least aggressive resting price on this side.
func (s *BookSide) WorstTick() (uint64, bool) {
	if s.worstTick == nil {
		return 0, false
	}
	return *s.worstTick, true
}

// IterPriority walks every level on this side in strict price priority
// order (most aggressive first), stopping early if fn returns false.
func (s *BookSide) IterPriority(fn func(lvl *PriceLevel) bool) {
	s.levels.Scan(fn)
}
