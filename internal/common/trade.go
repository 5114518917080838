package common

import "fmt"

// Trade records one fill between a resting maker order and an incoming
// taker order. Price is always the maker's price_tick: price improvement
// goes to the taker.
type Trade struct {
	ID           uint64 `json:"id"`
	TakerOrderID uint64 `json:"taker_order_id"`
	MakerOrderID uint64 `json:"maker_order_id"`
	TakerUserID  string `json:"taker_user_id"`
	MakerUserID  string `json:"maker_user_id"`
	Quantity     uint64 `json:"quantity"`
	PriceTick    uint64 `json:"price_tick"`
	Timestamp    int64  `json:"timestamp"` // unix milliseconds
}

// IsSelfTrade reports whether the taker and maker are the same account.
func (t Trade) IsSelfTrade() bool {
	return t.TakerUserID == t.MakerUserID
}

func (t Trade) String() string {
	return fmt.Sprintf(
		"Trade{id=%d taker=%d/%s maker=%d/%s qty=%d price=%d}",
		t.ID, t.TakerOrderID, t.TakerUserID, t.MakerOrderID, t.MakerUserID, t.Quantity, t.PriceTick,
	)
}
