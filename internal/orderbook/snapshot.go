package orderbook

// LevelSnapshot aggregates one price level. A side with no levels yields the
// zero value; Orders == 0 is how callers tell "no market" apart from a level.
type LevelSnapshot struct {
	Price    Price    `json:"price"`
	Quantity Quantity `json:"quantity"`
	Orders   int      `json:"orders"`
}

func (ls LevelSnapshot) Empty() bool {
	return ls.Orders == 0
}

// BookSnapshot is the top of book.
type BookSnapshot struct {
	BestBid LevelSnapshot `json:"best_bid"`
	BestAsk LevelSnapshot `json:"best_ask"`
}

// BookDepth lists aggregated levels best-first on each side.
type BookDepth struct {
	Bids []LevelSnapshot `json:"bids"`
	Asks []LevelSnapshot `json:"asks"`
}

func levelsOf(l *ledger, n int) []LevelSnapshot {
	size := l.depth()
	if n > 0 && n < size {
		size = n
	}
	out := make([]LevelSnapshot, 0, size)
	l.scan(func(pl *priceLevel) bool {
		out = append(out, pl.snapshot())
		return len(out) < size
	})
	return out
}
