package orderbook

import (
	"container/list"

	"github.com/tidwall/btree"
)

// priceLevel holds all resting orders at one price in arrival order.
type priceLevel struct {
	price  Price
	orders *list.List // of *Order
}

func (pl *priceLevel) front() *Order {
	return pl.orders.Front().Value.(*Order)
}

func (pl *priceLevel) totalQuantity() Quantity {
	var total Quantity
	for e := pl.orders.Front(); e != nil; e = e.Next() {
		total += e.Value.(*Order).RemainingQuantity
	}
	return total
}

func (pl *priceLevel) snapshot() LevelSnapshot {
	return LevelSnapshot{
		Price:    pl.price,
		Quantity: pl.totalQuantity(),
		Orders:   pl.orders.Len(),
	}
}

// slot locates an order inside a ledger. It stays valid until the order is
// removed, so removal never scans the queue.
type slot struct {
	level *priceLevel
	elem  *list.Element
}

// ledger is one side of the book: levels ordered best-first.
type ledger struct {
	side   Side
	levels *btree.BTreeG[*priceLevel]
}

func newLedger(side Side) *ledger {
	less := func(a, b *priceLevel) bool { return a.price < b.price } // asks ascending
	if side == Buy {
		less = func(a, b *priceLevel) bool { return a.price > b.price } // bids descending
	}
	return &ledger{
		side:   side,
		levels: btree.NewBTreeGOptions(less, btree.Options{NoLocks: true}),
	}
}

func (l *ledger) insert(o *Order) slot {
	level, ok := l.levels.Get(&priceLevel{price: o.Price})
	if !ok {
		level = &priceLevel{price: o.Price, orders: list.New()}
		l.levels.Set(level)
	}
	return slot{level: level, elem: level.orders.PushBack(o)}
}

func (l *ledger) remove(s slot) {
	s.level.orders.Remove(s.elem)
	if s.level.orders.Len() == 0 {
		l.levels.Delete(s.level)
	}
}

func (l *ledger) best() (*priceLevel, bool) {
	return l.levels.Min()
}

func (l *ledger) empty() bool {
	return l.levels.Len() == 0
}

func (l *ledger) depth() int {
	return l.levels.Len()
}

// scan visits levels best-first until fn returns false.
func (l *ledger) scan(fn func(*priceLevel) bool) {
	l.levels.Scan(fn)
}
