package orderbook

import (
	"go.uber.org/zap"
)

type entry struct {
	order *Order
	slot  slot
}

// OrderBook is an in-memory limit order book for a single instrument.
//
// It is not safe for concurrent use. Every call runs to completion; callers
// sharing a book across goroutines wrap it in a SyncBook.
type OrderBook struct {
	bids   *ledger
	asks   *ledger
	orders map[OrderID]*entry

	log *zap.Logger
}

type Option func(*OrderBook)

// WithLogger routes the book's debug events to l.
func WithLogger(l *zap.Logger) Option {
	return func(ob *OrderBook) {
		ob.log = l
	}
}

func New(opts ...Option) *OrderBook {
	ob := &OrderBook{
		bids:   newLedger(Buy),
		asks:   newLedger(Sell),
		orders: make(map[OrderID]*entry),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ob)
	}
	return ob
}

// AddOrder admits an order and returns the trades it produced.
//
// Duplicate ids and zero quantities are ignored. A FillAndKill order that
// cannot cross on arrival is discarded, and whatever is left of it after
// matching is canceled.
func (ob *OrderBook) AddOrder(spec OrderSpec) []Trade {
	if _, exists := ob.orders[spec.ID]; exists {
		ob.log.Debug("duplicate order rejected", zap.Uint64("order_id", uint64(spec.ID)))
		return nil
	}
	if spec.Quantity == 0 {
		ob.log.Debug("zero quantity order rejected", zap.Uint64("order_id", uint64(spec.ID)))
		return nil
	}
	if spec.Type == FillAndKill && !ob.canMatch(spec.Side, spec.Price) {
		ob.log.Debug("fill and kill order discarded",
			zap.Uint64("order_id", uint64(spec.ID)),
			zap.Stringer("side", spec.Side),
			zap.Int64("price", int64(spec.Price)),
		)
		return nil
	}

	order := newOrder(spec)
	ob.orders[order.ID] = &entry{
		order: order,
		slot:  ob.ledgerFor(order.Side).insert(order),
	}

	trades := ob.matchOrders()

	if order.Type == FillAndKill && !order.IsFilled() {
		ob.remove(order.ID)
		ob.log.Debug("fill and kill residual canceled",
			zap.Uint64("order_id", uint64(order.ID)),
			zap.Uint64("remaining", uint64(order.RemainingQuantity)),
		)
	}
	return trades
}

// CancelOrder removes a resting order. Unknown ids are a no-op.
func (ob *OrderBook) CancelOrder(id OrderID) {
	if !ob.remove(id) {
		ob.log.Debug("cancel of unknown order ignored", zap.Uint64("order_id", uint64(id)))
	}
}

// ModifyOrder cancels the order and resubmits it with the same id and type.
// The replacement joins the back of its price level. Unknown ids are a no-op.
func (ob *OrderBook) ModifyOrder(m OrderModify) []Trade {
	e, exists := ob.orders[m.ID]
	if !exists {
		ob.log.Debug("modify of unknown order ignored", zap.Uint64("order_id", uint64(m.ID)))
		return nil
	}
	typ := e.order.Type
	ob.CancelOrder(m.ID)
	return ob.AddOrder(m.toSpec(typ))
}

// Size returns the number of resting orders.
func (ob *OrderBook) Size() int {
	return len(ob.orders)
}

// Snapshot returns the best level on each side.
func (ob *OrderBook) Snapshot() BookSnapshot {
	var snap BookSnapshot
	if level, ok := ob.bids.best(); ok {
		snap.BestBid = level.snapshot()
	}
	if level, ok := ob.asks.best(); ok {
		snap.BestAsk = level.snapshot()
	}
	return snap
}

// Depth returns up to n aggregated levels per side, all of them if n <= 0.
func (ob *OrderBook) Depth(n int) BookDepth {
	return BookDepth{
		Bids: levelsOf(ob.bids, n),
		Asks: levelsOf(ob.asks, n),
	}
}

// Order returns a copy of a resting order.
func (ob *OrderBook) Order(id OrderID) (Order, bool) {
	e, exists := ob.orders[id]
	if !exists {
		return Order{}, false
	}
	return *e.order, true
}

// BestBid returns the highest bid price, false if there are no bids
func (ob *OrderBook) BestBid() (Price, bool) {
	level, ok := ob.bids.best()
	if !ok {
		return 0, false
	}
	return level.price, true
}

// BestAsk returns the lowest ask price, false if there are no asks
func (ob *OrderBook) BestAsk() (Price, bool) {
	level, ok := ob.asks.best()
	if !ok {
		return 0, false
	}
	return level.price, true
}

// Spread returns best ask minus best bid, false unless both sides are quoted.
func (ob *OrderBook) Spread() (Price, bool) {
	bid, okBid := ob.BestBid()
	ask, okAsk := ob.BestAsk()
	if !okBid || !okAsk {
		return 0, false
	}
	return ask - bid, true
}

func (ob *OrderBook) ledgerFor(side Side) *ledger {
	if side == Buy {
		return ob.bids
	}
	return ob.asks
}

// canMatch reports whether an order on side at price would cross the book.
func (ob *OrderBook) canMatch(side Side, price Price) bool {
	if side == Buy {
		ask, ok := ob.asks.best()
		return ok && ask.price <= price
	}
	bid, ok := ob.bids.best()
	return ok && bid.price >= price
}

// matchOrders trades the front orders of the best levels until the book is
// no longer crossed.
func (ob *OrderBook) matchOrders() []Trade {
	var trades []Trade

	for {
		bidLevel, ok := ob.bids.best()
		if !ok {
			break
		}
		askLevel, ok := ob.asks.best()
		if !ok {
			break
		}
		if bidLevel.price < askLevel.price {
			break
		}

		bid := bidLevel.front()
		ask := askLevel.front()
		qty := min(bid.RemainingQuantity, ask.RemainingQuantity)

		bid.Fill(qty)
		ask.Fill(qty)

		if bid.IsFilled() {
			ob.remove(bid.ID)
		}
		if ask.IsFilled() {
			ob.remove(ask.ID)
		}

		trades = append(trades, Trade{
			Bid: TradeInfo{OrderID: bid.ID, Price: bid.Price, Quantity: qty},
			Ask: TradeInfo{OrderID: ask.ID, Price: ask.Price, Quantity: qty},
		})
	}

	return trades
}

// remove drops an order from the registry and its level. It reports whether
// the order was resting.
func (ob *OrderBook) remove(id OrderID) bool {
	e, exists := ob.orders[id]
	if !exists {
		return false
	}
	delete(ob.orders, id)
	ob.ledgerFor(e.order.Side).remove(e.slot)
	return true
}
