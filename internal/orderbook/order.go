package orderbook

import "fmt"

type OrderID uint64

// Price in ticks. Zero and negative prices are allowed for synthetic instruments.
type Price int64

type Quantity uint64

type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

type OrderType int

const (
	GoodTillCancel OrderType = iota
	FillAndKill
)

func (t OrderType) String() string {
	if t == FillAndKill {
		return "fill_and_kill"
	}
	return "good_till_cancel"
}

// OrderSpec is what a caller submits. The book builds and owns the Order.
type OrderSpec struct {
	Type     OrderType `json:"type"`
	ID       OrderID   `json:"id"`
	Side     Side      `json:"side"`
	Price    Price     `json:"price"`
	Quantity Quantity  `json:"quantity"`
}

// OrderModify replaces side, price and quantity of a resting order.
type OrderModify struct {
	ID       OrderID  `json:"id"`
	Side     Side     `json:"side"`
	Price    Price    `json:"price"`
	Quantity Quantity `json:"quantity"`
}

func (m OrderModify) toSpec(typ OrderType) OrderSpec {
	return OrderSpec{
		Type:     typ,
		ID:       m.ID,
		Side:     m.Side,
		Price:    m.Price,
		Quantity: m.Quantity,
	}
}

type Order struct {
	ID                OrderID   `json:"id"`
	Type              OrderType `json:"type"`
	Side              Side      `json:"side"`
	Price             Price     `json:"price"`
	InitialQuantity   Quantity  `json:"initial_quantity"`
	RemainingQuantity Quantity  `json:"remaining_quantity"`
}

func newOrder(spec OrderSpec) *Order {
	return &Order{
		ID:                spec.ID,
		Type:              spec.Type,
		Side:              spec.Side,
		Price:             spec.Price,
		InitialQuantity:   spec.Quantity,
		RemainingQuantity: spec.Quantity,
	}
}

func (o *Order) FilledQuantity() Quantity {
	return o.InitialQuantity - o.RemainingQuantity
}

func (o *Order) IsFilled() bool {
	return o.RemainingQuantity == 0
}

// Fill decrements the remaining quantity. Asking for more than what remains
// means the book's internal state is corrupt, so it panics with *OverfillError.
func (o *Order) Fill(qty Quantity) {
	if qty > o.RemainingQuantity {
		panic(&OverfillError{OrderID: o.ID, Requested: qty, Remaining: o.RemainingQuantity})
	}
	o.RemainingQuantity -= qty
}

// OverfillError is the panic value raised by Fill.
type OverfillError struct {
	OrderID   OrderID
	Requested Quantity
	Remaining Quantity
}

func (e *OverfillError) Error() string {
	return fmt.Sprintf("order %d cannot be filled for %d: only %d remaining", e.OrderID, e.Requested, e.Remaining)
}

// TradeInfo is one leg of a match.
type TradeInfo struct {
	OrderID  OrderID  `json:"order_id"`
	Price    Price    `json:"price"`
	Quantity Quantity `json:"quantity"`
}

// Trade pairs the bid and ask legs of one match. Each leg carries the price
// of its own order; the two are not normalized to a single execution price.
type Trade struct {
	Bid TradeInfo `json:"bid"`
	Ask TradeInfo `json:"ask"`
}
