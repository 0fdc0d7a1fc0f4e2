// Package flow generates synthetic order flow for exercising an order book.
package flow

import (
	"context"
	"math/rand"

	"lob/internal/orderbook"
)

// Book is the surface a generated action is applied to. Both
// *orderbook.OrderBook and *orderbook.SyncBook satisfy it.
type Book interface {
	AddOrder(spec orderbook.OrderSpec) []orderbook.Trade
	CancelOrder(id orderbook.OrderID)
	ModifyOrder(m orderbook.OrderModify) []orderbook.Trade
}

type Kind int

const (
	Add Kind = iota
	Cancel
	Modify
)

func (k Kind) String() string {
	switch k {
	case Cancel:
		return "cancel"
	case Modify:
		return "modify"
	default:
		return "add"
	}
}

type Action struct {
	Kind   Kind
	Spec   orderbook.OrderSpec   // Add
	ID     orderbook.OrderID     // Cancel
	Modify orderbook.OrderModify // Modify
}

// Apply runs one action against b and returns the trades it produced.
func Apply(b Book, a Action) []orderbook.Trade {
	switch a.Kind {
	case Cancel:
		b.CancelOrder(a.ID)
		return nil
	case Modify:
		return b.ModifyOrder(a.Modify)
	default:
		return b.AddOrder(a.Spec)
	}
}

type Config struct {
	Mid     orderbook.Price
	Spread  orderbook.Price // orders are priced within Mid +/- Spread
	MinSize orderbook.Quantity
	MaxSize orderbook.Quantity
	Bias    float64 // Directional bias (-1 to +1, 0 = neutral)

	FillAndKillRatio float64
	CancelRatio      float64
	ModifyRatio      float64

	// FirstID is the first order id handed out; ids increase from there.
	FirstID orderbook.OrderID
}

func DefaultConfig() Config {
	return Config{
		Mid:              10000,
		Spread:           50,
		MinSize:          1,
		MaxSize:          100,
		FillAndKillRatio: 0.1,
		CancelRatio:      0.2,
		ModifyRatio:      0.1,
		FirstID:          1,
	}
}

// Generator is a seeded noise trader. It is not safe for concurrent use;
// give each goroutine its own generator with a disjoint FirstID.
type Generator struct {
	cfg    Config
	rng    *rand.Rand
	nextID orderbook.OrderID
	live   []orderbook.OrderID // ids submitted as GoodTillCancel, possibly filled since
}

const maxTracked = 1024

func NewGenerator(cfg Config, seed int64) *Generator {
	if cfg.MinSize == 0 {
		cfg.MinSize = 1
	}
	if cfg.MaxSize < cfg.MinSize {
		cfg.MaxSize = cfg.MinSize
	}
	if cfg.Spread <= 0 {
		cfg.Spread = 1
	}
	return &Generator{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)),
		nextID: cfg.FirstID,
	}
}

// Next returns the next action. Cancels and modifies target ids this
// generator handed out earlier; some of them will have filled already,
// which the book treats as a no-op.
func (g *Generator) Next() Action {
	roll := g.rng.Float64()
	if len(g.live) > 0 {
		switch {
		case roll < g.cfg.CancelRatio:
			return Action{Kind: Cancel, ID: g.takeLive()}
		case roll < g.cfg.CancelRatio+g.cfg.ModifyRatio:
			id := g.pickLive()
			return Action{Kind: Modify, Modify: orderbook.OrderModify{
				ID:       id,
				Side:     g.side(),
				Price:    g.price(),
				Quantity: g.size(),
			}}
		}
	}

	spec := orderbook.OrderSpec{
		Type:     orderbook.GoodTillCancel,
		ID:       g.nextID,
		Side:     g.side(),
		Price:    g.price(),
		Quantity: g.size(),
	}
	g.nextID++
	if g.rng.Float64() < g.cfg.FillAndKillRatio {
		spec.Type = orderbook.FillAndKill
	} else {
		g.track(spec.ID)
	}
	return Action{Kind: Add, Spec: spec}
}

func (g *Generator) side() orderbook.Side {
	if g.rng.Float64() > (0.5 + g.cfg.Bias/2) {
		return orderbook.Sell
	}
	return orderbook.Buy
}

func (g *Generator) price() orderbook.Price {
	offset := orderbook.Price(g.rng.Int63n(int64(2*g.cfg.Spread) + 1))
	return g.cfg.Mid - g.cfg.Spread + offset
}

func (g *Generator) size() orderbook.Quantity {
	span := int64(g.cfg.MaxSize - g.cfg.MinSize + 1)
	return g.cfg.MinSize + orderbook.Quantity(g.rng.Int63n(span))
}

func (g *Generator) track(id orderbook.OrderID) {
	if len(g.live) == maxTracked {
		g.live = g.live[1:]
	}
	g.live = append(g.live, id)
}

func (g *Generator) pickLive() orderbook.OrderID {
	return g.live[g.rng.Intn(len(g.live))]
}

func (g *Generator) takeLive() orderbook.OrderID {
	i := g.rng.Intn(len(g.live))
	id := g.live[i]
	g.live[i] = g.live[len(g.live)-1]
	g.live = g.live[:len(g.live)-1]
	return id
}

// Stats summarizes a run.
type Stats struct {
	Actions  int
	Adds     int
	Cancels  int
	Modifies int
	Trades   int
	Volume   orderbook.Quantity
}

// Run applies up to n generated actions to b, stopping early if ctx is done.
// The observe callback, if set, sees every action with its trades.
func Run(ctx context.Context, b Book, g *Generator, n int, observe func(Action, []orderbook.Trade)) (Stats, error) {
	var st Stats
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return st, ctx.Err()
		default:
		}

		a := g.Next()
		trades := Apply(b, a)

		st.Actions++
		switch a.Kind {
		case Add:
			st.Adds++
		case Cancel:
			st.Cancels++
		case Modify:
			st.Modifies++
		}
		st.Trades += len(trades)
		for _, tr := range trades {
			st.Volume += tr.Bid.Quantity
		}
		if observe != nil {
			observe(a, trades)
		}
	}
	return st, nil
}
