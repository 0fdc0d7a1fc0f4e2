package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"lob/internal/config"
	"lob/internal/flow"
	"lob/internal/logger"
	"lob/internal/orderbook"
)

func main() {
	envPath := flag.String("env", "", "path to .env file (default: ./.env if present)")
	orders := flag.Int("orders", -1, "number of generated actions to run (overrides LOB_FLOW_ORDERS)")
	seed := flag.Int64("seed", 0, "order flow seed (overrides LOB_FLOW_SEED)")
	logLevel := flag.String("log-level", "", "log level (overrides LOB_LOG_LEVEL)")
	flag.Parse()

	cfg, err := config.LoadFromEnv(*envPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *orders >= 0 {
		cfg.Flow.Orders = *orders
	}
	if *seed != 0 {
		cfg.Flow.Seed = *seed
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	var log *zap.Logger
	if cfg.Log.File != "" {
		log, err = logger.NewWithFile(cfg.Log.Level, cfg.Log.File)
	} else {
		log, err = logger.New(cfg.Log.Level)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runWalkthrough(log)

	if err := runFlow(ctx, log, cfg.Flow); err != nil {
		log.Warn("order flow interrupted", zap.Error(err))
	}
}

// runWalkthrough submits a handful of orders and prints the book size after each.
func runWalkthrough(log *zap.Logger) {
	book := orderbook.New(orderbook.WithLogger(log.Named("book")))

	step := func(desc string, trades []orderbook.Trade) {
		fmt.Printf("%-42s trades=%d size=%d\n", desc, len(trades), book.Size())
		for _, tr := range trades {
			fmt.Printf("    bid %d @ %d x %d | ask %d @ %d x %d\n",
				tr.Bid.OrderID, tr.Bid.Price, tr.Bid.Quantity,
				tr.Ask.OrderID, tr.Ask.Price, tr.Ask.Quantity)
		}
	}

	step("add GTC buy #1 100 x 10", book.AddOrder(orderbook.OrderSpec{
		Type: orderbook.GoodTillCancel, ID: 1, Side: orderbook.Buy, Price: 100, Quantity: 10,
	}))
	step("add GTC sell #2 100 x 4", book.AddOrder(orderbook.OrderSpec{
		Type: orderbook.GoodTillCancel, ID: 2, Side: orderbook.Sell, Price: 100, Quantity: 4,
	}))
	book.CancelOrder(1)
	step("cancel #1", nil)
	step("add FAK buy #3 50 x 5", book.AddOrder(orderbook.OrderSpec{
		Type: orderbook.FillAndKill, ID: 3, Side: orderbook.Buy, Price: 50, Quantity: 5,
	}))
	step("add GTC sell #4 99 x 3", book.AddOrder(orderbook.OrderSpec{
		Type: orderbook.GoodTillCancel, ID: 4, Side: orderbook.Sell, Price: 99, Quantity: 3,
	}))
	step("add GTC buy #5 101 x 3", book.AddOrder(orderbook.OrderSpec{
		Type: orderbook.GoodTillCancel, ID: 5, Side: orderbook.Buy, Price: 101, Quantity: 3,
	}))
}

func runFlow(ctx context.Context, log *zap.Logger, cfg config.Flow) error {
	if cfg.Orders == 0 {
		return nil
	}

	book := orderbook.NewSyncBook(orderbook.New(orderbook.WithLogger(log.Named("book"))))

	flowCfg := flow.DefaultConfig()
	flowCfg.Mid = orderbook.Price(cfg.Mid)
	flowCfg.Spread = orderbook.Price(cfg.Spread)
	flowCfg.MaxSize = orderbook.Quantity(cfg.MaxQty)

	log.Info("running order flow",
		zap.Int("actions", cfg.Orders),
		zap.Int64("seed", cfg.Seed),
		zap.Int64("mid", cfg.Mid),
		zap.Int64("spread", cfg.Spread),
	)

	start := time.Now()
	st, err := flow.Run(ctx, book, flow.NewGenerator(flowCfg, cfg.Seed), cfg.Orders, nil)
	elapsed := time.Since(start)

	snap := book.Snapshot()
	log.Info("order flow complete",
		zap.Int("actions", st.Actions),
		zap.Int("adds", st.Adds),
		zap.Int("cancels", st.Cancels),
		zap.Int("modifies", st.Modifies),
		zap.Int("trades", st.Trades),
		zap.Uint64("volume", uint64(st.Volume)),
		zap.Int("resting", book.Size()),
		zap.Duration("elapsed", elapsed),
	)
	fmt.Printf("book size: %d\n", book.Size())
	fmt.Printf("best bid: %d x %d (%d orders)\n", snap.BestBid.Price, snap.BestBid.Quantity, snap.BestBid.Orders)
	fmt.Printf("best ask: %d x %d (%d orders)\n", snap.BestAsk.Price, snap.BestAsk.Quantity, snap.BestAsk.Orders)

	return err
}
