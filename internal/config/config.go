package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Log struct {
	Level string
	File  string // empty = stdout only
}

// Flow configures the generated order flow the harness drives into the book.
type Flow struct {
	Orders int
	Seed   int64
	Mid    int64
	Spread int64
	MaxQty uint64
}

type Config struct {
	Log  Log
	Flow Flow
}

func Default() Config {
	return Config{
		Log: Log{
			Level: "info",
		},
		Flow: Flow{
			Orders: 10000,
			Seed:   1,
			Mid:    10000,
			Spread: 50,
			MaxQty: 100,
		},
	}
}

// LoadFromEnv loads configuration from .env file (if exists) and environment variables
// Priority: ENV > .env file > defaults
func LoadFromEnv(envPath string) (Config, error) {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	if v := os.Getenv("LOB_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOB_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}

	var err error
	if cfg.Flow.Orders, err = envInt("LOB_FLOW_ORDERS", cfg.Flow.Orders); err != nil {
		return cfg, err
	}
	if cfg.Flow.Seed, err = envInt64("LOB_FLOW_SEED", cfg.Flow.Seed); err != nil {
		return cfg, err
	}
	if cfg.Flow.Mid, err = envInt64("LOB_FLOW_MID", cfg.Flow.Mid); err != nil {
		return cfg, err
	}
	if cfg.Flow.Spread, err = envInt64("LOB_FLOW_SPREAD", cfg.Flow.Spread); err != nil {
		return cfg, err
	}
	if cfg.Flow.MaxQty, err = envUint64("LOB_FLOW_MAX_QTY", cfg.Flow.MaxQty); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Flow.Orders < 0 {
		return fmt.Errorf("flow orders must be >= 0, got %d", c.Flow.Orders)
	}
	if c.Flow.Spread <= 0 {
		return fmt.Errorf("flow spread must be > 0, got %d", c.Flow.Spread)
	}
	if c.Flow.MaxQty == 0 {
		return fmt.Errorf("flow max quantity must be > 0")
	}
	return nil
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envInt64(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envUint64(key string, def uint64) (uint64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
