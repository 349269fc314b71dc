package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries everything the trading client needs from the environment.
// The client core never reads env vars itself; this loader is the only
// place credential material enters the process.
type Config struct {
	Symbol  string
	BaseURL string

	// Binance API credential. SecretKey selects HMAC signing,
	// PrivateKeyPath selects Ed25519; exactly one must be set.
	ApiKey         string
	SecretKey      string
	PrivateKeyPath string

	RecvWindowMs int64

	LogFile     string
	JournalFile string
}

func Load() (*Config, error) {
	// A missing .env file is fine; the environment may be set directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := &Config{}

	cfg.Symbol = os.Getenv("SYMBOL")
	if cfg.Symbol == "" {
		return nil, fmt.Errorf("SYMBOL is required")
	}

	cfg.BaseURL = os.Getenv("BASE_URL")

	cfg.ApiKey = os.Getenv("BINANCE_API_KEY")
	if cfg.ApiKey == "" {
		return nil, fmt.Errorf("BINANCE_API_KEY is required")
	}

	cfg.SecretKey = os.Getenv("BINANCE_SECRET_KEY")
	cfg.PrivateKeyPath = os.Getenv("BINANCE_PRIVATE_KEY_PATH")
	if cfg.SecretKey == "" && cfg.PrivateKeyPath == "" {
		return nil, fmt.Errorf("BINANCE_SECRET_KEY or BINANCE_PRIVATE_KEY_PATH is required")
	}
	if cfg.SecretKey != "" && cfg.PrivateKeyPath != "" {
		return nil, fmt.Errorf("BINANCE_SECRET_KEY and BINANCE_PRIVATE_KEY_PATH are mutually exclusive")
	}

	if val := os.Getenv("RECV_WINDOW_MS"); val != "" {
		var err error
		cfg.RecvWindowMs, err = parseInt64(val, "RECV_WINDOW_MS")
		if err != nil {
			return nil, err
		}
	} else {
		cfg.RecvWindowMs = 5000
	}

	cfg.LogFile = os.Getenv("LOG_FILE")
	if cfg.LogFile == "" {
		cfg.LogFile = "logs/app.log"
	}

	cfg.JournalFile = os.Getenv("JOURNAL_FILE")
	if cfg.JournalFile == "" {
		cfg.JournalFile = "orders.json"
	}

	return cfg, nil
}

func parseInt64(value, name string) (int64, error) {
	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", name, err)
	}
	return i, nil
}
