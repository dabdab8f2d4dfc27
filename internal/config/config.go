package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// Config is static per run and read entirely from the environment.
type Config struct {
	APIKey    string `envconfig:"BINANCE_API_KEY" required:"true"`
	SecretKey string `envconfig:"BINANCE_SECRET_KEY" required:"true"`

	Symbol     string `envconfig:"TRADING_PAIR" default:"BTCUSDC"`
	BaseAsset  string `envconfig:"BASE_ASSET" default:"BTC"`
	QuoteAsset string `envconfig:"QUOTE_ASSET" default:"USDC"`

	CandleInterval string `envconfig:"CANDLE_INTERVAL" default:"1h"`
	CandleLimit    int    `envconfig:"CANDLE_LIMIT" default:"500"`
	FastWindow     int    `envconfig:"FAST_WINDOW" default:"7"`
	SlowWindow     int    `envconfig:"SLOW_WINDOW" default:"25"`

	TradeQuantity decimal.Decimal `envconfig:"TRADE_QUANTITY" required:"true"`
	CycleInterval time.Duration   `envconfig:"CYCLE_INTERVAL" default:"1h"`
	HTTPTimeout   time.Duration   `envconfig:"HTTP_TIMEOUT" default:"15s"`

	AuditDBPath  string `envconfig:"AUDIT_DB_PATH" default:"trade_events.db"`
	TradeLogPath string `envconfig:"TRADE_LOG_PATH" default:"trade_events.ndjson"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	LogJSON      bool   `envconfig:"LOG_JSON" default:"false"`
}

// Load reads .env if present (real environment wins), maps the environment
// onto Config and validates it. The process must not start a single cycle
// on an invalid configuration.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.Symbol == "" || cfg.BaseAsset == "" || cfg.QuoteAsset == "" {
		return fmt.Errorf("trading pair and both assets are required")
	}
	if cfg.FastWindow < 1 {
		return fmt.Errorf("fast window must be >= 1, got %d", cfg.FastWindow)
	}
	if cfg.FastWindow >= cfg.SlowWindow {
		return fmt.Errorf("fast window %d must be smaller than slow window %d", cfg.FastWindow, cfg.SlowWindow)
	}
	if cfg.CandleLimit < cfg.SlowWindow+1 {
		return fmt.Errorf("candle limit %d cannot cover slow window %d", cfg.CandleLimit, cfg.SlowWindow)
	}
	if !cfg.TradeQuantity.IsPositive() {
		return fmt.Errorf("trade quantity must be > 0, got %s", cfg.TradeQuantity)
	}
	if cfg.CycleInterval <= 0 {
		return fmt.Errorf("cycle interval must be > 0")
	}
	if cfg.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be > 0")
	}
	return nil
}
