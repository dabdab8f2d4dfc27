package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		APIKey:         "key",
		SecretKey:      "secret",
		Symbol:         "BTCUSDC",
		BaseAsset:      "BTC",
		QuoteAsset:     "USDC",
		CandleInterval: "1h",
		CandleLimit:    500,
		FastWindow:     7,
		SlowWindow:     25,
		TradeQuantity:  decimal.RequireFromString("0.01"),
		CycleInterval:  time.Hour,
		HTTPTimeout:    15 * time.Second,
	}
}

func TestValidateAcceptsValidConfig(t *testing.T) {
	assert.NoError(t, validate(validConfig()))
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"fast window not below slow", func(c *Config) { c.FastWindow = 7; c.SlowWindow = 5 }},
		{"equal windows", func(c *Config) { c.FastWindow = 10; c.SlowWindow = 10 }},
		{"zero fast window", func(c *Config) { c.FastWindow = 0 }},
		{"zero trade quantity", func(c *Config) { c.TradeQuantity = decimal.Zero }},
		{"negative trade quantity", func(c *Config) { c.TradeQuantity = decimal.RequireFromString("-1") }},
		{"limit below slow window", func(c *Config) { c.CandleLimit = 20 }},
		{"zero cycle interval", func(c *Config) { c.CycleInterval = 0 }},
		{"zero http timeout", func(c *Config) { c.HTTPTimeout = 0 }},
		{"empty symbol", func(c *Config) { c.Symbol = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			assert.Error(t, validate(cfg))
		})
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("BINANCE_API_KEY", "key")
	t.Setenv("BINANCE_SECRET_KEY", "secret")
	t.Setenv("TRADE_QUANTITY", "0.002")
	t.Setenv("TRADING_PAIR", "ETHUSDC")
	t.Setenv("BASE_ASSET", "ETH")
	t.Setenv("FAST_WINDOW", "5")
	t.Setenv("SLOW_WINDOW", "20")
	t.Setenv("CYCLE_INTERVAL", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ETHUSDC", cfg.Symbol)
	assert.Equal(t, "ETH", cfg.BaseAsset)
	assert.Equal(t, "USDC", cfg.QuoteAsset) // default
	assert.Equal(t, 5, cfg.FastWindow)
	assert.Equal(t, 20, cfg.SlowWindow)
	assert.Equal(t, 30*time.Minute, cfg.CycleInterval)
	assert.True(t, cfg.TradeQuantity.Equal(decimal.RequireFromString("0.002")))
	assert.Equal(t, 500, cfg.CandleLimit) // default
}

func TestLoadFailsFastOnInvertedWindows(t *testing.T) {
	t.Setenv("BINANCE_API_KEY", "key")
	t.Setenv("BINANCE_SECRET_KEY", "secret")
	t.Setenv("TRADE_QUANTITY", "0.002")
	t.Setenv("FAST_WINDOW", "7")
	t.Setenv("SLOW_WINDOW", "5")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRequiresCredentials(t *testing.T) {
	t.Setenv("BINANCE_API_KEY", "")
	t.Setenv("BINANCE_SECRET_KEY", "")
	t.Setenv("TRADE_QUANTITY", "0.002")

	_, err := Load()
	assert.Error(t, err)
}
