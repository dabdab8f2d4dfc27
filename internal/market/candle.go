package market

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInsufficientData is returned when a series is too short for the
// requested computation. Callers treat it as recoverable and wait for
// more candles.
var ErrInsufficientData = errors.New("insufficient market data")

// Candle is one historical price bar. Immutable once received.
type Candle struct {
	OpenTime time.Time
	Open     decimal.Decimal
	High     decimal.Decimal
	Low      decimal.Decimal
	Close    decimal.Decimal
	Volume   decimal.Decimal
}

// Series holds the ordered candle history for one (symbol, interval) pair.
// Open times are strictly increasing.
type Series struct {
	Symbol   string
	Interval string
	candles  []Candle
}

func NewSeries(symbol, interval string, candles []Candle) (*Series, error) {
	for i := 1; i < len(candles); i++ {
		if !candles[i].OpenTime.After(candles[i-1].OpenTime) {
			return nil, fmt.Errorf("candle %d open time %s not after previous %s",
				i, candles[i].OpenTime.Format(time.RFC3339), candles[i-1].OpenTime.Format(time.RFC3339))
		}
	}
	return &Series{Symbol: symbol, Interval: interval, candles: candles}, nil
}

func (s *Series) Len() int {
	return len(s.candles)
}

func (s *Series) At(i int) Candle {
	return s.candles[i]
}

// Last returns the most recent candle.
func (s *Series) Last() (Candle, bool) {
	if len(s.candles) == 0 {
		return Candle{}, false
	}
	return s.candles[len(s.candles)-1], true
}

// Closes returns the close prices in series order.
func (s *Series) Closes() []decimal.Decimal {
	closes := make([]decimal.Decimal, len(s.candles))
	for i, c := range s.candles {
		closes[i] = c.Close
	}
	return closes
}
