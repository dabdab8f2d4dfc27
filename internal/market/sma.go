package market

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Point is one aligned fast/slow moving-average pair, produced for every
// candle index where both windows are full.
type Point struct {
	Time time.Time
	Fast decimal.Decimal
	Slow decimal.Decimal
}

// SMAPoints computes the simple moving averages of the close prices over
// the fast and slow windows. The result has one point per index i with
// i >= slowWindow-1, each value the arithmetic mean of the trailing window
// ending at i inclusive. The same series always yields the same points.
func SMAPoints(s *Series, fastWindow, slowWindow int) ([]Point, error) {
	if fastWindow < 1 || slowWindow < 1 {
		return nil, fmt.Errorf("windows must be >= 1, got fast=%d slow=%d", fastWindow, slowWindow)
	}
	if fastWindow >= slowWindow {
		return nil, fmt.Errorf("fast window %d must be smaller than slow window %d", fastWindow, slowWindow)
	}
	if s.Len() < slowWindow {
		return nil, fmt.Errorf("%w: have %d candles, need %d", ErrInsufficientData, s.Len(), slowWindow)
	}

	fastDiv := decimal.NewFromInt(int64(fastWindow))
	slowDiv := decimal.NewFromInt(int64(slowWindow))
	points := make([]Point, 0, s.Len()-slowWindow+1)

	var fastSum, slowSum decimal.Decimal
	for i := 0; i < s.Len(); i++ {
		c := s.At(i)
		fastSum = fastSum.Add(c.Close)
		slowSum = slowSum.Add(c.Close)
		if i >= fastWindow {
			fastSum = fastSum.Sub(s.At(i - fastWindow).Close)
		}
		if i >= slowWindow {
			slowSum = slowSum.Sub(s.At(i - slowWindow).Close)
		}
		if i >= slowWindow-1 {
			points = append(points, Point{
				Time: c.OpenTime,
				Fast: fastSum.Div(fastDiv),
				Slow: slowSum.Div(slowDiv),
			})
		}
	}
	return points, nil
}
