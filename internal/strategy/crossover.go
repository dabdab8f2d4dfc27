package strategy

import (
	"fmt"

	"smabot/internal/market"
)

// Crossover classifies the two most recent moving-average points.
// BUY when the fast average crosses above the slow, SELL when it crosses
// below, HOLD otherwise. A tie (fast == slow) counts as "not yet crossed":
// the signal fires only on the next strict inequality, which keeps flat
// markets from flapping.
type Crossover struct{}

// Classify is a pure function of the two points; curr must be the later one.
func (Crossover) Classify(prev, curr market.Point) Signal {
	if prev.Fast.LessThanOrEqual(prev.Slow) && curr.Fast.GreaterThan(curr.Slow) {
		return Buy
	}
	if prev.Fast.GreaterThanOrEqual(prev.Slow) && curr.Fast.LessThan(curr.Slow) {
		return Sell
	}
	return Hold
}

// Latest classifies the last two points of a series. Fewer than two points
// is reported as insufficient data rather than HOLD, so callers can tell
// "no data" from "no signal".
func (c Crossover) Latest(points []market.Point) (Signal, error) {
	if len(points) < 2 {
		return Hold, fmt.Errorf("%w: need two moving average points, have %d", market.ErrInsufficientData, len(points))
	}
	return c.Classify(points[len(points)-2], points[len(points)-1]), nil
}
