package strategy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smabot/internal/market"
)

func point(fast, slow string) market.Point {
	return market.Point{
		Fast: decimal.RequireFromString(fast),
		Slow: decimal.RequireFromString(slow),
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		prev market.Point
		curr market.Point
		want Signal
	}{
		{"fast crosses above", point("1.5", "2"), point("3", "2"), Buy},
		{"fast crosses below", point("2", "1.5"), point("2", "3"), Sell},
		{"fast stays above", point("3", "2"), point("4", "2"), Hold},
		{"fast stays below", point("1", "2"), point("1.5", "2"), Hold},
		{"equal at both points", point("2", "2"), point("2", "2"), Hold},
		{"tie then above fires buy", point("2", "2"), point("2.1", "2"), Buy},
		{"tie then below fires sell", point("2", "2"), point("1.9", "2"), Sell},
		{"above then tie defers", point("3", "2"), point("2", "2"), Hold},
		{"below then tie defers", point("1", "2"), point("2", "2"), Hold},
	}

	var cross Crossover
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cross.Classify(tt.prev, tt.curr))
		})
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	var cross Crossover
	prev, curr := point("1.5", "2"), point("3", "2")

	first := cross.Classify(prev, curr)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, cross.Classify(prev, curr))
	}
}

func TestLatestRequiresTwoPoints(t *testing.T) {
	var cross Crossover

	_, err := cross.Latest(nil)
	assert.ErrorIs(t, err, market.ErrInsufficientData)

	_, err = cross.Latest([]market.Point{point("1", "2")})
	assert.ErrorIs(t, err, market.ErrInsufficientData)
}

func TestLatestUsesLastTwoPoints(t *testing.T) {
	var cross Crossover
	points := []market.Point{
		point("9", "2"), // stale crossing, must be ignored
		point("1.5", "2"),
		point("3", "2"),
	}

	signal, err := cross.Latest(points)
	require.NoError(t, err)
	assert.Equal(t, Buy, signal)
}
