package strategy

// Signal classifies the current moment of the market.
type Signal string

const (
	Hold Signal = "HOLD"
	Buy  Signal = "BUY"
	Sell Signal = "SELL"
)
