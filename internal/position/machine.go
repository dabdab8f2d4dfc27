package position

import (
	"fmt"

	"github.com/shopspring/decimal"

	"smabot/internal/exchange"
	"smabot/internal/strategy"
)

// Side is the bot's belief about its holdings.
type Side string

const (
	Flat Side = "FLAT"
	Long Side = "LONG"
)

// Position is owned exclusively by the Machine and mutated only through a
// committed successful order, never speculatively.
type Position struct {
	Side       Side
	Quantity   decimal.Decimal
	EntryPrice decimal.Decimal
}

// Drift reports a disagreement between the believed position and the
// exchange's account balance. External reality wins: the caller logs the
// drift and reseeds from the snapshot.
type Drift struct {
	Believed Side
	Derived  Side
	BaseFree decimal.Decimal
}

// Machine decides whether a signal warrants an order and transitions the
// position only after a confirmed successful execution.
type Machine struct {
	pos      Position
	tradeQty decimal.Decimal
}

func NewMachine(tradeQty decimal.Decimal) *Machine {
	return &Machine{
		pos:      Position{Side: Flat, Quantity: decimal.Zero},
		tradeQty: tradeQty,
	}
}

func (m *Machine) Position() Position {
	return m.pos
}

// Seed derives the position from an account snapshot: LONG when the free
// base balance covers one trade quantity, FLAT otherwise. Used at startup
// and after detected drift.
func (m *Machine) Seed(snap exchange.AccountSnapshot) {
	m.pos = derive(snap, m.tradeQty)
}

// CheckDrift compares the believed side against the side a fresh snapshot
// would derive.
func (m *Machine) CheckDrift(snap exchange.AccountSnapshot) (Drift, bool) {
	derived := derive(snap, m.tradeQty)
	if derived.Side == m.pos.Side {
		return Drift{}, false
	}
	return Drift{Believed: m.pos.Side, Derived: derived.Side, BaseFree: snap.BaseFree}, true
}

// Plan maps a signal to the order side required to reach the intended
// state. The second return is false when no order is warranted: HOLD, or
// the position already satisfies the signal. At most one order per cycle
// follows from at most one Plan call per cycle.
func (m *Machine) Plan(signal strategy.Signal) (exchange.Side, bool) {
	switch {
	case signal == strategy.Buy && m.pos.Side == Flat:
		return exchange.SideBuy, true
	case signal == strategy.Sell && m.pos.Side == Long:
		return exchange.SideSell, true
	}
	return "", false
}

// Quantity returns the amount the next order for side should trade: the
// configured quantity for a buy, the held quantity for a sell.
func (m *Machine) Quantity(side exchange.Side) decimal.Decimal {
	if side == exchange.SideSell && m.pos.Quantity.IsPositive() {
		return m.pos.Quantity
	}
	return m.tradeQty
}

// Commit applies a confirmed successful order to the position. Committing
// a result the exchange did not accept is a programming error.
func (m *Machine) Commit(side exchange.Side, result exchange.OrderResult) error {
	if !result.Accepted {
		return fmt.Errorf("refusing to commit unaccepted order %s", result.OrderID)
	}
	switch side {
	case exchange.SideBuy:
		qty := result.FilledQuantity
		if !qty.IsPositive() {
			qty = m.tradeQty
		}
		m.pos = Position{Side: Long, Quantity: qty, EntryPrice: result.AvgPrice}
	case exchange.SideSell:
		m.pos = Position{Side: Flat, Quantity: decimal.Zero}
	default:
		return fmt.Errorf("unknown order side %q", side)
	}
	return nil
}

func derive(snap exchange.AccountSnapshot, tradeQty decimal.Decimal) Position {
	if snap.BaseFree.GreaterThanOrEqual(tradeQty) {
		return Position{Side: Long, Quantity: tradeQty}
	}
	return Position{Side: Flat, Quantity: decimal.Zero}
}
