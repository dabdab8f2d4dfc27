package engine

import (
	"fmt"

	"smabot/internal/exchange"
)

// OrderRejectedError means the exchange confirmed it did not place the
// order. The position is unchanged and no retry happens inside the cycle.
type OrderRejectedError struct {
	Request exchange.OrderRequest
	Reason  string
	Err     error
}

func (e *OrderRejectedError) Error() string {
	return fmt.Sprintf("order %s %s %s rejected: %s", e.Request.Side, e.Request.Quantity, e.Request.Symbol, e.Reason)
}

func (e *OrderRejectedError) Unwrap() error {
	return e.Err
}

// OrderUncertainError means the call failed in a way that leaves the
// exchange-side outcome unknown. The position stays frozen until the next
// account reconciliation; an operator should look before trusting it.
type OrderUncertainError struct {
	Request exchange.OrderRequest
	Err     error
}

func (e *OrderUncertainError) Error() string {
	return fmt.Sprintf("order %s %s %s outcome unknown: %v", e.Request.Side, e.Request.Quantity, e.Request.Symbol, e.Err)
}

func (e *OrderUncertainError) Unwrap() error {
	return e.Err
}
