package exchange

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"smabot/internal/market"
)

// Side is the direction of an order.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// OrderRequest describes a single market order. Market orders are the only
// order type the bot places.
type OrderRequest struct {
	Symbol        string
	Side          Side
	Quantity      decimal.Decimal
	ClientOrderID string
}

// OrderResult is the exchange's typed answer to an order placement.
// Accepted means the exchange acknowledged the order; fill details may
// still be partial.
type OrderResult struct {
	Accepted       bool
	OrderID        string
	ClientOrderID  string
	Status         string
	FilledQuantity decimal.Decimal
	AvgPrice       decimal.Decimal
	TransactTime   time.Time
}

// AccountSnapshot is a read-only view of the free balances backing the
// traded pair.
type AccountSnapshot struct {
	BaseFree  decimal.Decimal
	QuoteFree decimal.Decimal
	FetchedAt time.Time
}

// ErrorKind classifies gateway failures.
type ErrorKind string

const (
	KindNetwork   ErrorKind = "NETWORK"
	KindAuth      ErrorKind = "AUTH"
	KindRateLimit ErrorKind = "RATE_LIMIT"
	KindRejected  ErrorKind = "REJECTED"
)

// GatewayError wraps any failure from the exchange with its classification.
// Network errors mean the exchange-side outcome is unknown; the other kinds
// are confirmed responses.
type GatewayError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Gateway is the exchange surface the engine consumes. All calls are
// bounded by the implementation's HTTP timeout and fail with *GatewayError.
type Gateway interface {
	Ping(ctx context.Context) error
	Candles(ctx context.Context, symbol, interval string, limit int) (*market.Series, error)
	AccountSnapshot(ctx context.Context, baseAsset, quoteAsset string) (AccountSnapshot, error)
	PlaceMarketOrder(ctx context.Context, req OrderRequest) (OrderResult, error)
}
