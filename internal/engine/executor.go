package engine

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"smabot/internal/exchange"
)

// Executor submits exactly one market order per approved transition and
// classifies the outcome. It never retries: a blind retry of a market
// order risks a duplicate fill.
type Executor struct {
	gateway exchange.Gateway
	log     *logrus.Logger
}

func NewExecutor(gateway exchange.Gateway, log *logrus.Logger) *Executor {
	return &Executor{gateway: gateway, log: log}
}

// Execute returns the order result on success, *OrderRejectedError when
// the exchange confirmed refusal, and *OrderUncertainError when the
// outcome is unknown. In both error cases the caller must leave the
// position unchanged.
func (x *Executor) Execute(ctx context.Context, req exchange.OrderRequest) (exchange.OrderResult, error) {
	if !req.Quantity.IsPositive() {
		return exchange.OrderResult{}, &OrderRejectedError{Request: req, Reason: "non-positive quantity"}
	}

	result, err := x.gateway.PlaceMarketOrder(ctx, req)
	if err != nil {
		var gerr *exchange.GatewayError
		if errors.As(err, &gerr) && gerr.Kind != exchange.KindNetwork {
			// The exchange answered: nothing was placed.
			return exchange.OrderResult{}, &OrderRejectedError{Request: req, Reason: string(gerr.Kind), Err: err}
		}
		return exchange.OrderResult{}, &OrderUncertainError{Request: req, Err: err}
	}

	if !result.Accepted {
		return result, &OrderRejectedError{Request: req, Reason: result.Status}
	}

	x.log.WithFields(logrus.Fields{
		"symbol":   req.Symbol,
		"side":     req.Side,
		"qty":      req.Quantity,
		"order_id": result.OrderID,
		"filled":   result.FilledQuantity,
		"avg":      result.AvgPrice,
	}).Info("order executed")
	return result, nil
}
