package exchange

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"smabot/internal/market"
)

// Binance implements Gateway against the Binance spot REST API.
type Binance struct {
	client *binance.Client
	log    *logrus.Logger
}

func NewBinance(apiKey, secretKey string, timeout time.Duration, log *logrus.Logger) *Binance {
	client := binance.NewClient(apiKey, secretKey)
	client.HTTPClient = &http.Client{Timeout: timeout}
	return &Binance{client: client, log: log}
}

func (b *Binance) Ping(ctx context.Context) error {
	if err := b.client.NewPingService().Do(ctx); err != nil {
		return classify("ping", err)
	}
	return nil
}

func (b *Binance) Candles(ctx context.Context, symbol, interval string, limit int) (*market.Series, error) {
	klines, err := b.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return nil, classify("candles", err)
	}

	candles := make([]market.Candle, 0, len(klines))
	for _, kl := range klines {
		if kl == nil {
			continue
		}
		c, err := toCandle(kl)
		if err != nil {
			return nil, fmt.Errorf("kline for %s at %d: %w", symbol, kl.OpenTime, err)
		}
		candles = append(candles, c)
	}
	return market.NewSeries(symbol, interval, candles)
}

func (b *Binance) AccountSnapshot(ctx context.Context, baseAsset, quoteAsset string) (AccountSnapshot, error) {
	account, err := b.client.NewGetAccountService().Do(ctx)
	if err != nil {
		return AccountSnapshot{}, classify("account", err)
	}

	snap := AccountSnapshot{FetchedAt: time.Now().UTC()}
	for _, balance := range account.Balances {
		switch balance.Asset {
		case baseAsset:
			free, err := decimal.NewFromString(balance.Free)
			if err != nil {
				return AccountSnapshot{}, fmt.Errorf("free balance %q for %s: %w", balance.Free, balance.Asset, err)
			}
			snap.BaseFree = free
		case quoteAsset:
			free, err := decimal.NewFromString(balance.Free)
			if err != nil {
				return AccountSnapshot{}, fmt.Errorf("free balance %q for %s: %w", balance.Free, balance.Asset, err)
			}
			snap.QuoteFree = free
		}
	}
	return snap, nil
}

func (b *Binance) PlaceMarketOrder(ctx context.Context, req OrderRequest) (OrderResult, error) {
	side := binance.SideTypeBuy
	if req.Side == SideSell {
		side = binance.SideTypeSell
	}

	order, err := b.client.NewCreateOrderService().
		Symbol(req.Symbol).
		Side(side).
		Type(binance.OrderTypeMarket).
		Quantity(req.Quantity.String()).
		NewClientOrderID(req.ClientOrderID).
		Do(ctx)
	if err != nil {
		b.log.WithFields(logrus.Fields{
			"symbol": req.Symbol,
			"side":   req.Side,
			"qty":    req.Quantity,
		}).WithError(err).Error("place order failed")
		return OrderResult{}, classify("place_order", err)
	}

	result, err := toOrderResult(order)
	if err != nil {
		return OrderResult{}, err
	}
	b.log.WithFields(logrus.Fields{
		"symbol":   req.Symbol,
		"side":     req.Side,
		"order_id": result.OrderID,
		"status":   result.Status,
		"filled":   result.FilledQuantity,
	}).Info("place order acknowledged")
	return result, nil
}

func toCandle(kl *binance.Kline) (market.Candle, error) {
	var c market.Candle
	var err error
	if c.Open, err = decimal.NewFromString(kl.Open); err != nil {
		return c, fmt.Errorf("open %q: %w", kl.Open, err)
	}
	if c.High, err = decimal.NewFromString(kl.High); err != nil {
		return c, fmt.Errorf("high %q: %w", kl.High, err)
	}
	if c.Low, err = decimal.NewFromString(kl.Low); err != nil {
		return c, fmt.Errorf("low %q: %w", kl.Low, err)
	}
	if c.Close, err = decimal.NewFromString(kl.Close); err != nil {
		return c, fmt.Errorf("close %q: %w", kl.Close, err)
	}
	if c.Volume, err = decimal.NewFromString(kl.Volume); err != nil {
		return c, fmt.Errorf("volume %q: %w", kl.Volume, err)
	}
	c.OpenTime = time.UnixMilli(kl.OpenTime).UTC()
	return c, nil
}

func toOrderResult(order *binance.CreateOrderResponse) (OrderResult, error) {
	executed, err := decimal.NewFromString(order.ExecutedQuantity)
	if err != nil {
		return OrderResult{}, fmt.Errorf("executed quantity %q: %w", order.ExecutedQuantity, err)
	}
	cumQuote, err := decimal.NewFromString(order.CummulativeQuoteQuantity)
	if err != nil {
		return OrderResult{}, fmt.Errorf("cumulative quote %q: %w", order.CummulativeQuoteQuantity, err)
	}

	avgPrice := decimal.Zero
	if executed.IsPositive() {
		avgPrice = cumQuote.Div(executed)
	}

	status := string(order.Status)
	return OrderResult{
		Accepted:       orderAccepted(order.Status),
		OrderID:        fmt.Sprintf("%d", order.OrderID),
		ClientOrderID:  order.ClientOrderID,
		Status:         status,
		FilledQuantity: executed,
		AvgPrice:       avgPrice,
		TransactTime:   time.UnixMilli(order.TransactTime).UTC(),
	}, nil
}

func orderAccepted(status binance.OrderStatusType) bool {
	switch status {
	case binance.OrderStatusTypeNew, binance.OrderStatusTypePartiallyFilled, binance.OrderStatusTypeFilled:
		return true
	}
	return false
}

// Binance error codes that indicate a credential problem or throttling.
// Everything else the API returns is a confirmed rejection; transport
// failures leave the outcome unknown and are classified NETWORK.
func classify(op string, err error) error {
	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		kind := KindRejected
		switch apiErr.Code {
		case -1002, -2014, -2015:
			kind = KindAuth
		case -1003, -1015:
			kind = KindRateLimit
		}
		return &GatewayError{Kind: kind, Op: op, Err: err}
	}
	return &GatewayError{Kind: KindNetwork, Op: op, Err: err}
}
