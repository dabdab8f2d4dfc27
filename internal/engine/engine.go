package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"smabot/internal/audit"
	"smabot/internal/config"
	"smabot/internal/exchange"
	"smabot/internal/market"
	"smabot/internal/position"
	"smabot/internal/strategy"
)

// Engine runs one evaluation cycle at a time: account snapshot, candle
// fetch, moving averages, crossover signal, position decision, order
// execution, audit. Cycles are serialized by the caller and never overlap.
type Engine struct {
	cfg      config.Config
	gateway  exchange.Gateway
	machine  *position.Machine
	cross    strategy.Crossover
	executor *Executor
	sink     audit.Sink
	log      *logrus.Logger

	runID     string
	orderSeq  uint64
	lastTrade *audit.TradeEvent
}

func New(cfg config.Config, gateway exchange.Gateway, sink audit.Sink, log *logrus.Logger, runID string) *Engine {
	return &Engine{
		cfg:      cfg,
		gateway:  gateway,
		machine:  position.NewMachine(cfg.TradeQuantity),
		executor: NewExecutor(gateway, log),
		sink:     sink,
		log:      log,
		runID:    runID,
	}
}

// Start probes the exchange and seeds the position from the account
// snapshot. It must succeed before the first cycle runs; a previous run
// may have been interrupted mid-order, so remembered state is never
// trusted over the exchange's.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.gateway.Ping(ctx); err != nil {
		return fmt.Errorf("exchange unreachable: %w", err)
	}
	snap, err := e.gateway.AccountSnapshot(ctx, e.cfg.BaseAsset, e.cfg.QuoteAsset)
	if err != nil {
		return fmt.Errorf("seed position: %w", err)
	}
	e.machine.Seed(snap)
	e.log.WithFields(logrus.Fields{
		"run_id":     e.runID,
		"symbol":     e.cfg.Symbol,
		"position":   e.machine.Position().Side,
		"base_free":  snap.BaseFree,
		"quote_free": snap.QuoteFree,
	}).Info("position seeded from account")
	return nil
}

// RunCycle executes one cycle and absorbs every error at the boundary:
// recoverable conditions log a warning and the next tick retries from
// unchanged state, everything else logs an error for the operator.
func (e *Engine) RunCycle(ctx context.Context) {
	err := e.cycle(ctx)
	if err == nil {
		return
	}

	var uncertain *OrderUncertainError
	var rejected *OrderRejectedError
	var gerr *exchange.GatewayError
	switch {
	case errors.As(err, &uncertain):
		e.log.WithError(err).Error("order outcome unknown, position frozen until reconciliation; operator attention required")
	case errors.As(err, &rejected):
		e.log.WithError(err).Error("order rejected, position unchanged")
	case errors.Is(err, market.ErrInsufficientData):
		e.log.WithError(err).Warn("skipping cycle, waiting for more data")
	case errors.As(err, &gerr) && gerr.Kind == exchange.KindAuth:
		e.log.WithError(err).Error("authentication failed, this will not self-heal")
	case errors.As(err, &gerr):
		e.log.WithError(err).Warn("gateway unavailable, retrying next cycle")
	default:
		e.log.WithError(err).Error("cycle failed")
	}
}

func (e *Engine) cycle(ctx context.Context) error {
	snap, err := e.gateway.AccountSnapshot(ctx, e.cfg.BaseAsset, e.cfg.QuoteAsset)
	if err != nil {
		return fmt.Errorf("refresh account: %w", err)
	}
	if drift, ok := e.machine.CheckDrift(snap); ok {
		e.log.WithFields(logrus.Fields{
			"believed":  drift.Believed,
			"derived":   drift.Derived,
			"base_free": drift.BaseFree,
		}).Warn("state drift detected, trusting account over memory")
		e.machine.Seed(snap)
	}

	series, err := e.gateway.Candles(ctx, e.cfg.Symbol, e.cfg.CandleInterval, e.cfg.CandleLimit)
	if err != nil {
		return fmt.Errorf("fetch candles: %w", err)
	}
	points, err := market.SMAPoints(series, e.cfg.FastWindow, e.cfg.SlowWindow)
	if err != nil {
		return err
	}
	signal, err := e.cross.Latest(points)
	if err != nil {
		return err
	}

	e.logStatus(series, points, signal)

	side, ok := e.machine.Plan(signal)
	if !ok {
		return nil
	}

	req := exchange.OrderRequest{
		Symbol:        e.cfg.Symbol,
		Side:          side,
		Quantity:      e.machine.Quantity(side),
		ClientOrderID: e.nextClientOrderID(),
	}
	result, execErr := e.executor.Execute(ctx, req)
	e.appendAudit(signal, req, result, execErr)
	if execErr != nil {
		return execErr
	}

	if err := e.machine.Commit(side, result); err != nil {
		return fmt.Errorf("commit transition: %w", err)
	}
	return nil
}

// Position exposes the current belief, mainly for status reporting.
func (e *Engine) Position() position.Position {
	return e.machine.Position()
}

func (e *Engine) logStatus(series *market.Series, points []market.Point, signal strategy.Signal) {
	latest := points[len(points)-1]
	fields := logrus.Fields{
		"position": e.machine.Position().Side,
		"signal":   signal,
		"fast":     latest.Fast,
		"slow":     latest.Slow,
	}
	if last, ok := series.Last(); ok {
		fields["close"] = last.Close
	}
	if e.lastTrade != nil {
		fields["last_trade"] = fmt.Sprintf("%s %s @ %s", e.lastTrade.Side, e.lastTrade.FilledQuantity, e.lastTrade.AvgPrice)
	}
	e.log.WithFields(fields).Info("cycle evaluated")
}

func (e *Engine) appendAudit(signal strategy.Signal, req exchange.OrderRequest, result exchange.OrderResult, execErr error) {
	event := audit.TradeEvent{
		ID:            uuid.NewString(),
		RunID:         e.runID,
		Timestamp:     time.Now().UTC(),
		Symbol:        req.Symbol,
		Signal:        string(signal),
		Side:          string(req.Side),
		Quantity:      req.Quantity.String(),
		ClientOrderID: req.ClientOrderID,
	}
	switch {
	case execErr == nil:
		event.Result = audit.ResultExecuted
		event.OrderID = result.OrderID
		event.Status = result.Status
		event.FilledQuantity = result.FilledQuantity.String()
		event.AvgPrice = result.AvgPrice.String()
		e.lastTrade = &event
	default:
		var uncertain *OrderUncertainError
		if errors.As(execErr, &uncertain) {
			event.Result = audit.ResultUncertain
		} else {
			event.Result = audit.ResultRejected
			event.Status = result.Status
		}
		event.Error = execErr.Error()
	}

	// Sink trouble must never alter trading behavior.
	if err := e.sink.Append(event); err != nil {
		e.log.WithError(err).Error("audit sink append failed")
	}
}

func (e *Engine) nextClientOrderID() string {
	seq := atomic.AddUint64(&e.orderSeq, 1)
	return fmt.Sprintf("%s-%d", e.runID, seq)
}
