package audit

import (
	"errors"
	"time"
)

// TradeEvent is the write-once record of one order attempt. Events are
// appended for every attempt, including rejected and uncertain ones, and
// never mutated.
type TradeEvent struct {
	ID             string    `json:"id"`
	RunID          string    `json:"run_id"`
	Timestamp      time.Time `json:"timestamp"`
	Symbol         string    `json:"symbol"`
	Signal         string    `json:"signal"`
	Side           string    `json:"side"`
	Quantity       string    `json:"quantity"`
	ClientOrderID  string    `json:"client_order_id"`
	OrderID        string    `json:"order_id,omitempty"`
	Status         string    `json:"status,omitempty"`
	FilledQuantity string    `json:"filled_quantity,omitempty"`
	AvgPrice       string    `json:"avg_price,omitempty"`
	Result         string    `json:"result"`
	Error          string    `json:"error,omitempty"`
}

// Result values for TradeEvent.
const (
	ResultExecuted  = "executed"
	ResultRejected  = "rejected"
	ResultUncertain = "uncertain"
)

// Sink receives trade events. A failing sink degrades observability only;
// callers log the error and keep trading.
type Sink interface {
	Append(event TradeEvent) error
	Close() error
}

// MultiSink fans an event out to every sink.
type MultiSink []Sink

func (m MultiSink) Append(event TradeEvent) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Append(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiSink) Close() error {
	var errs []error
	for _, sink := range m {
		if err := sink.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
