package audit

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const tradeEventsSchema = `
CREATE TABLE IF NOT EXISTS trade_events (
	id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	ts INTEGER NOT NULL,
	symbol TEXT NOT NULL,
	signal TEXT NOT NULL,
	side TEXT NOT NULL,
	quantity TEXT NOT NULL,
	client_order_id TEXT NOT NULL,
	order_id TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT '',
	filled_quantity TEXT NOT NULL DEFAULT '',
	avg_price TEXT NOT NULL DEFAULT '',
	result TEXT NOT NULL,
	error TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_trade_events_run ON trade_events(run_id, ts);
`

// SQLiteSink persists trade events for later inspection. Append-only:
// nothing in the bot updates or deletes rows.
type SQLiteSink struct {
	mu sync.Mutex
	db *sql.DB
}

func NewSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open trade event store: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(tradeEventsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init trade event schema: %w", err)
	}
	return &SQLiteSink{db: db}, nil
}

func (s *SQLiteSink) Append(event TradeEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`
		INSERT INTO trade_events
			(id, run_id, ts, symbol, signal, side, quantity, client_order_id,
			 order_id, status, filled_quantity, avg_price, result, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.RunID, event.Timestamp.UnixMilli(), event.Symbol,
		event.Signal, event.Side, event.Quantity, event.ClientOrderID,
		event.OrderID, event.Status, event.FilledQuantity, event.AvgPrice,
		event.Result, event.Error,
	)
	if err != nil {
		return fmt.Errorf("insert trade event %s: %w", event.ID, err)
	}
	return nil
}

// Events returns the most recent events for a run, newest first.
func (s *SQLiteSink) Events(runID string, limit int) ([]TradeEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(`
		SELECT id, run_id, ts, symbol, signal, side, quantity, client_order_id,
		       order_id, status, filled_quantity, avg_price, result, error
		FROM trade_events WHERE run_id = ? ORDER BY ts DESC LIMIT ?`,
		runID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []TradeEvent
	for rows.Next() {
		var event TradeEvent
		var ts int64
		if err := rows.Scan(
			&event.ID, &event.RunID, &ts, &event.Symbol, &event.Signal,
			&event.Side, &event.Quantity, &event.ClientOrderID, &event.OrderID,
			&event.Status, &event.FilledQuantity, &event.AvgPrice,
			&event.Result, &event.Error,
		); err != nil {
			return nil, err
		}
		event.Timestamp = time.UnixMilli(ts).UTC()
		events = append(events, event)
	}
	return events, rows.Err()
}

func (s *SQLiteSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
