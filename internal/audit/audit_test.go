package audit

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent(id string) TradeEvent {
	return TradeEvent{
		ID:             id,
		RunID:          "run-1",
		Timestamp:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Symbol:         "BTCUSDC",
		Signal:         "BUY",
		Side:           "BUY",
		Quantity:       "0.01",
		ClientOrderID:  "run-1-1",
		OrderID:        "42",
		Status:         "FILLED",
		FilledQuantity: "0.01",
		AvgPrice:       "50000",
		Result:         ResultExecuted,
	}
}

func TestNDJSONSinkAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.ndjson")
	sink, err := NewNDJSONSink(path)
	require.NoError(t, err)

	require.NoError(t, sink.Append(sampleEvent("a")))
	require.NoError(t, sink.Append(sampleEvent("b")))
	require.NoError(t, sink.Close())

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	var events []TradeEvent
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var event TradeEvent
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &event))
		events = append(events, event)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, events, 2)
	assert.Equal(t, "a", events[0].ID)
	assert.Equal(t, "BTCUSDC", events[0].Symbol)
	assert.Equal(t, ResultExecuted, events[1].Result)
}

func TestSQLiteSinkRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	sink, err := NewSQLiteSink(path)
	require.NoError(t, err)
	defer sink.Close()

	first := sampleEvent("a")
	second := sampleEvent("b")
	second.Timestamp = first.Timestamp.Add(time.Hour)
	second.Result = ResultUncertain
	second.Error = "context deadline exceeded"

	require.NoError(t, sink.Append(first))
	require.NoError(t, sink.Append(second))

	events, err := sink.Events("run-1", 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// newest first
	assert.Equal(t, "b", events[0].ID)
	assert.Equal(t, ResultUncertain, events[0].Result)
	assert.Equal(t, "context deadline exceeded", events[0].Error)
	assert.Equal(t, first.Timestamp, events[1].Timestamp)
}

func TestSQLiteSinkRejectsDuplicateID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	sink, err := NewSQLiteSink(path)
	require.NoError(t, err)
	defer sink.Close()

	require.NoError(t, sink.Append(sampleEvent("a")))
	assert.Error(t, sink.Append(sampleEvent("a")))
}

type failingSink struct{ closed bool }

func (f *failingSink) Append(TradeEvent) error { return errors.New("sink down") }
func (f *failingSink) Close() error            { f.closed = true; return nil }

func TestMultiSinkKeepsGoingPastFailures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.db")
	store, err := NewSQLiteSink(path)
	require.NoError(t, err)

	failing := &failingSink{}
	multi := MultiSink{failing, store}

	err = multi.Append(sampleEvent("a"))
	assert.Error(t, err) // failure surfaced...

	events, qerr := store.Events("run-1", 10)
	require.NoError(t, qerr)
	assert.Len(t, events, 1) // ...but the healthy sink still got the event

	require.NoError(t, multi.Close())
	assert.True(t, failing.closed)
}
