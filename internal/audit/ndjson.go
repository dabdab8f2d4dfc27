package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"sync"
)

// NDJSONSink appends trade events as one JSON object per line.
type NDJSONSink struct {
	file   *os.File
	writer *bufio.Writer
	mu     sync.Mutex
}

func NewNDJSONSink(path string) (*NDJSONSink, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &NDJSONSink{
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

func (s *NDJSONSink) Append(event TradeEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := s.writer.Write(append(payload, '\n')); err != nil {
		return err
	}
	return s.writer.Flush()
}

func (s *NDJSONSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writer.Flush(); err != nil {
		_ = s.file.Close()
		return err
	}
	return s.file.Close()
}
