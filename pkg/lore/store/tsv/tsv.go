// Package tsv writes run output as plain text, one record per line.
package tsv

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/kedarbellare/lore/pkg/lore/internalerr"
	"github.com/kedarbellare/lore/pkg/lore/store"
)

// Sink writes records to a stream. Failures are not written; the stream
// carries records only.
type Sink struct {
	mu     sync.Mutex
	w      *bufio.Writer
	closer io.Closer
	closed bool
}

var _ store.Sink = (*Sink)(nil)

// New writes to w. Close flushes but does not close w.
func New(w io.Writer) *Sink {
	return &Sink{w: bufio.NewWriter(w)}
}

// Create writes to a new file at path, truncating any existing one.
func Create(path string) (*Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &Sink{w: bufio.NewWriter(f), closer: f}, nil
}

// Begin implements store.Sink.
func (s *Sink) Begin(ctx context.Context, run store.Run) error { return nil }

// Write emits the records of one document contiguously.
func (s *Sink) Write(ctx context.Context, fileID string, records []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("write %s: %w", fileID, internalerr.ErrStoreUnavailable)
	}
	for _, r := range records {
		if _, err := s.w.WriteString(r); err != nil {
			return err
		}
		if err := s.w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return nil
}

// Fail implements store.Sink.
func (s *Sink) Fail(ctx context.Context, fileID string, err error) error { return nil }

// Finish flushes buffered output.
func (s *Sink) Finish(ctx context.Context, stats store.Stats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Flush()
}

// Close flushes buffered output and closes the file opened by Create.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.w.Flush()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
