package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kedarbellare/lore/pkg/lore/internalerr"
	"github.com/kedarbellare/lore/pkg/lore/store"
)

// Sink is an in-memory implementation of store.Sink for tests.
type Sink struct {
	mu       sync.RWMutex
	run      *store.Run
	stats    *store.Stats
	records  map[string][]string
	order    []string
	failures map[string]string
	closed   bool
}

var _ store.Sink = (*Sink)(nil)

// New creates a new in-memory sink.
func New() *Sink {
	return &Sink{
		records:  make(map[string][]string),
		failures: make(map[string]string),
	}
}

// Close implements store.Sink.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Begin implements store.Sink. It discards the output of any earlier run.
func (s *Sink) Begin(ctx context.Context, run store.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.run = &run
	s.stats = nil
	s.records = make(map[string][]string)
	s.order = nil
	s.failures = make(map[string]string)
	return nil
}

func (s *Sink) active() error {
	if s.closed {
		return fmt.Errorf("sink closed: %w", internalerr.ErrStoreUnavailable)
	}
	if s.run == nil {
		return fmt.Errorf("no run in progress: %w", internalerr.ErrStoreUnavailable)
	}
	return nil
}

// Write implements store.Sink.
func (s *Sink) Write(ctx context.Context, fileID string, records []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.active(); err != nil {
		return err
	}
	if _, ok := s.records[fileID]; !ok {
		s.order = append(s.order, fileID)
	}
	s.records[fileID] = append([]string(nil), records...)
	return nil
}

// Fail implements store.Sink.
func (s *Sink) Fail(ctx context.Context, fileID string, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if aerr := s.active(); aerr != nil {
		return aerr
	}
	s.failures[fileID] = err.Error()
	return nil
}

// Finish implements store.Sink.
func (s *Sink) Finish(ctx context.Context, stats store.Stats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.active(); err != nil {
		return err
	}
	s.stats = &stats
	return nil
}

// Run returns the current run and, once finished, its stats.
func (s *Sink) Run() (store.Run, *store.Stats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.run == nil {
		return store.Run{}, nil, false
	}
	return *s.run, s.stats, true
}

// Records returns the stored records ordered by file and position.
func (s *Sink) Records() []store.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	files := make([]string, 0, len(s.records))
	for f := range s.records {
		files = append(files, f)
	}
	sort.Strings(files)

	var out []store.Record
	for _, f := range files {
		for i, line := range s.records[f] {
			out = append(out, store.Record{FileID: f, Seq: i, Line: line})
		}
	}
	return out
}

// Lines returns the records of one document.
func (s *Sink) Lines(fileID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.records[fileID]...)
}

// WriteOrder returns the documents in the order they were first written.
func (s *Sink) WriteOrder() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// Failures returns the failed documents ordered by file.
func (s *Sink) Failures() []store.Failure {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.Failure, 0, len(s.failures))
	for f, msg := range s.failures {
		out = append(out, store.Failure{FileID: f, Error: msg})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FileID < out[j].FileID })
	return out
}
