// Package store persists the output of extraction runs.
package store

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Sink receives the records of one run. Implementations are safe for
// concurrent use; the records of one Write are kept together.
type Sink interface {
	Close() error

	Begin(ctx context.Context, run Run) error
	Write(ctx context.Context, fileID string, records []string) error
	Fail(ctx context.Context, fileID string, err error) error
	Finish(ctx context.Context, stats Stats) error
}

// Run describes one extraction run.
type Run struct {
	ID        string
	Kind      string // entities or relations
	Mode      string // aggregated or exploded
	StartedAt time.Time
}

// Stats summarises a finished run.
type Stats struct {
	Docs       int
	Records    int
	Failed     int
	FinishedAt time.Time
}

// Record is a stored output line.
type Record struct {
	FileID string
	Seq    int // position within the document's records
	Line   string
}

// Failure is a document that could not be processed.
type Failure struct {
	FileID string
	Error  string
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewRunID returns a new lexically sortable run identifier.
func NewRunID(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// NewRun starts describing a run at now.
func NewRun(kind, mode string) Run {
	now := time.Now().UTC()
	return Run{ID: NewRunID(now), Kind: kind, Mode: mode, StartedAt: now}
}
