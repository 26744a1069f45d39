// Package batch runs extraction over many documents with a bounded pool of
// workers, isolating per-document failures.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/gosuri/uiprogress"
	"golang.org/x/sync/errgroup"

	"github.com/kedarbellare/lore/internal/logging"
	"github.com/kedarbellare/lore/pkg/lore"
	"github.com/kedarbellare/lore/pkg/lore/pattern"
	"github.com/kedarbellare/lore/pkg/lore/store"
)

// Processor extracts the records of one document.
type Processor interface {
	Process(ctx context.Context, in lore.Input, kind pattern.Kind) ([]string, error)
}

// Driver feeds documents to a Processor and their records to a Sink.
type Driver struct {
	Processor Processor
	Sink      store.Sink
	// Workers bounds concurrent documents; 0 means one per CPU.
	Workers int
	// Mode is recorded with the run.
	Mode string
	// Progress, when set, receives a progress bar.
	Progress io.Writer
}

// Run processes inputs and returns the run summary. A document that fails
// is logged, recorded with the sink and counted; the run goes on. Run
// itself fails only when the sink fails or ctx is done, in which case no
// further documents are started.
func (d *Driver) Run(ctx context.Context, inputs []lore.Input, kind pattern.Kind) (store.Stats, error) {
	workers := d.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	run := store.NewRun(string(kind), d.Mode)
	if err := d.Sink.Begin(ctx, run); err != nil {
		return store.Stats{}, fmt.Errorf("begin run: %w", err)
	}
	logging.Info("run started", "run", run.ID, "kind", kind, "docs", len(inputs), "workers", workers)

	var bar *uiprogress.Bar
	if d.Progress != nil && len(inputs) > 0 {
		p := uiprogress.New()
		p.Out = d.Progress
		bar = p.AddBar(len(inputs))
		bar.AppendCompleted()
		bar.PrependElapsed()
		p.Start()
		defer p.Stop()
	}

	var (
		mu    sync.Mutex
		stats store.Stats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, in := range inputs {
		if gctx.Err() != nil {
			break
		}
		in := in
		g.Go(func() error {
			if bar != nil {
				defer bar.Incr()
			}
			records, err := d.Processor.Process(gctx, in, kind)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logging.Warn("document failed", "file", in.ID, "error", err)
				if ferr := d.Sink.Fail(gctx, in.ID, err); ferr != nil {
					return fmt.Errorf("record failure of %s: %w", in.ID, ferr)
				}
				mu.Lock()
				stats.Docs++
				stats.Failed++
				mu.Unlock()
				return nil
			}

			if err := d.Sink.Write(gctx, in.ID, records); err != nil {
				return fmt.Errorf("write %s: %w", in.ID, err)
			}
			logging.Debug("document done", "file", in.ID, "records", len(records))
			mu.Lock()
			stats.Docs++
			stats.Records += len(records)
			mu.Unlock()
			return nil
		})
	}

	runErr := g.Wait()
	if runErr == nil {
		runErr = ctx.Err()
	}

	stats.FinishedAt = time.Now().UTC()
	finishErr := d.Sink.Finish(context.WithoutCancel(ctx), stats)
	if finishErr != nil {
		finishErr = fmt.Errorf("finish run: %w", finishErr)
	}

	logging.Info("run finished", "run", run.ID, "docs", stats.Docs, "records", stats.Records, "failed", stats.Failed)
	return stats, errors.Join(runErr, finishErr)
}
