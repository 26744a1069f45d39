package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/kedarbellare/lore/pkg/lore/internalerr"
	"github.com/kedarbellare/lore/pkg/lore/store"
)

func openTemp(t *testing.T) *Sink {
	t.Helper()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := OpenSQLite(ctx, dbPath)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestSQLiteIntegrationRun tests a full run lifecycle
func TestSQLiteIntegrationRun(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	run := store.NewRun("relations", "aggregated")
	if err := s.Begin(ctx, run); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := s.Write(ctx, "b.txt", []string{"b\tone", "b\ttwo"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Write(ctx, "a.txt", []string{"a\tone"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Fail(ctx, "c.txt", errors.New("malformed annotation")); err != nil {
		t.Fatalf("Fail: %v", err)
	}
	finished := time.Now().UTC()
	if err := s.Finish(ctx, store.Stats{Docs: 3, Records: 3, Failed: 1, FinishedAt: finished}); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	records, err := s.Records(ctx, run.ID)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	want := []store.Record{
		{FileID: "a.txt", Seq: 0, Line: "a\tone"},
		{FileID: "b.txt", Seq: 0, Line: "b\tone"},
		{FileID: "b.txt", Seq: 1, Line: "b\ttwo"},
	}
	if len(records) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(records))
	}
	for i := range want {
		if records[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, records[i], want[i])
		}
	}

	failures, err := s.Failures(ctx, run.ID)
	if err != nil {
		t.Fatalf("Failures: %v", err)
	}
	if len(failures) != 1 || failures[0].FileID != "c.txt" || failures[0].Error != "malformed annotation" {
		t.Errorf("unexpected failures %+v", failures)
	}

	gotRun, stats, err := s.Run(ctx, run.ID)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if gotRun.Kind != "relations" || gotRun.Mode != "aggregated" || !gotRun.StartedAt.Equal(run.StartedAt) {
		t.Errorf("unexpected run %+v", gotRun)
	}
	if stats.Docs != 3 || stats.Records != 3 || stats.Failed != 1 || !stats.FinishedAt.Equal(finished) {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestSQLiteWriteBeforeBegin(t *testing.T) {
	s := openTemp(t)
	err := s.Write(context.Background(), "a.txt", []string{"x"})
	if !errors.Is(err, internalerr.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestSQLiteRunNotFound(t *testing.T) {
	s := openTemp(t)
	if _, _, err := s.Run(context.Background(), "missing"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteRunsAreSeparate(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	first := store.NewRun("entities", "aggregated")
	if err := s.Begin(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := s.Write(ctx, "a.txt", []string{"first"}); err != nil {
		t.Fatal(err)
	}
	second := store.NewRun("entities", "aggregated")
	if err := s.Begin(ctx, second); err != nil {
		t.Fatal(err)
	}
	if err := s.Write(ctx, "a.txt", []string{"second"}); err != nil {
		t.Fatal(err)
	}

	runs, err := s.Runs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0] != first.ID || runs[1] != second.ID {
		t.Errorf("runs = %v", runs)
	}

	for runID, want := range map[string]string{first.ID: "first", second.ID: "second"} {
		records, err := s.Records(ctx, runID)
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 1 || records[0].Line != want {
			t.Errorf("run %s: %+v", runID, records)
		}
	}
}

// TestSQLiteConcurrentWrites tests writers from many workers
func TestSQLiteConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)
	run := store.NewRun("entities", "exploded")
	if err := s.Begin(ctx, run); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			fileID := fmt.Sprintf("doc-%02d", i)
			errs <- s.Write(ctx, fileID, []string{fileID + "\t1", fileID + "\t2"})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("Write: %v", err)
		}
	}

	records, err := s.Records(ctx, run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 40 {
		t.Fatalf("expected 40 records, got %d", len(records))
	}
	for i := 0; i < len(records); i += 2 {
		if records[i].FileID != records[i+1].FileID || records[i].Seq != 0 || records[i+1].Seq != 1 {
			t.Errorf("records of one document were split: %+v %+v", records[i], records[i+1])
		}
	}
}
