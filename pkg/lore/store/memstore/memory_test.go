package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/kedarbellare/lore/pkg/lore/internalerr"
	"github.com/kedarbellare/lore/pkg/lore/store"
)

func TestSinkLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	if err := s.Write(ctx, "a", []string{"x"}); !errors.Is(err, internalerr.ErrStoreUnavailable) {
		t.Errorf("write before begin: %v", err)
	}

	run := store.NewRun("entities", "aggregated")
	if err := s.Begin(ctx, run); err != nil {
		t.Fatal(err)
	}
	_ = s.Write(ctx, "b", []string{"b1", "b2"})
	_ = s.Write(ctx, "a", []string{"a1"})
	_ = s.Fail(ctx, "c", errors.New("boom"))
	_ = s.Finish(ctx, store.Stats{Docs: 3, Records: 3, Failed: 1})

	recs := s.Records()
	if len(recs) != 3 || recs[0].FileID != "a" || recs[2].Seq != 1 {
		t.Errorf("unexpected records %+v", recs)
	}
	if order := s.WriteOrder(); len(order) != 2 || order[0] != "b" {
		t.Errorf("write order = %v", order)
	}
	if f := s.Failures(); len(f) != 1 || f[0].Error != "boom" {
		t.Errorf("failures = %+v", f)
	}
	gotRun, stats, ok := s.Run()
	if !ok || gotRun.ID != run.ID || stats == nil || stats.Failed != 1 {
		t.Errorf("run = %+v %+v %v", gotRun, stats, ok)
	}

	_ = s.Close()
	if err := s.Write(ctx, "d", nil); !errors.Is(err, internalerr.ErrStoreUnavailable) {
		t.Errorf("write after close: %v", err)
	}
}

func TestLinesIsACopy(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.Begin(ctx, store.NewRun("entities", "aggregated"))
	in := []string{"one"}
	_ = s.Write(ctx, "a", in)
	in[0] = "changed"
	lines := s.Lines("a")
	lines[0] = "mutated"
	if got := s.Lines("a"); got[0] != "one" {
		t.Errorf("stored lines aliased: %v", got)
	}
}
