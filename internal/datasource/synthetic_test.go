package datasource

import (
	"context"
	"testing"
	"time"
)

func TestSyntheticSource_Deterministic(t *testing.T) {
	src := NewSyntheticSource([]string{"600000", "000001"})
	ctx := context.Background()

	a, err := src.ListSymbols(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := src.ListSymbols(ctx)
	if len(a) != 2 || len(b) != 2 {
		t.Fatalf("expected 2 symbols, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("symbol %s: expected identical snapshots across runs", a[i].Symbol)
		}
	}

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	h1, err := src.GetHistory(ctx, "600000", start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h2, _ := src.GetHistory(ctx, "600000", start, end)
	if len(h1.Bars) != len(h2.Bars) {
		t.Fatalf("expected identical bar counts, got %d and %d", len(h1.Bars), len(h2.Bars))
	}
	for i := range h1.Bars {
		if h1.Bars[i] != h2.Bars[i] {
			t.Fatalf("bar %d differs between identical requests", i)
		}
	}
}

func TestSyntheticSource_SeriesShape(t *testing.T) {
	src := NewSyntheticSource(nil)
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) // a Monday
	end := time.Date(2026, 6, 12, 0, 0, 0, 0, time.UTC)

	ts, err := src.GetHistory(context.Background(), "600010", start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ts.Simulated {
		t.Error("synthetic series must carry the Simulated flag")
	}
	if len(ts.Bars) != 10 {
		t.Errorf("expected 10 weekday bars over two weeks, got %d", len(ts.Bars))
	}
	if err := ts.Validate(); err != nil {
		t.Errorf("expected ordered bars: %v", err)
	}
	for _, b := range ts.Bars {
		wd := b.Date.Weekday()
		if wd == time.Saturday || wd == time.Sunday {
			t.Errorf("unexpected weekend bar on %s", b.Date.Format("2006-01-02"))
		}
		if b.Low > b.High || b.Close <= 0 {
			t.Errorf("malformed bar on %s: %+v", b.Date.Format("2006-01-02"), b)
		}
	}
}

func TestSyntheticSource_EndBeforeStart(t *testing.T) {
	src := NewSyntheticSource(nil)
	end := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	if _, err := src.GetHistory(context.Background(), "600000", end.AddDate(0, 0, 5), end); err == nil {
		t.Fatal("expected error when end precedes start")
	}
}

func TestSyntheticSource_DefaultUniverse(t *testing.T) {
	src := NewSyntheticSource(nil)
	infos, err := src.ListSymbols(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 40 {
		t.Errorf("expected the built-in 40-symbol universe, got %d", len(infos))
	}
}
