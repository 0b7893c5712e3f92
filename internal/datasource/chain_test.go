package datasource

import (
	"context"
	"fmt"
	"testing"
	"time"

	"StockScout/internal/model"
)

type downSource struct{ calls int }

func (d *downSource) Name() string { return "down" }

func (d *downSource) ListSymbols(_ context.Context) ([]model.SymbolInfo, error) {
	d.calls++
	return nil, fmt.Errorf("connection refused")
}

func (d *downSource) GetHistory(_ context.Context, symbol string, _, _ time.Time) (*model.TimeSeries, error) {
	d.calls++
	return nil, fmt.Errorf("connection refused")
}

func TestChain_FallsBackToSynthetic(t *testing.T) {
	down := &downSource{}
	chain := NewChain(NewSyntheticSource([]string{"600000"}), down)
	ctx := context.Background()

	infos, err := chain.ListSymbols(ctx)
	if err != nil {
		t.Fatalf("the chain must not fail while the fallback works: %v", err)
	}
	if len(infos) != 1 || infos[0].Symbol != "600000" {
		t.Fatalf("expected the synthetic universe, got %+v", infos)
	}

	end := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	ts, err := chain.GetHistory(ctx, "600000", end.AddDate(0, 0, -30), end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ts.Simulated {
		t.Error("fallback series must carry the Simulated flag")
	}
	if down.calls == 0 {
		t.Error("expected the real provider to be tried first")
	}
}

func TestChain_PrefersHealthyCandidate(t *testing.T) {
	real := NewSyntheticSource([]string{"000001"}) // stands in for a healthy provider
	chain := NewChain(NewSyntheticSource([]string{"600000"}), real)

	infos, err := chain.ListSymbols(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 1 || infos[0].Symbol != "000001" {
		t.Errorf("expected the candidate's universe, got %+v", infos)
	}
}

func TestChain_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chain := NewChain(nil, &downSource{})
	if _, err := chain.ListSymbols(ctx); err == nil {
		t.Fatal("expected the context error to surface")
	}
}
