package universe

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"StockScout/internal/model"
)

type scriptedSource struct {
	infos []model.SymbolInfo
	err   error
}

func (s *scriptedSource) Name() string { return "scripted" }

func (s *scriptedSource) ListSymbols(_ context.Context) ([]model.SymbolInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.infos, nil
}

func (s *scriptedSource) GetHistory(_ context.Context, symbol string, _, _ time.Time) (*model.TimeSeries, error) {
	return &model.TimeSeries{Symbol: symbol}, nil
}

func TestManager_ServesCacheWhenSourceFails(t *testing.T) {
	cacheFile := filepath.Join(t.TempDir(), "universe.json")
	infos := []model.SymbolInfo{
		{Symbol: "600000", Name: "浦发银行", Price: 10},
		{Symbol: "000001", Name: "平安银行", Price: 12},
	}

	src := &scriptedSource{infos: infos}
	m, err := NewManager(src, cacheFile, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := m.ListSymbols(context.Background())
	if err != nil || len(got) != 2 {
		t.Fatalf("expected 2 symbols, got %d (err=%v)", len(got), err)
	}

	// A fresh manager against a dead source must fall back to the
	// persisted list.
	src.err = fmt.Errorf("provider down")
	m2, err := NewManager(src, cacheFile, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err = m2.ListSymbols(context.Background())
	if err != nil {
		t.Fatalf("expected cached universe, got error: %v", err)
	}
	if len(got) != 2 || got[0].Symbol != "600000" {
		t.Errorf("expected the cached symbols back, got %+v", got)
	}
}

func TestManager_FailsWithoutSourceOrCache(t *testing.T) {
	cacheFile := filepath.Join(t.TempDir(), "universe.json")
	src := &scriptedSource{err: fmt.Errorf("provider down")}
	m, err := NewManager(src, cacheFile, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := m.ListSymbols(context.Background()); err == nil {
		t.Fatal("expected error with no source and no cache")
	}
}

func TestManager_Allowlist(t *testing.T) {
	cacheFile := filepath.Join(t.TempDir(), "universe.json")
	src := &scriptedSource{infos: []model.SymbolInfo{
		{Symbol: "600000"}, {Symbol: "600519"}, {Symbol: "000001"},
	}}
	m, err := NewManager(src, cacheFile, []string{"600519", "000001"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := m.ListSymbols(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Symbol != "600519" || got[1].Symbol != "000001" {
		t.Errorf("expected allowlisted symbols in source order, got %+v", got)
	}
}
