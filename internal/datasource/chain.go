package datasource

import (
	"context"
	"fmt"
	"log"
	"time"

	"StockScout/internal/model"
)

// Chain tries an ordered list of real providers and falls back to the
// synthetic generator, so the engine always produces a result instead of
// hard-failing end to end. Series served by the fallback carry the
// Simulated flag set by the generator itself.
type Chain struct {
	Candidates []HistoryDataSource
	Fallback   *SyntheticSource
}

// NewChain builds a fallback chain over the given candidates.
func NewChain(fallback *SyntheticSource, candidates ...HistoryDataSource) *Chain {
	if fallback == nil {
		fallback = NewSyntheticSource(nil)
	}
	return &Chain{Candidates: candidates, Fallback: fallback}
}

func (c *Chain) Name() string { return "chain" }

func (c *Chain) ListSymbols(ctx context.Context) ([]model.SymbolInfo, error) {
	for _, src := range c.Candidates {
		infos, err := src.ListSymbols(ctx)
		if err == nil {
			return infos, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Printf("[WARN] list symbols via %s failed: %v", src.Name(), err)
	}
	log.Printf("[WARN] all providers failed to list symbols, using synthetic universe")
	return c.Fallback.ListSymbols(ctx)
}

func (c *Chain) GetHistory(ctx context.Context, symbol string, start, end time.Time) (*model.TimeSeries, error) {
	var lastErr error
	for _, src := range c.Candidates {
		ts, err := src.GetHistory(ctx, symbol, start, end)
		if err == nil {
			if verr := ts.Validate(); verr != nil {
				lastErr = verr
				log.Printf("[WARN] history for %s via %s invalid: %v", symbol, src.Name(), verr)
				continue
			}
			return ts, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}
	if len(c.Candidates) > 0 {
		log.Printf("[WARN] history for %s unavailable from all providers (last: %v), simulating", symbol, lastErr)
	}
	ts, err := c.Fallback.GetHistory(ctx, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("synthetic fallback for %s: %w", symbol, err)
	}
	return ts, nil
}
