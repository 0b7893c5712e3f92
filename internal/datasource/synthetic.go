package datasource

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"StockScout/internal/model"
)

// SyntheticSource generates deterministic simulated data so the engine
// always produces a result when every real provider fails. Every series
// it returns is flagged Simulated; the flag is explicit, never inferred.
type SyntheticSource struct {
	Symbols []string
}

// defaultSyntheticSymbols is a small A-share-shaped universe used when
// no symbol list is configured.
var defaultSyntheticSymbols = func() []string {
	syms := make([]string, 0, 40)
	for i := 0; i < 20; i++ {
		syms = append(syms, fmt.Sprintf("600%03d", i))
	}
	for i := 0; i < 20; i++ {
		syms = append(syms, fmt.Sprintf("000%03d", i+1))
	}
	return syms
}()

// NewSyntheticSource creates a generator over the given universe, or a
// built-in one when symbols is empty.
func NewSyntheticSource(symbols []string) *SyntheticSource {
	if len(symbols) == 0 {
		symbols = defaultSyntheticSymbols
	}
	return &SyntheticSource{Symbols: symbols}
}

func (s *SyntheticSource) Name() string { return "synthetic" }

// symbolSeed derives a stable per-symbol seed so repeated runs see the
// same simulated stock.
func symbolSeed(symbol string) int64 {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return int64(h.Sum64())
}

func (s *SyntheticSource) ListSymbols(_ context.Context) ([]model.SymbolInfo, error) {
	infos := make([]model.SymbolInfo, len(s.Symbols))
	for i, sym := range s.Symbols {
		rng := rand.New(rand.NewSource(symbolSeed(sym)))
		price := 5 + rng.Float64()*45
		infos[i] = model.SymbolInfo{
			Symbol:    sym,
			Name:      "模拟股票" + sym,
			Price:     round2(price),
			PctChange: round2(-5 + rng.Float64()*13),
			Volume:    float64(100000 + rng.Intn(50000000)),
			Amount:    round2(price * float64(100000+rng.Intn(50000000))),
			MarketCap: round2(1e9 + rng.Float64()*999e9),
			PE:        round2(5 + rng.Float64()*45),
			PB:        round2(0.5 + rng.Float64()*4.5),
			Turnover:  round2(0.5 + rng.Float64()*11.5),
		}
	}
	return infos, nil
}

func (s *SyntheticSource) GetHistory(_ context.Context, symbol string, start, end time.Time) (*model.TimeSeries, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("synthetic history %s: end before start", symbol)
	}
	rng := rand.New(rand.NewSource(symbolSeed(symbol)))
	price := 5 + rng.Float64()*45

	bars := make([]model.OHLCV, 0, 64)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		// Bounded random walk around the seeded base price.
		price *= 1 + (rng.Float64()-0.5)*0.04
		if price < 1 {
			price = 1
		}
		open := price * (1 - (rng.Float64()-0.5)*0.01)
		high := maxf(open, price) * (1 + rng.Float64()*0.01)
		low := minf(open, price) * (1 - rng.Float64()*0.01)
		volume := float64(100000 + rng.Intn(10000000))
		bars = append(bars, model.OHLCV{
			Date:   d,
			Open:   round2(open),
			High:   round2(high),
			Low:    round2(low),
			Close:  round2(price),
			Volume: volume,
			Amount: round2(price * volume),
		})
	}
	return &model.TimeSeries{
		Symbol:    symbol,
		Bars:      bars,
		Simulated: true,
		FetchedAt: time.Now(),
	}, nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
