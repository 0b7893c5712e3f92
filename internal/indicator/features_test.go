package indicator

import (
	"testing"
	"time"

	"StockScout/internal/model"
)

// trendSeries builds n daily bars with closes rising by step per bar.
func trendSeries(symbol string, n int, start, step float64) *model.TimeSeries {
	day := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, n)
	for i := range bars {
		p := start + float64(i)*step
		bars[i] = model.OHLCV{
			Date:   day.AddDate(0, 0, i),
			Open:   p,
			High:   p + 0.2,
			Low:    p - 0.2,
			Close:  p,
			Volume: 1e6,
			Amount: p * 1e6,
		}
	}
	return &model.TimeSeries{Symbol: symbol, Bars: bars, FetchedAt: time.Now()}
}

func TestComputeFeatures_SnapshotRowWins(t *testing.T) {
	ts := trendSeries("600000", 70, 10, 0.1)
	info := model.SymbolInfo{
		Symbol: "600000", Price: 16.9, PctChange: 1.5,
		MarketCap: 2e10, PE: 12, PB: 1.1, Turnover: 3.2,
		Volume: 5e6, Amount: 8e7,
	}
	fs, err := ComputeFeatures(ts, info)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v, _ := fs.Get(model.FieldPrice); v != 16.9 {
		t.Errorf("expected provider price 16.9, got %v", v)
	}
	if v, _ := fs.Get(model.FieldPctChange); v != 1.5 {
		t.Errorf("expected provider pct change 1.5, got %v", v)
	}
	if v, _ := fs.Get(model.FieldMarketCap); v != 2e10 {
		t.Errorf("expected market cap 2e10, got %v", v)
	}
	if fs.DegradedBars != 0 {
		t.Errorf("expected no degraded bars, got %d", fs.DegradedBars)
	}
}

func TestComputeFeatures_SeriesFallback(t *testing.T) {
	ts := trendSeries("000001", 70, 10, 0.1)
	fs, err := ComputeFeatures(ts, model.SymbolInfo{Symbol: "000001"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lastClose := ts.Bars[len(ts.Bars)-1].Close
	if v, _ := fs.Get(model.FieldPrice); v != lastClose {
		t.Errorf("expected price from last close %v, got %v", lastClose, v)
	}
	// Rising series: the current price sits above every moving average.
	for _, f := range []model.Field{model.FieldBias5, model.FieldBias10, model.FieldBias20, model.FieldBias60} {
		v, ok := fs.Get(f)
		if !ok || v <= 0 {
			t.Errorf("%s: expected positive deviation in an uptrend, got %v (ok=%v)", f, v, ok)
		}
	}
}

func TestComputeFeatures_MissingFundamentalsUnavailable(t *testing.T) {
	ts := trendSeries("600519", 70, 10, 0.1)
	info := model.SymbolInfo{Symbol: "600519", Price: 17}
	fs, err := ComputeFeatures(ts, info)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Zero PE/PB/turnover from the provider means "no data", not 0.
	for _, f := range []model.Field{model.FieldPE, model.FieldPB, model.FieldTurnover, model.FieldMarketCap} {
		if _, ok := fs.Get(f); ok {
			t.Errorf("%s: expected unavailable for zero provider value", f)
		}
	}
}

func TestComputeFeatures_ShortHistoryKeepsIndicatorsUnavailable(t *testing.T) {
	ts := trendSeries("600000", 10, 10, 0.1)
	fs, err := ComputeFeatures(ts, model.SymbolInfo{Symbol: "600000", Price: 11})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := fs.Get(model.FieldMA60); ok {
		t.Error("expected MA60 unavailable with 10 bars")
	}
	if _, ok := fs.Get(model.FieldRSI); ok {
		t.Error("expected RSI unavailable with 10 bars")
	}
	if v, ok := fs.Get(model.FieldMA5); !ok || v <= 0 {
		t.Errorf("expected MA5 available with 10 bars, got %v (ok=%v)", v, ok)
	}
}

func TestComputeFeatures_OutOfOrderBarsRejected(t *testing.T) {
	ts := trendSeries("600000", 5, 10, 0.1)
	ts.Bars[3].Date = ts.Bars[1].Date
	if _, err := ComputeFeatures(ts, model.SymbolInfo{Symbol: "600000"}); err == nil {
		t.Fatal("expected error for out-of-order bars")
	}
}

func TestAnalyze_AlignedSeries(t *testing.T) {
	ts := trendSeries("600000", 40, 10, 0.1)
	a, err := Analyze(ts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := len(ts.Bars)
	for name, s := range map[string][]float64{
		"MA5": a.MA5, "MA10": a.MA10, "MA20": a.MA20, "RSI": a.RSI,
		"MACD": a.MACD.MACD, "Signal": a.MACD.Signal,
		"Upper": a.Bollinger.Upper, "K": a.KDJ.K,
	} {
		if len(s) != n {
			t.Errorf("%s: expected length %d, got %d", name, n, len(s))
		}
	}
}
