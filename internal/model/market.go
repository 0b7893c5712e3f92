package model

import (
	"fmt"
	"time"
)

// OHLCV represents a single daily candlestick bar.
type OHLCV struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
	Amount float64
}

// TimeSeries holds the daily bars for one symbol. It is immutable once
// fetched; callers must not modify Bars after construction.
type TimeSeries struct {
	Symbol    string
	Bars      []OHLCV
	Simulated bool
	FetchedAt time.Time
}

// Validate checks that bar dates are strictly increasing with no duplicates.
func (ts *TimeSeries) Validate() error {
	for i := 1; i < len(ts.Bars); i++ {
		if !ts.Bars[i-1].Date.Before(ts.Bars[i].Date) {
			return fmt.Errorf("time series %s: bars out of order at index %d (%s >= %s)",
				ts.Symbol, i,
				ts.Bars[i-1].Date.Format("2006-01-02"),
				ts.Bars[i].Date.Format("2006-01-02"))
		}
	}
	return nil
}

// Closes extracts the close prices in bar order.
func (ts *TimeSeries) Closes() []float64 {
	closes := make([]float64, len(ts.Bars))
	for i, b := range ts.Bars {
		closes[i] = b.Close
	}
	return closes
}

// SymbolInfo is a snapshot row for one stock as returned by a provider's
// symbol listing: identity plus current fundamentals.
type SymbolInfo struct {
	Symbol    string
	Name      string
	Price     float64
	PctChange float64
	Volume    float64
	Amount    float64
	MarketCap float64
	PE        float64
	PB        float64
	Turnover  float64
}
