package indicator

import (
	"testing"

	"StockScout/internal/model"
)

func TestMACDSeries_ConstantSeries(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 10
	}
	res := MACDSeries(closes)

	// Both EMAs become valid once the slow span fills at index 25.
	if Valid(res.MACD[24]) {
		t.Errorf("expected NaN MACD before the slow EMA seeds, got %v", res.MACD[24])
	}
	if res.MACD[25] != 0 {
		t.Errorf("expected MACD 0 on a flat series, got %v", res.MACD[25])
	}
	// The signal line needs 9 valid MACD values, so it seeds at index 33.
	if Valid(res.Signal[32]) {
		t.Errorf("expected NaN signal before its seed, got %v", res.Signal[32])
	}
	if res.Signal[33] != 0 {
		t.Errorf("expected signal 0 on a flat series, got %v", res.Signal[33])
	}
	if res.Histogram[33] != 0 {
		t.Errorf("expected histogram 0 on a flat series, got %v", res.Histogram[33])
	}
}

func TestMACDSeries_UptrendPositive(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 10 + float64(i)*0.5
	}
	res := MACDSeries(closes)
	last := Last(res.MACD)
	if !Valid(last) || last <= 0 {
		t.Errorf("expected positive MACD in a steady uptrend, got %v", last)
	}
}

func TestBollingerSeries_ConstantSeries(t *testing.T) {
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 8
	}
	res := BollingerSeries(closes)

	if Valid(res.Middle[18]) {
		t.Errorf("expected NaN middle band before the window fills, got %v", res.Middle[18])
	}
	if res.Middle[19] != 8 || res.Upper[19] != 8 || res.Lower[19] != 8 {
		t.Errorf("expected all bands at 8 with zero deviation, got mid=%v up=%v low=%v",
			res.Middle[19], res.Upper[19], res.Lower[19])
	}
}

func TestBollingerSeries_BandOrdering(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 10 + float64(i%5)
	}
	res := BollingerSeries(closes)
	for i := 19; i < len(closes); i++ {
		if !(res.Lower[i] < res.Middle[i] && res.Middle[i] < res.Upper[i]) {
			t.Errorf("index %d: expected lower < middle < upper, got %v %v %v",
				i, res.Lower[i], res.Middle[i], res.Upper[i])
		}
	}
}

func flatBars(n int, price float64) []model.OHLCV {
	bars := make([]model.OHLCV, n)
	for i := range bars {
		bars[i] = model.OHLCV{Open: price, High: price, Low: price, Close: price}
	}
	return bars
}

func TestKDJSeries_FlatReadsNeutral(t *testing.T) {
	res := KDJSeries(flatBars(15, 10))

	if Valid(res.K[7]) {
		t.Errorf("expected NaN K before 9 bars, got %v", res.K[7])
	}
	for i := 8; i < 15; i++ {
		if res.K[i] != 50 || res.D[i] != 50 || res.J[i] != 50 {
			t.Errorf("index %d: expected neutral 50/50/50 on a flat window, got K=%v D=%v J=%v",
				i, res.K[i], res.D[i], res.J[i])
		}
	}
}

func TestKDJSeries_UptrendPushesKUp(t *testing.T) {
	bars := make([]model.OHLCV, 20)
	for i := range bars {
		p := 10 + float64(i)
		bars[i] = model.OHLCV{Open: p, High: p + 0.5, Low: p - 0.5, Close: p}
	}
	res := KDJSeries(bars)
	k := Last(res.K)
	if !Valid(k) || k <= 50 {
		t.Errorf("expected K above neutral in an uptrend, got %v", k)
	}
}

func TestKDJSeries_ShortHistory(t *testing.T) {
	res := KDJSeries(flatBars(5, 10))
	for i := range res.K {
		if Valid(res.K[i]) {
			t.Errorf("index %d: expected all-NaN for short history", i)
		}
	}
}
