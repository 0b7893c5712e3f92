package indicator

import (
	"fmt"

	"StockScout/internal/model"
)

// RSIPeriod is the default RSI window.
const RSIPeriod = 14

// ComputeFeatures assembles the feature set for one stock: snapshot
// fields from the provider row plus indicator values taken from the tail
// of each computed series. Features without enough history stay
// unavailable; they are never substituted with zero.
func ComputeFeatures(ts *model.TimeSeries, info model.SymbolInfo) (*model.FeatureSet, error) {
	if ts == nil {
		return nil, fmt.Errorf("compute features: nil time series")
	}
	if err := ts.Validate(); err != nil {
		return nil, fmt.Errorf("compute features: %w", err)
	}

	fs := model.NewFeatureSet()
	closes := ts.Closes()
	fs.DegradedBars = CountMissing(closes)

	// Snapshot fields. The provider row wins; series-derived values fill
	// in when the row carries no quote (e.g. history-only providers).
	price := info.Price
	if price <= 0 {
		price = Last(closes)
	}
	fs.Set(model.FieldPrice, price)

	pct := info.PctChange
	if info.Price <= 0 && len(closes) >= 2 && Valid(closes[len(closes)-1]) && Valid(closes[len(closes)-2]) && closes[len(closes)-2] != 0 {
		pct = (closes[len(closes)-1] - closes[len(closes)-2]) / closes[len(closes)-2] * 100
	}
	fs.Set(model.FieldPctChange, pct)

	volume := info.Volume
	if volume <= 0 && len(ts.Bars) > 0 {
		volume = ts.Bars[len(ts.Bars)-1].Volume
	}
	fs.Set(model.FieldVolume, volume)

	amount := info.Amount
	if amount <= 0 && len(ts.Bars) > 0 {
		amount = ts.Bars[len(ts.Bars)-1].Amount
	}
	fs.Set(model.FieldAmount, amount)

	setPositive(fs, model.FieldMarketCap, info.MarketCap)
	setPositive(fs, model.FieldPE, info.PE)
	setPositive(fs, model.FieldPB, info.PB)
	setPositive(fs, model.FieldTurnover, info.Turnover)

	// Moving averages and price deviation from each.
	ma5 := Last(MASeries(closes, 5))
	ma10 := Last(MASeries(closes, 10))
	ma20 := Last(MASeries(closes, 20))
	ma60 := Last(MASeries(closes, 60))
	fs.Set(model.FieldMA5, ma5)
	fs.Set(model.FieldMA10, ma10)
	fs.Set(model.FieldMA20, ma20)
	fs.Set(model.FieldMA60, ma60)
	fs.Set(model.FieldBias5, biasPct(price, ma5))
	fs.Set(model.FieldBias10, biasPct(price, ma10))
	fs.Set(model.FieldBias20, biasPct(price, ma20))
	fs.Set(model.FieldBias60, biasPct(price, ma60))

	// RSI.
	fs.Set(model.FieldRSI, Last(RSISeries(closes, RSIPeriod)))

	// MACD.
	macd := MACDSeries(closes)
	fs.Set(model.FieldMACD, Last(macd.MACD))
	fs.Set(model.FieldMACDSig, Last(macd.Signal))
	fs.Set(model.FieldMACDHist, Last(macd.Histogram))

	// Bollinger Bands.
	boll := BollingerSeries(closes)
	fs.Set(model.FieldBollUp, Last(boll.Upper))
	fs.Set(model.FieldBollMid, Last(boll.Middle))
	fs.Set(model.FieldBollLow, Last(boll.Lower))

	// KDJ.
	kdj := KDJSeries(ts.Bars)
	fs.Set(model.FieldKDJK, Last(kdj.K))
	fs.Set(model.FieldKDJD, Last(kdj.D))
	fs.Set(model.FieldKDJJ, Last(kdj.J))

	return fs, nil
}

// biasPct is the percentage deviation of price from a moving average.
func biasPct(price, ma float64) float64 {
	if !Valid(price) || !Valid(ma) || ma == 0 {
		return Unavailable
	}
	return (price - ma) / ma * 100
}

// setPositive records v only when it is a meaningful positive quantity;
// zero means the provider had no value for this stock.
func setPositive(fs *model.FeatureSet, f model.Field, v float64) {
	if v > 0 {
		fs.Set(f, v)
	} else {
		fs.Set(f, Unavailable)
	}
}

// Analysis is the full per-bar indicator table for one symbol, used by
// single-stock analysis.
type Analysis struct {
	Series    *model.TimeSeries
	MA5       []float64
	MA10      []float64
	MA20      []float64
	RSI       []float64
	MACD      MACDResult
	Bollinger BollingerResult
	KDJ       KDJResult
}

// Analyze computes every indicator series for one symbol's history.
func Analyze(ts *model.TimeSeries) (*Analysis, error) {
	if ts == nil {
		return nil, fmt.Errorf("analyze: nil time series")
	}
	if err := ts.Validate(); err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	closes := ts.Closes()
	return &Analysis{
		Series:    ts,
		MA5:       MASeries(closes, 5),
		MA10:      MASeries(closes, 10),
		MA20:      MASeries(closes, 20),
		RSI:       RSISeries(closes, RSIPeriod),
		MACD:      MACDSeries(closes),
		Bollinger: BollingerSeries(closes),
		KDJ:       KDJSeries(ts.Bars),
	}, nil
}
