package model

import (
	"math"
	"sort"
)

// Field identifies a screenable feature: a snapshot field or a computed
// technical indicator. The set is closed; rule parsing resolves field
// keywords against it so that unknown names fail before any data work.
type Field string

const (
	FieldPrice     Field = "price"
	FieldPctChange Field = "pct_change"
	FieldVolume    Field = "volume"
	FieldAmount    Field = "amount"
	FieldMarketCap Field = "market_cap"
	FieldPE        Field = "pe"
	FieldPB        Field = "pb"
	FieldTurnover  Field = "turnover"
	FieldMA5       Field = "ma5"
	FieldMA10      Field = "ma10"
	FieldMA20      Field = "ma20"
	FieldMA60      Field = "ma60"
	FieldRSI       Field = "rsi"
	FieldMACD      Field = "macd"
	FieldMACDSig   Field = "macd_signal"
	FieldMACDHist  Field = "macd_hist"
	FieldKDJK      Field = "kdj_k"
	FieldKDJD      Field = "kdj_d"
	FieldKDJJ      Field = "kdj_j"
	FieldBollUp    Field = "boll_upper"
	FieldBollMid   Field = "boll_mid"
	FieldBollLow   Field = "boll_lower"

	// Percentage deviation of the current price from MA(w). Positive
	// means the price sits above the moving average, so "站上N日均线"
	// clauses become bias{N} > 0 comparisons.
	FieldBias5  Field = "bias5"
	FieldBias10 Field = "bias10"
	FieldBias20 Field = "bias20"
	FieldBias60 Field = "bias60"
)

// AllFields lists every member of the closed feature enumeration.
var AllFields = []Field{
	FieldPrice, FieldPctChange, FieldVolume, FieldAmount,
	FieldMarketCap, FieldPE, FieldPB, FieldTurnover,
	FieldMA5, FieldMA10, FieldMA20, FieldMA60,
	FieldRSI, FieldMACD, FieldMACDSig, FieldMACDHist,
	FieldKDJK, FieldKDJD, FieldKDJJ,
	FieldBollUp, FieldBollMid, FieldBollLow,
	FieldBias5, FieldBias10, FieldBias20, FieldBias60,
}

// KnownField reports whether f is a member of the feature enumeration.
func KnownField(f Field) bool {
	for _, k := range AllFields {
		if k == f {
			return true
		}
	}
	return false
}

// FeatureSet maps features to numeric values for one stock at evaluation
// time. NaN marks an unavailable feature. Recomputed per screening run,
// never persisted.
type FeatureSet struct {
	values map[Field]float64

	// DegradedBars counts NaN input bars skipped from indicator windows;
	// non-zero means indicators were computed over reduced populations.
	DegradedBars int
}

// NewFeatureSet returns an empty feature set.
func NewFeatureSet() *FeatureSet {
	return &FeatureSet{values: make(map[Field]float64)}
}

// Set records a feature value. NaN is allowed and means unavailable.
func (fs *FeatureSet) Set(f Field, v float64) {
	fs.values[f] = v
}

// Get returns the value for f and whether it is available. Missing and
// NaN entries both report unavailable.
func (fs *FeatureSet) Get(f Field) (float64, bool) {
	v, ok := fs.values[f]
	if !ok || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Fields returns the available fields in stable order.
func (fs *FeatureSet) Fields() []Field {
	out := make([]Field, 0, len(fs.values))
	for f, v := range fs.values {
		if !math.IsNaN(v) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
