package indicator

// MACDResult holds the three aligned MACD series.
type MACDResult struct {
	MACD      []float64 // EMA(fast) - EMA(slow)
	Signal    []float64 // EMA(signalSpan) of the MACD line
	Histogram []float64 // MACD - Signal
}

// MACDSeries computes MACD with the standard 12/26/9 spans.
func MACDSeries(closes []float64) MACDResult {
	return MACDSeriesSpans(closes, 12, 26, 9)
}

// MACDSeriesSpans computes the MACD line as EMA(fast) minus EMA(slow),
// the signal line as an EMA of the MACD line, and the histogram as their
// difference. Each series is aligned to the input; entries without enough
// history are NaN.
func MACDSeriesSpans(closes []float64, fast, slow, signalSpan int) MACDResult {
	n := len(closes)
	res := MACDResult{
		MACD:      nanSeries(n),
		Signal:    nanSeries(n),
		Histogram: nanSeries(n),
	}
	emaFast := EMASeries(closes, fast)
	emaSlow := EMASeries(closes, slow)
	for i := 0; i < n; i++ {
		if Valid(emaFast[i]) && Valid(emaSlow[i]) {
			res.MACD[i] = emaFast[i] - emaSlow[i]
		}
	}
	res.Signal = EMASeries(res.MACD, signalSpan)
	for i := 0; i < n; i++ {
		if Valid(res.MACD[i]) && Valid(res.Signal[i]) {
			res.Histogram[i] = res.MACD[i] - res.Signal[i]
		}
	}
	return res
}
