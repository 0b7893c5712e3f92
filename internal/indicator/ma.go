package indicator

// MASeries computes the simple moving average of closes over the given
// window. Entries before index window-1 are NaN. A window larger than
// the whole series yields an all-NaN result rather than a partial mean.
func MASeries(closes []float64, window int) []float64 {
	out := nanSeries(len(closes))
	if window <= 0 || window > len(closes) {
		return out
	}
	for i := window - 1; i < len(closes); i++ {
		mean, count := windowMean(closes, i-window+1, i+1)
		if count == 0 {
			continue
		}
		out[i] = mean
	}
	return out
}

// EMASeries computes the exponential moving average of closes with the
// given span. The seed is the simple average of the first span valid
// values; thereafter the usual recursion applies. NaN inputs carry the
// previous EMA forward without updating it.
func EMASeries(closes []float64, span int) []float64 {
	out := nanSeries(len(closes))
	if span <= 0 || span > len(closes) {
		return out
	}

	// Locate the seed window: the first span valid values.
	seen := 0
	seedEnd := -1
	for i, v := range closes {
		if Valid(v) {
			seen++
			if seen == span {
				seedEnd = i
				break
			}
		}
	}
	if seedEnd < 0 {
		return out
	}

	ema, _ := windowMean(closes, 0, seedEnd+1)
	out[seedEnd] = ema

	alpha := 2.0 / float64(span+1)
	for i := seedEnd + 1; i < len(closes); i++ {
		if Valid(closes[i]) {
			ema = ema + alpha*(closes[i]-ema)
		}
		out[i] = ema
	}
	return out
}
