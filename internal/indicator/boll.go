package indicator

// BollingerResult holds the three aligned Bollinger Band series.
type BollingerResult struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// BollingerSeries computes Bollinger Bands with the standard 20-bar
// window and k=2.
func BollingerSeries(closes []float64) BollingerResult {
	return BollingerSeriesParams(closes, 20, 2)
}

// BollingerSeriesParams computes the middle band as MA(window) and the
// upper/lower bands as middle ± k times the population standard deviation
// over the same window. Entries before index window-1 are NaN.
func BollingerSeriesParams(closes []float64, window int, k float64) BollingerResult {
	n := len(closes)
	res := BollingerResult{
		Upper:  nanSeries(n),
		Middle: MASeries(closes, window),
		Lower:  nanSeries(n),
	}
	if window <= 0 || window > n {
		return res
	}
	for i := window - 1; i < n; i++ {
		if !Valid(res.Middle[i]) {
			continue
		}
		std := windowStddev(closes, i-window+1, i+1)
		if !Valid(std) {
			continue
		}
		res.Upper[i] = res.Middle[i] + k*std
		res.Lower[i] = res.Middle[i] - k*std
	}
	return res
}
