package indicator

import (
	"math"

	"StockScout/internal/model"
)

// KDJResult holds the three aligned KDJ series.
type KDJResult struct {
	K []float64
	D []float64
	J []float64
}

// KDJSeries computes KDJ with the standard 9/3/3 parameters.
func KDJSeries(bars []model.OHLCV) KDJResult {
	return KDJSeriesParams(bars, 9, 3, 3)
}

// KDJSeriesParams computes the raw stochastic value (RSV) from the
// rolling high/low over n bars, then %K and %D by exponential smoothing
// with factors 1/m1 and 1/m2, and %J as 3K-2D. Entries before index n-1
// are NaN; an n larger than the history yields all-NaN series. Bars with
// NaN closes are skipped from the rolling extremes.
func KDJSeriesParams(bars []model.OHLCV, n, m1, m2 int) KDJResult {
	size := len(bars)
	res := KDJResult{K: nanSeries(size), D: nanSeries(size), J: nanSeries(size)}
	if n <= 0 || m1 <= 0 || m2 <= 0 || n > size {
		return res
	}

	k, d := 50.0, 50.0 // conventional neutral seed
	seeded := false
	for i := n - 1; i < size; i++ {
		rsv, ok := rawStochastic(bars, i-n+1, i+1)
		if !ok {
			if seeded {
				res.K[i], res.D[i], res.J[i] = k, d, 3*k-2*d
			}
			continue
		}
		if !seeded {
			seeded = true
		}
		k = (float64(m1-1)*k + rsv) / float64(m1)
		d = (float64(m2-1)*d + k) / float64(m2)
		res.K[i] = k
		res.D[i] = d
		res.J[i] = 3*k - 2*d
	}
	return res
}

// rawStochastic computes (close - lowestLow) / (highestHigh - lowestLow)
// scaled to 0..100 over bars[lo:hi]. A flat window reads as neutral 50.
func rawStochastic(bars []model.OHLCV, lo, hi int) (float64, bool) {
	highest := math.Inf(-1)
	lowest := math.Inf(1)
	valid := 0
	for i := lo; i < hi; i++ {
		if math.IsNaN(bars[i].Close) {
			continue
		}
		if bars[i].High > highest {
			highest = bars[i].High
		}
		if bars[i].Low < lowest {
			lowest = bars[i].Low
		}
		valid++
	}
	last := bars[hi-1].Close
	if valid == 0 || math.IsNaN(last) {
		return 0, false
	}
	if highest == lowest {
		return 50, true
	}
	return (last - lowest) / (highest - lowest) * 100, true
}
