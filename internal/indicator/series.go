// Package indicator computes technical indicators from OHLCV history.
//
// Every series function returns an output aligned to its input: entry i
// describes bar i, and entries before enough history exists are NaN
// ("unavailable"), never zero or extrapolated. NaN input bars are skipped
// from window populations instead of crashing the computation.
package indicator

import "math"

// Unavailable marks a slot with no computable value.
var Unavailable = math.NaN()

// Valid reports whether v holds a computed value.
func Valid(v float64) bool { return !math.IsNaN(v) }

// Last returns the final value of a series, or NaN for an empty series.
func Last(series []float64) float64 {
	if len(series) == 0 {
		return Unavailable
	}
	return series[len(series)-1]
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = Unavailable
	}
	return out
}

// windowMean averages the valid values in values[lo:hi]. The second
// return is the number of valid values used.
func windowMean(values []float64, lo, hi int) (float64, int) {
	sum, count := 0.0, 0
	for i := lo; i < hi; i++ {
		if Valid(values[i]) {
			sum += values[i]
			count++
		}
	}
	if count == 0 {
		return Unavailable, 0
	}
	return sum / float64(count), count
}

// windowStddev computes the population standard deviation of the valid
// values in values[lo:hi].
func windowStddev(values []float64, lo, hi int) float64 {
	mean, count := windowMean(values, lo, hi)
	if count == 0 {
		return Unavailable
	}
	sumSq := 0.0
	for i := lo; i < hi; i++ {
		if Valid(values[i]) {
			d := values[i] - mean
			sumSq += d * d
		}
	}
	return math.Sqrt(sumSq / float64(count))
}

// CountMissing returns how many values in the series are NaN.
func CountMissing(values []float64) int {
	n := 0
	for _, v := range values {
		if !Valid(v) {
			n++
		}
	}
	return n
}
