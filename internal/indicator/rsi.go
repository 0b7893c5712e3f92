package indicator

// RSISeries computes the Wilder-smoothed relative strength index over the
// given period. Entries before index period are NaN; a period larger than
// the available history yields an all-NaN series. When the average loss
// is zero the RSI is exactly 100. Output is bounded to [0, 100].
func RSISeries(closes []float64, period int) []float64 {
	out := nanSeries(len(closes))
	if period <= 0 || len(closes) < period+1 {
		return out
	}

	// Initial averages over the first period changes. NaN-adjacent
	// changes are skipped and shrink the population.
	var gainSum, lossSum float64
	valid := 0
	for i := 1; i <= period; i++ {
		if !Valid(closes[i]) || !Valid(closes[i-1]) {
			continue
		}
		change := closes[i] - closes[i-1]
		if change > 0 {
			gainSum += change
		} else {
			lossSum -= change
		}
		valid++
	}
	if valid == 0 {
		return out
	}
	avgGain := gainSum / float64(valid)
	avgLoss := lossSum / float64(valid)
	out[period] = rsiValue(avgGain, avgLoss)

	// Wilder smoothing for the remaining bars.
	for i := period + 1; i < len(closes); i++ {
		if Valid(closes[i]) && Valid(closes[i-1]) {
			change := closes[i] - closes[i-1]
			gain, loss := 0.0, 0.0
			if change > 0 {
				gain = change
			} else {
				loss = -change
			}
			avgGain = (avgGain*float64(period-1) + gain) / float64(period)
			avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		}
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	rsi := 100.0 - 100.0/(1.0+rs)
	if rsi < 0 {
		rsi = 0
	}
	if rsi > 100 {
		rsi = 100
	}
	return rsi
}
