package core

import "math"

// -----------------------------------------------------------------------------

// RollingMean computes a trailing simple moving average. Position i averages
// values[max(0, i-window+1) .. i] and is NaN when fewer than minPeriods
// points are available.
func RollingMean(values []float64, window, minPeriods int) []float64 {
	out := make([]float64, len(values))
	if window <= 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	if minPeriods <= 0 {
		minPeriods = 1
	}

	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}

		n := i + 1
		if n > window {
			n = window
		}
		if n < minPeriods {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(n)
	}
	return out
}
