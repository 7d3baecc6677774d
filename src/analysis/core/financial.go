package core

import "math"

// -----------------------------------------------------------------------------

// CalculateChangePercent returns the percentage change from previous to
// current, or 0 when previous is zero.
func CalculateChangePercent(current, previous float64) float64 {
	if previous == 0 {
		return 0.0
	}
	return (current - previous) / previous * 100
}

// -----------------------------------------------------------------------------

// GapRate is CalculateChangePercent with an explicit "undefined" result for
// a missing or zero base. Callers drop undefined rows instead of scoring 0.
func GapRate(base, compare float64, ok bool) (float64, bool) {
	if !ok || base == 0 || math.IsNaN(base) || math.IsNaN(compare) {
		return 0, false
	}
	return (compare - base) / base * 100, true
}

// -----------------------------------------------------------------------------

// SynthesizeCandle builds OHLC for a close-only feed: the previous close is
// the open (the current close when there is none) and high/low bracket the
// two.
func SynthesizeCandle(prevClose float64, hasPrev bool, closePrice float64) (open, high, low float64) {
	open = closePrice
	if hasPrev && prevClose != 0 {
		open = prevClose
	}
	return open, math.Max(open, closePrice), math.Min(open, closePrice)
}
