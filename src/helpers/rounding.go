package helpers

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round rounds half away from zero on the decimal representation of v.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(int32(places)).InexactFloat64()
}

// Truncate drops the fractional part, matching an integer cast.
func Truncate(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).IntPart()
}
