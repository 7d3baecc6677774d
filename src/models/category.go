package models

import "strings"

// Metric selects the key a day slice is ranked by.
type Metric int

const (
	// MetricTurnover keeps rows with change_pct >= 3 and ranks by turnover.
	MetricTurnover Metric = iota
	// MetricRate ranks every row by change_pct.
	MetricRate
)

// PriceBucket narrows a US day slice by close price.
type PriceBucket string

const (
	BucketAll  PriceBucket = ""
	BucketHigh PriceBucket = "high"
	BucketMid  PriceBucket = "mid"
	BucketLow  PriceBucket = "low"
)

// Contains reports whether a close price falls inside the bucket.
func (p PriceBucket) Contains(close float64) bool {
	switch p {
	case BucketHigh:
		return close >= 10
	case BucketMid:
		return close >= 5 && close < 10
	case BucketLow:
		return close < 5
	}
	return true
}

// Category is the scanner selector sent by the client, e.g. "trading_value"
// for KR or "mid_price_rate" for US.
type Category string

const (
	CategoryTradingValue Category = "trading_value"
	CategoryChangeRate   Category = "change_rate"
	CategoryUSDefault    Category = "high_price_volume"
)

// Metric derives the ranking metric from the category name.
func (c Category) Metric() Metric {
	if c == CategoryTradingValue || strings.HasSuffix(string(c), "_volume") {
		return MetricTurnover
	}
	return MetricRate
}

// Bucket derives the price bucket. Only the US market is bucketed.
func (c Category) Bucket(market Market) PriceBucket {
	if market != MarketUS {
		return BucketAll
	}
	switch {
	case strings.HasPrefix(string(c), "high_price"):
		return BucketHigh
	case strings.HasPrefix(string(c), "mid_price"):
		return BucketMid
	}
	return BucketLow
}

// DefaultCategory is the category used when a request omits one.
func DefaultCategory(market Market) Category {
	if market == MarketUS {
		return CategoryUSDefault
	}
	return CategoryTradingValue
}
