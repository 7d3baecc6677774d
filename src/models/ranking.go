package models

// MDates lists the trading days of a dataset with UI defaults.
type MDates struct {
	Dates        []string `json:"dates"`
	InitialYear  int      `json:"initial_year"`
	InitialMonth int      `json:"initial_month"`
	MinYear      int      `json:"min_year"`
	MaxYear      int      `json:"max_year"`
}

// MKRDaySnapshot is the KR day view: one list per ranking metric.
type MKRDaySnapshot struct {
	TradingValue []MBarRecord `json:"trading_value"`
	ChangeRate   []MBarRecord `json:"change_rate"`
}

// MUSDaySnapshot is the US day view split by price bucket.
type MUSDaySnapshot struct {
	HighPriceVolume []MBarRecord `json:"high_price_volume"`
	HighPriceRate   []MBarRecord `json:"high_price_rate"`
	MidPriceVolume  []MBarRecord `json:"mid_price_volume"`
	MidPriceRate    []MBarRecord `json:"mid_price_rate"`
	LowPriceVolume  []MBarRecord `json:"low_price_volume"`
	LowPriceRate    []MBarRecord `json:"low_price_rate"`
}

// MFrequentItem is one row of the frequency scanner.
type MFrequentItem struct {
	Rank           int    `json:"rank"`
	Code           string `json:"code"`
	Name           string `json:"name"`
	Appearances    int    `json:"appearance_count"`
	TradingDays    int    `json:"trading_day_count"`
	LatestTurnover int64  `json:"latest_turnover"`
}

// MPullbackItem is one row of the pullback scanner.
type MPullbackItem struct {
	Rank          int     `json:"rank"`
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	ChangePct     float64 `json:"change_pct"`
	Close         float64 `json:"close"`
	Turnover      int64   `json:"turnover"`
	ReferenceDate string  `json:"reference_date"`
}

// MConsecutiveItem is one row of the consecutive-rise scanner.
type MConsecutiveItem struct {
	Rank            int     `json:"rank"`
	Code            string  `json:"code"`
	Name            string  `json:"name"`
	ChangePct       float64 `json:"change_pct"`
	Close           float64 `json:"close"`
	Turnover        int64   `json:"turnover"`
	ConsecutiveDays int     `json:"consecutive_days"`
}

// MSearchResult is one instrument match.
type MSearchResult struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
