package models

import (
	"strings"
	"time"
)

// DateLayout is the wire format for trading days.
const DateLayout = "2006-01-02"

// Market identifies which panel a dataset holds.
type Market string

const (
	MarketKR Market = "kr"
	MarketUS Market = "us"
)

// ParseMarket maps a request value onto a known market, ignoring case.
func ParseMarket(s string) (Market, bool) {
	switch Market(strings.ToLower(strings.TrimSpace(s))) {
	case MarketKR:
		return MarketKR, true
	case MarketUS:
		return MarketUS, true
	}
	return "", false
}

// MBar is one instrument on one trading day.
type MBar struct {
	Date      time.Time `json:"-"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Exchange  string    `json:"market"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	ChangePct float64   `json:"change_pct"`
	Volume    float64   `json:"volume"`
	Turnover  float64   `json:"turnover"`
}

// Suspended reports a halted session (open price of zero).
func (b MBar) Suspended() bool {
	return b.Open == 0
}

// MBarRecord is the JSON shape of a bar in day snapshots.
type MBarRecord struct {
	Date string `json:"date"`
	MBar
}

// NewBarRecord attaches the formatted date to a bar.
func NewBarRecord(b MBar) MBarRecord {
	return MBarRecord{Date: b.Date.Format(DateLayout), MBar: b}
}
