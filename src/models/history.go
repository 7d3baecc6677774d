package models

// Volume bar colors.
const (
	ColorUp     = "#EF535080"
	ColorDown   = "#2196F380"
	ColorHalted = "#6B728080"
)

type MChartPoint struct {
	Time  string  `json:"time"`
	Value float64 `json:"value"`
}

type MCandlePoint struct {
	Time  string  `json:"time"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

type MVolumePoint struct {
	Time  string  `json:"time"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// MHistory is the chart payload for one instrument.
type MHistory struct {
	Line    []MChartPoint      `json:"line"`
	Candle  []MCandlePoint     `json:"candle"`
	Volume  []MVolumePoint     `json:"volume"`
	Change  map[string]float64 `json:"change"`
	MA20    []MChartPoint      `json:"ma20"`
	MA240   []MChartPoint      `json:"ma240"`
	EndDate *string            `json:"end_date"`
}

// EmptyHistory returns the all-empty payload shape.
func EmptyHistory(endDate *string) MHistory {
	return MHistory{
		Line:    []MChartPoint{},
		Candle:  []MCandlePoint{},
		Volume:  []MVolumePoint{},
		Change:  map[string]float64{},
		MA20:    []MChartPoint{},
		MA240:   []MChartPoint{},
		EndDate: endDate,
	}
}
