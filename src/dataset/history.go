package dataset

import (
	"math"
	"time"

	"stock-board/src/analysis/core"
	"stock-board/src/helpers"
	"stock-board/src/models"
)

// DefaultHistoryDays is the chart window used when a request omits days.
const DefaultHistoryDays = 90

// -----------------------------------------------------------------------------

// History builds the chart payload for one instrument. Without endDate the
// last days rows are shown. With endDate the window starts days rows before
// (and including) endDate and runs to the end of the series. An unparseable
// endDate is echoed back but otherwise ignored.
func (d *Dataset) History(code string, days int, endDate string) models.MHistory {
	var echo *string
	if endDate != "" {
		echo = &endDate
	}

	rows := d.instrumentRows[code]
	if len(rows) == 0 || days < 1 {
		return models.EmptyHistory(echo)
	}

	closes := make([]float64, len(rows))
	for i, r := range rows {
		closes[i] = d.bars[r].Close
	}
	ma20 := core.RollingMean(closes, 20, 1)
	ma240 := core.RollingMean(closes, 240, 1)

	start := len(rows) - days
	if end, ok := ParseDay(endDate); ok {
		start = d.anchoredStart(rows, end, days)
	}
	if start < 0 {
		start = 0
	}

	h := models.EmptyHistory(echo)
	places := d.maDecimals()

	var prevClose float64
	hasPrev := false

	for i := start; i < len(rows); i++ {
		b := d.bars[rows[i]]
		t := b.Date.Format(models.DateLayout)

		h.Line = append(h.Line, models.MChartPoint{Time: t, Value: b.Close})

		change := 0.0
		if hasPrev && prevClose != 0 {
			change = helpers.Round(core.CalculateChangePercent(b.Close, prevClose), 2)
		}
		h.Change[t] = change

		suspended := d.hasOHLC && b.Suspended()
		if !suspended {
			candle := models.MCandlePoint{Time: t, Open: b.Open, High: b.High, Low: b.Low, Close: b.Close}
			if !d.hasOHLC {
				candle.Open, candle.High, candle.Low = core.SynthesizeCandle(prevClose, hasPrev, b.Close)
			}
			h.Candle = append(h.Candle, candle)
		}

		color := models.ColorDown
		switch {
		case suspended:
			color = models.ColorHalted
		case !hasPrev || prevClose == 0 || b.Close >= prevClose:
			color = models.ColorUp
		}
		h.Volume = append(h.Volume, models.MVolumePoint{Time: t, Value: b.Turnover, Color: color})

		if !math.IsNaN(ma20[i]) {
			h.MA20 = append(h.MA20, models.MChartPoint{Time: t, Value: helpers.Round(ma20[i], places)})
		}
		if !math.IsNaN(ma240[i]) {
			h.MA240 = append(h.MA240, models.MChartPoint{Time: t, Value: helpers.Round(ma240[i], places)})
		}

		prevClose = b.Close
		hasPrev = true
	}

	return h
}

// anchoredStart returns the first visible position when the chart is anchored
// at end: days rows at or before end, or the whole series when fewer exist.
func (d *Dataset) anchoredStart(rows []int, end time.Time, days int) int {
	before := 0
	for _, r := range rows {
		if d.bars[r].Date.After(end) {
			break
		}
		before++
	}
	if before > days {
		return before - days
	}
	return 0
}
