package dataset

import (
	"math"
	"sort"
	"strings"

	"stock-board/src/analysis/core"
	"stock-board/src/helpers"
	"stock-board/src/models"
)

// Gap screener defaults applied by the transport layer.
const (
	DefaultGapBase    = models.PricePrevClose
	DefaultGapCompare = models.PriceOpen
	DefaultGapMinRate = 3.0
	DefaultGapMaxRate = 99999.0
)

// MA240Window is the strict window of the screener's long average.
const MA240Window = 240

// -----------------------------------------------------------------------------

// gapRow is one bar with its lag/lead neighbours inside its own series.
type gapRow struct {
	bar *models.MBar

	prevClose float64
	hasPrev   bool
	nextOpen  float64
	nextClose float64
	hasNext   bool

	ma240 float64 // NaN until MA240Window closes exist

	rate float64
}

func (g *gapRow) price(kind models.PriceKind) (float64, bool) {
	switch kind {
	case models.PricePrevClose:
		return g.prevClose, g.hasPrev
	case models.PriceOpen:
		return g.bar.Open, true
	case models.PriceClose:
		return g.bar.Close, true
	case models.PriceNextOpen:
		return g.nextOpen, g.hasNext
	case models.PriceNextClose:
		return g.nextClose, g.hasNext
	}
	return 0, false
}

func (g *gapRow) rateFor(base, compare models.PriceKind) (float64, bool) {
	b, okB := g.price(base)
	c, okC := g.price(compare)
	return core.GapRate(b, c, okB && okC)
}

// -----------------------------------------------------------------------------

// GapScreen screens every bar in [StartDate, EndDate] by the rate between two
// price kinds, then narrows by the optional extra and detail stages. Results
// are ordered by date ascending, then turnover descending.
func (d *Dataset) GapScreen(q models.MGapQuery) []models.MGapRow {
	from, okFrom := ParseDay(q.StartDate)
	to, okTo := ParseDay(q.EndDate)
	if !okFrom || !okTo || d.IsEmpty() {
		return []models.MGapRow{}
	}

	base, compare := q.Base, q.Compare
	if !base.ValidBase() {
		base = DefaultGapBase
	}
	if !compare.ValidCompare() {
		compare = DefaultGapCompare
	}
	filter := strings.ToUpper(strings.TrimSpace(q.TickerFilter))

	var rows []gapRow
	for _, code := range d.sortedCodes() {
		series := d.instrumentRows[code]

		closes := make([]float64, len(series))
		for i, r := range series {
			closes[i] = d.bars[r].Close
		}
		ma := core.RollingMean(closes, MA240Window, MA240Window)

		for i, r := range series {
			b := &d.bars[r]
			if b.Date.Before(from) || b.Date.After(to) {
				continue
			}
			if filter != "" && !matchesFilter(b, filter) {
				continue
			}
			g := gapRow{bar: b, ma240: ma[i]}
			if i > 0 {
				g.prevClose, g.hasPrev = closes[i-1], true
			}
			if i+1 < len(series) {
				next := &d.bars[series[i+1]]
				g.nextOpen, g.nextClose, g.hasNext = next.Open, next.Close, true
			}

			rate, ok := g.rateFor(base, compare)
			if !ok || rate < q.MinRate || rate > q.MaxRate {
				continue
			}
			g.rate = rate

			if !passesStage(&g, q.Extra) || !passesStage(&g, q.Detail) {
				continue
			}
			rows = append(rows, g)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].bar, rows[j].bar
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.Turnover > b.Turnover
	})

	out := make([]models.MGapRow, len(rows))
	for i := range rows {
		out[i] = rows[i].toModel()
	}
	return out
}

// passesStage applies an optional narrowing stage. Inactive stages and stages
// naming an unusable price kind pass everything.
func passesStage(g *gapRow, stage models.MGapStage) bool {
	if !stage.Active() || !stage.Base.ValidBase() || !stage.Compare.ValidCompare() {
		return true
	}
	rate, ok := g.rateFor(stage.Base, stage.Compare)
	if !ok {
		return false
	}
	switch stage.Direction {
	case models.DirectionUp:
		return rate > 0
	case models.DirectionDown:
		return rate < 0
	}
	return true
}

func (g *gapRow) toModel() models.MGapRow {
	row := models.MGapRow{
		Date:     g.bar.Date.Format(models.DateLayout),
		Code:     g.bar.Code,
		Name:     g.bar.Name,
		Close:    helpers.Round(g.bar.Close, 2),
		Rate:     helpers.Round(g.rate, 2),
		Turnover: helpers.Truncate(g.bar.Turnover),
	}
	if !math.IsNaN(g.ma240) {
		ma := helpers.Round(g.ma240, 2)
		row.MA240 = &ma
		if g.ma240 > 0 {
			pos := "below"
			if g.bar.Close >= g.ma240 {
				pos = "above"
			}
			row.MA240Position = &pos
		}
	}
	return row
}

// -----------------------------------------------------------------------------

func (d *Dataset) sortedCodes() []string {
	codes := make([]string, 0, len(d.instrumentRows))
	for code := range d.instrumentRows {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// matchesFilter is a case-insensitive substring test on code or name.
func matchesFilter(b *models.MBar, filter string) bool {
	return strings.Contains(strings.ToUpper(b.Code), filter) || strings.Contains(strings.ToUpper(b.Name), filter)
}
