// Package dataset holds one market's daily-bar panel in memory and answers
// every ranking, scanning, charting and screening query against it.
//
// A Dataset is immutable once built. Queries only read from it and return
// freshly allocated results, so a single Dataset may be shared by any number
// of goroutines without locking.
package dataset

import (
	"sort"
	"strings"
	"time"

	"stock-board/src/helpers"
	"stock-board/src/models"
)

const (
	// DefaultTopN caps every day ranking.
	DefaultTopN = 300
	// DefaultFrequentLimit caps the frequency scanner output.
	DefaultFrequentLimit = 100
	// TurnoverMinChangePct is the change_pct floor for turnover rankings.
	TurnoverMinChangePct = 3.0
)

// Options tunes ranking caps. Zero values fall back to the defaults.
type Options struct {
	TopN          int
	FrequentLimit int
}

func (o Options) withDefaults() Options {
	if o.TopN <= 0 {
		o.TopN = DefaultTopN
	}
	if o.FrequentLimit <= 0 {
		o.FrequentLimit = DefaultFrequentLimit
	}
	return o
}

// -----------------------------------------------------------------------------

// Dataset is the resident panel for one market.
type Dataset struct {
	market  models.Market
	opts    Options
	hasOHLC bool

	bars []models.MBar // load order

	days     []time.Time       // distinct trading days, ascending
	dayIndex map[time.Time]int // day -> position in days
	dayRows  [][]int           // per day position, bar indices in load order

	instrumentRows map[string][]int // code -> bar indices, ascending date
	instruments    []models.MSearchResult

	minYear      int
	maxYear      int
	initialYear  int
	initialMonth int
}

// -----------------------------------------------------------------------------

// Empty returns a dataset with no rows for the market.
func Empty(market models.Market) *Dataset {
	return New(market, nil, true, Options{})
}

// -----------------------------------------------------------------------------

// New indexes bars. The caller guarantees (code, date) uniqueness and must not
// modify bars afterwards. hasOHLC is false for close-only feeds.
func New(market models.Market, bars []models.MBar, hasOHLC bool, opts Options) *Dataset {
	now := time.Now()
	d := &Dataset{
		market:         market,
		opts:           opts.withDefaults(),
		hasOHLC:        hasOHLC,
		bars:           bars,
		dayIndex:       make(map[time.Time]int),
		instrumentRows: make(map[string][]int),
		minYear:        now.Year(),
		maxYear:        now.Year(),
		initialYear:    now.Year(),
		initialMonth:   int(now.Month()),
	}

	type pair struct{ code, name string }
	seenPair := make(map[pair]struct{})

	for i := range bars {
		day := bars[i].Date
		if _, ok := d.dayIndex[day]; !ok {
			d.dayIndex[day] = len(d.days)
			d.days = append(d.days, day)
		}
		code := bars[i].Code
		d.instrumentRows[code] = append(d.instrumentRows[code], i)

		p := pair{code, bars[i].Name}
		if _, ok := seenPair[p]; !ok {
			seenPair[p] = struct{}{}
			d.instruments = append(d.instruments, models.MSearchResult{Code: code, Name: bars[i].Name})
		}
	}

	// Sort days and rebuild positions, then bucket rows per day.
	sort.Slice(d.days, func(i, j int) bool { return d.days[i].Before(d.days[j]) })
	for pos, day := range d.days {
		d.dayIndex[day] = pos
	}
	d.dayRows = make([][]int, len(d.days))
	for i := range bars {
		pos := d.dayIndex[bars[i].Date]
		d.dayRows[pos] = append(d.dayRows[pos], i)
	}

	for _, rows := range d.instrumentRows {
		sort.SliceStable(rows, func(a, b int) bool {
			return bars[rows[a]].Date.Before(bars[rows[b]].Date)
		})
	}

	if len(d.days) > 0 {
		first, last := d.days[0], d.days[len(d.days)-1]
		d.minYear = first.Year()
		d.maxYear = last.Year()
		d.initialYear = last.Year()
		d.initialMonth = int(last.Month())
	}

	return d
}

// -----------------------------------------------------------------------------
// Accessors
// -----------------------------------------------------------------------------

func (d *Dataset) Market() models.Market { return d.market }

func (d *Dataset) Len() int { return len(d.bars) }

func (d *Dataset) IsEmpty() bool { return len(d.bars) == 0 }

// HasOHLC is false when the source file carried close prices only.
func (d *Dataset) HasOHLC() bool { return d.hasOHLC }

// DayCount returns the number of distinct trading days.
func (d *Dataset) DayCount() int { return len(d.days) }

// Bounds returns the first and last trading day. ok is false when empty.
func (d *Dataset) Bounds() (first, last time.Time, ok bool) {
	if len(d.days) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return d.days[0], d.days[len(d.days)-1], true
}

// Dates lists trading days with the year/month defaults for the UI.
func (d *Dataset) Dates() models.MDates {
	dates := make([]string, len(d.days))
	for i, day := range d.days {
		dates[i] = day.Format(models.DateLayout)
	}
	return models.MDates{
		Dates:        dates,
		InitialYear:  d.initialYear,
		InitialMonth: d.initialMonth,
		MinYear:      d.minYear,
		MaxYear:      d.maxYear,
	}
}

// -----------------------------------------------------------------------------
// Internal lookups
// -----------------------------------------------------------------------------

// rowsOn returns bar indices for a day, nil when the day is absent.
func (d *Dataset) rowsOn(day time.Time) []int {
	pos, ok := d.dayIndex[normalizeDay(day)]
	if !ok {
		return nil
	}
	return d.dayRows[pos]
}

// dayPosition returns the index of day in the sorted trading-day list.
func (d *Dataset) dayPosition(day time.Time) (int, bool) {
	pos, ok := d.dayIndex[normalizeDay(day)]
	return pos, ok
}

// priceValue formats a close for scanner output: whole units for KR,
// cents for US.
func (d *Dataset) priceValue(close float64) float64 {
	if d.market == models.MarketKR {
		return float64(helpers.Truncate(close))
	}
	return helpers.Round(close, 2)
}

// maDecimals is the rounding applied to moving averages in charts.
func (d *Dataset) maDecimals() int {
	if d.market == models.MarketUS {
		return 2
	}
	return 0
}

// -----------------------------------------------------------------------------

var dayLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"20060102",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006.01.02",
}

// ParseDay parses a trading day in any of the accepted layouts and
// normalizes it to UTC midnight.
func ParseDay(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return normalizeDay(t), true
		}
	}
	return time.Time{}, false
}

func normalizeDay(t time.Time) time.Time {
	y, m, dd := t.Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}
