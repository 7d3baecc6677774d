package dataset

import (
	"sort"
	"time"

	"stock-board/src/helpers"
	"stock-board/src/models"
)

// -----------------------------------------------------------------------------
// Frequency scanner
// -----------------------------------------------------------------------------

// FrequentInstruments counts how often each instrument made the category's
// top ranking over the last weeks*5 trading days at or before base. Ties on
// count are broken by turnover on the last window day.
func (d *Dataset) FrequentInstruments(base time.Time, weeks int, category models.Category) []models.MFrequentItem {
	if weeks <= 0 || len(d.days) == 0 {
		return []models.MFrequentItem{}
	}

	base = normalizeDay(base)
	end := sort.Search(len(d.days), func(i int) bool { return d.days[i].After(base) })
	// Clamp before multiplying so a huge weeks cannot overflow
	if weeks > end/5+1 {
		weeks = end/5 + 1
	}
	start := end - weeks*5
	if start < 0 {
		start = 0
	}
	window := d.days[start:end]
	if len(window) == 0 {
		return []models.MFrequentItem{}
	}

	counts := make(map[string]int)
	names := make(map[string]string)
	var order []string

	metric, bucket := category.Metric(), category.Bucket(d.market)
	for _, day := range window {
		for _, r := range d.rankIndices(day, metric, bucket) {
			code := d.bars[r].Code
			if _, seen := counts[code]; !seen {
				order = append(order, code)
				names[code] = d.bars[r].Name
			}
			counts[code]++
		}
	}
	if len(order) == 0 {
		return []models.MFrequentItem{}
	}

	latest := make(map[string]float64)
	for _, r := range d.rowsOn(window[len(window)-1]) {
		code := d.bars[r].Code
		if _, ok := latest[code]; !ok {
			latest[code] = d.bars[r].Turnover
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if counts[a] != counts[b] {
			return counts[a] > counts[b]
		}
		return latest[a] > latest[b]
	})
	if len(order) > d.opts.FrequentLimit {
		order = order[:d.opts.FrequentLimit]
	}

	items := make([]models.MFrequentItem, len(order))
	for i, code := range order {
		items[i] = models.MFrequentItem{
			Rank:           i + 1,
			Code:           code,
			Name:           names[code],
			Appearances:    counts[code],
			TradingDays:    len(window),
			LatestTurnover: helpers.Truncate(latest[code]),
		}
	}
	return items
}

// -----------------------------------------------------------------------------
// Pullback scanner
// -----------------------------------------------------------------------------

// PullbackInstruments lists instruments that were top ranked daysAgo trading
// days before base and closed lower on base.
func (d *Dataset) PullbackInstruments(base time.Time, daysAgo int, category models.Category) []models.MPullbackItem {
	if daysAgo < 1 {
		return []models.MPullbackItem{}
	}
	basePos, ok := d.dayPosition(base)
	if !ok || basePos-daysAgo < 0 {
		return []models.MPullbackItem{}
	}
	reference := d.days[basePos-daysAgo]

	ranked := codeSet(d.topCodes(reference, category))
	if len(ranked) == 0 {
		return []models.MPullbackItem{}
	}

	hits := d.filterDay(d.days[basePos], func(b *models.MBar) bool {
		_, in := ranked[b.Code]
		return in && b.ChangePct < 0
	})

	items := make([]models.MPullbackItem, len(hits))
	refDate := reference.Format(models.DateLayout)
	for i, r := range hits {
		b := d.bars[r]
		items[i] = models.MPullbackItem{
			Rank:          i + 1,
			Code:          b.Code,
			Name:          b.Name,
			ChangePct:     helpers.Round(b.ChangePct, 2),
			Close:         d.priceValue(b.Close),
			Turnover:      helpers.Truncate(b.Turnover),
			ReferenceDate: refDate,
		}
	}
	return items
}

// -----------------------------------------------------------------------------
// Consecutive-rise scanner
// -----------------------------------------------------------------------------

// ConsecutiveRise lists instruments that were top ranked on the first day of
// the days-long window ending at base and rose on every day of it.
func (d *Dataset) ConsecutiveRise(base time.Time, days int, category models.Category) []models.MConsecutiveItem {
	if days < 1 {
		return []models.MConsecutiveItem{}
	}
	basePos, ok := d.dayPosition(base)
	if !ok || basePos < days-1 {
		return []models.MConsecutiveItem{}
	}
	window := d.days[basePos-days+1 : basePos+1]

	candidates := codeSet(d.topCodes(window[0], category))
	for _, day := range window {
		rows := d.rowsOn(day)
		if len(rows) == 0 {
			return []models.MConsecutiveItem{}
		}
		rising := make(map[string]struct{})
		for _, r := range rows {
			if d.bars[r].ChangePct > 0 {
				rising[d.bars[r].Code] = struct{}{}
			}
		}
		for code := range candidates {
			if _, ok := rising[code]; !ok {
				delete(candidates, code)
			}
		}
		if len(candidates) == 0 {
			return []models.MConsecutiveItem{}
		}
	}

	hits := d.filterDay(d.days[basePos], func(b *models.MBar) bool {
		_, in := candidates[b.Code]
		return in
	})

	items := make([]models.MConsecutiveItem, len(hits))
	for i, r := range hits {
		b := d.bars[r]
		items[i] = models.MConsecutiveItem{
			Rank:            i + 1,
			Code:            b.Code,
			Name:            b.Name,
			ChangePct:       helpers.Round(b.ChangePct, 2),
			Close:           d.priceValue(b.Close),
			Turnover:        helpers.Truncate(b.Turnover),
			ConsecutiveDays: days,
		}
	}
	return items
}

// -----------------------------------------------------------------------------

// filterDay keeps the day's rows matching keep, sorted by turnover descending.
func (d *Dataset) filterDay(day time.Time, keep func(*models.MBar) bool) []int {
	var hits []int
	for _, r := range d.rowsOn(day) {
		if keep(&d.bars[r]) {
			hits = append(hits, r)
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return d.bars[hits[i]].Turnover > d.bars[hits[j]].Turnover
	})
	return hits
}

func codeSet(codes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}
