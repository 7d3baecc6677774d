package dataset

import (
	"sort"
	"time"

	"stock-board/src/models"
)

// -----------------------------------------------------------------------------
// Day-slice ranking
// -----------------------------------------------------------------------------

// TopRanked ranks one day's rows by metric after applying the price bucket.
// Turnover ranking keeps only rows with change_pct >= 3. The result holds at
// most TopN bars and is empty when the day is absent.
func (d *Dataset) TopRanked(day time.Time, metric models.Metric, bucket models.PriceBucket) []models.MBar {
	idx := d.rankIndices(day, metric, bucket)
	out := make([]models.MBar, len(idx))
	for i, r := range idx {
		out[i] = d.bars[r]
	}
	return out
}

// rankIndices is TopRanked over bar indices.
func (d *Dataset) rankIndices(day time.Time, metric models.Metric, bucket models.PriceBucket) []int {
	rows := d.rowsOn(day)
	if len(rows) == 0 {
		return nil
	}

	selected := make([]int, 0, len(rows))
	for _, r := range rows {
		b := &d.bars[r]
		if !bucket.Contains(b.Close) {
			continue
		}
		if metric == models.MetricTurnover && b.ChangePct < TurnoverMinChangePct {
			continue
		}
		selected = append(selected, r)
	}

	key := func(r int) float64 { return d.bars[r].ChangePct }
	if metric == models.MetricTurnover {
		key = func(r int) float64 { return d.bars[r].Turnover }
	}
	sort.SliceStable(selected, func(i, j int) bool {
		return key(selected[i]) > key(selected[j])
	})

	if len(selected) > d.opts.TopN {
		selected = selected[:d.opts.TopN]
	}
	return selected
}

// topCodes returns the codes ranked for a category on day, in rank order.
func (d *Dataset) topCodes(day time.Time, category models.Category) []string {
	idx := d.rankIndices(day, category.Metric(), category.Bucket(d.market))
	codes := make([]string, len(idx))
	for i, r := range idx {
		codes[i] = d.bars[r].Code
	}
	return codes
}

// -----------------------------------------------------------------------------
// Day snapshots
// -----------------------------------------------------------------------------

// KRDaySnapshot returns both KR rankings for a day.
func (d *Dataset) KRDaySnapshot(day time.Time) models.MKRDaySnapshot {
	return models.MKRDaySnapshot{
		TradingValue: d.records(day, models.MetricTurnover, models.BucketAll),
		ChangeRate:   d.records(day, models.MetricRate, models.BucketAll),
	}
}

// USDaySnapshot returns the six bucketed US rankings for a day.
func (d *Dataset) USDaySnapshot(day time.Time) models.MUSDaySnapshot {
	return models.MUSDaySnapshot{
		HighPriceVolume: d.records(day, models.MetricTurnover, models.BucketHigh),
		HighPriceRate:   d.records(day, models.MetricRate, models.BucketHigh),
		MidPriceVolume:  d.records(day, models.MetricTurnover, models.BucketMid),
		MidPriceRate:    d.records(day, models.MetricRate, models.BucketMid),
		LowPriceVolume:  d.records(day, models.MetricTurnover, models.BucketLow),
		LowPriceRate:    d.records(day, models.MetricRate, models.BucketLow),
	}
}

func (d *Dataset) records(day time.Time, metric models.Metric, bucket models.PriceBucket) []models.MBarRecord {
	idx := d.rankIndices(day, metric, bucket)
	out := make([]models.MBarRecord, len(idx))
	for i, r := range idx {
		out[i] = models.NewBarRecord(d.bars[r])
	}
	return out
}
