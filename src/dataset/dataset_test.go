package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-board/src/models"
)

// Five consecutive sessions, Tue 2024-01-02 through Mon 2024-01-08.
var (
	day1 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	day2 = time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	day3 = time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
	day4 = time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	day5 = time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
)

func bar(day time.Time, code string, close, change, turnover float64) models.MBar {
	return models.MBar{
		Date:      day,
		Code:      code,
		Name:      code + " Corp",
		Open:      close,
		High:      close,
		Low:       close,
		Close:     close,
		ChangePct: change,
		Turnover:  turnover,
	}
}

func codesOf(bars []models.MBar) []string {
	out := make([]string, len(bars))
	for i, b := range bars {
		out[i] = b.Code
	}
	return out
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// -----------------------------------------------------------------------------

func TestNewComputesBounds(t *testing.T) {
	ds := New(models.MarketKR, []models.MBar{
		bar(day3, "A", 10, 0, 0),
		bar(day1, "A", 10, 0, 0),
		bar(time.Date(2023, 12, 28, 0, 0, 0, 0, time.UTC), "B", 10, 0, 0),
	}, true, Options{})

	dates := ds.Dates()
	assert.Equal(t, []string{"2023-12-28", "2024-01-02", "2024-01-04"}, dates.Dates)
	assert.Equal(t, 2023, dates.MinYear)
	assert.Equal(t, 2024, dates.MaxYear)
	assert.Equal(t, 2024, dates.InitialYear)
	assert.Equal(t, 1, dates.InitialMonth)
	assert.Equal(t, 3, ds.DayCount())
}

func TestEmptyDatasetDegrades(t *testing.T) {
	ds := Empty(models.MarketUS)

	now := time.Now()
	dates := ds.Dates()
	assert.Empty(t, dates.Dates)
	assert.Equal(t, now.Year(), dates.InitialYear)

	assert.Empty(t, ds.TopRanked(day1, models.MetricRate, models.BucketAll))
	assert.Empty(t, ds.FrequentInstruments(day1, 4, models.CategoryUSDefault))
	assert.Empty(t, ds.PullbackInstruments(day1, 1, models.CategoryUSDefault))
	assert.Empty(t, ds.ConsecutiveRise(day1, 2, models.CategoryUSDefault))
	assert.Empty(t, ds.Search("A", 10))
	assert.Empty(t, ds.GapScreen(models.MGapQuery{StartDate: "2024-01-01", EndDate: "2024-12-31"}))

	h := ds.History("AAPL", 90, "")
	assert.NotNil(t, h.Line)
	assert.Empty(t, h.Line)
	assert.Nil(t, h.EndDate)
}

// -----------------------------------------------------------------------------
// Ranker
// -----------------------------------------------------------------------------

func TestTopRankedCapsAndSorts(t *testing.T) {
	var bars []models.MBar
	for i := 0; i < 350; i++ {
		bars = append(bars, bar(day1, fmt.Sprintf("%06d", i), 1000, 3+float64(i%40), float64((i*7919)%1000)))
	}
	ds := New(models.MarketKR, bars, true, Options{})

	for _, metric := range []models.Metric{models.MetricTurnover, models.MetricRate} {
		top := ds.TopRanked(day1, metric, models.BucketAll)
		require.Len(t, top, DefaultTopN)
		for i := 1; i < len(top); i++ {
			if metric == models.MetricTurnover {
				assert.GreaterOrEqual(t, top[i-1].Turnover, top[i].Turnover)
			} else {
				assert.GreaterOrEqual(t, top[i-1].ChangePct, top[i].ChangePct)
			}
		}
	}

	assert.Empty(t, ds.TopRanked(day2, models.MetricRate, models.BucketAll))
}

func TestTopRankedTurnoverThresholdAndTies(t *testing.T) {
	ds := New(models.MarketKR, []models.MBar{
		bar(day1, "LOW", 10, 2.99, 900),
		bar(day1, "T1", 10, 3.0, 500),
		bar(day1, "T2", 10, 10, 500),
		bar(day1, "BIG", 10, 4, 800),
		bar(day1, "NEG", 10, -5, 1000),
	}, true, Options{})

	assert.Equal(t, []string{"BIG", "T1", "T2"}, codesOf(ds.TopRanked(day1, models.MetricTurnover, models.BucketAll)))
	assert.Equal(t, []string{"T2", "BIG", "T1", "LOW", "NEG"}, codesOf(ds.TopRanked(day1, models.MetricRate, models.BucketAll)))
}

func TestUSDaySnapshotBuckets(t *testing.T) {
	ds := New(models.MarketUS, []models.MBar{
		bar(day1, "HI", 10, 5, 100),
		bar(day1, "MID", 5, 6, 100),
		bar(day1, "MID2", 9.99, -1, 100),
		bar(day1, "LO", 4.99, 7, 100),
	}, true, Options{})

	snap := ds.USDaySnapshot(day1)
	require.Len(t, snap.HighPriceVolume, 1)
	assert.Equal(t, "HI", snap.HighPriceVolume[0].Code)
	assert.Equal(t, "2024-01-02", snap.HighPriceVolume[0].Date)
	assert.Len(t, snap.MidPriceVolume, 1)
	assert.Len(t, snap.MidPriceRate, 2)
	assert.Equal(t, "LO", snap.LowPriceRate[0].Code)
	assert.Len(t, snap.LowPriceVolume, 1)
}

func TestKRDaySnapshot(t *testing.T) {
	ds := New(models.MarketKR, []models.MBar{
		bar(day1, "005930", 70000, 1, 9e12),
		bar(day1, "000660", 120000, 4, 1e12),
	}, true, Options{})

	snap := ds.KRDaySnapshot(day1)
	require.Len(t, snap.TradingValue, 1)
	assert.Equal(t, "000660", snap.TradingValue[0].Code)
	assert.Len(t, snap.ChangeRate, 2)

	empty := ds.KRDaySnapshot(day5)
	assert.NotNil(t, empty.TradingValue)
	assert.Empty(t, empty.TradingValue)
}

// -----------------------------------------------------------------------------
// Scanners
// -----------------------------------------------------------------------------

func TestFrequentInstruments(t *testing.T) {
	ds := New(models.MarketKR, []models.MBar{
		bar(day1, "A", 10, 5, 100),
		bar(day1, "B", 10, 5, 90),
		bar(day1, "D", 10, 5, 80),
		bar(day2, "A", 10, 5, 100),
		bar(day2, "B", 10, 5, 90),
		bar(day2, "D", 10, 5, 80),
		bar(day2, "C", 10, 5, 70),
		bar(day3, "A", 10, 5, 100),
		bar(day3, "B", 10, 1, 10),   // not ranked on the last day
		bar(day3, "D", 10, 1, 5000), // not ranked either, but larger turnover
	}, true, Options{})

	items := ds.FrequentInstruments(day3, 1, models.CategoryTradingValue)
	require.Len(t, items, 4)

	assert.Equal(t, "A", items[0].Code)
	assert.Equal(t, 3, items[0].Appearances)
	assert.Equal(t, int64(100), items[0].LatestTurnover)

	// B and D tie on count; the last window day's turnover decides.
	assert.Equal(t, "D", items[1].Code)
	assert.Equal(t, 2, items[1].Appearances)
	assert.Equal(t, int64(5000), items[1].LatestTurnover)
	assert.Equal(t, "B", items[2].Code)

	assert.Equal(t, "C", items[3].Code)
	assert.Equal(t, int64(0), items[3].LatestTurnover)

	for i, it := range items {
		assert.Equal(t, i+1, it.Rank)
		assert.Equal(t, 3, it.TradingDays)
	}
}

func TestFrequentInstrumentsWindow(t *testing.T) {
	var bars []models.MBar
	for _, d := range []time.Time{day1, day2, day3, day4, day5} {
		bars = append(bars, bar(d, "A", 10, 5, 100))
	}
	ds := New(models.MarketKR, bars, true, Options{})

	// A base between sessions resolves to the sessions before it.
	items := ds.FrequentInstruments(time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), 1, models.CategoryTradingValue)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Appearances)
	assert.Equal(t, 4, items[0].TradingDays)

	assert.Empty(t, ds.FrequentInstruments(day1.AddDate(0, 0, -1), 1, models.CategoryTradingValue))
	assert.Empty(t, ds.FrequentInstruments(day5, 0, models.CategoryTradingValue))
}

func TestPullbackInstruments(t *testing.T) {
	ds := New(models.MarketKR, []models.MBar{
		bar(day1, "A", 1000, 5, 500),
		bar(day1, "B", 1000, 5, 400),
		bar(day1, "C", 1000, 1, 900),
		bar(day2, "A", 1000, 1, 0),
		bar(day3, "A", 1234.56, -2.345, 700.9),
		bar(day3, "B", 1000, 1, 800),
		bar(day3, "C", 1000, -3, 900),
	}, true, Options{})

	items := ds.PullbackInstruments(day3, 2, models.CategoryTradingValue)
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].Code)
	assert.Equal(t, -2.35, items[0].ChangePct)
	assert.Equal(t, 1234.0, items[0].Close)
	assert.Equal(t, int64(700), items[0].Turnover)
	assert.Equal(t, "2024-01-02", items[0].ReferenceDate)

	for _, it := range ds.PullbackInstruments(day3, 2, models.CategoryChangeRate) {
		assert.Less(t, it.ChangePct, 0.0)
	}

	assert.Empty(t, ds.PullbackInstruments(day3, 3, models.CategoryTradingValue))
	assert.Empty(t, ds.PullbackInstruments(day3, 0, models.CategoryTradingValue))
	assert.Empty(t, ds.PullbackInstruments(day4, 1, models.CategoryTradingValue))
}

func TestPullbackUSPriceFormat(t *testing.T) {
	ds := New(models.MarketUS, []models.MBar{
		bar(day1, "AAPL", 180, 5, 1e9),
		bar(day2, "AAPL", 175.456, -2.5, 1e9),
	}, true, Options{})

	items := ds.PullbackInstruments(day2, 1, models.CategoryUSDefault)
	require.Len(t, items, 1)
	assert.Equal(t, 175.46, items[0].Close)
}

func TestConsecutiveRiseStrictWindow(t *testing.T) {
	ds := New(models.MarketKR, []models.MBar{
		bar(day1, "A", 10, 5, 100),
		bar(day1, "B", 10, 5, 200),
		bar(day2, "A", 10, 1, 100),
		bar(day2, "B", 10, 0, 200),
		bar(day3, "A", 10, 2, 300),
		bar(day3, "B", 10, 2, 900),
	}, true, Options{})

	items := ds.ConsecutiveRise(day3, 3, models.CategoryTradingValue)
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].Code)
	assert.Equal(t, 3, items[0].ConsecutiveDays)
	assert.Equal(t, int64(300), items[0].Turnover)

	assert.Empty(t, ds.ConsecutiveRise(day3, 4, models.CategoryTradingValue))
	assert.Empty(t, ds.ConsecutiveRise(day4, 1, models.CategoryTradingValue))
	assert.Empty(t, ds.ConsecutiveRise(day3, 0, models.CategoryTradingValue))
}

func TestConsecutiveRiseEndToEnd(t *testing.T) {
	csv := "날짜,종목코드,종목명,시장,시가,고가,저가,종가,전일대비변동률(%),거래량,거래대금\n" +
		"2024-01-02,005930,Samsung,KOSPI,100,100,100,100,0,10,1000\n" +
		"2024-01-02,000660,Hynix,KOSPI,100,100,100,100,5,10,2000\n" +
		"2024-01-03,005930,Samsung,KOSPI,105,105,105,105,5,10,1050\n" +
		"2024-01-03,000660,Hynix,KOSPI,99,99,99,99,-1,10,990\n" +
		"2024-01-04,005930,Samsung,KOSPI,110,110,110,110,4.76,10,1100\n" +
		"2024-01-04,000660,Hynix,KOSPI,102,102,102,102,3,10,1020\n" +
		"2024-01-05,005930,Samsung,KOSPI,115,115,115,115,4.55,10,1150\n" +
		"2024-01-05,000660,Hynix,KOSPI,106,106,106,106,4,10,1060\n" +
		"2024-01-08,005930,Samsung,KOSPI,110,110,110,110,-4.35,10,1100\n" +
		"2024-01-08,000660,Hynix,KOSPI,107,107,107,107,1,10,1070\n"

	ds, report, err := Load(t.Context(), models.MarketKR, writeFile(t, "kr.csv", csv), LoaderOptions{})
	require.NoError(t, err)
	assert.Equal(t, 10, report.RowsKept)

	items := ds.ConsecutiveRise(day4, 3, models.CategoryTradingValue)
	require.Len(t, items, 1)
	assert.Equal(t, "005930", items[0].Code)
	assert.Equal(t, 115.0, items[0].Close)

	assert.Empty(t, ds.ConsecutiveRise(day4, 4, models.CategoryTradingValue))
}

// -----------------------------------------------------------------------------
// History
// -----------------------------------------------------------------------------

func TestHistorySuspensionAndAverages(t *testing.T) {
	halted := bar(day3, "A", 110, 0, 0)
	halted.Open = 0
	ds := New(models.MarketKR, []models.MBar{
		bar(day1, "A", 100, 0, 1000),
		bar(day2, "A", 110, 10, 1100),
		halted,
		bar(day4, "A", 99, -10, 990),
		bar(day5, "A", 101, 2.02, 1010),
		bar(day5, "B", 5, 0, 1),
	}, true, Options{})

	h := ds.History("A", 90, "")
	assert.Len(t, h.Line, 5)
	assert.Len(t, h.Volume, 5)
	require.Len(t, h.Candle, 4)
	for _, c := range h.Candle {
		assert.NotEqual(t, "2024-01-04", c.Time)
	}

	assert.Equal(t, models.ColorUp, h.Volume[0].Color)
	assert.Equal(t, models.ColorUp, h.Volume[1].Color)
	assert.Equal(t, models.ColorHalted, h.Volume[2].Color)
	assert.Equal(t, models.ColorDown, h.Volume[3].Color)
	assert.Equal(t, models.ColorUp, h.Volume[4].Color)

	assert.Equal(t, 0.0, h.Change["2024-01-02"])
	assert.Equal(t, 10.0, h.Change["2024-01-03"])
	assert.Equal(t, -10.0, h.Change["2024-01-05"])

	require.Len(t, h.MA20, 5)
	require.Len(t, h.MA240, 5)
	assert.Equal(t, 100.0, h.MA20[0].Value)
	assert.Equal(t, 105.0, h.MA20[1].Value)
	assert.Equal(t, 104.0, h.MA20[4].Value) // (100+110+110+99+101)/5
	assert.Nil(t, h.EndDate)
}

func TestHistoryWindowing(t *testing.T) {
	var bars []models.MBar
	for i, d := range []time.Time{day1, day2, day3, day4, day5} {
		bars = append(bars, bar(d, "A", float64(100+i), 1, 1))
	}
	ds := New(models.MarketUS, bars, true, Options{})

	h := ds.History("A", 2, "")
	require.Len(t, h.Line, 2)
	assert.Equal(t, "2024-01-05", h.Line[0].Time)
	assert.Equal(t, 0.0, h.Change["2024-01-05"])
	assert.Equal(t, 101.5, h.MA20[0].Value) // computed over the full series

	anchored := ds.History("A", 1, "2024-01-03")
	require.Len(t, anchored.Line, 4)
	assert.Equal(t, "2024-01-03", anchored.Line[0].Time)
	require.NotNil(t, anchored.EndDate)
	assert.Equal(t, "2024-01-03", *anchored.EndDate)

	early := ds.History("A", 3, "2023-06-01")
	assert.Len(t, early.Line, 5)

	assert.Empty(t, ds.History("ZZZ", 10, "").Line)
	assert.Empty(t, ds.History("A", 0, "").Line)
}

func TestHistorySynthesizedCandles(t *testing.T) {
	ds := New(models.MarketKR, []models.MBar{
		{Date: day1, Code: "A", Close: 100},
		{Date: day2, Code: "A", Close: 90},
	}, false, Options{})

	h := ds.History("A", 90, "")
	require.Len(t, h.Candle, 2)
	assert.Equal(t, models.MCandlePoint{Time: "2024-01-02", Open: 100, High: 100, Low: 100, Close: 100}, h.Candle[0])
	assert.Equal(t, models.MCandlePoint{Time: "2024-01-03", Open: 100, High: 100, Low: 90, Close: 90}, h.Candle[1])
	assert.Equal(t, models.ColorDown, h.Volume[1].Color)
}

// -----------------------------------------------------------------------------
// Gap screener
// -----------------------------------------------------------------------------

func gapFixture() *Dataset {
	return New(models.MarketUS, []models.MBar{
		{Date: day1, Code: "AAA", Name: "Triple A", Open: 100, High: 100, Low: 100, Close: 100, Turnover: 1000.7},
		{Date: day2, Code: "AAA", Name: "Triple A", Open: 110, High: 110, Low: 105, Close: 105, Turnover: 2000},
		{Date: day3, Code: "AAA", Name: "Triple A", Open: 100, High: 100, Low: 99, Close: 99, Turnover: 3000},
	}, true, Options{})
}

func TestGapScreenHandComputed(t *testing.T) {
	ds := gapFixture()
	base := models.MGapQuery{StartDate: "2024-01-02", EndDate: "2024-01-04", MinRate: -1000, MaxRate: 1000}

	q := base
	q.Base, q.Compare = models.PricePrevClose, models.PriceOpen
	rows := ds.GapScreen(q)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-01-03", rows[0].Date)
	assert.Equal(t, 10.0, rows[0].Rate)
	assert.Equal(t, -4.76, rows[1].Rate)
	assert.Equal(t, int64(2000), rows[0].Turnover)
	assert.Nil(t, rows[0].MA240)
	assert.Nil(t, rows[0].MA240Position)

	q = base
	q.Base, q.Compare = models.PriceClose, models.PriceNextClose
	rows = ds.GapScreen(q)
	require.Len(t, rows, 2)
	assert.Equal(t, 5.0, rows[0].Rate)
	assert.Equal(t, -5.71, rows[1].Rate)

	q = base
	q.Base, q.Compare = models.PriceOpen, models.PriceNextOpen
	rows = ds.GapScreen(q)
	require.Len(t, rows, 2)
	assert.Equal(t, 10.0, rows[0].Rate)
	assert.Equal(t, int64(1000), rows[0].Turnover)
	assert.Equal(t, -9.09, rows[1].Rate)
}

func TestGapScreenStagesAndFilters(t *testing.T) {
	ds := gapFixture()
	q := models.MGapQuery{
		StartDate: "2024-01-01", EndDate: "2024-12-31",
		Base: models.PricePrevClose, Compare: models.PriceOpen,
		MinRate: -1000, MaxRate: 1000,
		Extra: models.MGapStage{Base: models.PricePrevClose, Compare: models.PriceClose, Direction: models.DirectionUp},
	}
	rows := ds.GapScreen(q)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-01-03", rows[0].Date)

	// A stage missing one of its parameters is ignored.
	q.Extra.Direction = ""
	assert.Len(t, ds.GapScreen(q), 2)

	// Detail stage rows without a lead value are dropped.
	q.Detail = models.MGapStage{Base: models.PriceClose, Compare: models.PriceNextClose, Direction: models.DirectionDown}
	rows = ds.GapScreen(q)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-01-03", rows[0].Date)

	q = models.MGapQuery{StartDate: "2024-01-01", EndDate: "2024-12-31", Base: "bogus", Compare: "bogus", MinRate: 3, MaxRate: 99999}
	rows = ds.GapScreen(q)
	require.Len(t, rows, 1)
	assert.Equal(t, 10.0, rows[0].Rate)

	q.TickerFilter = " triple "
	assert.Len(t, ds.GapScreen(q), 1)
	q.TickerFilter = "zzz"
	assert.Empty(t, ds.GapScreen(q))

	q = models.MGapQuery{StartDate: "not a date", EndDate: "2024-12-31", MinRate: -1000, MaxRate: 1000}
	assert.Empty(t, ds.GapScreen(q))
}

func TestGapScreenMA240Position(t *testing.T) {
	var bars []models.MBar
	start := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 241; i++ {
		c := 100.0
		if i == 240 {
			c = 200
		}
		bars = append(bars, models.MBar{Date: start.AddDate(0, 0, i), Code: "X", Open: c, Close: c, Turnover: float64(i)})
	}
	bars[239].Open = 120 // gap up into the 240th session
	ds := New(models.MarketUS, bars, true, Options{})

	rows := ds.GapScreen(models.MGapQuery{
		StartDate: start.AddDate(0, 0, 238).Format(models.DateLayout),
		EndDate:   start.AddDate(0, 0, 240).Format(models.DateLayout),
		Base:      models.PricePrevClose, Compare: models.PriceOpen,
		MinRate: 3, MaxRate: 99999,
	})
	require.Len(t, rows, 2)

	require.NotNil(t, rows[0].MA240)
	assert.Equal(t, 100.0, *rows[0].MA240)
	require.NotNil(t, rows[0].MA240Position)
	assert.Equal(t, "above", *rows[0].MA240Position)

	require.NotNil(t, rows[1].MA240)
	assert.Equal(t, 100.42, *rows[1].MA240)
	assert.Equal(t, "above", *rows[1].MA240Position)
}

func TestGapScreenOrdering(t *testing.T) {
	ds := New(models.MarketKR, []models.MBar{
		{Date: day1, Code: "A", Open: 10, Close: 10},
		{Date: day2, Code: "A", Open: 20, Close: 20, Turnover: 1},
		{Date: day1, Code: "B", Open: 10, Close: 10},
		{Date: day2, Code: "B", Open: 20, Close: 20, Turnover: 5},
		{Date: day3, Code: "B", Open: 30, Close: 30, Turnover: 1},
	}, true, Options{})

	rows := ds.GapScreen(models.MGapQuery{StartDate: "2024-01-01", EndDate: "2024-01-31", MinRate: 3, MaxRate: 99999})
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"B", "A", "B"}, []string{rows[0].Code, rows[1].Code, rows[2].Code})
	assert.Equal(t, "2024-01-04", rows[2].Date)
}

// -----------------------------------------------------------------------------
// Search
// -----------------------------------------------------------------------------

func TestHugeCountsAreClamped(t *testing.T) {
	ds := New(models.MarketKR, []models.MBar{
		bar(day1, "AA", 10, 5, 100),
		bar(day2, "AA", 10, 5, 100),
		bar(day2, "AB", 10, 5, 90),
	}, true, Options{})

	items := ds.FrequentInstruments(day2, 1<<61, models.CategoryTradingValue)
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].TradingDays)

	assert.Len(t, ds.Search("A", 1<<62), 2)
	assert.Empty(t, ds.PullbackInstruments(day2, 1<<62, models.CategoryTradingValue))
	assert.Empty(t, ds.ConsecutiveRise(day2, 1<<62, models.CategoryTradingValue))
	assert.Len(t, ds.History("AA", 1<<62, "").Line, 2)
}

func TestSearchPrecedence(t *testing.T) {
	ds := New(models.MarketUS, []models.MBar{
		{Date: day1, Code: "BAAPL", Name: "B Holdings"},
		{Date: day1, Code: "AAPL", Name: "Apple Inc"},
		{Date: day1, Code: "ZZ", Name: "AAA Holdings"},
		{Date: day1, Code: "AA", Name: "Alcoa"},
		{Date: day1, Code: "QQ", Name: "Shaaa"},
		{Date: day2, Code: "AA", Name: "Alcoa"},
	}, true, Options{})

	res := ds.Search(" aa ", 50)
	codes := make([]string, len(res))
	for i, r := range res {
		codes[i] = r.Code
	}
	assert.Equal(t, []string{"AA", "AAPL", "ZZ", "BAAPL", "QQ"}, codes)

	assert.Len(t, ds.Search("aa", 2), 2)
	assert.Empty(t, ds.Search("   ", 50))
	assert.Empty(t, ds.Search("nothing", 50))
}

// -----------------------------------------------------------------------------
// Handle
// -----------------------------------------------------------------------------

func TestHandlePublish(t *testing.T) {
	h := NewHandle(models.MarketKR)
	assert.False(t, h.Published())
	assert.False(t, h.Loaded())
	assert.True(t, h.Get().IsEmpty())

	h.Publish(New(models.MarketKR, []models.MBar{bar(day1, "A", 1, 0, 0), bar(day2, "A", 1, 0, 0)}, true, Options{}))
	assert.True(t, h.Published())
	assert.True(t, h.Loaded())

	st := h.Status("DATASET_READY")
	assert.Equal(t, 2, st.Rows)
	assert.Equal(t, "2024-01-02", st.MinDate)
	assert.Equal(t, "2024-01-03", st.MaxDate)

	h.Publish(nil)
	assert.False(t, h.Loaded())
	assert.Equal(t, models.MarketKR, h.Get().Market())
}
