package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"stock-board/src/analysis/core"
	"stock-board/src/helpers"
	"stock-board/src/interfaces"
	"stock-board/src/logger"
	"stock-board/src/models"
)

// LoaderOptions configures Load.
type LoaderOptions struct {
	Options
	Calendar interfaces.ISessionCalendar // optional, enables the missing-session count
	Log      *logger.Logger
}

// column identifies a canonical field of the source table.
type column int

const (
	colDate column = iota
	colCode
	colName
	colExchange
	colOpen
	colHigh
	colLow
	colClose
	colChange
	colVolume
	colTurnover
	colCount
)

// headerAliases maps normalized header names onto canonical columns. The
// export scripts write Korean headers; English names are accepted too.
var headerAliases = map[string]column{
	"날짜":         colDate,
	"date":       colDate,
	"종목코드":       colCode,
	"티커":         colCode,
	"code":       colCode,
	"ticker":     colCode,
	"symbol":     colCode,
	"종목명":        colName,
	"name":       colName,
	"시장":         colExchange,
	"거래소":        colExchange,
	"market":     colExchange,
	"exchange":   colExchange,
	"시가":         colOpen,
	"open":       colOpen,
	"고가":         colHigh,
	"high":       colHigh,
	"저가":         colLow,
	"low":        colLow,
	"종가":         colClose,
	"close":      colClose,
	"전일대비변동률(%)": colChange,
	"change_pct": colChange,
	"거래량":        colVolume,
	"volume":     colVolume,
	"거래대금":       colTurnover,
	"turnover":   colTurnover,
}

const ctxCheckEvery = 50000

// -----------------------------------------------------------------------------

// Load reads a market file into a Dataset. Files ending in .parquet are read
// as Parquet, everything else as CSV. A missing file yields an empty dataset
// together with a DatasetError so the caller can report it and keep serving.
func Load(ctx context.Context, market models.Market, path string, opts LoaderOptions) (*Dataset, models.MLoadReport, error) {
	start := time.Now()
	report := models.MLoadReport{Market: market, Path: path}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(market, nil, true, opts.Options), report, helpers.NewDatasetError(fmt.Sprintf("data file %s not found", path), err)
		}
		return New(market, nil, true, opts.Options), report, helpers.NewDatasetError("cannot stat data file", err)
	}

	var (
		tbl *table
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		tbl, err = readParquet(ctx, path, &report)
	} else {
		tbl, err = readCSV(ctx, path, &report)
	}
	if err != nil {
		return New(market, nil, true, opts.Options), report, err
	}

	ds := tbl.build(market, &report, opts)
	report.ElapsedSeconds = time.Since(start).Seconds()

	if opts.Log != nil {
		opts.Log.Info("[%s] Loaded %d/%d rows from %s (bad dates %d, coerced %d, duplicates %d, missing sessions %d) in %.2fs",
			strings.ToUpper(string(market)), report.RowsKept, report.RowsRead, path,
			report.BadDates, report.CoercedCells, report.Duplicates, report.MissingSessions, report.ElapsedSeconds)
		if first, last, ok := ds.Bounds(); ok {
			opts.Log.Info("[%s] Date range %s ~ %s", strings.ToUpper(string(market)),
				first.Format(models.DateLayout), last.Format(models.DateLayout))
		}
	}
	return ds, report, nil
}

// -----------------------------------------------------------------------------

// table is the parsed file before derivation and indexing.
type table struct {
	bars        []models.MBar
	hasOHLC     bool
	hasChange   bool
	hasTurnover bool
}

func (t *table) build(market models.Market, report *models.MLoadReport, opts LoaderOptions) *Dataset {
	bars, dups := dedupe(t.bars)
	report.Duplicates = dups
	report.CoercedCells += clampNonFinite(bars)

	if !t.hasTurnover {
		for i := range bars {
			bars[i].Turnover = bars[i].Close * bars[i].Volume
		}
	}
	if !t.hasChange {
		recomputeChange(bars)
	}
	// Derived values can still overflow
	report.CoercedCells += clampNonFinite(bars)
	report.RowsKept = len(bars)

	ds := New(market, bars, t.hasOHLC, opts.Options)
	if opts.Calendar != nil {
		report.MissingSessions = opts.Calendar.MissingSessions(ds.days)
	}
	return ds
}

// clampNonFinite zeroes NaN and ±Inf values, whether read from a parquet
// file or derived by overflow, and returns how many it replaced.
func clampNonFinite(bars []models.MBar) int {
	n := 0
	for i := range bars {
		b := &bars[i]
		for _, v := range []*float64{&b.Open, &b.High, &b.Low, &b.Close, &b.Volume, &b.Turnover, &b.ChangePct} {
			if math.IsNaN(*v) || math.IsInf(*v, 0) {
				*v = 0
				n++
			}
		}
	}
	return n
}

// -----------------------------------------------------------------------------
// CSV
// -----------------------------------------------------------------------------

func readCSV(ctx context.Context, path string, report *models.MLoadReport) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, helpers.NewDatasetError("cannot open data file", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return nil, helpers.NewDatasetError("cannot read header", err)
	}

	pos := make([]int, colCount)
	for i := range pos {
		pos[i] = -1
	}
	for i, h := range header {
		h = strings.TrimPrefix(h, "\uFEFF")
		if c, ok := headerAliases[strings.ToLower(strings.TrimSpace(h))]; ok && pos[c] < 0 {
			pos[c] = i
		}
	}
	required := map[column]string{colDate: "date", colCode: "code", colClose: "close"}
	for c, name := range required {
		if pos[c] < 0 {
			return nil, helpers.NewDatasetError(fmt.Sprintf("missing required column %q in header %v", name, header), nil)
		}
	}

	tbl := &table{
		hasOHLC:     pos[colOpen] >= 0 && pos[colHigh] >= 0 && pos[colLow] >= 0,
		hasChange:   pos[colChange] >= 0,
		hasTurnover: pos[colTurnover] >= 0,
	}

	field := func(rec []string, c column) string {
		if p := pos[c]; p >= 0 && p < len(rec) {
			return strings.TrimSpace(rec[p])
		}
		return ""
	}
	number := func(rec []string, c column) float64 {
		v, ok := parseNumber(field(rec, c))
		if !ok {
			report.CoercedCells++
		}
		return v
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				// malformed rows are dropped like rows without a date
				report.RowsRead++
				report.BadDates++
				continue
			}
			return nil, helpers.NewDatasetError("cannot read data file", err)
		}

		report.RowsRead++
		if report.RowsRead%ctxCheckEvery == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}

		day, ok := ParseDay(field(rec, colDate))
		if !ok {
			report.BadDates++
			continue
		}

		b := models.MBar{
			Date:     day,
			Code:     field(rec, colCode),
			Name:     field(rec, colName),
			Exchange: field(rec, colExchange),
			Close:    number(rec, colClose),
		}
		if tbl.hasOHLC {
			b.Open = number(rec, colOpen)
			b.High = number(rec, colHigh)
			b.Low = number(rec, colLow)
		}
		if tbl.hasChange {
			b.ChangePct = number(rec, colChange)
		}
		if pos[colVolume] >= 0 {
			b.Volume = number(rec, colVolume)
		}
		if tbl.hasTurnover {
			b.Turnover = number(rec, colTurnover)
		}
		tbl.bars = append(tbl.bars, b)
	}

	return tbl, nil
}

// parseNumber coerces a cell to float. Blank cells are 0 without complaint;
// anything else unparseable is 0 and reported through ok=false.
func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, true
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// -----------------------------------------------------------------------------
// Derivation
// -----------------------------------------------------------------------------

// dedupe keeps the last row for each (code, date), preserving the order of
// the kept rows.
func dedupe(bars []models.MBar) ([]models.MBar, int) {
	type key struct {
		code string
		day  time.Time
	}
	last := make(map[key]int, len(bars))
	for i := range bars {
		last[key{bars[i].Code, bars[i].Date}] = i
	}
	if len(last) == len(bars) {
		return bars, 0
	}

	out := make([]models.MBar, 0, len(last))
	for i := range bars {
		if last[key{bars[i].Code, bars[i].Date}] == i {
			out = append(out, bars[i])
		}
	}
	return out, len(bars) - len(out)
}

// recomputeChange fills ChangePct from each instrument's previous close. The
// first observation, or one following a zero close, gets 0.
func recomputeChange(bars []models.MBar) {
	order := make([]int, len(bars))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		x, y := &bars[order[a]], &bars[order[b]]
		if x.Code != y.Code {
			return x.Code < y.Code
		}
		return x.Date.Before(y.Date)
	})

	prevCode := ""
	prevClose := 0.0
	for n, i := range order {
		b := &bars[i]
		if n == 0 || b.Code != prevCode {
			b.ChangePct = 0
		} else {
			b.ChangePct = core.CalculateChangePercent(b.Close, prevClose)
		}
		prevCode, prevClose = b.Code, b.Close
	}
}
