package dataset

import (
	"context"

	"github.com/parquet-go/parquet-go"

	"stock-board/src/helpers"
	"stock-board/src/models"
)

// ParquetBar is the row layout of a market snapshot stored as Parquet.
// Dates are strings so one file format serves both markets.
type ParquetBar struct {
	Date      string   `parquet:"date"`
	Code      string   `parquet:"code"`
	Name      string   `parquet:"name"`
	Exchange  string   `parquet:"market,optional"`
	Open      *float64 `parquet:"open,optional"`
	High      *float64 `parquet:"high,optional"`
	Low       *float64 `parquet:"low,optional"`
	Close     float64  `parquet:"close"`
	ChangePct *float64 `parquet:"change_pct,optional"`
	Volume    float64  `parquet:"volume,optional"`
	Turnover  *float64 `parquet:"turnover,optional"`
}

// -----------------------------------------------------------------------------

func readParquet(ctx context.Context, path string, report *models.MLoadReport) (*table, error) {
	rows, err := parquet.ReadFile[ParquetBar](path)
	if err != nil {
		return nil, helpers.NewDatasetError("cannot read parquet file", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tbl := &table{hasOHLC: true, hasChange: true, hasTurnover: true}
	tbl.bars = make([]models.MBar, 0, len(rows))

	for _, row := range rows {
		report.RowsRead++
		day, ok := ParseDay(row.Date)
		if !ok {
			report.BadDates++
			continue
		}

		b := models.MBar{
			Date:     day,
			Code:     row.Code,
			Name:     row.Name,
			Exchange: row.Exchange,
			Close:    row.Close,
			Volume:   row.Volume,
		}
		if row.Open == nil || row.High == nil || row.Low == nil {
			tbl.hasOHLC = false
		} else {
			b.Open, b.High, b.Low = *row.Open, *row.High, *row.Low
		}
		if row.ChangePct == nil {
			tbl.hasChange = false
		} else {
			b.ChangePct = *row.ChangePct
		}
		if row.Turnover == nil {
			tbl.hasTurnover = false
		} else {
			b.Turnover = *row.Turnover
		}
		tbl.bars = append(tbl.bars, b)
	}

	// A null anywhere in a derived column means the column is recomputed for
	// every row, matching a CSV that lacks the column.
	if !tbl.hasOHLC {
		for i := range tbl.bars {
			tbl.bars[i].Open, tbl.bars[i].High, tbl.bars[i].Low = 0, 0, 0
		}
	}
	return tbl, nil
}

// WriteParquet stores bars in the ParquetBar layout. Without OHLC the open,
// high and low columns are written as nulls so a reload synthesizes candles
// again instead of seeing suspended sessions.
func WriteParquet(path string, bars []models.MBar, hasOHLC bool) error {
	rows := make([]ParquetBar, len(bars))
	for i, b := range bars {
		b := b
		rows[i] = ParquetBar{
			Date:      b.Date.Format(models.DateLayout),
			Code:      b.Code,
			Name:      b.Name,
			Exchange:  b.Exchange,
			Close:     b.Close,
			ChangePct: &b.ChangePct,
			Volume:    b.Volume,
			Turnover:  &b.Turnover,
		}
		if hasOHLC {
			rows[i].Open, rows[i].High, rows[i].Low = &b.Open, &b.High, &b.Low
		}
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		return helpers.NewDatasetError("cannot write parquet file", err)
	}
	return nil
}

// ExportParquet writes the resident panel, with its derived change and
// turnover columns, to a Parquet file.
func (d *Dataset) ExportParquet(path string) error {
	return WriteParquet(path, d.bars, d.hasOHLC)
}
