package server

import (
	"net/http"

	"stock-board/src/dataset"
	"stock-board/src/models"

	"github.com/gin-gonic/gin"
)

// Scanner defaults when a request omits the parameter
const (
	defaultFrequentWeeks   = 4
	defaultPullbackDaysAgo = 1
	defaultConsecutiveDays = 2
)

// marketHandlers serves the read-only dataset routes of one market. Every
// handler reads the dataset once, so a publish mid-request is never observed
// half way.
type marketHandlers struct {
	handle      *dataset.Handle
	searchLimit int
}

func (m *marketHandlers) register(rg *gin.RouterGroup) {
	rg.GET("/dates", m.dates)
	rg.GET("/data", m.dayData)
	rg.GET("/frequent", m.frequent)
	rg.GET("/pullback", m.pullback)
	rg.GET("/consecutive", m.consecutive)
	rg.GET("/history", m.history)
	rg.GET("/search", m.search)
	rg.GET("/gap-analysis", m.gapAnalysis)
}

func (m *marketHandlers) market() models.Market {
	return m.handle.Market()
}

// -----------------------------------------------------------------------------

func (m *marketHandlers) dates(c *gin.Context) {
	c.JSON(http.StatusOK, m.handle.Get().Dates())
}

// -----------------------------------------------------------------------------

func (m *marketHandlers) dayData(c *gin.Context) {
	raw, ok := requireQuery(c, "date")
	if !ok {
		return
	}
	ds, day := m.handle.Get(), queryDay(raw)
	if m.market() == models.MarketUS {
		c.JSON(http.StatusOK, ds.USDaySnapshot(day))
		return
	}
	c.JSON(http.StatusOK, ds.KRDaySnapshot(day))
}

// -----------------------------------------------------------------------------

func (m *marketHandlers) category(c *gin.Context) models.Category {
	if v := c.Query("category"); v != "" {
		return models.Category(v)
	}
	return models.DefaultCategory(m.market())
}

// -----------------------------------------------------------------------------

func (m *marketHandlers) frequent(c *gin.Context) {
	raw, ok := requireQuery(c, "date")
	if !ok {
		return
	}
	weeks, ok := queryInt(c, "weeks", defaultFrequentWeeks)
	if !ok {
		return
	}
	day, valid := dataset.ParseDay(raw)
	if !valid {
		c.JSON(http.StatusOK, []models.MFrequentItem{})
		return
	}
	c.JSON(http.StatusOK, m.handle.Get().FrequentInstruments(day, weeks, m.category(c)))
}

// -----------------------------------------------------------------------------

func (m *marketHandlers) pullback(c *gin.Context) {
	raw, ok := requireQuery(c, "date")
	if !ok {
		return
	}
	daysAgo, ok := queryInt(c, "days_ago", defaultPullbackDaysAgo)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, m.handle.Get().PullbackInstruments(queryDay(raw), daysAgo, m.category(c)))
}

// -----------------------------------------------------------------------------

func (m *marketHandlers) consecutive(c *gin.Context) {
	raw, ok := requireQuery(c, "date")
	if !ok {
		return
	}
	days, ok := queryInt(c, "days", defaultConsecutiveDays)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, m.handle.Get().ConsecutiveRise(queryDay(raw), days, m.category(c)))
}

// -----------------------------------------------------------------------------

func (m *marketHandlers) history(c *gin.Context) {
	param := "code"
	if m.market() == models.MarketUS {
		param = "ticker"
	}
	code, ok := requireQuery(c, param)
	if !ok {
		return
	}
	days, ok := queryInt(c, "days", dataset.DefaultHistoryDays)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, m.handle.Get().History(code, days, c.Query("end_date")))
}

// -----------------------------------------------------------------------------

func (m *marketHandlers) search(c *gin.Context) {
	q, ok := requireQuery(c, "q")
	if !ok {
		return
	}
	def := m.searchLimit
	if def <= 0 {
		def = dataset.DefaultSearchLimit
	}
	limit, ok := queryInt(c, "limit", def)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, m.handle.Get().Search(q, limit))
}

// -----------------------------------------------------------------------------

func (m *marketHandlers) gapAnalysis(c *gin.Context) {
	start, ok := requireQuery(c, "start_date")
	if !ok {
		return
	}
	end, ok := requireQuery(c, "end_date")
	if !ok {
		return
	}
	minRate, ok := queryFloat(c, "min_rate", dataset.DefaultGapMinRate)
	if !ok {
		return
	}
	maxRate, ok := queryFloat(c, "max_rate", dataset.DefaultGapMaxRate)
	if !ok {
		return
	}

	q := models.MGapQuery{
		StartDate:    start,
		EndDate:      end,
		Base:         models.PriceKind(c.DefaultQuery("base_price", string(dataset.DefaultGapBase))),
		Compare:      models.PriceKind(c.DefaultQuery("compare_price", string(dataset.DefaultGapCompare))),
		MinRate:      minRate,
		MaxRate:      maxRate,
		Extra:        stageFromQuery(c, "extra"),
		Detail:       stageFromQuery(c, "detail"),
		TickerFilter: c.Query("ticker_filter"),
	}
	c.JSON(http.StatusOK, m.handle.Get().GapScreen(q))
}

func stageFromQuery(c *gin.Context, prefix string) models.MGapStage {
	return models.MGapStage{
		Base:      models.PriceKind(c.Query(prefix + "_base")),
		Compare:   models.PriceKind(c.Query(prefix + "_compare")),
		Direction: models.Direction(c.Query(prefix + "_direction")),
	}
}
