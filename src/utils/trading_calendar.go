package utils

import (
	"strings"
	"time"

	"github.com/scmhub/calendar"

	"stock-board/src/logger"
	"stock-board/src/models"
)

// TradingCalendar answers session questions for one exchange using
// scmhub/calendar, with a weekday fallback when the MIC is unknown.
type TradingCalendar struct {
	MIC      string
	Calendar *calendar.Calendar
	Fallback bool
	Timezone *time.Location
}

// -----------------------------------------------------------------------------

// DefaultMIC maps a market onto its primary exchange (ISO 10383).
func DefaultMIC(market models.Market) string {
	if market == models.MarketKR {
		return "xkrx"
	}
	return "xnys"
}

// -----------------------------------------------------------------------------

// GetCalendar loads the calendar for mic. An empty mic resolves through
// DefaultMIC.
func GetCalendar(market models.Market, mic string, log *logger.Logger) *TradingCalendar {
	mic = strings.ToLower(strings.TrimSpace(mic))
	if mic == "" {
		mic = DefaultMIC(market)
	}

	cal := calendar.GetCalendar(mic)
	if cal == nil {
		if log != nil {
			log.Warning("No calendar for MIC '%s'. Using weekday fallback.", mic)
		}
		loc := time.UTC
		if market == models.MarketKR {
			if seoul, err := time.LoadLocation("Asia/Seoul"); err == nil {
				loc = seoul
			}
		} else if ny, err := time.LoadLocation("America/New_York"); err == nil {
			loc = ny
		}
		return &TradingCalendar{MIC: mic, Fallback: true, Timezone: loc}
	}

	return &TradingCalendar{MIC: mic, Calendar: cal, Timezone: cal.Loc}
}

// -----------------------------------------------------------------------------

// IsTradingDay reports whether the exchange held a session on the calendar
// date of day. Only the year, month and day of the argument are used.
func (tc *TradingCalendar) IsTradingDay(day time.Time) bool {
	loc := tc.Timezone
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := day.Date()
	local := time.Date(y, m, d, 12, 0, 0, 0, loc)

	if tc.Fallback {
		wd := local.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	}
	return tc.Calendar.IsBusinessDay(local)
}

// -----------------------------------------------------------------------------

// MissingSessions counts exchange sessions between the first and last of
// days (inclusive) that are absent from days. days must be sorted ascending.
func (tc *TradingCalendar) MissingSessions(days []time.Time) int {
	if len(days) < 2 {
		return 0
	}

	present := make(map[string]struct{}, len(days))
	for _, d := range days {
		present[d.Format(models.DateLayout)] = struct{}{}
	}

	missing := 0
	last := days[len(days)-1]
	for d := days[0]; !d.After(last); d = d.AddDate(0, 0, 1) {
		if !tc.IsTradingDay(d) {
			continue
		}
		if _, ok := present[d.Format(models.DateLayout)]; !ok {
			missing++
		}
	}
	return missing
}
