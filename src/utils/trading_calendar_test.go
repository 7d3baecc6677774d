package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stock-board/src/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDefaultMIC(t *testing.T) {
	assert.Equal(t, "xkrx", DefaultMIC(models.MarketKR))
	assert.Equal(t, "xnys", DefaultMIC(models.MarketUS))
}

func TestWeekdayFallback(t *testing.T) {
	cal := GetCalendar(models.MarketKR, "zzzz", nil)
	assert.True(t, cal.Fallback)
	assert.Equal(t, "zzzz", cal.MIC)

	assert.True(t, cal.IsTradingDay(day(2024, 1, 5)))
	assert.False(t, cal.IsTradingDay(day(2024, 1, 6)))

	// Fri, Tue: only Monday the 8th is missing.
	assert.Equal(t, 1, cal.MissingSessions([]time.Time{day(2024, 1, 5), day(2024, 1, 9)}))
	assert.Equal(t, 0, cal.MissingSessions([]time.Time{day(2024, 1, 5)}))
}

func TestNYSEHolidays(t *testing.T) {
	cal := GetCalendar(models.MarketUS, "", nil)
	assert.Equal(t, "xnys", cal.MIC)
	assert.False(t, cal.Fallback)

	assert.False(t, cal.IsTradingDay(day(2024, 7, 4)))
	assert.False(t, cal.IsTradingDay(day(2024, 12, 25)))
	assert.True(t, cal.IsTradingDay(day(2024, 7, 5)))

	// The Independence Day gap is not a missing session.
	assert.Equal(t, 0, cal.MissingSessions([]time.Time{day(2024, 7, 3), day(2024, 7, 5)}))
}
