package interfaces

import "time"

// -----------------------------------------------------------------------------
// ISessionCalendar answers exchange-session questions for a loaded dataset.
// -----------------------------------------------------------------------------

type ISessionCalendar interface {

	// -----------------------------------------------------------------------------

	// IsTradingDay reports whether the exchange held a session on that date.
	IsTradingDay(day time.Time) bool

	// -----------------------------------------------------------------------------

	// MissingSessions counts sessions inside the span of days that days lacks.
	MissingSessions(days []time.Time) int
}
