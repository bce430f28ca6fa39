package features

import "time"

// Market session codes.
const (
	SessionTokyo   = 0
	SessionLondon  = 1
	SessionNewYork = 2
	SessionOff     = 3
)

// MarketSession classifies an hour of day (UTC+9 trading clock) into a
// session code. The hour ranges intentionally overlap; precedence is the
// evaluation order Tokyo -> London -> New York -> off-session.
func MarketSession(hour int) int {
	switch {
	case hour >= 8 && hour < 17:
		return SessionTokyo
	case hour >= 15 || hour < 2:
		return SessionLondon
	case hour >= 20 || hour < 8:
		return SessionNewYork
	default:
		return SessionOff
	}
}

// DayOfWeek returns the weekday with Monday=0 .. Sunday=6.
func DayOfWeek(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// IsWeekend reports whether the timestamp falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	return DayOfWeek(t) >= 5
}
