package features

import (
	"testing"
	"time"
)

func TestMarketSessionPrecedence(t *testing.T) {
	cases := []struct {
		hour int
		want int
	}{
		{0, SessionLondon},
		{1, SessionLondon},
		{2, SessionNewYork},
		{7, SessionNewYork},
		{8, SessionTokyo},
		{12, SessionTokyo},
		// 15 and 16 overlap with London; Tokyo wins on evaluation order
		{15, SessionTokyo},
		{16, SessionTokyo},
		{17, SessionLondon},
		{20, SessionLondon},
		{23, SessionLondon},
	}
	for _, c := range cases {
		if got := MarketSession(c.hour); got != c.want {
			t.Fatalf("MarketSession(%d) = %d, want %d", c.hour, got, c.want)
		}
	}
}

func TestDayOfWeekMondayZero(t *testing.T) {
	// 2024-01-01 was a Monday
	monday := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		d := monday.AddDate(0, 0, i)
		if got := DayOfWeek(d); got != i {
			t.Fatalf("DayOfWeek(%v) = %d, want %d", d.Weekday(), got, i)
		}
	}
}

func TestIsWeekend(t *testing.T) {
	saturday := time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	friday := time.Date(2024, 1, 5, 23, 59, 0, 0, time.UTC)

	if !IsWeekend(saturday) || !IsWeekend(sunday) {
		t.Fatalf("expected saturday and sunday to be weekend")
	}
	if IsWeekend(friday) {
		t.Fatalf("friday is not a weekend")
	}
}
