package util

import (
	"testing"
	"time"
)

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("", 7); got != 7 {
		t.Errorf("empty: got %d", got)
	}
	if got := ParseIntDefault("abc", 7); got != 7 {
		t.Errorf("invalid: got %d", got)
	}
	if got := ParseIntDefault("42", 7); got != 42 {
		t.Errorf("valid: got %d", got)
	}
}

func TestParseTime(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-01T10:30:00Z", time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)},
		{"2024-03-01T10:30:00.500Z", time.Date(2024, 3, 1, 10, 30, 0, 500000000, time.UTC)},
		{"2024-03-01 10:30:00", time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)},
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"1709289000", time.Unix(1709289000, 0).UTC()},
	}
	for _, tc := range cases {
		got, ok := ParseTime(tc.in)
		if !ok {
			t.Errorf("ParseTime(%q): no match", tc.in)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseTime(%q) = %v, want %v", tc.in, got, tc.want)
		}
		if got.Location() != time.UTC {
			t.Errorf("ParseTime(%q) not UTC", tc.in)
		}
	}

	for _, in := range []string{"", "  ", "not-a-time", "2024/03/01"} {
		if _, ok := ParseTime(in); ok {
			t.Errorf("ParseTime(%q): expected failure", in)
		}
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := ParseTimeDefault("", def); !got.Equal(def) {
		t.Errorf("empty: got %v", got)
	}
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if got := ParseTimeDefault("2024-03-01", def); !got.Equal(want) {
		t.Errorf("valid: got %v", got)
	}
}

func TestFloorToMinute(t *testing.T) {
	in := time.Date(2024, 3, 1, 10, 30, 45, 123456789, time.UTC)
	want := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	if got := FloorToMinute(in); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	est := time.FixedZone("EST", -5*3600)
	inZoned := time.Date(2024, 3, 1, 5, 30, 45, 0, est)
	if got := FloorToMinute(inZoned); !got.Equal(want) || got.Location() != time.UTC {
		t.Errorf("zoned: got %v, want %v", got, want)
	}
}
