package models

import "time"

// Bar is one OHLC observation for a fixed one-minute interval.
// Timestamps are strictly increasing; gaps are tolerated, never interpolated.
type Bar struct {
	Timestamp time.Time
	Symbol    string
	Open      float64
	High      float64
	Low       float64
	Close     float64
}

// Tick is a single price print from a live stream. Ticks are folded into
// minute Bars by the ingest collector.
type Tick struct {
	Symbol    string
	Timestamp int64 // unix seconds
	Price     float64
	Volume    float64
}
