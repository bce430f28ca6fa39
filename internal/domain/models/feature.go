package models

import "time"

// FeatureRow is one fully computed observation: indicator and calendar
// values aligned with FeatureTable.Columns, plus the forward-return label.
type FeatureRow struct {
	Timestamp    time.Time
	Values       []float64
	TargetReturn float64
	Target       Class
}

// FeatureTable is a strictly time-ordered feature matrix with labels.
// After building, every retained row has a complete lookback window and a
// complete lookahead window; no NaN survives trimming. Columns holds the
// feature column order that must be recorded at fit time and reused
// unchanged at inference time. Label fields live on the row, outside the
// column set, so they can never leak into the feature matrix.
type FeatureTable struct {
	Symbol  string
	Columns []string
	Rows    []FeatureRow
}

func (t FeatureTable) Empty() bool { return len(t.Rows) == 0 }

func (t FeatureTable) Len() int { return len(t.Rows) }

// ColumnIndex returns the position of a named column, or -1.
func (t FeatureTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Tail returns a view over the last n rows (all rows if n exceeds Len).
func (t FeatureTable) Tail(n int) FeatureTable {
	if n >= len(t.Rows) {
		return t
	}
	return FeatureTable{Symbol: t.Symbol, Columns: t.Columns, Rows: t.Rows[len(t.Rows)-n:]}
}
