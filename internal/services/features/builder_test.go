package features

import (
	"math"
	"reflect"
	"testing"

	"FXCast/internal/domain/models"
)

func smallParams() Params {
	return Params{
		ReturnPeriods: []int{1},
		SMAPeriods:    []int{2},
		ATRPeriods:    []int{2},
		RSIPeriod:     0,
		IncludeHour:   true,
		IncludeDOW:    true,
		Horizon:       2,
		Threshold:     0.1,
	}
}

func TestBuildEmptyInput(t *testing.T) {
	table := Build("USDJPY", nil, DefaultParams())
	if !table.Empty() {
		t.Fatalf("expected empty table for empty input")
	}
}

func TestBuildLabels(t *testing.T) {
	closes := []float64{100, 100, 100, 100.5, 100.05, 101.0}
	bars := barsFromCloses(closes)
	table := Build("USDJPY", bars, smallParams())

	// lookback 2, horizon 2: only indices 2 and 3 survive
	if table.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", table.Len())
	}

	// row 0: close[4]=100.05 vs close[2]=100 -> +0.05%, inside band
	if table.Rows[0].Target != models.NoTrade {
		t.Fatalf("row 0 target = %v, want NO_TRADE", table.Rows[0].Target)
	}
	if !almostEqual(table.Rows[0].TargetReturn, 0.05) {
		t.Fatalf("row 0 target_return = %v, want 0.05", table.Rows[0].TargetReturn)
	}

	// row 1: close[5]=101 vs close[3]=100.5 -> +0.4975%, above band
	if table.Rows[1].Target != models.Long {
		t.Fatalf("row 1 target = %v, want LONG", table.Rows[1].Target)
	}
	if !almostEqual(table.Rows[1].TargetReturn, 0.4975) {
		t.Fatalf("row 1 target_return = %v, want 0.4975", table.Rows[1].TargetReturn)
	}

	if !table.Rows[0].Timestamp.Equal(bars[2].Timestamp) {
		t.Fatalf("row 0 timestamp = %v, want %v", table.Rows[0].Timestamp, bars[2].Timestamp)
	}
}

func TestBuildShortLabel(t *testing.T) {
	closes := []float64{100, 100, 100.05, 100.5, 99.0, 98.9}
	bars := barsFromCloses(closes)
	table := Build("USDJPY", bars, smallParams())

	if table.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", table.Len())
	}
	for i, row := range table.Rows {
		if row.Target != models.Short {
			t.Fatalf("row %d target = %v, want SHORT", i, row.Target)
		}
	}
}

func TestBuildColumnsOrder(t *testing.T) {
	bars := barsFromCloses([]float64{100, 100, 100, 100.5, 100.05, 101.0})
	table := Build("USDJPY", bars, smallParams())

	want := []string{
		"open", "high", "low", "close",
		"return_1m", "sma_dev_2m", "atr_2m",
		"hour", "market_session", "day_of_week", "is_weekend",
	}
	if !reflect.DeepEqual(table.Columns, want) {
		t.Fatalf("columns = %v, want %v", table.Columns, want)
	}
	for i, row := range table.Rows {
		if len(row.Values) != len(want) {
			t.Fatalf("row %d has %d values, want %d", i, len(row.Values), len(want))
		}
	}
}

func TestBuildNoNaNSurvives(t *testing.T) {
	closes := make([]float64, 200)
	price := 100.0
	for i := range closes {
		price += math.Sin(float64(i)*0.9)*0.4 - 0.02
		closes[i] = price
	}
	bars := barsFromCloses(closes)

	p := DefaultParams()
	p.Horizon = 10
	table := Build("USDJPY", bars, p)
	if table.Empty() {
		t.Fatalf("expected rows for a 200-bar series")
	}
	for i, row := range table.Rows {
		for j, v := range row.Values {
			if math.IsNaN(v) {
				t.Fatalf("NaN leaked into row %d column %q", i, table.Columns[j])
			}
		}
		if !row.Target.Defined() {
			t.Fatalf("undefined target leaked into row %d", i)
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	bars := barsFromCloses([]float64{100, 100, 100, 100.5, 100.05, 101.0})
	a := Build("USDJPY", bars, smallParams())
	b := Build("USDJPY", bars, smallParams())
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("two builds from the same bars differ")
	}
}

func TestLookbackExcludesRSI(t *testing.T) {
	p := Params{
		ReturnPeriods: []int{1, 5},
		SMAPeriods:    []int{20},
		ATRPeriods:    []int{14},
		RSIPeriod:     60,
	}
	if got := p.Lookback(); got != 20 {
		t.Fatalf("lookback = %d, want 20", got)
	}
}
