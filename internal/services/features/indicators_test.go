package features

import (
	"math"
	"testing"
	"time"

	"FXCast/internal/domain/models"
)

func barsFromCloses(closes []float64) []models.Bar {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, len(closes))
	for i, c := range closes {
		bars[i] = models.Bar{
			Timestamp: start.Add(time.Duration(i) * time.Minute),
			Symbol:    "USDJPY",
			Open:      c,
			High:      c * 1.001,
			Low:       c * 0.999,
			Close:     c,
		}
	}
	return bars
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-4
}

func TestReturnPct(t *testing.T) {
	bars := barsFromCloses([]float64{100, 101, 99, 102, 103})
	got := ReturnPct(bars, 1)

	if !math.IsNaN(got[0]) {
		t.Fatalf("expected NaN at index 0, got %v", got[0])
	}
	want := []float64{1.0, -1.9802, 3.0303, 0.9804}
	for i, w := range want {
		if !almostEqual(got[i+1], w) {
			t.Fatalf("return_1m[%d] = %v, want %v", i+1, got[i+1], w)
		}
	}
}

func TestReturnPctLeadingNaNCount(t *testing.T) {
	bars := barsFromCloses([]float64{100, 101, 102, 103, 104, 105})
	got := ReturnPct(bars, 3)
	for i := 0; i < 3; i++ {
		if !math.IsNaN(got[i]) {
			t.Fatalf("expected NaN at index %d", i)
		}
	}
	for i := 3; i < len(got); i++ {
		if math.IsNaN(got[i]) {
			t.Fatalf("unexpected NaN at index %d", i)
		}
	}
}

func TestSMADeviation(t *testing.T) {
	bars := barsFromCloses([]float64{100, 102, 104})
	got := SMADeviation(bars, 2)

	if !math.IsNaN(got[0]) {
		t.Fatalf("expected NaN at index 0")
	}
	// sma(100,102)=101 -> (102-101)/101*100
	if !almostEqual(got[1], 0.9901) {
		t.Fatalf("sma_dev[1] = %v, want 0.9901", got[1])
	}
	// sma(102,104)=103 -> (104-103)/103*100
	if !almostEqual(got[2], 0.9709) {
		t.Fatalf("sma_dev[2] = %v, want 0.9709", got[2])
	}
}

func TestATRLeadingNaNs(t *testing.T) {
	bars := barsFromCloses([]float64{100, 101, 99, 102, 103})
	got := ATR(bars, 2)

	for i := 0; i < 2; i++ {
		if !math.IsNaN(got[i]) {
			t.Fatalf("expected NaN at index %d", i)
		}
	}

	tr := TrueRange(bars)
	want := (tr[1] + tr[2]) / 2
	if !almostEqual(got[2], want) {
		t.Fatalf("atr[2] = %v, want %v", got[2], want)
	}
}

func TestTrueRangeUsesPrevClose(t *testing.T) {
	bars := barsFromCloses([]float64{100, 90})
	got := TrueRange(bars)

	if !math.IsNaN(got[0]) {
		t.Fatalf("expected NaN at index 0")
	}
	// gap down: |high - prevClose| dominates high-low
	want := math.Abs(bars[1].High - 100)
	hl := bars[1].High - bars[1].Low
	lc := math.Abs(bars[1].Low - 100)
	want = math.Max(math.Max(want, hl), lc)
	if !almostEqual(got[1], want) {
		t.Fatalf("tr[1] = %v, want %v", got[1], want)
	}
}

func TestRSIZeroLossStaysUndefined(t *testing.T) {
	// strictly rising closes: no losses in any window
	bars := barsFromCloses([]float64{100, 101, 102, 103, 104, 105, 106})
	got := RSI(bars, 3)
	for i, v := range got {
		if !math.IsNaN(v) {
			t.Fatalf("expected NaN at index %d for zero-loss window, got %v", i, v)
		}
	}
}

func TestRSIRange(t *testing.T) {
	bars := barsFromCloses([]float64{100, 101, 99, 102, 98, 103, 97, 104})
	got := RSI(bars, 3)
	for i := 3; i < len(got); i++ {
		if math.IsNaN(got[i]) {
			continue
		}
		if got[i] <= 0 || got[i] >= 100 {
			t.Fatalf("rsi[%d] = %v, want in (0, 100)", i, got[i])
		}
	}
}

// Trailing-window recomputation must be bit-identical to the bulk pass.
func TestTrailingSliceParity(t *testing.T) {
	closes := make([]float64, 120)
	price := 100.0
	for i := range closes {
		// deterministic wiggle with both gains and losses
		price += math.Sin(float64(i)*0.7)*0.6 - 0.05
		closes[i] = price
	}
	bars := barsFromCloses(closes)

	type indicator struct {
		name   string
		period int
		fn     func([]models.Bar, int) []float64
	}
	cases := []indicator{
		{"return", 5, ReturnPct},
		{"sma_dev", 10, SMADeviation},
		{"atr", 7, ATR},
		{"rsi", 14, RSI},
	}

	for _, c := range cases {
		bulk := c.fn(bars, c.period)
		for i := c.period + 1; i < len(bars); i++ {
			window := bars[i-c.period-1 : i+1]
			tail := c.fn(window, c.period)
			b, w := bulk[i], tail[len(tail)-1]
			if math.IsNaN(b) != math.IsNaN(w) {
				t.Fatalf("%s: NaN mismatch at index %d: bulk=%v window=%v", c.name, i, b, w)
			}
			if !math.IsNaN(b) && b != w {
				t.Fatalf("%s: parity broken at index %d: bulk=%v window=%v", c.name, i, b, w)
			}
		}
	}
}
