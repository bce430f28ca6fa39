package features

import (
	"math"

	"FXCast/internal/domain/models"
)

// Indicator functions are pure and batch: given a bar series they return
// one value per input bar, with NaN wherever the lookback window is
// incomplete. Window sums are computed directly per index (not as a running
// accumulator), so the value at index i depends only on bars[i-p..i] and a
// trailing slice produces bit-identical output to the bulk pass. That keeps
// training and serving in parity.

// ReturnPct computes the percent change of close over the trailing period:
// (close[t] - close[t-p]) / close[t-p] * 100. NaN for the first p rows.
func ReturnPct(bars []models.Bar, period int) []float64 {
	out := nanSlice(len(bars))
	if period <= 0 {
		return out
	}
	for i := period; i < len(bars); i++ {
		prev := bars[i-period].Close
		if prev == 0 {
			continue
		}
		out[i] = (bars[i].Close - prev) / prev * 100
	}
	return out
}

// SMADeviation computes (close - sma) / sma * 100 where sma is the simple
// moving average of close over the period. NaN for the first p-1 rows.
func SMADeviation(bars []models.Bar, period int) []float64 {
	out := nanSlice(len(bars))
	if period <= 0 {
		return out
	}
	for i := period - 1; i < len(bars); i++ {
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += bars[j].Close
		}
		sma := sum / float64(period)
		if sma == 0 {
			continue
		}
		out[i] = (bars[i].Close - sma) / sma * 100
	}
	return out
}

// TrueRange computes per-bar true range:
// max(high-low, |high - prevClose|, |low - prevClose|).
// NaN on row 0, which has no previous close.
func TrueRange(bars []models.Bar) []float64 {
	out := nanSlice(len(bars))
	for i := 1; i < len(bars); i++ {
		hl := bars[i].High - bars[i].Low
		hc := math.Abs(bars[i].High - bars[i-1].Close)
		lc := math.Abs(bars[i].Low - bars[i-1].Close)
		out[i] = math.Max(hl, math.Max(hc, lc))
	}
	return out
}

// ATR computes the rolling mean of true range over the period.
// NaN for the first p rows (true range itself starts at row 1).
func ATR(bars []models.Bar, period int) []float64 {
	out := nanSlice(len(bars))
	if period <= 0 {
		return out
	}
	tr := TrueRange(bars)
	for i := period; i < len(bars); i++ {
		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += tr[j]
		}
		out[i] = sum / float64(period)
	}
	return out
}

// RSI computes a rolling-mean RSI: mean gain over the period divided by
// mean loss, transformed as 100 - 100/(1+rs). NaN for the first p rows.
// A window with zero mean loss has no defined relative strength; the value
// stays NaN so a zero-loss stretch gets trimmed instead of read as maximal
// momentum.
func RSI(bars []models.Bar, period int) []float64 {
	out := nanSlice(len(bars))
	if period <= 0 {
		return out
	}
	for i := period; i < len(bars); i++ {
		var gsum, lsum float64
		for j := i - period + 1; j <= i; j++ {
			d := bars[j].Close - bars[j-1].Close
			if d > 0 {
				gsum += d
			} else {
				lsum -= d
			}
		}
		lmean := lsum / float64(period)
		if lmean == 0 {
			continue
		}
		rs := (gsum / float64(period)) / lmean
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
