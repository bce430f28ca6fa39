package features

import (
	"fmt"
	"math"

	"FXCast/internal/domain/models"
)

// Params configures feature and label construction. Treated as immutable
// for the duration of a run.
type Params struct {
	ReturnPeriods []int
	SMAPeriods    []int
	ATRPeriods    []int
	RSIPeriod     int
	IncludeHour   bool
	IncludeDOW    bool

	// Horizon is the number of future bars used for the labeling return.
	Horizon int
	// Threshold is the percent band around zero mapped to NO_TRADE.
	Threshold float64
}

// DefaultParams mirrors the standard pipeline configuration.
func DefaultParams() Params {
	return Params{
		ReturnPeriods: []int{1, 5, 15, 60},
		SMAPeriods:    []int{5, 20, 60},
		ATRPeriods:    []int{14},
		RSIPeriod:     14,
		IncludeHour:   true,
		IncludeDOW:    true,
		Horizon:       60,
		Threshold:     0.1,
	}
}

// Lookback is the number of leading rows dropped for insufficient history:
// the largest configured return/SMA/ATR period. The RSI period is excluded
// on purpose; NaN trimming covers it.
func (p Params) Lookback() int {
	max := 0
	for _, periods := range [][]int{p.ReturnPeriods, p.SMAPeriods, p.ATRPeriods} {
		for _, v := range periods {
			if v > max {
				max = v
			}
		}
	}
	return max
}

// Build assembles the full feature table from an ordered bar series:
// indicator columns for every configured period, calendar columns, and the
// forward-return label. The table is trimmed so that every retained row is
// complete both backward (full lookback) and forward (full horizon).
//
// Empty input, or input where every row is trimmed away, yields an empty
// table rather than an error; callers treat that as insufficient data.
// Building twice from the same bars yields an identical table.
func Build(symbol string, bars []models.Bar, p Params) models.FeatureTable {
	table := models.FeatureTable{Symbol: symbol}
	if len(bars) == 0 {
		return table
	}

	columns := []string{"open", "high", "low", "close"}
	series := [][]float64{
		column(bars, func(b models.Bar) float64 { return b.Open }),
		column(bars, func(b models.Bar) float64 { return b.High }),
		column(bars, func(b models.Bar) float64 { return b.Low }),
		column(bars, func(b models.Bar) float64 { return b.Close }),
	}

	for _, period := range p.ReturnPeriods {
		columns = append(columns, fmt.Sprintf("return_%dm", period))
		series = append(series, ReturnPct(bars, period))
	}
	for _, period := range p.SMAPeriods {
		columns = append(columns, fmt.Sprintf("sma_dev_%dm", period))
		series = append(series, SMADeviation(bars, period))
	}
	for _, period := range p.ATRPeriods {
		columns = append(columns, fmt.Sprintf("atr_%dm", period))
		series = append(series, ATR(bars, period))
	}
	if p.RSIPeriod > 0 {
		columns = append(columns, "rsi")
		series = append(series, RSI(bars, p.RSIPeriod))
	}
	if p.IncludeHour {
		columns = append(columns, "hour", "market_session")
		hours := make([]float64, len(bars))
		sessions := make([]float64, len(bars))
		for i, b := range bars {
			h := b.Timestamp.Hour()
			hours[i] = float64(h)
			sessions[i] = float64(MarketSession(h))
		}
		series = append(series, hours, sessions)
	}
	if p.IncludeDOW {
		columns = append(columns, "day_of_week", "is_weekend")
		dows := make([]float64, len(bars))
		weekends := make([]float64, len(bars))
		for i, b := range bars {
			dows[i] = float64(DayOfWeek(b.Timestamp))
			if IsWeekend(b.Timestamp) {
				weekends[i] = 1
			}
		}
		series = append(series, dows, weekends)
	}

	targetReturns, targets := label(bars, p.Horizon, p.Threshold)

	table.Columns = columns
	lookback := p.Lookback()
	for i := lookback; i < len(bars); i++ {
		if !targets[i].Defined() {
			continue
		}
		values := make([]float64, len(series))
		defined := true
		for j, s := range series {
			values[j] = s[i]
			if math.IsNaN(s[i]) {
				defined = false
				break
			}
		}
		if !defined {
			continue
		}
		table.Rows = append(table.Rows, models.FeatureRow{
			Timestamp:    bars[i].Timestamp,
			Values:       values,
			TargetReturn: targetReturns[i],
			Target:       targets[i],
		})
	}
	return table
}

// label computes the forward return over the horizon and its 3-class
// bucket. Rows whose horizon falls past the end of the series stay
// undefined and get trimmed.
func label(bars []models.Bar, horizon int, threshold float64) ([]float64, []models.Class) {
	returns := nanSlice(len(bars))
	classes := make([]models.Class, len(bars))
	for i := range classes {
		classes[i] = models.ClassUndefined
	}
	if horizon <= 0 {
		return returns, classes
	}
	for i := 0; i+horizon < len(bars); i++ {
		if bars[i].Close == 0 {
			continue
		}
		r := (bars[i+horizon].Close - bars[i].Close) / bars[i].Close * 100
		returns[i] = r
		switch {
		case r > threshold:
			classes[i] = models.Long
		case r < -threshold:
			classes[i] = models.Short
		default:
			classes[i] = models.NoTrade
		}
	}
	return returns, classes
}

func column(bars []models.Bar, get func(models.Bar) float64) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = get(b)
	}
	return out
}
