package alphavantage

import (
	"context"
	"math"
	"math/rand"
	"time"

	"FXCast/internal/domain/models"
	domrepo "FXCast/internal/domain/repository"
)

// DemoSource generates a deterministic random-walk bar series for local
// runs without an API key. The walk uses lognormal minute returns with a
// small positive drift so labels cover all three classes.
type DemoSource struct {
	bars int
	seed int64
	base float64
}

// NewDemoSource creates a demo bar source.
func NewDemoSource(bars int, seed int64) *DemoSource {
	if bars <= 0 {
		bars = 5000
	}
	return &DemoSource{bars: bars, seed: seed, base: 145.0}
}

var _ domrepo.BarSource = (*DemoSource)(nil)

func (d *DemoSource) FetchIntraday(_ context.Context, symbol string) ([]models.Bar, error) {
	rng := rand.New(rand.NewSource(d.seed))
	start := time.Now().UTC().Truncate(time.Minute).Add(-time.Duration(d.bars) * time.Minute)

	bars := make([]models.Bar, 0, d.bars)
	price := d.base
	for i := 0; i < d.bars; i++ {
		open := price
		ret := 0.0001 + 0.002*rng.NormFloat64()
		close := open * math.Exp(ret)

		high := math.Max(open, close) * (1 + 0.0003*rng.Float64())
		low := math.Min(open, close) * (1 - 0.0003*rng.Float64())

		bars = append(bars, models.Bar{
			Timestamp: start.Add(time.Duration(i) * time.Minute),
			Symbol:    symbol,
			Open:      open,
			High:      high,
			Low:       low,
			Close:     close,
		})
		price = close
	}
	return bars, nil
}
