package usecase

import (
	"context"
	"fmt"
	"time"

	drepo "FXCast/internal/domain/repository"
	applogger "FXCast/pkg/logger"
)

// Backfiller loads a historical bar series from an external source into
// the bar store so that training has enough lookback.
type Backfiller struct {
	source  drepo.BarSource
	store   drepo.BarStore
	metrics drepo.Metrics
	l       *applogger.Logger
}

func NewBackfiller(source drepo.BarSource, store drepo.BarStore, metrics drepo.Metrics, l *applogger.Logger) *Backfiller {
	return &Backfiller{source: source, store: store, metrics: metrics, l: l}
}

// Run fetches the intraday series for symbol and stores it. Returns the
// number of bars written.
func (b *Backfiller) Run(ctx context.Context, symbol string) (int, error) {
	start := time.Now()

	bars, err := b.source.FetchIntraday(ctx, symbol)
	if err != nil {
		b.metrics.RecordError("backfill_fetch")
		return 0, fmt.Errorf("fetch intraday: %w", err)
	}

	if err := b.store.StoreBars(ctx, bars); err != nil {
		b.metrics.RecordError("backfill_store")
		return 0, fmt.Errorf("store bars: %w", err)
	}
	b.metrics.RecordBarsStored(symbol, len(bars))
	b.metrics.RecordStageLatency("backfill", time.Since(start).Seconds())

	if b.l != nil {
		b.l.Info("backfill complete",
			applogger.String("symbol", symbol),
			applogger.Int("bars", len(bars)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return len(bars), nil
}
