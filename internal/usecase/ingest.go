package usecase

import (
	"context"
	"sync"
	"time"

	"FXCast/internal/domain/models"
	drepo "FXCast/internal/domain/repository"
	applogger "FXCast/pkg/logger"
	"FXCast/pkg/util"
)

// BarCollector consumes live ticks from a market stream, folds them into
// minute OHLC bars, and flushes completed bars to storage on a timer. A
// bar is completed when a tick arrives for a later minute or when the
// flush interval passes with the bar untouched.
type BarCollector struct {
	stream    drepo.MarketStream
	store     drepo.BarStore
	publisher drepo.Publisher
	metrics   drepo.Metrics
	l         *applogger.Logger

	flushInterval time.Duration

	mu      sync.Mutex
	current map[string]*models.Bar // symbol -> open minute bar
}

func NewBarCollector(
	stream drepo.MarketStream,
	store drepo.BarStore,
	publisher drepo.Publisher,
	metrics drepo.Metrics,
	l *applogger.Logger,
	flushInterval time.Duration,
) *BarCollector {
	if flushInterval <= 0 {
		flushInterval = 5 * time.Second
	}
	return &BarCollector{
		stream:        stream,
		store:         store,
		publisher:     publisher,
		metrics:       metrics,
		l:             l,
		flushInterval: flushInterval,
		current:       make(map[string]*models.Bar),
	}
}

// IsConnected returns true if the market stream is connected.
func (c *BarCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

// Start connects, subscribes, and launches the consume and flush loops.
func (c *BarCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	ticks, errs := c.stream.Read(ctx)
	go c.consume(ctx, ticks, errs)
	go c.flushLoop(ctx)
	return nil
}

// consume drains read sessions until the context is canceled. A session
// ends when the stream errors and closes its channels; the closed pair
// must never be selected on again, so each reconnect starts a fresh
// session over new channels from Read.
func (c *BarCollector) consume(ctx context.Context, ticks <-chan *models.Tick, errs <-chan error) {
	for {
		if !c.session(ctx, ticks, errs) {
			return
		}
		for {
			if err := c.stream.Reconnect(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				c.metrics.RecordError("reconnect")
				if c.l != nil {
					c.l.Warn("stream reconnect failed", applogger.Error(err))
				}
				continue
			}
			break
		}
		ticks, errs = c.stream.Read(ctx)
	}
}

// session folds ticks from one read session. It returns false when the
// context is done and true when the session ended and a reconnect is due.
func (c *BarCollector) session(ctx context.Context, ticks <-chan *models.Tick, errs <-chan error) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case err, ok := <-errs:
			if !ok {
				return true
			}
			if err != nil {
				c.metrics.RecordError("stream")
				if c.l != nil {
					c.l.Warn("stream error, reconnecting", applogger.Error(err))
				}
				return true
			}
		case t, ok := <-ticks:
			if !ok {
				return true
			}
			if t == nil {
				continue
			}
			c.apply(ctx, t)
			c.metrics.RecordLastClose(t.Symbol, t.Price)
		}
	}
}

// apply folds one tick into its minute bar. A tick for a later minute
// closes the open bar and starts a new one; a tick for an earlier minute
// is dropped so the open bar is never replaced by stale data.
func (c *BarCollector) apply(ctx context.Context, t *models.Tick) {
	minute := util.FloorToMinute(time.Unix(t.Timestamp, 0))

	c.mu.Lock()
	bar, ok := c.current[t.Symbol]
	if ok && bar.Timestamp.Equal(minute) {
		if t.Price > bar.High {
			bar.High = t.Price
		}
		if t.Price < bar.Low {
			bar.Low = t.Price
		}
		bar.Close = t.Price
		c.mu.Unlock()
		return
	}

	if ok && minute.Before(bar.Timestamp) {
		// late tick for an already-closed minute; the open bar stays
		c.mu.Unlock()
		return
	}

	var completed *models.Bar
	if ok {
		completed = bar
	}
	c.current[t.Symbol] = &models.Bar{
		Timestamp: minute,
		Symbol:    t.Symbol,
		Open:      t.Price,
		High:      t.Price,
		Low:       t.Price,
		Close:     t.Price,
	}
	c.mu.Unlock()

	if completed != nil {
		c.emit(ctx, []models.Bar{*completed})
	}
}

func (c *BarCollector) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(c.flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.flushStale(ctx)
		}
	}
}

// flushStale closes bars whose minute has already passed. The live bar
// for the current minute stays open until its minute rolls over.
func (c *BarCollector) flushStale(ctx context.Context) {
	cutoff := util.FloorToMinute(time.Now())

	c.mu.Lock()
	var completed []models.Bar
	for symbol, bar := range c.current {
		if bar.Timestamp.Before(cutoff) {
			completed = append(completed, *bar)
			delete(c.current, symbol)
		}
	}
	c.mu.Unlock()

	if len(completed) > 0 {
		c.emit(ctx, completed)
	}
}

func (c *BarCollector) emit(ctx context.Context, bars []models.Bar) {
	start := time.Now()
	if err := c.store.StoreBars(ctx, bars); err != nil {
		c.metrics.RecordError("store_bars")
		if c.l != nil {
			c.l.Error("store bars failed", applogger.Int("bars", len(bars)), applogger.Error(err))
		}
		return
	}
	c.metrics.RecordBarsStored(bars[0].Symbol, len(bars))
	c.metrics.RecordStageLatency("bar_store", time.Since(start).Seconds())

	if c.publisher != nil {
		if err := c.publisher.PublishBars(ctx, bars); err != nil {
			c.metrics.RecordError("publish_bars")
			if c.l != nil {
				c.l.Warn("publish bars failed", applogger.Error(err))
			}
		}
	}
}

// Shutdown flushes the remaining open bars and closes the stream.
func (c *BarCollector) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	var remaining []models.Bar
	for symbol, bar := range c.current {
		remaining = append(remaining, *bar)
		delete(c.current, symbol)
	}
	c.mu.Unlock()

	if len(remaining) > 0 {
		c.emit(ctx, remaining)
	}
	return c.stream.Close()
}
