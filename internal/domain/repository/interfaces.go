package repository

import (
	"context"
	"time"

	"FXCast/internal/domain/models"
)

// BarStore persists and serves raw OHLC bars.
type BarStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	StoreBars(ctx context.Context, bars []models.Bar) error
	GetBars(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.Bar, error)
	GetLatestNBars(ctx context.Context, symbol string, n int) ([]models.Bar, error)
	Health(ctx context.Context) error
	Close() error
}

// BarSource fetches an ordered bar series from an external provider.
// Unreachable or rate-limited sources surface as models.ErrNoData, a
// normal empty-result path rather than a protocol failure.
type BarSource interface {
	FetchIntraday(ctx context.Context, symbol string) ([]models.Bar, error)
}

// Artifact kinds stored in the versioned blob store.
const (
	ArtifactModel    = "model"
	ArtifactFeatures = "features"
)

// ArtifactStore is a versioned blob store: Put appends a new version for
// (kind, symbol), GetLatest returns the most recently written one.
// GetLatest returns models.ErrNoData when nothing has been stored yet.
type ArtifactStore interface {
	Put(ctx context.Context, kind, symbol string, blob []byte) error
	GetLatest(ctx context.Context, kind, symbol string) ([]byte, error)
	Close() error
}

// Publisher emits pipeline output to a message sink.
type Publisher interface {
	PublishPrediction(ctx context.Context, res *models.PredictionResult) error
	PublishBars(ctx context.Context, bars []models.Bar) error
	Close() error
}

// MarketStream delivers live ticks over a persistent connection.
type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Tick, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

type Metrics interface {
	RecordBarsStored(symbol string, n int)
	RecordPrediction(symbol, signal string)
	RecordError(kind string)
	RecordLastClose(symbol string, price float64)
	RecordStageLatency(stage string, seconds float64)
}
