package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"FXCast/internal/domain/models"
	domrepo "FXCast/internal/domain/repository"
	domsvc "FXCast/internal/domain/service"
	"FXCast/internal/services/features"
	applogger "FXCast/pkg/logger"
)

// snapshotColumns are the feature columns echoed back in every prediction
// for downstream sanity checks.
var snapshotColumns = []string{"close", "return_1m", "rsi", "hour"}

// Predictor scores the latest bar window against the most recently trained
// model. The feature configuration must match the one used at training
// time; a column-set drift is reported as ErrSchemaMismatch and is fatal
// for the caller.
type Predictor struct {
	store      domrepo.BarStore
	artifacts  domrepo.ArtifactStore
	classifier domsvc.Classifier
	publisher  domrepo.Publisher
	metrics    domrepo.Metrics
	l          *applogger.Logger

	params              features.Params
	windowBars          int
	confidenceThreshold float64
}

// PredictorConfig holds inference knobs.
type PredictorConfig struct {
	Params              features.Params
	WindowBars          int
	ConfidenceThreshold float64
}

func NewPredictor(
	store domrepo.BarStore,
	artifacts domrepo.ArtifactStore,
	classifier domsvc.Classifier,
	publisher domrepo.Publisher,
	metrics domrepo.Metrics,
	l *applogger.Logger,
	cfg PredictorConfig,
) *Predictor {
	return &Predictor{
		store:               store,
		artifacts:           artifacts,
		classifier:          classifier,
		publisher:           publisher,
		metrics:             metrics,
		l:                   l,
		params:              cfg.Params,
		windowBars:          cfg.WindowBars,
		confidenceThreshold: cfg.ConfidenceThreshold,
	}
}

// Latest scores the most recent complete feature row for symbol and
// publishes the result.
func (p *Predictor) Latest(ctx context.Context, symbol string) (*models.PredictionResult, error) {
	return p.LatestN(ctx, symbol, p.windowBars)
}

// LatestN is Latest with an explicit bar window.
func (p *Predictor) LatestN(ctx context.Context, symbol string, n int) (*models.PredictionResult, error) {
	start := time.Now()

	artifact, err := p.loadArtifact(ctx, symbol)
	if err != nil {
		return nil, err
	}

	bars, err := p.store.GetLatestNBars(ctx, symbol, n)
	if err != nil {
		return nil, fmt.Errorf("load bars: %w", err)
	}

	table := features.Build(symbol, bars, p.params)
	if table.Empty() {
		return nil, fmt.Errorf("predict %s: %w", symbol, models.ErrNoData)
	}
	if err := checkSchema(artifact, table); err != nil {
		return nil, err
	}

	row := table.Rows[table.Len()-1]
	probs, err := p.classifier.Predict(ctx, artifact.ModelID, [][]float64{row.Values})
	if err != nil {
		p.metrics.RecordError("predict")
		return nil, fmt.Errorf("predict: %w", err)
	}
	if len(probs) != 1 {
		return nil, fmt.Errorf("predict: expected 1 probability row, got %d", len(probs))
	}

	res := p.toResult(symbol, table, row, probs[0])
	p.metrics.RecordPrediction(symbol, res.Signal)
	p.metrics.RecordStageLatency("predict", time.Since(start).Seconds())

	if p.publisher != nil {
		if err := p.publisher.PublishPrediction(ctx, res); err != nil {
			// publishing is best effort; the caller still gets the result
			p.metrics.RecordError("publish_prediction")
			if p.l != nil {
				p.l.Warn("publish prediction failed", applogger.Error(err))
			}
		}
	}
	return res, nil
}

// Batch scores every row of the latest feature table, preserving row
// order. Used for backtest-style sweeps; results are not published.
func (p *Predictor) Batch(ctx context.Context, symbol string, n int) ([]*models.PredictionResult, error) {
	artifact, err := p.loadArtifact(ctx, symbol)
	if err != nil {
		return nil, err
	}

	bars, err := p.store.GetLatestNBars(ctx, symbol, n)
	if err != nil {
		return nil, fmt.Errorf("load bars: %w", err)
	}

	table := features.Build(symbol, bars, p.params)
	if table.Empty() {
		return nil, fmt.Errorf("predict %s: %w", symbol, models.ErrNoData)
	}
	if err := checkSchema(artifact, table); err != nil {
		return nil, err
	}

	X := make([][]float64, table.Len())
	for i, row := range table.Rows {
		X[i] = row.Values
	}
	probs, err := p.classifier.Predict(ctx, artifact.ModelID, X)
	if err != nil {
		p.metrics.RecordError("predict_batch")
		return nil, fmt.Errorf("predict batch: %w", err)
	}
	if len(probs) != table.Len() {
		return nil, fmt.Errorf("predict batch: got %d probability rows for %d inputs", len(probs), table.Len())
	}

	out := make([]*models.PredictionResult, table.Len())
	for i, row := range table.Rows {
		out[i] = p.toResult(symbol, table, row, probs[i])
	}
	return out, nil
}

func (p *Predictor) loadArtifact(ctx context.Context, symbol string) (*models.ModelArtifact, error) {
	blob, err := p.artifacts.GetLatest(ctx, domrepo.ArtifactModel, symbol)
	if err != nil {
		if errors.Is(err, models.ErrNoData) {
			return nil, fmt.Errorf("predict %s: %w", symbol, models.ErrModelNotLoaded)
		}
		return nil, fmt.Errorf("load artifact: %w", err)
	}
	var artifact models.ModelArtifact
	if err := json.Unmarshal(blob, &artifact); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	return &artifact, nil
}

func checkSchema(artifact *models.ModelArtifact, table models.FeatureTable) error {
	if len(artifact.FeatureNames) != len(table.Columns) {
		return fmt.Errorf("model has %d columns, table has %d: %w",
			len(artifact.FeatureNames), len(table.Columns), models.ErrSchemaMismatch)
	}
	for i, name := range artifact.FeatureNames {
		if table.Columns[i] != name {
			return fmt.Errorf("column %d is %q, model expects %q: %w",
				i, table.Columns[i], name, models.ErrSchemaMismatch)
		}
	}
	return nil
}

func (p *Predictor) toResult(symbol string, table models.FeatureTable, row models.FeatureRow, probs []float64) *models.PredictionResult {
	best := argmax(probs)
	class, _ := models.ClassFromIndex(best)

	probMap := make(map[string]float64, len(probs))
	for i, name := range models.ClassNames() {
		if i < len(probs) {
			probMap[name] = probs[i]
		}
	}

	snapshot := make(map[string]float64, len(snapshotColumns))
	for _, name := range snapshotColumns {
		if idx := table.ColumnIndex(name); idx >= 0 && idx < len(row.Values) {
			snapshot[name] = row.Values[idx]
		}
	}

	return &models.PredictionResult{
		Symbol:              symbol,
		Timestamp:           row.Timestamp.UTC(),
		Signal:              class.String(),
		Confidence:          probs[best],
		PredictedClass:      best,
		ClassProbabilities:  probMap,
		ConfidenceThreshold: p.confidenceThreshold,
		InputSnapshot:       snapshot,
	}
}
