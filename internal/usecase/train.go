package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"FXCast/internal/domain/models"
	domrepo "FXCast/internal/domain/repository"
	domsvc "FXCast/internal/domain/service"
	"FXCast/internal/services/dataset"
	"FXCast/internal/services/features"
	applogger "FXCast/pkg/logger"
)

// Trainer runs one end-to-end training pass: load bars, build the labeled
// feature table, split chronologically, fit, evaluate on the held-out
// tail, and persist the resulting artifact.
type Trainer struct {
	store      domrepo.BarStore
	artifacts  domrepo.ArtifactStore
	classifier domsvc.Classifier
	metrics    domrepo.Metrics
	l          *applogger.Logger

	params             features.Params
	validationFraction float64
	trainWindowBars    int
}

// TrainerConfig holds the training-run knobs.
type TrainerConfig struct {
	Params             features.Params
	ValidationFraction float64
	TrainWindowBars    int
}

func NewTrainer(
	store domrepo.BarStore,
	artifacts domrepo.ArtifactStore,
	classifier domsvc.Classifier,
	metrics domrepo.Metrics,
	l *applogger.Logger,
	cfg TrainerConfig,
) *Trainer {
	return &Trainer{
		store:              store,
		artifacts:          artifacts,
		classifier:         classifier,
		metrics:            metrics,
		l:                  l,
		params:             cfg.Params,
		validationFraction: cfg.ValidationFraction,
		trainWindowBars:    cfg.TrainWindowBars,
	}
}

// Train runs a full training pass for symbol and returns the report.
func (t *Trainer) Train(ctx context.Context, symbol string) (*models.TrainingReport, error) {
	start := time.Now()

	bars, err := t.store.GetLatestNBars(ctx, symbol, t.trainWindowBars)
	if err != nil {
		return nil, fmt.Errorf("load bars: %w", err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("train %s: %w", symbol, models.ErrNoData)
	}

	table := features.Build(symbol, bars, t.params)
	if table.Empty() {
		return nil, fmt.Errorf("train %s: no usable rows after trimming: %w", symbol, models.ErrNoData)
	}
	t.metrics.RecordStageLatency("feature_build", time.Since(start).Seconds())

	train, validation, err := dataset.Split(table, t.validationFraction)
	if err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}
	if train.Empty() || validation.Empty() {
		return nil, fmt.Errorf("train %s: split left an empty partition: %w", symbol, models.ErrNoData)
	}

	trainX, trainY := dataset.Matrix(train)
	valX, valY := dataset.Matrix(validation)

	fitStart := time.Now()
	modelID, err := t.classifier.Fit(ctx, trainX, trainY, table.Columns)
	if err != nil {
		t.metrics.RecordError("train_fit")
		return nil, fmt.Errorf("fit: %w", err)
	}
	t.metrics.RecordStageLatency("model_fit", time.Since(fitStart).Seconds())

	probs, err := t.classifier.Predict(ctx, modelID, valX)
	if err != nil {
		t.metrics.RecordError("train_validate")
		return nil, fmt.Errorf("validate: %w", err)
	}
	evaluation := Evaluate(valY, probs)

	importance, err := t.classifier.FeatureImportance(ctx, modelID)
	if err != nil {
		// importance is informational; a failed call does not fail the run
		if t.l != nil {
			t.l.Warn("feature importance unavailable", applogger.Error(err))
		}
		importance = nil
	}

	report := &models.TrainingReport{
		Artifact: models.ModelArtifact{
			Symbol:         symbol,
			ModelID:        modelID,
			FeatureNames:   table.Columns,
			Classes:        models.ClassNames(),
			TrainedAt:      time.Now().UTC(),
			TrainRows:      train.Len(),
			ValidationRows: validation.Len(),
			Accuracy:       evaluation.Accuracy,
		},
		Evaluation: evaluation,
		Importance: importance,
	}

	if err := t.persist(ctx, symbol, report, table); err != nil {
		return nil, err
	}

	if t.l != nil {
		t.l.Info("training complete",
			applogger.String("symbol", symbol),
			applogger.String("model_id", modelID),
			applogger.Int("train_rows", train.Len()),
			applogger.Int("validation_rows", validation.Len()),
			applogger.Float64("accuracy", evaluation.Accuracy),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	t.metrics.RecordStageLatency("train_total", time.Since(start).Seconds())
	return report, nil
}

func (t *Trainer) persist(ctx context.Context, symbol string, report *models.TrainingReport, table models.FeatureTable) error {
	blob, err := json.Marshal(report.Artifact)
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}
	if err := t.artifacts.Put(ctx, domrepo.ArtifactModel, symbol, blob); err != nil {
		return fmt.Errorf("store artifact: %w", err)
	}

	featBlob, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("marshal feature table: %w", err)
	}
	if err := t.artifacts.Put(ctx, domrepo.ArtifactFeatures, symbol, featBlob); err != nil {
		return fmt.Errorf("store feature table: %w", err)
	}
	return nil
}
