package service

import "context"

// Classifier is the opaque training/inference boundary. The core never
// inspects model internals; it only guarantees that the ordered column set
// used in Fit is the one used in every subsequent Predict.
type Classifier interface {
	// Fit trains a 3-class model on the feature matrix and label vector
	// and returns an opaque model identifier.
	Fit(ctx context.Context, X [][]float64, y []int, featureNames []string) (string, error)

	// Predict returns one probability row per input row, columns ordered
	// [SHORT, LONG, NO_TRADE], preserving input order.
	Predict(ctx context.Context, modelID string, X [][]float64) ([][]float64, error)

	// FeatureImportance returns per-column scores. Informational only.
	FeatureImportance(ctx context.Context, modelID string) (map[string]float64, error)
}
