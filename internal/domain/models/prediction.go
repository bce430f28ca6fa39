package models

import "time"

// PredictionResult is one scored feature row. The confidence threshold is
// attached for the caller to act on; the inference service itself never
// suppresses a low-confidence signal.
type PredictionResult struct {
	Symbol              string             `json:"symbol"`
	Timestamp           time.Time          `json:"timestamp"`
	Signal              string             `json:"signal"`
	Confidence          float64            `json:"confidence"`
	PredictedClass      int                `json:"predicted_class"`
	ClassProbabilities  map[string]float64 `json:"class_probabilities"`
	ConfidenceThreshold float64            `json:"confidence_threshold"`
	InputSnapshot       map[string]float64 `json:"input_snapshot,omitempty"`
}

// ModelArtifact describes a trained model held by the model service.
// It is immutable once written; a new training run writes a new version.
type ModelArtifact struct {
	Symbol         string    `json:"symbol"`
	ModelID        string    `json:"model_id"`
	FeatureNames   []string  `json:"feature_names"`
	Classes        []string  `json:"classes"`
	TrainedAt      time.Time `json:"trained_at"`
	TrainRows      int       `json:"train_rows"`
	ValidationRows int       `json:"validation_rows"`
	Accuracy       float64   `json:"accuracy"`
}

// ClassMetrics holds per-class validation metrics.
type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// EvaluationReport summarizes validation-set performance.
// Confusion is indexed [actual][predicted] in class order.
type EvaluationReport struct {
	Accuracy  float64                 `json:"accuracy"`
	Confusion [3][3]int               `json:"confusion_matrix"`
	PerClass  map[string]ClassMetrics `json:"per_class"`
}

// TrainingReport is the result of one training run.
type TrainingReport struct {
	Artifact   ModelArtifact      `json:"artifact"`
	Evaluation EvaluationReport   `json:"evaluation"`
	Importance map[string]float64 `json:"feature_importance,omitempty"`
}
