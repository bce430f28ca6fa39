package model

import (
	"context"
	"fmt"

	domsvc "FXCast/internal/domain/service"
	"FXCast/pkg/config"
)

// HTTPClassifier delegates gradient-boosting training and inference to the
// LightGBM model service. Only an opaque model identifier crosses the
// boundary; the fitted booster never leaves the service.
type HTTPClassifier struct {
	base   *httpBase
	params map[string]interface{}
	rounds int
}

func NewHTTPClassifier(cfg *config.Config) *HTTPClassifier {
	return &HTTPClassifier{
		base:   newHTTPBase(cfg.Model.ServiceURL, cfg.Model.Timeout),
		params: cfg.Model.LGBParams,
		rounds: cfg.Model.NumBoostingRounds,
	}
}

type fitRequest struct {
	Features     [][]float64            `json:"features"`
	Labels       []int                  `json:"labels"`
	FeatureNames []string               `json:"feature_names"`
	Params       map[string]interface{} `json:"params,omitempty"`
	NumRounds    int                    `json:"num_boosting_rounds,omitempty"`
}

type fitResponse struct {
	ModelID string `json:"model_id"`
}

type predictRequest struct {
	ModelID string      `json:"model_id"`
	Rows    [][]float64 `json:"rows"`
}

type predictResponse struct {
	Probabilities [][]float64 `json:"probabilities"`
}

type importanceRequest struct {
	ModelID string `json:"model_id"`
}

type importanceResponse struct {
	Importance map[string]float64 `json:"importance"`
}

func (c *HTTPClassifier) Fit(ctx context.Context, X [][]float64, y []int, featureNames []string) (string, error) {
	if len(X) == 0 || len(X) != len(y) {
		return "", fmt.Errorf("fit: %d feature rows vs %d labels", len(X), len(y))
	}
	var fr fitResponse
	err := c.base.postJSON(ctx, "/model/fit", fitRequest{
		Features:     X,
		Labels:       y,
		FeatureNames: featureNames,
		Params:       c.params,
		NumRounds:    c.rounds,
	}, &fr)
	if err != nil {
		return "", fmt.Errorf("fit model: %w", err)
	}
	if fr.ModelID == "" {
		return "", fmt.Errorf("fit model: empty model id")
	}
	return fr.ModelID, nil
}

func (c *HTTPClassifier) Predict(ctx context.Context, modelID string, X [][]float64) ([][]float64, error) {
	if len(X) == 0 {
		return nil, nil
	}
	var pr predictResponse
	err := c.base.postJSONWithRetry(ctx, "/model/predict", predictRequest{ModelID: modelID, Rows: X}, &pr, 3)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	if len(pr.Probabilities) != len(X) {
		return nil, fmt.Errorf("predict: %d probability rows for %d inputs", len(pr.Probabilities), len(X))
	}
	return pr.Probabilities, nil
}

func (c *HTTPClassifier) FeatureImportance(ctx context.Context, modelID string) (map[string]float64, error) {
	var ir importanceResponse
	err := c.base.postJSON(ctx, "/model/importance", importanceRequest{ModelID: modelID}, &ir)
	if err != nil {
		return nil, fmt.Errorf("feature importance: %w", err)
	}
	return ir.Importance, nil
}

var _ domsvc.Classifier = (*HTTPClassifier)(nil)
