package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"FXCast/internal/domain/models"
	domrepo "FXCast/internal/domain/repository"
	"FXCast/internal/services/features"
)

// --- fakes ---

type fakeBarStore struct {
	bars []models.Bar
}

func (f *fakeBarStore) Init(context.Context) error { return nil }
func (f *fakeBarStore) StoreBars(_ context.Context, b []models.Bar) error {
	f.bars = append(f.bars, b...)
	return nil
}
func (f *fakeBarStore) GetBars(_ context.Context, _ string, _, _ time.Time, _ int) ([]models.Bar, error) {
	return f.bars, nil
}
func (f *fakeBarStore) GetLatestNBars(_ context.Context, _ string, n int) ([]models.Bar, error) {
	if len(f.bars) > n {
		return f.bars[len(f.bars)-n:], nil
	}
	return f.bars, nil
}
func (f *fakeBarStore) Health(context.Context) error { return nil }
func (f *fakeBarStore) Close() error                 { return nil }

type fakeArtifactStore struct {
	blobs map[string][]byte
}

func newFakeArtifactStore() *fakeArtifactStore {
	return &fakeArtifactStore{blobs: make(map[string][]byte)}
}

func (f *fakeArtifactStore) Put(_ context.Context, kind, symbol string, blob []byte) error {
	f.blobs[kind+"/"+symbol] = blob
	return nil
}
func (f *fakeArtifactStore) GetLatest(_ context.Context, kind, symbol string) ([]byte, error) {
	b, ok := f.blobs[kind+"/"+symbol]
	if !ok {
		return nil, models.ErrNoData
	}
	return b, nil
}
func (f *fakeArtifactStore) Close() error { return nil }

type fakeClassifier struct {
	fitCalls int
	lastX    [][]float64
	probsFor func(i int) []float64
	fitErr   error
}

func (f *fakeClassifier) Fit(_ context.Context, X [][]float64, _ []int, _ []string) (string, error) {
	f.fitCalls++
	if f.fitErr != nil {
		return "", f.fitErr
	}
	return fmt.Sprintf("model-%d", f.fitCalls), nil
}

func (f *fakeClassifier) Predict(_ context.Context, _ string, X [][]float64) ([][]float64, error) {
	f.lastX = X
	out := make([][]float64, len(X))
	for i := range X {
		if f.probsFor != nil {
			out[i] = f.probsFor(i)
		} else {
			out[i] = []float64{0.2, 0.7, 0.1}
		}
	}
	return out, nil
}

func (f *fakeClassifier) FeatureImportance(context.Context, string) (map[string]float64, error) {
	return map[string]float64{"close": 1}, nil
}

type fakeMetrics struct{}

func (fakeMetrics) RecordBarsStored(string, int)       {}
func (fakeMetrics) RecordPrediction(string, string)    {}
func (fakeMetrics) RecordError(string)                 {}
func (fakeMetrics) RecordLastClose(string, float64)    {}
func (fakeMetrics) RecordStageLatency(string, float64) {}

// --- fixtures ---

func fixtureBars(n int) []models.Bar {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, n)
	price := 100.0
	for i := range bars {
		if i%3 == 0 {
			price += 0.4
		} else {
			price -= 0.15
		}
		bars[i] = models.Bar{
			Timestamp: start.Add(time.Duration(i) * time.Minute),
			Symbol:    "USDJPY",
			Open:      price,
			High:      price + 0.1,
			Low:       price - 0.1,
			Close:     price,
		}
	}
	return bars
}

func testParams() features.Params {
	return features.Params{
		ReturnPeriods: []int{1},
		SMAPeriods:    []int{2},
		ATRPeriods:    []int{2},
		RSIPeriod:     3,
		IncludeHour:   true,
		IncludeDOW:    true,
		Horizon:       2,
		Threshold:     0.1,
	}
}

func storedArtifact(t *testing.T, store domrepo.ArtifactStore, columns []string) {
	t.Helper()
	artifact := models.ModelArtifact{
		Symbol:       "USDJPY",
		ModelID:      "model-1",
		FeatureNames: columns,
		Classes:      models.ClassNames(),
	}
	blob, err := json.Marshal(artifact)
	if err != nil {
		t.Fatalf("marshal artifact: %v", err)
	}
	if err := store.Put(context.Background(), domrepo.ArtifactModel, "USDJPY", blob); err != nil {
		t.Fatalf("put artifact: %v", err)
	}
}

func newTestPredictor(store *fakeBarStore, artifacts *fakeArtifactStore, clf *fakeClassifier) *Predictor {
	return NewPredictor(store, artifacts, clf, nil, fakeMetrics{}, nil, PredictorConfig{
		Params:              testParams(),
		WindowBars:          100,
		ConfidenceThreshold: 0.42,
	})
}

// --- tests ---

func TestPredictNoModel(t *testing.T) {
	p := newTestPredictor(&fakeBarStore{bars: fixtureBars(30)}, newFakeArtifactStore(), &fakeClassifier{})

	_, err := p.Latest(context.Background(), "USDJPY")
	if !errors.Is(err, models.ErrModelNotLoaded) {
		t.Fatalf("expected ErrModelNotLoaded, got %v", err)
	}
}

func TestPredictSchemaMismatch(t *testing.T) {
	store := &fakeBarStore{bars: fixtureBars(30)}
	artifacts := newFakeArtifactStore()
	storedArtifact(t, artifacts, []string{"close", "rsi"})

	p := newTestPredictor(store, artifacts, &fakeClassifier{})
	_, err := p.Latest(context.Background(), "USDJPY")
	if !errors.Is(err, models.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestPredictLatest(t *testing.T) {
	store := &fakeBarStore{bars: fixtureBars(30)}
	table := features.Build("USDJPY", store.bars, testParams())
	if table.Empty() {
		t.Fatalf("fixture produced no feature rows")
	}

	artifacts := newFakeArtifactStore()
	storedArtifact(t, artifacts, table.Columns)

	clf := &fakeClassifier{}
	p := newTestPredictor(store, artifacts, clf)

	res, err := p.Latest(context.Background(), "USDJPY")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Signal != "LONG" || res.PredictedClass != 1 {
		t.Fatalf("signal = %s/%d, want LONG/1", res.Signal, res.PredictedClass)
	}
	if res.Confidence != 0.7 {
		t.Fatalf("confidence = %v, want 0.7", res.Confidence)
	}
	if res.ConfidenceThreshold != 0.42 {
		t.Fatalf("threshold = %v, want 0.42", res.ConfidenceThreshold)
	}
	if res.ClassProbabilities["SHORT"] != 0.2 || res.ClassProbabilities["NO_TRADE"] != 0.1 {
		t.Fatalf("unexpected probability map %v", res.ClassProbabilities)
	}
	// low-confidence results are still emitted; threshold is advisory
	if res.Confidence >= res.ConfidenceThreshold && res.Signal == "" {
		t.Fatalf("signal must always be populated")
	}

	lastRow := table.Rows[table.Len()-1]
	if !res.Timestamp.Equal(lastRow.Timestamp) {
		t.Fatalf("timestamp = %v, want %v", res.Timestamp, lastRow.Timestamp)
	}
	for _, key := range []string{"close", "return_1m", "rsi", "hour"} {
		if _, ok := res.InputSnapshot[key]; !ok {
			t.Fatalf("input snapshot missing %q", key)
		}
	}
	if len(clf.lastX) != 1 {
		t.Fatalf("classifier saw %d rows, want 1", len(clf.lastX))
	}
}

func TestPredictBatchPreservesOrder(t *testing.T) {
	store := &fakeBarStore{bars: fixtureBars(40)}
	table := features.Build("USDJPY", store.bars, testParams())
	artifacts := newFakeArtifactStore()
	storedArtifact(t, artifacts, table.Columns)

	clf := &fakeClassifier{
		probsFor: func(i int) []float64 {
			// encode the row index into the LONG probability
			p := 0.001 * float64(i)
			return []float64{0.9 - p, p, 0.1}
		},
	}
	p := newTestPredictor(store, artifacts, clf)

	results, err := p.Batch(context.Background(), "USDJPY", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != table.Len() {
		t.Fatalf("got %d results, want %d", len(results), table.Len())
	}
	for i, res := range results {
		if !res.Timestamp.Equal(table.Rows[i].Timestamp) {
			t.Fatalf("result %d timestamp out of order", i)
		}
		want := 0.001 * float64(i)
		if res.ClassProbabilities["LONG"] != want {
			t.Fatalf("result %d LONG prob = %v, want %v", i, res.ClassProbabilities["LONG"], want)
		}
	}
}
