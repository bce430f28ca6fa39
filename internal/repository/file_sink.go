package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"FXCast/internal/domain/models"
	domrepo "FXCast/internal/domain/repository"
)

// FilePredictionSink appends prediction results as JSON lines to a local
// file. Used when Kafka is disabled; bars are not mirrored to disk.
type FilePredictionSink struct {
	mu   sync.Mutex
	path string
}

// NewFilePredictionSink creates a file-backed prediction sink.
func NewFilePredictionSink(path string) *FilePredictionSink {
	return &FilePredictionSink{path: path}
}

var _ domrepo.Publisher = (*FilePredictionSink)(nil)

func (s *FilePredictionSink) PublishPrediction(_ context.Context, res *models.PredictionResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal prediction: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open prediction sink: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write prediction: %w", err)
	}
	return nil
}

func (s *FilePredictionSink) PublishBars(context.Context, []models.Bar) error {
	return nil
}

func (s *FilePredictionSink) Close() error {
	return nil
}
