package models

import "errors"

var (
	// ErrNoData signals an empty or insufficient bar/feature series.
	// Recoverable: callers treat it as absence, not failure.
	ErrNoData = errors.New("no data available")

	// ErrModelNotLoaded signals inference attempted before any training
	// run has produced a model for the symbol. Recoverable.
	ErrModelNotLoaded = errors.New("model not loaded")

	// ErrSchemaMismatch signals that the inference-time feature columns
	// differ from the column set recorded at fit time. Fatal: silent
	// column misalignment corrupts predictions without any other symptom.
	ErrSchemaMismatch = errors.New("feature schema mismatch")
)
