package dataset

import (
	"testing"
	"time"

	"FXCast/internal/domain/models"
)

func tableWithRows(n int) models.FeatureTable {
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	t := models.FeatureTable{
		Symbol:  "USDJPY",
		Columns: []string{"close"},
	}
	for i := 0; i < n; i++ {
		t.Rows = append(t.Rows, models.FeatureRow{
			Timestamp: start.Add(time.Duration(i) * time.Minute),
			Values:    []float64{100 + float64(i)},
			Target:    models.Class(i % 3),
		})
	}
	return t
}

func TestSplitSizes(t *testing.T) {
	table := tableWithRows(10)
	train, validation, err := Split(table, 0.2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if train.Len() != 8 || validation.Len() != 2 {
		t.Fatalf("split sizes = %d/%d, want 8/2", train.Len(), validation.Len())
	}
}

func TestSplitChronology(t *testing.T) {
	table := tableWithRows(50)
	train, validation, err := Split(table, 0.3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if train.Len() == 0 || validation.Len() == 0 {
		t.Fatalf("expected both partitions non-empty")
	}
	lastTrain := train.Rows[train.Len()-1].Timestamp
	firstVal := validation.Rows[0].Timestamp
	if !lastTrain.Before(firstVal) {
		t.Fatalf("validation must start strictly after training: %v vs %v", lastTrain, firstVal)
	}
}

func TestSplitInvalidFraction(t *testing.T) {
	table := tableWithRows(10)
	for _, f := range []float64{0, 1, -0.5, 1.5} {
		if _, _, err := Split(table, f); err == nil {
			t.Fatalf("expected error for fraction %v", f)
		}
	}
}

func TestMatrix(t *testing.T) {
	table := tableWithRows(6)
	X, y := Matrix(table)
	if len(X) != 6 || len(y) != 6 {
		t.Fatalf("matrix sizes = %d/%d, want 6/6", len(X), len(y))
	}
	for i := range X {
		if X[i][0] != 100+float64(i) {
			t.Fatalf("X[%d][0] = %v, want %v", i, X[i][0], 100+float64(i))
		}
		if y[i] != i%3 {
			t.Fatalf("y[%d] = %d, want %d", i, y[i], i%3)
		}
	}
}
