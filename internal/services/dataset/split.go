package dataset

import (
	"fmt"

	"FXCast/internal/domain/models"
)

// Split partitions a feature table by position into train and validation
// parts, preserving timestamp order within each. The validation part is
// strictly chronologically after the train part; random sampling would
// leak horizon-overlapping rows across the boundary, which is the one
// mistake this pipeline exists to avoid.
func Split(t models.FeatureTable, validationFraction float64) (train, validation models.FeatureTable, err error) {
	if validationFraction <= 0 || validationFraction >= 1 {
		return train, validation, fmt.Errorf("validation fraction must be in (0,1), got %v", validationFraction)
	}
	cut := int(float64(len(t.Rows)) * (1 - validationFraction))
	train = models.FeatureTable{Symbol: t.Symbol, Columns: t.Columns, Rows: t.Rows[:cut]}
	validation = models.FeatureTable{Symbol: t.Symbol, Columns: t.Columns, Rows: t.Rows[cut:]}
	return train, validation, nil
}

// Matrix extracts the feature matrix and label vector from a table. Label
// fields live outside FeatureTable.Columns, so X contains feature columns
// only, in the recorded column order.
func Matrix(t models.FeatureTable) (X [][]float64, y []int) {
	X = make([][]float64, 0, len(t.Rows))
	y = make([]int, 0, len(t.Rows))
	for _, r := range t.Rows {
		X = append(X, r.Values)
		y = append(y, int(r.Target))
	}
	return X, y
}
