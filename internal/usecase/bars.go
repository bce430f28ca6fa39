package usecase

import (
	"context"
	"fmt"
	"time"

	"FXCast/internal/domain/models"
	domrepo "FXCast/internal/domain/repository"
)

// BarsQuery serves raw bar reads for the API.
type BarsQuery struct {
	store domrepo.BarStore
}

func NewBarsQuery(store domrepo.BarStore) *BarsQuery {
	return &BarsQuery{store: store}
}

func (q *BarsQuery) Range(ctx context.Context, symbol string, from, to time.Time, limit int) ([]models.Bar, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if from.After(to) {
		return nil, fmt.Errorf("from must be <= to")
	}
	if limit <= 0 {
		limit = 1000
	}
	if limit > 50000 {
		limit = 50000
	}

	bars, err := q.store.GetBars(ctx, symbol, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("get bars: %w", err)
	}
	return bars, nil
}
