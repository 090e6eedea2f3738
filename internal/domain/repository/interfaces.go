package repository

import (
	"context"

	"BuffettIndicator/internal/domain/models"
)

// MarketValueSource yields the market-capitalization proxy (the index level).
type MarketValueSource interface {
	FetchMarketValue(ctx context.Context) (models.MarketValue, error)
}

// GDPSource yields the latest GDP observation in billions of dollars.
type GDPSource interface {
	LatestGDP(ctx context.Context) (models.Observation, error)
}

type Metrics interface {
	RecordFetch(source string, seconds float64, ok bool)
	RecordError(kind string)
	RecordIndicator(index, gdpBillions, ratio float64)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) RecordFetch(string, float64, bool)         {}
func (NopMetrics) RecordError(string)                        {}
func (NopMetrics) RecordIndicator(float64, float64, float64) {}
