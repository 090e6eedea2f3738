package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"BuffettIndicator/internal/domain/models"
	"BuffettIndicator/internal/services/valuation"
	applogger "BuffettIndicator/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMarket struct {
	mv    models.MarketValue
	err   error
	calls int
}

func (f *fakeMarket) FetchMarketValue(context.Context) (models.MarketValue, error) {
	f.calls++
	return f.mv, f.err
}

type fakeGDP struct {
	obs   models.Observation
	err   error
	calls int
}

func (f *fakeGDP) LatestGDP(context.Context) (models.Observation, error) {
	f.calls++
	return f.obs, f.err
}

type fakeMetrics struct {
	ratios []float64
}

func (m *fakeMetrics) RecordFetch(string, float64, bool) {}
func (m *fakeMetrics) RecordError(string)                {}
func (m *fakeMetrics) RecordIndicator(_, _, ratio float64) {
	m.ratios = append(m.ratios, ratio)
}

var (
	errScrape = errors.New("scrape failed")
	errGDP    = errors.New("gdp failed")
)

func newCalculator(market *fakeMarket, gdp *fakeGDP, m *fakeMetrics) *IndicatorCalculator {
	uc := NewIndicatorCalculator(market, gdp, valuation.NewCalculator(0), m, applogger.Nop())
	uc.now = func() time.Time { return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC) }
	return uc
}

func TestCalculateProducesReport(t *testing.T) {
	market := &fakeMarket{mv: models.MarketValue{Value: 52000, Strategy: "exact-price"}}
	gdp := &fakeGDP{obs: models.Observation{Date: time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC), Value: 27000}}
	m := &fakeMetrics{}

	r, err := newCalculator(market, gdp, m).Calculate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 192.59, r.BuffettRatio)
	assert.Equal(t, models.ExtremelyOvervalued, r.Valuation)
	assert.Equal(t, 52.0, r.MarketCapTrillions)
	assert.Equal(t, 27.0, r.GDPTrillions)
	assert.Equal(t, "2024-10-01", r.GDPDate)
	assert.Equal(t, "exact-price", r.Strategy)
	assert.Equal(t, "2025-03-14 09:30:00", r.FormattedTimestamp())
	assert.NotEmpty(t, r.RunID)
	assert.Equal(t, []float64{192.59}, m.ratios)
}

func TestCalculateAttemptsBothFetchesOnFailure(t *testing.T) {
	tests := []struct {
		name      string
		marketErr error
		gdpErr    error
	}{
		{"market missing", errScrape, nil},
		{"gdp missing", nil, errGDP},
		{"both missing", errScrape, errGDP},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			market := &fakeMarket{mv: models.MarketValue{Value: 52000}, err: tt.marketErr}
			gdp := &fakeGDP{obs: models.Observation{Value: 27000}, err: tt.gdpErr}
			m := &fakeMetrics{}

			r, err := newCalculator(market, gdp, m).Calculate(context.Background())
			assert.Nil(t, r)
			require.ErrorIs(t, err, ErrIndicatorUnavailable)
			if tt.marketErr != nil {
				assert.ErrorIs(t, err, tt.marketErr)
			}
			if tt.gdpErr != nil {
				assert.ErrorIs(t, err, tt.gdpErr)
			}
			assert.Equal(t, 1, market.calls)
			assert.Equal(t, 1, gdp.calls)
			assert.Empty(t, m.ratios)
		})
	}
}

func TestCalculateRejectsNonPositiveGDP(t *testing.T) {
	market := &fakeMarket{mv: models.MarketValue{Value: 52000}}
	gdp := &fakeGDP{obs: models.Observation{Value: 0}}

	_, err := newCalculator(market, gdp, &fakeMetrics{}).Calculate(context.Background())
	assert.ErrorIs(t, err, ErrIndicatorUnavailable)
	assert.ErrorIs(t, err, valuation.ErrNonPositiveGDP)
}
