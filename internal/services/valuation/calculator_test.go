package valuation

import (
	"math"
	"testing"
	"time"

	"BuffettIndicator/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeReferenceExample(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	r, err := NewCalculator(0).Compute(Inputs{
		Index:       52000.0,
		GDPBillions: 27000.0,
		GDPDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Strategy:    "exact-price",
		CapturedAt:  at,
	})
	require.NoError(t, err)

	assert.Equal(t, 52.0, r.MarketCapTrillions)
	assert.Equal(t, 27.0, r.GDPTrillions)
	assert.Equal(t, 192.59, r.BuffettRatio)
	assert.Equal(t, models.ExtremelyOvervalued, r.Valuation)
	assert.Equal(t, 52000.0, r.Wilshire5000)
	assert.Equal(t, 27000.0, r.GDPBillions)
	assert.Equal(t, "2024-01-01", r.GDPDate)
	assert.Equal(t, models.DataSource, r.DataSource)
	assert.Equal(t, at, r.Timestamp)
}

func TestComputeRoundsReportedFieldsOnly(t *testing.T) {
	r, err := NewCalculator(DefaultPointsPerTrillion).Compute(Inputs{Index: 48123.4567, GDPBillions: 28269.174})
	require.NoError(t, err)

	assert.Equal(t, 48.123, r.MarketCapTrillions)
	assert.Equal(t, 28.269, r.GDPTrillions)
	// computed from 48.1234567 / 28.269174, not from the rounded trillions
	assert.Equal(t, 170.23, r.BuffettRatio)
}

func TestComputeRejectsBadInputs(t *testing.T) {
	c := NewCalculator(0)

	_, err := c.Compute(Inputs{Index: 50000, GDPBillions: 0})
	assert.ErrorIs(t, err, ErrNonPositiveGDP)

	_, err = c.Compute(Inputs{Index: -1, GDPBillions: 27000})
	assert.ErrorIs(t, err, ErrNegativeIndex)

	_, err = c.Compute(Inputs{Index: math.NaN(), GDPBillions: 27000})
	assert.ErrorIs(t, err, ErrNonFiniteInput)
}

func TestComputeZeroIndexIsNonNegative(t *testing.T) {
	r, err := NewCalculator(0).Compute(Inputs{Index: 0, GDPBillions: 27000})
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.BuffettRatio)
	assert.Equal(t, models.SignificantlyUndervalued, r.Valuation)
}

func TestComputeCustomScale(t *testing.T) {
	r, err := NewCalculator(500).Compute(Inputs{Index: 26000, GDPBillions: 26000})
	require.NoError(t, err)
	assert.Equal(t, 52.0, r.MarketCapTrillions)
	assert.Equal(t, 200.0, r.BuffettRatio)
}

func TestRatio(t *testing.T) {
	cases := []struct {
		m, g, want float64
	}{
		{52, 27, 192.59},
		{27, 27, 100},
		{20.25, 27, 75},
		{1, 3, 33.33},
		{2, 3, 66.67},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Ratio(tc.m, tc.g), "ratio(%v, %v)", tc.m, tc.g)
	}
}

func TestClassifyBoundaries(t *testing.T) {
	cases := []struct {
		ratio float64
		want  models.Valuation
	}{
		{0, models.SignificantlyUndervalued},
		{74.99, models.SignificantlyUndervalued},
		{75.00, models.FairlyValued},
		{89.99, models.FairlyValued},
		{90.00, models.ModeratelyOvervalued},
		{114.99, models.ModeratelyOvervalued},
		{115.00, models.SignificantlyOvervalued},
		{139.99, models.SignificantlyOvervalued},
		{140.00, models.ExtremelyOvervalued},
		{192.59, models.ExtremelyOvervalued},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.ratio), "classify(%v)", tc.ratio)
	}
}

func TestRoundHalfAwayFromZero(t *testing.T) {
	assert.Equal(t, 1.01, Round(1.005, 2))
	assert.Equal(t, 2.68, Round(2.675, 2))
	assert.Equal(t, 52.0, Round(52.0, 3))
}

func TestRoundUsesShortestDecimalForm(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-2.675, -2.68},
		{0.125, 0.13},
		{192.5925, 192.59},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round(tt.in, 2), "Round(%v, 2)", tt.in)
	}
}

func TestRoundedRatioAtBucketBoundaries(t *testing.T) {
	tests := []struct {
		raw  float64
		want models.Valuation
	}{
		{74.995, models.FairlyValued},
		{89.995, models.ModeratelyOvervalued},
		{114.995, models.SignificantlyOvervalued},
		{139.995, models.ExtremelyOvervalued},
		{74.994, models.SignificantlyUndervalued},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(Round(tt.raw, 2)), "raw ratio %v", tt.raw)
	}
}
