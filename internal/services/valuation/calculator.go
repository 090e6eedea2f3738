// Package valuation turns an index level and a GDP figure into a Buffett
// Indicator report. Everything here is pure.
package valuation

import (
	"errors"
	"fmt"
	"math"
	"time"

	"BuffettIndicator/internal/domain/models"

	"github.com/shopspring/decimal"
)

// DefaultPointsPerTrillion treats one Wilshire 5000 point as $1B of market
// capitalization. The relationship is an assumed proxy, not a derived one.
const DefaultPointsPerTrillion = 1000.0

const billionsPerTrillion = 1000.0

var (
	ErrNonPositiveGDP = errors.New("valuation: gdp must be positive")
	ErrNegativeIndex  = errors.New("valuation: index must not be negative")
	ErrNonFiniteInput = errors.New("valuation: input is not a finite number")
)

// Inputs are the two fetched values plus capture metadata.
type Inputs struct {
	Index       float64
	GDPBillions float64
	GDPDate     time.Time
	Strategy    string
	CapturedAt  time.Time
}

// Calculator computes reports with a fixed index scale.
type Calculator struct {
	pointsPerTrillion float64
}

// NewCalculator returns a calculator; non-positive scales fall back to the default.
func NewCalculator(pointsPerTrillion float64) *Calculator {
	if pointsPerTrillion <= 0 {
		pointsPerTrillion = DefaultPointsPerTrillion
	}
	return &Calculator{pointsPerTrillion: pointsPerTrillion}
}

// Compute builds the report. The ratio uses unrounded trillions; only the
// reported fields are rounded.
func (c *Calculator) Compute(in Inputs) (models.Report, error) {
	if math.IsNaN(in.Index) || math.IsInf(in.Index, 0) || math.IsNaN(in.GDPBillions) || math.IsInf(in.GDPBillions, 0) {
		return models.Report{}, ErrNonFiniteInput
	}
	if in.Index < 0 {
		return models.Report{}, fmt.Errorf("%w: %v", ErrNegativeIndex, in.Index)
	}
	if in.GDPBillions <= 0 {
		return models.Report{}, fmt.Errorf("%w: %v", ErrNonPositiveGDP, in.GDPBillions)
	}

	marketCapT := in.Index / c.pointsPerTrillion
	gdpT := in.GDPBillions / billionsPerTrillion
	ratio := Ratio(marketCapT, gdpT)

	report := models.Report{
		BuffettRatio:       ratio,
		Valuation:          Classify(ratio),
		Wilshire5000:       in.Index,
		MarketCapTrillions: Round(marketCapT, 3),
		PointsPerTrillion:  c.pointsPerTrillion,
		GDPTrillions:       Round(gdpT, 3),
		GDPBillions:        in.GDPBillions,
		Strategy:           in.Strategy,
		DataSource:         models.DataSource,
		Timestamp:          in.CapturedAt,
	}
	if !in.GDPDate.IsZero() {
		report.GDPDate = in.GDPDate.Format("2006-01-02")
	}
	return report, nil
}

// Ratio is (marketCap / gdp) × 100 rounded to two decimals. Both arguments
// must share a unit.
func Ratio(marketCap, gdp float64) float64 {
	return Round(marketCap/gdp*100, 2)
}

// Classify maps a ratio onto its bucket. Each threshold belongs to the
// bucket above it.
func Classify(ratio float64) models.Valuation {
	switch {
	case ratio < 75:
		return models.SignificantlyUndervalued
	case ratio < 90:
		return models.FairlyValued
	case ratio < 115:
		return models.ModeratelyOvervalued
	case ratio < 140:
		return models.SignificantlyOvervalued
	default:
		return models.ExtremelyOvervalued
	}
}

// Round rounds half away from zero on the shortest decimal form of v, so
// 2.675 becomes 2.68 even though its binary value lies just below the midpoint.
func Round(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
