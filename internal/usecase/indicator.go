package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"BuffettIndicator/internal/domain/models"
	domrepo "BuffettIndicator/internal/domain/repository"
	"BuffettIndicator/internal/services/valuation"
	applogger "BuffettIndicator/pkg/logger"

	"github.com/google/uuid"
)

// ErrIndicatorUnavailable is returned when either input could not be obtained.
var ErrIndicatorUnavailable = errors.New("buffett indicator unavailable")

// IndicatorCalculator runs the fetch, fetch, divide pipeline.
type IndicatorCalculator struct {
	market  domrepo.MarketValueSource
	gdp     domrepo.GDPSource
	calc    *valuation.Calculator
	metrics domrepo.Metrics
	logger  *applogger.Logger
	now     func() time.Time
}

func NewIndicatorCalculator(
	market domrepo.MarketValueSource,
	gdp domrepo.GDPSource,
	calc *valuation.Calculator,
	metrics domrepo.Metrics,
	logger *applogger.Logger,
) *IndicatorCalculator {
	if metrics == nil {
		metrics = domrepo.NopMetrics{}
	}
	return &IndicatorCalculator{
		market:  market,
		gdp:     gdp,
		calc:    calc,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Calculate fetches the index level and then GDP. Both fetches are always
// attempted so that each failure is logged.
func (uc *IndicatorCalculator) Calculate(ctx context.Context) (*models.Report, error) {
	runID := uuid.NewString()
	log := uc.logger.With(applogger.String("run_id", runID))

	mv, marketErr := uc.market.FetchMarketValue(ctx)
	obs, gdpErr := uc.gdp.LatestGDP(ctx)

	if marketErr != nil || gdpErr != nil {
		cause := errors.Join(marketErr, gdpErr)
		log.Warn("unable to retrieve necessary data",
			applogger.Bool("market_value_ok", marketErr == nil),
			applogger.Bool("gdp_ok", gdpErr == nil),
			applogger.Error(cause),
		)
		return nil, fmt.Errorf("%w: %w", ErrIndicatorUnavailable, cause)
	}

	report, err := uc.calc.Compute(valuation.Inputs{
		Index:       mv.Value,
		GDPBillions: obs.Value,
		GDPDate:     obs.Date,
		Strategy:    mv.Strategy,
		CapturedAt:  uc.now(),
	})
	if err != nil {
		log.Warn("indicator calculation failed", applogger.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrIndicatorUnavailable, err)
	}
	report.RunID = runID

	uc.metrics.RecordIndicator(report.Wilshire5000, report.GDPBillions, report.BuffettRatio)
	log.Info("buffett indicator calculated",
		applogger.Float64("ratio", report.BuffettRatio),
		applogger.String("valuation", report.Valuation.String()),
	)
	return &report, nil
}
