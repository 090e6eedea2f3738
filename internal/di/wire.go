//go:build wireinject
// +build wireinject

package di

import (
	"BuffettIndicator/internal/usecase"
	"BuffettIndicator/pkg/config"
	"BuffettIndicator/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,
		ProvideCache,

		// Sources
		ProvidePageFetcher,
		ProvideExtractor,
		ProvideMarketValueSource,
		ProvideGDPSource,

		// Use cases
		ProvideValuationCalculator,
		usecase.NewIndicatorCalculator,

		// HTTP
		ProvideRefreshLimiter,
		ProvideHTTPHandler,

		// Application
		ProvideApp,
	)
	return &server.App{}, nil
}
