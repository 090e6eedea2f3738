package di

import (
	"fmt"

	"BuffettIndicator/internal/domain/repository"
	"BuffettIndicator/internal/handler/api"
	"BuffettIndicator/internal/service/fred"
	"BuffettIndicator/internal/service/quote"
	"BuffettIndicator/internal/service/ratelimit"
	"BuffettIndicator/internal/services/valuation"
	"BuffettIndicator/internal/usecase"
	"BuffettIndicator/pkg/cache"
	"BuffettIndicator/pkg/config"
	xhttp "BuffettIndicator/pkg/http"
	applogger "BuffettIndicator/pkg/logger"
	"BuffettIndicator/pkg/metrics"
	"BuffettIndicator/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
)

// ProvideLogger creates the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder, or a no-op one when
// metrics are disabled.
func ProvideMetrics(cfg *config.Config) repository.Metrics {
	if !cfg.Metrics.Enabled {
		return repository.NopMetrics{}
	}
	return metrics.New(prometheus.DefaultRegisterer)
}

// ProvideCache builds the configured cache backend. Backend "none" yields a
// nil Service, which disables memoization.
func ProvideCache(cfg *config.Config, logger *applogger.Logger) (cache.Service, error) {
	switch cfg.Cache.Backend {
	case "none":
		return nil, nil
	case "memory":
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MaxSize)), nil
	case "redis", "layered":
		rc, err := cache.NewRedisCache(
			cache.WithRedisAddr(cfg.Cache.Redis.Host, cfg.Cache.Redis.Port),
			cache.WithRedisAuth(cfg.Cache.Redis.Password, cfg.Cache.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		logger.Info("redis cache connected",
			applogger.String("host", cfg.Cache.Redis.Host),
			applogger.Int("port", cfg.Cache.Redis.Port),
		)
		if cfg.Cache.Backend == "layered" {
			return cache.NewLayeredCache(rc, cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MaxSize))), nil
		}
		return rc, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// ProvidePageFetcher selects plain HTTP or headless Chrome for the quote page.
func ProvidePageFetcher(cfg *config.Config) quote.PageFetcher {
	if cfg.Quote.Renderer == "chrome" {
		return quote.NewChromeFetcher(cfg.Quote.UserAgent, cfg.Quote.Timeout, "div.YMlKec")
	}
	client := xhttp.NewClient(xhttp.WithTimeout(cfg.Quote.Timeout))
	return quote.NewHTTPFetcher(client, cfg.Quote.UserAgent)
}

// ProvideExtractor builds the strategy list from config, falling back to
// the built-in selectors.
func ProvideExtractor(cfg *config.Config) *quote.NumericExtractor {
	strategies := make([]quote.Strategy, 0, len(cfg.Quote.Strategies))
	for _, s := range cfg.Quote.Strategies {
		strategies = append(strategies, quote.SelectorStrategy{Label: s.Name, Selector: s.Selector})
	}
	return quote.NewNumericExtractor(strategies...)
}

// ProvideMarketValueSource creates the Wilshire 5000 scraper.
func ProvideMarketValueSource(
	cfg *config.Config,
	fetcher quote.PageFetcher,
	extractor *quote.NumericExtractor,
	c cache.Service,
	m repository.Metrics,
	logger *applogger.Logger,
) repository.MarketValueSource {
	return quote.NewScraper(cfg.Quote.URL, fetcher, extractor,
		logger.With(applogger.String("source", "quote")),
		quote.WithCache(c, cfg.Quote.CacheTTL),
		quote.WithMetrics(m),
	)
}

// ProvideGDPSource creates the FRED client, or the unavailable source when
// no api key is configured.
func ProvideGDPSource(
	cfg *config.Config,
	c cache.Service,
	m repository.Metrics,
	logger *applogger.Logger,
) repository.GDPSource {
	if !cfg.HasFREDKey() {
		logger.Warn("FRED API key is not set, GDP data will be unavailable; set FRED_API_KEY")
		return fred.Unavailable{}
	}
	client := xhttp.NewClient(xhttp.WithTimeout(cfg.FRED.Timeout))
	return fred.NewClient(client, fred.Config{
		BaseURL:          cfg.FRED.BaseURL,
		APIKey:           cfg.FRED.APIKey,
		SeriesID:         cfg.FRED.SeriesID,
		ObservationStart: cfg.FRED.ObservationStart,
	}, logger.With(applogger.String("source", "fred")),
		fred.WithCache(c, cfg.FRED.CacheTTL),
		fred.WithMetrics(m),
	)
}

// ProvideValuationCalculator creates the ratio calculator.
func ProvideValuationCalculator(cfg *config.Config) *valuation.Calculator {
	return valuation.NewCalculator(cfg.Valuation.PointsPerTrillion)
}

// ProvideRefreshLimiter limits cache-bypassing requests per client.
func ProvideRefreshLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.Server.RefreshBurst, cfg.Server.RefreshPerSec)
}

// ProvideHTTPHandler creates the echo handler for serve mode.
func ProvideHTTPHandler(logger *applogger.Logger, uc *usecase.IndicatorCalculator, limiter *ratelimit.Limiter) xhttp.Handler {
	return api.NewIndicatorEchoHandler(logger, uc, limiter)
}

// ProvideApp creates the application.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	uc *usecase.IndicatorCalculator,
	handler xhttp.Handler,
	limiter *ratelimit.Limiter,
	c cache.Service,
) *server.App {
	app := server.New(cfg, logger, uc, handler, limiter)
	if c != nil {
		app.AddCloser(c)
	}
	return app
}
