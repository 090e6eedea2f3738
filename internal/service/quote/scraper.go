package quote

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"BuffettIndicator/internal/domain/models"
	"BuffettIndicator/internal/domain/repository"
	"BuffettIndicator/pkg/cache"
	applogger "BuffettIndicator/pkg/logger"

	"github.com/PuerkitoBio/goquery"
)

const metricsSource = "quote"

// Scraper implements repository.MarketValueSource by scraping a quote page.
type Scraper struct {
	url       string
	fetcher   PageFetcher
	extractor *NumericExtractor
	cache     cache.Service
	cacheTTL  time.Duration
	metrics   repository.Metrics
	logger    *applogger.Logger
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithCache memoizes scraped values for ttl.
func WithCache(c cache.Service, ttl time.Duration) Option {
	return func(s *Scraper) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithMetrics records fetch outcomes.
func WithMetrics(m repository.Metrics) Option {
	return func(s *Scraper) {
		s.metrics = m
	}
}

// NewScraper creates a scraper for url.
func NewScraper(url string, fetcher PageFetcher, extractor *NumericExtractor, logger *applogger.Logger, opts ...Option) *Scraper {
	s := &Scraper{
		url:       url,
		fetcher:   fetcher,
		extractor: extractor,
		metrics:   repository.NopMetrics{},
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchMarketValue fetches the page and extracts the index level.
func (s *Scraper) FetchMarketValue(ctx context.Context) (models.MarketValue, error) {
	mv, hit, err := cache.Memoize(ctx, s.cache, cache.Key("quote", s.url), s.cacheTTL, s.scrape)
	if err != nil {
		return models.MarketValue{}, err
	}
	if hit {
		s.logger.Debug("wilshire 5000 served from cache", applogger.Float64("value", mv.Value))
	}
	return mv, nil
}

func (s *Scraper) scrape(ctx context.Context) (models.MarketValue, error) {
	start := time.Now()
	mv, err := s.fetchAndExtract(ctx)
	s.metrics.RecordFetch(metricsSource, time.Since(start).Seconds(), err == nil)
	if err != nil {
		return models.MarketValue{}, err
	}

	s.logger.Info("scraped wilshire 5000",
		applogger.Float64("value", mv.Value),
		applogger.String("strategy", mv.Strategy),
	)
	return mv, nil
}

func (s *Scraper) fetchAndExtract(ctx context.Context) (models.MarketValue, error) {
	body, err := s.fetcher.FetchPage(ctx, s.url)
	if err != nil {
		s.metrics.RecordError("quote_fetch")
		s.logger.Warn("wilshire 5000 scraping error", applogger.Error(err))
		return models.MarketValue{}, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		s.metrics.RecordError("quote_parse")
		s.logger.Warn("wilshire 5000 page is not parsable", applogger.Error(err))
		return models.MarketValue{}, fmt.Errorf("parse quote page: %w", err)
	}

	value, strategy, err := s.extractor.Extract(doc)
	if err != nil {
		s.metrics.RecordError("quote_value_not_found")
		s.logger.Warn("wilshire 5000 index not found with any selector",
			applogger.Strings("strategies", s.extractor.Strategies()),
			applogger.Error(err),
		)
		s.logCandidates(doc)
		return models.MarketValue{}, err
	}
	return models.MarketValue{Value: value, Strategy: strategy}, nil
}

func (s *Scraper) logCandidates(doc *goquery.Document) {
	candidates := s.extractor.Candidates(doc, 5)
	if len(candidates) == 0 {
		s.logger.Warn("no candidate price elements on page")
		return
	}
	for i, c := range candidates {
		s.logger.Warn("candidate price element", applogger.Int("index", i), applogger.String("html", c))
	}
}
