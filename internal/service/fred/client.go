// Package fred reads observations from the St. Louis Fed FRED API.
package fred

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"BuffettIndicator/internal/domain/models"
	"BuffettIndicator/internal/domain/repository"
	"BuffettIndicator/pkg/cache"
	xhttp "BuffettIndicator/pkg/http"
	applogger "BuffettIndicator/pkg/logger"
	"BuffettIndicator/pkg/util"
)

const (
	observationsPath = "/series/observations"
	missingValue     = "."
	metricsSource    = "fred"
)

var (
	// ErrEmptySeries means the series had no usable observation.
	ErrEmptySeries = errors.New("fred: no observations")
	// ErrSourceUnavailable means no credential is configured.
	ErrSourceUnavailable = errors.New("fred: source unavailable, api key not set")
)

// APIError is the error body FRED sends with non-2xx responses.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       int    `json:"error_code"`
	Message    string `json:"error_message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fred api error %d: %s", e.Code, e.Message)
}

type observationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

// Config selects the series to read.
type Config struct {
	BaseURL          string
	APIKey           string
	SeriesID         string
	ObservationStart string
}

// Client implements repository.GDPSource.
type Client struct {
	http     *xhttp.Client
	cfg      Config
	cache    cache.Service
	cacheTTL time.Duration
	metrics  repository.Metrics
	logger   *applogger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithCache memoizes the latest observation for ttl.
func WithCache(c cache.Service, ttl time.Duration) Option {
	return func(cl *Client) {
		cl.cache = c
		cl.cacheTTL = ttl
	}
}

// WithMetrics records fetch outcomes.
func WithMetrics(m repository.Metrics) Option {
	return func(cl *Client) {
		cl.metrics = m
	}
}

// NewClient creates a FRED client. The api key must be non-empty; use
// Unavailable when no key is configured.
func NewClient(httpClient *xhttp.Client, cfg Config, logger *applogger.Logger, opts ...Option) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	c := &Client{
		http:    httpClient,
		cfg:     cfg,
		metrics: repository.NopMetrics{},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LatestGDP returns the chronologically last observation of the series.
func (c *Client) LatestGDP(ctx context.Context) (models.Observation, error) {
	key := cache.Key("fred", c.cfg.SeriesID, c.cfg.ObservationStart)
	obs, hit, err := cache.Memoize(ctx, c.cache, key, c.cacheTTL, c.fetchLatest)
	if err != nil {
		return models.Observation{}, err
	}
	if hit {
		c.logger.Debug("gdp served from cache", applogger.String("series", c.cfg.SeriesID))
	}
	return obs, nil
}

func (c *Client) fetchLatest(ctx context.Context) (models.Observation, error) {
	start := time.Now()
	obs, err := c.fetchObservations(ctx)
	if err == nil {
		obs, err = latest(obs)
	}
	c.metrics.RecordFetch(metricsSource, time.Since(start).Seconds(), err == nil)
	if err != nil {
		c.metrics.RecordError("fred_fetch")
		c.logger.Warn("gdp data fetching error",
			applogger.String("series", c.cfg.SeriesID),
			applogger.Error(err),
		)
		return models.Observation{}, err
	}

	last := obs[len(obs)-1]
	c.logger.Info("fetched gdp",
		applogger.String("series", c.cfg.SeriesID),
		applogger.String("date", last.Date.Format(util.DateLayout)),
		applogger.Float64("value", last.Value),
	)
	return last, nil
}

func (c *Client) fetchObservations(ctx context.Context) ([]models.Observation, error) {
	var resp observationsResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.cfg.BaseURL + observationsPath,
		QueryParams: map[string][]string{
			"series_id":         {c.cfg.SeriesID},
			"observation_start": {c.cfg.ObservationStart},
			"api_key":           {c.cfg.APIKey},
			"file_type":         {"json"},
		},
	}, &resp)
	if err != nil {
		return nil, c.redact(asAPIError(err))
	}

	out := make([]models.Observation, 0, len(resp.Observations))
	for _, o := range resp.Observations {
		if o.Value == missingValue {
			continue
		}
		date, err := util.ParseDate(o.Date)
		if err != nil {
			return nil, fmt.Errorf("observation date %q: %w", o.Date, err)
		}
		v, err := util.ParseGroupedFloat(o.Value)
		if err != nil {
			return nil, fmt.Errorf("observation %s: %w", o.Date, err)
		}
		out = append(out, models.Observation{Date: date, Value: v})
	}
	return out, nil
}

// latest orders observations by date. The result is non-empty on success.
func latest(obs []models.Observation) ([]models.Observation, error) {
	if len(obs) == 0 {
		return nil, ErrEmptySeries
	}
	sort.SliceStable(obs, func(i, j int) bool { return obs[i].Date.Before(obs[j].Date) })
	return obs, nil
}

func asAPIError(err error) error {
	var statusErr *xhttp.StatusError
	if !errors.As(err, &statusErr) {
		return err
	}
	apiErr := &APIError{StatusCode: statusErr.StatusCode}
	if json.Unmarshal(statusErr.Body, apiErr) != nil || apiErr.Message == "" {
		return err
	}
	return apiErr
}

// redact keeps the credential out of error strings, which transport errors
// build from the request URL.
func (c *Client) redact(err error) error {
	if c.cfg.APIKey == "" || !strings.Contains(err.Error(), c.cfg.APIKey) {
		return err
	}
	return &redactedError{
		msg: strings.ReplaceAll(err.Error(), c.cfg.APIKey, "REDACTED"),
		err: err,
	}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }
