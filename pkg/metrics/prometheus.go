package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchesTotal *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	indexValue   prometheus.Gauge
	gdpBillions  prometheus.Gauge
	ratio        prometheus.Gauge
}

// New creates a Prometheus recorder registered on reg.
// A nil reg registers on the default registry.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Recorder{
		fetchesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "buffett_fetches_total",
				Help: "Upstream fetches by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "buffett_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"kind"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "buffett_fetch_duration_seconds",
				Help:    "Duration of upstream fetches in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"source"},
		),
		indexValue: f.NewGauge(prometheus.GaugeOpts{
			Name: "buffett_wilshire5000_index",
			Help: "Last scraped Wilshire 5000 index level",
		}),
		gdpBillions: f.NewGauge(prometheus.GaugeOpts{
			Name: "buffett_gdp_billions",
			Help: "Last GDP observation in billions of dollars",
		}),
		ratio: f.NewGauge(prometheus.GaugeOpts{
			Name: "buffett_indicator_ratio_percent",
			Help: "Last computed Buffett Indicator in percent",
		}),
	}
}

// RecordFetch records one upstream call and its latency.
func (r *Recorder) RecordFetch(source string, seconds float64, ok bool) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	r.fetchesTotal.WithLabelValues(source, outcome).Inc()
	r.latency.WithLabelValues(source).Observe(seconds)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordIndicator publishes the inputs and the ratio of the last calculation.
func (r *Recorder) RecordIndicator(index, gdpBillions, ratio float64) {
	r.indexValue.Set(index)
	r.gdpBillions.Set(gdpBillions)
	r.ratio.Set(ratio)
}
