package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Poll outcome label values.
const (
	OutcomeRendered = "rendered"
	OutcomeErrored  = "errored"
)

// Metrics groups the collectors exported by the widget process.
type Metrics struct {
	Polls       *prometheus.CounterVec
	PollLatency prometheus.Histogram
	Requests    *prometheus.CounterVec
	Latency     *prometheus.HistogramVec
	RateLimited prometheus.Counter
	StreamConns prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Polls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "climatewidget",
				Name:      "polls_total",
				Help:      "Climate poll cycles by outcome.",
			},
			[]string{"outcome"},
		),
		PollLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "climatewidget",
				Name:      "poll_duration_seconds",
				Help:      "Duration of climate poll cycles.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "climatewidget",
				Name:      "http_requests_total",
				Help:      "HTTP requests by route and status code.",
			},
			[]string{"route", "code"},
		),
		Latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "climatewidget",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		RateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "climatewidget",
				Name:      "http_rate_limited_total",
				Help:      "HTTP requests rejected by the rate limiter.",
			},
		),
		StreamConns: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "climatewidget",
				Name:      "stream_connections",
				Help:      "Websocket clients currently receiving camera frames.",
			},
		),
	}

	for _, c := range []prometheus.Collector{m.Polls, m.PollLatency, m.Requests, m.Latency, m.RateLimited, m.StreamConns} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
