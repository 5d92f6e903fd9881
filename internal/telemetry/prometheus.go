package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	requestDuration *prometheus.HistogramVec
	trendingRefresh *prometheus.CounterVec
	staleServed     *prometheus.CounterVec
	submissions     *prometheus.CounterVec
}

func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &PrometheusMetrics{
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agentzone_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "route", "status"},
		),
		trendingRefresh: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentzone_trending_refresh_total",
				Help: "Trend score refresh triggers by outcome",
			},
			[]string{"outcome"},
		),
		staleServed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentzone_feed_stale_total",
				Help: "Responses served from the last good snapshot after an upstream failure",
			},
			[]string{"section"},
		),
		submissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentzone_submissions_total",
				Help: "Tool submissions by outcome",
			},
			[]string{"outcome"},
		),
	}
}

func (p *PrometheusMetrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	p.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func (p *PrometheusMetrics) ObserveTrendingRefresh(outcome string) {
	p.trendingRefresh.WithLabelValues(outcome).Inc()
}

func (p *PrometheusMetrics) ObserveStale(section string) {
	p.staleServed.WithLabelValues(section).Inc()
}

func (p *PrometheusMetrics) ObserveSubmission(outcome string) {
	p.submissions.WithLabelValues(outcome).Inc()
}

var _ Metrics = (*PrometheusMetrics)(nil)
