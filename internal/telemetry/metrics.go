package telemetry

import "time"

// Metrics is the recording surface used by handlers and services.
type Metrics interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
	ObserveTrendingRefresh(outcome string)
	ObserveStale(section string)
	ObserveSubmission(outcome string)
}

// Refresh and submission outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeCoalesced = "coalesced"
	OutcomeInvalid   = "invalid"
	OutcomeUpload    = "upload_failed"
)

// NoopMetrics discards every observation.
type NoopMetrics struct{}

func (NoopMetrics) ObserveRequest(string, string, int, time.Duration) {}
func (NoopMetrics) ObserveTrendingRefresh(string)                     {}
func (NoopMetrics) ObserveStale(string)                               {}
func (NoopMetrics) ObserveSubmission(string)                          {}

var _ Metrics = NoopMetrics{}
