package telemetry

import (
	"strconv"

	"github.com/jt828/hello-observability/pkg/observability"
)

const (
	MetricRequestsTotal    = "http_requests_total"
	MetricRequestDuration  = "http_request_duration_seconds"
	MetricRequestsInFlight = "http_requests_in_flight"

	LabelMethod   = "method"
	LabelEndpoint = "endpoint"
	LabelStatus   = "http_status"
)

var LatencyBuckets = []float64{0.1, 0.25, 0.5, 1, 2, 5}

// RequestMetrics is created once at startup; every completed request adds one
// counter increment and one latency observation through Observe.
type RequestMetrics struct {
	requestTotal   observability.Counter
	requestLatency observability.Histogram
	inFlight       observability.Gauge
}

func NewRequestMetrics(meter observability.Meter) *RequestMetrics {
	return &RequestMetrics{
		requestTotal: meter.Counter(MetricRequestsTotal, observability.MetricOpt{
			Help:      "Total HTTP requests",
			LabelKeys: []string{LabelMethod, LabelEndpoint, LabelStatus},
		}),
		requestLatency: meter.Histogram(MetricRequestDuration, observability.MetricOpt{
			Help:      "Histogram of request latency (seconds)",
			Buckets:   LatencyBuckets,
			LabelKeys: []string{LabelEndpoint},
		}),
		inFlight: meter.Gauge(MetricRequestsInFlight, observability.MetricOpt{
			Help:      "HTTP requests currently being served",
			LabelKeys: []string{LabelEndpoint},
		}),
	}
}

func (m *RequestMetrics) Observe(method, endpoint string, status int, durationSeconds float64) {
	m.requestTotal.Inc(1,
		observability.L(LabelMethod, method),
		observability.L(LabelEndpoint, endpoint),
		observability.L(LabelStatus, strconv.Itoa(status)),
	)
	m.requestLatency.Observe(durationSeconds, observability.L(LabelEndpoint, endpoint))
}

// TrackInFlight raises the in-flight gauge for endpoint; the returned func
// lowers it again and must be called exactly once.
func (m *RequestMetrics) TrackInFlight(endpoint string) func() {
	label := observability.L(LabelEndpoint, endpoint)
	m.inFlight.Add(1, label)
	return func() {
		m.inFlight.Add(-1, label)
	}
}
