package constant

const (
	HelloEndpoint = "/hello"
	HelloMessage  = "Hello, Observability!"

	MetricsEndpoint = "/metrics"
)

// Span attribute keys set on every hello span before it ends.
const (
	AttrDelaySeconds    = "app.delay_seconds"
	AttrDurationSeconds = "app.duration_seconds"
	AttrRequestID       = "app.request_id"
)
