package observability

import "context"

// Observability bundles the logger, meter and tracer of one process.
// Start brings up optional listeners; Close flushes pending spans and
// releases log files, so it should run last during shutdown.
type Observability interface {
	Close(ctx context.Context) error
	Logger() Logger
	Meter() Meter
	Start(ctx context.Context) error
	Tracer() Tracer
}
