package observability

import "context"

type Tracer interface {
	Start(ctx context.Context, name string) (context.Context, Span)
}

// Span is closed exactly once. SetAttribute and End return an error wrapping
// apperror.ErrSpanAlreadyClosed when called on a closed span.
type Span interface {
	SetAttribute(key string, value any) error
	RecordError(err error)
	End() error
}
