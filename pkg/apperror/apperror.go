package apperror

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrInvalidConfig     = errors.New("invalid config")
	ErrSpanAlreadyClosed = errors.New("span already closed")
)
