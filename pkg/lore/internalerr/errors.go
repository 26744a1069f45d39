package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidConfig    = errors.New("invalid configuration")

	// Annotation contract violations. Any of these is fatal for the
	// document being processed, never for the batch.
	ErrIndexOutOfRange     = errors.New("index out of range")
	ErrMalformedAnnotation = errors.New("malformed annotation")
	ErrMissingField        = errors.New("missing annotation field")
)
