package em

import (
	"errors"
	"fmt"
)

// Error categories surfaced by the injection pipeline. All errors returned
// by this package wrap exactly one of these sentinels, so callers can route
// on errors.Is without string matching.
var (
	// ErrConfiguration marks an invalid or contradictory model/mode selection.
	ErrConfiguration = errors.New("configuration error")

	// ErrMissingField marks an injection row lacking a required parameter
	// under all of its accepted key names.
	ErrMissingField = errors.New("missing field")

	// ErrModelEvaluation marks a failure of the underlying emission model
	// for a given parameter set. Never retried; a bad injection aborts the
	// batch unless the caller wraps per-index calls.
	ErrModelEvaluation = errors.New("model evaluation failed")

	// ErrCacheIO marks an unwritable artifact directory or a failed artifact
	// write. Unparsable artifacts are NOT errors: they are treated as cache
	// misses and recomputed.
	ErrCacheIO = errors.New("cache io error")
)

// NewConfigError builds an error in the ErrConfiguration category. Exported
// for em/models, whose constructors reject invalid configurations with the
// same taxonomy.
func NewConfigError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

func configErrorf(format string, args ...any) error {
	return NewConfigError(format, args...)
}

func missingFieldErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMissingField, fmt.Sprintf(format, args...))
}

func modelErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrModelEvaluation, fmt.Sprintf(format, args...))
}

func cacheIOError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrCacheIO, op, err)
}
