package klinetime

import "errors"

// Validation errors surfaced at construction time. Callers can test for them
// with errors.Is; the wrapped message carries the offending value.
var (
	// ErrInvalidInterval indicates an interval outside the supported set.
	ErrInvalidInterval = errors.New("invalid kline interval")
	// ErrInvalidTimezone indicates a timezone reference that cannot be
	// resolved to a location.
	ErrInvalidTimezone = errors.New("invalid timezone")
)
