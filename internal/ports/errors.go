package ports

import "errors"

// Standard application-level errors. Adapters wrap underlying infrastructure
// errors with these so callers can branch with errors.Is without knowing the
// backend.
var (
	// General Errors
	ErrInvalidRequest  = errors.New("invalid request parameters or format")
	ErrNotFound        = errors.New("resource not found")
	ErrTimeout         = errors.New("operation timed out")
	ErrContextCanceled = errors.New("operation canceled via context")

	// Exchange Specific Errors
	ErrExchangeUnavailable  = errors.New("exchange API is unavailable")
	ErrConnectionFailed     = errors.New("failed to connect to the exchange")
	ErrRateLimited          = errors.New("API rate limit exceeded")
	ErrAuthenticationFailed = errors.New("exchange authentication failed (check API keys)")
	ErrInvalidAPIKeys       = errors.New("invalid API keys or permissions")

	// Database Specific Errors
	ErrDBConnection = errors.New("database connection error")
	ErrQueryFailed  = errors.New("database query failed")

	// Series Specific Errors
	ErrMisalignedKline  = errors.New("kline not aligned to its bucket")
	ErrIntervalMismatch = errors.New("operands use different kline intervals")
)
