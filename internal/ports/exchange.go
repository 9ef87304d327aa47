package ports

import (
	"context"
	"time"

	"klinetime"
	"klinetime/internal/domain"
)

// KlineSource defines the interface for fetching candlestick data from an
// exchange. This abstraction decouples the fetching tools from a specific
// exchange implementation.
type KlineSource interface {
	// Ping checks connectivity to the exchange.
	Ping(ctx context.Context) error

	// GetServerTime retrieves the exchange's current server time.
	GetServerTime(ctx context.Context) (time.Time, error)

	// GetKlinesRange fetches all klines for a symbol between the start and
	// end buckets (inclusive). The interval is taken from start; start and
	// end must share it.
	GetKlinesRange(ctx context.Context, symbol string, start, end klinetime.KlineTimestamp) ([]*domain.Kline, error)
}
