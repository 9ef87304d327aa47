package ports

import (
	"context"

	"klinetime"
	"klinetime/internal/domain"
)

// KlineRepository defines the interface for storing and retrieving
// candlestick series.
type KlineRepository interface {
	// Upsert inserts or replaces klines keyed by (symbol, interval, bucket
	// open). Klines failing domain validation are rejected before any write.
	Upsert(ctx context.Context, klines []*domain.Kline) error
	// Range retrieves stored klines for the symbol whose bucket opens lie in
	// [start.OpenMillis(), end.OpenMillis()], ordered by open ascending. The
	// interval is taken from start; start and end must share it.
	Range(ctx context.Context, symbol string, start, end klinetime.KlineTimestamp) ([]*domain.Kline, error)
	// LatestOpen returns the most recent stored bucket for the symbol and
	// interval. Returns an error wrapping ErrNotFound when the series is empty.
	LatestOpen(ctx context.Context, symbol string, interval klinetime.Interval) (klinetime.KlineTimestamp, error)
}
