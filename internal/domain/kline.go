package domain

import (
	"fmt"

	"klinetime"
)

// Kline is a single candlestick. Bucket identity (instant, interval, open and
// close boundaries) lives in the embedded KlineTimestamp; the price fields
// are the exchange-reported aggregates for that bucket.
type Kline struct {
	Bucket  klinetime.KlineTimestamp // Bucket the candle belongs to
	Symbol  string                   // Trading symbol
	Open    float64                  // Opening price
	High    float64                  // Highest price
	Low     float64                  // Lowest price
	Close   float64                  // Closing price
	Volume  float64                  // Traded volume
	IsFinal bool                     // Whether the bucket is closed on the exchange
}

// Validate checks structural sanity before a kline is persisted or exported.
func (k *Kline) Validate() error {
	if k.Symbol == "" {
		return fmt.Errorf("kline has empty symbol")
	}
	if k.Bucket.UnixMilli() != k.Bucket.OpenMillis() {
		return fmt.Errorf("kline for %s not aligned to its %s bucket: instant %d, bucket open %d",
			k.Symbol, k.Bucket.Interval(), k.Bucket.UnixMilli(), k.Bucket.OpenMillis())
	}
	if k.High < k.Low {
		return fmt.Errorf("kline for %s at %d: high %f below low %f", k.Symbol, k.Bucket.OpenMillis(), k.High, k.Low)
	}
	if k.Open < k.Low || k.Open > k.High || k.Close < k.Low || k.Close > k.High {
		return fmt.Errorf("kline for %s at %d: open/close outside high-low range", k.Symbol, k.Bucket.OpenMillis())
	}
	if k.Volume < 0 {
		return fmt.Errorf("kline for %s at %d: negative volume %f", k.Symbol, k.Bucket.OpenMillis(), k.Volume)
	}
	return nil
}
