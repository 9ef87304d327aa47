// Package series provides bucket arithmetic over stored candle ranges: how
// many klines an aligned range should contain and which buckets are missing.
package series

import (
	"fmt"

	"klinetime"
	"klinetime/internal/domain"
	"klinetime/internal/ports"
)

// Range is an inclusive run of buckets of one interval, from the bucket
// containing startMS to the bucket containing endMS.
type Range struct {
	Start klinetime.KlineTimestamp
	End   klinetime.KlineTimestamp
}

// New builds an aligned range over the given interval. Reversed bounds are
// swapped rather than rejected.
func New(startMS, endMS int64, interval klinetime.Interval) (Range, error) {
	if endMS < startMS {
		startMS, endMS = endMS, startMS
	}
	start, err := klinetime.New(startMS, interval)
	if err != nil {
		return Range{}, err
	}
	end, err := klinetime.New(endMS, interval)
	if err != nil {
		return Range{}, err
	}
	return Range{Start: start, End: end}, nil
}

// Interval returns the bucket width identifier shared by the range.
func (r Range) Interval() klinetime.Interval {
	return r.Start.Interval()
}

// ExpectedCount returns the number of buckets in the range, end inclusive.
func (r Range) ExpectedCount() int64 {
	width := r.Interval().WidthMillis()
	if width == 0 {
		return 0
	}
	return (r.End.OpenMillis()-r.Start.OpenMillis())/width + 1
}

// Contains reports whether the bucket of k lies inside the range. A bucket of
// a different interval is never contained.
func (r Range) Contains(k klinetime.KlineTimestamp) bool {
	if k.Interval() != r.Interval() {
		return false
	}
	return k.OpenMillis() >= r.Start.OpenMillis() && k.OpenMillis() <= r.End.OpenMillis()
}

// Walk calls fn for every bucket in the range in ascending order, stopping
// early when fn returns false.
func (r Range) Walk(fn func(klinetime.KlineTimestamp) bool) {
	for cur := r.Start; !cur.After(r.End); cur = cur.Next() {
		if !fn(cur) {
			return
		}
	}
}

// MissingBuckets returns the buckets of r that have no kline in the given
// series. Klines of a different interval or outside the range are ignored.
func MissingBuckets(r Range, klines []*domain.Kline) []klinetime.KlineTimestamp {
	have := make(map[int64]struct{}, len(klines))
	for _, k := range klines {
		if k.Bucket.Interval() == r.Interval() {
			have[k.Bucket.OpenMillis()] = struct{}{}
		}
	}

	var missing []klinetime.KlineTimestamp
	r.Walk(func(b klinetime.KlineTimestamp) bool {
		if _, ok := have[b.OpenMillis()]; !ok {
			missing = append(missing, b)
		}
		return true
	})
	return missing
}

// Continuous reports whether the series covers every bucket of r.
func Continuous(r Range, klines []*domain.Kline) bool {
	return len(MissingBuckets(r, klines)) == 0
}

// VerifyCoverage returns an error describing the first gap when the series
// does not cover r completely.
func VerifyCoverage(r Range, klines []*domain.Kline) error {
	missing := MissingBuckets(r, klines)
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d of %d buckets missing, first gap at %s",
		ports.ErrNotFound, len(missing), r.ExpectedCount(), missing[0])
}
