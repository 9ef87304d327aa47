package klinetime

import (
	"fmt"
	"time"
)

// KlineTimestamp binds a millisecond epoch instant to the fixed-width
// candlestick bucket containing it. Bucket boundaries are anchored to the
// Unix epoch (open is always a multiple of the interval width), so the
// timezone affects only the calendar representation returned by Time, never
// the boundaries themselves.
//
// The type is an immutable value: every operation returns a new value and
// instances are safe to copy and share between goroutines.
type KlineTimestamp struct {
	ms       int64
	open     int64
	interval Interval
	loc      *time.Location
}

// New constructs a timestamp in UTC for the bucket containing ms.
func New(ms int64, interval Interval) (KlineTimestamp, error) {
	return NewIn(ms, interval, TZLocation(time.UTC))
}

// NewIn constructs a timestamp with an explicit display timezone. The instant
// may be negative (pre-1970); boundaries are computed with floor semantics so
// open never exceeds the instant.
func NewIn(ms int64, interval Interval, tz TimezoneRef) (KlineTimestamp, error) {
	if !interval.Valid() {
		return KlineTimestamp{}, fmt.Errorf("%w: %q (supported: %s)", ErrInvalidInterval, string(interval), supportedList())
	}
	loc, err := tz.Resolve()
	if err != nil {
		return KlineTimestamp{}, err
	}
	return KlineTimestamp{
		ms:       ms,
		open:     floorAlign(ms, interval.WidthMillis()),
		interval: interval,
		loc:      loc,
	}, nil
}

// floorAlign rounds ms down to the previous multiple of width. Go's % is a
// truncating modulo; the negative remainder is shifted so that alignment
// stays a floor for pre-epoch instants.
func floorAlign(ms, width int64) int64 {
	rem := ms % width
	if rem < 0 {
		rem += width
	}
	return ms - rem
}

// at rebuilds the value around a new instant, keeping interval and timezone.
// Only reachable from already validated values.
func (k KlineTimestamp) at(ms int64) KlineTimestamp {
	k.ms = ms
	k.open = floorAlign(ms, k.interval.WidthMillis())
	return k
}

// UnixMilli returns the raw instant the value was built from.
func (k KlineTimestamp) UnixMilli() int64 { return k.ms }

// Interval returns the bucket width identifier.
func (k KlineTimestamp) Interval() Interval { return k.interval }

// Location returns the display timezone.
func (k KlineTimestamp) Location() *time.Location { return k.loc }

// OpenMillis returns the epoch millisecond at which the bucket opens.
// OpenMillis() <= UnixMilli() < CloseMillis() always holds.
func (k KlineTimestamp) OpenMillis() int64 { return k.open }

// CloseMillis returns the exclusive bucket end, open plus the interval width.
func (k KlineTimestamp) CloseMillis() int64 { return k.open + k.interval.WidthMillis() }

// Time returns the bucket open as a calendar time localized to the display
// timezone. Values sharing a bucket but carrying different zones produce
// times denoting the same instant.
func (k KlineTimestamp) Time() time.Time {
	return time.UnixMilli(k.open).In(k.loc)
}

// WithTimezone returns a copy whose calendar representation uses the given
// zone. Boundaries are epoch values and do not change.
func (k KlineTimestamp) WithTimezone(tz TimezoneRef) (KlineTimestamp, error) {
	loc, err := tz.Resolve()
	if err != nil {
		return KlineTimestamp{}, err
	}
	k.loc = loc
	return k, nil
}

// Add returns the timestamp shifted by d, re-bucketed in the same interval
// and timezone. A negative d shifts backwards.
func (k KlineTimestamp) Add(d time.Duration) KlineTimestamp {
	return k.at(k.ms + d.Milliseconds())
}

// Sub returns the signed difference between the raw instants of k and other.
// Interval and timezone play no part: this compares instants, not buckets.
func (k KlineTimestamp) Sub(other KlineTimestamp) time.Duration {
	return time.Duration(k.ms-other.ms) * time.Millisecond
}

// Next returns the bucket immediately after this one. Its instant is this
// bucket's close, so k.Next().OpenMillis() == k.CloseMillis() regardless of
// where inside the bucket the original instant fell.
func (k KlineTimestamp) Next() KlineTimestamp {
	return k.at(k.CloseMillis())
}

// Prev returns the bucket immediately before this one:
// k.Prev().CloseMillis() == k.OpenMillis().
func (k KlineTimestamp) Prev() KlineTimestamp {
	return k.at(k.open - k.interval.WidthMillis())
}

// Equal reports whether k and other identify the same bucket: same open and
// same interval. The display timezone does not participate, so two values
// over the same bucket in different zones are equal.
func (k KlineTimestamp) Equal(other KlineTimestamp) bool {
	return k.open == other.open && k.interval == other.interval
}

// Before reports whether k's bucket opens strictly before other's.
func (k KlineTimestamp) Before(other KlineTimestamp) bool {
	return k.open < other.open
}

// After reports whether k's bucket opens strictly after other's.
func (k KlineTimestamp) After(other KlineTimestamp) bool {
	return k.open > other.open
}

// Compare returns -1, 0 or +1 ordering by bucket open ascending. When two
// buckets of different widths share an open, the narrower interval sorts
// first; this tie-break makes the order total across mixed intervals and is
// consistent with Equal (Compare returns 0 iff Equal is true).
func (k KlineTimestamp) Compare(other KlineTimestamp) int {
	switch {
	case k.open < other.open:
		return -1
	case k.open > other.open:
		return 1
	}
	kw, ow := k.interval.WidthMillis(), other.interval.WidthMillis()
	switch {
	case kw < ow:
		return -1
	case kw > ow:
		return 1
	}
	return 0
}

// String implements fmt.Stringer with the localized bucket open, the
// interval and the zone name.
func (k KlineTimestamp) String() string {
	return fmt.Sprintf("KlineTimestamp(%s, interval=%s, tz=%s)",
		k.Time().Format(time.RFC3339), k.interval, k.loc)
}
