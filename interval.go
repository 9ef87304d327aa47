package klinetime

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Interval identifies one of the fixed candlestick widths used by exchange
// kline streams (e.g. "1m", "1h", "1w"). Minutes, hours and days are fixed
// length and the week is 7×24h; calendar-variable widths (months, years) are
// not supported because bucket boundaries are pure epoch arithmetic.
type Interval string

const (
	Interval1m  Interval = "1m"
	Interval3m  Interval = "3m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval1h  Interval = "1h"
	Interval2h  Interval = "2h"
	Interval4h  Interval = "4h"
	Interval6h  Interval = "6h"
	Interval8h  Interval = "8h"
	Interval12h Interval = "12h"
	Interval1d  Interval = "1d"
	Interval3d  Interval = "3d"
	Interval1w  Interval = "1w"
)

const (
	minuteMillis = 60 * 1000
	hourMillis   = 60 * minuteMillis
	dayMillis    = 24 * hourMillis
)

var intervalMillis = map[Interval]int64{
	Interval1m:  minuteMillis,
	Interval3m:  3 * minuteMillis,
	Interval5m:  5 * minuteMillis,
	Interval15m: 15 * minuteMillis,
	Interval30m: 30 * minuteMillis,
	Interval1h:  hourMillis,
	Interval2h:  2 * hourMillis,
	Interval4h:  4 * hourMillis,
	Interval6h:  6 * hourMillis,
	Interval8h:  8 * hourMillis,
	Interval12h: 12 * hourMillis,
	Interval1d:  dayMillis,
	Interval3d:  3 * dayMillis,
	Interval1w:  7 * dayMillis,
}

// Valid reports whether the interval belongs to the supported set.
func (i Interval) Valid() bool {
	_, ok := intervalMillis[i]
	return ok
}

// WidthMillis returns the exact bucket width in milliseconds. It is zero for
// an unsupported interval.
func (i Interval) WidthMillis() int64 {
	return intervalMillis[i]
}

// Duration returns the bucket width as a time.Duration.
func (i Interval) Duration() time.Duration {
	return time.Duration(intervalMillis[i]) * time.Millisecond
}

func (i Interval) String() string {
	return string(i)
}

// ParseInterval validates s against the supported set.
func ParseInterval(s string) (Interval, error) {
	iv := Interval(strings.TrimSpace(s))
	if !iv.Valid() {
		return "", fmt.Errorf("%w: %q (supported: %s)", ErrInvalidInterval, s, supportedList())
	}
	return iv, nil
}

// Supported returns all supported intervals ordered by width ascending.
func Supported() []Interval {
	out := make([]Interval, 0, len(intervalMillis))
	for iv := range intervalMillis {
		out = append(out, iv)
	}
	sort.Slice(out, func(a, b int) bool {
		return intervalMillis[out[a]] < intervalMillis[out[b]]
	})
	return out
}

func supportedList() string {
	names := make([]string, 0, len(intervalMillis))
	for _, iv := range Supported() {
		names = append(names, string(iv))
	}
	return strings.Join(names, ", ")
}
