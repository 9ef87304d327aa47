package klinetime

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2021-10-01T00:00:00Z, a midnight that is simultaneously a 1m, 1h and 1d
// bucket boundary.
const oct1 = int64(1633046400000)

func mustNew(t *testing.T, ms int64, interval Interval) KlineTimestamp {
	t.Helper()
	k, err := New(ms, interval)
	require.NoError(t, err)
	return k
}

func TestNew_Boundaries(t *testing.T) {
	tests := []struct {
		name      string
		ms        int64
		interval  Interval
		wantOpen  int64
		wantClose int64
	}{
		{name: "exact hour boundary", ms: oct1, interval: Interval1h, wantOpen: oct1, wantClose: oct1 + 3_600_000},
		{name: "mid hour", ms: oct1 + 125_000, interval: Interval1h, wantOpen: oct1, wantClose: oct1 + 3_600_000},
		{name: "mid minute", ms: oct1 + 125_000, interval: Interval1m, wantOpen: oct1 + 120_000, wantClose: oct1 + 180_000},
		{name: "daily midnight", ms: oct1, interval: Interval1d, wantOpen: oct1, wantClose: oct1 + 86_400_000},
		{name: "daily afternoon", ms: oct1 + 15*3_600_000, interval: Interval1d, wantOpen: oct1, wantClose: oct1 + 86_400_000},
		{name: "epoch", ms: 0, interval: Interval1w, wantOpen: 0, wantClose: 604_800_000},
		{name: "just before epoch", ms: -1, interval: Interval1m, wantOpen: -60_000, wantClose: 0},
		{name: "pre-epoch boundary", ms: -60_000, interval: Interval1m, wantOpen: -60_000, wantClose: 0},
		{name: "deep pre-epoch", ms: -604_800_001, interval: Interval1w, wantOpen: -2 * 604_800_000, wantClose: -604_800_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := mustNew(t, tt.ms, tt.interval)
			assert.Equal(t, tt.wantOpen, k.OpenMillis())
			assert.Equal(t, tt.wantClose, k.CloseMillis())
			assert.Equal(t, tt.ms, k.UnixMilli())
			assert.Equal(t, tt.interval, k.Interval())
		})
	}
}

// Bucket invariants across the full interval set, including pre-epoch
// instants: open <= ms < close, width is exact, open sits on the epoch grid.
func TestBucketInvariants(t *testing.T) {
	instants := []int64{
		-604_800_001, -86_400_000, -1, 0, 1, 999, 59_999,
		oct1 - 1, oct1, oct1 + 1, oct1 + 123_456_789,
	}
	for _, iv := range Supported() {
		width := iv.WidthMillis()
		for _, ms := range instants {
			k := mustNew(t, ms, iv)
			assert.LessOrEqual(t, k.OpenMillis(), ms, "%s at %d", iv, ms)
			assert.Greater(t, k.CloseMillis(), ms, "%s at %d", iv, ms)
			assert.Equal(t, width, k.CloseMillis()-k.OpenMillis(), "%s at %d", iv, ms)
			assert.Zero(t, k.OpenMillis()%width, "%s at %d: open off the epoch grid", iv, ms)
		}
	}
}

func TestNew_InvalidInterval(t *testing.T) {
	_, err := New(oct1, Interval("7m"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInterval)
	assert.Contains(t, err.Error(), "1m", "error should list the supported set")
}

func TestNewIn_InvalidTimezone(t *testing.T) {
	_, err := NewIn(oct1, Interval1h, TZ("Mars/Olympus_Mons"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTimezone)
}

func TestTime_LocalizedConversion(t *testing.T) {
	utc := mustNew(t, oct1, Interval1h)
	madrid, err := NewIn(oct1, Interval1h, TZ("Europe/Madrid"))
	require.NoError(t, err)

	// Same instant, different wall clock: Madrid is UTC+2 on 2021-10-01 (CEST).
	assert.True(t, utc.Time().Equal(madrid.Time()))
	assert.Equal(t, "2021-10-01T00:00:00Z", utc.Time().Format(time.RFC3339))
	assert.Equal(t, "2021-10-01T02:00:00+02:00", madrid.Time().Format(time.RFC3339))

	// Winter instant: same zone resolves to UTC+1 (CET) for that date.
	winter, err := NewIn(1638316800000, Interval1h, TZ("Europe/Madrid")) // 2021-12-01T00:00:00Z
	require.NoError(t, err)
	_, offset := winter.Time().Zone()
	assert.Equal(t, 3600, offset)
}

func TestWithTimezone(t *testing.T) {
	k, err := NewIn(oct1+90_000, Interval1h, TZ("UTC"))
	require.NoError(t, err)

	moved, err := k.WithTimezone(TZ("Asia/Tokyo"))
	require.NoError(t, err)

	// Boundaries are epoch values; changing the zone never moves them.
	assert.Equal(t, k.OpenMillis(), moved.OpenMillis())
	assert.Equal(t, k.CloseMillis(), moved.CloseMillis())
	assert.Equal(t, k.UnixMilli(), moved.UnixMilli())
	assert.Equal(t, "Asia/Tokyo", moved.Location().String())

	// The receiver is untouched.
	assert.Equal(t, "UTC", k.Location().String())

	_, err = k.WithTimezone(TZ("Nowhere/Null"))
	assert.ErrorIs(t, err, ErrInvalidTimezone)
}

func TestAddSub(t *testing.T) {
	k := mustNew(t, oct1, Interval1h)

	later := k.Add(90 * time.Minute)
	assert.Equal(t, oct1+90*60_000, later.UnixMilli())
	assert.Equal(t, oct1+3_600_000, later.OpenMillis(), "shifted instant lands in the next hourly bucket")
	assert.Equal(t, Interval1h, later.Interval())

	earlier := k.Add(-time.Minute)
	assert.Equal(t, oct1-3_600_000, earlier.OpenMillis())

	// Sub compares raw instants, independent of interval and timezone.
	other := mustNew(t, oct1-3_600_000, Interval1h)
	assert.Equal(t, time.Hour, k.Sub(other))
	assert.Equal(t, -time.Hour, other.Sub(k))

	daily := mustNew(t, oct1-3_600_000, Interval1d)
	assert.Equal(t, time.Hour, k.Sub(daily))
}

func TestNextPrev(t *testing.T) {
	for _, iv := range []Interval{Interval1m, Interval4h, Interval1d, Interval1w} {
		// Mid-bucket instant: navigation moves exactly one bucket regardless.
		k := mustNew(t, oct1+123_456, iv)

		next := k.Next()
		assert.Equal(t, k.CloseMillis(), next.OpenMillis(), "%s: next open must equal close", iv)
		assert.Equal(t, iv, next.Interval())

		prev := k.Prev()
		assert.Equal(t, k.OpenMillis(), prev.CloseMillis(), "%s: prev close must equal open", iv)

		// Round trip lands back on the same bucket.
		assert.Equal(t, k.OpenMillis(), k.Next().Prev().OpenMillis(), "%s", iv)
		assert.Equal(t, k.OpenMillis(), k.Prev().Next().OpenMillis(), "%s", iv)
	}
}

func TestEqual(t *testing.T) {
	utc := mustNew(t, oct1, Interval1h)

	madrid, err := NewIn(oct1, Interval1h, TZ("Europe/Madrid"))
	require.NoError(t, err)
	// Same bucket, different display zone: still equal.
	assert.True(t, utc.Equal(madrid))
	assert.True(t, madrid.Equal(utc))

	// Different instants inside the same bucket identify the same bucket.
	sameBucket := mustNew(t, oct1+1234, Interval1h)
	assert.True(t, utc.Equal(sameBucket))

	// Same open, different interval: different bucket.
	daily := mustNew(t, oct1, Interval1d)
	assert.False(t, utc.Equal(daily))

	assert.False(t, utc.Equal(utc.Next()))
}

func TestCompare(t *testing.T) {
	a := mustNew(t, oct1, Interval1h)
	b := mustNew(t, oct1+3_600_000, Interval1h)

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.After(b))

	// Chosen tie-break for mixed intervals sharing an open: narrower width
	// sorts first. This order is pinned here, not inherited.
	hourly := mustNew(t, oct1, Interval1h)
	daily := mustNew(t, oct1, Interval1d)
	assert.Equal(t, -1, hourly.Compare(daily))
	assert.Equal(t, 1, daily.Compare(hourly))
	assert.False(t, hourly.Before(daily), "Before is open-only; tie-break lives in Compare")
}

func TestSort_MatchesInstantOrder(t *testing.T) {
	instants := []int64{oct1 + 7_200_000, oct1, oct1 + 3_600_000, oct1 - 3_600_000}
	ks := make([]KlineTimestamp, 0, len(instants))
	for _, ms := range instants {
		ks = append(ks, mustNew(t, ms, Interval1h))
	}

	sort.Slice(ks, func(i, j int) bool { return ks[i].Compare(ks[j]) < 0 })

	for i := 1; i < len(ks); i++ {
		assert.Less(t, ks[i-1].UnixMilli(), ks[i].UnixMilli())
		assert.Less(t, ks[i-1].OpenMillis(), ks[i].OpenMillis())
	}
}

func TestString(t *testing.T) {
	k, err := NewIn(oct1, Interval1h, TZ("Europe/Madrid"))
	require.NoError(t, err)
	assert.Equal(t, "KlineTimestamp(2021-10-01T02:00:00+02:00, interval=1h, tz=Europe/Madrid)", k.String())
}
