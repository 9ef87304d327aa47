package klinetime

import (
	"errors"
	"testing"
	"time"
)

func TestParseInterval(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        Interval
		wantErr     bool
		wantErrKind error
	}{
		{name: "minute", input: "1m", want: Interval1m},
		{name: "hour", input: "1h", want: Interval1h},
		{name: "week", input: "1w", want: Interval1w},
		{name: "surrounding whitespace", input: " 4h ", want: Interval4h},
		{name: "unsupported seven minutes", input: "7m", wantErr: true, wantErrKind: ErrInvalidInterval},
		{name: "calendar month", input: "1M", wantErr: true, wantErrKind: ErrInvalidInterval},
		{name: "empty", input: "", wantErr: true, wantErrKind: ErrInvalidInterval},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInterval(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got none", tt.input)
				}
				if !errors.Is(err, tt.wantErrKind) {
					t.Errorf("expected error kind %v, got %v", tt.wantErrKind, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestInterval_WidthMillis(t *testing.T) {
	tests := []struct {
		interval Interval
		want     int64
	}{
		{Interval1m, 60_000},
		{Interval3m, 180_000},
		{Interval30m, 1_800_000},
		{Interval1h, 3_600_000},
		{Interval12h, 43_200_000},
		{Interval1d, 86_400_000},
		{Interval3d, 259_200_000},
		{Interval1w, 604_800_000},
	}

	for _, tt := range tests {
		if got := tt.interval.WidthMillis(); got != tt.want {
			t.Errorf("%s: expected width %d, got %d", tt.interval, tt.want, got)
		}
		if got := tt.interval.Duration(); got != time.Duration(tt.want)*time.Millisecond {
			t.Errorf("%s: Duration disagrees with WidthMillis: %v", tt.interval, got)
		}
	}
}

func TestSupported_OrderedByWidth(t *testing.T) {
	supported := Supported()
	if len(supported) != 14 {
		t.Fatalf("expected 14 supported intervals, got %d", len(supported))
	}
	for i := 1; i < len(supported); i++ {
		if supported[i-1].WidthMillis() >= supported[i].WidthMillis() {
			t.Errorf("supported list not strictly ordered by width at %d: %v", i, supported)
		}
	}
	if supported[0] != Interval1m || supported[len(supported)-1] != Interval1w {
		t.Errorf("expected 1m first and 1w last, got %v", supported)
	}
}
