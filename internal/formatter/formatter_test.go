package formatter

import (
	"strings"
	"testing"
)

func TestFormatBytes(t *testing.T) {
	tc := []struct {
		name string
		n    int64
		want string
	}{
		{name: "zero", n: 0, want: "0 B"},
		{name: "one byte", n: 1, want: "1 B"},
		{name: "below unit boundary", n: 1023, want: "1023 B"},
		{name: "at unit boundary", n: 1024, want: "1 KB"},
		{name: "fractional kilobytes", n: 1536, want: "1.5 KB"},
		{name: "megabytes", n: 5 * 1024 * 1024, want: "5 MB"},
		{name: "fractional megabytes", n: 8*1024*1024 + 512*1024, want: "8.5 MB"},
		{name: "gigabytes", n: 2 * 1024 * 1024 * 1024, want: "2 GB"},
		{name: "beyond last unit stays in GB", n: 3 * 1024 * 1024 * 1024 * 1024, want: "3072 GB"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatBytes(tt.n)
			if got != tt.want {
				t.Errorf("FormatBytes(%d) = %q, want %q", tt.n, got, tt.want)
			}
		})
	}

	t.Run("unit suffixes", func(t *testing.T) {
		if !strings.HasSuffix(FormatBytes(1023), "B") {
			t.Errorf("FormatBytes(1023) should end in B, got %q", FormatBytes(1023))
		}
		if !strings.HasSuffix(FormatBytes(1024), "KB") {
			t.Errorf("FormatBytes(1024) should end in KB, got %q", FormatBytes(1024))
		}
	})
}

func TestFormatRate(t *testing.T) {
	tc := []struct {
		name string
		bps  float64
		want string
	}{
		{name: "bytes per second", bps: 512, want: "512 B/s"},
		{name: "kilobytes per second", bps: 2048, want: "2 KB/s"},
		{name: "fractional truncated to whole bytes", bps: 1023.9, want: "1023 B/s"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatRate(tt.bps)
			if got != tt.want {
				t.Errorf("FormatRate(%v) = %q, want %q", tt.bps, got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tc := []struct {
		name    string
		seconds int64
		want    string
	}{
		{name: "zero", seconds: 0, want: "0s"},
		{name: "below minute boundary", seconds: 59, want: "59s"},
		{name: "at minute boundary", seconds: 60, want: "1m 0s"},
		{name: "just past minute boundary", seconds: 61, want: "1m 1s"},
		{name: "minutes and seconds", seconds: 754, want: "12m 34s"},
		{name: "below hour boundary", seconds: 3599, want: "59m 59s"},
		{name: "at hour boundary", seconds: 3600, want: "1h 0m"},
		{name: "just past hour boundary", seconds: 3601, want: "1h 0m"},
		{name: "hours and minutes", seconds: 5400, want: "1h 30m"},
		{name: "negative clamps to zero", seconds: -5, want: "0s"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDuration(tt.seconds)
			if got != tt.want {
				t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}
