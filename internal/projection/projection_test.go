package projection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func days(n int) time.Time {
	return now.Add(time.Duration(n) * 24 * time.Hour)
}

func TestRequiredRate(t *testing.T) {
	tests := []struct {
		name      string
		remaining float64
		target    time.Time
		frequency string
		want      float64
	}{
		{"daily over 10 days", 100, days(10), "daily", 10},
		{"weekly over 10 days", 100, days(10), "weekly", 100 / (10.0 / 7.0)},
		{"monthly over 60 days", 300, days(60), "monthly", 150},
		{"deadline passed", 500, days(-1), "daily", 0},
		{"deadline is now", 500, now, "daily", 0},
		{"already funded", 0, days(10), "daily", 0},
		{"over funded", -25, days(10), "daily", 0},
		{"weekly inside one week floors divisor", 70, days(3), "weekly", 70},
		{"monthly inside one month floors divisor", 90, days(12), "monthly", 90},
		{"unknown frequency falls back to daily", 100, days(10), "yearly", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RequiredRate(tt.remaining, tt.target, tt.frequency, now)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestRequiredRateRoundsDaysUp(t *testing.T) {
	// 36 hours out is two calendar days, not one.
	target := now.Add(36 * time.Hour)
	assert.InDelta(t, 50, RequiredRate(100, target, "daily", now), 1e-9)
}

func TestProgressPercent(t *testing.T) {
	assert.InDelta(t, 50, ProgressPercent(50, 100), 1e-9)
	assert.InDelta(t, 0, ProgressPercent(0, 100), 1e-9)

	// Unclamped at the source: over-contribution exceeds 100.
	assert.InDelta(t, 120, ProgressPercent(120, 100), 1e-9)
}

func TestClampPercent(t *testing.T) {
	assert.Equal(t, 100.0, ClampPercent(120))
	assert.Equal(t, 0.0, ClampPercent(-5))
	assert.Equal(t, 42.5, ClampPercent(42.5))
}
