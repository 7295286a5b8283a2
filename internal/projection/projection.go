// Package projection computes savings projections for goals: the per-period
// amount needed to reach a target by its deadline, and progress percentages.
// All functions are pure; callers are expected to pass pre-validated input
// (a zero target amount is rejected upstream, in the goal service).
package projection

import (
	"math"
	"time"
)

const day = 24 * time.Hour

// RequiredRate returns the amount that must be saved per period (daily, weekly
// or monthly) to cover remaining by targetDate, evaluated at now.
//
// The day count is calendar time rounded up, not business days. Weekly and
// monthly divisors use fixed 7- and 30-day approximations and are floored at 1
// so a target inside a single period still yields the full remaining amount.
// A deadline in the past returns 0; labeling that "overdue" is the caller's
// concern. A fully funded goal also returns 0.
func RequiredRate(remaining float64, targetDate time.Time, frequency string, now time.Time) float64 {
	diffDays := int(math.Ceil(targetDate.Sub(now).Hours() / 24))
	if diffDays <= 0 {
		return 0
	}
	if remaining <= 0 {
		return 0
	}

	divisor := float64(diffDays)
	switch frequency {
	case "weekly":
		divisor = float64(diffDays) / 7
	case "monthly":
		divisor = float64(diffDays) / 30
	}

	return remaining / math.Max(1, divisor)
}

// ProgressPercent returns 100 * current / target, unclamped: over-contributed
// goals report more than 100. Callers rendering a bar must clamp explicitly.
func ProgressPercent(current, target float64) float64 {
	return 100 * current / target
}

// ClampPercent bounds a raw progress percentage to [0, 100] for presentation.
func ClampPercent(percent float64) float64 {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}
