// Package shiftclock computes elapsed work duration and billing shift counts
// from full shift timestamps. All functions are pure: the same inputs always
// produce the same outputs.
package shiftclock

import (
	"errors"
	"math"
	"time"
)

var (
	// ErrMissingTimestamp is returned when either bound is the zero time.
	ErrMissingTimestamp = errors.New("shiftclock: start and end are required")
	// ErrEndBeforeStart is returned when end precedes start.
	ErrEndBeforeStart = errors.New("shiftclock: end precedes start")
)

// Policy configures the derived-field rules.
type Policy struct {
	// WorkHoursCap bounds stored work hours so a forgotten checkout cannot
	// produce runaway values.
	WorkHoursCap float64
	// ShiftUnit is the billing unit a shift's duration rounds up to.
	ShiftUnit time.Duration
}

// DefaultPolicy returns the standard policy: hours capped at 8.0, billed in
// 12-hour units.
func DefaultPolicy() Policy {
	return Policy{
		WorkHoursCap: 8.0,
		ShiftUnit:    12 * time.Hour,
	}
}

// Result holds the derived fields for a completed shift.
type Result struct {
	// RawHours is the uncapped elapsed duration in hours.
	RawHours float64
	// WorkHours is RawHours bounded by the policy cap, rounded to two
	// decimal places as stored.
	WorkHours float64
	// ShiftCount is the number of billing units the duration rounds up to,
	// never less than one.
	ShiftCount int
}

// Compute derives work hours and shift count from full timestamps.
//
// Subtraction always uses the complete date+time values, so a shift crossing
// midnight yields its true elapsed duration; time-of-day arithmetic is never
// used.
func Compute(start, end time.Time, policy Policy) (Result, error) {
	if start.IsZero() || end.IsZero() {
		return Result{}, ErrMissingTimestamp
	}
	if end.Before(start) {
		return Result{}, ErrEndBeforeStart
	}
	if policy.WorkHoursCap <= 0 {
		policy.WorkHoursCap = DefaultPolicy().WorkHoursCap
	}
	if policy.ShiftUnit <= 0 {
		policy.ShiftUnit = DefaultPolicy().ShiftUnit
	}

	raw := end.Sub(start)
	rawHours := raw.Hours()

	workHours := rawHours
	if workHours > policy.WorkHoursCap {
		workHours = policy.WorkHoursCap
	}
	workHours = math.Round(workHours*100) / 100

	count := int(math.Ceil(raw.Seconds() / policy.ShiftUnit.Seconds()))
	if count < 1 {
		count = 1
	}

	return Result{
		RawHours:   rawHours,
		WorkHours:  workHours,
		ShiftCount: count,
	}, nil
}
