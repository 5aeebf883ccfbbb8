package shiftclock

import (
	"errors"
	"testing"
	"time"
)

func baseTime() time.Time {
	return time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)
}

func TestCompute_CapsWorkHours(t *testing.T) {
	t.Parallel()

	start := baseTime()
	end := start.Add(10 * time.Hour)

	result, err := Compute(start, end, DefaultPolicy())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.WorkHours != 8.0 {
		t.Fatalf("expected work hours capped at 8.0, got %v", result.WorkHours)
	}
	if result.RawHours != 10.0 {
		t.Fatalf("expected raw hours 10.0, got %v", result.RawHours)
	}
}

func TestCompute_RoundsToTwoDecimals(t *testing.T) {
	t.Parallel()

	start := baseTime()
	end := start.Add(7*time.Hour + 20*time.Minute)

	result, err := Compute(start, end, DefaultPolicy())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.WorkHours != 7.33 {
		t.Fatalf("expected 7.33 work hours, got %v", result.WorkHours)
	}
}

func TestCompute_ShiftCountRoundsUp(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		elapsed  time.Duration
		expected int
	}{
		{"zero duration counts one shift", 0, 1},
		{"under one unit counts one shift", 8 * time.Hour, 1},
		{"exactly one unit counts one shift", 12 * time.Hour, 1},
		{"just over one unit counts two shifts", 12*time.Hour + time.Second, 2},
		{"two full units count two shifts", 24 * time.Hour, 2},
		{"multi day span counts each started unit", 30 * time.Hour, 3},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			result, err := Compute(baseTime(), baseTime().Add(tc.elapsed), DefaultPolicy())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.ShiftCount != tc.expected {
				t.Fatalf("expected %d shifts for %v, got %d", tc.expected, tc.elapsed, result.ShiftCount)
			}
		})
	}
}

func TestCompute_UsesFullTimestamps(t *testing.T) {
	t.Parallel()

	// 22:00 to 06:00 the next day is eight hours even though the end's
	// time of day is earlier than the start's.
	start := time.Date(2024, 3, 14, 22, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 15, 6, 0, 0, 0, time.UTC)

	result, err := Compute(start, end, DefaultPolicy())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.RawHours != 8.0 {
		t.Fatalf("expected 8.0 raw hours for an overnight shift, got %v", result.RawHours)
	}
	if result.WorkHours != 8.0 {
		t.Fatalf("expected 8.0 work hours for an overnight shift, got %v", result.WorkHours)
	}
}

func TestCompute_RejectsEndBeforeStart(t *testing.T) {
	t.Parallel()

	start := baseTime()
	end := start.Add(-time.Minute)

	_, err := Compute(start, end, DefaultPolicy())
	if !errors.Is(err, ErrEndBeforeStart) {
		t.Fatalf("expected ErrEndBeforeStart, got %v", err)
	}
}

func TestCompute_RejectsZeroTimestamps(t *testing.T) {
	t.Parallel()

	if _, err := Compute(time.Time{}, baseTime(), DefaultPolicy()); !errors.Is(err, ErrMissingTimestamp) {
		t.Fatalf("expected ErrMissingTimestamp for zero start, got %v", err)
	}
	if _, err := Compute(baseTime(), time.Time{}, DefaultPolicy()); !errors.Is(err, ErrMissingTimestamp) {
		t.Fatalf("expected ErrMissingTimestamp for zero end, got %v", err)
	}
}

func TestCompute_CustomPolicy(t *testing.T) {
	t.Parallel()

	policy := Policy{WorkHoursCap: 6.0, ShiftUnit: 8 * time.Hour}
	start := baseTime()
	end := start.Add(9 * time.Hour)

	result, err := Compute(start, end, policy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.WorkHours != 6.0 {
		t.Fatalf("expected work hours capped at 6.0, got %v", result.WorkHours)
	}
	if result.ShiftCount != 2 {
		t.Fatalf("expected 2 shifts with an 8h unit, got %d", result.ShiftCount)
	}
}

func TestCompute_DefaultsInvalidPolicy(t *testing.T) {
	t.Parallel()

	start := baseTime()
	end := start.Add(9 * time.Hour)

	result, err := Compute(start, end, Policy{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.WorkHours != 8.0 {
		t.Fatalf("expected default 8.0 cap, got %v", result.WorkHours)
	}
	if result.ShiftCount != 1 {
		t.Fatalf("expected default 12h unit to yield 1 shift, got %d", result.ShiftCount)
	}
}
