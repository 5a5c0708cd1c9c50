package engine_test

import (
	"testing"
	"time"

	"github.com/commonfund/loan-engine/engine"
)

func date(year int, month time.Month, day int) engine.DayPoint {
	return engine.NewDayPoint(year, month, day)
}

func TestTotalMonthsDue_BoundaryTable(t *testing.T) {
	// GIVEN: the default 30-day month with a 7-day grace window
	// THEN: the literal boundary table holds
	rates := engine.DefaultRates()

	cases := []struct {
		days   int
		months int
	}{
		{0, 0},
		{1, 1},
		{7, 1},
		{8, 1},
		{30, 1},
		{37, 1},
		{38, 2},
		{60, 2},
		{67, 2},
		{68, 3},
		{365, 12},
		{730, 25},
	}

	for _, tc := range cases {
		got, err := engine.TotalMonthsDueDays(rates, tc.days)
		if err != nil {
			t.Fatalf("day %d: unexpected error: %v", tc.days, err)
		}
		if got != tc.months {
			t.Errorf("day %d: expected %d months, got %d", tc.days, tc.months, got)
		}
	}
}

func TestTotalMonthsDue_Monotonic(t *testing.T) {
	rates := engine.DefaultRates()

	prev := 0
	for d := 0; d <= 1100; d++ {
		got, err := engine.TotalMonthsDueDays(rates, d)
		if err != nil {
			t.Fatalf("day %d: unexpected error: %v", d, err)
		}
		if got < prev {
			t.Fatalf("day %d: months decreased from %d to %d", d, prev, got)
		}
		prev = got
	}
}

func TestTotalMonthsDue_EndBeforeStart(t *testing.T) {
	// GIVEN: an end date before the start date
	// THEN: the engine rejects the input rather than returning a count
	rates := engine.DefaultRates()

	_, err := engine.TotalMonthsDue(rates, date(2025, time.March, 10), date(2025, time.March, 1))
	if !engine.IsInvalidInput(err) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestTotalMonthsDue_FromDates(t *testing.T) {
	rates := engine.DefaultRates()

	// 2025-01-01 -> 2026-01-01 is 365 days -> 12 months
	got, err := engine.TotalMonthsDue(rates, date(2025, time.January, 1), date(2026, time.January, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 12 {
		t.Errorf("expected 12 months over a year, got %d", got)
	}
}

func TestPointMonthsAccrued_FixtureTable(t *testing.T) {
	// GIVEN: accrual deferred for the first 6 months of each loan year
	// THEN: the fixture table holds exactly
	rates := engine.DefaultRates()

	cases := []struct {
		days   int
		months int
	}{
		{-30, 0},
		{0, 0},
		{180, 0},
		{181, 0},
		{270, 3},
		{360, 6},
		{450, 6},
		{600, 8},
		{720, 12},
		{1080, 18},
	}

	for _, tc := range cases {
		if got := engine.PointMonthsAccruedDays(rates, tc.days); got != tc.months {
			t.Errorf("day %d: expected %d point-months, got %d", tc.days, tc.months, got)
		}
	}
}

func TestPointMonthsAccrued_HalfPointPerMonthOverWholeYears(t *testing.T) {
	// Over whole years the accrual averages exactly 0.5 point-month per
	// elapsed month.
	rates := engine.DefaultRates()

	for years := 1; years <= 5; years++ {
		days := years * 12 * rates.OneMonthDays
		want := years * 6
		if got := engine.PointMonthsAccruedDays(rates, days); got != want {
			t.Errorf("%d years: expected %d point-months, got %d", years, want, got)
		}
	}
}

func TestDaysBetween(t *testing.T) {
	from := date(2025, time.January, 1)

	if d := engine.DaysBetween(from, date(2025, time.January, 31)); d != 30 {
		t.Errorf("expected 30 days, got %d", d)
	}
	if d := engine.DaysBetween(from, date(2026, time.January, 1)); d != 365 {
		t.Errorf("expected 365 days, got %d", d)
	}
	if d := engine.DaysBetween(from, date(2024, time.December, 31)); d != -1 {
		t.Errorf("expected -1 day, got %d", d)
	}

	// Sub-day components are ignored.
	noon := engine.DayPointOf(time.Date(2025, time.January, 2, 13, 45, 0, 0, time.UTC))
	if d := engine.DaysBetween(from, noon); d != 1 {
		t.Errorf("expected 1 day ignoring time of day, got %d", d)
	}
}
