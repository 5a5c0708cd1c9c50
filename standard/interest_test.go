package standard_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/commonfund/loan-engine/engine"
)

func TestTotalInterestDue_OneYearCompounds(t *testing.T) {
	// GIVEN: 100000 outstanding for 365 days at 2%/month
	// THEN: 12 compounding periods: 100000 x (1.02^12 - 1)
	calc := newCalc()

	due, err := calc.TotalInterestDue(dec("100000"), date(2025, time.January, 1), date(2026, time.January, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDecimal(t, "26824.18", due, "interest due after a year")
}

func TestTotalInterestDue_MinimumOneMonth(t *testing.T) {
	// Same-day due date still owes one month of interest.
	calc := newCalc()

	start := date(2025, time.March, 1)
	due, err := calc.TotalInterestDue(dec("100000"), start, start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDecimal(t, "2000", due, "minimum charge")
}

func TestTotalInterestDue_MonotonicInElapsedDays(t *testing.T) {
	calc := newCalc()
	start := date(2025, time.January, 1)

	prev := decimal.Zero
	for d := 0; d <= 400; d += 5 {
		due, err := calc.TotalInterestDue(dec("50000"), start, start.AddDays(d))
		if err != nil {
			t.Fatalf("day %d: unexpected error: %v", d, err)
		}
		if due.LessThan(prev) {
			t.Fatalf("day %d: interest due decreased from %s to %s", d, prev, due)
		}
		prev = due
	}
}

func TestTotalInterestDue_EndBeforeStart(t *testing.T) {
	calc := newCalc()

	_, err := calc.TotalInterestDue(dec("1000"), date(2025, time.March, 10), date(2025, time.March, 1))
	if !engine.IsInvalidInput(err) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestPointsMonthsDue(t *testing.T) {
	calc := newCalc()
	start := date(2024, time.January, 1)

	// 720 days in: 12 point-months accrued; 360 days were cleared at the
	// last payment (6 point-months). 6 remain due.
	got := calc.PointsMonthsDue(start, start.AddDays(360), start.AddDays(720))
	if got != 6 {
		t.Errorf("expected 6 point-months due, got %d", got)
	}

	// No payment yet: the full accrual is due.
	got = calc.PointsMonthsDue(start, engine.DayPoint{}, start.AddDays(720))
	if got != 12 {
		t.Errorf("expected 12 point-months due, got %d", got)
	}
}

func TestPointsMonthsDue_NeverNegative(t *testing.T) {
	// Cleared span exceeding the total span must yield 0, not a negative.
	calc := newCalc()
	start := date(2024, time.January, 1)

	got := calc.PointsMonthsDue(start, start.AddDays(720), start.AddDays(360))
	if got != 0 {
		t.Errorf("expected 0 when cleared exceeds total, got %d", got)
	}

	// Due date before the loan even started.
	got = calc.PointsMonthsDue(start, start.AddDays(30), start.AddDays(-10))
	if got != 0 {
		t.Errorf("expected 0 for a negative total, got %d", got)
	}
}

func TestPointsInterestDue_Bounds(t *testing.T) {
	calc := newCalc()
	amount := dec("100000")

	// Entitlement bound: 3 point-months x one month's simple interest.
	got := calc.PointsInterestDue(dec("50000"), dec("100"), 3, amount)
	assertDecimal(t, "6000", got, "entitlement-bounded")

	// Points-balance bound: 2 points are worth 2000.
	got = calc.PointsInterestDue(dec("50000"), dec("2"), 3, amount)
	assertDecimal(t, "2000", got, "balance-bounded")

	// Total-due bound.
	got = calc.PointsInterestDue(dec("1500"), dec("100"), 3, amount)
	assertDecimal(t, "1500", got, "due-bounded")

	// Nothing due or nothing accrued: zero.
	got = calc.PointsInterestDue(decimal.Zero, dec("100"), 3, amount)
	assertDecimal(t, "0", got, "nothing due")
	got = calc.PointsInterestDue(dec("50000"), dec("100"), 0, amount)
	assertDecimal(t, "0", got, "nothing accrued")
}

func TestCashInterestDue(t *testing.T) {
	calc := newCalc()

	got := calc.CashInterestDue(dec("26824.18"), dec("6000"))
	assertDecimal(t, "20824.18", got, "cash remainder")
}

func TestPointsConsumed(t *testing.T) {
	calc := newCalc()

	assertDecimal(t, "6", calc.PointsConsumed(dec("6000")), "points consumed")

	// Negative due amounts pass through as negative points; the guard
	// belongs upstream.
	assertDecimal(t, "-1", calc.PointsConsumed(dec("-1000")), "negative passthrough")
}
