/*
interest.go - Interest and points due over a running loan

PURPOSE:
  Computes how much interest a loan owes at a target date and how that
  splits between the points-covered portion and the cash remainder.

COMPOUNDING:
  Interest compounds monthly: amount x ((1 + rate)^months - 1), where
  months comes from the grace-window month count. A loan owes at least
  one month of interest even on day zero.

POINTS SPLIT:
  The points-covered portion is bounded three ways:
    1. never more than the total interest due
    2. never more than the member's points balance is worth
    3. never more than the point-month entitlement earned since the last
       payment (one month's simple interest per point-month due)
  The cash portion is whatever remains.
*/
package standard

import (
	"github.com/shopspring/decimal"

	"github.com/commonfund/loan-engine/engine"
)

var one = decimal.NewFromInt(1)

// TotalInterestDue computes the interest owed on the full principal
// between the loan start and the due date, compounding monthly.
// Monotonic non-decreasing in the elapsed days.
func (c Calculator) TotalInterestDue(amount decimal.Decimal, startDate, dueDate engine.DayPoint) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, engine.NewInvalidInput("amount", "must be positive")
	}

	months, err := engine.TotalMonthsDue(c.Rates, startDate, dueDate)
	if err != nil {
		return decimal.Zero, err
	}
	if months < 1 {
		// Minimum charge of one month, even on the start day.
		months = 1
	}

	factor := one.Add(c.Rates.MonthlyLendingRate).Pow(decimal.NewFromInt(int64(months))).Sub(one)
	return engine.Money(amount.Mul(factor)), nil
}

// PointsMonthsDue is the point-month entitlement accumulated between the
// last payment and the current due date. Never negative, even when the
// cleared span exceeds the total span.
func (c Calculator) PointsMonthsDue(loanStartDate, lastPaymentDate, currentDueDate engine.DayPoint) int {
	total := engine.PointMonthsAccrued(c.Rates, loanStartDate, currentDueDate)
	cleared := 0
	if !lastPaymentDate.IsZero() {
		cleared = engine.PointMonthsAccrued(c.Rates, loanStartDate, lastPaymentDate)
	}
	if cleared >= total {
		return 0
	}
	return total - cleared
}

// PointsInterestDue is the portion of the total interest due that points
// may cover.
func (c Calculator) PointsInterestDue(totalInterestDue, availablePoints decimal.Decimal, pointsMonthsDue int, amount decimal.Decimal) decimal.Decimal {
	if totalInterestDue.LessThanOrEqual(decimal.Zero) || pointsMonthsDue <= 0 {
		return decimal.Zero
	}

	byBalance := decimal.Max(decimal.Zero, availablePoints).Mul(c.Rates.PointsValuePerUnit)
	byEntitlement := amount.Mul(c.Rates.MonthlyLendingRate).Mul(decimal.NewFromInt(int64(pointsMonthsDue)))

	return engine.Money(decimal.Min(totalInterestDue, byBalance, byEntitlement))
}

// CashInterestDue is the remainder of the total interest due after the
// points-covered portion.
func (c Calculator) CashInterestDue(totalInterestDue, pointsInterestDue decimal.Decimal) decimal.Decimal {
	return engine.Money(totalInterestDue.Sub(pointsInterestDue))
}

// PointsConsumed converts a points-covered interest amount back into
// points. Negative inputs yield negative points; due amounts must be
// guarded upstream.
func (c Calculator) PointsConsumed(pointsInterestDueAmount decimal.Decimal) decimal.Decimal {
	return pointsInterestDueAmount.Div(c.Rates.PointsValuePerUnit)
}
