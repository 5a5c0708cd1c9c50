/*
projection.go - Effective end-date projection

PURPOSE:
  Estimates the calendar date at which a loan reaches zero principal.
  The loan's Units accumulator records principal x elapsed-days as
  payments come in, so units / amount is the loan's duration in
  "full-principal days".

ENDED LOANS:
  The duration is fully determined: round(units / amount) days after the
  start date.

ONGOING LOANS:
  Project the accumulator forward at the current repayment velocity: the
  days since the last payment, still carrying today's remaining
  principal, are added to the accumulator before dividing. A loan with
  no accumulated units projects to its own start date.
*/
package standard

import (
	"github.com/shopspring/decimal"

	"github.com/commonfund/loan-engine/engine"
)

// EffectiveEndDate estimates when the loan is (or was) fully repaid.
// Only Ended and Ongoing loans have an effective end date.
func (c Calculator) EffectiveEndDate(loan engine.Loan, asOf engine.DayPoint) (engine.DayPoint, error) {
	if !loan.Amount.IsPositive() {
		return engine.DayPoint{}, engine.NewInvalidInput("loan.amount", "must be positive")
	}

	switch loan.Status {
	case engine.StatusEnded:
		return endDateFromUnits(loan.StartDate, loan.Units, loan.Amount), nil

	case engine.StatusOngoing:
		last := loan.LastPaymentDate
		if last.IsZero() {
			last = loan.StartDate
		}
		daysSince := engine.DaysBetween(last, asOf)
		if daysSince < 0 {
			daysSince = 0
		}

		projected := loan.Units.Add(loan.PrincipalLeft.Mul(decimal.NewFromInt(int64(daysSince))))
		if projected.IsZero() {
			return loan.StartDate, nil
		}
		return endDateFromUnits(loan.StartDate, projected, loan.Amount), nil

	default:
		return engine.DayPoint{}, engine.NewInvalidInput("loan.status", "has no effective end date")
	}
}

func endDateFromUnits(start engine.DayPoint, units, amount decimal.Decimal) engine.DayPoint {
	durationDays := int(units.Div(amount).Round(0).IntPart())
	return start.AddDays(durationDays)
}
