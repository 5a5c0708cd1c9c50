/*
Package interestfree implements the Interest-Free loan product.

PURPOSE:
  The interest-free product carries no interest and consumes no points:
  eligibility comes straight from the borrowing-limit engine, payments
  decrement principal only, and overdue status is a pure elapsed-day
  comparison against the agreed period.

SEE ALSO:
  - engine/limit.go: The shared limit computation
  - standard: The interest-bearing counterpart
*/
package interestfree

import (
	"github.com/shopspring/decimal"

	"github.com/commonfund/loan-engine/engine"
)

// Calculator bundles the rate configuration with the interest-free
// calculations. Only the day/month constants and the multiplier rule are
// consulted; the lending rate and point values never apply here.
type Calculator struct {
	Rates engine.Rates
}

func NewCalculator(rates engine.Rates) Calculator {
	return Calculator{Rates: rates}
}

// EligibilityResult reports whether a requested interest-free loan fits
// inside the member's borrowing limit.
type EligibilityResult struct {
	Eligible        bool
	Limit           decimal.Decimal
	RequestedAmount decimal.Decimal
}

// Eligibility applies the shared limit engine with no rate or points
// calculation on top.
func (c Calculator) Eligibility(member engine.Member, ongoingDebts []engine.Loan, interestPaid, requestedAmount decimal.Decimal, requestedPeriodMonths int) (EligibilityResult, error) {
	if !requestedAmount.IsPositive() {
		return EligibilityResult{}, engine.NewInvalidInput("requested_amount", "must be positive")
	}
	if requestedPeriodMonths <= 0 {
		return EligibilityResult{}, engine.NewInvalidInput("requested_period", "must be positive")
	}

	limit := engine.LoanLimit(c.Rates, member, ongoingDebts, interestPaid)
	return EligibilityResult{
		Eligible:        requestedAmount.LessThanOrEqual(limit),
		Limit:           limit,
		RequestedAmount: requestedAmount,
	}, nil
}

// AllocatePayment applies a payment against principal only. There is no
// interest leg, so anything beyond the remaining principal is excess.
func (c Calculator) AllocatePayment(payment, principalLeft decimal.Decimal) (engine.Allocation, error) {
	if payment.IsNegative() {
		return engine.Allocation{}, engine.NewInvalidInput("payment", "must not be negative")
	}
	if principalLeft.IsNegative() {
		return engine.Allocation{}, engine.NewInvalidInput("principal_left", "must not be negative")
	}

	principalPaid := decimal.Min(payment, principalLeft)
	return engine.Allocation{
		InterestPaid:  decimal.Zero,
		PrincipalPaid: principalPaid,
		ExcessAmount:  payment.Sub(principalPaid),
	}, nil
}

// PrincipalLeftAfter is the principal remaining once a payment is applied.
func (c Calculator) PrincipalLeftAfter(principalLeft, payment decimal.Decimal) (decimal.Decimal, error) {
	alloc, err := c.AllocatePayment(payment, principalLeft)
	if err != nil {
		return decimal.Zero, err
	}
	return principalLeft.Sub(alloc.PrincipalPaid), nil
}

// OverdueMetrics flags a loan that has outlived its agreed period.
type OverdueMetrics struct {
	Overdue       bool
	AgreedEndDate engine.DayPoint
	DaysOverdue   int
	MonthsOverdue int
}

// OverdueMetrics compares elapsed days against the agreed period. A loan
// is overdue once it has outstanding principal past the agreed end date;
// the overdue span converts to months with the same grace-window rule as
// billing months.
func (c Calculator) OverdueMetrics(loan engine.Loan, asOf engine.DayPoint) (OverdueMetrics, error) {
	if loan.DurationMonths <= 0 {
		return OverdueMetrics{}, engine.NewInvalidInput("loan.duration_months", "must be positive")
	}
	elapsed := engine.DaysBetween(loan.StartDate, asOf)
	if elapsed < 0 {
		return OverdueMetrics{}, engine.NewInvalidInput("as_of", "precedes loan start date")
	}

	agreedDays := loan.DurationMonths * c.Rates.OneMonthDays
	metrics := OverdueMetrics{
		AgreedEndDate: loan.StartDate.AddDays(agreedDays),
	}

	over := elapsed - agreedDays
	if over <= 0 || !loan.PrincipalLeft.IsPositive() {
		return metrics, nil
	}

	months, err := engine.TotalMonthsDueDays(c.Rates, over)
	if err != nil {
		return OverdueMetrics{}, err
	}

	metrics.Overdue = true
	metrics.DaysOverdue = over
	metrics.MonthsOverdue = months
	return metrics, nil
}
