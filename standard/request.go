/*
Package standard implements the interest-bearing loan product.

PURPOSE:
  Pure calculators for the Standard loan: request metrics (rate, points,
  installment), interest due with monthly compounding, the payment
  allocation waterfall, and the effective end-date projection. All of them
  are deterministic functions of their inputs; persistence and lifecycle
  orchestration live elsewhere.

KEY CONCEPTS IN THIS FILE (request.go):
  - TotalRate: the loan's total interest rate in percentage points,
    MonthlyLendingRate x duration x 100
  - PointsNeeded: how many reward points the term requires; one point
    offsets PointsValuePerUnit of interest
  - ActualInterest: cash interest after the points offset
  - InstallmentAmount: the suggested monthly installment, rounded to the
    nearest thousand

SEE ALSO:
  - interest.go: Interest and points due over a running loan
  - payment.go: Payment allocation waterfall
  - projection.go: Effective end-date projection
*/
package standard

import (
	"github.com/shopspring/decimal"

	"github.com/commonfund/loan-engine/engine"
)

// Calculator bundles the rate configuration with the standard-loan
// calculations. Construct once at startup and share freely; it holds no
// mutable state.
type Calculator struct {
	Rates engine.Rates
}

func NewCalculator(rates engine.Rates) Calculator {
	return Calculator{Rates: rates}
}

// RequestMetrics is everything computed at loan-approval time.
type RequestMetrics struct {
	TotalRate         decimal.Decimal // percentage points over the full term
	PointsNeeded      decimal.Decimal
	PointsSpent       decimal.Decimal
	ActualInterest    decimal.Decimal
	InstallmentAmount decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// installmentQuantum is the rounding unit for suggested installments.
// It is a presentation convention, not a rate: it does not move with
// PointsValuePerUnit under a varied rate regime.
var installmentQuantum = decimal.NewFromInt(1000)

// RequestMetrics computes the rate, points consumption, net interest, and
// installment for a requested amount and term, given the borrower's
// current points balance.
func (c Calculator) RequestMetrics(amount decimal.Decimal, durationMonths int, borrowerPoints decimal.Decimal) (RequestMetrics, error) {
	if !amount.IsPositive() {
		return RequestMetrics{}, engine.NewInvalidInput("amount", "must be positive")
	}
	if durationMonths <= 0 {
		return RequestMetrics{}, engine.NewInvalidInput("duration_months", "must be positive")
	}
	if borrowerPoints.IsNegative() {
		return RequestMetrics{}, engine.NewInvalidInput("borrower_points", "must not be negative")
	}

	totalRate := c.Rates.MonthlyLendingRate.Mul(decimal.NewFromInt(int64(durationMonths))).Mul(hundred)

	pointsNeeded := c.loanPointsNeeded(amount, durationMonths, totalRate)
	pointsSpent := decimal.Min(pointsNeeded, borrowerPoints)

	actualInterest := totalRate.Mul(amount).Div(hundred).
		Sub(pointsSpent.Mul(c.Rates.PointsValuePerUnit))

	installment := amount.
		Div(installmentQuantum.Mul(decimal.NewFromInt(int64(durationMonths)))).
		Round(0).
		Mul(installmentQuantum)

	return RequestMetrics{
		TotalRate:         totalRate,
		PointsNeeded:      pointsNeeded,
		PointsSpent:       pointsSpent,
		ActualInterest:    engine.Money(actualInterest),
		InstallmentAmount: installment,
	}, nil
}

// loanPointsNeeded computes the points a term requires. One year's worth
// of rate (OneYearMonths percentage points) is points-free; below the
// 18-month threshold (a year plus the accrual deferral) the remainder of
// the rate is charged in points, above it the yearly allowance is charged
// in full plus the marginal monthly rate for every month past the
// threshold.
func (c Calculator) loanPointsNeeded(amount decimal.Decimal, durationMonths int, totalRate decimal.Decimal) decimal.Decimal {
	// Percentage points of the amount covered by a single reward point.
	perPoint := c.Rates.PointsValuePerUnit.Mul(hundred)

	yearRate := decimal.NewFromInt(int64(c.Rates.OneYearMonths))
	threshold := c.Rates.OneYearMonths + c.Rates.OneYearMonthThreshold

	if durationMonths < threshold {
		needed := decimal.Max(decimal.Zero, totalRate.Sub(yearRate)).Mul(amount).Div(perPoint)
		return needed
	}

	base := yearRate.Mul(amount).Div(perPoint)
	extraMonths := decimal.NewFromInt(int64(durationMonths - threshold))
	extra := extraMonths.Mul(c.Rates.MonthlyLendingRate).Mul(amount).Div(perPoint)
	return base.Add(extra)
}
