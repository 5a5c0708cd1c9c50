/*
limit.go - Borrowing-limit computation

PURPOSE:
  A member may borrow a multiple of their savings, reduced by whatever
  they still owe. The multiple rewards members whose lifetime interest
  paid is small relative to their savings: a low interest-to-savings
  ratio earns the maximum multiplier, a high ratio the minimum, with
  linear interpolation in between.

CLAMPS:
  interestPaid <= 0            -> MaxMultiplier (nothing held against them)
  currentSavings <= 0          -> MinMultiplier (ratio driven to worst case)
  ratio <= MinInterestRatio    -> MaxMultiplier
  ratio >= MaxInterestRatio    -> MinMultiplier
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// LimitMultiplier maps a member's lifetime interest paid and current
// savings onto the borrowing-limit multiplier.
func LimitMultiplier(rates Rates, interestPaid, currentSavings decimal.Decimal) decimal.Decimal {
	rule := rates.Multiplier

	if interestPaid.LessThanOrEqual(decimal.Zero) {
		return rule.MaxMultiplier
	}
	if currentSavings.LessThanOrEqual(decimal.Zero) {
		// No savings drives the ratio to the worst case.
		return rule.MinMultiplier
	}

	ratio := interestPaid.Div(currentSavings)
	if ratio.LessThanOrEqual(rule.MinInterestRatio) {
		return rule.MaxMultiplier
	}
	if ratio.GreaterThanOrEqual(rule.MaxInterestRatio) {
		return rule.MinMultiplier
	}

	span := rule.MaxInterestRatio.Sub(rule.MinInterestRatio)
	drop := rule.MaxMultiplier.Sub(rule.MinMultiplier)
	return rule.MaxMultiplier.Sub(ratio.Sub(rule.MinInterestRatio).Mul(drop).Div(span))
}

// LoanLimit computes the maximum amount a member may borrow right now:
// savings times the limit multiplier, minus the principal still owed on
// every ongoing debt. A member with no savings has no limit.
func LoanLimit(rates Rates, member Member, ongoingDebts []Loan, interestPaid decimal.Decimal) decimal.Decimal {
	if member.InvestmentAmount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	multiplier := LimitMultiplier(rates, interestPaid, member.InvestmentAmount)
	limit := member.InvestmentAmount.Mul(multiplier)
	for _, debt := range ongoingDebts {
		limit = limit.Sub(debt.PrincipalLeft)
	}
	return Money(limit)
}
