/*
payment.go - Payment allocation waterfall

PURPOSE:
  Splits an incoming payment across due interest and outstanding
  principal. Interest is always served first; anything beyond interest
  plus principal is excess the caller must return or bank.

SHORTFALL SIGNAL:
  When the payment does not even cover the interest due, PrincipalPaid
  comes back NEGATIVE (payment - interestDue). That is a business signal,
  not a bug: the caller decides whether to reject the payment or record
  the deficit. This function never clamps it.
*/
package standard

import (
	"github.com/shopspring/decimal"

	"github.com/commonfund/loan-engine/engine"
)

// AllocatePayment splits a payment across interest due and principal.
func (c Calculator) AllocatePayment(payment, interestDue, principalLeft decimal.Decimal) (engine.Allocation, error) {
	if payment.IsNegative() {
		return engine.Allocation{}, engine.NewInvalidInput("payment", "must not be negative")
	}
	if interestDue.IsNegative() {
		return engine.Allocation{}, engine.NewInvalidInput("interest_due", "must not be negative")
	}
	if principalLeft.IsNegative() {
		return engine.Allocation{}, engine.NewInvalidInput("principal_left", "must not be negative")
	}

	interestPaid := decimal.Min(payment, interestDue)

	owed := interestDue.Add(principalLeft)
	if payment.GreaterThan(owed) {
		return engine.Allocation{
			InterestPaid:  interestPaid,
			PrincipalPaid: principalLeft,
			ExcessAmount:  payment.Sub(owed),
		}, nil
	}

	// May be negative: the interest-shortfall signal.
	return engine.Allocation{
		InterestPaid:  interestPaid,
		PrincipalPaid: payment.Sub(interestDue),
		ExcessAmount:  decimal.Zero,
	}, nil
}
