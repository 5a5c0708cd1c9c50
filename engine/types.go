/*
Package engine provides the core loan financial-calculation primitives.

PURPOSE:
  This package contains the value types and domain-agnostic math shared by
  both loan products: calendar-day arithmetic, month counting with grace
  periods, point-month accrual, and the borrowing-limit computation.

KEY CONCEPTS IN THIS FILE (types.go):
  - Member: savings balance plus the points reward balance
  - Loan: a single loan's financial state (principal, units, points spent)
  - Payment/Allocation: an incoming payment and how it was split
  - Money: canonical 2-decimal money rounding

DESIGN PRINCIPLES:
  1. Purity: every function is a deterministic transformation of its inputs;
     no I/O, no ambient state, no clock reads
  2. Precision: uses decimal.Decimal to avoid floating-point errors
  3. Explicit configuration: rate constants are passed in as a Rates value,
     never read from globals

SEE ALSO:
  - rates.go: Rates configuration value
  - duration.go: Month counting and point accrual
  - limit.go: Borrowing-limit computation
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type MemberID string
type LoanID string
type PaymentID string

// =============================================================================
// LOAN STATUS
// =============================================================================

type LoanStatus string

const (
	StatusPendingApproval LoanStatus = "pending_approval"
	StatusOngoing         LoanStatus = "ongoing"
	StatusEnded           LoanStatus = "ended"
	StatusCancelled       LoanStatus = "cancelled"
)

// IsTerminal reports whether the status permits no further transitions.
func (s LoanStatus) IsTerminal() bool {
	return s == StatusEnded || s == StatusCancelled
}

// LoanKind distinguishes the two loan products.
type LoanKind string

const (
	KindStandard     LoanKind = "standard"
	KindInterestFree LoanKind = "interest_free"
)

// =============================================================================
// MEMBER - savings and reward-point balances
// =============================================================================

// Member is the borrower-side input to the calculators. It is immutable
// during a single calculation; deposits, withdrawals, and loan settlement
// mutate the persisted record outside this package.
type Member struct {
	ID               MemberID
	Name             string
	InvestmentAmount decimal.Decimal // cumulative savings
	Points           decimal.Decimal // non-negative reward balance
}

// =============================================================================
// LOAN - financial state of a single loan
// =============================================================================

type Loan struct {
	ID             LoanID
	MemberID       MemberID
	Kind           LoanKind
	Amount         decimal.Decimal // principal requested
	DurationMonths int             // requested term
	StartDate      DayPoint
	Status         LoanStatus

	PrincipalLeft      decimal.Decimal
	Units              decimal.Decimal // accumulator of principal x elapsed days
	InterestAmountPaid decimal.Decimal
	LastPaymentDate    DayPoint // zero until the first payment
	PointsSpent        decimal.Decimal
}

// =============================================================================
// PAYMENT and ALLOCATION
// =============================================================================

type Payment struct {
	ID     PaymentID
	LoanID LoanID
	Amount decimal.Decimal
	Date   DayPoint
}

// Allocation is the split of a payment across due interest and outstanding
// principal. PrincipalPaid may be NEGATIVE when the payment falls short of
// the interest due; that is the interest-shortfall signal and callers decide
// policy, it is never clamped here.
type Allocation struct {
	InterestPaid  decimal.Decimal
	PrincipalPaid decimal.Decimal
	ExcessAmount  decimal.Decimal
}

// =============================================================================
// MONEY ROUNDING
// =============================================================================

// Money rounds to 2 decimal places using banker's rounding. All money
// amounts leaving the calculators pass through this.
func Money(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}
