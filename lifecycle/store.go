/*
store.go - Persistence and cache boundaries for the lifecycle service

PURPOSE:
  The calculation engine is pure; this package is where its outputs get
  applied to persisted records. Store is the single persistence boundary.
  Implementations must serialize writers per loan: two concurrent payments
  against the same loan must never both read the same principal.

IMPLEMENTATIONS:
  store/sqlite: production store
  store/memory: in-memory store for tests and dev
*/
package lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/commonfund/loan-engine/engine"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMemberNotFound is returned when a referenced member doesn't exist.
	ErrMemberNotFound = errors.New("member not found")

	// ErrLoanNotFound is returned when a referenced loan doesn't exist.
	ErrLoanNotFound = errors.New("loan not found")

	// ErrLimitExceeded is returned when a requested amount is beyond the
	// member's borrowing limit.
	ErrLimitExceeded = errors.New("requested amount exceeds borrowing limit")

	// ErrLoanNotPending is returned when approval or cancellation hits a
	// loan that already left Pending Approval.
	ErrLoanNotPending = errors.New("loan is not pending approval")

	// ErrLoanNotOngoing is returned when a payment hits a loan that is not
	// currently ongoing.
	ErrLoanNotOngoing = errors.New("loan is not ongoing")

	// ErrInterestShortfall is returned when a payment does not cover the
	// cash interest due. The engine computes the deficit; this service's
	// policy is to reject such payments outright.
	ErrInterestShortfall = errors.New("payment does not cover interest due")
)

// IsClientError reports whether the error is the caller's fault (reject
// the request) rather than an internal failure.
func IsClientError(err error) bool {
	return engine.IsInvalidInput(err) ||
		errors.Is(err, ErrLimitExceeded) ||
		errors.Is(err, ErrLoanNotPending) ||
		errors.Is(err, ErrLoanNotOngoing) ||
		errors.Is(err, ErrInterestShortfall)
}

// IsNotFound reports whether the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrMemberNotFound) || errors.Is(err, ErrLoanNotFound)
}

// =============================================================================
// STORE - persistence boundary
// =============================================================================

// Store persists members, loans, and payments. Lookups return the
// package-level not-found sentinels when a record is missing.
type Store interface {
	GetMember(ctx context.Context, id engine.MemberID) (engine.Member, error)
	SaveMember(ctx context.Context, member engine.Member) error
	ListMembers(ctx context.Context) ([]engine.Member, error)

	GetLoan(ctx context.Context, id engine.LoanID) (engine.Loan, error)
	SaveLoan(ctx context.Context, loan engine.Loan) error
	ListLoansByMember(ctx context.Context, memberID engine.MemberID) ([]engine.Loan, error)
	ListOngoingLoans(ctx context.Context, memberID engine.MemberID) ([]engine.Loan, error)

	SavePayment(ctx context.Context, payment engine.Payment, alloc engine.Allocation) error
	ListPayments(ctx context.Context, loanID engine.LoanID) ([]engine.Payment, error)
}

// =============================================================================
// CACHE - computed-status snapshots
// =============================================================================

// Cache holds serialized loan-status snapshots keyed by loan ID. A miss
// is never an error; callers recompute and re-set. Implementations live
// in the cache package (redis for deployments, memory for tests).
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// =============================================================================
// CLOCK - replaceable time source
// =============================================================================

// Clock supplies "today" so tests can pin the calendar.
type Clock interface {
	Today() engine.DayPoint
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Today() engine.DayPoint {
	return engine.DayPointOf(time.Now())
}
