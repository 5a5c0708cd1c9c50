/*
service.go - Loan lifecycle orchestration

PURPOSE:
  Invokes the pure calculators at the well-defined lifecycle events and
  applies their outputs to persisted records:

    RequestLoan    -> limit engine at request time
    ApproveLoan    -> standard-loan request metrics, points spend
    RecordPayment  -> interest/points due + payment allocation
    LoanStatus     -> effective end-date projection (cache-aside)

  Status transitions: Pending Approval -> Ongoing (approval) -> Ended
  (full repayment), or Pending Approval -> Cancelled. Terminal states
  never transition again.

SHORTFALL POLICY:
  The allocator reports a payment short of interest as a negative
  principal paid. This service's policy is to reject such payments with
  ErrInterestShortfall rather than record a deficit.

UNITS ACCUMULATOR:
  On every payment the loan banks principal x days since the previous
  payment (or the start date) into Units, which is what the end-date
  projector divides by the original amount.
*/
package lifecycle

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/commonfund/loan-engine/engine"
	"github.com/commonfund/loan-engine/interestfree"
	"github.com/commonfund/loan-engine/standard"
)

// Service coordinates the calculators, the store, and the status cache.
type Service struct {
	store Store
	cache Cache
	clock Clock
	rates engine.Rates

	std  standard.Calculator
	free interestfree.Calculator
}

// NewService wires a lifecycle service. A nil clock falls back to the
// system clock; a nil cache disables status caching.
func NewService(store Store, cache Cache, clock Clock, rates engine.Rates) *Service {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Service{
		store: store,
		cache: cache,
		clock: clock,
		rates: rates,
		std:   standard.NewCalculator(rates),
		free:  interestfree.NewCalculator(rates),
	}
}

// =============================================================================
// MEMBERS
// =============================================================================

// CreateMember registers a member with zero balances.
func (s *Service) CreateMember(ctx context.Context, name string) (engine.Member, error) {
	member := engine.Member{
		ID:               engine.MemberID(uuid.NewString()),
		Name:             name,
		InvestmentAmount: decimal.Zero,
		Points:           decimal.Zero,
	}
	if err := s.store.SaveMember(ctx, member); err != nil {
		return engine.Member{}, err
	}
	return member, nil
}

// Member fetches a member by ID.
func (s *Service) Member(ctx context.Context, memberID engine.MemberID) (engine.Member, error) {
	return s.store.GetMember(ctx, memberID)
}

// GrantPoints credits bonus points to a member's balance.
func (s *Service) GrantPoints(ctx context.Context, memberID engine.MemberID, points decimal.Decimal) (engine.Member, error) {
	if !points.IsPositive() {
		return engine.Member{}, engine.NewInvalidInput("points", "must be positive")
	}
	member, err := s.store.GetMember(ctx, memberID)
	if err != nil {
		return engine.Member{}, err
	}
	member.Points = member.Points.Add(points)
	if err := s.store.SaveMember(ctx, member); err != nil {
		return engine.Member{}, err
	}
	return member, nil
}

// Deposit adds to a member's cumulative savings.
func (s *Service) Deposit(ctx context.Context, memberID engine.MemberID, amount decimal.Decimal) (engine.Member, error) {
	if !amount.IsPositive() {
		return engine.Member{}, engine.NewInvalidInput("amount", "must be positive")
	}
	member, err := s.store.GetMember(ctx, memberID)
	if err != nil {
		return engine.Member{}, err
	}
	member.InvestmentAmount = member.InvestmentAmount.Add(amount)
	if err := s.store.SaveMember(ctx, member); err != nil {
		return engine.Member{}, err
	}
	return member, nil
}

// ListMembers returns every registered member.
func (s *Service) ListMembers(ctx context.Context) ([]engine.Member, error) {
	return s.store.ListMembers(ctx)
}

// Limit computes the member's current borrowing limit.
func (s *Service) Limit(ctx context.Context, memberID engine.MemberID) (decimal.Decimal, error) {
	member, err := s.store.GetMember(ctx, memberID)
	if err != nil {
		return decimal.Zero, err
	}
	ongoing, err := s.store.ListOngoingLoans(ctx, memberID)
	if err != nil {
		return decimal.Zero, err
	}
	interestPaid, err := s.interestPaidTotal(ctx, memberID)
	if err != nil {
		return decimal.Zero, err
	}
	return engine.LoanLimit(s.rates, member, ongoing, interestPaid), nil
}

// interestPaidTotal sums the interest a member has paid across all loans.
func (s *Service) interestPaidTotal(ctx context.Context, memberID engine.MemberID) (decimal.Decimal, error) {
	loans, err := s.store.ListLoansByMember(ctx, memberID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, loan := range loans {
		total = total.Add(loan.InterestAmountPaid)
	}
	return total, nil
}

// =============================================================================
// LOAN REQUEST / APPROVAL / CANCELLATION
// =============================================================================

// RequestLoan checks the borrowing limit and creates a loan in Pending
// Approval. The start date is set at approval (funding) time.
func (s *Service) RequestLoan(ctx context.Context, memberID engine.MemberID, kind engine.LoanKind, amount decimal.Decimal, durationMonths int) (engine.Loan, error) {
	if !amount.IsPositive() {
		return engine.Loan{}, engine.NewInvalidInput("amount", "must be positive")
	}
	if durationMonths <= 0 {
		return engine.Loan{}, engine.NewInvalidInput("duration_months", "must be positive")
	}
	if kind != engine.KindStandard && kind != engine.KindInterestFree {
		return engine.Loan{}, engine.NewInvalidInput("kind", "unknown loan kind")
	}

	member, err := s.store.GetMember(ctx, memberID)
	if err != nil {
		return engine.Loan{}, err
	}
	ongoing, err := s.store.ListOngoingLoans(ctx, memberID)
	if err != nil {
		return engine.Loan{}, err
	}
	interestPaid, err := s.interestPaidTotal(ctx, memberID)
	if err != nil {
		return engine.Loan{}, err
	}

	if kind == engine.KindInterestFree {
		res, err := s.free.Eligibility(member, ongoing, interestPaid, amount, durationMonths)
		if err != nil {
			return engine.Loan{}, err
		}
		if !res.Eligible {
			return engine.Loan{}, fmt.Errorf("%w: limit %s, requested %s", ErrLimitExceeded, res.Limit, amount)
		}
	} else {
		limit := engine.LoanLimit(s.rates, member, ongoing, interestPaid)
		if amount.GreaterThan(limit) {
			return engine.Loan{}, fmt.Errorf("%w: limit %s, requested %s", ErrLimitExceeded, limit, amount)
		}
	}

	loan := engine.Loan{
		ID:                 engine.LoanID(uuid.NewString()),
		MemberID:           memberID,
		Kind:               kind,
		Amount:             amount,
		DurationMonths:     durationMonths,
		Status:             engine.StatusPendingApproval,
		PrincipalLeft:      amount,
		Units:              decimal.Zero,
		InterestAmountPaid: decimal.Zero,
		PointsSpent:        decimal.Zero,
	}
	if err := s.store.SaveLoan(ctx, loan); err != nil {
		return engine.Loan{}, err
	}
	return loan, nil
}

// ApproveLoan funds a pending loan: computes the request metrics, spends
// the borrower's points, and starts the clock today.
func (s *Service) ApproveLoan(ctx context.Context, loanID engine.LoanID) (engine.Loan, standard.RequestMetrics, error) {
	loan, err := s.store.GetLoan(ctx, loanID)
	if err != nil {
		return engine.Loan{}, standard.RequestMetrics{}, err
	}
	if loan.Status != engine.StatusPendingApproval {
		return engine.Loan{}, standard.RequestMetrics{}, ErrLoanNotPending
	}

	var metrics standard.RequestMetrics
	if loan.Kind == engine.KindStandard {
		member, err := s.store.GetMember(ctx, loan.MemberID)
		if err != nil {
			return engine.Loan{}, standard.RequestMetrics{}, err
		}
		metrics, err = s.std.RequestMetrics(loan.Amount, loan.DurationMonths, member.Points)
		if err != nil {
			return engine.Loan{}, standard.RequestMetrics{}, err
		}
		loan.PointsSpent = metrics.PointsSpent
		member.Points = member.Points.Sub(metrics.PointsSpent)
		if err := s.store.SaveMember(ctx, member); err != nil {
			return engine.Loan{}, standard.RequestMetrics{}, err
		}
	}

	loan.Status = engine.StatusOngoing
	loan.StartDate = s.clock.Today()
	if err := s.store.SaveLoan(ctx, loan); err != nil {
		return engine.Loan{}, standard.RequestMetrics{}, err
	}
	s.invalidateStatus(ctx, loan.ID)
	return loan, metrics, nil
}

// CancelLoan withdraws a loan that was never funded.
func (s *Service) CancelLoan(ctx context.Context, loanID engine.LoanID) (engine.Loan, error) {
	loan, err := s.store.GetLoan(ctx, loanID)
	if err != nil {
		return engine.Loan{}, err
	}
	if loan.Status != engine.StatusPendingApproval {
		return engine.Loan{}, ErrLoanNotPending
	}
	loan.Status = engine.StatusCancelled
	if err := s.store.SaveLoan(ctx, loan); err != nil {
		return engine.Loan{}, err
	}
	s.invalidateStatus(ctx, loan.ID)
	return loan, nil
}

// =============================================================================
// PAYMENTS
// =============================================================================

// Loan fetches a loan by ID.
func (s *Service) Loan(ctx context.Context, loanID engine.LoanID) (engine.Loan, error) {
	return s.store.GetLoan(ctx, loanID)
}

// Payments returns a loan's recorded payments in date order.
func (s *Service) Payments(ctx context.Context, loanID engine.LoanID) ([]engine.Payment, error) {
	if _, err := s.store.GetLoan(ctx, loanID); err != nil {
		return nil, err
	}
	return s.store.ListPayments(ctx, loanID)
}

// RecordPayment applies a payment to an ongoing loan as of today.
func (s *Service) RecordPayment(ctx context.Context, loanID engine.LoanID, amount decimal.Decimal) (engine.Payment, engine.Allocation, error) {
	loan, err := s.store.GetLoan(ctx, loanID)
	if err != nil {
		return engine.Payment{}, engine.Allocation{}, err
	}
	if loan.Status != engine.StatusOngoing {
		return engine.Payment{}, engine.Allocation{}, ErrLoanNotOngoing
	}
	member, err := s.store.GetMember(ctx, loan.MemberID)
	if err != nil {
		return engine.Payment{}, engine.Allocation{}, err
	}

	today := s.clock.Today()

	var alloc engine.Allocation
	pointsConsumed := decimal.Zero
	pointsInterest := decimal.Zero

	if loan.Kind == engine.KindStandard {
		totalDue, err := s.std.TotalInterestDue(loan.Amount, loan.StartDate, today)
		if err != nil {
			return engine.Payment{}, engine.Allocation{}, err
		}
		dueNow := decimal.Max(decimal.Zero, totalDue.Sub(loan.InterestAmountPaid))

		pointsMonths := s.std.PointsMonthsDue(loan.StartDate, loan.LastPaymentDate, today)
		pointsInterest = s.std.PointsInterestDue(dueNow, member.Points, pointsMonths, loan.Amount)
		cashDue := s.std.CashInterestDue(dueNow, pointsInterest)

		alloc, err = s.std.AllocatePayment(amount, cashDue, loan.PrincipalLeft)
		if err != nil {
			return engine.Payment{}, engine.Allocation{}, err
		}
		if alloc.PrincipalPaid.IsNegative() {
			short := alloc.PrincipalPaid.Neg()
			return engine.Payment{}, engine.Allocation{}, fmt.Errorf("%w: short by %s", ErrInterestShortfall, short)
		}

		pointsConsumed = s.std.PointsConsumed(pointsInterest)
	} else {
		alloc, err = s.free.AllocatePayment(amount, loan.PrincipalLeft)
		if err != nil {
			return engine.Payment{}, engine.Allocation{}, err
		}
	}

	// Bank principal x elapsed-days before the principal changes.
	since := loan.StartDate
	if !loan.LastPaymentDate.IsZero() {
		since = loan.LastPaymentDate
	}
	elapsed := engine.DaysBetween(since, today)
	if elapsed < 0 {
		elapsed = 0
	}
	loan.Units = loan.Units.Add(loan.PrincipalLeft.Mul(decimal.NewFromInt(int64(elapsed))))

	loan.PrincipalLeft = loan.PrincipalLeft.Sub(alloc.PrincipalPaid)
	loan.InterestAmountPaid = loan.InterestAmountPaid.Add(alloc.InterestPaid).Add(pointsInterest)
	loan.LastPaymentDate = today
	if loan.PrincipalLeft.IsZero() {
		loan.Status = engine.StatusEnded
	}

	if pointsConsumed.IsPositive() {
		member.Points = member.Points.Sub(pointsConsumed)
		if err := s.store.SaveMember(ctx, member); err != nil {
			return engine.Payment{}, engine.Allocation{}, err
		}
	}

	payment := engine.Payment{
		ID:     engine.PaymentID(uuid.NewString()),
		LoanID: loan.ID,
		Amount: amount,
		Date:   today,
	}
	if err := s.store.SavePayment(ctx, payment, alloc); err != nil {
		return engine.Payment{}, engine.Allocation{}, err
	}
	if err := s.store.SaveLoan(ctx, loan); err != nil {
		return engine.Payment{}, engine.Allocation{}, err
	}
	s.invalidateStatus(ctx, loan.ID)
	return payment, alloc, nil
}

// =============================================================================
// STATUS
// =============================================================================

// StatusSummary is the computed view of a loan for status queries.
type StatusSummary struct {
	LoanID          engine.LoanID     `json:"loan_id"`
	MemberID        engine.MemberID   `json:"member_id"`
	Kind            engine.LoanKind   `json:"kind"`
	Status          engine.LoanStatus `json:"status"`
	PrincipalLeft   decimal.Decimal   `json:"principal_left"`
	InterestDue     decimal.Decimal   `json:"interest_due"`
	PointsMonthsDue int               `json:"points_months_due"`

	EffectiveEndDate string `json:"effective_end_date,omitempty"`

	Overdue       bool   `json:"overdue"`
	AgreedEndDate string `json:"agreed_end_date,omitempty"`
	DaysOverdue   int    `json:"days_overdue"`
	MonthsOverdue int    `json:"months_overdue"`
}

// LoanStatus computes (or serves from cache) the loan's current standing.
// Snapshots are keyed by loan AND day: interest due, point-months, and
// overdue metrics all move with the calendar, so yesterday's snapshot
// must never answer today's query.
func (s *Service) LoanStatus(ctx context.Context, loanID engine.LoanID) (StatusSummary, error) {
	today := s.clock.Today()

	key := statusKey(loanID, today)
	if s.cache != nil {
		if raw, ok := s.cache.Get(ctx, key); ok {
			var cached StatusSummary
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
		}
	}

	loan, err := s.store.GetLoan(ctx, loanID)
	if err != nil {
		return StatusSummary{}, err
	}

	summary := StatusSummary{
		LoanID:        loan.ID,
		MemberID:      loan.MemberID,
		Kind:          loan.Kind,
		Status:        loan.Status,
		PrincipalLeft: loan.PrincipalLeft,
		InterestDue:   decimal.Zero,
	}

	if loan.Status == engine.StatusOngoing || loan.Status == engine.StatusEnded {
		if loan.Kind == engine.KindStandard {
			end, err := s.std.EffectiveEndDate(loan, today)
			if err != nil {
				return StatusSummary{}, err
			}
			summary.EffectiveEndDate = end.String()

			if loan.Status == engine.StatusOngoing {
				totalDue, err := s.std.TotalInterestDue(loan.Amount, loan.StartDate, today)
				if err != nil {
					return StatusSummary{}, err
				}
				summary.InterestDue = decimal.Max(decimal.Zero, totalDue.Sub(loan.InterestAmountPaid))
				summary.PointsMonthsDue = s.std.PointsMonthsDue(loan.StartDate, loan.LastPaymentDate, today)
			}
		} else {
			metrics, err := s.free.OverdueMetrics(loan, today)
			if err != nil {
				return StatusSummary{}, err
			}
			summary.Overdue = metrics.Overdue
			summary.AgreedEndDate = metrics.AgreedEndDate.String()
			summary.DaysOverdue = metrics.DaysOverdue
			summary.MonthsOverdue = metrics.MonthsOverdue
		}
	}

	if s.cache != nil {
		if raw, err := json.Marshal(summary); err == nil {
			_ = s.cache.Set(ctx, key, string(raw))
		}
	}
	return summary, nil
}

func (s *Service) invalidateStatus(ctx context.Context, loanID engine.LoanID) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, statusKey(loanID, s.clock.Today()))
	}
}

func statusKey(loanID engine.LoanID, day engine.DayPoint) string {
	return "loan-status:" + string(loanID) + ":" + day.String()
}
