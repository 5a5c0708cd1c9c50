// Package memory provides an in-memory Store implementation for tests
// and development. Writes are serialized under a single mutex, which
// also gives the single-writer-per-loan discipline the lifecycle
// service relies on.
package memory

import (
	"context"
	"sync"

	"github.com/commonfund/loan-engine/engine"
	"github.com/commonfund/loan-engine/lifecycle"
)

type paymentRecord struct {
	payment engine.Payment
	alloc   engine.Allocation
}

type Store struct {
	mu       sync.RWMutex
	members  map[engine.MemberID]engine.Member
	loans    map[engine.LoanID]engine.Loan
	payments map[engine.LoanID][]paymentRecord
}

var _ lifecycle.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		members:  make(map[engine.MemberID]engine.Member),
		loans:    make(map[engine.LoanID]engine.Loan),
		payments: make(map[engine.LoanID][]paymentRecord),
	}
}

func (s *Store) GetMember(_ context.Context, id engine.MemberID) (engine.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	member, ok := s.members[id]
	if !ok {
		return engine.Member{}, lifecycle.ErrMemberNotFound
	}
	return member, nil
}

func (s *Store) SaveMember(_ context.Context, member engine.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[member.ID] = member
	return nil
}

func (s *Store) ListMembers(_ context.Context) ([]engine.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	members := make([]engine.Member, 0, len(s.members))
	for _, m := range s.members {
		members = append(members, m)
	}
	return members, nil
}

func (s *Store) GetLoan(_ context.Context, id engine.LoanID) (engine.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	loan, ok := s.loans[id]
	if !ok {
		return engine.Loan{}, lifecycle.ErrLoanNotFound
	}
	return loan, nil
}

func (s *Store) SaveLoan(_ context.Context, loan engine.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loans[loan.ID] = loan
	return nil
}

func (s *Store) ListLoansByMember(_ context.Context, memberID engine.MemberID) ([]engine.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var loans []engine.Loan
	for _, l := range s.loans {
		if l.MemberID == memberID {
			loans = append(loans, l)
		}
	}
	return loans, nil
}

func (s *Store) ListOngoingLoans(_ context.Context, memberID engine.MemberID) ([]engine.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var loans []engine.Loan
	for _, l := range s.loans {
		if l.MemberID == memberID && l.Status == engine.StatusOngoing {
			loans = append(loans, l)
		}
	}
	return loans, nil
}

func (s *Store) SavePayment(_ context.Context, payment engine.Payment, alloc engine.Allocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[payment.LoanID] = append(s.payments[payment.LoanID], paymentRecord{payment: payment, alloc: alloc})
	return nil
}

func (s *Store) ListPayments(_ context.Context, loanID engine.LoanID) ([]engine.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.payments[loanID]
	payments := make([]engine.Payment, len(records))
	for i, r := range records {
		payments[i] = r.payment
	}
	return payments, nil
}
