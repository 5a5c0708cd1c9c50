/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

AMOUNTS:
  All monetary amounts and point balances travel as JSON strings so the
  decimal values round-trip without floating-point loss.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/commonfund/loan-engine/engine"
	"github.com/commonfund/loan-engine/lifecycle"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// MemberDTO represents a member in API responses.
type MemberDTO struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	InvestmentAmount string `json:"investment_amount"`
	Points           string `json:"points"`
}

// CreateMemberRequest is the request to register a member.
type CreateMemberRequest struct {
	Name string `json:"name"`
}

// DepositRequest adds to a member's savings.
type DepositRequest struct {
	Amount string `json:"amount"`
}

// GrantPointsRequest credits bonus points.
type GrantPointsRequest struct {
	Points string `json:"points"`
}

// LimitDTO is the member's current borrowing limit.
type LimitDTO struct {
	MemberID string `json:"member_id"`
	Limit    string `json:"limit"`
}

// RequestLoanRequest asks for a new loan.
type RequestLoanRequest struct {
	MemberID       string `json:"member_id"`
	Kind           string `json:"kind"`
	Amount         string `json:"amount"`
	DurationMonths int    `json:"duration_months"`
}

// LoanDTO represents a loan in API responses.
type LoanDTO struct {
	ID                 string `json:"id"`
	MemberID           string `json:"member_id"`
	Kind               string `json:"kind"`
	Status             string `json:"status"`
	Amount             string `json:"amount"`
	DurationMonths     int    `json:"duration_months"`
	StartDate          string `json:"start_date,omitempty"`
	PrincipalLeft      string `json:"principal_left"`
	InterestAmountPaid string `json:"interest_amount_paid"`
	PointsSpent        string `json:"points_spent"`
	LastPaymentDate    string `json:"last_payment_date,omitempty"`
}

// ApprovalDTO wraps the funded loan and its request metrics.
type ApprovalDTO struct {
	Loan              LoanDTO `json:"loan"`
	TotalRate         string  `json:"total_rate"`
	PointsNeeded      string  `json:"points_needed"`
	PointsSpent       string  `json:"points_spent"`
	ActualInterest    string  `json:"actual_interest"`
	InstallmentAmount string  `json:"installment_amount"`
}

// RecordPaymentRequest applies a payment to a loan.
type RecordPaymentRequest struct {
	Amount string `json:"amount"`
}

// PaymentDTO reports how a recorded payment was allocated.
type PaymentDTO struct {
	ID            string `json:"id"`
	LoanID        string `json:"loan_id"`
	Amount        string `json:"amount"`
	Date          string `json:"date"`
	InterestPaid  string `json:"interest_paid"`
	PrincipalPaid string `json:"principal_paid"`
	ExcessAmount  string `json:"excess_amount"`
}

// ErrorResponse is the JSON shape of every error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// DOMAIN -> DTO CONVERSION
// =============================================================================

func toMemberDTO(m engine.Member) MemberDTO {
	return MemberDTO{
		ID:               string(m.ID),
		Name:             m.Name,
		InvestmentAmount: m.InvestmentAmount.String(),
		Points:           m.Points.String(),
	}
}

func toLoanDTO(l engine.Loan) LoanDTO {
	dto := LoanDTO{
		ID:                 string(l.ID),
		MemberID:           string(l.MemberID),
		Kind:               string(l.Kind),
		Status:             string(l.Status),
		Amount:             l.Amount.String(),
		DurationMonths:     l.DurationMonths,
		PrincipalLeft:      l.PrincipalLeft.String(),
		InterestAmountPaid: l.InterestAmountPaid.String(),
		PointsSpent:        l.PointsSpent.String(),
	}
	if !l.StartDate.IsZero() {
		dto.StartDate = l.StartDate.String()
	}
	if !l.LastPaymentDate.IsZero() {
		dto.LastPaymentDate = l.LastPaymentDate.String()
	}
	return dto
}

func toPaymentDTO(p engine.Payment, alloc engine.Allocation) PaymentDTO {
	return PaymentDTO{
		ID:            string(p.ID),
		LoanID:        string(p.LoanID),
		Amount:        p.Amount.String(),
		Date:          p.Date.String(),
		InterestPaid:  alloc.InterestPaid.String(),
		PrincipalPaid: alloc.PrincipalPaid.String(),
		ExcessAmount:  alloc.ExcessAmount.String(),
	}
}

// StatusDTO mirrors lifecycle.StatusSummary with string amounts.
type StatusDTO struct {
	LoanID          string `json:"loan_id"`
	MemberID        string `json:"member_id"`
	Kind            string `json:"kind"`
	Status          string `json:"status"`
	PrincipalLeft   string `json:"principal_left"`
	InterestDue     string `json:"interest_due"`
	PointsMonthsDue int    `json:"points_months_due"`

	EffectiveEndDate string `json:"effective_end_date,omitempty"`

	Overdue       bool   `json:"overdue"`
	AgreedEndDate string `json:"agreed_end_date,omitempty"`
	DaysOverdue   int    `json:"days_overdue"`
	MonthsOverdue int    `json:"months_overdue"`
}

func toStatusDTO(s lifecycle.StatusSummary) StatusDTO {
	return StatusDTO{
		LoanID:           string(s.LoanID),
		MemberID:         string(s.MemberID),
		Kind:             string(s.Kind),
		Status:           string(s.Status),
		PrincipalLeft:    s.PrincipalLeft.String(),
		InterestDue:      s.InterestDue.String(),
		PointsMonthsDue:  s.PointsMonthsDue,
		EffectiveEndDate: s.EffectiveEndDate,
		Overdue:          s.Overdue,
		AgreedEndDate:    s.AgreedEndDate,
		DaysOverdue:      s.DaysOverdue,
		MonthsOverdue:    s.MonthsOverdue,
	}
}
