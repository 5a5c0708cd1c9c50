/*
handlers.go - HTTP API handlers for the loan engine

PURPOSE:
  Exposes the lifecycle service via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Members:
    GET    /api/members                 List all members
    POST   /api/members                 Register member
    GET    /api/members/{id}            Get member details
    GET    /api/members/{id}/limit      Current borrowing limit
    POST   /api/members/{id}/deposits   Record a savings deposit
    POST   /api/members/{id}/points     Grant bonus points

  Loans:
    POST   /api/loans                   Request a loan
    GET    /api/loans/{id}              Get loan record
    GET    /api/loans/{id}/status       Computed status (interest due,
                                        effective end date, overdue)
    GET    /api/loans/{id}/payments     Payment history
    POST   /api/loans/{id}/approve      Fund a pending loan
    POST   /api/loans/{id}/cancel       Cancel a pending loan
    POST   /api/loans/{id}/payments     Record a payment

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Member or loan not found
  - 409: State conflicts (wrong loan status, limit exceeded,
         interest shortfall)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/commonfund/loan-engine/engine"
	"github.com/commonfund/loan-engine/lifecycle"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *lifecycle.Service
}

// NewHandler creates a new handler over the lifecycle service.
func NewHandler(service *lifecycle.Service) *Handler {
	return &Handler{Service: service}
}

// =============================================================================
// MEMBER HANDLERS
// =============================================================================

// ListMembers returns all members.
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.Service.ListMembers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list members", err)
		return
	}

	dtos := make([]MemberDTO, len(members))
	for i, m := range members {
		dtos[i] = toMemberDTO(m)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateMember registers a new member.
func (h *Handler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req CreateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required", nil)
		return
	}

	member, err := h.Service.CreateMember(r.Context(), req.Name)
	if err != nil {
		writeDomainError(w, "Failed to create member", err)
		return
	}
	writeJSON(w, http.StatusCreated, toMemberDTO(member))
}

// GetMember returns a single member.
func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	memberID := engine.MemberID(chi.URLParam(r, "id"))

	member, err := h.Service.Member(r.Context(), memberID)
	if err != nil {
		writeDomainError(w, "Failed to get member", err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberDTO(member))
}

// GetLimit returns the member's current borrowing limit.
func (h *Handler) GetLimit(w http.ResponseWriter, r *http.Request) {
	memberID := engine.MemberID(chi.URLParam(r, "id"))

	limit, err := h.Service.Limit(r.Context(), memberID)
	if err != nil {
		writeDomainError(w, "Failed to compute limit", err)
		return
	}
	writeJSON(w, http.StatusOK, LimitDTO{
		MemberID: string(memberID),
		Limit:    limit.String(),
	})
}

// Deposit records a savings deposit.
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	memberID := engine.MemberID(chi.URLParam(r, "id"))

	var req DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	member, err := h.Service.Deposit(r.Context(), memberID, amount)
	if err != nil {
		writeDomainError(w, "Failed to record deposit", err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberDTO(member))
}

// GrantPoints credits bonus points to a member.
func (h *Handler) GrantPoints(w http.ResponseWriter, r *http.Request) {
	memberID := engine.MemberID(chi.URLParam(r, "id"))

	var req GrantPointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	points, err := decimal.NewFromString(req.Points)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid points", err)
		return
	}

	member, err := h.Service.GrantPoints(r.Context(), memberID, points)
	if err != nil {
		writeDomainError(w, "Failed to grant points", err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberDTO(member))
}

// =============================================================================
// LOAN HANDLERS
// =============================================================================

// RequestLoan creates a loan in pending approval.
func (h *Handler) RequestLoan(w http.ResponseWriter, r *http.Request) {
	var req RequestLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	loan, err := h.Service.RequestLoan(r.Context(),
		engine.MemberID(req.MemberID), engine.LoanKind(req.Kind), amount, req.DurationMonths)
	if err != nil {
		writeDomainError(w, "Failed to request loan", err)
		return
	}
	writeJSON(w, http.StatusCreated, toLoanDTO(loan))
}

// GetLoan returns the raw loan record.
func (h *Handler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID := engine.LoanID(chi.URLParam(r, "id"))

	loan, err := h.Service.Loan(r.Context(), loanID)
	if err != nil {
		writeDomainError(w, "Failed to get loan", err)
		return
	}
	writeJSON(w, http.StatusOK, toLoanDTO(loan))
}

// ApproveLoan funds a pending loan.
func (h *Handler) ApproveLoan(w http.ResponseWriter, r *http.Request) {
	loanID := engine.LoanID(chi.URLParam(r, "id"))

	loan, metrics, err := h.Service.ApproveLoan(r.Context(), loanID)
	if err != nil {
		writeDomainError(w, "Failed to approve loan", err)
		return
	}
	writeJSON(w, http.StatusOK, ApprovalDTO{
		Loan:              toLoanDTO(loan),
		TotalRate:         metrics.TotalRate.String(),
		PointsNeeded:      metrics.PointsNeeded.String(),
		PointsSpent:       metrics.PointsSpent.String(),
		ActualInterest:    metrics.ActualInterest.String(),
		InstallmentAmount: metrics.InstallmentAmount.String(),
	})
}

// CancelLoan withdraws a pending loan.
func (h *Handler) CancelLoan(w http.ResponseWriter, r *http.Request) {
	loanID := engine.LoanID(chi.URLParam(r, "id"))

	loan, err := h.Service.CancelLoan(r.Context(), loanID)
	if err != nil {
		writeDomainError(w, "Failed to cancel loan", err)
		return
	}
	writeJSON(w, http.StatusOK, toLoanDTO(loan))
}

// RecordPayment applies a payment to an ongoing loan.
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	loanID := engine.LoanID(chi.URLParam(r, "id"))

	var req RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	payment, alloc, err := h.Service.RecordPayment(r.Context(), loanID, amount)
	if err != nil {
		writeDomainError(w, "Failed to record payment", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentDTO(payment, alloc))
}

// ListPayments returns the loan's payment history.
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	loanID := engine.LoanID(chi.URLParam(r, "id"))

	payments, err := h.Service.Payments(r.Context(), loanID)
	if err != nil {
		writeDomainError(w, "Failed to list payments", err)
		return
	}

	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = PaymentDTO{
			ID:     string(p.ID),
			LoanID: string(p.LoanID),
			Amount: p.Amount.String(),
			Date:   p.Date.String(),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetLoanStatus returns the computed standing of a loan.
func (h *Handler) GetLoanStatus(w http.ResponseWriter, r *http.Request) {
	loanID := engine.LoanID(chi.URLParam(r, "id"))

	summary, err := h.Service.LoanStatus(r.Context(), loanID)
	if err != nil {
		writeDomainError(w, "Failed to compute loan status", err)
		return
	}
	writeJSON(w, http.StatusOK, toStatusDTO(summary))
}

// =============================================================================
// HELPERS
// =============================================================================

// writeDomainError maps domain errors onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case lifecycle.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case engine.IsInvalidInput(err):
		writeError(w, http.StatusBadRequest, message, err)
	case errors.Is(err, lifecycle.ErrLimitExceeded),
		errors.Is(err, lifecycle.ErrInterestShortfall),
		errors.Is(err, lifecycle.ErrLoanNotPending),
		errors.Is(err, lifecycle.ErrLoanNotOngoing):
		writeError(w, http.StatusConflict, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
