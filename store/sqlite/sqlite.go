/*
Package sqlite provides the SQLite-backed lifecycle.Store.

PURPOSE:
  Persists members, loans, and payments. In production the same patterns
  apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  members:   savings and points balances
  loans:     per-loan financial state (principal, units, points spent)
  payments:  applied payments with their allocation split

MONEY COLUMNS:
  All decimal amounts are stored as TEXT and parsed back through
  shopspring/decimal, so no precision is lost round-tripping.

CONCURRENCY:
  Uses sync.Mutex around writes. SQLite is opened in WAL mode; the mutex
  gives the single-writer-per-loan discipline the lifecycle service
  requires. With PostgreSQL, row locking would take its place.

USAGE:
  store, err := sqlite.New("./data/club.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/commonfund/loan-engine/engine"
	"github.com/commonfund/loan-engine/lifecycle"
)

// Store implements lifecycle.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

var _ lifecycle.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS members (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		investment_amount TEXT NOT NULL,
		points TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS loans (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL REFERENCES members(id),
		kind TEXT NOT NULL,
		amount TEXT NOT NULL,
		duration_months INTEGER NOT NULL,
		start_date TEXT,
		status TEXT NOT NULL,
		principal_left TEXT NOT NULL,
		units TEXT NOT NULL,
		interest_amount_paid TEXT NOT NULL,
		last_payment_date TEXT,
		points_spent TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_loans_member ON loans(member_id);
	CREATE INDEX IF NOT EXISTS idx_loans_member_status ON loans(member_id, status);

	CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		loan_id TEXT NOT NULL REFERENCES loans(id),
		amount TEXT NOT NULL,
		date TEXT NOT NULL,
		interest_paid TEXT NOT NULL,
		principal_paid TEXT NOT NULL,
		excess_amount TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payments_loan ON payments(loan_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// MEMBERS
// =============================================================================

func (s *Store) GetMember(ctx context.Context, id engine.MemberID) (engine.Member, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, investment_amount, points FROM members WHERE id = ?`, string(id))

	var m engine.Member
	var memberID, investment, points string
	if err := row.Scan(&memberID, &m.Name, &investment, &points); err != nil {
		if err == sql.ErrNoRows {
			return engine.Member{}, lifecycle.ErrMemberNotFound
		}
		return engine.Member{}, err
	}

	m.ID = engine.MemberID(memberID)
	var err error
	if m.InvestmentAmount, err = decimal.NewFromString(investment); err != nil {
		return engine.Member{}, fmt.Errorf("corrupt investment_amount for member %s: %w", memberID, err)
	}
	if m.Points, err = decimal.NewFromString(points); err != nil {
		return engine.Member{}, fmt.Errorf("corrupt points for member %s: %w", memberID, err)
	}
	return m, nil
}

func (s *Store) SaveMember(ctx context.Context, member engine.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO members (id, name, investment_amount, points)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			investment_amount = excluded.investment_amount,
			points = excluded.points`,
		string(member.ID), member.Name, member.InvestmentAmount.String(), member.Points.String())
	return err
}

func (s *Store) ListMembers(ctx context.Context) ([]engine.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, investment_amount, points FROM members ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []engine.Member
	for rows.Next() {
		var m engine.Member
		var memberID, investment, points string
		if err := rows.Scan(&memberID, &m.Name, &investment, &points); err != nil {
			return nil, err
		}
		m.ID = engine.MemberID(memberID)
		if m.InvestmentAmount, err = decimal.NewFromString(investment); err != nil {
			return nil, err
		}
		if m.Points, err = decimal.NewFromString(points); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// =============================================================================
// LOANS
// =============================================================================

const loanColumns = `id, member_id, kind, amount, duration_months, start_date,
	status, principal_left, units, interest_amount_paid, last_payment_date, points_spent`

func (s *Store) GetLoan(ctx context.Context, id engine.LoanID) (engine.Loan, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE id = ?`, string(id))

	loan, err := scanLoan(row)
	if err == sql.ErrNoRows {
		return engine.Loan{}, lifecycle.ErrLoanNotFound
	}
	return loan, err
}

func (s *Store) SaveLoan(ctx context.Context, loan engine.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO loans (`+loanColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			start_date = excluded.start_date,
			principal_left = excluded.principal_left,
			units = excluded.units,
			interest_amount_paid = excluded.interest_amount_paid,
			last_payment_date = excluded.last_payment_date,
			points_spent = excluded.points_spent`,
		string(loan.ID), string(loan.MemberID), string(loan.Kind),
		loan.Amount.String(), loan.DurationMonths, dayPointOrNil(loan.StartDate),
		string(loan.Status), loan.PrincipalLeft.String(), loan.Units.String(),
		loan.InterestAmountPaid.String(), dayPointOrNil(loan.LastPaymentDate),
		loan.PointsSpent.String())
	return err
}

func (s *Store) ListLoansByMember(ctx context.Context, memberID engine.MemberID) ([]engine.Loan, error) {
	return s.queryLoans(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE member_id = ?`, string(memberID))
}

func (s *Store) ListOngoingLoans(ctx context.Context, memberID engine.MemberID) ([]engine.Loan, error) {
	return s.queryLoans(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE member_id = ? AND status = ?`,
		string(memberID), string(engine.StatusOngoing))
}

func (s *Store) queryLoans(ctx context.Context, query string, args ...any) ([]engine.Loan, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []engine.Loan
	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

// =============================================================================
// PAYMENTS
// =============================================================================

func (s *Store) SavePayment(ctx context.Context, payment engine.Payment, alloc engine.Allocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payments (id, loan_id, amount, date, interest_paid, principal_paid, excess_amount)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(payment.ID), string(payment.LoanID), payment.Amount.String(),
		payment.Date.String(), alloc.InterestPaid.String(),
		alloc.PrincipalPaid.String(), alloc.ExcessAmount.String())
	return err
}

func (s *Store) ListPayments(ctx context.Context, loanID engine.LoanID) ([]engine.Payment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, loan_id, amount, date FROM payments WHERE loan_id = ? ORDER BY date`,
		string(loanID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []engine.Payment
	for rows.Next() {
		var p engine.Payment
		var paymentID, pLoanID, amount, date string
		if err := rows.Scan(&paymentID, &pLoanID, &amount, &date); err != nil {
			return nil, err
		}
		p.ID = engine.PaymentID(paymentID)
		p.LoanID = engine.LoanID(pLoanID)
		if p.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		if p.Date, err = engine.ParseDayPoint(date); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// =============================================================================
// SCAN HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoan(row rowScanner) (engine.Loan, error) {
	var loan engine.Loan
	var id, memberID, kind, amount, status string
	var principalLeft, units, interestPaid, pointsSpent string
	var startDate, lastPayment sql.NullString

	err := row.Scan(&id, &memberID, &kind, &amount, &loan.DurationMonths,
		&startDate, &status, &principalLeft, &units, &interestPaid,
		&lastPayment, &pointsSpent)
	if err != nil {
		return engine.Loan{}, err
	}

	loan.ID = engine.LoanID(id)
	loan.MemberID = engine.MemberID(memberID)
	loan.Kind = engine.LoanKind(kind)
	loan.Status = engine.LoanStatus(status)

	if loan.Amount, err = decimal.NewFromString(amount); err != nil {
		return engine.Loan{}, fmt.Errorf("corrupt amount for loan %s: %w", id, err)
	}
	if loan.PrincipalLeft, err = decimal.NewFromString(principalLeft); err != nil {
		return engine.Loan{}, fmt.Errorf("corrupt principal_left for loan %s: %w", id, err)
	}
	if loan.Units, err = decimal.NewFromString(units); err != nil {
		return engine.Loan{}, fmt.Errorf("corrupt units for loan %s: %w", id, err)
	}
	if loan.InterestAmountPaid, err = decimal.NewFromString(interestPaid); err != nil {
		return engine.Loan{}, fmt.Errorf("corrupt interest_amount_paid for loan %s: %w", id, err)
	}
	if loan.PointsSpent, err = decimal.NewFromString(pointsSpent); err != nil {
		return engine.Loan{}, fmt.Errorf("corrupt points_spent for loan %s: %w", id, err)
	}

	if startDate.Valid {
		if loan.StartDate, err = engine.ParseDayPoint(startDate.String); err != nil {
			return engine.Loan{}, fmt.Errorf("corrupt start_date for loan %s: %w", id, err)
		}
	}
	if lastPayment.Valid {
		if loan.LastPaymentDate, err = engine.ParseDayPoint(lastPayment.String); err != nil {
			return engine.Loan{}, fmt.Errorf("corrupt last_payment_date for loan %s: %w", id, err)
		}
	}
	return loan, nil
}

func dayPointOrNil(d engine.DayPoint) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}
