package interestfree_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commonfund/loan-engine/engine"
	"github.com/commonfund/loan-engine/interestfree"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func date(year int, month time.Month, day int) engine.DayPoint {
	return engine.NewDayPoint(year, month, day)
}

func newCalc() interestfree.Calculator {
	return interestfree.NewCalculator(engine.DefaultRates())
}

func TestEligibility(t *testing.T) {
	calc := newCalc()
	member := engine.Member{ID: "m-1", InvestmentAmount: dec("100000")}

	// Within the limit.
	res, err := calc.Eligibility(member, nil, decimal.Zero, dec("150000"), 12)
	require.NoError(t, err)
	assert.True(t, res.Eligible)
	assert.True(t, res.Limit.Equal(dec("200000")))

	// Beyond the limit.
	res, err = calc.Eligibility(member, nil, decimal.Zero, dec("250000"), 12)
	require.NoError(t, err)
	assert.False(t, res.Eligible)

	// Ongoing debts shrink the limit below the request.
	debts := []engine.Loan{{PrincipalLeft: dec("120000")}}
	res, err = calc.Eligibility(member, debts, decimal.Zero, dec("150000"), 12)
	require.NoError(t, err)
	assert.False(t, res.Eligible)
	assert.True(t, res.Limit.Equal(dec("80000")))
}

func TestEligibility_InvalidInputs(t *testing.T) {
	calc := newCalc()
	member := engine.Member{ID: "m-1", InvestmentAmount: dec("100000")}

	_, err := calc.Eligibility(member, nil, decimal.Zero, decimal.Zero, 12)
	assert.True(t, engine.IsInvalidInput(err))

	_, err = calc.Eligibility(member, nil, decimal.Zero, dec("1000"), 0)
	assert.True(t, engine.IsInvalidInput(err))
}

func TestAllocatePayment_PrincipalOnly(t *testing.T) {
	calc := newCalc()

	alloc, err := calc.AllocatePayment(dec("30000"), dec("100000"))
	require.NoError(t, err)
	assert.True(t, alloc.InterestPaid.IsZero())
	assert.True(t, alloc.PrincipalPaid.Equal(dec("30000")))
	assert.True(t, alloc.ExcessAmount.IsZero())

	// Overpayment becomes excess, never negative principal.
	alloc, err = calc.AllocatePayment(dec("120000"), dec("100000"))
	require.NoError(t, err)
	assert.True(t, alloc.PrincipalPaid.Equal(dec("100000")))
	assert.True(t, alloc.ExcessAmount.Equal(dec("20000")))
}

func TestPrincipalLeftAfter(t *testing.T) {
	calc := newCalc()

	left, err := calc.PrincipalLeftAfter(dec("100000"), dec("30000"))
	require.NoError(t, err)
	assert.True(t, left.Equal(dec("70000")))

	left, err = calc.PrincipalLeftAfter(dec("100000"), dec("120000"))
	require.NoError(t, err)
	assert.True(t, left.IsZero(), "principal never goes negative, got %s", left)
}

func TestOverdueMetrics(t *testing.T) {
	calc := newCalc()

	loan := engine.Loan{
		Kind:           engine.KindInterestFree,
		Amount:         dec("60000"),
		DurationMonths: 6,
		StartDate:      date(2025, time.January, 1),
		PrincipalLeft:  dec("10000"),
		Status:         engine.StatusOngoing,
	}

	// Inside the agreed 180-day period: not overdue.
	m, err := calc.OverdueMetrics(loan, loan.StartDate.AddDays(100))
	require.NoError(t, err)
	assert.False(t, m.Overdue)
	assert.True(t, m.AgreedEndDate.Equal(loan.StartDate.AddDays(180)))

	// 45 days past the agreed period with principal outstanding.
	m, err = calc.OverdueMetrics(loan, loan.StartDate.AddDays(225))
	require.NoError(t, err)
	assert.True(t, m.Overdue)
	assert.Equal(t, 45, m.DaysOverdue)
	assert.Equal(t, 2, m.MonthsOverdue)
}

func TestOverdueMetrics_RepaidLoanIsNeverOverdue(t *testing.T) {
	calc := newCalc()

	loan := engine.Loan{
		Kind:           engine.KindInterestFree,
		Amount:         dec("60000"),
		DurationMonths: 6,
		StartDate:      date(2025, time.January, 1),
		PrincipalLeft:  decimal.Zero,
		Status:         engine.StatusEnded,
	}

	m, err := calc.OverdueMetrics(loan, loan.StartDate.AddDays(400))
	require.NoError(t, err)
	assert.False(t, m.Overdue)
	assert.Equal(t, 0, m.DaysOverdue)
}
