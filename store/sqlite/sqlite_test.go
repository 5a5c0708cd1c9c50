package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commonfund/loan-engine/engine"
	"github.com/commonfund/loan-engine/lifecycle"
	"github.com/commonfund/loan-engine/store/sqlite"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestMemberRoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	member := engine.Member{
		ID:               "m-1",
		Name:             "Ada",
		InvestmentAmount: dec("100000.50"),
		Points:           dec("12.5"),
	}
	require.NoError(t, store.SaveMember(ctx, member))

	got, err := store.GetMember(ctx, "m-1")
	require.NoError(t, err)
	assert.Equal(t, member.Name, got.Name)
	assert.True(t, got.InvestmentAmount.Equal(member.InvestmentAmount))
	assert.True(t, got.Points.Equal(member.Points))

	// Saving again updates in place.
	member.Points = dec("20")
	require.NoError(t, store.SaveMember(ctx, member))
	got, err = store.GetMember(ctx, "m-1")
	require.NoError(t, err)
	assert.True(t, got.Points.Equal(dec("20")))
}

func TestGetMember_NotFound(t *testing.T) {
	store := newStore(t)
	_, err := store.GetMember(context.Background(), "nope")
	assert.True(t, errors.Is(err, lifecycle.ErrMemberNotFound))
}

func TestListMembers_OrderedByName(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	for _, m := range []engine.Member{
		{ID: "m-2", Name: "Zoe", InvestmentAmount: dec("1"), Points: dec("0")},
		{ID: "m-1", Name: "Ada", InvestmentAmount: dec("2"), Points: dec("0")},
	} {
		require.NoError(t, store.SaveMember(ctx, m))
	}

	members, err := store.ListMembers(ctx)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "Ada", members[0].Name)
	assert.Equal(t, "Zoe", members[1].Name)
}

func TestLoanRoundTrip_NullableDates(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveMember(ctx, engine.Member{
		ID: "m-1", Name: "Ada", InvestmentAmount: dec("0"), Points: dec("0"),
	}))

	// Pending loan: no start date, no payment date yet.
	loan := engine.Loan{
		ID:                 "l-1",
		MemberID:           "m-1",
		Kind:               engine.KindStandard,
		Amount:             dec("100000"),
		DurationMonths:     12,
		Status:             engine.StatusPendingApproval,
		PrincipalLeft:      dec("100000"),
		Units:              dec("0"),
		InterestAmountPaid: dec("0"),
		PointsSpent:        dec("0"),
	}
	require.NoError(t, store.SaveLoan(ctx, loan))

	got, err := store.GetLoan(ctx, "l-1")
	require.NoError(t, err)
	assert.True(t, got.StartDate.IsZero())
	assert.True(t, got.LastPaymentDate.IsZero())
	assert.Equal(t, 12, got.DurationMonths)
	assert.True(t, got.Amount.Equal(dec("100000")))

	// Approve and pay: both dates now persist.
	loan.Status = engine.StatusOngoing
	loan.StartDate = engine.NewDayPoint(2025, time.January, 1)
	loan.LastPaymentDate = engine.NewDayPoint(2025, time.January, 31)
	loan.PrincipalLeft = dec("50000")
	loan.Units = dec("3000000")
	loan.InterestAmountPaid = dec("2000")
	require.NoError(t, store.SaveLoan(ctx, loan))

	got, err = store.GetLoan(ctx, "l-1")
	require.NoError(t, err)
	assert.Equal(t, engine.StatusOngoing, got.Status)
	assert.Equal(t, "2025-01-01", got.StartDate.String())
	assert.Equal(t, "2025-01-31", got.LastPaymentDate.String())
	assert.True(t, got.PrincipalLeft.Equal(dec("50000")))
	assert.True(t, got.Units.Equal(dec("3000000")))
	assert.True(t, got.InterestAmountPaid.Equal(dec("2000")))
}

func TestGetLoan_NotFound(t *testing.T) {
	store := newStore(t)
	_, err := store.GetLoan(context.Background(), "nope")
	assert.True(t, errors.Is(err, lifecycle.ErrLoanNotFound))
}

func TestListOngoingLoans_FiltersByStatus(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveMember(ctx, engine.Member{
		ID: "m-1", Name: "Ada", InvestmentAmount: dec("0"), Points: dec("0"),
	}))

	save := func(id engine.LoanID, status engine.LoanStatus) {
		require.NoError(t, store.SaveLoan(ctx, engine.Loan{
			ID: id, MemberID: "m-1", Kind: engine.KindStandard,
			Amount: dec("1000"), DurationMonths: 6, Status: status,
			PrincipalLeft: dec("1000"), Units: dec("0"),
			InterestAmountPaid: dec("0"), PointsSpent: dec("0"),
		}))
	}
	save("l-1", engine.StatusOngoing)
	save("l-2", engine.StatusEnded)
	save("l-3", engine.StatusOngoing)
	save("l-4", engine.StatusCancelled)

	ongoing, err := store.ListOngoingLoans(ctx, "m-1")
	require.NoError(t, err)
	assert.Len(t, ongoing, 2)

	all, err := store.ListLoansByMember(ctx, "m-1")
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestPaymentRoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveMember(ctx, engine.Member{
		ID: "m-1", Name: "Ada", InvestmentAmount: dec("0"), Points: dec("0"),
	}))
	require.NoError(t, store.SaveLoan(ctx, engine.Loan{
		ID: "l-1", MemberID: "m-1", Kind: engine.KindStandard,
		Amount: dec("100000"), DurationMonths: 12, Status: engine.StatusOngoing,
		PrincipalLeft: dec("100000"), Units: dec("0"),
		InterestAmountPaid: dec("0"), PointsSpent: dec("0"),
	}))

	first := engine.Payment{
		ID: "p-1", LoanID: "l-1", Amount: dec("52000"),
		Date: engine.NewDayPoint(2025, time.January, 31),
	}
	second := engine.Payment{
		ID: "p-2", LoanID: "l-1", Amount: dec("52040"),
		Date: engine.NewDayPoint(2025, time.March, 2),
	}
	require.NoError(t, store.SavePayment(ctx, first, engine.Allocation{
		InterestPaid: dec("2000"), PrincipalPaid: dec("50000"), ExcessAmount: dec("0"),
	}))
	require.NoError(t, store.SavePayment(ctx, second, engine.Allocation{
		InterestPaid: dec("2040"), PrincipalPaid: dec("50000"), ExcessAmount: dec("0"),
	}))

	payments, err := store.ListPayments(ctx, "l-1")
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, engine.PaymentID("p-1"), payments[0].ID)
	assert.True(t, payments[0].Amount.Equal(dec("52000")))
	assert.Equal(t, "2025-03-02", payments[1].Date.String())
}
