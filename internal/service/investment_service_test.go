package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Investment-Research-Backend/internal/api/request"
	"github.com/ndewijer/Investment-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Research-Backend/internal/model"
	"github.com/ndewijer/Investment-Research-Backend/internal/service"
	"github.com/ndewijer/Investment-Research-Backend/internal/testutil"
)

// TestPnLPercent tests the direction-adjusted P&L formula.
//
// WHY: A bearish thesis profits when price falls. A single-direction formula would report
// every successful short as a loss.
func TestPnLPercent(t *testing.T) {
	tests := []struct {
		name   string
		signal string
		entry  float64
		ref    float64
		want   float64
	}{
		{"bullish gain", model.SignalBullish, 100, 120, 20},
		{"bullish loss", model.SignalBullish, 100, 95, -5},
		{"bearish gain when price falls", model.SignalBearish, 100, 80, 20},
		{"bearish loss when price rises", model.SignalBearish, 100, 110, -10},
		{"flat", model.SignalBullish, 50, 50, 0},
		{"rounds to two places", model.SignalBullish, 30, 40, 33.33},
		{"rounds half away from zero", model.SignalBullish, 200, 200.01, 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.PnLPercent(tt.signal, tt.entry, tt.ref)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

// TestInvestmentService_CloseInvestment tests the CloseInvestment method.
//
// WHY: Closing is the one write a position receives after it opens. It must happen
// exactly once, with a positive price, and the realized P&L must follow the signal.
func TestInvestmentService_CloseInvestment(t *testing.T) {
	ctx := context.Background()

	t.Run("closes an active investment and derives realized P&L", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestInvestmentService(t, db)

		_, inv := testutil.CreateApprovedInvestment(t, db, testutil.NewMemo().WithPrice(100))

		closed, err := svc.CloseInvestment(ctx, inv.ID, 120)
		require.NoError(t, err)
		assert.Equal(t, model.InvestmentStatusClosed, closed.Status)
		require.NotNil(t, closed.ExitPrice)
		assert.InDelta(t, 120.0, *closed.ExitPrice, 1e-9)
		require.NotNil(t, closed.ExitDate)
		require.NotNil(t, closed.PnLPercent)
		assert.InDelta(t, 20.0, *closed.PnLPercent, 1e-9)
	})

	t.Run("realized P&L round trips through storage", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestInvestmentService(t, db)

		cases := []struct {
			memo *testutil.MemoBuilder
			exit float64
		}{
			{testutil.NewMemo().WithPrice(187.43), 201.17},
			{testutil.NewMemo().Bearish().WithPrice(63.2), 58.91},
			{testutil.NewMemo().Bearish().WithPrice(12.5), 19.75},
			{testutil.NewMemo().WithPrice(0.37), 0.29},
		}

		for _, c := range cases {
			_, inv := testutil.CreateApprovedInvestment(t, db, c.memo)
			closed, err := svc.CloseInvestment(ctx, inv.ID, c.exit)
			require.NoError(t, err)

			reloaded, err := svc.GetInvestment(ctx, inv.ID)
			require.NoError(t, err)

			want := service.PnLPercent(reloaded.Signal, reloaded.EntryPrice, *reloaded.ExitPrice)
			require.NotNil(t, reloaded.PnLPercent)
			assert.Equal(t, want, *reloaded.PnLPercent)
			assert.Equal(t, *closed.PnLPercent, *reloaded.PnLPercent)
		}
	})

	t.Run("non-positive exit price returns ErrInvalidPrice", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestInvestmentService(t, db)

		_, inv := testutil.CreateApprovedInvestment(t, db, testutil.NewMemo())

		for _, price := range []float64{0, -1} {
			_, err := svc.CloseInvestment(ctx, inv.ID, price)
			assert.ErrorIs(t, err, apperrors.ErrInvalidPrice)
		}

		stored, err := svc.GetInvestment(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, model.InvestmentStatusActive, stored.Status)
	})

	t.Run("unknown investment returns ErrInvestmentNotFound", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestInvestmentService(t, db)

		_, err := svc.CloseInvestment(ctx, testutil.MakeID(), 10)
		assert.ErrorIs(t, err, apperrors.ErrInvestmentNotFound)
	})

	t.Run("closed investment returns ErrAlreadyClosed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestInvestmentService(t, db)

		_, inv := testutil.CreateClosedInvestment(t, db, testutil.NewMemo(), 90)

		_, err := svc.CloseInvestment(ctx, inv.ID, 95)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyClosed)
	})
}

// TestInvestmentService_UpdateCurrentPrice tests the UpdateCurrentPrice method.
//
// WHY: The mark drives unrealized P&L on active positions, while closed positions are immutable.
func TestInvestmentService_UpdateCurrentPrice(t *testing.T) {
	ctx := context.Background()

	t.Run("updates the mark of an active investment", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestInvestmentService(t, db)

		_, inv := testutil.CreateApprovedInvestment(t, db, testutil.NewMemo().Bearish().WithPrice(100))

		updated, ok, err := svc.UpdateCurrentPrice(ctx, inv.ID, 90)
		require.NoError(t, err)
		assert.True(t, ok)
		require.NotNil(t, updated.CurrentPrice)
		assert.InDelta(t, 90.0, *updated.CurrentPrice, 1e-9)
		require.NotNil(t, updated.PriceUpdatedAt)
		require.NotNil(t, updated.PnLPercent)
		assert.InDelta(t, 10.0, *updated.PnLPercent, 1e-9)
	})

	t.Run("closed investment is left untouched without error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestInvestmentService(t, db)

		_, inv := testutil.CreateClosedInvestment(t, db, testutil.NewMemo().WithPrice(100), 110)

		got, ok, err := svc.UpdateCurrentPrice(ctx, inv.ID, 500)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, got.CurrentPrice)
		require.NotNil(t, got.PnLPercent)
		assert.InDelta(t, 10.0, *got.PnLPercent, 1e-9, "closed P&L uses the exit price")
	})

	t.Run("unknown investment returns ErrInvestmentNotFound", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestInvestmentService(t, db)

		_, _, err := svc.UpdateCurrentPrice(ctx, testutil.MakeID(), 10)
		assert.ErrorIs(t, err, apperrors.ErrInvestmentNotFound)
	})

	t.Run("non-positive price returns ErrInvalidPrice", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestInvestmentService(t, db)

		_, inv := testutil.CreateApprovedInvestment(t, db, testutil.NewMemo())

		_, _, err := svc.UpdateCurrentPrice(ctx, inv.ID, 0)
		assert.ErrorIs(t, err, apperrors.ErrInvalidPrice)
	})
}

// TestInvestmentService_OpenInvestment tests the OpenInvestment method.
//
// WHY: At most one position may reference a memo.
func TestInvestmentService_OpenInvestment(t *testing.T) {
	ctx := context.Background()

	t.Run("second open for the same memo returns ErrAlreadyInvested", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestInvestmentService(t, db)

		memo := testutil.NewMemo().WithStatus(model.MemoStatusApproved).Build(t, db)

		inv, err := svc.OpenInvestment(ctx, memo)
		require.NoError(t, err)
		assert.Equal(t, memo.ID, inv.MemoID)

		_, err = svc.OpenInvestment(ctx, memo)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyInvested)
		testutil.AssertRowCount(t, db, "investment", 1)
	})
}

// TestInvestmentService_GetInvestments tests listing and paging investments.
//
// WHY: The ledger list is filtered by status and analyst, in insertion order, and its
// total must agree with the same filter.
func TestInvestmentService_GetInvestments(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestInvestmentService(t, db)

	_, a1 := testutil.CreateApprovedInvestment(t, db, testutil.NewMemo().WithAnalyst("Alice"))
	_, a2 := testutil.CreateClosedInvestment(t, db, testutil.NewMemo().WithAnalyst("Alice"), 130)
	_, b1 := testutil.CreateApprovedInvestment(t, db, testutil.NewMemo().WithAnalyst("Bob"))

	t.Run("no filter returns everything in insertion order", func(t *testing.T) {
		all, err := svc.ListInvestments(ctx, model.InvestmentFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{a1.ID, a2.ID, b1.ID}, []string{all[0].ID, all[1].ID, all[2].ID})
	})

	t.Run("filters by status and analyst", func(t *testing.T) {
		active, err := svc.ListInvestments(ctx, model.InvestmentFilter{Status: model.InvestmentStatusActive, Analyst: "Alice"})
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, a1.ID, active[0].ID)
	})

	t.Run("page reports the filtered total", func(t *testing.T) {
		page := request.Page{Page: 1, PageSize: 1}
		resp, err := svc.GetInvestments(ctx, model.InvestmentFilter{Analyst: "Alice", Limit: page.PageSize, Offset: page.Offset()}, page)
		require.NoError(t, err)
		assert.Len(t, resp.Items, 1)
		assert.Equal(t, 2, resp.Total)
		assert.Equal(t, 1, resp.Page)
	})

	t.Run("detail includes the originating memo", func(t *testing.T) {
		detail, err := svc.GetInvestmentWithMemo(ctx, a2.ID)
		require.NoError(t, err)
		assert.Equal(t, a2.MemoID, detail.Memo.ID)
		assert.Equal(t, model.MemoStatusApproved, detail.Memo.Status)
		require.NotNil(t, detail.PnLPercent)
		assert.InDelta(t, 30.0, *detail.PnLPercent, 1e-9)
	})
}
