package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Investment-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Research-Backend/internal/testutil"
)

// TestPriceRefreshService_RefreshActive tests the RefreshActive method.
//
// WHY: The price collaborator marks every active position once per ticker, never touches
// closed positions, and one failing ticker must not block the others.
func TestPriceRefreshService_RefreshActive(t *testing.T) {
	ctx := context.Background()

	t.Run("marks active positions and skips closed ones", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		prices := testutil.NewMockPriceSource().
			WithPrice("AAPL", 110).
			WithPrice("MSFT", 95)
		svc := testutil.NewTestPriceRefreshService(t, db, prices)
		ledger := testutil.NewTestInvestmentService(t, db)

		_, aapl1 := testutil.CreateApprovedInvestment(t, db, testutil.NewMemo().WithTicker("AAPL").WithPrice(100))
		_, aapl2 := testutil.CreateApprovedInvestment(t, db, testutil.NewMemo().WithTicker("AAPL").Bearish().WithPrice(100))
		_, msft := testutil.CreateApprovedInvestment(t, db, testutil.NewMemo().WithTicker("MSFT").WithPrice(100))
		_, closed := testutil.CreateClosedInvestment(t, db, testutil.NewMemo().WithTicker("MSFT").WithPrice(100), 120)

		resp, err := svc.RefreshActive(ctx)
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, 3, resp.UpdatedCount)
		assert.Empty(t, resp.Errors)
		assert.Equal(t, 1, prices.Calls("AAPL"), "one lookup per ticker")
		assert.Equal(t, 1, prices.Calls("MSFT"))

		got, err := ledger.GetInvestment(ctx, aapl1.ID)
		require.NoError(t, err)
		require.NotNil(t, got.PnLPercent)
		assert.InDelta(t, 10.0, *got.PnLPercent, 1e-9)

		got, err = ledger.GetInvestment(ctx, aapl2.ID)
		require.NoError(t, err)
		require.NotNil(t, got.PnLPercent)
		assert.InDelta(t, -10.0, *got.PnLPercent, 1e-9)

		got, err = ledger.GetInvestment(ctx, msft.ID)
		require.NoError(t, err)
		require.NotNil(t, got.CurrentPrice)
		assert.InDelta(t, 95.0, *got.CurrentPrice, 1e-9)

		got, err = ledger.GetInvestment(ctx, closed.ID)
		require.NoError(t, err)
		assert.Nil(t, got.CurrentPrice)
		assert.InDelta(t, 20.0, *got.PnLPercent, 1e-9)
	})

	t.Run("failing ticker is reported and the rest still update", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		prices := testutil.NewMockPriceSource().
			WithPrice("AAPL", 110).
			WithError("ZZZZ", errors.New("symbol not found"))
		svc := testutil.NewTestPriceRefreshService(t, db, prices)

		testutil.CreateApprovedInvestment(t, db, testutil.NewMemo().WithTicker("AAPL"))
		testutil.CreateApprovedInvestment(t, db, testutil.NewMemo().WithTicker("ZZZZ"))

		resp, err := svc.RefreshActive(ctx)
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, 1, resp.UpdatedCount)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "ZZZZ", resp.Errors[0].Ticker)
		assert.Contains(t, resp.Errors[0].Error, "symbol not found")
	})

	t.Run("every lookup failing returns ErrFailedToRefreshPrices", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPriceRefreshService(t, db, testutil.NewMockPriceSource())

		testutil.CreateApprovedInvestment(t, db, testutil.NewMemo().WithTicker("AAPL"))

		resp, err := svc.RefreshActive(ctx)
		assert.ErrorIs(t, err, apperrors.ErrFailedToRefreshPrices)
		assert.Len(t, resp.Errors, 1)
	})

	t.Run("no active positions is a no-op", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		prices := testutil.NewMockPriceSource()
		svc := testutil.NewTestPriceRefreshService(t, db, prices)

		resp, err := svc.RefreshActive(ctx)
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Zero(t, resp.UpdatedCount)
		assert.Zero(t, prices.TotalCalls())
	})
}
