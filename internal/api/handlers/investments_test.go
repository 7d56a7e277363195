package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Investment-Research-Backend/internal/model"
	"github.com/ndewijer/Investment-Research-Backend/internal/testutil"
)

func setupInvestmentHandler(t *testing.T, prices *testutil.MockPriceSource) (*InvestmentHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	if prices == nil {
		prices = testutil.NewMockPriceSource()
	}
	return NewInvestmentHandler(
		testutil.NewTestInvestmentService(t, db),
		testutil.NewTestPriceRefreshService(t, db, prices),
	), db
}

func TestInvestmentHandler_ListInvestments(t *testing.T) {
	t.Run("returns investments in insertion order with pnl", func(t *testing.T) {
		handler, db := setupInvestmentHandler(t, nil)

		_, first := testutil.CreateClosedInvestment(t, db, testutil.NewMemo().WithPrice(100), 110)
		_, second := testutil.CreateApprovedInvestment(t, db, testutil.NewMemo())

		req := httptest.NewRequest(http.MethodGet, "/api/investment", nil)
		w := httptest.NewRecorder()

		handler.ListInvestments(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.InvestmentListResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Total != 2 || len(response.Items) != 2 {
			t.Fatalf("Expected 2 investments, got total %d items %d", response.Total, len(response.Items))
		}
		if response.Items[0].ID != first.ID || response.Items[1].ID != second.ID {
			t.Errorf("Expected insertion order, got %s then %s", response.Items[0].ID, response.Items[1].ID)
		}
		if response.Items[0].PnLPercent == nil || *response.Items[0].PnLPercent != 10 {
			t.Errorf("Expected closed pnl 10, got %v", response.Items[0].PnLPercent)
		}
		if response.Items[1].PnLPercent != nil {
			t.Errorf("Expected no pnl without a price, got %v", *response.Items[1].PnLPercent)
		}
	})

	t.Run("filters by status", func(t *testing.T) {
		handler, db := setupInvestmentHandler(t, nil)

		testutil.CreateClosedInvestment(t, db, testutil.NewMemo(), 90)
		_, active := testutil.CreateApprovedInvestment(t, db, testutil.NewMemo())

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/investment", map[string]string{"status": "active"})
		w := httptest.NewRecorder()

		handler.ListInvestments(w, req)

		var response model.InvestmentListResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if len(response.Items) != 1 || response.Items[0].ID != active.ID {
			t.Errorf("Expected only the active investment, got %+v", response.Items)
		}
	})

	t.Run("returns 400 for invalid status", func(t *testing.T) {
		handler, _ := setupInvestmentHandler(t, nil)

		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/investment", map[string]string{"status": "pending"})
		w := httptest.NewRecorder()

		handler.ListInvestments(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestInvestmentHandler_GetInvestment(t *testing.T) {
	t.Run("returns investment with its memo", func(t *testing.T) {
		handler, db := setupInvestmentHandler(t, nil)
		memo, inv := testutil.CreateApprovedInvestment(t, db, testutil.NewMemo())

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/investment/"+inv.ID, map[string]string{"uuid": inv.ID})
		w := httptest.NewRecorder()

		handler.GetInvestment(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.InvestmentWithMemo
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.ID != inv.ID || response.Memo.ID != memo.ID {
			t.Errorf("Expected investment %s with memo %s, got %s / %s", inv.ID, memo.ID, response.ID, response.Memo.ID)
		}
	})

	t.Run("returns 404 for unknown investment", func(t *testing.T) {
		handler, _ := setupInvestmentHandler(t, nil)
		id := testutil.MakeID()

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/investment/"+id, map[string]string{"uuid": id})
		w := httptest.NewRecorder()

		handler.GetInvestment(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestInvestmentHandler_CloseInvestment(t *testing.T) {
	closeRequest := func(t *testing.T, id string, body any) *http.Request {
		t.Helper()
		return testutil.NewJSONRequest(t, http.MethodPost, "/api/investment/"+id+"/close", body, map[string]string{"uuid": id})
	}

	t.Run("closes active investment with realized pnl", func(t *testing.T) {
		handler, db := setupInvestmentHandler(t, nil)
		_, inv := testutil.CreateApprovedInvestment(t, db, testutil.NewMemo().WithPrice(100))

		w := httptest.NewRecorder()
		handler.CloseInvestment(w, closeRequest(t, inv.ID, map[string]any{"exitPrice": 110}))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.Investment
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Status != model.InvestmentStatusClosed {
			t.Errorf("Expected closed, got '%s'", response.Status)
		}
		if response.PnLPercent == nil || *response.PnLPercent != 10 {
			t.Errorf("Expected pnl 10, got %v", response.PnLPercent)
		}
		if response.ExitDate == nil {
			t.Error("Expected exit date to be set")
		}
	})

	t.Run("returns 409 when already closed", func(t *testing.T) {
		handler, db := setupInvestmentHandler(t, nil)
		_, inv := testutil.CreateClosedInvestment(t, db, testutil.NewMemo(), 120)

		w := httptest.NewRecorder()
		handler.CloseInvestment(w, closeRequest(t, inv.ID, map[string]any{"exitPrice": 130}))

		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 for non-positive exit price", func(t *testing.T) {
		handler, db := setupInvestmentHandler(t, nil)
		_, inv := testutil.CreateApprovedInvestment(t, db, testutil.NewMemo())

		w := httptest.NewRecorder()
		handler.CloseInvestment(w, closeRequest(t, inv.ID, map[string]any{"exitPrice": 0}))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 when exit price is missing", func(t *testing.T) {
		handler, db := setupInvestmentHandler(t, nil)
		_, inv := testutil.CreateApprovedInvestment(t, db, testutil.NewMemo())

		w := httptest.NewRecorder()
		handler.CloseInvestment(w, closeRequest(t, inv.ID, map[string]any{}))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 404 for unknown investment", func(t *testing.T) {
		handler, _ := setupInvestmentHandler(t, nil)

		w := httptest.NewRecorder()
		handler.CloseInvestment(w, closeRequest(t, testutil.MakeID(), map[string]any{"exitPrice": 100}))

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestInvestmentHandler_UpdatePrice(t *testing.T) {
	priceRequest := func(t *testing.T, id string, price float64) *http.Request {
		t.Helper()
		return testutil.NewJSONRequest(t, http.MethodPut, "/api/investment/"+id+"/price",
			map[string]any{"currentPrice": price}, map[string]string{"uuid": id})
	}

	t.Run("updates active investment", func(t *testing.T) {
		handler, db := setupInvestmentHandler(t, nil)
		_, inv := testutil.CreateApprovedInvestment(t, db, testutil.NewMemo().Bearish().WithPrice(100))

		w := httptest.NewRecorder()
		handler.UpdatePrice(w, priceRequest(t, inv.ID, 80))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response UpdatePriceResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if !response.Updated {
			t.Error("Expected updated=true")
		}
		if response.Investment.PnLPercent == nil || *response.Investment.PnLPercent != 20 {
			t.Errorf("Expected bearish pnl 20, got %v", response.Investment.PnLPercent)
		}
	})

	t.Run("closed investment is left unchanged", func(t *testing.T) {
		handler, db := setupInvestmentHandler(t, nil)
		_, inv := testutil.CreateClosedInvestment(t, db, testutil.NewMemo().WithPrice(100), 110)

		w := httptest.NewRecorder()
		handler.UpdatePrice(w, priceRequest(t, inv.ID, 500))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response UpdatePriceResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Updated {
			t.Error("Expected updated=false for closed investment")
		}
		if response.Investment.PnLPercent == nil || *response.Investment.PnLPercent != 10 {
			t.Errorf("Expected realized pnl to stay 10, got %v", response.Investment.PnLPercent)
		}
	})

	t.Run("returns 400 for negative price", func(t *testing.T) {
		handler, db := setupInvestmentHandler(t, nil)
		_, inv := testutil.CreateApprovedInvestment(t, db, testutil.NewMemo())

		w := httptest.NewRecorder()
		handler.UpdatePrice(w, priceRequest(t, inv.ID, -1))

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestInvestmentHandler_RefreshPrices(t *testing.T) {
	t.Run("refreshes active investments", func(t *testing.T) {
		prices := testutil.NewMockPriceSource()
		handler, db := setupInvestmentHandler(t, prices)

		_, inv := testutil.CreateApprovedInvestment(t, db, testutil.NewMemo().WithTicker("AAPL").WithPrice(100))
		prices.WithPrice("AAPL", 105)

		req := httptest.NewRequest(http.MethodPost, "/api/investment/refresh-prices", nil)
		w := httptest.NewRecorder()

		handler.RefreshPrices(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.PriceRefreshResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if !response.Success || response.UpdatedCount != 1 || response.Updated[0].InvestmentID != inv.ID {
			t.Errorf("Expected one successful update for %s, got %+v", inv.ID, response)
		}
	})

	t.Run("returns 502 when every lookup fails", func(t *testing.T) {
		prices := testutil.NewMockPriceSource()
		handler, db := setupInvestmentHandler(t, prices)

		testutil.CreateApprovedInvestment(t, db, testutil.NewMemo().WithTicker("MSFT"))
		prices.WithError("MSFT", errors.New("quote unavailable"))

		req := httptest.NewRequest(http.MethodPost, "/api/investment/refresh-prices", nil)
		w := httptest.NewRecorder()

		handler.RefreshPrices(w, req)

		if w.Code != http.StatusBadGateway {
			t.Errorf("Expected 502, got %d: %s", w.Code, w.Body.String())
		}
	})
}
