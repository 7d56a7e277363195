package request

import (
	"testing"

	"github.com/ndewijer/Investment-Research-Backend/internal/model"
)

func TestParseMemoFilter(t *testing.T) {
	t.Run("default values when no parameters provided", func(t *testing.T) {
		filter, page, err := ParseMemoFilter(MemoFilterParams{})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if filter.Status != "" {
			t.Errorf("Expected empty status (pending by default), got '%s'", filter.Status)
		}
		if page.Page != 1 || page.PageSize != 20 {
			t.Errorf("Expected page 1 size 20, got %+v", page)
		}
		if filter.Limit != 20 || filter.Offset != 0 {
			t.Errorf("Expected limit 20 offset 0, got %d/%d", filter.Limit, filter.Offset)
		}
	})

	t.Run("all filters", func(t *testing.T) {
		filter, page, err := ParseMemoFilter(MemoFilterParams{
			Status:        "Approved",
			Analyst:       "warren_buffett",
			Signal:        "BEARISH",
			Ticker:        " nvda ",
			MinConviction: "70",
			Page:          "3",
			PageSize:      "10",
		})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if filter.Status != model.MemoStatusApproved {
			t.Errorf("Expected status approved, got '%s'", filter.Status)
		}
		if filter.Signal != model.SignalBearish {
			t.Errorf("Expected signal bearish, got '%s'", filter.Signal)
		}
		if filter.Ticker != "NVDA" {
			t.Errorf("Expected ticker NVDA, got '%s'", filter.Ticker)
		}
		if filter.MinConviction != 70 {
			t.Errorf("Expected min conviction 70, got %d", filter.MinConviction)
		}
		if page.Page != 3 || filter.Offset != 20 || filter.Limit != 10 {
			t.Errorf("Expected offset 20 limit 10, got %d/%d", filter.Offset, filter.Limit)
		}
	})

	t.Run("invalid values return error", func(t *testing.T) {
		cases := map[string]MemoFilterParams{
			"status":         {Status: "archived"},
			"signal":         {Signal: "neutral"},
			"min_conviction": {MinConviction: "101"},
			"not a number":   {MinConviction: "high"},
			"page":           {Page: "0"},
			"page_size":      {PageSize: "500"},
		}
		for name, params := range cases {
			t.Run(name, func(t *testing.T) {
				if _, _, err := ParseMemoFilter(params); err == nil {
					t.Errorf("Expected error for %+v, got nil", params)
				}
			})
		}
	})
}

func TestParseInvestmentFilter(t *testing.T) {
	t.Run("status and ticker are normalised", func(t *testing.T) {
		filter, _, err := ParseInvestmentFilter("ACTIVE", "", "aapl", "", "")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if filter.Status != model.InvestmentStatusActive || filter.Ticker != "AAPL" {
			t.Errorf("Unexpected filter %+v", filter)
		}
	})

	t.Run("invalid status returns error", func(t *testing.T) {
		if _, _, err := ParseInvestmentFilter("pending", "", "", "", ""); err == nil {
			t.Error("Expected error for invalid status, got nil")
		}
	})
}

func TestParseLeaderboardParams(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		sortBy, limit, err := ParseLeaderboardParams("", "")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if sortBy != model.SortByWinRate || limit != 10 {
			t.Errorf("Expected win_rate/10, got %s/%d", sortBy, limit)
		}
	})

	t.Run("explicit values", func(t *testing.T) {
		sortBy, limit, err := ParseLeaderboardParams("total_memos", "25")
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if sortBy != model.SortByTotalMemos || limit != 25 {
			t.Errorf("Expected total_memos/25, got %s/%d", sortBy, limit)
		}
	})

	t.Run("unknown sort key", func(t *testing.T) {
		if _, _, err := ParseLeaderboardParams("total_return", ""); err == nil {
			t.Error("Expected error for unknown sort key, got nil")
		}
	})
}
