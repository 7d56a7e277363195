package request

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ndewijer/Investment-Research-Backend/internal/model"
)

// Pagination defaults shared by the list endpoints.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	DefaultLeaderboardLimit = 10
)

// Page is a validated page/page_size pair.
type Page struct {
	Page     int
	PageSize int
}

// Offset returns the row offset of the page.
func (p Page) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ParsePage parses page (>= 1, default 1) and page_size (1..100, default 20).
func ParsePage(pageParam, pageSizeParam string) (Page, error) {
	p := Page{Page: DefaultPage, PageSize: DefaultPageSize}

	if pageParam != "" {
		page, err := strconv.Atoi(pageParam)
		if err != nil {
			return Page{}, fmt.Errorf("invalid page: must be a number")
		}
		if page < 1 {
			return Page{}, fmt.Errorf("invalid page: must be at least 1")
		}
		p.Page = page
	}

	if pageSizeParam != "" {
		size, err := strconv.Atoi(pageSizeParam)
		if err != nil {
			return Page{}, fmt.Errorf("invalid page_size: must be a number")
		}
		if size < 1 || size > MaxPageSize {
			return Page{}, fmt.Errorf("invalid page_size: must be between 1 and %d", MaxPageSize)
		}
		p.PageSize = size
	}

	return p, nil
}

// MemoFilterParams are the raw query parameters of the memo inbox endpoints.
type MemoFilterParams struct {
	Status        string
	Analyst       string
	Signal        string
	Ticker        string
	MinConviction string
	Page          string
	PageSize      string
}

// ParseMemoFilter validates the inbox query parameters.
//
// Validation rules:
//   - status: pending, approved, rejected or all (defaults to pending)
//   - signal: bullish or bearish
//   - min_conviction: integer between 0 and 100
//   - page/page_size: see ParsePage
func ParseMemoFilter(params MemoFilterParams) (model.MemoFilter, Page, error) {
	filter := model.MemoFilter{
		Analyst: strings.TrimSpace(params.Analyst),
		Ticker:  strings.ToUpper(strings.TrimSpace(params.Ticker)),
	}

	if params.Status != "" {
		status := strings.ToLower(params.Status)
		switch status {
		case model.MemoStatusPending, model.MemoStatusApproved, model.MemoStatusRejected, model.MemoStatusAll:
			filter.Status = status
		default:
			return model.MemoFilter{}, Page{}, fmt.Errorf("invalid status: %s", params.Status)
		}
	}

	if params.Signal != "" {
		signal := strings.ToLower(params.Signal)
		if signal != model.SignalBullish && signal != model.SignalBearish {
			return model.MemoFilter{}, Page{}, fmt.Errorf("invalid signal: %s", params.Signal)
		}
		filter.Signal = signal
	}

	if params.MinConviction != "" {
		c, err := strconv.Atoi(params.MinConviction)
		if err != nil || c < 0 || c > 100 {
			return model.MemoFilter{}, Page{}, fmt.Errorf("invalid min_conviction: must be between 0 and 100")
		}
		filter.MinConviction = c
	}

	page, err := ParsePage(params.Page, params.PageSize)
	if err != nil {
		return model.MemoFilter{}, Page{}, err
	}
	filter.Limit = page.PageSize
	filter.Offset = page.Offset()

	return filter, page, nil
}

// ParseInvestmentFilter validates the investment list query parameters.
func ParseInvestmentFilter(statusParam, analystParam, tickerParam, pageParam, pageSizeParam string) (model.InvestmentFilter, Page, error) {
	filter := model.InvestmentFilter{
		Analyst: strings.TrimSpace(analystParam),
		Ticker:  strings.ToUpper(strings.TrimSpace(tickerParam)),
	}

	if statusParam != "" {
		status := strings.ToLower(statusParam)
		if status != model.InvestmentStatusActive && status != model.InvestmentStatusClosed {
			return model.InvestmentFilter{}, Page{}, fmt.Errorf("invalid status: %s", statusParam)
		}
		filter.Status = status
	}

	page, err := ParsePage(pageParam, pageSizeParam)
	if err != nil {
		return model.InvestmentFilter{}, Page{}, err
	}
	filter.Limit = page.PageSize
	filter.Offset = page.Offset()

	return filter, page, nil
}

// ParseLeaderboardParams validates sort_by (defaults to win_rate) and limit (1..100, defaults to 10).
func ParseLeaderboardParams(sortByParam, limitParam string) (string, int, error) {
	sortBy := model.SortByWinRate
	if sortByParam != "" {
		sortBy = strings.ToLower(sortByParam)
		switch sortBy {
		case model.SortByWinRate, model.SortByAvgReturn, model.SortByTotalMemos:
		default:
			return "", 0, fmt.Errorf("invalid sort_by: must be one of win_rate, avg_return, total_memos")
		}
	}

	limit := DefaultLeaderboardLimit
	if limitParam != "" {
		l, err := strconv.Atoi(limitParam)
		if err != nil || l < 1 || l > MaxPageSize {
			return "", 0, fmt.Errorf("invalid limit: must be between 1 and %d", MaxPageSize)
		}
		limit = l
	}

	return sortBy, limit, nil
}
