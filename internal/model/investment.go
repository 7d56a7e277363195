package model

import "time"

// Investment statuses.
const (
	InvestmentStatusActive = "active"
	InvestmentStatusClosed = "closed"
)

// Investment is a tracked position opened from an approved memo.
// MemoID is a lookup key only. PnLPercent is derived on read and never stored.
type Investment struct {
	ID             string     `json:"id"`
	MemoID         string     `json:"memoId"`
	Ticker         string     `json:"ticker"`
	Analyst        string     `json:"analyst"`
	Signal         string     `json:"signal"`
	EntryPrice     float64    `json:"entryPrice"`
	EntryDate      time.Time  `json:"entryDate"`
	Status         string     `json:"status"`
	ExitPrice      *float64   `json:"exitPrice,omitempty"`
	ExitDate       *time.Time `json:"exitDate,omitempty"`
	CurrentPrice   *float64   `json:"currentPrice,omitempty"`
	PriceUpdatedAt *time.Time `json:"priceUpdatedAt,omitempty"`
	PnLPercent     *float64   `json:"pnlPercent,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// ReferencePrice is the price P&L is measured against: the exit price once closed,
// otherwise the latest mark. Nil when no mark has been supplied yet.
func (i Investment) ReferencePrice() *float64 {
	if i.Status == InvestmentStatusClosed {
		return i.ExitPrice
	}
	return i.CurrentPrice
}

// InvestmentFilter selects investments. Zero Limit means no limit.
type InvestmentFilter struct {
	Status  string
	Analyst string
	Ticker  string
	Limit   int
	Offset  int
}

// InvestmentWithMemo is an investment alongside the memo it was opened from.
type InvestmentWithMemo struct {
	Investment
	Memo Memo `json:"memo"`
}

// InvestmentListResponse is a page of investments with the total matching the same filter.
type InvestmentListResponse struct {
	Items    []Investment `json:"items"`
	Total    int          `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"pageSize"`
}
