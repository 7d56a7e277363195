package model

import "time"

// Memo review statuses. Approved and rejected are terminal.
const (
	MemoStatusPending  = "pending"
	MemoStatusApproved = "approved"
	MemoStatusRejected = "rejected"

	// MemoStatusAll disables the status predicate of a MemoFilter.
	MemoStatusAll = "all"
)

// Signals an analyst can attach to a thesis.
const (
	SignalBullish = "bullish"
	SignalBearish = "bearish"
)

// Time horizons for a thesis.
const (
	HorizonShort  = "short"
	HorizonMedium = "medium"
	HorizonLong   = "long"
)

// Memo is a single analyst's investment thesis for one ticker.
// Memos are never deleted; they stay as the audit record for any investment opened from them.
type Memo struct {
	ID           string     `json:"id"`
	Ticker       string     `json:"ticker"`
	Analyst      string     `json:"analyst"`
	Signal       string     `json:"signal"`
	Conviction   int        `json:"conviction"`
	Thesis       string     `json:"thesis"`
	BullCase     []string   `json:"bullCase"`
	BearCase     []string   `json:"bearCase"`
	Metrics      Metrics    `json:"metrics"`
	CurrentPrice float64    `json:"currentPrice"`
	TargetPrice  float64    `json:"targetPrice"`
	TimeHorizon  string     `json:"timeHorizon"`
	Enrichment   Enrichment `json:"enrichment"`
	Status       string     `json:"status"`
	GeneratedAt  time.Time  `json:"generatedAt"`
	ReviewedAt   *time.Time `json:"reviewedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Enrichment holds the optional context the generation pipeline may attach to a memo.
// Position sizing is advisory only.
type Enrichment struct {
	Catalysts           *Value `json:"catalysts,omitempty"`
	ConvictionBreakdown *Value `json:"convictionBreakdown,omitempty"`
	MacroContext        *Value `json:"macroContext,omitempty"`
	PositionSizing      *Value `json:"positionSizing,omitempty"`
}

// MemoSummary is the lightweight inbox row.
type MemoSummary struct {
	ID           string    `json:"id"`
	Ticker       string    `json:"ticker"`
	Analyst      string    `json:"analyst"`
	Signal       string    `json:"signal"`
	Conviction   int       `json:"conviction"`
	CurrentPrice float64   `json:"currentPrice"`
	TargetPrice  float64   `json:"targetPrice"`
	TimeHorizon  string    `json:"timeHorizon"`
	Status       string    `json:"status"`
	GeneratedAt  time.Time `json:"generatedAt"`
}

// Summary returns the inbox row for m.
func (m Memo) Summary() MemoSummary {
	return MemoSummary{
		ID:           m.ID,
		Ticker:       m.Ticker,
		Analyst:      m.Analyst,
		Signal:       m.Signal,
		Conviction:   m.Conviction,
		CurrentPrice: m.CurrentPrice,
		TargetPrice:  m.TargetPrice,
		TimeHorizon:  m.TimeHorizon,
		Status:       m.Status,
		GeneratedAt:  m.GeneratedAt,
	}
}

// MemoFilter selects memos for the inbox list and its counter.
// An empty Status means pending. Zero Limit means no limit.
type MemoFilter struct {
	Status        string
	Analyst       string
	Signal        string
	Ticker        string
	MinConviction int
	Limit         int
	Offset        int
}

// MemoListResponse is a page of inbox rows with the total matching the same filter.
type MemoListResponse struct {
	Items    []MemoSummary `json:"items"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
}

// ApprovalResponse is returned when a memo is approved.
type ApprovalResponse struct {
	Memo       Memo       `json:"memo"`
	Investment Investment `json:"investment"`
	Message    string     `json:"message"`
}

// RejectionResponse is returned when a memo is rejected.
type RejectionResponse struct {
	Memo    Memo   `json:"memo"`
	Message string `json:"message"`
}
