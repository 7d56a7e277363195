package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/ndewijer/Investment-Research-Backend/internal/model"
	"github.com/ndewijer/Investment-Research-Backend/internal/repository"
)

// MemoBuilder provides a fluent interface for creating test memos.
//
// Example usage:
//
//	// Pending bullish memo with defaults
//	memo := testutil.NewMemo().Build(t, db)
//
//	// Customized memo
//	memo := testutil.NewMemo().
//	    WithTicker("NVDA").
//	    WithAnalyst("Warren Buffett").
//	    Bearish().
//	    WithConviction(85).
//	    Build(t, db)
type MemoBuilder struct {
	ID           string
	Ticker       string
	Analyst      string
	Signal       string
	Conviction   int
	Thesis       string
	BullCase     []string
	BearCase     []string
	Metrics      model.Metrics
	CurrentPrice float64
	TargetPrice  float64
	TimeHorizon  string
	Enrichment   model.Enrichment
	Status       string
	GeneratedAt  time.Time
	ReviewedAt   *time.Time
}

// NewMemo creates a MemoBuilder with sensible defaults: a pending bullish memo priced at 100.
func NewMemo() *MemoBuilder {
	return &MemoBuilder{
		ID:           MakeID(),
		Ticker:       MakeTicker("T"),
		Analyst:      "Test Analyst",
		Signal:       model.SignalBullish,
		Conviction:   70,
		Thesis:       "Test thesis",
		BullCase:     []string{"Strong margins"},
		BearCase:     []string{"Rich valuation"},
		Metrics:      model.Metrics{"pe_ratio": model.Number(21.5)},
		CurrentPrice: 100.0,
		TargetPrice:  120.0,
		TimeHorizon:  model.HorizonMedium,
		Status:       model.MemoStatusPending,
		GeneratedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}
}

// WithID sets a custom ID.
func (b *MemoBuilder) WithID(id string) *MemoBuilder {
	b.ID = id
	return b
}

// WithTicker sets the ticker.
func (b *MemoBuilder) WithTicker(ticker string) *MemoBuilder {
	b.Ticker = ticker
	return b
}

// WithAnalyst sets the analyst name.
func (b *MemoBuilder) WithAnalyst(analyst string) *MemoBuilder {
	b.Analyst = analyst
	return b
}

// Bearish marks the memo as a bearish thesis.
func (b *MemoBuilder) Bearish() *MemoBuilder {
	b.Signal = model.SignalBearish
	return b
}

// WithConviction sets the conviction score.
func (b *MemoBuilder) WithConviction(conviction int) *MemoBuilder {
	b.Conviction = conviction
	return b
}

// WithPrice sets the current price, which becomes the entry price on approval.
func (b *MemoBuilder) WithPrice(price float64) *MemoBuilder {
	b.CurrentPrice = price
	return b
}

// WithTargetPrice sets the target price.
func (b *MemoBuilder) WithTargetPrice(price float64) *MemoBuilder {
	b.TargetPrice = price
	return b
}

// WithHorizon sets the time horizon.
func (b *MemoBuilder) WithHorizon(horizon string) *MemoBuilder {
	b.TimeHorizon = horizon
	return b
}

// WithMetrics replaces the metrics map.
func (b *MemoBuilder) WithMetrics(metrics model.Metrics) *MemoBuilder {
	b.Metrics = metrics
	return b
}

// WithEnrichment sets the optional enrichment blocks.
func (b *MemoBuilder) WithEnrichment(e model.Enrichment) *MemoBuilder {
	b.Enrichment = e
	return b
}

// WithGeneratedAt sets the generation time.
func (b *MemoBuilder) WithGeneratedAt(at time.Time) *MemoBuilder {
	b.GeneratedAt = at.UTC().Truncate(time.Microsecond)
	return b
}

// WithStatus sets the status directly, bypassing the review flow.
// A non-pending status also stamps ReviewedAt.
func (b *MemoBuilder) WithStatus(status string) *MemoBuilder {
	b.Status = status
	if status != model.MemoStatusPending && b.ReviewedAt == nil {
		now := time.Now().UTC().Truncate(time.Microsecond)
		b.ReviewedAt = &now
	}
	return b
}

// Build creates the memo in the database and returns it.
func (b *MemoBuilder) Build(t *testing.T, db *sql.DB) model.Memo {
	t.Helper()

	memo := model.Memo{
		ID:           b.ID,
		Ticker:       b.Ticker,
		Analyst:      b.Analyst,
		Signal:       b.Signal,
		Conviction:   b.Conviction,
		Thesis:       b.Thesis,
		BullCase:     b.BullCase,
		BearCase:     b.BearCase,
		Metrics:      b.Metrics,
		CurrentPrice: b.CurrentPrice,
		TargetPrice:  b.TargetPrice,
		TimeHorizon:  b.TimeHorizon,
		Enrichment:   b.Enrichment,
		Status:       b.Status,
		GeneratedAt:  b.GeneratedAt,
		ReviewedAt:   b.ReviewedAt,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}

	if err := repository.NewMemoRepository(db).InsertMemo(context.Background(), &memo); err != nil {
		t.Fatalf("Failed to create test memo: %v", err)
	}

	return memo
}

// InvestmentBuilder provides a fluent interface for creating test investments.
// The investment copies ticker, analyst, signal and entry price from its memo.
//
// Example usage:
//
//	memo := testutil.NewMemo().WithStatus(model.MemoStatusApproved).Build(t, db)
//	inv := testutil.NewInvestment(memo).Closed(110).Build(t, db)
type InvestmentBuilder struct {
	ID           string
	Memo         model.Memo
	EntryPrice   float64
	EntryDate    time.Time
	Status       string
	ExitPrice    *float64
	CurrentPrice *float64
}

// NewInvestment creates an active InvestmentBuilder for memo.
func NewInvestment(memo model.Memo) *InvestmentBuilder {
	return &InvestmentBuilder{
		ID:         MakeID(),
		Memo:       memo,
		EntryPrice: memo.CurrentPrice,
		EntryDate:  time.Now().UTC().Truncate(time.Microsecond),
		Status:     model.InvestmentStatusActive,
	}
}

// WithID sets a custom ID.
func (b *InvestmentBuilder) WithID(id string) *InvestmentBuilder {
	b.ID = id
	return b
}

// WithEntryPrice overrides the entry price taken from the memo.
func (b *InvestmentBuilder) WithEntryPrice(price float64) *InvestmentBuilder {
	b.EntryPrice = price
	return b
}

// WithCurrentPrice sets the latest mark.
func (b *InvestmentBuilder) WithCurrentPrice(price float64) *InvestmentBuilder {
	b.CurrentPrice = &price
	return b
}

// Closed marks the investment as closed at exitPrice.
func (b *InvestmentBuilder) Closed(exitPrice float64) *InvestmentBuilder {
	b.Status = model.InvestmentStatusClosed
	b.ExitPrice = &exitPrice
	return b
}

// Build creates the investment in the database and returns it.
func (b *InvestmentBuilder) Build(t *testing.T, db *sql.DB) model.Investment {
	t.Helper()

	inv := model.Investment{
		ID:           b.ID,
		MemoID:       b.Memo.ID,
		Ticker:       b.Memo.Ticker,
		Analyst:      b.Memo.Analyst,
		Signal:       b.Memo.Signal,
		EntryPrice:   b.EntryPrice,
		EntryDate:    b.EntryDate,
		Status:       b.Status,
		ExitPrice:    b.ExitPrice,
		CurrentPrice: b.CurrentPrice,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
	if b.ExitPrice != nil {
		exitDate := b.EntryDate.Add(24 * time.Hour)
		inv.ExitDate = &exitDate
	}
	if b.CurrentPrice != nil {
		updatedAt := inv.CreatedAt
		inv.PriceUpdatedAt = &updatedAt
	}

	if err := repository.NewInvestmentRepository(db).InsertInvestment(context.Background(), &inv); err != nil {
		t.Fatalf("Failed to create test investment: %v", err)
	}

	return inv
}

// WatchlistBuilder provides a fluent interface for creating test watchlists.
type WatchlistBuilder struct {
	ID      string
	Name    string
	Tickers []string
}

// NewWatchlist creates an empty WatchlistBuilder with a unique name.
func NewWatchlist() *WatchlistBuilder {
	return &WatchlistBuilder{
		ID:      MakeID(),
		Name:    "watchlist-" + randomAlphanumeric(6),
		Tickers: []string{},
	}
}

// WithName sets the watchlist name.
func (b *WatchlistBuilder) WithName(name string) *WatchlistBuilder {
	b.Name = name
	return b
}

// WithTickers sets the stored tickers verbatim.
func (b *WatchlistBuilder) WithTickers(tickers ...string) *WatchlistBuilder {
	b.Tickers = tickers
	return b
}

// Build creates the watchlist in the database and returns it.
func (b *WatchlistBuilder) Build(t *testing.T, db *sql.DB) model.Watchlist {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	w := model.Watchlist{
		ID:        b.ID,
		Name:      b.Name,
		Tickers:   b.Tickers,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := repository.NewWatchlistRepository(db).InsertWatchlist(context.Background(), &w); err != nil {
		t.Fatalf("Failed to create test watchlist: %v", err)
	}

	return w
}

// Convenience functions

// CreateApprovedInvestment creates an approved memo and its investment in one step.
//
// Example usage:
//
//	memo, inv := testutil.CreateApprovedInvestment(t, db, testutil.NewMemo().WithAnalyst("Alice"))
func CreateApprovedInvestment(t *testing.T, db *sql.DB, memo *MemoBuilder) (model.Memo, model.Investment) {
	t.Helper()

	m := memo.WithStatus(model.MemoStatusApproved).Build(t, db)
	return m, NewInvestment(m).Build(t, db)
}

// CreateClosedInvestment creates an approved memo and an investment closed at exitPrice.
func CreateClosedInvestment(t *testing.T, db *sql.DB, memo *MemoBuilder, exitPrice float64) (model.Memo, model.Investment) {
	t.Helper()

	m := memo.WithStatus(model.MemoStatusApproved).Build(t, db)
	return m, NewInvestment(m).Closed(exitPrice).Build(t, db)
}
