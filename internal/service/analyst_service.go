package service

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Research-Backend/internal/model"
	"github.com/ndewijer/Investment-Research-Backend/internal/repository"
)

// AnalystService derives per-analyst performance from the memo store and the investment ledger.
// It keeps no state of its own; every call recomputes from current rows.
type AnalystService struct {
	db             *sql.DB
	memoRepo       *repository.MemoRepository
	investmentRepo *repository.InvestmentRepository
}

// NewAnalystService creates a new AnalystService with the provided repository dependencies.
func NewAnalystService(
	db *sql.DB,
	memoRepo *repository.MemoRepository,
	investmentRepo *repository.InvestmentRepository,
) *AnalystService {
	return &AnalystService{
		db:             db,
		memoRepo:       memoRepo,
		investmentRepo: investmentRepo,
	}
}

// analystTally accumulates one analyst's investments before rates are derived.
type analystTally struct {
	active      int
	closed      int
	wins        int
	totalReturn decimal.Decimal
}

// snapshot reads memo counts and all investments inside one transaction,
// so a position is never seen both active and closed.
func (s *AnalystService) snapshot(ctx context.Context) (map[string]repository.MemoCounts, []model.Investment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	counts, err := s.memoRepo.WithTx(tx).GetMemoCountsByAnalyst(ctx)
	if err != nil {
		return nil, nil, err
	}
	investments, err := s.investmentRepo.WithTx(tx).ListInvestments(ctx, model.InvestmentFilter{})
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return counts, investments, nil
}

func tallyInvestments(investments []model.Investment) map[string]*analystTally {
	tallies := make(map[string]*analystTally)
	for _, inv := range investments {
		t, ok := tallies[inv.Analyst]
		if !ok {
			t = &analystTally{}
			tallies[inv.Analyst] = t
		}

		if inv.Status != model.InvestmentStatusClosed {
			t.active++
			continue
		}

		pnl, ok := investmentPnL(inv)
		if !ok {
			continue
		}
		t.closed++
		t.totalReturn = t.totalReturn.Add(pnl)
		if pnl.IsPositive() {
			t.wins++
		}
	}
	return tallies
}

// buildStats derives rates from raw tallies. Rates over an empty base are 0.
func buildStats(analyst string, counts repository.MemoCounts, t *analystTally) model.AnalystStats {
	if t == nil {
		t = &analystTally{}
	}

	stats := model.AnalystStats{
		Analyst:       analyst,
		TotalMemos:    counts.Total,
		ApprovedCount: counts.Approved,
		ActiveCount:   t.active,
		ClosedCount:   t.closed,
		WinCount:      t.wins,
		TotalReturn:   round(t.totalReturn),
	}

	if t.closed > 0 {
		closed := decimal.NewFromInt(int64(t.closed))
		stats.WinRate = round(decimal.NewFromInt(int64(t.wins)).Div(closed).Mul(hundred))
		stats.AvgReturn = round(t.totalReturn.Div(closed))
	}
	if counts.Total > 0 {
		stats.ApprovalRate = round(decimal.NewFromInt(int64(counts.Approved)).Div(decimal.NewFromInt(int64(counts.Total))).Mul(hundred))
	}

	return stats
}

// rankAnalysts sorts stats descending by sortBy, breaking ties by analyst name ascending.
func rankAnalysts(stats []model.AnalystStats, sortBy string) error {
	var key func(model.AnalystStats) float64
	switch sortBy {
	case "", model.SortByWinRate:
		key = func(a model.AnalystStats) float64 { return a.WinRate }
	case model.SortByAvgReturn:
		key = func(a model.AnalystStats) float64 { return a.AvgReturn }
	case model.SortByTotalMemos:
		key = func(a model.AnalystStats) float64 { return float64(a.TotalMemos) }
	default:
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidSortKey, sortBy)
	}

	slices.SortFunc(stats, func(a, b model.AnalystStats) int {
		if c := cmp.Compare(key(b), key(a)); c != 0 {
			return c
		}
		return cmp.Compare(a.Analyst, b.Analyst)
	})
	return nil
}

// GetLeaderboard ranks every analyst with at least one investment.
// sortBy is win_rate (default), avg_return or total_memos. A limit of 0 returns all analysts.
//
// Returns apperrors.ErrInvalidSortKey for any other sort key.
func (s *AnalystService) GetLeaderboard(ctx context.Context, sortBy string, limit int) ([]model.AnalystStats, error) {
	if sortBy == "" {
		sortBy = model.SortByWinRate
	}
	// Reject bad keys before touching the database.
	if err := rankAnalysts(nil, sortBy); err != nil {
		return nil, err
	}

	counts, investments, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	tallies := tallyInvestments(investments)
	stats := make([]model.AnalystStats, 0, len(tallies))
	for analyst, t := range tallies {
		stats = append(stats, buildStats(analyst, counts[analyst], t))
	}

	if err := rankAnalysts(stats, sortBy); err != nil {
		return nil, err
	}

	if limit > 0 && len(stats) > limit {
		stats = stats[:limit]
	}
	return stats, nil
}

// GetAnalystStats returns the stats of one analyst, who needs at least one memo.
// Returns apperrors.ErrAnalystNotFound otherwise.
func (s *AnalystService) GetAnalystStats(ctx context.Context, analyst string) (model.AnalystStats, error) {
	counts, investments, err := s.snapshot(ctx)
	if err != nil {
		return model.AnalystStats{}, err
	}

	c, ok := counts[analyst]
	if !ok {
		return model.AnalystStats{}, apperrors.ErrAnalystNotFound
	}

	mine := make([]model.Investment, 0)
	for _, inv := range investments {
		if inv.Analyst == analyst {
			mine = append(mine, inv)
		}
	}

	return buildStats(analyst, c, tallyInvestments(mine)[analyst]), nil
}
