package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/phuslu/log"

	"github.com/ndewijer/Investment-Research-Backend/internal/api/request"
	"github.com/ndewijer/Investment-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Research-Backend/internal/model"
	"github.com/ndewijer/Investment-Research-Backend/internal/repository"
)

// InvestmentService is the investment ledger. Every investment it returns carries a freshly derived PnLPercent.
type InvestmentService struct {
	investmentRepo *repository.InvestmentRepository
	memoRepo       *repository.MemoRepository
	logger         *log.Logger
}

// NewInvestmentService creates a new InvestmentService with the provided repository dependencies.
func NewInvestmentService(
	investmentRepo *repository.InvestmentRepository,
	memoRepo *repository.MemoRepository,
	logger *log.Logger,
) *InvestmentService {
	return &InvestmentService{
		investmentRepo: investmentRepo,
		memoRepo:       memoRepo,
		logger:         logger,
	}
}

// newInvestmentFromMemo builds the active position an approved memo opens.
// Entry price is the memo's current price and entry date is the approval time.
func newInvestmentFromMemo(memo model.Memo) model.Investment {
	now := timestamp()
	return model.Investment{
		ID:         uuid.New().String(),
		MemoID:     memo.ID,
		Ticker:     memo.Ticker,
		Analyst:    memo.Analyst,
		Signal:     memo.Signal,
		EntryPrice: memo.CurrentPrice,
		EntryDate:  now,
		Status:     model.InvestmentStatusActive,
		CreatedAt:  now,
	}
}

// OpenInvestment creates an active investment from memo.
// Returns apperrors.ErrAlreadyInvested if an investment already references the memo.
func (s *InvestmentService) OpenInvestment(ctx context.Context, memo model.Memo) (model.Investment, error) {
	return openInvestment(ctx, s.investmentRepo, memo)
}

func openInvestment(ctx context.Context, repo *repository.InvestmentRepository, memo model.Memo) (model.Investment, error) {
	if memo.CurrentPrice <= 0 {
		return model.Investment{}, fmt.Errorf("memo %s entry price: %w", memo.ID, apperrors.ErrInvalidPrice)
	}

	inv := newInvestmentFromMemo(memo)
	if err := repo.InsertInvestment(ctx, &inv); err != nil {
		return model.Investment{}, err
	}
	return withPnL(inv), nil
}

// ListInvestments returns investments matching the filter in insertion order.
func (s *InvestmentService) ListInvestments(ctx context.Context, filter model.InvestmentFilter) ([]model.Investment, error) {
	investments, err := s.investmentRepo.ListInvestments(ctx, filter)
	if err != nil {
		return nil, err
	}
	return withPnLAll(investments), nil
}

// GetInvestments returns one page of investments together with the total matching the filter.
func (s *InvestmentService) GetInvestments(ctx context.Context, filter model.InvestmentFilter, page request.Page) (model.InvestmentListResponse, error) {
	investments, err := s.ListInvestments(ctx, filter)
	if err != nil {
		return model.InvestmentListResponse{}, err
	}
	total, err := s.investmentRepo.CountInvestments(ctx, filter)
	if err != nil {
		return model.InvestmentListResponse{}, err
	}

	return model.InvestmentListResponse{
		Items:    investments,
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}, nil
}

// GetInvestment retrieves an investment by ID.
// Returns apperrors.ErrInvestmentNotFound if it does not exist.
func (s *InvestmentService) GetInvestment(ctx context.Context, investmentID string) (model.Investment, error) {
	inv, err := s.investmentRepo.GetInvestment(ctx, investmentID)
	if err != nil {
		return model.Investment{}, err
	}
	return withPnL(inv), nil
}

// GetInvestmentWithMemo retrieves an investment together with the memo it was opened from.
func (s *InvestmentService) GetInvestmentWithMemo(ctx context.Context, investmentID string) (model.InvestmentWithMemo, error) {
	inv, err := s.GetInvestment(ctx, investmentID)
	if err != nil {
		return model.InvestmentWithMemo{}, err
	}

	memo, err := s.memoRepo.GetMemo(ctx, inv.MemoID)
	if err != nil {
		return model.InvestmentWithMemo{}, fmt.Errorf("failed to load memo %s of investment %s: %w", inv.MemoID, inv.ID, err)
	}

	return model.InvestmentWithMemo{Investment: inv, Memo: memo}, nil
}

// CloseInvestment closes an active investment at exitPrice, stamping the exit date.
//
// Returns:
//   - apperrors.ErrInvalidPrice if exitPrice is not positive
//   - apperrors.ErrInvestmentNotFound if the investment does not exist
//   - apperrors.ErrAlreadyClosed if it is no longer active
func (s *InvestmentService) CloseInvestment(ctx context.Context, investmentID string, exitPrice float64) (model.Investment, error) {
	if exitPrice <= 0 {
		return model.Investment{}, apperrors.ErrInvalidPrice
	}

	if err := s.investmentRepo.CloseInvestment(ctx, investmentID, exitPrice, timestamp()); err != nil {
		return model.Investment{}, err
	}

	inv, err := s.GetInvestment(ctx, investmentID)
	if err != nil {
		return model.Investment{}, err
	}

	event := s.logger.Info().
		Str("investment_id", inv.ID).
		Str("ticker", inv.Ticker).
		Str("analyst", inv.Analyst).
		Float64("exit_price", exitPrice)
	if inv.PnLPercent != nil {
		event = event.Float64("pnl_percent", *inv.PnLPercent)
	}
	event.Msg("investment closed")

	return inv, nil
}

// UpdateCurrentPrice refreshes the mark of an active investment.
// Closed investments are left untouched and reported with updated=false and no error.
//
// Returns apperrors.ErrInvalidPrice for a non-positive price or
// apperrors.ErrInvestmentNotFound if the investment does not exist.
func (s *InvestmentService) UpdateCurrentPrice(ctx context.Context, investmentID string, price float64) (model.Investment, bool, error) {
	if price <= 0 {
		return model.Investment{}, false, apperrors.ErrInvalidPrice
	}

	updated, err := s.investmentRepo.UpdateCurrentPrice(ctx, investmentID, price, timestamp())
	if err != nil {
		return model.Investment{}, false, err
	}

	inv, err := s.GetInvestment(ctx, investmentID)
	if err != nil {
		return model.Investment{}, false, err
	}

	if !updated {
		s.logger.Debug().Str("investment_id", investmentID).Msg("ignored price update for closed investment")
	}

	return inv, updated, nil
}
