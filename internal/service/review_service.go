package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/phuslu/log"

	"github.com/ndewijer/Investment-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Research-Backend/internal/model"
	"github.com/ndewijer/Investment-Research-Backend/internal/repository"
)

// ReviewService is the only path that changes a memo's status.
// Approve couples the status change with opening the investment in a single transaction.
type ReviewService struct {
	db             *sql.DB
	memoRepo       *repository.MemoRepository
	investmentRepo *repository.InvestmentRepository
	logger         *log.Logger
}

// NewReviewService creates a new ReviewService with the provided repository dependencies.
func NewReviewService(
	db *sql.DB,
	memoRepo *repository.MemoRepository,
	investmentRepo *repository.InvestmentRepository,
	logger *log.Logger,
) *ReviewService {
	return &ReviewService{
		db:             db,
		memoRepo:       memoRepo,
		investmentRepo: investmentRepo,
		logger:         logger,
	}
}

// Approve approves a pending memo and opens its investment.
//
// Both writes happen in one transaction: if opening the investment fails the memo stays pending.
// The status write only applies to a pending memo, so concurrent approvals of the same memo
// produce exactly one investment and the others fail with apperrors.ErrInvalidTransition.
//
// Returns:
//   - apperrors.ErrMemoNotFound if the memo does not exist
//   - apperrors.ErrInvalidTransition if the memo is not pending
//   - apperrors.ErrAlreadyInvested if an investment already references the memo
func (s *ReviewService) Approve(ctx context.Context, memoID string) (model.Memo, model.Investment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Memo{}, model.Investment{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	memoRepo := s.memoRepo.WithTx(tx)
	investmentRepo := s.investmentRepo.WithTx(tx)

	memo, err := memoRepo.GetMemo(ctx, memoID)
	if err != nil {
		return model.Memo{}, model.Investment{}, err
	}
	if memo.Status != model.MemoStatusPending {
		return model.Memo{}, model.Investment{}, apperrors.ErrInvalidTransition
	}

	reviewedAt := timestamp()
	if err := memoRepo.UpdateMemoStatus(ctx, memoID, model.MemoStatusApproved, reviewedAt); err != nil {
		return model.Memo{}, model.Investment{}, err
	}

	inv, err := openInvestment(ctx, investmentRepo, memo)
	if err != nil {
		return model.Memo{}, model.Investment{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Memo{}, model.Investment{}, fmt.Errorf("failed to commit approval: %w", err)
	}

	memo.Status = model.MemoStatusApproved
	memo.ReviewedAt = &reviewedAt

	s.logger.Info().
		Str("memo_id", memo.ID).
		Str("investment_id", inv.ID).
		Str("ticker", memo.Ticker).
		Str("analyst", memo.Analyst).
		Float64("entry_price", inv.EntryPrice).
		Msg("memo approved")

	return memo, inv, nil
}

// Reject rejects a pending memo. No investment is created and the decision is final.
//
// Returns apperrors.ErrMemoNotFound if the memo does not exist or
// apperrors.ErrInvalidTransition if it is not pending.
func (s *ReviewService) Reject(ctx context.Context, memoID string) (model.Memo, error) {
	reviewedAt := timestamp()
	if err := s.memoRepo.UpdateMemoStatus(ctx, memoID, model.MemoStatusRejected, reviewedAt); err != nil {
		return model.Memo{}, err
	}

	memo, err := s.memoRepo.GetMemo(ctx, memoID)
	if err != nil {
		return model.Memo{}, err
	}

	s.logger.Info().
		Str("memo_id", memo.ID).
		Str("ticker", memo.Ticker).
		Str("analyst", memo.Analyst).
		Msg("memo rejected")

	return memo, nil
}
