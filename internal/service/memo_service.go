package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Investment-Research-Backend/internal/api/request"
	"github.com/ndewijer/Investment-Research-Backend/internal/model"
	"github.com/ndewijer/Investment-Research-Backend/internal/repository"
)

// MemoService is the read and ingestion side of the memo store.
// Status changes only happen in ReviewService, inside the transaction that also opens the investment.
type MemoService struct {
	db       *sql.DB
	memoRepo *repository.MemoRepository
}

// NewMemoService creates a new MemoService with the provided repository dependencies.
func NewMemoService(db *sql.DB, memoRepo *repository.MemoRepository) *MemoService {
	return &MemoService{
		db:       db,
		memoRepo: memoRepo,
	}
}

// ListMemos returns memos matching the filter, highest conviction first and most recent first within equal conviction.
// Each call is an independent query, so callers may re-query freely.
func (s *MemoService) ListMemos(ctx context.Context, filter model.MemoFilter) ([]model.Memo, error) {
	return s.memoRepo.ListMemos(ctx, filter)
}

// CountMemos returns how many memos match the filter, using the same predicate as ListMemos.
// Limit and offset do not affect the count.
func (s *MemoService) CountMemos(ctx context.Context, filter model.MemoFilter) (int, error) {
	return s.memoRepo.CountMemos(ctx, filter)
}

// GetInbox returns one page of memo summaries together with the total matching the filter.
func (s *MemoService) GetInbox(ctx context.Context, filter model.MemoFilter, page request.Page) (model.MemoListResponse, error) {
	memos, err := s.memoRepo.ListMemos(ctx, filter)
	if err != nil {
		return model.MemoListResponse{}, err
	}
	total, err := s.memoRepo.CountMemos(ctx, filter)
	if err != nil {
		return model.MemoListResponse{}, err
	}

	items := make([]model.MemoSummary, 0, len(memos))
	for _, m := range memos {
		items = append(items, m.Summary())
	}

	return model.MemoListResponse{
		Items:    items,
		Total:    total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}, nil
}

// GetMemo retrieves a memo by ID.
// Returns apperrors.ErrMemoNotFound if it does not exist.
func (s *MemoService) GetMemo(ctx context.Context, memoID string) (model.Memo, error) {
	return s.memoRepo.GetMemo(ctx, memoID)
}

// newMemo builds the pending memo a create request describes.
// The ticker is upper-cased and generatedAt defaults to now.
func newMemo(req request.CreateMemoRequest) *model.Memo {
	now := timestamp()

	id := req.ID
	if id == "" {
		id = uuid.New().String()
	}

	generatedAt := now
	if req.GeneratedAt != nil && !req.GeneratedAt.IsZero() {
		generatedAt = req.GeneratedAt.UTC().Truncate(time.Microsecond)
	}

	conviction := 0
	if req.Conviction != nil {
		conviction = *req.Conviction
	}

	memo := &model.Memo{
		ID:           id,
		Ticker:       strings.ToUpper(strings.TrimSpace(req.Ticker)),
		Analyst:      strings.TrimSpace(req.Analyst),
		Signal:       req.Signal,
		Conviction:   conviction,
		Thesis:       req.Thesis,
		BullCase:     req.BullCase,
		BearCase:     req.BearCase,
		Metrics:      req.Metrics,
		CurrentPrice: req.CurrentPrice,
		TargetPrice:  req.TargetPrice,
		TimeHorizon:  req.TimeHorizon,
		Enrichment: model.Enrichment{
			Catalysts:           req.Catalysts,
			ConvictionBreakdown: req.ConvictionBreakdown,
			MacroContext:        req.MacroContext,
			PositionSizing:      req.PositionSizing,
		},
		Status:      model.MemoStatusPending,
		GeneratedAt: generatedAt,
		CreatedAt:   now,
	}
	if memo.Metrics == nil {
		memo.Metrics = model.Metrics{}
	}
	return memo
}

// CreateMemo stores a memo produced by the generation pipeline. New memos always start pending.
func (s *MemoService) CreateMemo(ctx context.Context, req request.CreateMemoRequest) (*model.Memo, error) {
	memo := newMemo(req)
	if err := s.memoRepo.InsertMemo(ctx, memo); err != nil {
		return nil, fmt.Errorf("failed to create memo: %w", err)
	}
	return memo, nil
}

// CreateMemos stores a batch of memos in one transaction.
// If any insert fails nothing is stored, so a failed batch can be retried as a whole.
//
// Returns apperrors.ErrDuplicateEntry if an ID already exists or repeats within the batch.
func (s *MemoService) CreateMemos(ctx context.Context, reqs []request.CreateMemoRequest) ([]*model.Memo, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	memoRepo := s.memoRepo.WithTx(tx)
	memos := make([]*model.Memo, 0, len(reqs))
	for i, req := range reqs {
		memo := newMemo(req)
		if err := memoRepo.InsertMemo(ctx, memo); err != nil {
			return nil, fmt.Errorf("memo %d (%s): %w", i+1, memo.Ticker, err)
		}
		memos = append(memos, memo)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit memos: %w", err)
	}
	return memos, nil
}
