package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Investment-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Research-Backend/internal/model"
)

const investmentColumns = `
	id, memo_id, ticker, analyst, signal, entry_price, entry_date, status,
	exit_price, exit_date, current_price, price_updated_at, created_at
`

// InvestmentRepository provides data access methods for the investment table.
// Rows are only ever inserted or moved from active to closed; nothing is deleted.
type InvestmentRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewInvestmentRepository creates a new InvestmentRepository with the provided database connection.
func NewInvestmentRepository(db *sql.DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

// WithTx returns a new InvestmentRepository scoped to the provided transaction.
func (r *InvestmentRepository) WithTx(tx *sql.Tx) *InvestmentRepository {
	return &InvestmentRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *InvestmentRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func investmentWhere(f model.InvestmentFilter) (string, []any) {
	var conditions []string
	var args []any

	if f.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, f.Status)
	}
	if f.Analyst != "" {
		conditions = append(conditions, "analyst = ?")
		args = append(args, f.Analyst)
	}
	if f.Ticker != "" {
		conditions = append(conditions, "ticker = ?")
		args = append(args, strings.ToUpper(f.Ticker))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// ListInvestments retrieves investments matching the filter in insertion order.
// Returns an empty slice if nothing matches.
func (r *InvestmentRepository) ListInvestments(ctx context.Context, filter model.InvestmentFilter) ([]model.Investment, error) {
	where, args := investmentWhere(filter)
	limit, limitArgs := limitClause(filter.Limit, filter.Offset)

	//#nosec G202 -- Safe: clauses are built from fixed fragments, values are bound
	query := `SELECT ` + investmentColumns + ` FROM investment` + where +
		` ORDER BY created_at ASC, rowid ASC` + limit
	args = append(args, limitArgs...)

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query investment table: %w", err)
	}
	defer rows.Close()

	investments := []model.Investment{}
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, err
		}
		investments = append(investments, inv)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating investment table: %w", err)
	}

	return investments, nil
}

// CountInvestments returns the number of investments matching the filter. Limit and offset are ignored.
func (r *InvestmentRepository) CountInvestments(ctx context.Context, filter model.InvestmentFilter) (int, error) {
	where, args := investmentWhere(filter)

	var count int
	//#nosec G202 -- Safe: clauses are built from fixed fragments, values are bound
	err := r.getQuerier().QueryRowContext(ctx, `SELECT COUNT(*) FROM investment`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count investments: %w", err)
	}
	return count, nil
}

// GetInvestment retrieves a single investment by ID.
// Returns apperrors.ErrInvestmentNotFound if no investment has that ID.
func (r *InvestmentRepository) GetInvestment(ctx context.Context, investmentID string) (model.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investment WHERE id = ?`
	return r.getOne(ctx, query, investmentID)
}

// GetInvestmentByMemoID retrieves the investment opened from the given memo.
// Returns apperrors.ErrInvestmentNotFound if the memo has none.
func (r *InvestmentRepository) GetInvestmentByMemoID(ctx context.Context, memoID string) (model.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investment WHERE memo_id = ?`
	return r.getOne(ctx, query, memoID)
}

func (r *InvestmentRepository) getOne(ctx context.Context, query string, arg string) (model.Investment, error) {
	inv, err := scanInvestment(r.getQuerier().QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Investment{}, apperrors.ErrInvestmentNotFound
		}
		return model.Investment{}, err
	}
	return inv, nil
}

// InsertInvestment stores a new investment.
// Returns apperrors.ErrAlreadyInvested if an investment already references the same memo.
func (r *InvestmentRepository) InsertInvestment(ctx context.Context, inv *model.Investment) error {
	query := `
		INSERT INTO investment (` + investmentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		inv.ID,
		inv.MemoID,
		inv.Ticker,
		inv.Analyst,
		inv.Signal,
		inv.EntryPrice,
		FormatTime(inv.EntryDate),
		inv.Status,
		inv.ExitPrice,
		nullTime(inv.ExitDate),
		inv.CurrentPrice,
		nullTime(inv.PriceUpdatedAt),
		FormatTime(inv.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) && strings.Contains(err.Error(), "memo_id") {
			return fmt.Errorf("memo %s: %w", inv.MemoID, apperrors.ErrAlreadyInvested)
		}
		if isUniqueViolation(err) {
			return fmt.Errorf("investment %s: %w", inv.ID, apperrors.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to insert investment: %w", err)
	}

	return nil
}

// CloseInvestment records the exit of an active investment.
// The write only applies while the investment is active, so a position is closed exactly once.
//
// Returns apperrors.ErrInvestmentNotFound if the investment does not exist, or
// apperrors.ErrAlreadyClosed if it is no longer active.
func (r *InvestmentRepository) CloseInvestment(ctx context.Context, investmentID string, exitPrice float64, exitDate time.Time) error {
	query := `
		UPDATE investment
		SET status = ?, exit_price = ?, exit_date = ?
		WHERE id = ? AND status = ?
	`

	result, err := r.getQuerier().ExecContext(ctx, query,
		model.InvestmentStatusClosed,
		exitPrice,
		FormatTime(exitDate),
		investmentID,
		model.InvestmentStatusActive,
	)
	if err != nil {
		return fmt.Errorf("failed to close investment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		exists, err := r.investmentExists(ctx, investmentID)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.ErrInvestmentNotFound
		}
		return apperrors.ErrAlreadyClosed
	}

	return nil
}

// UpdateCurrentPrice stores the latest mark of an active investment.
// It reports false without error when the investment is closed, since closed rows are immutable.
//
// Returns apperrors.ErrInvestmentNotFound if the investment does not exist.
func (r *InvestmentRepository) UpdateCurrentPrice(ctx context.Context, investmentID string, price float64, at time.Time) (bool, error) {
	query := `
		UPDATE investment
		SET current_price = ?, price_updated_at = ?
		WHERE id = ? AND status = ?
	`

	result, err := r.getQuerier().ExecContext(ctx, query,
		price,
		FormatTime(at),
		investmentID,
		model.InvestmentStatusActive,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update current price: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		exists, err := r.investmentExists(ctx, investmentID)
		if err != nil {
			return false, err
		}
		if !exists {
			return false, apperrors.ErrInvestmentNotFound
		}
		return false, nil
	}

	return true, nil
}

func (r *InvestmentRepository) investmentExists(ctx context.Context, investmentID string) (bool, error) {
	var exists bool
	err := r.getQuerier().QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM investment WHERE id = ?)`, investmentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check investment existence: %w", err)
	}
	return exists, nil
}

func scanInvestment(s scanner) (model.Investment, error) {
	var inv model.Investment
	var entryDateStr, createdAtStr string
	var exitPrice, currentPrice sql.NullFloat64
	var exitDateStr, priceUpdatedAtStr sql.NullString

	err := s.Scan(
		&inv.ID,
		&inv.MemoID,
		&inv.Ticker,
		&inv.Analyst,
		&inv.Signal,
		&inv.EntryPrice,
		&entryDateStr,
		&inv.Status,
		&exitPrice,
		&exitDateStr,
		&currentPrice,
		&priceUpdatedAtStr,
		&createdAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Investment{}, err
		}
		return model.Investment{}, fmt.Errorf("failed to scan investment table results: %w", err)
	}

	inv.ExitPrice = nullFloat(exitPrice)
	inv.CurrentPrice = nullFloat(currentPrice)

	if inv.EntryDate, err = ParseTime(entryDateStr); err != nil {
		return model.Investment{}, err
	}
	if inv.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.Investment{}, err
	}
	if inv.ExitDate, err = parseNullTime(exitDateStr); err != nil {
		return model.Investment{}, err
	}
	if inv.PriceUpdatedAt, err = parseNullTime(priceUpdatedAtStr); err != nil {
		return model.Investment{}, err
	}

	return inv, nil
}
