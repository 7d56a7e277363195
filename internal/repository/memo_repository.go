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

const memoColumns = `
	id, ticker, analyst, signal, conviction, thesis, bull_case, bear_case, metrics,
	current_price, target_price, time_horizon, catalysts, conviction_breakdown,
	macro_context, position_sizing, status, generated_at, reviewed_at, created_at
`

// MemoRepository provides data access methods for the memo table.
type MemoRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewMemoRepository creates a new MemoRepository with the provided database connection.
func NewMemoRepository(db *sql.DB) *MemoRepository {
	return &MemoRepository{db: db}
}

// WithTx returns a new MemoRepository scoped to the provided transaction.
func (r *MemoRepository) WithTx(tx *sql.Tx) *MemoRepository {
	return &MemoRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *MemoRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// MemoCounts holds the per-analyst memo tallies used by the leaderboard.
type MemoCounts struct {
	Total    int
	Approved int
}

// memoWhere builds the WHERE clause shared by ListMemos and CountMemos,
// so the inbox counter can never disagree with the inbox list.
// An empty status selects pending memos.
func memoWhere(f model.MemoFilter) (string, []any) {
	var conditions []string
	var args []any

	status := f.Status
	if status == "" {
		status = model.MemoStatusPending
	}
	if status != model.MemoStatusAll {
		conditions = append(conditions, "status = ?")
		args = append(args, status)
	}
	if f.Analyst != "" {
		conditions = append(conditions, "analyst = ?")
		args = append(args, f.Analyst)
	}
	if f.Signal != "" {
		conditions = append(conditions, "signal = ?")
		args = append(args, f.Signal)
	}
	if f.Ticker != "" {
		conditions = append(conditions, "ticker = ?")
		args = append(args, strings.ToUpper(f.Ticker))
	}
	if f.MinConviction > 0 {
		conditions = append(conditions, "conviction >= ?")
		args = append(args, f.MinConviction)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// ListMemos retrieves memos matching the filter ordered by conviction (highest first),
// then generation time (most recent first), then id.
// Returns an empty slice if nothing matches.
func (r *MemoRepository) ListMemos(ctx context.Context, filter model.MemoFilter) ([]model.Memo, error) {
	where, args := memoWhere(filter)
	limit, limitArgs := limitClause(filter.Limit, filter.Offset)

	//#nosec G202 -- Safe: clauses are built from fixed fragments, values are bound
	query := `SELECT ` + memoColumns + ` FROM memo` + where +
		` ORDER BY conviction DESC, generated_at DESC, id ASC` + limit
	args = append(args, limitArgs...)

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query memo table: %w", err)
	}
	defer rows.Close()

	memos := []model.Memo{}
	for rows.Next() {
		m, err := scanMemo(rows)
		if err != nil {
			return nil, err
		}
		memos = append(memos, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating memo table: %w", err)
	}

	return memos, nil
}

// CountMemos returns the number of memos matching the filter. Limit and offset are ignored.
func (r *MemoRepository) CountMemos(ctx context.Context, filter model.MemoFilter) (int, error) {
	where, args := memoWhere(filter)

	var count int
	//#nosec G202 -- Safe: clauses are built from fixed fragments, values are bound
	err := r.getQuerier().QueryRowContext(ctx, `SELECT COUNT(*) FROM memo`+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count memos: %w", err)
	}
	return count, nil
}

// GetMemo retrieves a single memo by ID.
// Returns apperrors.ErrMemoNotFound if no memo has that ID.
func (r *MemoRepository) GetMemo(ctx context.Context, memoID string) (model.Memo, error) {
	query := `SELECT ` + memoColumns + ` FROM memo WHERE id = ?`

	m, err := scanMemo(r.getQuerier().QueryRowContext(ctx, query, memoID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Memo{}, apperrors.ErrMemoNotFound
		}
		return model.Memo{}, err
	}
	return m, nil
}

// InsertMemo stores a new memo.
// Returns apperrors.ErrDuplicateEntry if a memo with the same ID already exists.
func (r *MemoRepository) InsertMemo(ctx context.Context, m *model.Memo) error {
	bullCase, err := encodeJSON(nonNilStrings(m.BullCase))
	if err != nil {
		return err
	}
	bearCase, err := encodeJSON(nonNilStrings(m.BearCase))
	if err != nil {
		return err
	}
	metrics := m.Metrics
	if metrics == nil {
		metrics = model.Metrics{}
	}
	metricsJSON, err := encodeJSON(metrics)
	if err != nil {
		return err
	}

	enrichment := make([]sql.NullString, 0, 4)
	for _, v := range []*model.Value{
		m.Enrichment.Catalysts,
		m.Enrichment.ConvictionBreakdown,
		m.Enrichment.MacroContext,
		m.Enrichment.PositionSizing,
	} {
		if v == nil {
			enrichment = append(enrichment, sql.NullString{})
			continue
		}
		s, err := encodeJSON(v)
		if err != nil {
			return err
		}
		enrichment = append(enrichment, sql.NullString{String: s, Valid: true})
	}

	query := `
		INSERT INTO memo (` + memoColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.getQuerier().ExecContext(ctx, query,
		m.ID,
		m.Ticker,
		m.Analyst,
		m.Signal,
		m.Conviction,
		m.Thesis,
		bullCase,
		bearCase,
		metricsJSON,
		m.CurrentPrice,
		m.TargetPrice,
		m.TimeHorizon,
		enrichment[0],
		enrichment[1],
		enrichment[2],
		enrichment[3],
		m.Status,
		FormatTime(m.GeneratedAt),
		nullTime(m.ReviewedAt),
		FormatTime(m.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("memo %s: %w", m.ID, apperrors.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to insert memo: %w", err)
	}

	return nil
}

// UpdateMemoStatus moves a pending memo to status and stamps reviewed_at.
// The write only applies while the memo is still pending, so of two racing reviewers exactly one wins.
//
// Returns apperrors.ErrMemoNotFound if the memo does not exist, or
// apperrors.ErrInvalidTransition if it has already left pending.
func (r *MemoRepository) UpdateMemoStatus(ctx context.Context, memoID, status string, reviewedAt time.Time) error {
	query := `
		UPDATE memo
		SET status = ?, reviewed_at = ?
		WHERE id = ? AND status = ?
	`

	result, err := r.getQuerier().ExecContext(ctx, query,
		status,
		FormatTime(reviewedAt),
		memoID,
		model.MemoStatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to update memo status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		exists, err := r.memoExists(ctx, memoID)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.ErrMemoNotFound
		}
		return apperrors.ErrInvalidTransition
	}

	return nil
}

// GetMemoCountsByAnalyst returns total and approved memo counts keyed by analyst.
func (r *MemoRepository) GetMemoCountsByAnalyst(ctx context.Context) (map[string]MemoCounts, error) {
	query := `
		SELECT analyst,
			COUNT(*),
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END)
		FROM memo
		GROUP BY analyst
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, model.MemoStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to query memo counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]MemoCounts)
	for rows.Next() {
		var analyst string
		var c MemoCounts
		if err := rows.Scan(&analyst, &c.Total, &c.Approved); err != nil {
			return nil, fmt.Errorf("failed to scan memo counts: %w", err)
		}
		counts[analyst] = c
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating memo counts: %w", err)
	}

	return counts, nil
}

func (r *MemoRepository) memoExists(ctx context.Context, memoID string) (bool, error) {
	var exists bool
	err := r.getQuerier().QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM memo WHERE id = ?)`, memoID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check memo existence: %w", err)
	}
	return exists, nil
}

func scanMemo(s scanner) (model.Memo, error) {
	var m model.Memo
	var bullCase, bearCase, metrics string
	var catalysts, breakdown, macro, sizing sql.NullString
	var generatedAtStr, createdAtStr string
	var reviewedAtStr sql.NullString

	err := s.Scan(
		&m.ID,
		&m.Ticker,
		&m.Analyst,
		&m.Signal,
		&m.Conviction,
		&m.Thesis,
		&bullCase,
		&bearCase,
		&metrics,
		&m.CurrentPrice,
		&m.TargetPrice,
		&m.TimeHorizon,
		&catalysts,
		&breakdown,
		&macro,
		&sizing,
		&m.Status,
		&generatedAtStr,
		&reviewedAtStr,
		&createdAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Memo{}, err
		}
		return model.Memo{}, fmt.Errorf("failed to scan memo table results: %w", err)
	}

	if err := decodeJSON(bullCase, &m.BullCase); err != nil {
		return model.Memo{}, err
	}
	if err := decodeJSON(bearCase, &m.BearCase); err != nil {
		return model.Memo{}, err
	}
	if err := decodeJSON(metrics, &m.Metrics); err != nil {
		return model.Memo{}, err
	}
	if m.Metrics == nil {
		m.Metrics = model.Metrics{}
	}

	for _, col := range []struct {
		raw sql.NullString
		dst **model.Value
	}{
		{catalysts, &m.Enrichment.Catalysts},
		{breakdown, &m.Enrichment.ConvictionBreakdown},
		{macro, &m.Enrichment.MacroContext},
		{sizing, &m.Enrichment.PositionSizing},
	} {
		if !col.raw.Valid {
			continue
		}
		var v model.Value
		if err := decodeJSON(col.raw.String, &v); err != nil {
			return model.Memo{}, err
		}
		*col.dst = &v
	}

	if m.GeneratedAt, err = ParseTime(generatedAtStr); err != nil {
		return model.Memo{}, err
	}
	if m.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.Memo{}, err
	}
	if m.ReviewedAt, err = parseNullTime(reviewedAtStr); err != nil {
		return model.Memo{}, err
	}

	return m, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
