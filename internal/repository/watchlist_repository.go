package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/Investment-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Research-Backend/internal/model"
)

// WatchlistRepository provides data access methods for the watchlist table.
type WatchlistRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewWatchlistRepository creates a new WatchlistRepository with the provided database connection.
func NewWatchlistRepository(db *sql.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// WithTx returns a new WatchlistRepository scoped to the provided transaction.
func (r *WatchlistRepository) WithTx(tx *sql.Tx) *WatchlistRepository {
	return &WatchlistRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *WatchlistRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetWatchlistByName retrieves a watchlist by its unique name.
// Returns apperrors.ErrWatchlistNotFound if it does not exist.
func (r *WatchlistRepository) GetWatchlistByName(ctx context.Context, name string) (model.Watchlist, error) {
	query := `
		SELECT id, name, tickers, last_scan_at, created_at, updated_at
		FROM watchlist
		WHERE name = ?
	`

	var w model.Watchlist
	var tickers, createdAtStr, updatedAtStr string
	var lastScanStr sql.NullString

	err := r.getQuerier().QueryRowContext(ctx, query, name).Scan(
		&w.ID,
		&w.Name,
		&tickers,
		&lastScanStr,
		&createdAtStr,
		&updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Watchlist{}, apperrors.ErrWatchlistNotFound
		}
		return model.Watchlist{}, fmt.Errorf("failed to query watchlist table: %w", err)
	}

	if err := decodeJSON(tickers, &w.Tickers); err != nil {
		return model.Watchlist{}, err
	}
	if w.Tickers == nil {
		w.Tickers = []string{}
	}
	if w.LastScanAt, err = parseNullTime(lastScanStr); err != nil {
		return model.Watchlist{}, err
	}
	if w.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.Watchlist{}, err
	}
	if w.UpdatedAt, err = ParseTime(updatedAtStr); err != nil {
		return model.Watchlist{}, err
	}

	return w, nil
}

// InsertWatchlist stores a new watchlist.
// Returns apperrors.ErrDuplicateEntry if the name is taken.
func (r *WatchlistRepository) InsertWatchlist(ctx context.Context, w *model.Watchlist) error {
	tickers, err := encodeJSON(nonNilStrings(w.Tickers))
	if err != nil {
		return err
	}

	query := `
		INSERT INTO watchlist (id, name, tickers, last_scan_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.getQuerier().ExecContext(ctx, query,
		w.ID,
		w.Name,
		tickers,
		nullTime(w.LastScanAt),
		FormatTime(w.CreatedAt),
		FormatTime(w.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("watchlist %s: %w", w.Name, apperrors.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to insert watchlist: %w", err)
	}

	return nil
}

// UpdateWatchlistTickers replaces the ticker list of a watchlist.
func (r *WatchlistRepository) UpdateWatchlistTickers(ctx context.Context, watchlistID string, tickers []string, updatedAt time.Time) error {
	encoded, err := encodeJSON(nonNilStrings(tickers))
	if err != nil {
		return err
	}

	result, err := r.getQuerier().ExecContext(ctx,
		`UPDATE watchlist SET tickers = ?, updated_at = ? WHERE id = ?`,
		encoded,
		FormatTime(updatedAt),
		watchlistID,
	)
	if err != nil {
		return fmt.Errorf("failed to update watchlist: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrWatchlistNotFound
	}

	return nil
}

// UpdateLastScan stamps the time the generation pipeline last scanned the named watchlist.
func (r *WatchlistRepository) UpdateLastScan(ctx context.Context, name string, at time.Time) error {
	result, err := r.getQuerier().ExecContext(ctx,
		`UPDATE watchlist SET last_scan_at = ?, updated_at = ? WHERE name = ?`,
		FormatTime(at),
		FormatTime(at),
		name,
	)
	if err != nil {
		return fmt.Errorf("failed to update watchlist scan time: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrWatchlistNotFound
	}

	return nil
}
