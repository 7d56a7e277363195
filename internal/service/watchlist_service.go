package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/ndewijer/Investment-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Research-Backend/internal/model"
	"github.com/ndewijer/Investment-Research-Backend/internal/repository"
)

// WatchlistService manages the ticker lists the memo generation pipeline scans.
// Tickers are stored upper-cased, de-duplicated and sorted.
type WatchlistService struct {
	db            *sql.DB
	watchlistRepo *repository.WatchlistRepository
}

// NewWatchlistService creates a new WatchlistService with the provided repository dependencies.
func NewWatchlistService(db *sql.DB, watchlistRepo *repository.WatchlistRepository) *WatchlistService {
	return &WatchlistService{
		db:            db,
		watchlistRepo: watchlistRepo,
	}
}

func watchlistName(name string) string {
	if name = strings.TrimSpace(name); name == "" {
		return model.DefaultWatchlist
	}
	return name
}

func normalizeTickers(tickers []string) []string {
	seen := make(map[string]struct{}, len(tickers))
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// GetWatchlist returns the named watchlist. The default watchlist is created empty on first access.
// Returns apperrors.ErrWatchlistNotFound for any other unknown name.
func (s *WatchlistService) GetWatchlist(ctx context.Context, name string) (model.Watchlist, error) {
	name = watchlistName(name)

	w, err := s.watchlistRepo.GetWatchlistByName(ctx, name)
	if errors.Is(err, apperrors.ErrWatchlistNotFound) && name == model.DefaultWatchlist {
		return s.modify(ctx, name, func(current []string) []string { return current })
	}
	return w, err
}

// AddTickers merges tickers into the named watchlist, creating it if needed.
func (s *WatchlistService) AddTickers(ctx context.Context, name string, tickers []string) (model.Watchlist, error) {
	return s.modify(ctx, watchlistName(name), func(current []string) []string {
		return normalizeTickers(append(current, tickers...))
	})
}

// RemoveTickers drops tickers from the named watchlist.
// Returns apperrors.ErrWatchlistNotFound if the watchlist does not exist.
func (s *WatchlistService) RemoveTickers(ctx context.Context, name string, tickers []string) (model.Watchlist, error) {
	name = watchlistName(name)
	if _, err := s.watchlistRepo.GetWatchlistByName(ctx, name); err != nil {
		return model.Watchlist{}, err
	}

	drop := make(map[string]struct{}, len(tickers))
	for _, t := range normalizeTickers(tickers) {
		drop[t] = struct{}{}
	}
	return s.modify(ctx, name, func(current []string) []string {
		kept := make([]string, 0, len(current))
		for _, t := range current {
			if _, ok := drop[t]; !ok {
				kept = append(kept, t)
			}
		}
		return kept
	})
}

// SetTickers replaces the tickers of the named watchlist, creating it if needed.
func (s *WatchlistService) SetTickers(ctx context.Context, name string, tickers []string) (model.Watchlist, error) {
	return s.modify(ctx, watchlistName(name), func([]string) []string {
		return normalizeTickers(tickers)
	})
}

// MarkScanned records that the generation pipeline finished scanning the named watchlist.
func (s *WatchlistService) MarkScanned(ctx context.Context, name string) (model.Watchlist, error) {
	name = watchlistName(name)
	if err := s.watchlistRepo.UpdateLastScan(ctx, name, timestamp()); err != nil {
		return model.Watchlist{}, err
	}
	return s.watchlistRepo.GetWatchlistByName(ctx, name)
}

// modify applies change to the current tickers of the named watchlist inside one transaction,
// creating the watchlist when it does not exist yet.
func (s *WatchlistService) modify(ctx context.Context, name string, change func([]string) []string) (model.Watchlist, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Watchlist{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	repo := s.watchlistRepo.WithTx(tx)
	now := timestamp()

	w, err := repo.GetWatchlistByName(ctx, name)
	switch {
	case errors.Is(err, apperrors.ErrWatchlistNotFound):
		w = model.Watchlist{
			ID:        uuid.New().String(),
			Name:      name,
			Tickers:   change([]string{}),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repo.InsertWatchlist(ctx, &w); err != nil {
			return model.Watchlist{}, err
		}
	case err != nil:
		return model.Watchlist{}, err
	default:
		w.Tickers = change(w.Tickers)
		w.UpdatedAt = now
		if err := repo.UpdateWatchlistTickers(ctx, w.ID, w.Tickers, now); err != nil {
			return model.Watchlist{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return model.Watchlist{}, fmt.Errorf("failed to commit watchlist: %w", err)
	}
	return w, nil
}
