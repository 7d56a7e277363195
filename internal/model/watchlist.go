package model

import "time"

// DefaultWatchlist is the watchlist used when none is named.
const DefaultWatchlist = "default"

// Watchlist is a named set of tickers fed to the memo generation pipeline.
type Watchlist struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Tickers    []string   `json:"tickers"`
	LastScanAt *time.Time `json:"lastScanAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}
