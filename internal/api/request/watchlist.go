package request

// WatchlistTickersRequest adds, removes or replaces tickers on a watchlist.
// An empty Name targets the default watchlist.
type WatchlistTickersRequest struct {
	Name    string   `json:"name,omitempty" validate:"omitempty,max=50"`
	Tickers []string `json:"tickers" validate:"required,dive,required,max=10"`
}
