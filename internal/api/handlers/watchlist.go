package handlers

import (
	"context"
	"net/http"

	"github.com/ndewijer/Investment-Research-Backend/internal/api/request"
	"github.com/ndewijer/Investment-Research-Backend/internal/api/response"
	"github.com/ndewijer/Investment-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Research-Backend/internal/model"
	"github.com/ndewijer/Investment-Research-Backend/internal/service"
	"github.com/ndewijer/Investment-Research-Backend/internal/validation"
)

// WatchlistHandler handles HTTP requests for the tickers the generation pipeline scans.
type WatchlistHandler struct {
	watchlistService *service.WatchlistService
}

// NewWatchlistHandler creates a new WatchlistHandler with the provided service dependency.
func NewWatchlistHandler(watchlistService *service.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{
		watchlistService: watchlistService,
	}
}

// GetWatchlist handles GET requests for a watchlist.
//
// Endpoint: GET /api/watchlist
// Query Parameters: name (defaults to the default watchlist)
// Response: 200 OK with Watchlist
// Error: 404 Not Found if a named watchlist does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *WatchlistHandler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	list, err := h.watchlistService.GetWatchlist(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveWatchlist)
		return
	}

	response.RespondJSON(w, http.StatusOK, list)
}

type tickerUpdate func(ctx context.Context, name string, tickers []string) (model.Watchlist, error)

func (h *WatchlistHandler) updateTickers(w http.ResponseWriter, r *http.Request, allowEmpty bool, update tickerUpdate) {
	req, err := parseJSON[request.WatchlistTickersRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateWatchlistTickers(req, allowEmpty); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	list, err := update(r.Context(), req.Name, req.Tickers)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateWatchlist)
		return
	}

	response.RespondJSON(w, http.StatusOK, list)
}

// SetTickers handles PUT requests that replace the tickers of a watchlist. An empty list clears it.
//
// Endpoint: PUT /api/watchlist/tickers
// Request Body: WatchlistTickersRequest
// Response: 200 OK with Watchlist
// Error: 400 Bad Request if the body is invalid
func (h *WatchlistHandler) SetTickers(w http.ResponseWriter, r *http.Request) {
	h.updateTickers(w, r, true, h.watchlistService.SetTickers)
}

// AddTickers handles POST requests that merge tickers into a watchlist.
//
// Endpoint: POST /api/watchlist/tickers
// Request Body: WatchlistTickersRequest
// Response: 200 OK with Watchlist
// Error: 400 Bad Request if the body is invalid or has no tickers
func (h *WatchlistHandler) AddTickers(w http.ResponseWriter, r *http.Request) {
	h.updateTickers(w, r, false, h.watchlistService.AddTickers)
}

// RemoveTickers handles DELETE requests that drop tickers from a watchlist.
//
// Endpoint: DELETE /api/watchlist/tickers
// Request Body: WatchlistTickersRequest
// Response: 200 OK with Watchlist
// Error: 400 Bad Request if the body is invalid or has no tickers
// Error: 404 Not Found if the watchlist does not exist
func (h *WatchlistHandler) RemoveTickers(w http.ResponseWriter, r *http.Request) {
	h.updateTickers(w, r, false, h.watchlistService.RemoveTickers)
}

// MarkScanned handles POST requests the generation pipeline sends after scanning a watchlist.
//
// Endpoint: POST /api/watchlist/scanned
// Query Parameters: name (defaults to the default watchlist)
// Response: 200 OK with Watchlist
// Error: 404 Not Found if the watchlist does not exist
func (h *WatchlistHandler) MarkScanned(w http.ResponseWriter, r *http.Request) {
	list, err := h.watchlistService.MarkScanned(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateWatchlist)
		return
	}

	response.RespondJSON(w, http.StatusOK, list)
}
