package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Investment-Research-Backend/internal/api/request"
	"github.com/ndewijer/Investment-Research-Backend/internal/api/response"
	"github.com/ndewijer/Investment-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Research-Backend/internal/model"
	"github.com/ndewijer/Investment-Research-Backend/internal/service"
)

// AnalystHandler handles HTTP requests for analyst performance.
type AnalystHandler struct {
	analystService *service.AnalystService
}

// NewAnalystHandler creates a new AnalystHandler with the provided service dependency.
func NewAnalystHandler(analystService *service.AnalystService) *AnalystHandler {
	return &AnalystHandler{
		analystService: analystService,
	}
}

// Leaderboard handles GET requests for the analyst ranking.
//
// Endpoint: GET /api/analyst/leaderboard
// Query Parameters: sort_by (win_rate, avg_return, total_memos), limit (1-100, default 10)
// Response: 200 OK with LeaderboardResponse
// Error: 400 Bad Request if a query parameter is invalid
// Error: 500 Internal Server Error if the ranking fails
func (h *AnalystHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	sortBy, limit, err := request.ParseLeaderboardParams(r.URL.Query().Get("sort_by"), r.URL.Query().Get("limit"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	analysts, err := h.analystService.GetLeaderboard(r.Context(), sortBy, limit)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToGetLeaderboard)
		return
	}

	response.RespondJSON(w, http.StatusOK, model.LeaderboardResponse{
		SortBy:   sortBy,
		Analysts: analysts,
	})
}

// AnalystStats handles GET requests for one analyst's performance.
//
// Endpoint: GET /api/analyst/{analyst}
// Response: 200 OK with AnalystStats
// Error: 404 Not Found if the analyst never authored a memo
// Error: 500 Internal Server Error if the computation fails
func (h *AnalystHandler) AnalystStats(w http.ResponseWriter, r *http.Request) {
	analyst := chi.URLParam(r, "analyst")

	stats, err := h.analystService.GetAnalystStats(r.Context(), analyst)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToGetAnalystStats)
		return
	}

	response.RespondJSON(w, http.StatusOK, stats)
}
