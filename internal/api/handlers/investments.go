package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Investment-Research-Backend/internal/api/request"
	"github.com/ndewijer/Investment-Research-Backend/internal/api/response"
	"github.com/ndewijer/Investment-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Research-Backend/internal/model"
	"github.com/ndewijer/Investment-Research-Backend/internal/service"
	"github.com/ndewijer/Investment-Research-Backend/internal/validation"
)

// InvestmentHandler handles HTTP requests for the investment ledger.
type InvestmentHandler struct {
	investmentService   *service.InvestmentService
	priceRefreshService *service.PriceRefreshService
}

// NewInvestmentHandler creates a new InvestmentHandler with the provided service dependencies.
func NewInvestmentHandler(
	investmentService *service.InvestmentService,
	priceRefreshService *service.PriceRefreshService,
) *InvestmentHandler {
	return &InvestmentHandler{
		investmentService:   investmentService,
		priceRefreshService: priceRefreshService,
	}
}

// UpdatePriceResponse reports whether a price update was applied.
// Updated is false when the investment was already closed.
type UpdatePriceResponse struct {
	Updated    bool             `json:"updated"`
	Investment model.Investment `json:"investment"`
}

// ListInvestments handles GET requests for the investment ledger in insertion order.
//
// Endpoint: GET /api/investment
// Query Parameters: status (active, closed), analyst, ticker, page, page_size
// Response: 200 OK with InvestmentListResponse
// Error: 400 Bad Request if a query parameter is invalid
// Error: 500 Internal Server Error if retrieval fails
func (h *InvestmentHandler) ListInvestments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, page, err := request.ParseInvestmentFilter(q.Get("status"), q.Get("analyst"), q.Get("ticker"), q.Get("page"), q.Get("page_size"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	investments, err := h.investmentService.GetInvestments(r.Context(), filter, page)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveInvestments.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, investments)
}

// GetInvestment handles GET requests for one investment together with the memo it came from.
//
// Endpoint: GET /api/investment/{uuid}
// Response: 200 OK with InvestmentWithMemo
// Error: 400 Bad Request if investment ID is invalid (validated by middleware)
// Error: 404 Not Found if the investment does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *InvestmentHandler) GetInvestment(w http.ResponseWriter, r *http.Request) {
	investmentID := chi.URLParam(r, "uuid")

	inv, err := h.investmentService.GetInvestmentWithMemo(r.Context(), investmentID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveInvestment)
		return
	}

	response.RespondJSON(w, http.StatusOK, inv)
}

// CloseInvestment handles POST requests to close an active investment at an exit price.
//
// Endpoint: POST /api/investment/{uuid}/close
// Request Body: CloseInvestmentRequest (exitPrice)
// Response: 200 OK with the closed Investment and its realized pnlPercent
// Error: 400 Bad Request if the body is invalid or exitPrice is not positive
// Error: 404 Not Found if the investment does not exist
// Error: 409 Conflict if the investment is already closed
// Error: 500 Internal Server Error if closing fails
func (h *InvestmentHandler) CloseInvestment(w http.ResponseWriter, r *http.Request) {
	investmentID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.CloseInvestmentRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateStruct(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	inv, err := h.investmentService.CloseInvestment(r.Context(), investmentID, *req.ExitPrice)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCloseInvestment)
		return
	}

	response.RespondJSON(w, http.StatusOK, inv)
}

// UpdatePrice handles PUT requests that mark an active investment to a new price.
// A closed investment is left unchanged and reported with updated=false.
//
// Endpoint: PUT /api/investment/{uuid}/price
// Request Body: UpdatePriceRequest (currentPrice)
// Response: 200 OK with UpdatePriceResponse
// Error: 400 Bad Request if the body is invalid or currentPrice is not positive
// Error: 404 Not Found if the investment does not exist
// Error: 500 Internal Server Error if the update fails
func (h *InvestmentHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	investmentID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdatePriceRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.ValidateStruct(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	inv, updated, err := h.investmentService.UpdateCurrentPrice(r.Context(), investmentID, *req.CurrentPrice)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToUpdatePrice)
		return
	}

	response.RespondJSON(w, http.StatusOK, UpdatePriceResponse{Updated: updated, Investment: inv})
}

// RefreshPrices handles POST requests that fetch fresh prices for every active investment now,
// the same run the scheduler performs.
//
// Endpoint: POST /api/investment/refresh-prices
// Response: 200 OK with PriceRefreshResponse, also when some tickers failed
// Error: 502 Bad Gateway if every price lookup failed
// Error: 500 Internal Server Error if the ledger could not be read
func (h *InvestmentHandler) RefreshPrices(w http.ResponseWriter, r *http.Request) {
	result, err := h.priceRefreshService.RefreshActive(r.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrFailedToRefreshPrices) {
			response.RespondError(w, http.StatusBadGateway, apperrors.ErrFailedToRefreshPrices.Error(), result.Errors)
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRefreshPrices.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}
