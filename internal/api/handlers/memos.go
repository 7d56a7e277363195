package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Investment-Research-Backend/internal/api/request"
	"github.com/ndewijer/Investment-Research-Backend/internal/api/response"
	"github.com/ndewijer/Investment-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Research-Backend/internal/model"
	"github.com/ndewijer/Investment-Research-Backend/internal/service"
	"github.com/ndewijer/Investment-Research-Backend/internal/validation"
)

// MemoHandler handles HTTP requests for the memo inbox and the review decisions.
// Reads go to memoService; approve and reject go to reviewService.
type MemoHandler struct {
	memoService   *service.MemoService
	reviewService *service.ReviewService
}

// NewMemoHandler creates a new MemoHandler with the provided service dependencies.
func NewMemoHandler(memoService *service.MemoService, reviewService *service.ReviewService) *MemoHandler {
	return &MemoHandler{
		memoService:   memoService,
		reviewService: reviewService,
	}
}

// CountResponse is the body of the memo badge count.
type CountResponse struct {
	Count int `json:"count"`
}

func memoFilterParams(r *http.Request) request.MemoFilterParams {
	q := r.URL.Query()
	return request.MemoFilterParams{
		Status:        q.Get("status"),
		Analyst:       q.Get("analyst"),
		Signal:        q.Get("signal"),
		Ticker:        q.Get("ticker"),
		MinConviction: q.Get("min_conviction"),
		Page:          q.Get("page"),
		PageSize:      q.Get("page_size"),
	}
}

// ListMemos handles GET requests for the memo inbox.
// Without a status filter only pending memos are returned, highest conviction first.
//
// Endpoint: GET /api/memo
// Query Parameters: status, analyst, signal, ticker, min_conviction, page, page_size
// Response: 200 OK with MemoListResponse
// Error: 400 Bad Request if a query parameter is invalid
// Error: 500 Internal Server Error if retrieval fails
func (h *MemoHandler) ListMemos(w http.ResponseWriter, r *http.Request) {
	filter, page, err := request.ParseMemoFilter(memoFilterParams(r))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	inbox, err := h.memoService.GetInbox(r.Context(), filter, page)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveMemos.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, inbox)
}

// CountMemos handles GET requests for the number of memos matching the inbox filter.
// Paging parameters are accepted but do not change the count.
//
// Endpoint: GET /api/memo/count
// Response: 200 OK with CountResponse
// Error: 400 Bad Request if a query parameter is invalid
// Error: 500 Internal Server Error if counting fails
func (h *MemoHandler) CountMemos(w http.ResponseWriter, r *http.Request) {
	filter, _, err := request.ParseMemoFilter(memoFilterParams(r))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	count, err := h.memoService.CountMemos(r.Context(), filter)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToCountMemos.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, CountResponse{Count: count})
}

// CreateMemo handles POST requests from the memo generation pipeline.
// The memo is stored pending; guarded by the API key middleware.
//
// Endpoint: POST /api/memo
// Request Body: CreateMemoRequest
// Response: 201 Created with Memo
// Error: 400 Bad Request if the body is invalid or validation fails
// Error: 409 Conflict if a memo with the supplied ID already exists
// Error: 500 Internal Server Error if creation fails
func (h *MemoHandler) CreateMemo(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateMemoRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateMemo(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	memo, err := h.memoService.CreateMemo(r.Context(), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToCreateMemo)
		return
	}

	response.RespondJSON(w, http.StatusCreated, memo)
}

// GetMemo handles GET requests for one memo with its full analysis.
//
// Endpoint: GET /api/memo/{uuid}
// Response: 200 OK with Memo
// Error: 400 Bad Request if memo ID is invalid (validated by middleware)
// Error: 404 Not Found if the memo does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *MemoHandler) GetMemo(w http.ResponseWriter, r *http.Request) {
	memoID := chi.URLParam(r, "uuid")

	memo, err := h.memoService.GetMemo(r.Context(), memoID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveMemo)
		return
	}

	response.RespondJSON(w, http.StatusOK, memo)
}

// ApproveMemo handles POST requests to approve a pending memo.
// Approval opens an investment at the memo's current price in the same transaction.
//
// Endpoint: POST /api/memo/{uuid}/approve
// Response: 200 OK with ApprovalResponse
// Error: 400 Bad Request if memo ID is invalid or the memo has no usable price
// Error: 404 Not Found if the memo does not exist
// Error: 409 Conflict if the memo is not pending or already has an investment
// Error: 500 Internal Server Error if approval fails
func (h *MemoHandler) ApproveMemo(w http.ResponseWriter, r *http.Request) {
	memoID := chi.URLParam(r, "uuid")

	memo, inv, err := h.reviewService.Approve(r.Context(), memoID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToApproveMemo)
		return
	}

	response.RespondJSON(w, http.StatusOK, model.ApprovalResponse{
		Memo:       memo,
		Investment: inv,
		Message:    "memo approved, investment opened for " + memo.Ticker,
	})
}

// RejectMemo handles POST requests to reject a pending memo. No investment is opened.
//
// Endpoint: POST /api/memo/{uuid}/reject
// Response: 200 OK with RejectionResponse
// Error: 400 Bad Request if memo ID is invalid (validated by middleware)
// Error: 404 Not Found if the memo does not exist
// Error: 409 Conflict if the memo is not pending
// Error: 500 Internal Server Error if rejection fails
func (h *MemoHandler) RejectMemo(w http.ResponseWriter, r *http.Request) {
	memoID := chi.URLParam(r, "uuid")

	memo, err := h.reviewService.Reject(r.Context(), memoID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRejectMemo)
		return
	}

	response.RespondJSON(w, http.StatusOK, model.RejectionResponse{
		Memo:    memo,
		Message: "memo rejected",
	})
}
