// Package handlers adapts HTTP requests to the review, ledger and analyst services.
// Handlers parse and validate input, call one service method and map its errors to status codes.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ndewijer/Investment-Research-Backend/internal/api/response"
	"github.com/ndewijer/Investment-Research-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Research-Backend/internal/validation"
)

// maxBodyBytes caps request bodies; a generated memo is a few kilobytes.
const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into T.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return req, fmt.Errorf("request body is empty")
		}
		return req, err
	}
	return req, nil
}

// statusFor maps a service error to an HTTP status code.
//
//   - not found errors: 404
//   - lifecycle conflicts (not pending, already invested, already closed, duplicate): 409
//   - invalid price, sort key or field validation: 400
//   - anything else: 500
func statusFor(err error) int {
	var verr *validation.Error
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrInvalidTransition),
		errors.Is(err, apperrors.ErrAlreadyInvested),
		errors.Is(err, apperrors.ErrAlreadyClosed),
		errors.Is(err, apperrors.ErrDuplicateEntry):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrInvalidPrice),
		errors.Is(err, apperrors.ErrInvalidSortKey),
		errors.Is(err, apperrors.ErrInvalidUUID),
		errors.As(err, &verr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes err with the status statusFor picks.
// Client errors use the error itself as the message; server errors use fallback and keep err as details.
func respondServiceError(w http.ResponseWriter, err error, fallback error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		response.RespondError(w, status, fallback.Error(), err.Error())
		return
	}
	response.RespondError(w, status, clientMessage(err), err.Error())
}

// clientMessage picks the sentinel that classified err, so the message is stable across wrapping.
func clientMessage(err error) string {
	for _, sentinel := range []error{
		apperrors.ErrMemoNotFound,
		apperrors.ErrInvestmentNotFound,
		apperrors.ErrAnalystNotFound,
		apperrors.ErrWatchlistNotFound,
		apperrors.ErrInvalidTransition,
		apperrors.ErrAlreadyInvested,
		apperrors.ErrAlreadyClosed,
		apperrors.ErrDuplicateEntry,
		apperrors.ErrInvalidPrice,
		apperrors.ErrInvalidSortKey,
		apperrors.ErrInvalidUUID,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}

	var verr *validation.Error
	if errors.As(err, &verr) {
		return "validation failed"
	}
	return err.Error()
}
