package validation

import (
	"strings"

	"github.com/ndewijer/Investment-Research-Backend/internal/api/request"
)

// ValidateCreateMemo validates a memo ingestion request.
//
// Required fields:
//   - ticker (max 10), analyst (max 50), thesis
//   - signal: bullish or bearish
//   - conviction: 0 to 100
//   - bullCase/bearCase: 1 to 5 non-empty points
//   - currentPrice/targetPrice: positive
//   - timeHorizon: short, medium or long
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateMemo(req request.CreateMemoRequest) error {
	err := ValidateStruct(req)

	fields := map[string]string{}
	var verr *Error
	if err != nil {
		var ok bool
		if verr, ok = err.(*Error); !ok {
			return err
		}
		fields = verr.Fields
	}

	if req.Ticker != "" && strings.TrimSpace(req.Ticker) == "" {
		fields["ticker"] = "ticker cannot be blank"
	}
	if req.Thesis != "" && strings.TrimSpace(req.Thesis) == "" {
		fields["thesis"] = "thesis cannot be blank"
	}

	if len(fields) > 0 {
		return &Error{Fields: fields}
	}
	return nil
}

// ValidateWatchlistTickers validates a watchlist update request.
// Replacing a watchlist with an empty list is allowed; add/remove need at least one ticker.
func ValidateWatchlistTickers(req request.WatchlistTickersRequest, allowEmpty bool) error {
	if err := ValidateStruct(req); err != nil {
		return err
	}
	if !allowEmpty && len(req.Tickers) == 0 {
		return &Error{Fields: map[string]string{"tickers": "tickers must contain at least 1 items"}}
	}
	return nil
}
