package request

// CloseInvestmentRequest is the payload for closing an active investment.
// Positivity of the price is checked by the ledger.
type CloseInvestmentRequest struct {
	ExitPrice *float64 `json:"exitPrice" validate:"required"`
}

// UpdatePriceRequest is the payload for refreshing the mark of an active investment.
type UpdatePriceRequest struct {
	CurrentPrice *float64 `json:"currentPrice" validate:"required"`
}
