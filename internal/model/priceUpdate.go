package model

// PriceRefreshResponse summarises one run of the active investment price refresh.
// Success is true when no ticker failed.
type PriceRefreshResponse struct {
	Success      bool                `json:"success"`
	UpdatedCount int                 `json:"updatedCount"`
	Updated      []PriceRefreshEntry `json:"updated"`
	Errors       []PriceRefreshError `json:"errors"`
}

// PriceRefreshEntry is one investment whose mark was updated.
type PriceRefreshEntry struct {
	InvestmentID string  `json:"investmentId"`
	Ticker       string  `json:"ticker"`
	Price        float64 `json:"price"`
}

// PriceRefreshError is a ticker whose price lookup or update failed.
type PriceRefreshError struct {
	Ticker string `json:"ticker"`
	Error  string `json:"error"`
}
