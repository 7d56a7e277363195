package testutil

import (
	"database/sql"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/ndewijer/Investment-Research-Backend/internal/logging"
	"github.com/ndewijer/Investment-Research-Backend/internal/repository"
	"github.com/ndewijer/Investment-Research-Backend/internal/service"
)

func NewTestMemoService(t *testing.T, db *sql.DB) *service.MemoService {
	t.Helper()

	return service.NewMemoService(
		db,
		repository.NewMemoRepository(db),
	)
}

func NewTestInvestmentService(t *testing.T, db *sql.DB) *service.InvestmentService {
	t.Helper()

	return service.NewInvestmentService(
		repository.NewInvestmentRepository(db),
		repository.NewMemoRepository(db),
		logging.NewSilent(),
	)
}

func NewTestReviewService(t *testing.T, db *sql.DB) *service.ReviewService {
	t.Helper()

	return service.NewReviewService(
		db,
		repository.NewMemoRepository(db),
		repository.NewInvestmentRepository(db),
		logging.NewSilent(),
	)
}

func NewTestAnalystService(t *testing.T, db *sql.DB) *service.AnalystService {
	t.Helper()

	return service.NewAnalystService(
		db,
		repository.NewMemoRepository(db),
		repository.NewInvestmentRepository(db),
	)
}

func NewTestWatchlistService(t *testing.T, db *sql.DB) *service.WatchlistService {
	t.Helper()

	return service.NewWatchlistService(
		db,
		repository.NewWatchlistRepository(db),
	)
}

// NewTestPriceRefreshService creates a PriceRefreshService backed by prices instead of Yahoo Finance.
func NewTestPriceRefreshService(t *testing.T, db *sql.DB, prices service.PriceSource) *service.PriceRefreshService {
	t.Helper()

	return service.NewPriceRefreshService(
		NewTestInvestmentService(t, db),
		prices,
		2,
		logging.NewSilent(),
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a unique UUID for testing.
func MakeID() string {
	return uuid.New().String()
}

// MakeTicker generates a unique ticker symbol of at most 10 characters.
//
// Example usage:
//
//	ticker := testutil.MakeTicker("AAPL")
//	// Returns: "AAPL1A2B"
func MakeTicker(base string) string {
	if base == "" {
		base = "TST"
	}
	if len(base) > 6 {
		base = base[:6]
	}
	return base + randomAlphanumeric(4)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}

// Float64Ptr returns a pointer to f.
func Float64Ptr(f float64) *float64 {
	return &f
}

// IntPtr returns a pointer to i.
func IntPtr(i int) *int {
	return &i
}
