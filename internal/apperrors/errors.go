package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound is the base error for every lookup that did not match a record.
// Entity-specific errors wrap it so callers can match either the entity or the kind.
var ErrNotFound = errors.New("not found")

// Domain entity errors represent missing entities in the system.
var (
	// ErrMemoNotFound indicates that a memo with the given ID does not exist.
	ErrMemoNotFound = fmt.Errorf("memo %w", ErrNotFound)

	// ErrInvestmentNotFound indicates that an investment with the given ID does not exist.
	ErrInvestmentNotFound = fmt.Errorf("investment %w", ErrNotFound)

	// ErrAnalystNotFound indicates that no memo was ever attributed to the analyst.
	ErrAnalystNotFound = fmt.Errorf("analyst %w", ErrNotFound)

	// ErrWatchlistNotFound indicates that a watchlist with the given name does not exist.
	ErrWatchlistNotFound = fmt.Errorf("watchlist %w", ErrNotFound)
)

// Lifecycle errors represent transitions the memo and investment state machines refuse.
var (
	// ErrInvalidTransition indicates that a memo is no longer pending and cannot be approved or rejected.
	ErrInvalidTransition = errors.New("memo is not in pending status")

	// ErrAlreadyInvested indicates that an investment already references the memo.
	ErrAlreadyInvested = errors.New("memo already has an investment")

	// ErrAlreadyClosed indicates that an investment is not active and cannot be closed again.
	ErrAlreadyClosed = errors.New("investment is not in active status")

	// ErrInvalidPrice indicates that a supplied price is zero or negative.
	ErrInvalidPrice = errors.New("price must be positive")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrInvalidSortKey indicates an unsupported leaderboard sort key.
	ErrInvalidSortKey = errors.New("invalid sort key")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	ErrFailedToRetrieveMemos       = errors.New("failed to retrieve memos")
	ErrFailedToRetrieveMemo        = errors.New("failed to retrieve memo")
	ErrFailedToCountMemos          = errors.New("failed to count memos")
	ErrFailedToCreateMemo          = errors.New("failed to create memo")
	ErrFailedToApproveMemo         = errors.New("failed to approve memo")
	ErrFailedToRejectMemo          = errors.New("failed to reject memo")
	ErrFailedToRetrieveInvestments = errors.New("failed to retrieve investments")
	ErrFailedToRetrieveInvestment  = errors.New("failed to retrieve investment")
	ErrFailedToCloseInvestment     = errors.New("failed to close investment")
	ErrFailedToUpdatePrice         = errors.New("failed to update current price")
	ErrFailedToRefreshPrices       = errors.New("failed to refresh prices")
	ErrFailedToGetLeaderboard      = errors.New("failed to get leaderboard")
	ErrFailedToGetAnalystStats     = errors.New("failed to get analyst stats")
	ErrFailedToRetrieveWatchlist   = errors.New("failed to retrieve watchlist")
	ErrFailedToUpdateWatchlist     = errors.New("failed to update watchlist")
	ErrFailedToGetVersionInfo      = errors.New("failed to get version information")
)
