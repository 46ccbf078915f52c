package apperrors

import "errors"

// Domain entity errors represent missing entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrPortfolioNotFound indicates that a portfolio with the given ID does not exist.
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrPositionNotFound indicates that a position with the given ID does not exist.
	ErrPositionNotFound = errors.New("position not found")
)

// Business logic errors represent validation failures or rejected operations.
var (
	// ErrValidation is wrapped by every *validation.Error so callers can test
	// for bad input with errors.Is without knowing the concrete type.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrUnknownAssetClass indicates an asset class outside equity, crypto, fund and bond.
	ErrUnknownAssetClass = errors.New("unknown asset class")

	// ErrUnknownGroupBy indicates an allocation grouping other than sector or asset class.
	ErrUnknownGroupBy = errors.New("unknown allocation grouping")

	// ErrUnknownPeriod indicates a performance period that is not recognized.
	ErrUnknownPeriod = errors.New("unknown performance period")

	// ErrConfirmationRequired indicates a delete was attempted without a confirmation token.
	ErrConfirmationRequired = errors.New("confirmation required")

	// ErrInvalidConfirmation indicates a confirmation token that is expired,
	// malformed, or issued for a different position.
	ErrInvalidConfirmation = errors.New("invalid or expired confirmation token")
)

// Data source errors represent failures of the external collaborator
// supplying portfolios and positions.
var (
	// ErrDataSource is the single generic fetch-failed condition. Transport
	// failures of any kind (network, non-success status, undecodable body)
	// are wrapped in it.
	ErrDataSource = errors.New("data source request failed")

	// ErrStaleLoad indicates that a load resolved after a newer mutation was
	// accepted and its result was discarded.
	ErrStaleLoad = errors.New("stale load discarded")
)

// Operation failure errors used as user-facing messages by the HTTP layer.
var (
	ErrFailedToRetrievePortfolios  = errors.New("failed to retrieve portfolios")
	ErrFailedToRetrievePortfolio   = errors.New("failed to retrieve portfolio")
	ErrFailedToRetrievePositions   = errors.New("failed to retrieve positions")
	ErrFailedToRetrievePosition    = errors.New("failed to retrieve position")
	ErrFailedToRetrievePerformance = errors.New("failed to retrieve performance history")
	ErrFailedToRetrieveQuotes      = errors.New("failed to retrieve market quotes")
	ErrFailedToRefresh             = errors.New("failed to refresh dashboard")
)
