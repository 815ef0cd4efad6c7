package models

import "errors"

// Sentinel errors for the wallet ledger and staking layers. Services wrap
// these with fmt.Errorf("%w") plus context; callers classify with errors.Is
// and render one distinct message per kind.
var (
	// ErrInsufficientFunds is returned when a debit would take a balance below zero.
	ErrInsufficientFunds = errors.New("insufficient FITs")

	// ErrSplitMismatch is returned when custom split amounts do not sum to the total.
	ErrSplitMismatch = errors.New("split amounts do not match total")

	// ErrMarketNotOpen is returned when placing a bet on a market that is not open.
	ErrMarketNotOpen = errors.New("market is not open")

	// ErrMarketAlreadyClosing is returned when a cancellation loses the race
	// against market closure; the bet awaits manual review instead.
	ErrMarketAlreadyClosing = errors.New("market is already closing")

	// ErrUnknownOutcome is returned when a selection does not belong to the market.
	ErrUnknownOutcome = errors.New("unknown outcome")

	// ErrBetNotFound is returned when no bet exists with the given id.
	ErrBetNotFound = errors.New("bet not found")

	// ErrNotBetOwner is returned when a non-owner without staff privilege
	// attempts a cancellation.
	ErrNotBetOwner = errors.New("bet belongs to another user")

	// ErrStorageUnavailable wraps storage I/O failures. Money-moving operations
	// are never retried internally; the caller re-issues a fresh request.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrConcurrentStateConflict marks the loser of a state race. The operation
	// applied nothing and is safe to re-issue after re-reading state.
	ErrConcurrentStateConflict = errors.New("state changed concurrently")
)
