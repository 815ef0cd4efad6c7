package models

import (
	"time"

	"github.com/google/uuid"
)

// BetStatus represents the state of a single stake
type BetStatus string

const (
	BetStatusOpen                BetStatus = "open"
	BetStatusCancelled           BetStatus = "cancelled"
	BetStatusClosedPendingReview BetStatus = "closed-pending-review"
	BetStatusSettled             BetStatus = "settled"
)

// SplitStrategy selects how a bet's total amount is divided across outcomes
type SplitStrategy string

const (
	SplitEven   SplitStrategy = "even"
	SplitCustom SplitStrategy = "custom"
)

// Bet is one user's stake against one outcome of one market. A single bet
// request targeting multiple outcomes produces multiple rows sharing a
// request ID and the debit transaction, each with its own status.
type Bet struct {
	ID              int64      `db:"id"`
	RequestID       uuid.UUID  `db:"request_id"`
	UserID          int64      `db:"user_id"`
	MarketKey       string     `db:"market_key"`
	OutcomeID       int64      `db:"outcome_id"`
	Amount          int64      `db:"amount"`
	Status          BetStatus  `db:"status"`
	DebitTxnID      int64      `db:"debit_txn_id"`
	ResolutionTxnID *int64     `db:"resolution_txn_id"`
	CreatedAt       time.Time  `db:"created_at"`
	ResolvedAt      *time.Time `db:"resolved_at"`
}

// IsOpen checks if the bet is still open
func (b *Bet) IsOpen() bool {
	return b.Status == BetStatusOpen
}

// CanBeCancelledBy checks if the given requester may cancel this bet
func (b *Bet) CanBeCancelledBy(userID int64, staff bool) bool {
	return b.UserID == userID || staff
}

// BetRequest is the fixed, eagerly validated placement payload coming in from
// the command surface
type BetRequest struct {
	UserID        int64
	MarketKey     string
	OutcomeIDs    []int64
	TotalAmount   int64
	Strategy      SplitStrategy
	CustomAmounts []int64 // Required for SplitCustom, must sum to TotalAmount
}

// PlaceBetResult represents the outcome of a bet placement (returned to the user)
type PlaceBetResult struct {
	RequestID  uuid.UUID
	Bets       []*Bet
	NewBalance int64
}

// CancelBetResult represents the outcome of a bet cancellation
type CancelBetResult struct {
	Bet        *Bet
	Refunded   int64
	NewBalance int64
}
