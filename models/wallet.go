package models

import (
	"math"
	"time"
)

// CentsPerFIT is the number of ledger units in one displayed FIT.
// Balances and transaction amounts are stored as integer cents.
const CentsPerFIT = 100

// ToCents converts a user-facing FIT amount to ledger cents.
func ToCents(fits float64) int64 {
	return int64(math.Round(fits * CentsPerFIT))
}

// FromCents converts ledger cents to a user-facing FIT amount.
func FromCents(cents int64) float64 {
	return float64(cents) / CentsPerFIT
}

// Wallet holds one user's FIT balance. Wallets are created lazily on first
// credit or debit and never deleted. The balance is only ever mutated together
// with an appended Transaction in the same database transaction.
type Wallet struct {
	UserID    int64     `db:"user_id"`
	Balance   int64     `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// TransferResult represents the outcome of a transfer (returned to the caller)
type TransferResult struct {
	Amount           int64
	SenderBalance    int64
	RecipientBalance int64
}
