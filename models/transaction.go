package models

import (
	"time"
)

// TransactionReason tags why a ledger entry was written
type TransactionReason string

const (
	ReasonBonus     TransactionReason = "bonus"
	ReasonTransfer  TransactionReason = "transfer"
	ReasonBetDebit  TransactionReason = "bet-debit"
	ReasonBetRefund TransactionReason = "bet-refund"
	ReasonBetPayout TransactionReason = "bet-payout"
	ReasonAdminMint TransactionReason = "admin-mint"
)

// Transaction is one immutable ledger entry. The sum of a user's transaction
// amounts always equals that user's wallet balance, because the balance update
// and the transaction append share a database transaction.
type Transaction struct {
	ID           int64             `db:"id"`
	UserID       int64             `db:"user_id"`
	Amount       int64             `db:"amount"` // signed, in cents
	BalanceAfter int64             `db:"balance_after"`
	Reason       TransactionReason `db:"reason"`
	Description  string            `db:"description"`
	Metadata     map[string]any    `db:"metadata"`
	BetID        *int64            `db:"bet_id"`
	CreatedAt    time.Time         `db:"created_at"`
}
