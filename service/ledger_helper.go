package service

import (
	"context"
	"fmt"

	"bookie/events"
	"bookie/models"
)

// RecordLedgerEntry moves a wallet balance and appends the matching ledger
// entry in the caller's unit of work. This is the single entry point for all
// balance changes in the system: a positive amount credits, a negative
// amount debits, and the appended entry carries the balance the move left
// behind. Emits a BalanceChangeEvent that flushes once the unit of work
// commits.
func RecordLedgerEntry(ctx context.Context, uow UnitOfWork, userID int64, amount int64, reason models.TransactionReason, description string, metadata map[string]any, betID *int64) (*models.Transaction, error) {
	if amount == 0 {
		return nil, fmt.Errorf("ledger entries require a non-zero amount")
	}

	var newBalance int64
	var err error
	if amount > 0 {
		newBalance, err = uow.WalletRepository().Credit(ctx, userID, amount)
	} else {
		newBalance, err = uow.WalletRepository().Debit(ctx, userID, -amount)
	}
	if err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		UserID:       userID,
		Amount:       amount,
		BalanceAfter: newBalance,
		Reason:       reason,
		Description:  description,
		Metadata:     metadata,
		BetID:        betID,
	}
	if err := uow.LedgerRepository().Append(ctx, txn); err != nil {
		return nil, err
	}

	// Emit balance change event (will be flushed after transaction commits)
	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:       userID,
		NewBalance:   newBalance,
		Reason:       reason,
		ChangeAmount: amount,
	})

	return txn, nil
}
