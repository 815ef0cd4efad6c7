package repository

import (
	"context"
	"errors"
	"fmt"

	"bookie/database"
	"bookie/models"

	"github.com/jackc/pgx/v5"
)

// WalletRepository manages wallet balances. Balances only move together with
// a ledger entry, so all mutating methods are expected to run inside a unit
// of work alongside LedgerRepository.Append.
type WalletRepository struct {
	q queryable
}

// NewWalletRepository creates a new wallet repository backed by the pool.
func NewWalletRepository(db *database.DB) *WalletRepository {
	return &WalletRepository{q: db.Pool}
}

// newWalletRepositoryWithTx creates a wallet repository that runs on the
// given transaction.
func newWalletRepositoryWithTx(tx queryable) *WalletRepository {
	return &WalletRepository{q: tx}
}

// GetByUserID retrieves a wallet by user ID. Returns nil if the wallet has
// never been created.
func (r *WalletRepository) GetByUserID(ctx context.Context, userID int64) (*models.Wallet, error) {
	query := `
		SELECT user_id, balance, created_at, updated_at
		FROM wallets
		WHERE user_id = $1`

	var wallet models.Wallet
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&wallet.UserID,
		&wallet.Balance,
		&wallet.CreatedAt,
		&wallet.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get wallet for user %d: %w: %w", userID, models.ErrStorageUnavailable, err)
	}

	return &wallet, nil
}

// GetBalance returns the current balance for a user. A user without a wallet
// row has a balance of zero.
func (r *WalletRepository) GetBalance(ctx context.Context, userID int64) (int64, error) {
	wallet, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if wallet == nil {
		return 0, nil
	}
	return wallet.Balance, nil
}

// Credit adds the amount to a user's wallet, creating the wallet lazily if
// it does not exist yet. Returns the balance after the credit.
func (r *WalletRepository) Credit(ctx context.Context, userID int64, amount int64) (int64, error) {
	query := `
		INSERT INTO wallets (user_id, balance)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET balance = wallets.balance + EXCLUDED.balance,
		    updated_at = NOW()
		RETURNING balance`

	var newBalance int64
	err := r.q.QueryRow(ctx, query, userID, amount).Scan(&newBalance)
	if err != nil {
		return 0, fmt.Errorf("failed to credit wallet for user %d: %w: %w", userID, models.ErrStorageUnavailable, err)
	}

	return newBalance, nil
}

// Debit removes the amount from a user's wallet. The balance check and the
// update are a single statement, so two concurrent debits that together
// exceed the balance cannot both succeed. Returns the balance after the
// debit, or models.ErrInsufficientFunds when the wallet cannot cover it.
func (r *WalletRepository) Debit(ctx context.Context, userID int64, amount int64) (int64, error) {
	query := `
		UPDATE wallets
		SET balance = balance - $2,
		    updated_at = NOW()
		WHERE user_id = $1 AND balance >= $2
		RETURNING balance`

	var newBalance int64
	err := r.q.QueryRow(ctx, query, userID, amount).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Absent wallet and insufficient balance land here alike; an
			// absent wallet is just a balance of zero.
			balance, balErr := r.GetBalance(ctx, userID)
			if balErr != nil {
				return 0, balErr
			}
			return 0, fmt.Errorf("%w: balance %d, need %d", models.ErrInsufficientFunds, balance, amount)
		}
		return 0, fmt.Errorf("failed to debit wallet for user %d: %w: %w", userID, models.ErrStorageUnavailable, err)
	}

	return newBalance, nil
}
