package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"bookie/database"
	"bookie/models"
)

// LedgerRepository manages the append-only transaction ledger. Rows are never
// updated or deleted; every balance change appends exactly one entry.
type LedgerRepository struct {
	q queryable
}

// NewLedgerRepository creates a new ledger repository backed by the pool.
func NewLedgerRepository(db *database.DB) *LedgerRepository {
	return &LedgerRepository{q: db.Pool}
}

// newLedgerRepositoryWithTx creates a ledger repository that runs on the
// given transaction.
func newLedgerRepositoryWithTx(tx queryable) *LedgerRepository {
	return &LedgerRepository{q: tx}
}

// Append writes a new ledger entry and fills in its generated ID and
// timestamp.
func (r *LedgerRepository) Append(ctx context.Context, txn *models.Transaction) error {
	metadataJSON, err := json.Marshal(txn.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction metadata: %w", err)
	}

	query := `
		INSERT INTO transactions (user_id, amount, balance_after, reason, description, metadata, bet_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err = r.q.QueryRow(ctx, query,
		txn.UserID,
		txn.Amount,
		txn.BalanceAfter,
		txn.Reason,
		txn.Description,
		metadataJSON,
		txn.BetID,
	).Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry for user %d: %w: %w", txn.UserID, models.ErrStorageUnavailable, err)
	}

	return nil
}

// GetByUser retrieves a user's most recent ledger entries, newest first.
func (r *LedgerRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error) {
	query := `
		SELECT id, user_id, amount, balance_after, reason, description, metadata, bet_id, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries for user %d: %w: %w", userID, models.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var txns []*models.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger entries for user %d: %w: %w", userID, models.ErrStorageUnavailable, err)
	}

	return txns, nil
}

// GetByID retrieves a single ledger entry. Returns nil if it does not exist.
func (r *LedgerRepository) GetByID(ctx context.Context, id int64) (*models.Transaction, error) {
	query := `
		SELECT id, user_id, amount, balance_after, reason, description, metadata, bet_id, created_at
		FROM transactions
		WHERE id = $1`

	rows, err := r.q.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entry %d: %w: %w", id, models.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to get ledger entry %d: %w: %w", id, models.ErrStorageUnavailable, err)
		}
		return nil, nil
	}
	return scanTransaction(rows)
}

// SumByUser returns the sum of all ledger amounts for a user. The result
// equals the wallet balance whenever the ledger and wallet are consistent.
func (r *LedgerRepository) SumByUser(ctx context.Context, userID int64) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1`

	var sum int64
	err := r.q.QueryRow(ctx, query, userID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum ledger for user %d: %w: %w", userID, models.ErrStorageUnavailable, err)
	}

	return sum, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var txn models.Transaction
	var metadataJSON []byte

	err := row.Scan(
		&txn.ID,
		&txn.UserID,
		&txn.Amount,
		&txn.BalanceAfter,
		&txn.Reason,
		&txn.Description,
		&metadataJSON,
		&txn.BetID,
		&txn.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan ledger entry: %w: %w", models.ErrStorageUnavailable, err)
	}

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &txn.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transaction metadata: %w", err)
		}
	}

	return &txn, nil
}
