package repository

import (
	"context"
	"errors"
	"fmt"

	"bookie/database"
	"bookie/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// BetRepository manages bet rows. A bet's status column is the single gate
// for its lifecycle: every transition out of open is a conditional update on
// the current status, so each bet is cancelled or reviewed at most once no
// matter how many workers race for it.
type BetRepository struct {
	q queryable
}

// NewBetRepository creates a new bet repository backed by the pool.
func NewBetRepository(db *database.DB) *BetRepository {
	return &BetRepository{q: db.Pool}
}

// newBetRepositoryWithTx creates a bet repository that runs on the given
// transaction.
func newBetRepositoryWithTx(tx queryable) *BetRepository {
	return &BetRepository{q: tx}
}

// CreateGroup inserts all bets of one placement request in a single
// statement and fills in their generated IDs and timestamps. Every bet
// shares the request ID and the debit transaction ID.
func (r *BetRepository) CreateGroup(ctx context.Context, bets []*models.Bet) error {
	if len(bets) == 0 {
		return nil
	}

	query := `
		INSERT INTO bets (
			request_id, user_id, market_key, outcome_id, amount, status, debit_txn_id
		)
		VALUES
	`

	var args []interface{}
	for i, bet := range bets {
		if i > 0 {
			query += ","
		}
		paramIndex := i * 7
		query += fmt.Sprintf(" ($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			paramIndex+1, paramIndex+2, paramIndex+3, paramIndex+4,
			paramIndex+5, paramIndex+6, paramIndex+7)

		args = append(args,
			bet.RequestID,
			bet.UserID,
			bet.MarketKey,
			bet.OutcomeID,
			bet.Amount,
			bet.Status,
			bet.DebitTxnID,
		)
	}

	query += " RETURNING id, created_at"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to create bets: %w: %w", models.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	i := 0
	for rows.Next() {
		if i >= len(bets) {
			return fmt.Errorf("unexpected number of rows returned")
		}
		if err := rows.Scan(&bets[i].ID, &bets[i].CreatedAt); err != nil {
			return fmt.Errorf("failed to scan bet ID: %w: %w", models.ErrStorageUnavailable, err)
		}
		i++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to create bets: %w: %w", models.ErrStorageUnavailable, err)
	}

	return nil
}

// GetByID retrieves a bet by its ID. Returns nil if it does not exist.
func (r *BetRepository) GetByID(ctx context.Context, id int64) (*models.Bet, error) {
	query := `
		SELECT id, request_id, user_id, market_key, outcome_id, amount, status,
		       debit_txn_id, resolution_txn_id, created_at, resolved_at
		FROM bets
		WHERE id = $1`

	bet, err := scanBet(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get bet %d: %w: %w", id, models.ErrStorageUnavailable, err)
	}

	return bet, nil
}

// ListByRequestID retrieves all bets that were placed by one request.
func (r *BetRepository) ListByRequestID(ctx context.Context, requestID uuid.UUID) ([]*models.Bet, error) {
	query := `
		SELECT id, request_id, user_id, market_key, outcome_id, amount, status,
		       debit_txn_id, resolution_txn_id, created_at, resolved_at
		FROM bets
		WHERE request_id = $1
		ORDER BY id`

	return r.listBets(ctx, query, requestID)
}

// ListOpenByUser retrieves a user's open bets, oldest first.
func (r *BetRepository) ListOpenByUser(ctx context.Context, userID int64) ([]*models.Bet, error) {
	query := `
		SELECT id, request_id, user_id, market_key, outcome_id, amount, status,
		       debit_txn_id, resolution_txn_id, created_at, resolved_at
		FROM bets
		WHERE user_id = $1 AND status = 'open'
		ORDER BY created_at, id`

	return r.listBets(ctx, query, userID)
}

// ListOpenByMarket retrieves all open bets on a market, oldest first.
func (r *BetRepository) ListOpenByMarket(ctx context.Context, marketKey string) ([]*models.Bet, error) {
	query := `
		SELECT id, request_id, user_id, market_key, outcome_id, amount, status,
		       debit_txn_id, resolution_txn_id, created_at, resolved_at
		FROM bets
		WHERE market_key = $1 AND status = 'open'
		ORDER BY created_at, id`

	return r.listBets(ctx, query, marketKey)
}

// MarkCancelled transitions a bet from open to cancelled and links the
// refund transaction. The update requires both the bet to still be open and
// its market to still be open, checked in the same statement as the write.
// When that condition fails the affected row count disambiguates which gate
// lost.
func (r *BetRepository) MarkCancelled(ctx context.Context, betID int64, resolutionTxnID int64) error {
	query := `
		UPDATE bets b
		SET status = 'cancelled',
		    resolution_txn_id = $2,
		    resolved_at = NOW()
		FROM markets m
		WHERE b.id = $1
		  AND b.status = 'open'
		  AND m.market_key = b.market_key
		  AND m.state = 'open'`

	result, err := r.q.Exec(ctx, query, betID, resolutionTxnID)
	if err != nil {
		return fmt.Errorf("failed to cancel bet %d: %w: %w", betID, models.ErrStorageUnavailable, err)
	}

	if result.RowsAffected() == 0 {
		bet, err := r.GetByID(ctx, betID)
		if err != nil {
			return err
		}
		if bet == nil {
			return models.ErrBetNotFound
		}
		if bet.Status != models.BetStatusOpen {
			return fmt.Errorf("%w: bet %d is %s", models.ErrConcurrentStateConflict, betID, bet.Status)
		}
		return fmt.Errorf("%w: market %s no longer accepts cancellations", models.ErrMarketAlreadyClosing, bet.MarketKey)
	}

	return nil
}

// MarkClosedPendingReview transitions a bet from open to
// closed-pending-review and links the refund transaction. Reports false
// without error when the bet already left the open state, which tells the
// reconciler the refund it prepared must not be committed.
func (r *BetRepository) MarkClosedPendingReview(ctx context.Context, betID int64, resolutionTxnID int64) (bool, error) {
	query := `
		UPDATE bets
		SET status = 'closed-pending-review',
		    resolution_txn_id = $2,
		    resolved_at = NOW()
		WHERE id = $1 AND status = 'open'`

	result, err := r.q.Exec(ctx, query, betID, resolutionTxnID)
	if err != nil {
		return false, fmt.Errorf("failed to close bet %d for review: %w: %w", betID, models.ErrStorageUnavailable, err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *BetRepository) listBets(ctx context.Context, query string, args ...any) ([]*models.Bet, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets: %w: %w", models.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var bets []*models.Bet
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w: %w", models.ErrStorageUnavailable, err)
		}
		bets = append(bets, bet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read bets: %w: %w", models.ErrStorageUnavailable, err)
	}

	return bets, nil
}

func scanBet(row rowScanner) (*models.Bet, error) {
	var bet models.Bet
	err := row.Scan(
		&bet.ID,
		&bet.RequestID,
		&bet.UserID,
		&bet.MarketKey,
		&bet.OutcomeID,
		&bet.Amount,
		&bet.Status,
		&bet.DebitTxnID,
		&bet.ResolutionTxnID,
		&bet.CreatedAt,
		&bet.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}

	return &bet, nil
}
