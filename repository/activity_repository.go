package repository

import (
	"context"
	"fmt"
	"time"

	"bookie/database"
	"bookie/models"
)

// ActivityRepository tracks when users last earned an activity reward.
type ActivityRepository struct {
	q queryable
}

// NewActivityRepository creates a new activity repository backed by the pool.
func NewActivityRepository(db *database.DB) *ActivityRepository {
	return &ActivityRepository{q: db.Pool}
}

// newActivityRepositoryWithTx creates an activity repository that runs on
// the given transaction.
func newActivityRepositoryWithTx(tx queryable) *ActivityRepository {
	return &ActivityRepository{q: tx}
}

// TryMarkRewarded records an activity reward for the user unless one was
// already granted within the cooldown window. The check and the write are a
// single statement on the database clock, so concurrent messages from the
// same user yield at most one reward per window. Reports whether the reward
// was granted.
func (r *ActivityRepository) TryMarkRewarded(ctx context.Context, userID int64, cooldown time.Duration) (bool, error) {
	query := `
		INSERT INTO activity_cooldowns (user_id, last_rewarded_at)
		VALUES ($1, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET last_rewarded_at = NOW()
		WHERE activity_cooldowns.last_rewarded_at <= NOW() - ($2 * INTERVAL '1 second')`

	result, err := r.q.Exec(ctx, query, userID, cooldown.Seconds())
	if err != nil {
		return false, fmt.Errorf("failed to record activity reward for user %d: %w: %w", userID, models.ErrStorageUnavailable, err)
	}

	return result.RowsAffected() > 0, nil
}
