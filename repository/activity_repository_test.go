package repository

import (
	"context"
	"testing"
	"time"

	"bookie/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_TryMarkRewarded(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewActivityRepository(testDB.DB)
	ctx := context.Background()

	t.Run("first reward is granted", func(t *testing.T) {
		granted, err := repo.TryMarkRewarded(ctx, 123456, time.Hour)
		require.NoError(t, err)
		assert.True(t, granted)
	})

	t.Run("cooldown blocks the next reward", func(t *testing.T) {
		granted, err := repo.TryMarkRewarded(ctx, 123456, time.Hour)
		require.NoError(t, err)
		assert.False(t, granted)
	})

	t.Run("reward flows again after the window", func(t *testing.T) {
		granted, err := repo.TryMarkRewarded(ctx, 222222, 50*time.Millisecond)
		require.NoError(t, err)
		require.True(t, granted)

		time.Sleep(100 * time.Millisecond)

		granted, err = repo.TryMarkRewarded(ctx, 222222, 50*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, granted)
	})

	t.Run("users have independent cooldowns", func(t *testing.T) {
		granted, err := repo.TryMarkRewarded(ctx, 333333, time.Hour)
		require.NoError(t, err)
		assert.True(t, granted)

		granted, err = repo.TryMarkRewarded(ctx, 444444, time.Hour)
		require.NoError(t, err)
		assert.True(t, granted)
	})
}
