package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"bookie/models"
	"bookie/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletRepository_GetByUserID(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewWalletRepository(testDB.DB)
	ctx := context.Background()

	t.Run("wallet not found", func(t *testing.T) {
		wallet, err := repo.GetByUserID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, wallet)
	})

	t.Run("wallet found after first credit", func(t *testing.T) {
		_, err := repo.Credit(ctx, 123456, 10000)
		require.NoError(t, err)

		wallet, err := repo.GetByUserID(ctx, 123456)
		require.NoError(t, err)
		require.NotNil(t, wallet)

		assert.Equal(t, int64(123456), wallet.UserID)
		assert.Equal(t, int64(10000), wallet.Balance)
		assert.False(t, wallet.CreatedAt.IsZero())
		assert.False(t, wallet.UpdatedAt.IsZero())
	})
}

func TestWalletRepository_GetBalance(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewWalletRepository(testDB.DB)
	ctx := context.Background()

	t.Run("unseen user has zero balance", func(t *testing.T) {
		balance, err := repo.GetBalance(ctx, 999999)
		require.NoError(t, err)
		assert.Equal(t, int64(0), balance)
	})

	t.Run("balance after credit", func(t *testing.T) {
		_, err := repo.Credit(ctx, 123456, 7500)
		require.NoError(t, err)

		balance, err := repo.GetBalance(ctx, 123456)
		require.NoError(t, err)
		assert.Equal(t, int64(7500), balance)
	})
}

func TestWalletRepository_Credit(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewWalletRepository(testDB.DB)
	ctx := context.Background()

	t.Run("creates wallet lazily", func(t *testing.T) {
		newBalance, err := repo.Credit(ctx, 111111, 5000)
		require.NoError(t, err)
		assert.Equal(t, int64(5000), newBalance)
	})

	t.Run("accumulates on existing wallet", func(t *testing.T) {
		_, err := repo.Credit(ctx, 222222, 5000)
		require.NoError(t, err)

		newBalance, err := repo.Credit(ctx, 222222, 2500)
		require.NoError(t, err)
		assert.Equal(t, int64(7500), newBalance)
	})
}

func TestWalletRepository_Debit(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewWalletRepository(testDB.DB)
	ctx := context.Background()

	t.Run("successful debit", func(t *testing.T) {
		_, err := repo.Credit(ctx, 111111, 10000)
		require.NoError(t, err)

		newBalance, err := repo.Debit(ctx, 111111, 4000)
		require.NoError(t, err)
		assert.Equal(t, int64(6000), newBalance)
	})

	t.Run("debit down to zero", func(t *testing.T) {
		_, err := repo.Credit(ctx, 222222, 3000)
		require.NoError(t, err)

		newBalance, err := repo.Debit(ctx, 222222, 3000)
		require.NoError(t, err)
		assert.Equal(t, int64(0), newBalance)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		_, err := repo.Credit(ctx, 333333, 1000)
		require.NoError(t, err)

		_, err = repo.Debit(ctx, 333333, 1001)
		assert.ErrorIs(t, err, models.ErrInsufficientFunds)

		// The failed debit must not touch the balance
		balance, err := repo.GetBalance(ctx, 333333)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), balance)
	})

	t.Run("debit on absent wallet", func(t *testing.T) {
		_, err := repo.Debit(ctx, 999999, 100)
		assert.ErrorIs(t, err, models.ErrInsufficientFunds)
	})
}

func TestWalletRepository_ConcurrentDebits(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewWalletRepository(testDB.DB)
	ctx := context.Background()

	// The wallet covers exactly one of the ten racing debits
	userID := int64(424242)
	_, err := repo.Credit(ctx, userID, 10000)
	require.NoError(t, err)

	const attempts = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	var unexpected []error

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Debit(ctx, userID, 10000)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case !errors.Is(err, models.ErrInsufficientFunds):
				unexpected = append(unexpected, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes, "exactly one debit may win the balance")
	assert.Empty(t, unexpected, "losers must fail with insufficient funds")

	balance, err := repo.GetBalance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}
