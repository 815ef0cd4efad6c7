package repository

import (
	"context"
	"testing"

	"bookie/models"
	"bookie/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRepository_Append(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	walletRepo := NewWalletRepository(testDB.DB)
	repo := NewLedgerRepository(testDB.DB)
	ctx := context.Background()

	t.Run("fills generated fields", func(t *testing.T) {
		_, err := walletRepo.Credit(ctx, 123456, 10000)
		require.NoError(t, err)

		txn := testutil.CreateTestTransaction(123456, 10000, 10000, models.ReasonAdminMint)
		err = repo.Append(ctx, txn)
		require.NoError(t, err)

		assert.NotZero(t, txn.ID)
		assert.False(t, txn.CreatedAt.IsZero())
	})

	t.Run("metadata round-trips", func(t *testing.T) {
		_, err := walletRepo.Credit(ctx, 222222, 5000)
		require.NoError(t, err)

		txn := testutil.CreateTestTransaction(222222, 5000, 5000, models.ReasonBonus)
		txn.Metadata = map[string]any{"minted_by": "714"}
		require.NoError(t, repo.Append(ctx, txn))

		stored, err := repo.GetByID(ctx, txn.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "714", stored.Metadata["minted_by"])
		assert.Equal(t, models.ReasonBonus, stored.Reason)
	})
}

func TestLedgerRepository_GetByUser(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	walletRepo := NewWalletRepository(testDB.DB)
	repo := NewLedgerRepository(testDB.DB)
	ctx := context.Background()

	t.Run("no entries", func(t *testing.T) {
		txns, err := repo.GetByUser(ctx, 999999, 10)
		require.NoError(t, err)
		assert.Empty(t, txns)
	})

	t.Run("newest first with limit", func(t *testing.T) {
		userID := int64(123456)
		_, err := walletRepo.Credit(ctx, userID, 30000)
		require.NoError(t, err)

		first := testutil.CreateTestTransaction(userID, 10000, 10000, models.ReasonAdminMint)
		second := testutil.CreateTestTransaction(userID, 10000, 20000, models.ReasonAdminMint)
		third := testutil.CreateTestTransaction(userID, 10000, 30000, models.ReasonBonus)
		require.NoError(t, repo.Append(ctx, first))
		require.NoError(t, repo.Append(ctx, second))
		require.NoError(t, repo.Append(ctx, third))

		txns, err := repo.GetByUser(ctx, userID, 2)
		require.NoError(t, err)
		require.Len(t, txns, 2)
		assert.Equal(t, third.ID, txns[0].ID)
		assert.Equal(t, second.ID, txns[1].ID)
	})
}

func TestLedgerRepository_GetByID(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLedgerRepository(testDB.DB)
	ctx := context.Background()

	txn, err := repo.GetByID(ctx, 999999)
	require.NoError(t, err)
	assert.Nil(t, txn)
}

func TestLedgerRepository_SumByUser(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	walletRepo := NewWalletRepository(testDB.DB)
	repo := NewLedgerRepository(testDB.DB)
	ctx := context.Background()

	t.Run("empty ledger sums to zero", func(t *testing.T) {
		sum, err := repo.SumByUser(ctx, 999999)
		require.NoError(t, err)
		assert.Equal(t, int64(0), sum)
	})

	t.Run("sum equals wallet balance", func(t *testing.T) {
		userID := int64(123456)

		// Mirror a credit and a debit in wallet and ledger alike
		balance, err := walletRepo.Credit(ctx, userID, 10000)
		require.NoError(t, err)
		require.NoError(t, repo.Append(ctx, testutil.CreateTestTransaction(userID, 10000, balance, models.ReasonAdminMint)))

		balance, err = walletRepo.Debit(ctx, userID, 3500)
		require.NoError(t, err)
		require.NoError(t, repo.Append(ctx, testutil.CreateTestTransaction(userID, -3500, balance, models.ReasonBetDebit)))

		sum, err := repo.SumByUser(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, int64(6500), sum)

		walletBalance, err := walletRepo.GetBalance(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, walletBalance, sum)
	})
}
