package repository

import (
	"context"
	"testing"

	"bookie/models"
	"bookie/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupBetFixtures creates the wallet, debit ledger entry, and open market a
// bet row needs to satisfy its foreign keys
func setupBetFixtures(t *testing.T, testDB *testutil.TestDatabase, userID int64, marketKey string) int64 {
	t.Helper()
	ctx := context.Background()

	walletRepo := NewWalletRepository(testDB.DB)
	ledgerRepo := NewLedgerRepository(testDB.DB)
	marketRepo := NewMarketRepository(testDB.DB)

	_, err := walletRepo.Credit(ctx, userID, 100000)
	require.NoError(t, err)

	require.NoError(t, marketRepo.Create(ctx, testutil.CreateTestMarket(marketKey, "Winner Race")))

	debitTxn := testutil.CreateTestTransaction(userID, -10000, 90000, models.ReasonBetDebit)
	require.NoError(t, ledgerRepo.Append(ctx, debitTxn))

	return debitTxn.ID
}

func TestBetRepository_CreateGroup(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBetRepository(testDB.DB)
	ctx := context.Background()

	debitTxnID := setupBetFixtures(t, testDB, 123456, "winnaar race")

	t.Run("all rows share the request and debit", func(t *testing.T) {
		bets := testutil.CreateTestBetGroup(123456, "winnaar race", []int64{1, 2}, []int64{5000, 5000}, debitTxnID)

		err := repo.CreateGroup(ctx, bets)
		require.NoError(t, err)

		for _, bet := range bets {
			assert.NotZero(t, bet.ID)
			assert.False(t, bet.CreatedAt.IsZero())
		}

		stored, err := repo.ListByRequestID(ctx, bets[0].RequestID)
		require.NoError(t, err)
		require.Len(t, stored, 2)
		assert.Equal(t, stored[0].RequestID, stored[1].RequestID)
		assert.Equal(t, debitTxnID, stored[0].DebitTxnID)
		assert.Equal(t, debitTxnID, stored[1].DebitTxnID)
		assert.Equal(t, models.BetStatusOpen, stored[0].Status)
	})

	t.Run("empty group is a no-op", func(t *testing.T) {
		assert.NoError(t, repo.CreateGroup(ctx, nil))
	})
}

func TestBetRepository_GetByID(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBetRepository(testDB.DB)
	ctx := context.Background()

	t.Run("bet not found", func(t *testing.T) {
		bet, err := repo.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, bet)
	})

	t.Run("bet found", func(t *testing.T) {
		debitTxnID := setupBetFixtures(t, testDB, 123456, "winnaar race")
		bets := []*models.Bet{testutil.CreateTestBet(123456, "winnaar race", 1, 10000, debitTxnID)}
		require.NoError(t, repo.CreateGroup(ctx, bets))

		bet, err := repo.GetByID(ctx, bets[0].ID)
		require.NoError(t, err)
		require.NotNil(t, bet)
		assert.Equal(t, int64(123456), bet.UserID)
		assert.Equal(t, int64(10000), bet.Amount)
		assert.Nil(t, bet.ResolutionTxnID)
		assert.Nil(t, bet.ResolvedAt)
	})
}

func TestBetRepository_ListOpenByUser(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBetRepository(testDB.DB)
	ledgerRepo := NewLedgerRepository(testDB.DB)
	ctx := context.Background()

	debitTxnID := setupBetFixtures(t, testDB, 123456, "winnaar race")

	bets := testutil.CreateTestBetGroup(123456, "winnaar race", []int64{1, 2}, []int64{5000, 5000}, debitTxnID)
	require.NoError(t, repo.CreateGroup(ctx, bets))

	// Cancel one of the two; only the open one should list
	refundTxn := testutil.CreateTestTransaction(123456, 5000, 95000, models.ReasonBetRefund)
	require.NoError(t, ledgerRepo.Append(ctx, refundTxn))
	require.NoError(t, repo.MarkCancelled(ctx, bets[0].ID, refundTxn.ID))

	open, err := repo.ListOpenByUser(ctx, 123456)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, bets[1].ID, open[0].ID)

	open, err = repo.ListOpenByUser(ctx, 999999)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestBetRepository_ListOpenByMarket(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBetRepository(testDB.DB)
	ctx := context.Background()

	firstDebit := setupBetFixtures(t, testDB, 111111, "winnaar race")
	secondDebit := setupBetFixtures(t, testDB, 222222, "kwalificatie")

	require.NoError(t, repo.CreateGroup(ctx, []*models.Bet{
		testutil.CreateTestBet(111111, "winnaar race", 1, 10000, firstDebit),
	}))
	require.NoError(t, repo.CreateGroup(ctx, []*models.Bet{
		testutil.CreateTestBet(222222, "kwalificatie", 1, 10000, secondDebit),
	}))

	open, err := repo.ListOpenByMarket(ctx, "winnaar race")
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, int64(111111), open[0].UserID)
}

func TestBetRepository_MarkCancelled(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBetRepository(testDB.DB)
	ledgerRepo := NewLedgerRepository(testDB.DB)
	marketRepo := NewMarketRepository(testDB.DB)
	ctx := context.Background()

	t.Run("cancels an open bet on an open market", func(t *testing.T) {
		debitTxnID := setupBetFixtures(t, testDB, 123456, "winnaar race")
		bets := []*models.Bet{testutil.CreateTestBet(123456, "winnaar race", 1, 10000, debitTxnID)}
		require.NoError(t, repo.CreateGroup(ctx, bets))

		refundTxn := testutil.CreateTestTransaction(123456, 10000, 100000, models.ReasonBetRefund)
		require.NoError(t, ledgerRepo.Append(ctx, refundTxn))

		require.NoError(t, repo.MarkCancelled(ctx, bets[0].ID, refundTxn.ID))

		stored, err := repo.GetByID(ctx, bets[0].ID)
		require.NoError(t, err)
		assert.Equal(t, models.BetStatusCancelled, stored.Status)
		require.NotNil(t, stored.ResolutionTxnID)
		assert.Equal(t, refundTxn.ID, *stored.ResolutionTxnID)
		assert.NotNil(t, stored.ResolvedAt)
	})

	t.Run("second cancellation loses the status gate", func(t *testing.T) {
		debitTxnID := setupBetFixtures(t, testDB, 222222, "dubbel")
		bets := []*models.Bet{testutil.CreateTestBet(222222, "dubbel", 1, 10000, debitTxnID)}
		require.NoError(t, repo.CreateGroup(ctx, bets))

		refundTxn := testutil.CreateTestTransaction(222222, 10000, 100000, models.ReasonBetRefund)
		require.NoError(t, ledgerRepo.Append(ctx, refundTxn))

		require.NoError(t, repo.MarkCancelled(ctx, bets[0].ID, refundTxn.ID))

		err := repo.MarkCancelled(ctx, bets[0].ID, refundTxn.ID)
		assert.ErrorIs(t, err, models.ErrConcurrentStateConflict)
	})

	t.Run("closing market rejects cancellation", func(t *testing.T) {
		debitTxnID := setupBetFixtures(t, testDB, 333333, "sluitend")
		bets := []*models.Bet{testutil.CreateTestBet(333333, "sluitend", 1, 10000, debitTxnID)}
		require.NoError(t, repo.CreateGroup(ctx, bets))

		moved, err := marketRepo.TransitionState(ctx, "sluitend", models.MarketStateOpen, models.MarketStateClosing)
		require.NoError(t, err)
		require.True(t, moved)

		refundTxn := testutil.CreateTestTransaction(333333, 10000, 100000, models.ReasonBetRefund)
		require.NoError(t, ledgerRepo.Append(ctx, refundTxn))

		err = repo.MarkCancelled(ctx, bets[0].ID, refundTxn.ID)
		assert.ErrorIs(t, err, models.ErrMarketAlreadyClosing)

		// The bet stays open for the reconciler to refund
		stored, err := repo.GetByID(ctx, bets[0].ID)
		require.NoError(t, err)
		assert.Equal(t, models.BetStatusOpen, stored.Status)
	})

	t.Run("missing bet", func(t *testing.T) {
		err := repo.MarkCancelled(ctx, 999999, 1)
		assert.ErrorIs(t, err, models.ErrBetNotFound)
	})
}

func TestBetRepository_MarkClosedPendingReview(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewBetRepository(testDB.DB)
	ledgerRepo := NewLedgerRepository(testDB.DB)
	ctx := context.Background()

	debitTxnID := setupBetFixtures(t, testDB, 123456, "winnaar race")
	bets := []*models.Bet{testutil.CreateTestBet(123456, "winnaar race", 1, 10000, debitTxnID)}
	require.NoError(t, repo.CreateGroup(ctx, bets))

	refundTxn := testutil.CreateTestTransaction(123456, 10000, 100000, models.ReasonBetRefund)
	require.NoError(t, ledgerRepo.Append(ctx, refundTxn))

	t.Run("first transition wins", func(t *testing.T) {
		flipped, err := repo.MarkClosedPendingReview(ctx, bets[0].ID, refundTxn.ID)
		require.NoError(t, err)
		assert.True(t, flipped)

		stored, err := repo.GetByID(ctx, bets[0].ID)
		require.NoError(t, err)
		assert.Equal(t, models.BetStatusClosedPendingReview, stored.Status)
	})

	t.Run("second transition reports false", func(t *testing.T) {
		flipped, err := repo.MarkClosedPendingReview(ctx, bets[0].ID, refundTxn.ID)
		require.NoError(t, err)
		assert.False(t, flipped)
	})

	t.Run("cancellation after review loses the gate", func(t *testing.T) {
		err := repo.MarkCancelled(ctx, bets[0].ID, refundTxn.ID)
		assert.ErrorIs(t, err, models.ErrConcurrentStateConflict)
	})
}
