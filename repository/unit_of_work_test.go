package repository

import (
	"context"
	"testing"

	"bookie/events"
	"bookie/models"
	"bookie/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitPersistsAtomically(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())
	ctx := context.Background()

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	balance, err := uow.WalletRepository().Credit(ctx, 123456, 10000)
	require.NoError(t, err)
	require.NoError(t, uow.LedgerRepository().Append(ctx,
		testutil.CreateTestTransaction(123456, 10000, balance, models.ReasonAdminMint)))

	require.NoError(t, uow.Commit())

	// Both sides of the unit are visible outside the transaction
	walletRepo := NewWalletRepository(testDB.DB)
	ledgerRepo := NewLedgerRepository(testDB.DB)

	storedBalance, err := walletRepo.GetBalance(ctx, 123456)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), storedBalance)

	sum, err := ledgerRepo.SumByUser(ctx, 123456)
	require.NoError(t, err)
	assert.Equal(t, storedBalance, sum)
}

func TestUnitOfWork_RollbackLeavesNoTrace(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())
	ctx := context.Background()

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	balance, err := uow.WalletRepository().Credit(ctx, 123456, 10000)
	require.NoError(t, err)
	require.NoError(t, uow.LedgerRepository().Append(ctx,
		testutil.CreateTestTransaction(123456, 10000, balance, models.ReasonAdminMint)))

	require.NoError(t, uow.Rollback())

	// Neither the wallet nor the ledger entry survived
	walletRepo := NewWalletRepository(testDB.DB)
	ledgerRepo := NewLedgerRepository(testDB.DB)

	wallet, err := walletRepo.GetByUserID(ctx, 123456)
	require.NoError(t, err)
	assert.Nil(t, wallet)

	sum, err := ledgerRepo.SumByUser(ctx, 123456)
	require.NoError(t, err)
	assert.Equal(t, int64(0), sum)
}

func TestUnitOfWork_BeginTwice(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())
	ctx := context.Background()

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	err := uow.Begin(ctx)
	assert.Error(t, err)
}

func TestUnitOfWork_RollbackAfterCommitIsNoOp(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())
	ctx := context.Background()

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	_, err := uow.WalletRepository().Credit(ctx, 123456, 5000)
	require.NoError(t, err)

	require.NoError(t, uow.Commit())
	assert.NoError(t, uow.Rollback())

	// The committed credit stays
	balance, err := NewWalletRepository(testDB.DB).GetBalance(ctx, 123456)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), balance)
}
