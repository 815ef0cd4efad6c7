package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookie/config"
	"bookie/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestWalletService() (WalletService, *MockUnitOfWorkFactory, *MockUnitOfWork, *MockWalletRepository, *MockLedgerRepository, *MockActivityRepository) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	walletRepo := new(MockWalletRepository)
	ledgerRepo := new(MockLedgerRepository)
	activityRepo := new(MockActivityRepository)

	mockUoW.SetRepositories(walletRepo, ledgerRepo, nil, nil, activityRepo)
	mockFactory.On("Create").Return(mockUoW)

	cfg := &config.Config{
		ActivityRewardAmount:   100,
		ActivityRewardCooldown: time.Minute,
		SystemAccountIDs:       []int64{555},
	}

	service := NewWalletService(mockFactory, cfg)
	return service, mockFactory, mockUoW, walletRepo, ledgerRepo, activityRepo
}

func TestWalletService_Transfer(t *testing.T) {
	ctx := context.Background()
	service, _, mockUoW, walletRepo, ledgerRepo, _ := newTestWalletService()

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	walletRepo.On("Debit", ctx, int64(111), int64(100)).Return(int64(400), nil)
	walletRepo.On("Credit", ctx, int64(222), int64(100)).Return(int64(600), nil)

	ledgerRepo.On("Append", ctx, mock.MatchedBy(func(txn *models.Transaction) bool {
		return txn.UserID == 111 &&
			txn.Amount == -100 &&
			txn.BalanceAfter == 400 &&
			txn.Reason == models.ReasonTransfer &&
			txn.Metadata["counterparty_id"] == int64(222)
	})).Return(nil)
	ledgerRepo.On("Append", ctx, mock.MatchedBy(func(txn *models.Transaction) bool {
		return txn.UserID == 222 &&
			txn.Amount == 100 &&
			txn.BalanceAfter == 600 &&
			txn.Reason == models.ReasonTransfer &&
			txn.Metadata["counterparty_id"] == int64(111)
	})).Return(nil)

	result, err := service.Transfer(ctx, 111, 222, 100)

	require.NoError(t, err)
	assert.Equal(t, int64(100), result.Amount)
	assert.Equal(t, int64(400), result.SenderBalance)
	assert.Equal(t, int64(600), result.RecipientBalance)

	mockUoW.AssertExpectations(t)
	walletRepo.AssertExpectations(t)
	ledgerRepo.AssertExpectations(t)
}

func TestWalletService_Transfer_ToSelf(t *testing.T) {
	ctx := context.Background()
	mockFactory := new(MockUnitOfWorkFactory)
	service := NewWalletService(mockFactory, &config.Config{})

	_, err := service.Transfer(ctx, 111, 111, 100)

	require.Error(t, err)
	mockFactory.AssertNotCalled(t, "Create")
}

func TestWalletService_Transfer_SystemAccount(t *testing.T) {
	ctx := context.Background()
	service, mockFactory, _, _, _, _ := newTestWalletService()

	_, err := service.Transfer(ctx, 111, 555, 100)

	require.Error(t, err)
	mockFactory.AssertNotCalled(t, "Create")
}

func TestWalletService_Transfer_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	service, _, mockUoW, walletRepo, ledgerRepo, _ := newTestWalletService()

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	walletRepo.On("Debit", ctx, int64(111), int64(100)).Return(int64(0), models.ErrInsufficientFunds)

	_, err := service.Transfer(ctx, 111, 222, 100)

	assert.True(t, errors.Is(err, models.ErrInsufficientFunds))
	ledgerRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestWalletService_TryActivityReward_Granted(t *testing.T) {
	ctx := context.Background()
	service, _, mockUoW, walletRepo, ledgerRepo, activityRepo := newTestWalletService()

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	activityRepo.On("TryMarkRewarded", ctx, int64(123456), time.Minute).Return(true, nil)
	walletRepo.On("Credit", ctx, int64(123456), int64(100)).Return(int64(100), nil)
	ledgerRepo.On("Append", ctx, mock.MatchedBy(func(txn *models.Transaction) bool {
		return txn.Amount == 100 && txn.Reason == models.ReasonBonus
	})).Return(nil)

	granted, err := service.TryActivityReward(ctx, 123456)

	require.NoError(t, err)
	assert.True(t, granted)
	mockUoW.AssertExpectations(t)
	activityRepo.AssertExpectations(t)
}

func TestWalletService_TryActivityReward_OnCooldown(t *testing.T) {
	ctx := context.Background()
	service, _, mockUoW, walletRepo, _, activityRepo := newTestWalletService()

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	activityRepo.On("TryMarkRewarded", ctx, int64(123456), time.Minute).Return(false, nil)

	granted, err := service.TryActivityReward(ctx, 123456)

	require.NoError(t, err)
	assert.False(t, granted)
	walletRepo.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything)
	mockUoW.AssertNotCalled(t, "Commit")
}

func TestWalletService_Mint(t *testing.T) {
	ctx := context.Background()
	service, _, mockUoW, walletRepo, ledgerRepo, _ := newTestWalletService()

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	walletRepo.On("Credit", ctx, int64(222), int64(5000)).Return(int64(5000), nil)
	ledgerRepo.On("Append", ctx, mock.MatchedBy(func(txn *models.Transaction) bool {
		return txn.UserID == 222 &&
			txn.Amount == 5000 &&
			txn.Reason == models.ReasonAdminMint &&
			txn.Metadata["minted_by"] == int64(999)
	})).Return(nil)

	txn, err := service.Mint(ctx, 999, 222, 5000)

	require.NoError(t, err)
	assert.Equal(t, int64(5000), txn.BalanceAfter)
	mockUoW.AssertExpectations(t)
	ledgerRepo.AssertExpectations(t)
}

func TestWalletService_Balance_UnseenUser(t *testing.T) {
	ctx := context.Background()
	service, _, mockUoW, walletRepo, _, _ := newTestWalletService()

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)
	walletRepo.On("GetBalance", ctx, int64(123456)).Return(int64(0), nil)

	balance, err := service.Balance(ctx, 123456)

	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}
