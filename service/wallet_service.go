package service

import (
	"context"
	"fmt"

	"bookie/config"
	"bookie/models"
)

type walletService struct {
	uowFactory UnitOfWorkFactory
	config     *config.Config
}

// NewWalletService creates a new wallet service
func NewWalletService(uowFactory UnitOfWorkFactory, cfg *config.Config) WalletService {
	return &walletService{
		uowFactory: uowFactory,
		config:     cfg,
	}
}

func (s *walletService) Balance(ctx context.Context, userID int64) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	balance, err := uow.WalletRepository().GetBalance(ctx, userID)
	if err != nil {
		return 0, err
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return balance, nil
}

func (s *walletService) Credit(ctx context.Context, userID int64, amount int64, reason models.TransactionReason, description string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("credit amount must be positive")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	txn, err := RecordLedgerEntry(ctx, uow, userID, amount, reason, description, nil, nil)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return txn, nil
}

func (s *walletService) Debit(ctx context.Context, userID int64, amount int64, reason models.TransactionReason, description string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("debit amount must be positive")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	txn, err := RecordLedgerEntry(ctx, uow, userID, -amount, reason, description, nil, nil)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return txn, nil
}

func (s *walletService) Transfer(ctx context.Context, fromUserID, toUserID int64, amount int64) (*models.TransferResult, error) {
	// Validate inputs
	if amount <= 0 {
		return nil, fmt.Errorf("transfer amount must be positive")
	}
	if fromUserID == toUserID {
		return nil, fmt.Errorf("cannot transfer to yourself")
	}
	if s.config.IsSystemAccount(fromUserID) || s.config.IsSystemAccount(toUserID) {
		return nil, fmt.Errorf("cannot transfer with a system account")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	// Deduct from the sender first so an uncovered transfer fails before any
	// ledger entry exists
	fromTxn, err := RecordLedgerEntry(ctx, uow, fromUserID, -amount, models.ReasonTransfer,
		fmt.Sprintf("Transfer to user %d", toUserID),
		map[string]any{"counterparty_id": toUserID}, nil)
	if err != nil {
		return nil, err
	}

	toTxn, err := RecordLedgerEntry(ctx, uow, toUserID, amount, models.ReasonTransfer,
		fmt.Sprintf("Transfer from user %d", fromUserID),
		map[string]any{"counterparty_id": fromUserID}, nil)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.TransferResult{
		Amount:           amount,
		SenderBalance:    fromTxn.BalanceAfter,
		RecipientBalance: toTxn.BalanceAfter,
	}, nil
}

func (s *walletService) Mint(ctx context.Context, minterID, targetID int64, amount int64) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("mint amount must be positive")
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	txn, err := RecordLedgerEntry(ctx, uow, targetID, amount, models.ReasonAdminMint,
		"Staff mint", map[string]any{"minted_by": minterID}, nil)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return txn, nil
}

func (s *walletService) TryActivityReward(ctx context.Context, userID int64) (bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	// Cooldown mark and credit share the unit of work: a failed credit rolls
	// the mark back, so the user is not locked out without being paid
	granted, err := uow.ActivityRepository().TryMarkRewarded(ctx, userID, s.config.ActivityRewardCooldown)
	if err != nil {
		return false, err
	}
	if !granted {
		return false, nil
	}

	if _, err := RecordLedgerEntry(ctx, uow, userID, s.config.ActivityRewardAmount, models.ReasonBonus,
		"Message activity reward", nil, nil); err != nil {
		return false, err
	}

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return true, nil
}

func (s *walletService) RecentTransactions(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error) {
	if limit <= 0 {
		limit = 10
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	txns, err := uow.LedgerRepository().GetByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return txns, nil
}
