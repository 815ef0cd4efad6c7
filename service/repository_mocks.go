package service

import (
	"context"
	"time"

	"bookie/events"
	"bookie/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockWalletRepository is a mock implementation of WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) GetByUserID(ctx context.Context, userID int64) (*models.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetBalance(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWalletRepository) Credit(ctx context.Context, userID int64, amount int64) (int64, error) {
	args := m.Called(ctx, userID, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWalletRepository) Debit(ctx context.Context, userID int64, amount int64) (int64, error) {
	args := m.Called(ctx, userID, amount)
	return args.Get(0).(int64), args.Error(1)
}

// MockLedgerRepository is a mock implementation of LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Append(ctx context.Context, txn *models.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) GetByID(ctx context.Context, id int64) (*models.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) SumByUser(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockMarketRepository is a mock implementation of MarketRepository
type MockMarketRepository struct {
	mock.Mock
}

func (m *MockMarketRepository) Create(ctx context.Context, market *models.Market) error {
	args := m.Called(ctx, market)
	return args.Error(0)
}

func (m *MockMarketRepository) GetByKey(ctx context.Context, marketKey string) (*models.Market, error) {
	args := m.Called(ctx, marketKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Market), args.Error(1)
}

func (m *MockMarketRepository) GetByKeyForShare(ctx context.Context, marketKey string) (*models.Market, error) {
	args := m.Called(ctx, marketKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Market), args.Error(1)
}

func (m *MockMarketRepository) GetPromoted(ctx context.Context) (*models.Market, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Market), args.Error(1)
}

func (m *MockMarketRepository) ListByStates(ctx context.Context, states ...models.MarketState) ([]*models.Market, error) {
	callArgs := make([]interface{}, 0, len(states)+1)
	callArgs = append(callArgs, ctx)
	for _, state := range states {
		callArgs = append(callArgs, state)
	}
	args := m.Called(callArgs...)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Market), args.Error(1)
}

func (m *MockMarketRepository) UpdateDetails(ctx context.Context, market *models.Market) error {
	args := m.Called(ctx, market)
	return args.Error(0)
}

func (m *MockMarketRepository) UpsertOutcome(ctx context.Context, outcome *models.Outcome) error {
	args := m.Called(ctx, outcome)
	return args.Error(0)
}

func (m *MockMarketRepository) TransitionState(ctx context.Context, marketKey string, from, to models.MarketState) (bool, error) {
	args := m.Called(ctx, marketKey, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockMarketRepository) Promote(ctx context.Context, marketKey string) error {
	args := m.Called(ctx, marketKey)
	return args.Error(0)
}

func (m *MockMarketRepository) ClearPromoted(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockBetRepository is a mock implementation of BetRepository
type MockBetRepository struct {
	mock.Mock
}

func (m *MockBetRepository) CreateGroup(ctx context.Context, bets []*models.Bet) error {
	args := m.Called(ctx, bets)
	return args.Error(0)
}

func (m *MockBetRepository) GetByID(ctx context.Context, id int64) (*models.Bet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bet), args.Error(1)
}

func (m *MockBetRepository) ListByRequestID(ctx context.Context, requestID uuid.UUID) ([]*models.Bet, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bet), args.Error(1)
}

func (m *MockBetRepository) ListOpenByUser(ctx context.Context, userID int64) ([]*models.Bet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bet), args.Error(1)
}

func (m *MockBetRepository) ListOpenByMarket(ctx context.Context, marketKey string) ([]*models.Bet, error) {
	args := m.Called(ctx, marketKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bet), args.Error(1)
}

func (m *MockBetRepository) MarkCancelled(ctx context.Context, betID int64, resolutionTxnID int64) error {
	args := m.Called(ctx, betID, resolutionTxnID)
	return args.Error(0)
}

func (m *MockBetRepository) MarkClosedPendingReview(ctx context.Context, betID int64, resolutionTxnID int64) (bool, error) {
	args := m.Called(ctx, betID, resolutionTxnID)
	return args.Bool(0), args.Error(1)
}

// MockActivityRepository is a mock implementation of ActivityRepository
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) TryMarkRewarded(ctx context.Context, userID int64, cooldown time.Duration) (bool, error) {
	args := m.Called(ctx, userID, cooldown)
	return args.Bool(0), args.Error(1)
}

// RecordingEventPublisher collects published events for assertions
type RecordingEventPublisher struct {
	Published []events.Event
}

func (p *RecordingEventPublisher) Publish(event events.Event) {
	p.Published = append(p.Published, event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Begin, Commit, and
// Rollback dispatch through testify expectations; the repository getters
// return whatever SetRepositories wired in.
type MockUnitOfWork struct {
	mock.Mock
	walletRepo   WalletRepository
	ledgerRepo   LedgerRepository
	marketRepo   MarketRepository
	betRepo      BetRepository
	activityRepo ActivityRepository
	eventBus     *RecordingEventPublisher
}

// SetRepositories wires the repositories the getters hand out
func (m *MockUnitOfWork) SetRepositories(wallet WalletRepository, ledger LedgerRepository, market MarketRepository, bet BetRepository, activity ActivityRepository) {
	m.walletRepo = wallet
	m.ledgerRepo = ledger
	m.marketRepo = market
	m.betRepo = bet
	m.activityRepo = activity
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) WalletRepository() WalletRepository {
	return m.walletRepo
}

func (m *MockUnitOfWork) LedgerRepository() LedgerRepository {
	return m.ledgerRepo
}

func (m *MockUnitOfWork) MarketRepository() MarketRepository {
	return m.marketRepo
}

func (m *MockUnitOfWork) BetRepository() BetRepository {
	return m.betRepo
}

func (m *MockUnitOfWork) ActivityRepository() ActivityRepository {
	return m.activityRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.eventBus == nil {
		m.eventBus = &RecordingEventPublisher{}
	}
	return m.eventBus
}

// PublishedEvents returns the events queued on this unit of work
func (m *MockUnitOfWork) PublishedEvents() []events.Event {
	if m.eventBus == nil {
		return nil
	}
	return m.eventBus.Published
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
