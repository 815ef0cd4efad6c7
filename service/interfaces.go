package service

import (
	"context"
	"time"

	"bookie/events"
	"bookie/models"

	"github.com/google/uuid"
)

// WalletRepository defines the interface for wallet data access
type WalletRepository interface {
	// GetByUserID retrieves a wallet by user ID, nil if never created
	GetByUserID(ctx context.Context, userID int64) (*models.Wallet, error)

	// GetBalance returns the current balance, zero for unseen users
	GetBalance(ctx context.Context, userID int64) (int64, error)

	// Credit adds to a wallet, creating it lazily, and returns the new balance
	Credit(ctx context.Context, userID int64, amount int64) (int64, error)

	// Debit removes from a wallet atomically, failing if insufficient funds
	Debit(ctx context.Context, userID int64, amount int64) (int64, error)
}

// LedgerRepository defines the interface for the append-only transaction ledger
type LedgerRepository interface {
	// Append writes a new ledger entry
	Append(ctx context.Context, txn *models.Transaction) error

	// GetByUser returns a user's most recent ledger entries
	GetByUser(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error)

	// GetByID retrieves a single ledger entry, nil if it does not exist
	GetByID(ctx context.Context, id int64) (*models.Transaction, error)

	// SumByUser returns the sum of all ledger amounts for a user
	SumByUser(ctx context.Context, userID int64) (int64, error)
}

// MarketRepository defines the interface for market and outcome data access
type MarketRepository interface {
	// Create inserts a market together with its outcomes
	Create(ctx context.Context, market *models.Market) error

	// GetByKey retrieves a market and its outcomes, nil if it does not exist
	GetByKey(ctx context.Context, marketKey string) (*models.Market, error)

	// GetByKeyForShare retrieves a market holding a share lock on its row
	// until the enclosing transaction ends
	GetByKeyForShare(ctx context.Context, marketKey string) (*models.Market, error)

	// GetPromoted retrieves the promoted market, nil if none is promoted
	GetPromoted(ctx context.Context) (*models.Market, error)

	// ListByStates retrieves all markets in any of the given states
	ListByStates(ctx context.Context, states ...models.MarketState) ([]*models.Market, error)

	// UpdateDetails refreshes display metadata and the last-seen timestamp
	UpdateDetails(ctx context.Context, market *models.Market) error

	// UpsertOutcome inserts or relabels an outcome, never deleting
	UpsertOutcome(ctx context.Context, outcome *models.Outcome) error

	// TransitionState conditionally moves a market between lifecycle states
	TransitionState(ctx context.Context, marketKey string, from, to models.MarketState) (bool, error)

	// Promote makes a market the promoted one, replacing the current holder
	Promote(ctx context.Context, marketKey string) error

	// ClearPromoted removes the promoted flag from whichever market holds it
	ClearPromoted(ctx context.Context) error
}

// BetRepository defines the interface for bet data access
type BetRepository interface {
	// CreateGroup inserts all bets of one placement request
	CreateGroup(ctx context.Context, bets []*models.Bet) error

	// GetByID retrieves a bet by its ID, nil if it does not exist
	GetByID(ctx context.Context, id int64) (*models.Bet, error)

	// ListByRequestID retrieves all bets placed by one request
	ListByRequestID(ctx context.Context, requestID uuid.UUID) ([]*models.Bet, error)

	// ListOpenByUser retrieves a user's open bets
	ListOpenByUser(ctx context.Context, userID int64) ([]*models.Bet, error)

	// ListOpenByMarket retrieves all open bets on a market
	ListOpenByMarket(ctx context.Context, marketKey string) ([]*models.Bet, error)

	// MarkCancelled flips an open bet on an open market to cancelled
	MarkCancelled(ctx context.Context, betID int64, resolutionTxnID int64) error

	// MarkClosedPendingReview flips an open bet to closed-pending-review,
	// reporting false when the bet already left the open state
	MarkClosedPendingReview(ctx context.Context, betID int64, resolutionTxnID int64) (bool, error)
}

// ActivityRepository defines the interface for activity reward cooldowns
type ActivityRepository interface {
	// TryMarkRewarded records a reward unless the cooldown still runs,
	// reporting whether it was granted
	TryMarkRewarded(ctx context.Context, userID int64, cooldown time.Duration) (bool, error)
}

// WalletService defines the interface for wallet operations
type WalletService interface {
	// Balance returns a user's current balance without creating a wallet
	Balance(ctx context.Context, userID int64) (int64, error)

	// Credit adds funds and appends the matching ledger entry
	Credit(ctx context.Context, userID int64, amount int64, reason models.TransactionReason, description string) (*models.Transaction, error)

	// Debit removes funds and appends the matching ledger entry
	Debit(ctx context.Context, userID int64, amount int64, reason models.TransactionReason, description string) (*models.Transaction, error)

	// Transfer moves funds between two users in one atomic unit
	Transfer(ctx context.Context, fromUserID, toUserID int64, amount int64) (*models.TransferResult, error)

	// Mint credits funds out of thin air, recording who minted them
	Mint(ctx context.Context, minterID, targetID int64, amount int64) (*models.Transaction, error)

	// TryActivityReward credits the activity reward unless the user is on
	// cooldown, reporting whether it was granted
	TryActivityReward(ctx context.Context, userID int64) (bool, error)

	// RecentTransactions returns a user's most recent ledger entries
	RecentTransactions(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error)
}

// BettingService defines the interface for bet placement and cancellation
type BettingService interface {
	// PlaceBet validates a placement request and executes it atomically
	PlaceBet(ctx context.Context, req *models.BetRequest) (*models.PlaceBetResult, error)

	// CancelBet cancels an open bet and refunds its stake
	CancelBet(ctx context.Context, betID int64, requesterID int64, isStaff bool) (*models.CancelBetResult, error)

	// OpenBets returns a user's open bets
	OpenBets(ctx context.Context, userID int64) ([]*models.Bet, error)
}

// MarketService defines the interface for market reads and promotion
type MarketService interface {
	// ListOpenMarkets returns all markets currently accepting bets
	ListOpenMarkets(ctx context.Context) ([]*models.Market, error)

	// GetMarket retrieves a market by key, nil if it does not exist
	GetMarket(ctx context.Context, marketKey string) (*models.Market, error)

	// PromotedMarket returns the promoted market, nil if none is promoted
	PromotedMarket(ctx context.Context) (*models.Market, error)

	// Promote makes a market the promoted one
	Promote(ctx context.Context, marketKey string) (*models.Market, error)
}

// ReconcileService defines the interface for market synchronization
type ReconcileService interface {
	// Reconcile folds a feed snapshot into the market store
	Reconcile(ctx context.Context, snapshot []models.MarketSnapshot) (*models.ReconcileResult, error)
}

// SnapshotFetcher defines the interface for fetching feed snapshots
type SnapshotFetcher interface {
	// Fetch retrieves the current market snapshot from the feed
	Fetch(ctx context.Context) ([]models.MarketSnapshot, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	WalletRepository() WalletRepository
	LedgerRepository() LedgerRepository
	MarketRepository() MarketRepository
	BetRepository() BetRepository
	ActivityRepository() ActivityRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
