package service

import (
	"context"
	"fmt"

	"bookie/events"
	"bookie/models"

	"github.com/google/uuid"
)

type bettingService struct {
	uowFactory UnitOfWorkFactory
}

// NewBettingService creates a new betting service
func NewBettingService(uowFactory UnitOfWorkFactory) BettingService {
	return &bettingService{
		uowFactory: uowFactory,
	}
}

// PlaceBet validates the request, splits the stake across the selected
// outcomes, and executes the placement in one unit of work: the market must
// be open at the moment the debit lands, the wallet is debited exactly once,
// and one bet row per selection is written sharing a request ID and the
// debit transaction. Any failure leaves no trace.
func (s *bettingService) PlaceBet(ctx context.Context, req *models.BetRequest) (*models.PlaceBetResult, error) {
	// Validate the request before touching storage
	if req.MarketKey == "" {
		return nil, fmt.Errorf("market key is required")
	}
	if len(req.OutcomeIDs) == 0 {
		return nil, fmt.Errorf("at least one selection is required")
	}
	seen := make(map[int64]bool, len(req.OutcomeIDs))
	for _, outcomeID := range req.OutcomeIDs {
		if seen[outcomeID] {
			return nil, fmt.Errorf("selection %d appears twice", outcomeID)
		}
		seen[outcomeID] = true
	}
	if req.TotalAmount <= 0 {
		return nil, fmt.Errorf("bet amount must be positive")
	}

	amounts, err := resolveSplitAmounts(req)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	// The share lock holds the market state steady until this unit of work
	// commits, so a reconciler closing the market either waits for these
	// bets or already flipped the state and fails the check below
	market, err := uow.MarketRepository().GetByKeyForShare(ctx, req.MarketKey)
	if err != nil {
		return nil, err
	}
	if market == nil {
		return nil, fmt.Errorf("%w: market %s not found", models.ErrMarketNotOpen, req.MarketKey)
	}
	if market.State != models.MarketStateOpen {
		return nil, fmt.Errorf("%w: market %s is %s", models.ErrMarketNotOpen, market.MarketKey, market.State)
	}

	for _, outcomeID := range req.OutcomeIDs {
		if market.FindOutcome(outcomeID) == nil {
			return nil, fmt.Errorf("%w: market %s has no outcome %d", models.ErrUnknownOutcome, market.MarketKey, outcomeID)
		}
	}

	requestID := uuid.New()

	// One debit covers the whole placement
	debitTxn, err := RecordLedgerEntry(ctx, uow, req.UserID, -req.TotalAmount, models.ReasonBetDebit,
		fmt.Sprintf("Bet on %s", market.DisplayName),
		map[string]any{"request_id": requestID.String(), "market_key": market.MarketKey}, nil)
	if err != nil {
		return nil, err
	}

	bets := make([]*models.Bet, len(req.OutcomeIDs))
	for i, outcomeID := range req.OutcomeIDs {
		bets[i] = &models.Bet{
			RequestID:  requestID,
			UserID:     req.UserID,
			MarketKey:  market.MarketKey,
			OutcomeID:  outcomeID,
			Amount:     amounts[i],
			Status:     models.BetStatusOpen,
			DebitTxnID: debitTxn.ID,
		}
	}

	if err := uow.BetRepository().CreateGroup(ctx, bets); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.BetPlacedEvent{
		UserID:      req.UserID,
		MarketKey:   market.MarketKey,
		BetCount:    len(bets),
		TotalAmount: req.TotalAmount,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.PlaceBetResult{
		RequestID:  requestID,
		Bets:       bets,
		NewBalance: debitTxn.BalanceAfter,
	}, nil
}

// CancelBet refunds an open bet while its market still takes bets. The
// refund credit and the status flip share a unit of work, and the flip is a
// conditional update on both the bet status and the market state: losing
// either condition rolls the whole cancellation back, so a bet refunds at
// most once no matter who races for it.
func (s *bettingService) CancelBet(ctx context.Context, betID int64, requesterID int64, isStaff bool) (*models.CancelBetResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	bet, err := uow.BetRepository().GetByID(ctx, betID)
	if err != nil {
		return nil, err
	}
	if bet == nil {
		return nil, fmt.Errorf("%w: bet %d", models.ErrBetNotFound, betID)
	}
	if !bet.CanBeCancelledBy(requesterID, isStaff) {
		return nil, fmt.Errorf("%w: bet %d belongs to another user", models.ErrNotBetOwner, betID)
	}
	if bet.Status != models.BetStatusOpen {
		return nil, fmt.Errorf("bet %d is already %s", betID, bet.Status)
	}

	refundTxn, err := RecordLedgerEntry(ctx, uow, bet.UserID, bet.Amount, models.ReasonBetRefund,
		"Bet cancelled", map[string]any{"market_key": bet.MarketKey}, &bet.ID)
	if err != nil {
		return nil, err
	}

	// The gated update decides the cancellation; if it loses, the rollback
	// discards the refund credit above
	if err := uow.BetRepository().MarkCancelled(ctx, bet.ID, refundTxn.ID); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.BetCancelledEvent{
		UserID:    bet.UserID,
		BetID:     bet.ID,
		MarketKey: bet.MarketKey,
		Refunded:  bet.Amount,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	bet.Status = models.BetStatusCancelled
	bet.ResolutionTxnID = &refundTxn.ID

	return &models.CancelBetResult{
		Bet:        bet,
		Refunded:   bet.Amount,
		NewBalance: refundTxn.BalanceAfter,
	}, nil
}

func (s *bettingService) OpenBets(ctx context.Context, userID int64) ([]*models.Bet, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	bets, err := uow.BetRepository().ListOpenByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return bets, nil
}
