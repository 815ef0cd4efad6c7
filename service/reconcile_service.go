package service

import (
	"context"
	"fmt"

	"bookie/events"
	"bookie/models"

	log "github.com/sirupsen/logrus"
)

type reconcileService struct {
	uowFactory UnitOfWorkFactory
}

// NewReconcileService creates a new reconcile service
func NewReconcileService(uowFactory UnitOfWorkFactory) ReconcileService {
	return &reconcileService{
		uowFactory: uowFactory,
	}
}

// Reconcile folds a feed snapshot into the market store. Unknown keys become
// open markets, known keys refresh in place, and open markets missing from
// the snapshot close in two phases: open to closing, then a refund of every
// open bet, then closing to closed. Each refund runs in its own unit of
// work gated on the bet status, so a run interrupted halfway resumes
// cleanly on the next snapshot and never refunds a bet twice. Closed
// markets never come back, whatever the feed says.
func (s *reconcileService) Reconcile(ctx context.Context, snapshot []models.MarketSnapshot) (*models.ReconcileResult, error) {
	result := &models.ReconcileResult{}

	present := make(map[string]bool, len(snapshot))

	// Fold snapshot markets into the store
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	stored, err := uow.MarketRepository().ListByStates(ctx,
		models.MarketStateOpen, models.MarketStateClosing, models.MarketStateClosed)
	if err != nil {
		return nil, err
	}
	storedByKey := make(map[string]*models.Market, len(stored))
	for _, market := range stored {
		storedByKey[market.MarketKey] = market
	}

	for _, snap := range snapshot {
		if snap.MarketKey == "" || present[snap.MarketKey] {
			continue
		}
		present[snap.MarketKey] = true

		existing := storedByKey[snap.MarketKey]
		switch {
		case existing == nil:
			if len(snap.Outcomes) == 0 {
				continue
			}
			if err := s.createMarket(ctx, uow, snap); err != nil {
				return nil, err
			}
			result.MarketsCreated++
		case existing.IsClosed():
			// A key that already closed stays closed
		default:
			if err := s.updateMarket(ctx, uow, existing, snap); err != nil {
				return nil, err
			}
			result.MarketsUpdated++
		}
	}

	// Open markets the feed dropped begin closing. The conditional update
	// waits out in-flight placements holding the market's share lock, so
	// once it commits the market's set of open bets is final.
	for _, market := range stored {
		if market.State != models.MarketStateOpen || present[market.MarketKey] {
			continue
		}
		if _, err := uow.MarketRepository().TransitionState(ctx, market.MarketKey,
			models.MarketStateOpen, models.MarketStateClosing); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	// Every closing market gets its open bets refunded and then closes.
	// This picks up markets a previous interrupted run left in closing.
	closing, err := s.listClosingMarkets(ctx)
	if err != nil {
		return nil, err
	}
	for _, market := range closing {
		if err := s.closeMarket(ctx, market, result); err != nil {
			return nil, err
		}
	}

	log.WithFields(log.Fields{
		"created":       result.MarketsCreated,
		"updated":       result.MarketsUpdated,
		"closed":        result.MarketsClosed,
		"betsRefunded":  result.BetsRefunded,
		"centsRefunded": result.CentsRefunded,
	}).Info("Market reconciliation finished")

	return result, nil
}

func (s *reconcileService) createMarket(ctx context.Context, uow UnitOfWork, snap models.MarketSnapshot) error {
	market := &models.Market{
		MarketKey:   snap.MarketKey,
		DisplayName: snap.DisplayName,
		EventName:   snap.EventName,
		SessionCode: snap.SessionCode,
	}
	for i, outcome := range snap.Outcomes {
		odds := outcome.Odds
		market.Outcomes = append(market.Outcomes, &models.Outcome{
			OutcomeID: int64(i + 1),
			Label:     outcome.Label,
			Odds:      &odds,
		})
	}

	return uow.MarketRepository().Create(ctx, market)
}

// updateMarket refreshes display metadata and folds the snapshot's outcome
// list into the stored one. Outcomes match by label; a matched label keeps
// its identifier forever, a new label gets the next free one, and a label
// the feed dropped simply stays. Nothing is deleted or renumbered, so bets
// keep pointing at the outcome they were placed on.
func (s *reconcileService) updateMarket(ctx context.Context, uow UnitOfWork, existing *models.Market, snap models.MarketSnapshot) error {
	existing.DisplayName = snap.DisplayName
	existing.EventName = snap.EventName
	existing.SessionCode = snap.SessionCode
	if err := uow.MarketRepository().UpdateDetails(ctx, existing); err != nil {
		return err
	}

	byLabel := make(map[string]*models.Outcome, len(existing.Outcomes))
	for _, outcome := range existing.Outcomes {
		byLabel[outcome.Label] = outcome
	}

	nextID := existing.NextOutcomeID()
	for _, snapOutcome := range snap.Outcomes {
		odds := snapOutcome.Odds
		current := byLabel[snapOutcome.Label]
		if current != nil {
			if current.Odds != nil && *current.Odds == odds {
				continue
			}
			current.Odds = &odds
			if err := uow.MarketRepository().UpsertOutcome(ctx, current); err != nil {
				return err
			}
			continue
		}

		outcome := &models.Outcome{
			MarketKey: existing.MarketKey,
			OutcomeID: nextID,
			Label:     snapOutcome.Label,
			Odds:      &odds,
		}
		nextID++
		if err := uow.MarketRepository().UpsertOutcome(ctx, outcome); err != nil {
			return err
		}
		byLabel[outcome.Label] = outcome
	}

	return nil
}

func (s *reconcileService) listClosingMarkets(ctx context.Context) ([]*models.Market, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	markets, err := uow.MarketRepository().ListByStates(ctx, models.MarketStateClosing)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return markets, nil
}

// closeMarket refunds a closing market's open bets and finishes the close.
func (s *reconcileService) closeMarket(ctx context.Context, market *models.Market, result *models.ReconcileResult) error {
	bets, err := s.listOpenBets(ctx, market.MarketKey)
	if err != nil {
		return err
	}

	var betsRefunded int
	var centsRefunded int64
	for _, bet := range bets {
		refunded, err := s.refundBet(ctx, bet)
		if err != nil {
			return err
		}
		if refunded {
			betsRefunded++
			centsRefunded += bet.Amount
		}
	}
	result.BetsRefunded += betsRefunded
	result.CentsRefunded += centsRefunded

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if _, err := uow.MarketRepository().TransitionState(ctx, market.MarketKey,
		models.MarketStateClosing, models.MarketStateClosed); err != nil {
		return err
	}

	uow.EventBus().Publish(events.MarketClosedEvent{
		MarketKey:     market.MarketKey,
		DisplayName:   market.DisplayName,
		BetsRefunded:  betsRefunded,
		CentsRefunded: centsRefunded,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	result.MarketsClosed++

	log.WithFields(log.Fields{
		"marketKey":    market.MarketKey,
		"betsRefunded": betsRefunded,
	}).Info("Market closed")

	return nil
}

func (s *reconcileService) listOpenBets(ctx context.Context, marketKey string) ([]*models.Bet, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	bets, err := uow.BetRepository().ListOpenByMarket(ctx, marketKey)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return bets, nil
}

// refundBet returns a closing market's stake to its owner. The credit and
// the status flip share one unit of work; when a concurrent cancellation
// already moved the bet out of open, the flip reports false and the
// rollback discards the credit, leaving exactly one refund on the books.
func (s *reconcileService) refundBet(ctx context.Context, bet *models.Bet) (bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // Discards the credit when the flip loses

	refundTxn, err := RecordLedgerEntry(ctx, uow, bet.UserID, bet.Amount, models.ReasonBetRefund,
		"Market closed before settlement",
		map[string]any{"market_key": bet.MarketKey}, &bet.ID)
	if err != nil {
		return false, err
	}

	flipped, err := uow.BetRepository().MarkClosedPendingReview(ctx, bet.ID, refundTxn.ID)
	if err != nil {
		return false, err
	}
	if !flipped {
		return false, nil
	}

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return true, nil
}
