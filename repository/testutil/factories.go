package testutil

import (
	"time"

	"bookie/models"

	"github.com/google/uuid"
)

// CreateTestMarket creates an open test market with two priced outcomes
func CreateTestMarket(marketKey, displayName string) *models.Market {
	return CreateTestMarketWithOutcomes(marketKey, displayName, "Verstappen, Max", "Norris, Lando")
}

// CreateTestMarketWithOutcomes creates an open test market with one outcome
// per label, numbered from 1
func CreateTestMarketWithOutcomes(marketKey, displayName string, labels ...string) *models.Market {
	now := time.Now()
	market := &models.Market{
		MarketKey:   marketKey,
		DisplayName: displayName,
		EventName:   "Grand Prix van Netherlands",
		SessionCode: "R",
		State:       models.MarketStateOpen,
		FirstSeenAt: now,
		LastSeenAt:  now,
	}
	for i, label := range labels {
		odds := 1.5 + float64(i)
		market.Outcomes = append(market.Outcomes, &models.Outcome{
			MarketKey: marketKey,
			OutcomeID: int64(i + 1),
			Label:     label,
			Odds:      &odds,
		})
	}
	return market
}

// CreateTestSnapshot creates a feed snapshot entry with one outcome per label
func CreateTestSnapshot(marketKey, displayName string, labels ...string) models.MarketSnapshot {
	snapshot := models.MarketSnapshot{
		MarketKey:   marketKey,
		DisplayName: displayName,
		EventName:   "Grand Prix van Netherlands",
		SessionCode: "R",
	}
	for i, label := range labels {
		snapshot.Outcomes = append(snapshot.Outcomes, models.OutcomeSnapshot{
			Label: label,
			Odds:  1.5 + float64(i),
		})
	}
	return snapshot
}

// CreateTestTransaction creates a ledger entry with default values
func CreateTestTransaction(userID, amount, balanceAfter int64, reason models.TransactionReason) *models.Transaction {
	return &models.Transaction{
		UserID:       userID,
		Amount:       amount,
		BalanceAfter: balanceAfter,
		Reason:       reason,
		Description:  "test entry",
		Metadata: map[string]any{
			"test": true,
		},
	}
}

// CreateTestBet creates an open bet tied to an existing debit transaction
func CreateTestBet(userID int64, marketKey string, outcomeID, amount, debitTxnID int64) *models.Bet {
	return &models.Bet{
		RequestID:  uuid.New(),
		UserID:     userID,
		MarketKey:  marketKey,
		OutcomeID:  outcomeID,
		Amount:     amount,
		Status:     models.BetStatusOpen,
		DebitTxnID: debitTxnID,
	}
}

// CreateTestBetGroup creates one open bet per outcome, all sharing a request
// ID and the debit transaction
func CreateTestBetGroup(userID int64, marketKey string, outcomeIDs []int64, amounts []int64, debitTxnID int64) []*models.Bet {
	requestID := uuid.New()
	bets := make([]*models.Bet, len(outcomeIDs))
	for i, outcomeID := range outcomeIDs {
		bets[i] = &models.Bet{
			RequestID:  requestID,
			UserID:     userID,
			MarketKey:  marketKey,
			OutcomeID:  outcomeID,
			Amount:     amounts[i],
			Status:     models.BetStatusOpen,
			DebitTxnID: debitTxnID,
		}
	}
	return bets
}
