package models

import (
	"time"
)

// MarketState represents the lifecycle state of a market
type MarketState string

const (
	MarketStateOpen    MarketState = "open"
	MarketStateClosing MarketState = "closing"
	MarketStateClosed  MarketState = "closed"
)

// Market mirrors one externally scraped betting market. Markets are created
// when first seen in a feed snapshot, transitioned through open -> closing ->
// closed by the reconciler, and retained forever for audit.
type Market struct {
	MarketKey   string      `db:"market_key"`
	DisplayName string      `db:"display_name"`
	EventName   string      `db:"event_name"`
	SessionCode string      `db:"session_code"`
	State       MarketState `db:"state"`
	Promoted    bool        `db:"promoted"`
	FirstSeenAt time.Time   `db:"first_seen_at"`
	LastSeenAt  time.Time   `db:"last_seen_at"`
	ClosedAt    *time.Time  `db:"closed_at"`
	Outcomes    []*Outcome  `db:"-"` // Loaded separately from market_outcomes
}

// Outcome is one selectable result within a market. Outcome IDs are assigned
// when an outcome is first seen and are never deleted or renumbered, so bets
// referencing them stay resolvable for the market's whole lifetime.
type Outcome struct {
	MarketKey string   `db:"market_key"`
	OutcomeID int64    `db:"outcome_id"`
	Label     string   `db:"label"`
	Odds      *float64 `db:"odds"`
}

// IsOpen checks if the market accepts new bets
func (m *Market) IsOpen() bool {
	return m.State == MarketStateOpen
}

// IsClosed checks if the market reached its terminal state
func (m *Market) IsClosed() bool {
	return m.State == MarketStateClosed
}

// FindOutcome returns the outcome with the given ID, or nil if the market has
// no such outcome
func (m *Market) FindOutcome(outcomeID int64) *Outcome {
	for _, o := range m.Outcomes {
		if o.OutcomeID == outcomeID {
			return o
		}
	}
	return nil
}

// NextOutcomeID returns the ID the next appended outcome should receive
func (m *Market) NextOutcomeID() int64 {
	var max int64
	for _, o := range m.Outcomes {
		if o.OutcomeID > max {
			max = o.OutcomeID
		}
	}
	return max + 1
}

// ReconcileResult summarizes one reconciliation pass over a feed snapshot
type ReconcileResult struct {
	MarketsCreated int
	MarketsUpdated int
	MarketsClosed  int
	BetsRefunded   int
	CentsRefunded  int64
}
