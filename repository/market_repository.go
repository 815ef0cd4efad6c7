package repository

import (
	"context"
	"errors"
	"fmt"

	"bookie/database"
	"bookie/models"

	"github.com/jackc/pgx/v5"
)

// MarketRepository manages markets and their outcomes.
type MarketRepository struct {
	q queryable
}

// NewMarketRepository creates a new market repository backed by the pool.
func NewMarketRepository(db *database.DB) *MarketRepository {
	return &MarketRepository{q: db.Pool}
}

// newMarketRepositoryWithTx creates a market repository that runs on the
// given transaction.
func newMarketRepositoryWithTx(tx queryable) *MarketRepository {
	return &MarketRepository{q: tx}
}

// Create inserts a market together with its outcomes. New markets always
// start in the open state.
func (r *MarketRepository) Create(ctx context.Context, market *models.Market) error {
	query := `
		INSERT INTO markets (
			market_key, display_name, event_name, session_code, state,
			first_seen_at, last_seen_at
		)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING first_seen_at, last_seen_at
	`

	market.State = models.MarketStateOpen
	err := r.q.QueryRow(ctx, query,
		market.MarketKey,
		market.DisplayName,
		market.EventName,
		market.SessionCode,
		market.State,
	).Scan(&market.FirstSeenAt, &market.LastSeenAt)
	if err != nil {
		return fmt.Errorf("failed to create market %s: %w: %w", market.MarketKey, models.ErrStorageUnavailable, err)
	}

	// Create outcomes if provided
	if len(market.Outcomes) > 0 {
		outcomeQuery := `
			INSERT INTO market_outcomes (market_key, outcome_id, label, odds)
			VALUES
		`

		var args []interface{}
		for i, outcome := range market.Outcomes {
			if i > 0 {
				outcomeQuery += ","
			}
			paramIndex := i * 4
			outcomeQuery += fmt.Sprintf(" ($%d, $%d, $%d, $%d)",
				paramIndex+1, paramIndex+2, paramIndex+3, paramIndex+4)

			args = append(args,
				market.MarketKey,
				outcome.OutcomeID,
				outcome.Label,
				outcome.Odds,
			)
			outcome.MarketKey = market.MarketKey
		}

		if _, err := r.q.Exec(ctx, outcomeQuery, args...); err != nil {
			return fmt.Errorf("failed to create outcomes for market %s: %w: %w", market.MarketKey, models.ErrStorageUnavailable, err)
		}
	}

	return nil
}

// GetByKey retrieves a market and its outcomes by key. Returns nil if the
// market does not exist.
func (r *MarketRepository) GetByKey(ctx context.Context, marketKey string) (*models.Market, error) {
	query := `
		SELECT market_key, display_name, event_name, session_code, state,
		       promoted, first_seen_at, last_seen_at, closed_at
		FROM markets
		WHERE market_key = $1`

	market, err := r.scanMarket(r.q.QueryRow(ctx, query, marketKey))
	if err != nil || market == nil {
		return market, err
	}

	market.Outcomes, err = r.getOutcomesByMarket(ctx, market.MarketKey)
	if err != nil {
		return nil, err
	}

	return market, nil
}

// GetByKeyForShare retrieves a market with a share lock on its row. Bet
// placement holds the lock until its transaction commits, so a concurrent
// state transition waits and then sees the placed bets, while placements on
// the same market do not block each other.
func (r *MarketRepository) GetByKeyForShare(ctx context.Context, marketKey string) (*models.Market, error) {
	query := `
		SELECT market_key, display_name, event_name, session_code, state,
		       promoted, first_seen_at, last_seen_at, closed_at
		FROM markets
		WHERE market_key = $1
		FOR SHARE`

	market, err := r.scanMarket(r.q.QueryRow(ctx, query, marketKey))
	if err != nil || market == nil {
		return market, err
	}

	market.Outcomes, err = r.getOutcomesByMarket(ctx, market.MarketKey)
	if err != nil {
		return nil, err
	}

	return market, nil
}

// GetPromoted retrieves the currently promoted market. Returns nil if no
// market is promoted.
func (r *MarketRepository) GetPromoted(ctx context.Context) (*models.Market, error) {
	query := `
		SELECT market_key, display_name, event_name, session_code, state,
		       promoted, first_seen_at, last_seen_at, closed_at
		FROM markets
		WHERE promoted`

	market, err := r.scanMarket(r.q.QueryRow(ctx, query))
	if err != nil || market == nil {
		return market, err
	}

	market.Outcomes, err = r.getOutcomesByMarket(ctx, market.MarketKey)
	if err != nil {
		return nil, err
	}

	return market, nil
}

// ListByStates retrieves all markets in any of the given states, with their
// outcomes, ordered by display name.
func (r *MarketRepository) ListByStates(ctx context.Context, states ...models.MarketState) ([]*models.Market, error) {
	query := `
		SELECT market_key, display_name, event_name, session_code, state,
		       promoted, first_seen_at, last_seen_at, closed_at
		FROM markets
		WHERE state = ANY($1)
		ORDER BY display_name`

	stateStrings := make([]string, len(states))
	for i, state := range states {
		stateStrings[i] = string(state)
	}

	rows, err := r.q.Query(ctx, query, stateStrings)
	if err != nil {
		return nil, fmt.Errorf("failed to list markets: %w: %w", models.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var markets []*models.Market
	for rows.Next() {
		market, err := r.scanMarket(rows)
		if err != nil {
			return nil, err
		}
		markets = append(markets, market)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read markets: %w: %w", models.ErrStorageUnavailable, err)
	}

	for _, market := range markets {
		market.Outcomes, err = r.getOutcomesByMarket(ctx, market.MarketKey)
		if err != nil {
			return nil, err
		}
	}

	return markets, nil
}

// UpdateDetails refreshes a market's display metadata and bumps its
// last-seen timestamp. State and outcomes are untouched.
func (r *MarketRepository) UpdateDetails(ctx context.Context, market *models.Market) error {
	query := `
		UPDATE markets
		SET display_name = $2,
		    event_name = $3,
		    session_code = $4,
		    last_seen_at = NOW()
		WHERE market_key = $1`

	_, err := r.q.Exec(ctx, query,
		market.MarketKey,
		market.DisplayName,
		market.EventName,
		market.SessionCode,
	)
	if err != nil {
		return fmt.Errorf("failed to update market %s: %w: %w", market.MarketKey, models.ErrStorageUnavailable, err)
	}

	return nil
}

// UpsertOutcome inserts a new outcome or refreshes the label and odds of an
// existing one. Outcome IDs are stable; rows are never deleted.
func (r *MarketRepository) UpsertOutcome(ctx context.Context, outcome *models.Outcome) error {
	query := `
		INSERT INTO market_outcomes (market_key, outcome_id, label, odds)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (market_key, outcome_id) DO UPDATE
		SET label = EXCLUDED.label,
		    odds = EXCLUDED.odds`

	_, err := r.q.Exec(ctx, query, outcome.MarketKey, outcome.OutcomeID, outcome.Label, outcome.Odds)
	if err != nil {
		return fmt.Errorf("failed to upsert outcome %d for market %s: %w: %w", outcome.OutcomeID, outcome.MarketKey, models.ErrStorageUnavailable, err)
	}

	return nil
}

// TransitionState moves a market from one state to another. The current
// state is part of the update condition, so a transition that lost a race
// reports false instead of overwriting. Leaving the open state clears the
// promoted flag, and entering the closed state records the close time.
func (r *MarketRepository) TransitionState(ctx context.Context, marketKey string, from, to models.MarketState) (bool, error) {
	query := `
		UPDATE markets
		SET state = $3,
		    promoted = CASE WHEN $3 = 'open' THEN promoted ELSE FALSE END,
		    closed_at = CASE WHEN $3 = 'closed' THEN NOW() ELSE closed_at END
		WHERE market_key = $1 AND state = $2`

	result, err := r.q.Exec(ctx, query, marketKey, string(from), string(to))
	if err != nil {
		return false, fmt.Errorf("failed to transition market %s to %s: %w: %w", marketKey, to, models.ErrStorageUnavailable, err)
	}

	return result.RowsAffected() > 0, nil
}

// Promote makes a market the promoted one, replacing whichever market held
// the flag. Only open markets can be promoted, and the check rides on the
// update itself. Callers run this inside a transaction so the clear and the
// set land together; a partial unique index keeps two promoted markets out
// regardless.
func (r *MarketRepository) Promote(ctx context.Context, marketKey string) error {
	if err := r.ClearPromoted(ctx); err != nil {
		return err
	}

	query := `
		UPDATE markets
		SET promoted = TRUE
		WHERE market_key = $1 AND state = 'open'`

	result, err := r.q.Exec(ctx, query, marketKey)
	if err != nil {
		return fmt.Errorf("failed to promote market %s: %w: %w", marketKey, models.ErrStorageUnavailable, err)
	}

	if result.RowsAffected() == 0 {
		market, err := r.GetByKey(ctx, marketKey)
		if err != nil {
			return err
		}
		if market == nil {
			return fmt.Errorf("market %s not found", marketKey)
		}
		return fmt.Errorf("%w: market %s is %s", models.ErrMarketNotOpen, marketKey, market.State)
	}

	return nil
}

// ClearPromoted removes the promoted flag from whichever market holds it.
func (r *MarketRepository) ClearPromoted(ctx context.Context) error {
	query := `
		UPDATE markets
		SET promoted = FALSE
		WHERE promoted`

	if _, err := r.q.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to clear promoted market: %w: %w", models.ErrStorageUnavailable, err)
	}

	return nil
}

func (r *MarketRepository) scanMarket(row rowScanner) (*models.Market, error) {
	var market models.Market
	err := row.Scan(
		&market.MarketKey,
		&market.DisplayName,
		&market.EventName,
		&market.SessionCode,
		&market.State,
		&market.Promoted,
		&market.FirstSeenAt,
		&market.LastSeenAt,
		&market.ClosedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan market: %w: %w", models.ErrStorageUnavailable, err)
	}

	return &market, nil
}

func (r *MarketRepository) getOutcomesByMarket(ctx context.Context, marketKey string) ([]*models.Outcome, error) {
	query := `
		SELECT market_key, outcome_id, label, odds
		FROM market_outcomes
		WHERE market_key = $1
		ORDER BY outcome_id`

	rows, err := r.q.Query(ctx, query, marketKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get outcomes for market %s: %w: %w", marketKey, models.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var outcomes []*models.Outcome
	for rows.Next() {
		var outcome models.Outcome
		if err := rows.Scan(&outcome.MarketKey, &outcome.OutcomeID, &outcome.Label, &outcome.Odds); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w: %w", models.ErrStorageUnavailable, err)
		}
		outcomes = append(outcomes, &outcome)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read outcomes for market %s: %w: %w", marketKey, models.ErrStorageUnavailable, err)
	}

	return outcomes, nil
}
