package service

import (
	"context"
	"fmt"

	"bookie/models"
)

type marketService struct {
	uowFactory UnitOfWorkFactory
}

// NewMarketService creates a new market service
func NewMarketService(uowFactory UnitOfWorkFactory) MarketService {
	return &marketService{
		uowFactory: uowFactory,
	}
}

func (s *marketService) ListOpenMarkets(ctx context.Context) ([]*models.Market, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	markets, err := uow.MarketRepository().ListByStates(ctx, models.MarketStateOpen)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return markets, nil
}

func (s *marketService) GetMarket(ctx context.Context, marketKey string) (*models.Market, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	market, err := uow.MarketRepository().GetByKey(ctx, marketKey)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return market, nil
}

func (s *marketService) PromotedMarket(ctx context.Context) (*models.Market, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	market, err := uow.MarketRepository().GetPromoted(ctx)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return market, nil
}

// Promote moves the promoted flag to the given market. The clear and the
// set share one unit of work, so there is never a moment with two promoted
// markets, and only an open market can take the flag.
func (s *marketService) Promote(ctx context.Context, marketKey string) (*models.Market, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	market, err := uow.MarketRepository().GetByKey(ctx, marketKey)
	if err != nil {
		return nil, err
	}
	if market == nil {
		return nil, fmt.Errorf("market %s not found", marketKey)
	}

	if err := uow.MarketRepository().Promote(ctx, marketKey); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	market.Promoted = true
	return market, nil
}
