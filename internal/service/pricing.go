package service

import (
	"context"

	"dispatch/internal/redis"
	"dispatch/internal/repository"
)

// Pricing defines the read-only price/cashback lookup contract.
// This interface allows for testing with mock implementations.
type Pricing interface {
	GetPrice(ctx context.Context, routeID, tariffID string) (int64, error)
	GetCashbackRate(ctx context.Context, routeID string) (float64, error)
}

// Ensure PricingService implements Pricing.
var _ Pricing = (*PricingService)(nil)

// PricingService serves price and cashback-rate lookups from the static
// pricing tables, with a Redis read-through cache in front.
type PricingService struct {
	pricingRepo repository.PricingRepository
	cacheStore  *redis.CacheStore
}

// NewPricingService creates a new PricingService. cacheStore may be nil,
// in which case every lookup hits the repository.
func NewPricingService(pricingRepo repository.PricingRepository, cacheStore *redis.CacheStore) *PricingService {
	return &PricingService{
		pricingRepo: pricingRepo,
		cacheStore:  cacheStore,
	}
}

// GetPrice returns the trip price for a (route, tariff) pair.
func (s *PricingService) GetPrice(ctx context.Context, routeID, tariffID string) (int64, error) {
	if s.cacheStore != nil {
		if price, ok, err := s.cacheStore.GetPrice(ctx, routeID, tariffID); err == nil && ok {
			return price, nil
		}
	}

	price, err := s.pricingRepo.GetPrice(ctx, routeID, tariffID)
	if err != nil {
		return 0, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetPrice(ctx, routeID, tariffID, price)
	}

	return price, nil
}

// GetCashbackRate returns the cashback rate for a route.
func (s *PricingService) GetCashbackRate(ctx context.Context, routeID string) (float64, error) {
	if s.cacheStore != nil {
		if rate, ok, err := s.cacheStore.GetCashbackRate(ctx, routeID); err == nil && ok {
			return rate, nil
		}
	}

	rate, err := s.pricingRepo.GetCashbackRate(ctx, routeID)
	if err != nil {
		return 0, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetCashbackRate(ctx, routeID, rate)
	}

	return rate, nil
}
