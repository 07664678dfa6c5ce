package repository

import "context"

// PricingRepository reads the static pricing lookup tables.
type PricingRepository interface {
	// GetPrice returns the trip price for a (route, tariff) pair.
	GetPrice(ctx context.Context, routeID, tariffID string) (int64, error)

	// GetCashbackRate returns the cashback rate for a route.
	GetCashbackRate(ctx context.Context, routeID string) (float64, error)
}
