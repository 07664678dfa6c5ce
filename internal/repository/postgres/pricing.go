package postgres

import (
	"context"
	"database/sql"
	"errors"

	"dispatch/internal/repository"
)

// PricingRepository is a PostgreSQL implementation of repository.PricingRepository.
// The pricing tables are read-only inputs owned by an external admin flow.
type PricingRepository struct {
	q Querier
}

// NewPricingRepository creates a new PostgreSQL pricing repository.
func NewPricingRepository(db *sql.DB) *PricingRepository {
	return &PricingRepository{q: db}
}

// GetPrice returns the trip price for a (route, tariff) pair.
func (r *PricingRepository) GetPrice(ctx context.Context, routeID, tariffID string) (int64, error) {
	query := `SELECT price FROM city_prices WHERE route_id = $1 AND tariff_id = $2`

	var price int64
	err := r.q.QueryRowContext(ctx, query, routeID, tariffID).Scan(&price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, repository.ErrNotFound
		}
		return 0, err
	}

	return price, nil
}

// GetCashbackRate returns the cashback rate for a route.
func (r *PricingRepository) GetCashbackRate(ctx context.Context, routeID string) (float64, error) {
	query := `SELECT rate FROM route_cashbacks WHERE route_id = $1`

	var rate float64
	err := r.q.QueryRowContext(ctx, query, routeID).Scan(&rate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, repository.ErrNotFound
		}
		return 0, err
	}

	return rate, nil
}
