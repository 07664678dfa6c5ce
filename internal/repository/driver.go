package repository

import (
	"context"

	"dispatch/internal/domain"
)

// DriverRepository defines the persistence operations for drivers.
type DriverRepository interface {
	// Create persists a new driver.
	Create(ctx context.Context, driver *domain.Driver) error

	// GetByID retrieves a driver by ID.
	GetByID(ctx context.Context, id string) (*domain.Driver, error)

	// GetAll retrieves all drivers.
	GetAll(ctx context.Context) ([]*domain.Driver, error)

	// GetOnlineByRoute retrieves ONLINE drivers serving a route.
	GetOnlineByRoute(ctx context.Context, from, to string) ([]*domain.Driver, error)

	// UpdateStatus sets a driver's availability status.
	UpdateStatus(ctx context.Context, id string, status domain.DriverStatus) error

	// AdjustBalance applies a signed delta to the driver's balance.
	// Negative balances are allowed.
	AdjustBalance(ctx context.Context, id string, delta int64) error
}
