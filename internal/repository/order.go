package repository

import (
	"context"

	"dispatch/internal/domain"
)

// OrderRepository defines the persistence operations for orders.
type OrderRepository interface {
	// Create persists a new order.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by ID.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// GetByRequest retrieves the order bound to a trip request, if any.
	// Returns ErrNotFound when no order exists for the reference.
	GetByRequest(ctx context.Context, ref domain.RequestRef) (*domain.Order, error)

	// GetAll retrieves recent orders.
	GetAll(ctx context.Context) ([]*domain.Order, error)

	// Update updates an existing order.
	Update(ctx context.Context, order *domain.Order) error
}
