package repository

import (
	"context"

	"dispatch/internal/domain"
)

// RequestRepository defines the persistence operations for trip requests.
type RequestRepository interface {
	// Create persists a new trip request.
	Create(ctx context.Context, req *domain.TripRequest) error

	// GetByID retrieves a trip request by ID.
	GetByID(ctx context.Context, id string) (*domain.TripRequest, error)

	// UpdateStatus echoes the order lifecycle onto the request row.
	UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) error
}
