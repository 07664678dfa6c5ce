package repository

import (
	"context"

	"dispatch/internal/domain"
)

// CashbackRepository defines the persistence operations for passenger
// cashback accounts.
type CashbackRepository interface {
	// GetOrCreate retrieves the account for an owner, creating a
	// zero-balance account if none exists yet.
	GetOrCreate(ctx context.Context, ownerID int64) (*domain.CashbackAccount, error)

	// GetByOwner retrieves the account for an owner.
	GetByOwner(ctx context.Context, ownerID int64) (*domain.CashbackAccount, error)

	// AdjustBalance applies a signed delta to the owner's balance.
	AdjustBalance(ctx context.Context, ownerID int64, delta int64) error
}

// TransactionRepository records commission deductions on the driver side.
type TransactionRepository interface {
	// Create appends a driver transaction. Entries are never updated.
	Create(ctx context.Context, tx *domain.DriverTransaction) error

	// GetByDriver retrieves a driver's transactions, newest first.
	GetByDriver(ctx context.Context, driverID string) ([]*domain.DriverTransaction, error)
}
