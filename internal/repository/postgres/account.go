package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"dispatch/internal/domain"
	"dispatch/internal/repository"
)

// CashbackRepository is a PostgreSQL implementation of repository.CashbackRepository.
type CashbackRepository struct {
	q Querier
}

// NewCashbackRepository creates a new PostgreSQL cashback repository.
func NewCashbackRepository(db *sql.DB) *CashbackRepository {
	return &CashbackRepository{q: db}
}

// NewCashbackRepositoryWithTx creates a cashback repository using a transaction.
func NewCashbackRepositoryWithTx(tx *sql.Tx) *CashbackRepository {
	return &CashbackRepository{q: tx}
}

// GetOrCreate retrieves the account for an owner, creating a zero-balance
// account on first reference.
func (r *CashbackRepository) GetOrCreate(ctx context.Context, ownerID int64) (*domain.CashbackAccount, error) {
	query := `
		INSERT INTO cashback_accounts (owner_id, balance, created_at, updated_at)
		VALUES ($1, 0, $2, $2)
		ON CONFLICT (owner_id) DO UPDATE SET owner_id = EXCLUDED.owner_id
		RETURNING owner_id, balance, created_at, updated_at
	`

	var account domain.CashbackAccount
	err := r.q.QueryRowContext(ctx, query, ownerID, time.Now()).Scan(
		&account.OwnerID,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &account, nil
}

// GetByOwner retrieves the account for an owner.
func (r *CashbackRepository) GetByOwner(ctx context.Context, ownerID int64) (*domain.CashbackAccount, error) {
	query := `SELECT owner_id, balance, created_at, updated_at FROM cashback_accounts WHERE owner_id = $1`

	var account domain.CashbackAccount
	err := r.q.QueryRowContext(ctx, query, ownerID).Scan(
		&account.OwnerID,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &account, nil
}

// AdjustBalance applies a signed delta to the owner's balance.
func (r *CashbackRepository) AdjustBalance(ctx context.Context, ownerID int64, delta int64) error {
	query := `UPDATE cashback_accounts SET balance = balance + $1, updated_at = $2 WHERE owner_id = $3`

	result, err := r.q.ExecContext(ctx, query, delta, time.Now(), ownerID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// TransactionRepository is a PostgreSQL implementation of repository.TransactionRepository.
type TransactionRepository struct {
	q Querier
}

// NewTransactionRepository creates a new PostgreSQL driver transaction repository.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{q: db}
}

// NewTransactionRepositoryWithTx creates a driver transaction repository using a transaction.
func NewTransactionRepositoryWithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

// Create appends a driver transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.DriverTransaction) error {
	query := `
		INSERT INTO driver_transactions (id, driver_id, order_id, amount, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		tx.ID,
		tx.DriverID,
		tx.OrderID,
		tx.Amount,
		tx.Reason,
		tx.CreatedAt,
	)

	return err
}

// GetByDriver retrieves a driver's transactions, newest first.
func (r *TransactionRepository) GetByDriver(ctx context.Context, driverID string) ([]*domain.DriverTransaction, error) {
	query := `
		SELECT id, driver_id, order_id, amount, reason, created_at
		FROM driver_transactions WHERE driver_id = $1 ORDER BY created_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []*domain.DriverTransaction
	for rows.Next() {
		var tx domain.DriverTransaction
		if err := rows.Scan(
			&tx.ID,
			&tx.DriverID,
			&tx.OrderID,
			&tx.Amount,
			&tx.Reason,
			&tx.CreatedAt,
		); err != nil {
			return nil, err
		}
		txs = append(txs, &tx)
	}
	return txs, rows.Err()
}
