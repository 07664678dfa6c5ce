package postgres

import (
	"context"
	"database/sql"
	"errors"

	"dispatch/internal/domain"
	"dispatch/internal/repository"
)

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

// NewDriverRepositoryWithTx creates a driver repository using a transaction.
func NewDriverRepositoryWithTx(tx *sql.Tx) *DriverRepository {
	return &DriverRepository{q: tx}
}

const driverColumns = `id, telegram_id, COALESCE(name, ''), COALESCE(phone, ''), from_location, to_location, status, balance, created_at`

// Create adds a new driver.
func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	query := `
		INSERT INTO drivers (id, telegram_id, name, phone, from_location, to_location, status, balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.ExecContext(ctx, query,
		driver.ID,
		driver.TelegramID,
		driver.Name,
		driver.Phone,
		driver.FromLocation,
		driver.ToLocation,
		driver.Status,
		driver.Balance,
		driver.CreatedAt,
	)
	return err
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE id = $1`

	var driver domain.Driver
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&driver.ID,
		&driver.TelegramID,
		&driver.Name,
		&driver.Phone,
		&driver.FromLocation,
		&driver.ToLocation,
		&driver.Status,
		&driver.Balance,
		&driver.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &driver, nil
}

// GetAll retrieves all drivers.
func (r *DriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers ORDER BY created_at DESC`

	return r.queryDrivers(ctx, query)
}

// GetOnlineByRoute retrieves ONLINE drivers serving a route.
func (r *DriverRepository) GetOnlineByRoute(ctx context.Context, from, to string) ([]*domain.Driver, error) {
	query := `
		SELECT ` + driverColumns + ` FROM drivers
		WHERE status = $1 AND from_location = $2 AND to_location = $3
	`

	return r.queryDrivers(ctx, query, domain.DriverStatusOnline, from, to)
}

// UpdateStatus sets a driver's availability status.
func (r *DriverRepository) UpdateStatus(ctx context.Context, id string, status domain.DriverStatus) error {
	query := `UPDATE drivers SET status = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, status, id)
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

// AdjustBalance applies a signed delta to the driver's balance.
func (r *DriverRepository) AdjustBalance(ctx context.Context, id string, delta int64) error {
	query := `UPDATE drivers SET balance = balance + $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, delta, id)
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

func (r *DriverRepository) queryDrivers(ctx context.Context, query string, args ...any) ([]*domain.Driver, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []*domain.Driver
	for rows.Next() {
		var driver domain.Driver
		if err := rows.Scan(
			&driver.ID,
			&driver.TelegramID,
			&driver.Name,
			&driver.Phone,
			&driver.FromLocation,
			&driver.ToLocation,
			&driver.Status,
			&driver.Balance,
			&driver.CreatedAt,
		); err != nil {
			return nil, err
		}
		drivers = append(drivers, &driver)
	}
	return drivers, rows.Err()
}
