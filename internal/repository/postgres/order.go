package postgres

import (
	"context"
	"database/sql"
	"errors"

	"dispatch/internal/domain"
	"dispatch/internal/repository"
)

// OrderRepository is a PostgreSQL implementation of repository.OrderRepository.
type OrderRepository struct {
	q Querier
}

// NewOrderRepository creates a new PostgreSQL order repository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{q: db}
}

// NewOrderRepositoryWithTx creates an order repository using a transaction.
func NewOrderRepositoryWithTx(tx *sql.Tx) *OrderRepository {
	return &OrderRepository{q: tx}
}

// Create persists a new order. The unique index on
// (request_kind, request_id) backs the one-order-per-request invariant.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (id, requester_id, driver_id, status, order_type, request_kind, request_id, reject_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	var driverID sql.NullString
	if order.DriverID != "" {
		driverID = sql.NullString{String: order.DriverID, Valid: true}
	}

	var rejectReason sql.NullString
	if order.RejectReason != "" {
		rejectReason = sql.NullString{String: order.RejectReason, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		order.ID,
		order.RequesterID,
		driverID,
		order.Status,
		order.OrderType,
		order.Request.Kind,
		order.Request.ID,
		rejectReason,
		order.CreatedAt,
		order.UpdatedAt,
	)

	return err
}

const orderColumns = `id, requester_id, driver_id, status, order_type, request_kind, request_id, reject_reason, created_at, updated_at`

// GetByID retrieves an order by ID.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// GetByRequest retrieves the order bound to a trip request, if any.
func (r *OrderRepository) GetByRequest(ctx context.Context, ref domain.RequestRef) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE request_kind = $1 AND request_id = $2`

	return r.scanOne(r.q.QueryRowContext(ctx, query, ref.Kind, ref.ID))
}

// GetAll retrieves recent orders.
func (r *OrderRepository) GetAll(ctx context.Context) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT 100`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var order domain.Order
		var driverID, rejectReason sql.NullString
		if err := rows.Scan(
			&order.ID,
			&order.RequesterID,
			&driverID,
			&order.Status,
			&order.OrderType,
			&order.Request.Kind,
			&order.Request.ID,
			&rejectReason,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if driverID.Valid {
			order.DriverID = driverID.String
		}
		if rejectReason.Valid {
			order.RejectReason = rejectReason.String
		}
		orders = append(orders, &order)
	}
	return orders, rows.Err()
}

// Update updates an existing order.
func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	query := `
		UPDATE orders
		SET driver_id = $1, status = $2, reject_reason = $3, updated_at = $4
		WHERE id = $5
	`

	var driverID sql.NullString
	if order.DriverID != "" {
		driverID = sql.NullString{String: order.DriverID, Valid: true}
	}

	var rejectReason sql.NullString
	if order.RejectReason != "" {
		rejectReason = sql.NullString{String: order.RejectReason, Valid: true}
	}

	result, err := r.q.ExecContext(ctx, query,
		driverID,
		order.Status,
		rejectReason,
		order.UpdatedAt,
		order.ID,
	)
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

func (r *OrderRepository) scanOne(row *sql.Row) (*domain.Order, error) {
	var order domain.Order
	var driverID, rejectReason sql.NullString

	err := row.Scan(
		&order.ID,
		&order.RequesterID,
		&driverID,
		&order.Status,
		&order.OrderType,
		&order.Request.Kind,
		&order.Request.ID,
		&rejectReason,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if driverID.Valid {
		order.DriverID = driverID.String
	}
	if rejectReason.Valid {
		order.RejectReason = rejectReason.String
	}

	return &order, nil
}
