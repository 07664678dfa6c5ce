package postgres

import (
	"context"
	"database/sql"
	"errors"

	"dispatch/internal/domain"
	"dispatch/internal/repository"
)

// RequestRepository is a PostgreSQL implementation of repository.RequestRepository.
type RequestRepository struct {
	q Querier
}

// NewRequestRepository creates a new PostgreSQL trip request repository.
func NewRequestRepository(db *sql.DB) *RequestRepository {
	return &RequestRepository{q: db}
}

// NewRequestRepositoryWithTx creates a trip request repository using a transaction.
func NewRequestRepositoryWithTx(tx *sql.Tx) *RequestRepository {
	return &RequestRepository{q: tx}
}

// Create persists a new trip request.
func (r *RequestRepository) Create(ctx context.Context, req *domain.TripRequest) error {
	query := `
		INSERT INTO trip_requests (id, kind, requester_id, route_id, tariff_id, price, cashback_requested, comment, from_location, to_location, start_time, status, passengers, has_woman, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	var comment sql.NullString
	if req.Comment != "" {
		comment = sql.NullString{String: req.Comment, Valid: true}
	}

	var startTime sql.NullTime
	if !req.StartTime.IsZero() {
		startTime = sql.NullTime{Time: req.StartTime, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		req.ID,
		req.Kind,
		req.RequesterID,
		req.RouteID,
		req.TariffID,
		req.Price,
		req.CashbackRequested,
		comment,
		req.FromLocation,
		req.ToLocation,
		startTime,
		req.Status,
		req.Passengers,
		req.HasWoman,
		req.CreatedAt,
	)

	return err
}

// GetByID retrieves a trip request by ID.
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*domain.TripRequest, error) {
	query := `
		SELECT id, kind, requester_id, route_id, tariff_id, price, cashback_requested, comment, from_location, to_location, start_time, status, passengers, has_woman, created_at
		FROM trip_requests WHERE id = $1
	`

	var req domain.TripRequest
	var comment sql.NullString
	var startTime sql.NullTime

	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&req.ID,
		&req.Kind,
		&req.RequesterID,
		&req.RouteID,
		&req.TariffID,
		&req.Price,
		&req.CashbackRequested,
		&comment,
		&req.FromLocation,
		&req.ToLocation,
		&startTime,
		&req.Status,
		&req.Passengers,
		&req.HasWoman,
		&req.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	if comment.Valid {
		req.Comment = comment.String
	}
	if startTime.Valid {
		req.StartTime = startTime.Time
	}

	return &req, nil
}

// UpdateStatus echoes the order lifecycle onto the request row.
func (r *RequestRepository) UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) error {
	query := `UPDATE trip_requests SET status = $1 WHERE id = $2`

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
