package service

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/google/uuid"

	"dispatch/internal/domain"
	"dispatch/internal/repository"
	"dispatch/internal/repository/postgres"
)

// Transaction reason codes.
const (
	reasonCommission = "COMMISSION"
)

// Ledger defines the bookkeeping side effects of order transitions.
// This interface allows for testing with mock implementations.
type Ledger interface {
	DeductCommission(ctx context.Context, driverID string, price int64, orderID string) error
	SettleCashback(ctx context.Context, ownerID int64, requested int64, routeID, tariffID string) error
}

// Ensure LedgerService implements Ledger.
var _ Ledger = (*LedgerService)(nil)

// LedgerService applies monetary deltas to driver and passenger cashback
// accounts. Callers treat its errors as best-effort: a ledger failure is
// logged by the transition, never propagated to it.
type LedgerService struct {
	db             *sql.DB
	driverRepo     repository.DriverRepository
	cashbackRepo   repository.CashbackRepository
	txRepo         repository.TransactionRepository
	pricing        Pricing
	commissionRate float64
}

// NewLedgerService creates a new LedgerService. db may be nil, in which
// case the commission deduction and its audit entry are applied without
// a wrapping transaction.
func NewLedgerService(
	db *sql.DB,
	driverRepo repository.DriverRepository,
	cashbackRepo repository.CashbackRepository,
	txRepo repository.TransactionRepository,
	pricing Pricing,
	commissionRate float64,
) *LedgerService {
	if commissionRate <= 0 {
		commissionRate = 0.05
	}
	return &LedgerService{
		db:             db,
		driverRepo:     driverRepo,
		cashbackRepo:   cashbackRepo,
		txRepo:         txRepo,
		pricing:        pricing,
		commissionRate: commissionRate,
	}
}

// DeductCommission decrements the driver's balance by price × rate and
// appends the matching audit entry. No floor at zero: the balance may go
// negative, representing commission debt.
func (s *LedgerService) DeductCommission(ctx context.Context, driverID string, price int64, orderID string) error {
	delta := int64(math.Round(float64(price) * s.commissionRate))
	if delta == 0 {
		return nil
	}

	entry := &domain.DriverTransaction{
		ID:        uuid.New().String(),
		DriverID:  driverID,
		OrderID:   orderID,
		Amount:    -delta,
		Reason:    reasonCommission,
		CreatedAt: time.Now(),
	}

	if s.db == nil {
		if err := s.driverRepo.AdjustBalance(ctx, driverID, -delta); err != nil {
			return err
		}
		return s.txRepo.Create(ctx, entry)
	}

	// Balance update and audit entry commit together.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txDriverRepo := postgres.NewDriverRepositoryWithTx(tx)
	txTransactionRepo := postgres.NewTransactionRepositoryWithTx(tx)

	if err = txDriverRepo.AdjustBalance(ctx, driverID, -delta); err != nil {
		return err
	}

	if err = txTransactionRepo.Create(ctx, entry); err != nil {
		return err
	}

	return tx.Commit()
}

// SettleCashback applies the completion-time cashback movement for a
// passenger. A positive requested amount is debited exactly, with no
// price lookup and no bounds check against the balance. A zero requested
// amount credits price(route, tariff) × rate(route) instead.
func (s *LedgerService) SettleCashback(ctx context.Context, ownerID int64, requested int64, routeID, tariffID string) error {
	if requested < 0 {
		return ErrInvalidCashback
	}

	// Lazily creates the account on first reference.
	if _, err := s.cashbackRepo.GetOrCreate(ctx, ownerID); err != nil {
		return err
	}

	if requested > 0 {
		return s.cashbackRepo.AdjustBalance(ctx, ownerID, -requested)
	}

	price, err := s.pricing.GetPrice(ctx, routeID, tariffID)
	if err != nil {
		return err
	}

	rate, err := s.pricing.GetCashbackRate(ctx, routeID)
	if err != nil {
		return err
	}

	credit := int64(math.Round(float64(price) * rate))
	if credit == 0 {
		return nil
	}

	return s.cashbackRepo.AdjustBalance(ctx, ownerID, credit)
}
