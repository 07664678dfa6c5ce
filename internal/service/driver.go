package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"dispatch/internal/domain"
	"dispatch/internal/repository"
)

// DriverService handles driver registration and availability. Balance
// mutations stay with the ledger; this service only reads them.
type DriverService struct {
	driverRepo repository.DriverRepository
	txRepo     repository.TransactionRepository
}

// NewDriverService creates a new DriverService.
func NewDriverService(driverRepo repository.DriverRepository, txRepo repository.TransactionRepository) *DriverService {
	return &DriverService{
		driverRepo: driverRepo,
		txRepo:     txRepo,
	}
}

// RegisterDriverRequest contains the parameters for registering a driver.
type RegisterDriverRequest struct {
	TelegramID   int64
	Name         string
	Phone        string
	FromLocation string
	ToLocation   string
}

// Register creates a new driver in OFFLINE status with a zero balance.
func (s *DriverService) Register(ctx context.Context, req RegisterDriverRequest) (*domain.Driver, error) {
	if req.TelegramID == 0 {
		return nil, ErrInvalidDriverID
	}

	driver := &domain.Driver{
		ID:           uuid.New().String(),
		TelegramID:   req.TelegramID,
		Name:         req.Name,
		Phone:        req.Phone,
		FromLocation: req.FromLocation,
		ToLocation:   req.ToLocation,
		Status:       domain.DriverStatusOffline,
		CreatedAt:    time.Now(),
	}

	if err := s.driverRepo.Create(ctx, driver); err != nil {
		return nil, err
	}

	return driver, nil
}

// SetStatus flips a driver between ONLINE and OFFLINE.
func (s *DriverService) SetStatus(ctx context.Context, driverID string, status domain.DriverStatus) error {
	if driverID == "" {
		return ErrInvalidDriverID
	}

	if status != domain.DriverStatusOnline && status != domain.DriverStatusOffline {
		return ErrInvalidDriverStatus
	}

	return s.driverRepo.UpdateStatus(ctx, driverID, status)
}

// BalanceResponse contains a driver's balance and its commission trail.
type BalanceResponse struct {
	Driver       *domain.Driver
	Transactions []*domain.DriverTransaction
}

// GetBalance retrieves a driver's balance with the transactions behind it.
func (s *DriverService) GetBalance(ctx context.Context, driverID string) (*BalanceResponse, error) {
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}

	txs, err := s.txRepo.GetByDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}

	return &BalanceResponse{Driver: driver, Transactions: txs}, nil
}

// GetAllDrivers retrieves all drivers.
func (s *DriverService) GetAllDrivers(ctx context.Context) ([]*domain.Driver, error) {
	return s.driverRepo.GetAll(ctx)
}
