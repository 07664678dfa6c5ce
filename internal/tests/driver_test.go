package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"dispatch/internal/domain"
	"dispatch/internal/service"
)

func TestDriver_RegisterStartsOfflineWithZeroBalance(t *testing.T) {
	t.Parallel()

	driverRepo := NewMockDriverRepository()
	svc := service.NewDriverService(driverRepo, NewMockTransactionRepository())

	driver, err := svc.Register(context.Background(), service.RegisterDriverRequest{
		TelegramID:   777,
		Name:         "Akmal",
		Phone:        "+998901234567",
		FromLocation: "Tashkent",
		ToLocation:   "Samarkand",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if driver.Status != domain.DriverStatusOffline {
		t.Errorf("expected OFFLINE, got %s", driver.Status)
	}
	if driver.Balance != 0 {
		t.Errorf("expected zero balance, got %d", driver.Balance)
	}
	if driver.ID == "" {
		t.Error("expected generated id")
	}
	if driverRepo.GetDriver(driver.ID) == nil {
		t.Error("driver not persisted")
	}
}

func TestDriver_RegisterRequiresTelegramID(t *testing.T) {
	t.Parallel()

	svc := service.NewDriverService(NewMockDriverRepository(), NewMockTransactionRepository())

	_, err := svc.Register(context.Background(), service.RegisterDriverRequest{Name: "Akmal"})
	if !errors.Is(err, service.ErrInvalidDriverID) {
		t.Errorf("expected ErrInvalidDriverID, got %v", err)
	}
}

func TestDriver_SetStatusValidatesValue(t *testing.T) {
	t.Parallel()

	driverRepo := NewMockDriverRepository()
	driverRepo.AddDriver(driverWith("driver-1", 0))
	svc := service.NewDriverService(driverRepo, NewMockTransactionRepository())

	ctx := context.Background()

	if err := svc.SetStatus(ctx, "driver-1", domain.DriverStatusOffline); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := driverRepo.GetDriver("driver-1").Status; got != domain.DriverStatusOffline {
		t.Errorf("expected OFFLINE, got %s", got)
	}

	if err := svc.SetStatus(ctx, "driver-1", domain.DriverStatus("NAPPING")); !errors.Is(err, service.ErrInvalidDriverStatus) {
		t.Errorf("expected ErrInvalidDriverStatus, got %v", err)
	}
}

func TestDriver_BalanceIncludesTransactionHistory(t *testing.T) {
	t.Parallel()

	driverRepo := NewMockDriverRepository()
	txRepo := NewMockTransactionRepository()
	driverRepo.AddDriver(driverWith("driver-1", 145000))

	ctx := context.Background()
	_ = txRepo.Create(ctx, &domain.DriverTransaction{
		ID:        "tx-1",
		DriverID:  "driver-1",
		OrderID:   "order-1",
		Amount:    -5000,
		Reason:    "COMMISSION",
		CreatedAt: time.Now(),
	})

	svc := service.NewDriverService(driverRepo, txRepo)

	balance, err := svc.GetBalance(ctx, "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if balance.Driver.Balance != 145000 {
		t.Errorf("expected balance 145000, got %d", balance.Driver.Balance)
	}
	if len(balance.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(balance.Transactions))
	}
	if balance.Transactions[0].Amount != -5000 {
		t.Errorf("expected amount -5000, got %d", balance.Transactions[0].Amount)
	}
}
