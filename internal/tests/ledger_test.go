package tests

import (
	"context"
	"errors"
	"testing"

	"dispatch/internal/domain"
	"dispatch/internal/service"
)

func driverWith(id string, balance int64) *domain.Driver {
	return &domain.Driver{ID: id, Status: domain.DriverStatusOnline, Balance: balance}
}

func accountWith(owner int64, balance int64) *domain.CashbackAccount {
	return &domain.CashbackAccount{OwnerID: owner, Balance: balance}
}

func newLedger(driverRepo *MockDriverRepository, cashbackRepo *MockCashbackRepository, txRepo *MockTransactionRepository, pricingRepo *MockPricingRepository) *service.LedgerService {
	pricing := service.NewPricingService(pricingRepo, nil)
	return service.NewLedgerService(nil, driverRepo, cashbackRepo, txRepo, pricing, 0.05)
}

func TestLedger_CommissionDeduction(t *testing.T) {
	t.Parallel()

	driverRepo := NewMockDriverRepository()
	txRepo := NewMockTransactionRepository()
	ledger := newLedger(driverRepo, NewMockCashbackRepository(), txRepo, NewMockPricingRepository())

	driverRepo.AddDriver(driverWith("driver-1", 150000))

	err := ledger.DeductCommission(context.Background(), "driver-1", 100000, "order-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 100000 * 0.05 = 5000 off the balance.
	if got := driverRepo.GetDriver("driver-1").Balance; got != 145000 {
		t.Errorf("expected balance 145000, got %d", got)
	}

	entries, _ := txRepo.GetByDriver(context.Background(), "driver-1")
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Amount != -5000 {
		t.Errorf("expected entry amount -5000, got %d", entries[0].Amount)
	}
	if entries[0].OrderID != "order-1" {
		t.Errorf("expected entry bound to order-1, got %s", entries[0].OrderID)
	}
}

func TestLedger_ZeroPriceSkipsDeduction(t *testing.T) {
	t.Parallel()

	driverRepo := NewMockDriverRepository()
	txRepo := NewMockTransactionRepository()
	ledger := newLedger(driverRepo, NewMockCashbackRepository(), txRepo, NewMockPricingRepository())

	driverRepo.AddDriver(driverWith("driver-1", 150000))

	if err := ledger.DeductCommission(context.Background(), "driver-1", 0, "order-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := driverRepo.GetDriver("driver-1").Balance; got != 150000 {
		t.Errorf("expected balance untouched at 150000, got %d", got)
	}
	if txRepo.CountEntries() != 0 {
		t.Errorf("expected no entries, got %d", txRepo.CountEntries())
	}
}

func TestLedger_CommissionMayDriveBalanceNegative(t *testing.T) {
	t.Parallel()

	driverRepo := NewMockDriverRepository()
	ledger := newLedger(driverRepo, NewMockCashbackRepository(), NewMockTransactionRepository(), NewMockPricingRepository())

	driverRepo.AddDriver(driverWith("driver-1", 1000))

	if err := ledger.DeductCommission(context.Background(), "driver-1", 100000, "order-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// No floor: 1000 - 5000 = -4000 commission debt.
	if got := driverRepo.GetDriver("driver-1").Balance; got != -4000 {
		t.Errorf("expected balance -4000, got %d", got)
	}
}

func TestLedger_SettleCreditsLookupWhenNothingRequested(t *testing.T) {
	t.Parallel()

	cashbackRepo := NewMockCashbackRepository()
	pricingRepo := NewMockPricingRepository()
	ledger := newLedger(NewMockDriverRepository(), cashbackRepo, NewMockTransactionRepository(), pricingRepo)

	pricingRepo.SetPrice("7", "2", 50000)
	pricingRepo.SetRate("7", 0.001)

	err := ledger.SettleCashback(context.Background(), 42, 0, "7", "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 50000 * 0.001 = 50 credited to a lazily created account.
	account := cashbackRepo.GetAccount(42)
	if account == nil {
		t.Fatal("account not created")
	}
	if account.Balance != 50 {
		t.Errorf("expected balance 50, got %d", account.Balance)
	}
}

func TestLedger_SettleDebitsRequestedAmountExactly(t *testing.T) {
	t.Parallel()

	cashbackRepo := NewMockCashbackRepository()
	pricingRepo := NewMockPricingRepository()
	ledger := newLedger(NewMockDriverRepository(), cashbackRepo, NewMockTransactionRepository(), pricingRepo)

	// Balance smaller than the requested spend. The debit still goes
	// through unchanged.
	cashbackRepo.AddAccount(accountWith(42, 30))

	err := ledger.SettleCashback(context.Background(), 42, 200, "7", "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := cashbackRepo.GetAccount(42).Balance; got != -170 {
		t.Errorf("expected balance -170, got %d", got)
	}

	// The requested branch never touches the pricing tables.
	if pricingRepo.GetPriceCallCount != 0 || pricingRepo.GetRateCallCount != 0 {
		t.Error("expected no pricing lookups for a requested spend")
	}
}

func TestLedger_SettleRejectsNegativeRequest(t *testing.T) {
	t.Parallel()

	ledger := newLedger(NewMockDriverRepository(), NewMockCashbackRepository(), NewMockTransactionRepository(), NewMockPricingRepository())

	err := ledger.SettleCashback(context.Background(), 42, -1, "7", "2")
	if !errors.Is(err, service.ErrInvalidCashback) {
		t.Errorf("expected ErrInvalidCashback, got %v", err)
	}
}

func TestLedger_SettleFailsWhenRouteUnpriced(t *testing.T) {
	t.Parallel()

	cashbackRepo := NewMockCashbackRepository()
	ledger := newLedger(NewMockDriverRepository(), cashbackRepo, NewMockTransactionRepository(), NewMockPricingRepository())

	if err := ledger.SettleCashback(context.Background(), 42, 0, "unknown", "2"); err == nil {
		t.Error("expected error for unpriced route")
	}

	// The account was still lazily created; only the credit failed.
	if got := cashbackRepo.GetAccount(42); got == nil {
		t.Error("expected account to exist")
	} else if got.Balance != 0 {
		t.Errorf("expected zero balance, got %d", got.Balance)
	}
}
