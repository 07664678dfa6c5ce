package tests

import (
	"context"
	"errors"
	"testing"

	"dispatch/internal/domain"
	"dispatch/internal/service"
)

func newRequestService() (*service.RequestService, *MockRequestRepository, *MockOrderRepository, *MockDriverRepository, *MockNotifier) {
	requestRepo := NewMockRequestRepository()
	orderRepo := NewMockOrderRepository()
	driverRepo := NewMockDriverRepository()
	notifier := NewMockNotifier()
	svc := service.NewRequestService(requestRepo, orderRepo, driverRepo, notifier)
	return svc, requestRepo, orderRepo, driverRepo, notifier
}

func travelParams() service.CreateRequestParams {
	return service.CreateRequestParams{
		RequesterID:  100,
		RouteID:      "7",
		TariffID:     "2",
		Price:        100000,
		FromLocation: "Tashkent",
		ToLocation:   "Samarkand",
	}
}

func TestFactory_TravelRequestCreatesOrder(t *testing.T) {
	t.Parallel()

	svc, requestRepo, orderRepo, _, notifier := newRequestService()

	resp, err := svc.CreateTravel(context.Background(), travelParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Request == nil || resp.Order == nil {
		t.Fatal("expected both request and order")
	}
	if resp.Request.Kind != domain.RequestKindTravel {
		t.Errorf("expected TRAVEL kind, got %s", resp.Request.Kind)
	}
	if resp.Request.Passengers != 1 {
		t.Errorf("expected passengers to default to 1, got %d", resp.Request.Passengers)
	}

	if resp.Order.Status != domain.OrderStatusCreated {
		t.Errorf("expected CREATED, got %s", resp.Order.Status)
	}
	if resp.Order.OrderType != domain.OrderTypeTravel {
		t.Errorf("expected TRAVEL order type, got %s", resp.Order.OrderType)
	}
	if resp.Order.Request.ID != resp.Request.ID {
		t.Error("order not bound to its request")
	}

	if requestRepo.GetRequest(resp.Request.ID) == nil {
		t.Error("request not persisted")
	}
	if orderRepo.CountOrders() != 1 {
		t.Errorf("expected 1 order, got %d", orderRepo.CountOrders())
	}

	// New orders fan out to the driver pool and the group chat.
	if notifier.PoolCallCount != 1 {
		t.Errorf("expected 1 pool notification, got %d", notifier.PoolCallCount)
	}
	if notifier.GroupCallCount != 1 {
		t.Errorf("expected 1 group broadcast, got %d", notifier.GroupCallCount)
	}
}

func TestFactory_DeliveryRequestCreatesDeliveryOrder(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newRequestService()

	resp, err := svc.CreateDelivery(context.Background(), service.CreateRequestParams{
		RequesterID: 100,
		RouteID:     "7",
		TariffID:    "2",
		Comment:     "documents, fragile",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Request.Kind != domain.RequestKindDelivery {
		t.Errorf("expected DELIVERY kind, got %s", resp.Request.Kind)
	}
	if resp.Order.OrderType != domain.OrderTypeDelivery {
		t.Errorf("expected DELIVERY order type, got %s", resp.Order.OrderType)
	}
	if resp.Request.Passengers != 0 {
		t.Errorf("expected no passengers on delivery, got %d", resp.Request.Passengers)
	}
}

func TestFactory_DuplicateOrderCreationReturnsExisting(t *testing.T) {
	t.Parallel()

	svc, _, orderRepo, _, _ := newRequestService()

	resp, err := svc.CreateTravel(context.Background(), travelParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A second invocation for the same request must not mint a new order.
	again, err := svc.CreateOrderFor(context.Background(), resp.Request)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if again.ID != resp.Order.ID {
		t.Errorf("expected existing order %s, got %s", resp.Order.ID, again.ID)
	}
	if orderRepo.CountOrders() != 1 {
		t.Errorf("expected 1 order, got %d", orderRepo.CountOrders())
	}
}

func TestFactory_OrderFailureDoesNotFailRequest(t *testing.T) {
	t.Parallel()

	svc, requestRepo, orderRepo, _, _ := newRequestService()
	orderRepo.CreateError = errors.New("insert failed")

	resp, err := svc.CreateTravel(context.Background(), travelParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Request == nil {
		t.Fatal("expected request despite order failure")
	}
	if resp.Order != nil {
		t.Error("expected nil order on creation failure")
	}
	if requestRepo.GetRequest(resp.Request.ID) == nil {
		t.Error("request not persisted")
	}
}

func TestFactory_RequestFailurePropagates(t *testing.T) {
	t.Parallel()

	svc, requestRepo, orderRepo, _, _ := newRequestService()
	requestRepo.CreateError = errors.New("insert failed")

	if _, err := svc.CreateTravel(context.Background(), travelParams()); err == nil {
		t.Error("expected error")
	}
	if orderRepo.CountOrders() != 0 {
		t.Errorf("expected no orders, got %d", orderRepo.CountOrders())
	}
}

func TestFactory_Validation(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newRequestService()
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*service.CreateRequestParams)
		want   error
	}{
		{"missing requester", func(p *service.CreateRequestParams) { p.RequesterID = 0 }, service.ErrInvalidRequesterID},
		{"missing route", func(p *service.CreateRequestParams) { p.RouteID = "" }, service.ErrInvalidRouteID},
		{"missing tariff", func(p *service.CreateRequestParams) { p.TariffID = "" }, service.ErrInvalidTariffID},
		{"negative cashback", func(p *service.CreateRequestParams) { p.CashbackRequested = -1 }, service.ErrInvalidCashback},
	}

	for _, tc := range cases {
		params := travelParams()
		tc.mutate(&params)
		if _, err := svc.CreateTravel(ctx, params); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestFactory_PoolTargetsOnlineDriversOnRoute(t *testing.T) {
	t.Parallel()

	svc, _, _, driverRepo, notifier := newRequestService()

	driverRepo.AddDriver(&domain.Driver{ID: "d1", TelegramID: 11, Status: domain.DriverStatusOnline, FromLocation: "Tashkent", ToLocation: "Samarkand"})
	driverRepo.AddDriver(&domain.Driver{ID: "d2", TelegramID: 22, Status: domain.DriverStatusOffline, FromLocation: "Tashkent", ToLocation: "Samarkand"})
	driverRepo.AddDriver(&domain.Driver{ID: "d3", TelegramID: 33, Status: domain.DriverStatusOnline, FromLocation: "Tashkent", ToLocation: "Bukhara"})

	if _, err := svc.CreateTravel(context.Background(), travelParams()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pool := notifier.LastDrivers()
	if len(pool) != 1 {
		t.Fatalf("expected 1 driver in pool, got %d", len(pool))
	}
	if pool[0].ID != "d1" {
		t.Errorf("expected d1 in pool, got %s", pool[0].ID)
	}
}
