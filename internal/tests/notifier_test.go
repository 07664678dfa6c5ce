package tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"dispatch/internal/config"
	"dispatch/internal/domain"
	"dispatch/internal/service"
)

func notifierConfig(driverURL, passengerURL, groupURL string) config.NotifierConfig {
	return config.NotifierConfig{
		DriverBotURL:    driverURL,
		PassengerBotURL: passengerURL,
		GroupChatURL:    groupURL,
		RequestTimeout:  time.Second,
		MaxAttempts:     3,
		RetryBackoff:    time.Millisecond,
		Workers:         1,
		QueueSize:       16,
	}
}

func sampleOrder(status domain.OrderStatus) *domain.Order {
	return &domain.Order{
		ID:          "order-1",
		RequesterID: 100,
		DriverID:    "driver-1",
		Status:      status,
		OrderType:   domain.OrderTypeTravel,
		Request:     domain.RequestRef{Kind: domain.RequestKindTravel, ID: "req-1"},
	}
}

func sampleRequest() *domain.TripRequest {
	return &domain.TripRequest{
		ID:           "req-1",
		Kind:         domain.RequestKindTravel,
		RequesterID:  100,
		RouteID:      "7",
		TariffID:     "2",
		Price:        100000,
		FromLocation: "Tashkent",
		ToLocation:   "Samarkand",
		Passengers:   2,
		CreatedAt:    time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestNotifier_FailingSinkGetsExactlyThreeAttempts(t *testing.T) {
	t.Parallel()

	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	n := service.NewNotifier(notifierConfig("", server.URL, ""), server.Client())
	n.NotifyPassenger(sampleOrder(domain.OrderStatusAssigned), sampleRequest())
	n.Close()

	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", got)
	}
}

func TestNotifier_SuccessfulDeliveryStopsRetrying(t *testing.T) {
	t.Parallel()

	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := service.NewNotifier(notifierConfig("", server.URL, ""), server.Client())
	n.NotifyPassenger(sampleOrder(domain.OrderStatusAssigned), sampleRequest())
	n.Close()

	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("expected 1 attempt, got %d", got)
	}
}

func TestNotifier_RecoversMidRetry(t *testing.T) {
	t.Parallel()

	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := service.NewNotifier(notifierConfig("", server.URL, ""), server.Client())
	n.NotifyPassenger(sampleOrder(domain.OrderStatusAssigned), sampleRequest())
	n.Close()

	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestNotifier_PerOrderDeliveryOrderIsPreserved(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload service.OrderPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode: %v", err)
		}
		mu.Lock()
		seen = append(seen, payload.Status)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := service.NewNotifier(notifierConfig("", server.URL, ""), server.Client())
	req := sampleRequest()
	for _, status := range []domain.OrderStatus{
		domain.OrderStatusAssigned,
		domain.OrderStatusArrived,
		domain.OrderStatusStarted,
		domain.OrderStatusEnded,
	} {
		n.NotifyPassenger(sampleOrder(status), req)
	}
	n.Close()

	want := []string{"ASSIGNED", "ARRIVED", "STARTED", "ENDED"}
	mu.Lock()
	defer mu.Unlock()
	if len(seen) != len(want) {
		t.Fatalf("expected %d deliveries, got %d", len(want), len(seen))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("delivery %d: expected %s, got %s", i, want[i], seen[i])
		}
	}
}

func TestNotifier_PoolPayloadCarriesRecipients(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var payload service.OrderPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := service.NewNotifier(notifierConfig(server.URL, "", ""), server.Client())
	drivers := []*domain.Driver{
		{ID: "d1", TelegramID: 11},
		{ID: "d2", TelegramID: 22},
	}
	n.NotifyDriverPool(sampleOrder(domain.OrderStatusCreated), sampleRequest(), drivers)
	n.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(payload.Recipients) != 2 {
		t.Fatalf("expected 2 recipients, got %d", len(payload.Recipients))
	}
	if payload.Recipients[0] != 11 || payload.Recipients[1] != 22 {
		t.Errorf("unexpected recipients %v", payload.Recipients)
	}
	if payload.Content.RouteID != "7" {
		t.Errorf("expected route 7, got %s", payload.Content.RouteID)
	}
}

func TestNotifier_UnconfiguredSinkIsDropped(t *testing.T) {
	t.Parallel()

	// No URLs configured at all: nothing to deliver to, nothing blocks.
	n := service.NewNotifier(notifierConfig("", "", ""), &http.Client{})
	n.NotifyPassenger(sampleOrder(domain.OrderStatusAssigned), sampleRequest())
	n.BroadcastGroup(sampleOrder(domain.OrderStatusCreated), sampleRequest())
	n.Close()
}

func TestBroadcastMessage_Formatting(t *testing.T) {
	t.Parallel()

	req := sampleRequest()
	req.HasWoman = true
	msg := service.BroadcastMessage(sampleOrder(domain.OrderStatusCreated), req)

	for _, want := range []string{
		"New order",
		"Order ID: order-1",
		"Requester: 100",
		"Status: Created",
		"Type: Travel",
		"Route: Tashkent -> Samarkand",
		"Price: 100000",
		"Comment: no comment",
		"Passengers: 2",
		"Female passenger: Yes",
		"Created: 14-03-2025 09:30",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestBroadcastMessage_NilRequest(t *testing.T) {
	t.Parallel()

	msg := service.BroadcastMessage(sampleOrder(domain.OrderStatusCreated), nil)
	if !strings.Contains(msg, "Order ID: order-1") {
		t.Errorf("message missing order id:\n%s", msg)
	}
	if strings.Contains(msg, "Route:") {
		t.Errorf("unexpected route section without a request:\n%s", msg)
	}
}
