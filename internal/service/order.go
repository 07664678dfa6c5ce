package service

import (
	"context"
	"log"
	"time"

	"dispatch/internal/domain"
	"dispatch/internal/redis"
	"dispatch/internal/repository"
)

const orderLockTTL = 10 * time.Second

// allowedTransitions is the explicit transition table for the order
// lifecycle. ASSIGNED→ASSIGNED covers driver reassignment;
// ASSIGNED→STARTED is the permissive skip past ARRIVED.
var allowedTransitions = map[domain.OrderStatus][]domain.OrderStatus{
	domain.OrderStatusCreated:  {domain.OrderStatusAssigned, domain.OrderStatusRejected, domain.OrderStatusCanceled},
	domain.OrderStatusAssigned: {domain.OrderStatusAssigned, domain.OrderStatusArrived, domain.OrderStatusStarted, domain.OrderStatusRejected, domain.OrderStatusCanceled},
	domain.OrderStatusArrived:  {domain.OrderStatusStarted},
	domain.OrderStatusStarted:  {domain.OrderStatusEnded},
	domain.OrderStatusEnded:    {},
	domain.OrderStatusRejected: {},
	domain.OrderStatusCanceled: {},
}

// CanTransition reports whether from→to is an allowed lifecycle move.
func CanTransition(from, to domain.OrderStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// OrderService owns the order lifecycle. It validates transitions,
// serializes concurrent transitions per order, and triggers the ledger
// and notifier side effects. Side-effect failures never fail a
// transition; only precondition violations do.
type OrderService struct {
	orderRepo   repository.OrderRepository
	requestRepo repository.RequestRepository
	driverRepo  repository.DriverRepository
	ledger      Ledger
	notifier    NotifierInterface
	pricing     Pricing
	lockStore   redis.LockStoreInterface
	cacheStore  *redis.CacheStore
}

// NewOrderService creates a new OrderService. lockStore and cacheStore
// may be nil; locking and caching are then skipped.
func NewOrderService(
	orderRepo repository.OrderRepository,
	requestRepo repository.RequestRepository,
	driverRepo repository.DriverRepository,
	ledger Ledger,
	notifier NotifierInterface,
	pricing Pricing,
	lockStore redis.LockStoreInterface,
	cacheStore *redis.CacheStore,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		requestRepo: requestRepo,
		driverRepo:  driverRepo,
		ledger:      ledger,
		notifier:    notifier,
		pricing:     pricing,
		lockStore:   lockStore,
		cacheStore:  cacheStore,
	}
}

// Assign assigns a driver to an order. Re-assigning the same driver is
// idempotent and does not deduct commission again.
func (s *OrderService) Assign(ctx context.Context, orderID, driverID string) (*domain.Order, error) {
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}
	if driverID == "" {
		return nil, ErrInvalidDriverID
	}

	release, err := s.lockOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	defer release()

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == domain.OrderStatusAssigned && order.DriverID == driverID {
		return order, nil
	}

	if !CanTransition(order.Status, domain.OrderStatusAssigned) {
		return nil, ErrInvalidTransition
	}

	// Missing driver is a hard validation error, unlike ledger failures.
	if _, err := s.driverRepo.GetByID(ctx, driverID); err != nil {
		return nil, err
	}

	order.DriverID = driverID
	order.Status = domain.OrderStatusAssigned
	if err := s.persist(ctx, order); err != nil {
		return nil, err
	}

	req := s.loadRequest(ctx, order)

	// A ledger failure must not block the ride.
	if err := s.ledger.DeductCommission(ctx, driverID, s.orderPrice(ctx, req), order.ID); err != nil {
		log.Printf("[LEDGER] commission deduction failed order=%s driver=%s: %v", order.ID, driverID, err)
	}

	if s.notifier != nil {
		s.notifier.NotifyPassenger(order, req)
	}

	return order, nil
}

// Arrive marks the assigned driver as arrived at the pickup point.
func (s *OrderService) Arrive(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.transition(ctx, orderID, domain.OrderStatusArrived)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyPassenger(order, s.loadRequest(ctx, order))
	}

	return order, nil
}

// Start marks the trip as underway. The driver bot is notified, not the
// passenger: this event feeds the driver-side dispatch queue.
func (s *OrderService) Start(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.transition(ctx, orderID, domain.OrderStatusStarted)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyDriver(order, s.loadRequest(ctx, order))
	}

	return order, nil
}

// End completes the trip and settles the requester's cashback.
func (s *OrderService) End(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.transition(ctx, orderID, domain.OrderStatusEnded)
	if err != nil {
		return nil, err
	}

	req := s.loadRequest(ctx, order)
	if req != nil {
		if err := s.ledger.SettleCashback(ctx, order.RequesterID, req.CashbackRequested, req.RouteID, req.TariffID); err != nil {
			log.Printf("[LEDGER] cashback settlement failed order=%s requester=%d: %v", order.ID, order.RequesterID, err)
		}
		if err := s.requestRepo.UpdateStatus(ctx, req.ID, domain.RequestStatusEnded); err != nil {
			log.Printf("[ORDER] request status echo failed request=%s: %v", req.ID, err)
		}
	}

	if s.notifier != nil {
		s.notifier.NotifyPassenger(order, req)
	}

	return order, nil
}

// Reject terminates an unstarted order and persists the reason.
func (s *OrderService) Reject(ctx context.Context, orderID, reason string) (*domain.Order, error) {
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}

	release, err := s.lockOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	defer release()

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !CanTransition(order.Status, domain.OrderStatusRejected) {
		return nil, ErrInvalidTransition
	}

	order.Status = domain.OrderStatusRejected
	order.RejectReason = reason
	if err := s.persist(ctx, order); err != nil {
		return nil, err
	}

	req := s.loadRequest(ctx, order)
	if req != nil {
		if err := s.requestRepo.UpdateStatus(ctx, req.ID, domain.RequestStatusRejected); err != nil {
			log.Printf("[ORDER] request status echo failed request=%s: %v", req.ID, err)
		}
	}

	if s.notifier != nil {
		s.notifier.NotifyPassenger(order, req)
	}

	return order, nil
}

// Cancel terminates an unstarted order on the passenger's behalf. The
// assigned driver, if any, is notified.
func (s *OrderService) Cancel(ctx context.Context, orderID, reason string) (*domain.Order, error) {
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}

	release, err := s.lockOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	defer release()

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !CanTransition(order.Status, domain.OrderStatusCanceled) {
		return nil, ErrInvalidTransition
	}

	hadDriver := order.DriverID != ""
	order.Status = domain.OrderStatusCanceled
	order.RejectReason = reason
	if err := s.persist(ctx, order); err != nil {
		return nil, err
	}

	if s.notifier != nil && hadDriver {
		s.notifier.NotifyDriver(order, s.loadRequest(ctx, order))
	}

	return order, nil
}

// GetOrder retrieves an order by ID.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}

	return s.orderRepo.GetByID(ctx, orderID)
}

// GetAllOrders retrieves recent orders.
func (s *OrderService) GetAllOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.orderRepo.GetAll(ctx)
}

// transition applies a plain status move under the order lock.
func (s *OrderService) transition(ctx context.Context, orderID string, to domain.OrderStatus) (*domain.Order, error) {
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}

	release, err := s.lockOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	defer release()

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !CanTransition(order.Status, to) {
		return nil, ErrInvalidTransition
	}

	order.Status = to
	if err := s.persist(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// lockOrder serializes transitions on one order. Returns ErrOrderBusy
// when another transition holds the lock.
func (s *OrderService) lockOrder(ctx context.Context, orderID string) (func(), error) {
	if s.lockStore == nil {
		return func() {}, nil
	}

	locked, err := s.lockStore.AcquireOrderLock(ctx, orderID, orderLockTTL)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrOrderBusy
	}

	return func() {
		_ = s.lockStore.ReleaseOrderLock(ctx, orderID)
	}, nil
}

// persist writes the order and refreshes the cache entry.
func (s *OrderService) persist(ctx context.Context, order *domain.Order) error {
	order.UpdatedAt = time.Now()

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetOrder(ctx, &redis.CachedOrder{
			ID:          order.ID,
			RequesterID: order.RequesterID,
			DriverID:    order.DriverID,
			Status:      string(order.Status),
			OrderType:   string(order.OrderType),
		})
	}

	return nil
}

// loadRequest resolves the order's request reference. Lookup failures
// are logged and degrade the side effects, never the transition.
func (s *OrderService) loadRequest(ctx context.Context, order *domain.Order) *domain.TripRequest {
	req, err := s.requestRepo.GetByID(ctx, order.Request.ID)
	if err != nil {
		log.Printf("[ORDER] request lookup failed order=%s request=%s: %v", order.ID, order.Request.ID, err)
		return nil
	}
	return req
}

// orderPrice resolves the price commission is charged on: the request's
// quoted price, falling back to the pricing table when none was quoted.
func (s *OrderService) orderPrice(ctx context.Context, req *domain.TripRequest) int64 {
	if req == nil {
		return 0
	}
	if req.Price > 0 {
		return req.Price
	}

	if s.pricing != nil {
		price, err := s.pricing.GetPrice(ctx, req.RouteID, req.TariffID)
		if err == nil {
			return price
		}
		log.Printf("[ORDER] price lookup failed route=%s tariff=%s: %v", req.RouteID, req.TariffID, err)
	}
	return 0
}
