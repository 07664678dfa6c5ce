package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"dispatch/internal/domain"
	"dispatch/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK ORDER REPOSITORY
// ──────────────────────────────────────────────

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockOrderRepository creates a new mock order repository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]*domain.Order),
	}
}

// AddOrder adds an order to the mock repository.
func (m *MockOrderRepository) AddOrder(order *domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
	return nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *order
	return &copy, nil
}

func (m *MockOrderRepository) GetByRequest(ctx context.Context, ref domain.RequestRef) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.orders {
		if o.Request == ref {
			copy := *o
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockOrderRepository) GetAll(ctx context.Context) ([]*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Order, 0, len(m.orders))
	for _, o := range m.orders {
		copy := *o
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[order.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *order
	m.orders[order.ID] = &copy
	return nil
}

// GetOrder returns the stored order for test assertions.
func (m *MockOrderRepository) GetOrder(id string) *domain.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.orders[id]
}

// CountOrders returns the number of stored orders.
func (m *MockOrderRepository) CountOrders() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.orders)
}

// ──────────────────────────────────────────────
// MOCK REQUEST REPOSITORY
// ──────────────────────────────────────────────

// MockRequestRepository is a mock implementation of RequestRepository.
type MockRequestRepository struct {
	mu       sync.RWMutex
	requests map[string]*domain.TripRequest

	// Counters for verification
	CreateCallCount       int32
	UpdateStatusCallCount int32

	// Error injection
	CreateError       error
	UpdateStatusError error
}

// NewMockRequestRepository creates a new mock request repository.
func NewMockRequestRepository() *MockRequestRepository {
	return &MockRequestRepository{
		requests: make(map[string]*domain.TripRequest),
	}
}

// AddRequest adds a trip request to the mock repository.
func (m *MockRequestRepository) AddRequest(req *domain.TripRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[req.ID] = req
}

func (m *MockRequestRepository) Create(ctx context.Context, req *domain.TripRequest) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[req.ID] = req
	return nil
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id string) (*domain.TripRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	req, ok := m.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *req
	return &copy, nil
}

func (m *MockRequestRepository) UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[id]
	if !ok {
		return repository.ErrNotFound
	}
	req.Status = status
	return nil
}

// GetRequest returns the stored request for test assertions.
func (m *MockRequestRepository) GetRequest(id string) *domain.TripRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requests[id]
}

// ──────────────────────────────────────────────
// MOCK DRIVER REPOSITORY
// ──────────────────────────────────────────────

// MockDriverRepository is a mock implementation of DriverRepository.
type MockDriverRepository struct {
	mu      sync.RWMutex
	drivers map[string]*domain.Driver

	// Counters for verification
	CreateCallCount        int32
	UpdateStatusCallCount  int32
	AdjustBalanceCallCount int32

	// Error injection
	CreateError        error
	UpdateStatusError  error
	AdjustBalanceError error
}

// NewMockDriverRepository creates a new mock driver repository.
func NewMockDriverRepository() *MockDriverRepository {
	return &MockDriverRepository{
		drivers: make(map[string]*domain.Driver),
	}
}

// AddDriver adds a driver to the mock repository.
func (m *MockDriverRepository) AddDriver(driver *domain.Driver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
}

func (m *MockDriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drivers[driver.ID] = driver
	return nil
}

func (m *MockDriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	driver, ok := m.drivers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *driver
	return &copy, nil
}

func (m *MockDriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Driver, 0, len(m.drivers))
	for _, d := range m.drivers {
		copy := *d
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockDriverRepository) GetOnlineByRoute(ctx context.Context, from, to string) ([]*domain.Driver, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Driver, 0)
	for _, d := range m.drivers {
		if d.Status == domain.DriverStatusOnline && d.FromLocation == from && d.ToLocation == to {
			copy := *d
			result = append(result, &copy)
		}
	}
	return result, nil
}

func (m *MockDriverRepository) UpdateStatus(ctx context.Context, id string, status domain.DriverStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	driver.Status = status
	return nil
}

func (m *MockDriverRepository) AdjustBalance(ctx context.Context, id string, delta int64) error {
	atomic.AddInt32(&m.AdjustBalanceCallCount, 1)
	if m.AdjustBalanceError != nil {
		return m.AdjustBalanceError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	driver, ok := m.drivers[id]
	if !ok {
		return repository.ErrNotFound
	}
	driver.Balance += delta
	return nil
}

// GetDriver returns the stored driver for test assertions.
func (m *MockDriverRepository) GetDriver(id string) *domain.Driver {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.drivers[id]
}

// ──────────────────────────────────────────────
// MOCK CASHBACK REPOSITORY
// ──────────────────────────────────────────────

// MockCashbackRepository is a mock implementation of CashbackRepository.
type MockCashbackRepository struct {
	mu       sync.RWMutex
	accounts map[int64]*domain.CashbackAccount

	// Counters for verification
	GetOrCreateCallCount   int32
	AdjustBalanceCallCount int32

	// Error injection
	GetOrCreateError   error
	AdjustBalanceError error
}

// NewMockCashbackRepository creates a new mock cashback repository.
func NewMockCashbackRepository() *MockCashbackRepository {
	return &MockCashbackRepository{
		accounts: make(map[int64]*domain.CashbackAccount),
	}
}

// AddAccount adds an account to the mock repository.
func (m *MockCashbackRepository) AddAccount(account *domain.CashbackAccount) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.OwnerID] = account
}

func (m *MockCashbackRepository) GetOrCreate(ctx context.Context, ownerID int64) (*domain.CashbackAccount, error) {
	atomic.AddInt32(&m.GetOrCreateCallCount, 1)
	if m.GetOrCreateError != nil {
		return nil, m.GetOrCreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[ownerID]
	if !ok {
		now := time.Now()
		account = &domain.CashbackAccount{OwnerID: ownerID, CreatedAt: now, UpdatedAt: now}
		m.accounts[ownerID] = account
	}
	copy := *account
	return &copy, nil
}

func (m *MockCashbackRepository) GetByOwner(ctx context.Context, ownerID int64) (*domain.CashbackAccount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	account, ok := m.accounts[ownerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *account
	return &copy, nil
}

func (m *MockCashbackRepository) AdjustBalance(ctx context.Context, ownerID int64, delta int64) error {
	atomic.AddInt32(&m.AdjustBalanceCallCount, 1)
	if m.AdjustBalanceError != nil {
		return m.AdjustBalanceError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[ownerID]
	if !ok {
		return repository.ErrNotFound
	}
	account.Balance += delta
	return nil
}

// GetAccount returns the stored account for test assertions.
func (m *MockCashbackRepository) GetAccount(ownerID int64) *domain.CashbackAccount {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.accounts[ownerID]
}

// ──────────────────────────────────────────────
// MOCK TRANSACTION REPOSITORY
// ──────────────────────────────────────────────

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu      sync.RWMutex
	entries []*domain.DriverTransaction

	// Counters for verification
	CreateCallCount int32

	// Error injection
	CreateError error
}

// NewMockTransactionRepository creates a new mock transaction repository.
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *domain.DriverTransaction) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *tx
	m.entries = append(m.entries, &copy)
	return nil
}

func (m *MockTransactionRepository) GetByDriver(ctx context.Context, driverID string) ([]*domain.DriverTransaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.DriverTransaction, 0)
	for _, e := range m.entries {
		if e.DriverID == driverID {
			copy := *e
			result = append(result, &copy)
		}
	}
	return result, nil
}

// CountEntries returns the number of stored transactions.
func (m *MockTransactionRepository) CountEntries() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// ──────────────────────────────────────────────
// MOCK PRICING REPOSITORY
// ──────────────────────────────────────────────

// MockPricingRepository is a mock implementation of PricingRepository.
// Prices are keyed by "routeID/tariffID", rates by routeID.
type MockPricingRepository struct {
	mu     sync.RWMutex
	prices map[string]int64
	rates  map[string]float64

	// Counters for verification
	GetPriceCallCount int32
	GetRateCallCount  int32
}

// NewMockPricingRepository creates a new mock pricing repository.
func NewMockPricingRepository() *MockPricingRepository {
	return &MockPricingRepository{
		prices: make(map[string]int64),
		rates:  make(map[string]float64),
	}
}

// SetPrice seeds the price for a (route, tariff) pair.
func (m *MockPricingRepository) SetPrice(routeID, tariffID string, price int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices[routeID+"/"+tariffID] = price
}

// SetRate seeds the cashback rate for a route.
func (m *MockPricingRepository) SetRate(routeID string, rate float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rates[routeID] = rate
}

func (m *MockPricingRepository) GetPrice(ctx context.Context, routeID, tariffID string) (int64, error) {
	atomic.AddInt32(&m.GetPriceCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	price, ok := m.prices[routeID+"/"+tariffID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return price, nil
}

func (m *MockPricingRepository) GetCashbackRate(ctx context.Context, routeID string) (float64, error) {
	atomic.AddInt32(&m.GetRateCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	rate, ok := m.rates[routeID]
	if !ok {
		return 0, repository.ErrNotFound
	}
	return rate, nil
}

// ──────────────────────────────────────────────
// MOCK NOTIFIER
// ──────────────────────────────────────────────

// MockNotifier records notification calls without delivering anything.
type MockNotifier struct {
	PassengerCallCount int32
	DriverCallCount    int32
	PoolCallCount      int32
	GroupCallCount     int32

	mu          sync.Mutex
	lastOrder   *domain.Order
	lastDrivers []*domain.Driver
}

// NewMockNotifier creates a new mock notifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) NotifyPassenger(order *domain.Order, req *domain.TripRequest) {
	atomic.AddInt32(&m.PassengerCallCount, 1)
	m.recordOrder(order)
}

func (m *MockNotifier) NotifyDriver(order *domain.Order, req *domain.TripRequest) {
	atomic.AddInt32(&m.DriverCallCount, 1)
	m.recordOrder(order)
}

func (m *MockNotifier) NotifyDriverPool(order *domain.Order, req *domain.TripRequest, drivers []*domain.Driver) {
	atomic.AddInt32(&m.PoolCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastOrder = order
	m.lastDrivers = drivers
}

func (m *MockNotifier) BroadcastGroup(order *domain.Order, req *domain.TripRequest) {
	atomic.AddInt32(&m.GroupCallCount, 1)
	m.recordOrder(order)
}

func (m *MockNotifier) Close() {}

func (m *MockNotifier) recordOrder(order *domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastOrder = order
}

// LastOrder returns the order from the most recent notification.
func (m *MockNotifier) LastOrder() *domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastOrder
}

// LastDrivers returns the pool from the most recent fan-out.
func (m *MockNotifier) LastDrivers() []*domain.Driver {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastDrivers
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is an in-memory stand-in for the Redis order lock.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	// Counters for verification
	AcquireCallCount int32
	ReleaseCallCount int32

	// Error injection
	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]bool),
	}
}

func (m *MockLockStore) AcquireOrderLock(ctx context.Context, orderID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[orderID] {
		return false, nil
	}
	m.locks[orderID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseOrderLock(ctx context.Context, orderID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, orderID)
	return nil
}

// HoldLock marks an order lock as taken so acquisition fails.
func (m *MockLockStore) HoldLock(orderID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[orderID] = true
}
