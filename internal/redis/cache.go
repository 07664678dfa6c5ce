package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	PriceCacheTTL = 5 * time.Minute  // Pricing tables change rarely
	RateCacheTTL  = 5 * time.Minute  // Same lifecycle as prices
	OrderCacheTTL = 10 * time.Second // Order status changes during transitions
)

// Key prefixes
const (
	priceCachePrefix = "cache:price:"
	rateCachePrefix  = "cache:rate:"
	orderCachePrefix = "cache:order:"
)

// CachedOrder represents a cached order entity.
type CachedOrder struct {
	ID          string `json:"id"`
	RequesterID int64  `json:"requester_id"`
	DriverID    string `json:"driver_id"`
	Status      string `json:"status"`
	OrderType   string `json:"order_type"`
}

// GetPrice retrieves a cached (route, tariff) price. The bool result is
// false on cache miss.
func (s *CacheStore) GetPrice(ctx context.Context, routeID, tariffID string) (int64, bool, error) {
	key := priceCachePrefix + routeID + ":" + tariffID
	price, err := s.client.Get(ctx, key).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, false, nil // Cache miss
		}
		return 0, false, err
	}
	return price, true, nil
}

// SetPrice stores a (route, tariff) price in cache.
func (s *CacheStore) SetPrice(ctx context.Context, routeID, tariffID string, price int64) error {
	key := priceCachePrefix + routeID + ":" + tariffID
	return s.client.Set(ctx, key, price, PriceCacheTTL).Err()
}

// GetCashbackRate retrieves a cached route cashback rate.
func (s *CacheStore) GetCashbackRate(ctx context.Context, routeID string) (float64, bool, error) {
	key := rateCachePrefix + routeID
	rate, err := s.client.Get(ctx, key).Float64()
	if err != nil {
		if err == redis.Nil {
			return 0, false, nil // Cache miss
		}
		return 0, false, err
	}
	return rate, true, nil
}

// SetCashbackRate stores a route cashback rate in cache.
func (s *CacheStore) SetCashbackRate(ctx context.Context, routeID string, rate float64) error {
	key := rateCachePrefix + routeID
	return s.client.Set(ctx, key, rate, RateCacheTTL).Err()
}

// GetOrder retrieves an order from cache.
func (s *CacheStore) GetOrder(ctx context.Context, orderID string) (*CachedOrder, error) {
	key := orderCachePrefix + orderID
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var order CachedOrder
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// SetOrder stores an order in cache.
func (s *CacheStore) SetOrder(ctx context.Context, order *CachedOrder) error {
	key := orderCachePrefix + order.ID
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, OrderCacheTTL).Err()
}

// InvalidateOrder removes an order from cache.
func (s *CacheStore) InvalidateOrder(ctx context.Context, orderID string) error {
	key := orderCachePrefix + orderID
	return s.client.Del(ctx, key).Err()
}
