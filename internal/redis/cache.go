package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"fleet/internal/domain"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// TruckCacheTTL keeps cached trucks short-lived; status flips with every trip.
const TruckCacheTTL = 30 * time.Second

const truckCachePrefix = "cache:truck:"

// GetTruck retrieves a truck from cache. A miss returns nil, nil.
func (s *CacheStore) GetTruck(ctx context.Context, truckID string) (*domain.Truck, error) {
	data, err := s.client.Get(ctx, truckCachePrefix+truckID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var truck domain.Truck
	if err := json.Unmarshal(data, &truck); err != nil {
		return nil, err
	}
	return &truck, nil
}

// SetTruck stores a truck in cache.
func (s *CacheStore) SetTruck(ctx context.Context, truck *domain.Truck) error {
	data, err := json.Marshal(truck)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, truckCachePrefix+truck.ID, data, TruckCacheTTL).Err()
}

// SetTrucksBatch stores multiple trucks in cache using a pipeline.
func (s *CacheStore) SetTrucksBatch(ctx context.Context, trucks []*domain.Truck) error {
	if len(trucks) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, truck := range trucks {
		data, err := json.Marshal(truck)
		if err != nil {
			continue
		}
		pipe.Set(ctx, truckCachePrefix+truck.ID, data, TruckCacheTTL)
	}

	_, err := pipe.Exec(ctx)
	return err
}

// InvalidateTrucks removes trucks from cache.
func (s *CacheStore) InvalidateTrucks(ctx context.Context, truckIDs ...string) error {
	if len(truckIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(truckIDs))
	for _, id := range truckIDs {
		keys = append(keys, truckCachePrefix+id)
	}
	return s.client.Del(ctx, keys...).Err()
}
