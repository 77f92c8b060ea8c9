package redis

import (
	"context"
	"time"

	"fleet/internal/domain"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireAssetLock(ctx context.Context, kind, id string, ttl time.Duration) (bool, error)
	ReleaseAssetLock(ctx context.Context, kind, id string) error
}

// TruckCacheInterface defines the read-through cache used for trucks.
type TruckCacheInterface interface {
	GetTruck(ctx context.Context, truckID string) (*domain.Truck, error)
	SetTruck(ctx context.Context, truck *domain.Truck) error
	SetTrucksBatch(ctx context.Context, trucks []*domain.Truck) error
	InvalidateTrucks(ctx context.Context, truckIDs ...string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface  = (*LockStore)(nil)
	_ TruckCacheInterface = (*CacheStore)(nil)
)
