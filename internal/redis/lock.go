package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Asset kinds used in lock keys.
const (
	AssetTruck   = "truck"
	AssetTrailer = "trailer"
)

// AssetLockTTL bounds how long a crashed request can keep an asset reserved.
const AssetLockTTL = 10 * time.Second

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

func assetLockKey(kind, id string) string {
	return fmt.Sprintf("lock:%s:%s", kind, id)
}

// AcquireAssetLock attempts to acquire the lock on a truck or trailer.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireAssetLock(ctx context.Context, kind, id string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, assetLockKey(kind, id), "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseAssetLock releases the lock on a truck or trailer.
func (s *LockStore) ReleaseAssetLock(ctx context.Context, kind, id string) error {
	return s.client.Del(ctx, assetLockKey(kind, id)).Err()
}
