package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mlevasseur/stationnement/config"
	"github.com/redis/go-redis/v9"
)

// FacilityStatus is the cached facility listing entry (catalog data plus
// live occupancy).
type FacilityStatus struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ZoneID    string `json:"zone_id"`
	Capacity  int    `json:"capacity"`
	Occupied  int    `json:"occupied"`
	Available int    `json:"available"`
}

type RedisCache struct {
	client        *redis.Client
	facilitiesTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, facilitiesTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:        redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		facilitiesTTL: facilitiesTTL,
	}
}

// ClaimGrace performs the once-per-half-day grace check-and-set. SETNX
// stores the claiming session id; when the key already exists the claim
// only succeeds for the same session, which makes repeated cost queries
// for one session idempotent while a second session in the bucket pays
// full tariff. The key expires with the bucket.
func (c *RedisCache) ClaimGrace(ctx context.Context, vehicleID int64, bucket, sessionID string, ttl time.Duration) (bool, error) {
	key := graceKey(vehicleID, bucket)
	ok, err := c.client.SetNX(ctx, key, sessionID, ttl).Result()
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}
	holder, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	return holder == sessionID, nil
}

// AcquireStartLock serializes session starts per vehicle around the
// repository's conditional insert.
func (c *RedisCache) AcquireStartLock(ctx context.Context, vehicleID int64, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, startLockKey(vehicleID), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseStartLock(ctx context.Context, vehicleID int64) error {
	return c.client.Del(ctx, startLockKey(vehicleID)).Err()
}

func (c *RedisCache) GetFacilities(ctx context.Context) ([]FacilityStatus, error) {
	data, err := c.client.Get(ctx, facilitiesKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var facilities []FacilityStatus
	if err := json.Unmarshal(data, &facilities); err != nil {
		return nil, err
	}
	return facilities, nil
}

func (c *RedisCache) SetFacilities(ctx context.Context, facilities []FacilityStatus) error {
	payload, err := json.Marshal(facilities)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, facilitiesKey(), payload, c.facilitiesTTL).Err()
}

func graceKey(vehicleID int64, bucket string) string {
	return fmt.Sprintf("grace:vehicle:%d:%s", vehicleID, bucket)
}

func startLockKey(vehicleID int64) string {
	return fmt.Sprintf("lock:vehicle:%d:start", vehicleID)
}

func facilitiesKey() string {
	return "cache:facilities"
}
