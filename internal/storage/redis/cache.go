// Package redis holds the hot list of alarmed emergencies plus alarm
// delivery telemetry. Everything here is advisory; callers fall back to
// postgres on any error.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"dispatch-srv/internal/model"
)

const (
	activeKey        = "emergencies:active"
	deliveriesKey    = "alarms:delivered"
	defaultActiveTTL = 30 * time.Second
)

// ErrCacheMiss marks a cold or expired cache; callers go to the store.
var ErrCacheMiss = errors.New("cache miss")

type EmergencyCache struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewEmergencyCache(client *goredis.Client, ttl time.Duration) *EmergencyCache {
	if ttl <= 0 {
		ttl = defaultActiveTTL
	}
	return &EmergencyCache{client: client, ttl: ttl}
}

func (c *EmergencyCache) GetActive(ctx context.Context) ([]model.Emergency, error) {
	data, err := c.client.Get(ctx, activeKey).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	var es []model.Emergency
	if err := json.Unmarshal(data, &es); err != nil {
		return nil, err
	}

	return es, nil
}

func (c *EmergencyCache) SetActive(ctx context.Context, es []model.Emergency) error {
	b, err := json.Marshal(es)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, activeKey, b, c.ttl).Err()
}

func (c *EmergencyCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, activeKey).Err()
}

// RecordAlarmDelivery remembers how many responder sockets each alarm
// reached, for the operations dashboard.
func (c *EmergencyCache) RecordAlarmDelivery(ctx context.Context, emergencyID int64, delivered int) error {
	return c.client.HSet(ctx, deliveriesKey, strconv.FormatInt(emergencyID, 10), delivered).Err()
}
