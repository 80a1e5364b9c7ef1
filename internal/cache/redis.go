// Package cache provides an optional redis read-through cache for attitude
// records. Keys are namespaced as "att:{companion}:{type}:{target}".
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/easeaico/companion-engine/internal/types"
)

// DefaultTTL bounds staleness for cached attitude reads. Every mutation
// invalidates its key, so the TTL only covers out-of-band writes.
const DefaultTTL = 10 * time.Minute

// AttitudeCache caches AttitudeRecord JSON in redis.
type AttitudeCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

// New returns an attitude cache. ttl <= 0 uses DefaultTTL.
func New(client *redis.Client, ttl time.Duration, log *logrus.Logger) *AttitudeCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &AttitudeCache{client: client, ttl: ttl, log: log}
}

func key(companionID int, targetID string, targetType types.TargetType) string {
	return fmt.Sprintf("att:%d:%s:%s", companionID, targetType, targetID)
}

// Get returns a cached record, or false on miss or any redis error. Cache
// failures never fail a read; the caller falls through to the database.
func (c *AttitudeCache) Get(ctx context.Context, companionID int, targetID string, targetType types.TargetType) (*types.AttitudeRecord, bool) {
	val, err := c.client.Get(ctx, key(companionID, targetID, targetType)).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.WithError(err).Warn("attitude cache read failed")
		}
		return nil, false
	}
	var rec types.AttitudeRecord
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		c.log.WithError(err).Warn("attitude cache entry corrupt")
		return nil, false
	}
	return &rec, true
}

// Set stores a record. Errors are logged and swallowed.
func (c *AttitudeCache) Set(ctx context.Context, rec *types.AttitudeRecord) {
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(rec.CompanionID, rec.TargetID, rec.TargetType), data, c.ttl).Err(); err != nil {
		c.log.WithError(err).Warn("attitude cache write failed")
	}
}

// Invalidate drops the cached entry for a key.
func (c *AttitudeCache) Invalidate(ctx context.Context, companionID int, targetID string, targetType types.TargetType) {
	if err := c.client.Del(ctx, key(companionID, targetID, targetType)).Err(); err != nil {
		c.log.WithError(err).Warn("attitude cache invalidation failed")
	}
}
