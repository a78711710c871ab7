package summary

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// cache keeps computed summaries in Redis for a short time. A nil client
// disables it. Failures are logged and treated as misses.
type cache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logrus.Logger
}

func (c cache) load(ctx context.Context, key string, dst interface{}) bool {
	if c.client == nil {
		return false
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("summary cache read failed")
		return false
	}

	if err = json.Unmarshal(data, dst); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("summary cache entry undecodable")
		return false
	}
	return true
}

func (c cache) store(ctx context.Context, key string, v interface{}) {
	if c.client == nil || c.ttl <= 0 {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		c.log.WithError(err).Warn("summary cache encode failed")
		return
	}
	if err = c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("summary cache write failed")
	}
}
