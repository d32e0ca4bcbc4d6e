package core

// Remote cache tier: an optional shared key-value store fronted by the
// local tier (§4.3). Selection between "none" and "redis-like" is a
// compile-time/config choice; the resolver only ever sees the RemoteCache
// interface, grounded on the build-feature-cache design note in §9.
//
// A remote GET that errors (connection, timeout) must never surface to the
// caller — it demotes to a local miss and is only logged, per §4.3/§7.

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RemoteCache is the abstract capability the resolver's Cache[T] composes
// with the local tier. Implementations never return a user-visible error
// from Get; Get's error return is for logging only and callers must treat
// any non-nil error identically to a miss.
type RemoteCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// noneRemoteCache is the "none" driver: every lookup misses, every write is
// a no-op. Used when no remote cache is configured.
type noneRemoteCache struct{}

// NewNoneRemoteCache returns a RemoteCache that is always a miss.
func NewNoneRemoteCache() RemoteCache { return noneRemoteCache{} }

func (noneRemoteCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (noneRemoteCache) Put(context.Context, string, []byte, time.Duration) error { return nil }
func (noneRemoteCache) Close() error                                            { return nil }

// redisRemoteCache is the "redis-like" driver (§4.3, §6 remote cache
// layout: keys "xenos:{kind}:{hexkey}", values JSON envelopes, TTL
// fresh+stale).
type redisRemoteCache struct {
	client *redis.Client
	log    *logrus.Logger
}

// NewRedisRemoteCache dials a redis-compatible store at addr.
func NewRedisRemoteCache(addr string, log *logrus.Logger) RemoteCache {
	return &redisRemoteCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		log:    log,
	}
}

func (r *redisRemoteCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		r.log.WithError(err).WithField("key", key).Debug("remote cache get failed, treating as miss")
		return nil, false, err
	}
	return b, true, nil
}

func (r *redisRemoteCache) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		r.log.WithError(err).WithField("key", key).Debug("remote cache put failed")
		return err
	}
	return nil
}

func (r *redisRemoteCache) Close() error { return r.client.Close() }
