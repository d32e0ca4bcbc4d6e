package core

// Cache[T] is the two-tier cache described in §4.3: a bounded, admission-
// aware local tier fronting an optional remote tier. Each entity kind
// (uuid, profile[-signed], skin, cape, head) gets its own Cache[T] instance
// with independent capacity and TTL policy (§4.3 table).
//
// Local tier: github.com/dgraph-io/ristretto/v2, a TinyLFU-admission cache —
// the concrete library behind the "TinyLFU-class policy with TTL"
// requirement. Local entries are evicted either by ristretto's own cost/
// frequency accounting or once the envelope has fully expired (local TTL is
// set to fresh+stale so Expired entries age out without Xenos coordination,
// matching the remote tier's GC policy in §4.3/§6).
//
// Write-back order on fill: remote first, then local. Read order on fetch:
// local first, then remote; a remote hit is re-inserted locally. This keeps
// local a strict subset (modulo eviction) of remote — §4.3.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/sirupsen/logrus"
)

// Result is the outcome of a Cache[T].Get call.
type Result[T any] struct {
	Envelope  Envelope[T]
	Freshness Freshness
	Hit       bool // false means Expired-or-absent; callers treat it as Miss
}

// Cache composes the local and remote tiers for one entity kind.
type Cache[T any] struct {
	kind   string
	policy TTLPolicy
	local  *ristretto.Cache[string, Envelope[T]]
	remote RemoteCache
	log    *logrus.Logger
	metric *kindMetrics
}

// NewCache constructs a Cache for one kind. capacity bounds the local tier's
// entry count; remote may be a noneRemoteCache.
func NewCache[T any](kind string, policy TTLPolicy, capacity int64, remote RemoteCache, log *logrus.Logger, m *Metrics) (*Cache[T], error) {
	local, err := ristretto.NewCache(&ristretto.Config[string, Envelope[T]]{
		NumCounters: capacity * 10,
		MaxCost:     capacity,
		BufferItems: 64,
		Metrics:     false,
		Cost:        func(Envelope[T]) int64 { return 1 },

		// Without this, ristretto adds its own per-item storage size to
		// every cost, and MaxCost would no longer be an entry count.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &Cache[T]{
		kind:   kind,
		policy: policy,
		local:  local,
		remote: remote,
		log:    log,
		metric: m.forKind(kind),
	}, nil
}

// remoteKey builds the "xenos:{kind}:{hexkey}" remote key layout (§6).
func (c *Cache[T]) remoteKey(key string) string {
	return "xenos:" + c.kind + ":" + key
}

// localTTL is fresh+stale, so ristretto GCs fully-expired entries without
// Xenos coordination (mirrors the remote tier's own expiration policy).
func (c *Cache[T]) localTTL(negative bool) time.Duration {
	return c.policy.totalTTL(negative) + c.policy.StaleHorizon
}

// Get performs the local-then-remote lookup of §4.3. Expired is reported as
// a miss (Result.Hit == false), matching the cache contract.
func (c *Cache[T]) Get(ctx context.Context, key string) Result[T] {
	now := time.Now()
	if env, ok := c.local.Get(key); ok {
		fr := env.Freshness(c.policy, now)
		if fr != Expired {
			c.metric.localHits.Inc()
			return Result[T]{Envelope: env, Freshness: fr, Hit: true}
		}
	}
	c.metric.localMisses.Inc()

	raw, hit, err := c.remote.Get(ctx, c.remoteKey(key))
	if err != nil || !hit {
		return Result[T]{Hit: false}
	}
	var env Envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		c.log.WithError(err).WithField("kind", c.kind).Warn("remote cache payload malformed, treating as miss")
		return Result[T]{Hit: false}
	}
	fr := env.Freshness(c.policy, now)
	if fr == Expired {
		return Result[T]{Hit: false}
	}
	c.metric.remoteHits.Inc()
	// Re-insert locally so local stays a strict subset of remote (§4.3).
	c.local.SetWithTTL(key, env, 1, c.localTTL(env.Negative))
	return Result[T]{Envelope: env, Freshness: fr, Hit: true}
}

// Put writes env to both tiers: remote first, then local (§4.3). Remote
// write failures are logged and otherwise ignored — they must not fail the
// caller, which already has the value to serve.
func (c *Cache[T]) Put(ctx context.Context, key string, env Envelope[T]) {
	if b, err := json.Marshal(env); err != nil {
		c.log.WithError(err).WithField("kind", c.kind).Warn("envelope marshal failed, skipping remote write")
	} else if err := c.remote.Put(ctx, c.remoteKey(key), b, c.localTTL(env.Negative)); err != nil {
		c.log.WithError(err).WithField("kind", c.kind).Debug("remote cache write failed")
	}
	c.local.SetWithTTL(key, env, 1, c.localTTL(env.Negative))
}

// Invalidate removes key from the local tier only; a follow-up Get that
// misses locally will still observe the remote entry until it naturally
// expires. This matches the "mutated only by replacement" ownership model
// in §3 — there is no cross-tier invalidation primitive in upstream.
func (c *Cache[T]) Invalidate(key string) {
	c.local.Del(key)
}

// Wait blocks until all buffered local writes have been applied. It exists
// for deterministic tests; production callers never need it.
func (c *Cache[T]) Wait() { c.local.Wait() }

// Close releases the local tier's background goroutines.
func (c *Cache[T]) Close() { c.local.Close() }
