package core

// Single-flight deduplication of concurrent upstream fetches (§4.4, §9).
//
// The in-flight map is sharded by key hash, mirroring the mutex+map-per-
// bucket shape of the teacher's ConnPool (core/connection_pool.go) rather
// than a single process-wide lock, to keep unrelated keys from contending
// on the same mutex. Each shard's critical sections cover only map
// insert/lookup/delete; the awaited upstream call itself runs outside any
// lock, per §5.
//
// Cancellation: a waiter's own ctx cancellation only removes that waiter.
// The leader's context is canceled at the next suspension point only once
// every waiter has gone — "last waiter out cancels the work" (§4.4, §5).
// A canceled leader must not write back partial results; callers achieve
// this by calling Cache.Put inside fn only after the upstream fetch itself
// has returned without error.

import (
	"context"
	"hash/fnv"
	"sync"
)

const singleFlightShards = 32

type sfCall[T any] struct {
	mu      sync.Mutex
	waiters int
	done    chan struct{}
	cancel  context.CancelFunc
	val     T
	err     error
}

type sfShard[T any] struct {
	mu    sync.Mutex
	calls map[string]*sfCall[T]
}

// SingleFlightGroup deduplicates concurrent Do calls sharing the same key.
type SingleFlightGroup[T any] struct {
	shards [singleFlightShards]*sfShard[T]
}

// NewSingleFlightGroup constructs an empty group.
func NewSingleFlightGroup[T any]() *SingleFlightGroup[T] {
	g := &SingleFlightGroup[T]{}
	for i := range g.shards {
		g.shards[i] = &sfShard[T]{calls: make(map[string]*sfCall[T])}
	}
	return g
}

func (g *SingleFlightGroup[T]) shardFor(key string) *sfShard[T] {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return g.shards[h.Sum32()%singleFlightShards]
}

// Do ensures at-most-one concurrent execution of fn per key (§8 property
// 1). Every concurrent caller for the same key observes the same
// (value, err) pair. leader reports whether this call started fn; the
// resolver's callers do not use it, since their write-back runs inside fn.
func (g *SingleFlightGroup[T]) Do(ctx context.Context, key string, fn func(context.Context) (T, error)) (val T, err error, leader bool) {
	shard := g.shardFor(key)

	shard.mu.Lock()
	if c, ok := shard.calls[key]; ok {
		c.mu.Lock()
		c.waiters++
		c.mu.Unlock()
		shard.mu.Unlock()
		v, e := g.wait(ctx, c)
		return v, e, false
	}

	leaderCtx, cancel := context.WithCancel(context.Background())
	c := &sfCall[T]{done: make(chan struct{}), cancel: cancel, waiters: 1}
	shard.calls[key] = c
	shard.mu.Unlock()

	go func() {
		c.val, c.err = fn(leaderCtx)
		close(c.done)
		shard.mu.Lock()
		delete(shard.calls, key)
		shard.mu.Unlock()
	}()

	v, e := g.wait(ctx, c)
	return v, e, true
}

// wait blocks until c is materialized or ctx is canceled. If ctx cancels
// and this was the last outstanding waiter, the leader's work is canceled.
func (g *SingleFlightGroup[T]) wait(ctx context.Context, c *sfCall[T]) (T, error) {
	select {
	case <-c.done:
		return c.val, c.err
	case <-ctx.Done():
		c.mu.Lock()
		c.waiters--
		last := c.waiters == 0
		c.mu.Unlock()
		if last {
			c.cancel()
		}
		var zero T
		return zero, ctx.Err()
	}
}
