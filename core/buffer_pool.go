package core

// BufferPool reuses *bytes.Buffer scratch space for PNG encoding (§4.2,
// ExtractHead). Adapted from the teacher's ConnPool (core/connection_pool.go,
// since removed): the acquire/release-with-idle-cap/Stats shape is kept, but
// there is nothing here to dial or reap — TCP connection pooling has no
// analog in an HTTP+gRPC proxy, since the teacher's Dialer was part of the
// peer-to-peer networking code that did not survive the transformation.

import (
	"bytes"
	"sync"
)

// BufferPool caps how many idle buffers it holds onto; beyond that, Release
// just drops the buffer for the GC to collect.
type BufferPool struct {
	mu      sync.Mutex
	idle    []*bytes.Buffer
	maxIdle int
}

// NewBufferPool constructs a BufferPool holding at most maxIdle idle buffers.
func NewBufferPool(maxIdle int) *BufferPool {
	return &BufferPool{maxIdle: maxIdle}
}

// Acquire returns an empty *bytes.Buffer, reused from the idle list when one
// is available.
func (p *BufferPool) Acquire() *bytes.Buffer {
	p.mu.Lock()
	n := len(p.idle)
	if n == 0 {
		p.mu.Unlock()
		return new(bytes.Buffer)
	}
	buf := p.idle[n-1]
	p.idle = p.idle[:n-1]
	p.mu.Unlock()
	buf.Reset()
	return buf
}

// Release returns buf to the pool if there is room, otherwise drops it.
func (p *BufferPool) Release(buf *bytes.Buffer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.idle) >= p.maxIdle {
		return
	}
	p.idle = append(p.idle, buf)
}

// Stats returns the number of idle buffers currently held.
func (p *BufferPool) Stats() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}
