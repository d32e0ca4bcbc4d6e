package core

import "testing"

func TestBufferPoolReusesReleasedBuffers(t *testing.T) {
	p := NewBufferPool(2)

	buf := p.Acquire()
	buf.WriteString("hello")
	p.Release(buf)

	if got := p.Stats(); got != 1 {
		t.Fatalf("expected 1 idle buffer, got %d", got)
	}

	reused := p.Acquire()
	if reused.Len() != 0 {
		t.Fatalf("acquired buffer should be reset, has %d bytes", reused.Len())
	}
	if got := p.Stats(); got != 0 {
		t.Fatalf("expected 0 idle buffers after acquire, got %d", got)
	}
}

func TestBufferPoolDropsBeyondMaxIdle(t *testing.T) {
	p := NewBufferPool(1)

	p.Release(p.Acquire())
	p.Release(p.Acquire())

	if got := p.Stats(); got != 1 {
		t.Fatalf("expected idle count capped at 1, got %d", got)
	}
}
