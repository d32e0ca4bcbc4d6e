package core

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
)

type flakyRemoteCache struct {
	failGet bool
	failPut bool
}

func (f *flakyRemoteCache) Get(context.Context, string) ([]byte, bool, error) {
	if f.failGet {
		return nil, false, errors.New("boom")
	}
	return []byte("1"), true, nil
}

func (f *flakyRemoteCache) Put(context.Context, string, []byte, time.Duration) error {
	if f.failPut {
		return errors.New("boom")
	}
	return nil
}

func (f *flakyRemoteCache) Close() error { return nil }

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestHealthMonitorProbeHealthy(t *testing.T) {
	m := NewMetrics()
	h := NewHealthMonitor(&flakyRemoteCache{}, m, newTestLogger())
	h.probe(context.Background())

	snap := h.Snapshot()
	if !snap.RemoteCacheUp {
		t.Fatal("expected remote cache to be reported up")
	}
	if snap.Remote != "ok" {
		t.Fatalf("expected remote status %q, got %q", "ok", snap.Remote)
	}
	if snap.Local != "ok" {
		t.Fatalf("expected local status %q, got %q", "ok", snap.Local)
	}
	if snap.LastProbe.IsZero() {
		t.Fatal("expected LastProbe to be set")
	}
}

func TestHealthMonitorDisabledRemote(t *testing.T) {
	m := NewMetrics()
	h := NewHealthMonitor(NewNoneRemoteCache(), m, newTestLogger())
	h.probe(context.Background())

	if got := h.Snapshot().Remote; got != "disabled" {
		t.Fatalf("expected remote status %q for the none driver, got %q", "disabled", got)
	}
}

func TestHealthMonitorReadiness(t *testing.T) {
	m := NewMetrics()
	h := NewHealthMonitor(&flakyRemoteCache{}, m, newTestLogger())
	if h.Ready() {
		t.Fatal("expected monitor to be not-ready before its first probe")
	}
	h.probe(context.Background())
	if !h.Ready() {
		t.Fatal("expected monitor to be ready after its first probe")
	}
}

func TestHealthMonitorDisabledRemoteIsReadyImmediately(t *testing.T) {
	m := NewMetrics()
	h := NewHealthMonitor(NewNoneRemoteCache(), m, newTestLogger())
	if !h.Ready() {
		t.Fatal("expected monitor with no remote tier to be ready with no probe required")
	}
}

func TestHealthMonitorProbeUnhealthy(t *testing.T) {
	m := NewMetrics()
	h := NewHealthMonitor(&flakyRemoteCache{failPut: true}, m, newTestLogger())
	h.probe(context.Background())

	snap := h.Snapshot()
	if snap.RemoteCacheUp {
		t.Fatal("expected remote cache to be reported down after a failing Put")
	}
	if got := testutil.ToFloat64(m.RemoteCacheUp); got != 0 {
		t.Fatalf("expected gauge 0, got %v", got)
	}
}

func TestHealthMonitorProbeGetFailure(t *testing.T) {
	m := NewMetrics()
	h := NewHealthMonitor(&flakyRemoteCache{failGet: true}, m, newTestLogger())
	h.probe(context.Background())

	if h.Snapshot().RemoteCacheUp {
		t.Fatal("expected remote cache to be reported down after a failing Get")
	}
}
