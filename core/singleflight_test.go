package core

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlightDedupesConcurrentCallers(t *testing.T) {
	g := NewSingleFlightGroup[int]()
	var calls int32

	const n = 20
	var wg sync.WaitGroup
	results := make([]int, n)
	leaders := make([]bool, n)
	wg.Add(n)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			<-start
			v, err, leader := g.Do(context.Background(), "shared-key", func(context.Context) (int, error) {
				atomic.AddInt32(&calls, 1)
				time.Sleep(20 * time.Millisecond)
				return 42, nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			results[i] = v
			leaders[i] = leader
		}(i)
	}
	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected exactly 1 upstream call, got %d", got)
	}
	leaderCount := 0
	for i, v := range results {
		if v != 42 {
			t.Fatalf("result[%d] = %d, want 42", i, v)
		}
		if leaders[i] {
			leaderCount++
		}
	}
	if leaderCount != 1 {
		t.Fatalf("expected exactly 1 leader, got %d", leaderCount)
	}
}

func TestSingleFlightDistinctKeysRunIndependently(t *testing.T) {
	g := NewSingleFlightGroup[int]()
	var calls int32

	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		key := "k"
		if i == 1 {
			key = "k2"
		}
		go func(key string) {
			defer wg.Done()
			_, _, _ = g.Do(context.Background(), key, func(context.Context) (int, error) {
				atomic.AddInt32(&calls, 1)
				return 1, nil
			})
		}(key)
	}
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 independent calls for distinct keys, got %d", got)
	}
}

func TestSingleFlightLastWaiterCancels(t *testing.T) {
	g := NewSingleFlightGroup[int]()
	started := make(chan struct{})
	unblock := make(chan struct{})
	var leaderCtxCanceled int32

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_, _, _ = g.Do(ctx, "only-key", func(fnCtx context.Context) (int, error) {
			close(started)
			select {
			case <-fnCtx.Done():
				atomic.StoreInt32(&leaderCtxCanceled, 1)
			case <-unblock:
			}
			return 0, nil
		})
		close(done)
	}()

	<-started
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Do did not return after caller ctx canceled")
	}

	deadline := time.After(time.Second)
	for atomic.LoadInt32(&leaderCtxCanceled) == 0 {
		select {
		case <-deadline:
			t.Fatal("leader context was never canceled after its only waiter left")
		case <-time.After(5 * time.Millisecond):
		}
	}
	close(unblock)
}

func TestSingleFlightWaiterCancelDoesNotCancelOthers(t *testing.T) {
	g := NewSingleFlightGroup[int]()
	started := make(chan struct{})
	release := make(chan struct{})

	waiterCtx, waiterCancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		_, err, _ := g.Do(context.Background(), "shared", func(fnCtx context.Context) (int, error) {
			close(started)
			<-release
			return 7, nil
		})
		if err != nil {
			t.Errorf("long-lived caller got unexpected error: %v", err)
		}
	}()

	<-started
	go func() {
		defer wg.Done()
		_, err, _ := g.Do(waiterCtx, "shared", func(context.Context) (int, error) { return 0, nil })
		if err == nil {
			t.Error("expected canceled waiter to observe an error")
		}
	}()

	waiterCancel()
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
}
