package engine

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPathLocksSerializeSamePath(t *testing.T) {
	pl := NewPathLocks()

	var inFlight, maxSeen atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := pl.Lock("/dl/./a.mp4")
			defer unlock()

			n := inFlight.Add(1)
			for {
				m := maxSeen.Load()
				if n <= m || maxSeen.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			inFlight.Add(-1)
		}()
	}
	wg.Wait()

	if maxSeen.Load() != 1 {
		t.Fatalf("max concurrent holders = %d, want 1", maxSeen.Load())
	}
	if pl.Len() != 0 {
		t.Fatalf("locks not released: %d", pl.Len())
	}
}

func TestPathLocksIndependentPaths(t *testing.T) {
	pl := NewPathLocks()

	unlockA := pl.Lock("/dl/a.mp4")
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := pl.Lock("/dl/b.mp4")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different path blocked")
	}
}
