package utils

import (
	"sync/atomic"
	"testing"
)

func TestKeySetNoDuplicates(t *testing.T) {
	s := KeySet{}

	if !s.Add("Food|Rice|Pune") {
		t.Error("first Add should return true")
	}
	if s.Add("Food|Rice|Pune") {
		t.Error("second Add of same key should return false")
	}
	if !s.Add("Food|Rice|Delhi") {
		t.Error("Add of a different key should return true")
	}
	if len(s) != 2 {
		t.Errorf("size: got %d, want 2", len(s))
	}
}

func TestWorkerPoolRunsEveryJob(t *testing.T) {
	pool := NewWorkerPool(4)
	results := make([]int, 50)
	pool.Run(len(results), func(i int) { results[i] = i * i })

	for i, got := range results {
		if got != i*i {
			t.Errorf("results[%d]: got %d, want %d", i, got, i*i)
		}
	}
}

func TestWorkerPoolBoundsConcurrency(t *testing.T) {
	const workers = 3
	pool := NewWorkerPool(workers)

	var running, peak int64
	pool.Run(40, func(int) {
		cur := atomic.AddInt64(&running, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if cur <= p || atomic.CompareAndSwapInt64(&peak, p, cur) {
				break
			}
		}
		for i := 0; i < 1000; i++ {
			_ = i * i
		}
		atomic.AddInt64(&running, -1)
	})

	if peak > workers {
		t.Errorf("peak concurrency: got %d, want <= %d", peak, workers)
	}
}

func TestWorkerPoolClampsWorkers(t *testing.T) {
	if got := NewWorkerPool(0).Workers(); got != 1 {
		t.Errorf("workers: got %d, want 1", got)
	}

	calls := 0
	NewWorkerPool(1).Run(0, func(int) { calls++ })
	if calls != 0 {
		t.Errorf("Run(0): got %d calls, want 0", calls)
	}
}
