package utils

import "sync"

// WorkerPool runs indexed jobs on a fixed number of goroutines.
type WorkerPool struct {
	workers int
}

// NewWorkerPool creates a WorkerPool with at most workers goroutines (minimum 1).
func NewWorkerPool(workers int) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	return &WorkerPool{workers: workers}
}

// Workers returns the concurrency limit.
func (wp *WorkerPool) Workers() int { return wp.workers }

// Run calls job(i) once for every i in [0, n) and returns when all calls are done.
// Jobs must only write to state owned by their index.
func (wp *WorkerPool) Run(n int, job func(i int)) {
	if n <= 0 {
		return
	}
	workers := wp.workers
	if workers > n {
		workers = n
	}

	next := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range next {
				job(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		next <- i
	}
	close(next)
	wg.Wait()
}

// KeySet records which keys have been seen. It is not safe for concurrent use.
type KeySet map[string]struct{}

// Add returns true if the key was newly added, false if already present.
func (s KeySet) Add(key string) bool {
	if _, exists := s[key]; exists {
		return false
	}
	s[key] = struct{}{}
	return true
}
