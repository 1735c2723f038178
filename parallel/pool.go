// Package parallel runs independent per-file jobs on a fixed set of
// workers. Jobs must not share images or keys.
package parallel

import (
	"runtime"
	"sync"
)

type (
	// WorkerFunc schedules a job. It may block until a worker is free.
	WorkerFunc func(func())
	// WaitFunc blocks until every scheduled job has finished. With done
	// set, no further jobs may be scheduled.
	WaitFunc   func(done bool)
	CancelFunc func()
)

type Pool struct {
	Workers int

	wg     sync.WaitGroup
	Do     WorkerFunc
	Wait   WaitFunc
	Cancel CancelFunc
}

// Start returns a pool of numWorkers workers; values below 1 use
// GOMAXPROCS. A single-worker pool runs jobs inline on the caller.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{
		Workers: numWorkers,
		Do: func(f func()) {
			f()
		},
		Wait:   func(bool) {},
		Cancel: func() {},
	}
	if numWorkers == 1 {
		return pool
	}

	jobs := make(chan func(), numWorkers)
	for range numWorkers {
		pool.wg.Go(func() {
			for f := range jobs {
				f()
			}
		})
	}

	pool.Do = func(f func()) {
		jobs <- f
	}
	pool.Cancel = sync.OnceFunc(func() { close(jobs) })
	pool.Wait = func(done bool) {
		if done {
			pool.Cancel()
		}
		pool.wg.Wait()
	}

	return pool
}
