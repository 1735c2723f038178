package parallel

import (
	"sync/atomic"
	"testing"
)

func TestPool(t *testing.T) {
	for _, workers := range []int{0, 1, 4} {
		pool := Start(workers)
		if pool.Workers < 1 {
			t.Fatalf("Start(%d).Workers = %d", workers, pool.Workers)
		}

		var sum atomic.Int64
		for i := 1; i <= 100; i++ {
			pool.Do(func() { sum.Add(int64(i)) })
		}
		pool.Wait(true)

		if got := sum.Load(); got != 5050 {
			t.Errorf("workers %d: sum = %d, want 5050", workers, got)
		}
	}
}

func TestPoolCancelIdempotent(t *testing.T) {
	pool := Start(2)
	pool.Cancel()
	pool.Cancel()
	pool.Wait(true)
}
