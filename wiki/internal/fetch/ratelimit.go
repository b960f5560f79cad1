package fetch

import (
	"sync"
	"time"
)

// Limiter spaces outbound requests so no two permitted calls start less than
// 1/rps seconds apart, measured from the start of the previous permitted
// call. A single timestamp under a mutex is enough because the client issues
// requests serially per operation; concurrent callers serialize on the lock.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

// NewLimiter creates a limiter permitting rps requests per second.
func NewLimiter(rps float64) *Limiter {
	if rps <= 0 {
		rps = 1
	}
	return &Limiter{interval: time.Duration(float64(time.Second) / rps)}
}

// Wait blocks until the next request is permitted. The first call never
// waits. It has no error conditions; it only delays.
func (l *Limiter) Wait() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.last.IsZero() {
		if d := l.interval - time.Since(l.last); d > 0 {
			time.Sleep(d)
		}
	}
	l.last = time.Now()
}
