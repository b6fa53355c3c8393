package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Loop is a single-goroutine event loop implementing Scheduler. Post may be
// called from any goroutine, including the loop itself.
type Loop struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
}

func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

func (l *Loop) Now() time.Time { return time.Now() }

func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// AfterFunc posts fn onto the loop after d. Stopping the timer also drops a
// callback that already fired but has not run yet.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	lt := &loopTimer{}
	lt.t = time.AfterFunc(d, func() {
		l.Post(func() {
			if lt.stopped.Load() {
				return
			}
			fn()
		})
	})
	return lt
}

// Run executes posted callbacks until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}

		for {
			l.mu.Lock()
			batch := l.queue
			l.queue = nil
			l.mu.Unlock()
			if len(batch) == 0 {
				break
			}
			for _, fn := range batch {
				fn()
			}
		}
	}
}

type loopTimer struct {
	t       *time.Timer
	stopped atomic.Bool
}

func (lt *loopTimer) Stop() bool {
	wasPending := !lt.stopped.Swap(true)
	return lt.t.Stop() && wasPending
}
