package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func runLoop(t *testing.T) (*Loop, context.CancelFunc, <-chan error) {
	t.Helper()
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	t.Cleanup(cancel)
	return l, cancel, done
}

func TestLoopRunsPostsInOrder(t *testing.T) {
	l, _, _ := runLoop(t)

	var mu sync.Mutex
	var got []int
	var wg sync.WaitGroup
	wg.Add(5)
	for i := 0; i < 5; i++ {
		l.Post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			wg.Done()
		})
	}
	wg.Wait()

	for i, v := range got {
		if v != i {
			t.Fatalf("order = %v", got)
		}
	}
}

func TestLoopPostFromLoop(t *testing.T) {
	l, _, _ := runLoop(t)

	done := make(chan struct{})
	l.Post(func() {
		l.Post(func() { close(done) })
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("nested post never ran")
	}
}

func TestLoopAfterFunc(t *testing.T) {
	l, _, _ := runLoop(t)

	fired := make(chan struct{})
	l.AfterFunc(5*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
}

func TestLoopStoppedTimerNeverRuns(t *testing.T) {
	l, _, _ := runLoop(t)

	ran := make(chan struct{}, 1)
	tm := l.AfterFunc(20*time.Millisecond, func() { ran <- struct{}{} })
	if !tm.Stop() {
		t.Errorf("Stop on pending timer = false")
	}
	if tm.Stop() {
		t.Errorf("second Stop = true")
	}

	select {
	case <-ran:
		t.Fatal("stopped timer ran")
	case <-time.After(60 * time.Millisecond):
	}
}

func TestLoopRunReturnsOnCancel(t *testing.T) {
	_, cancel, done := runLoop(t)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}
