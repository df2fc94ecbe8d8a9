package session

import (
	"context"
	"time"
)

// Scheduler runs fn after d on the session goroutine. The returned func
// cancels it; fn may still run if it was already queued, so callers guard
// against stale callbacks.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) (stop func())
}

// Loop is a session's single goroutine. Handlers, timer callbacks and
// collaborator callbacks all run through it, one at a time.
type Loop struct {
	work chan func()
	done chan struct{}
}

// NewLoop creates a loop. Call Run to start processing.
func NewLoop() *Loop {
	return &Loop{
		work: make(chan func(), 64),
		done: make(chan struct{}),
	}
}

// Post queues fn. It returns false once the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.work <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Run processes posted work until ctx is done.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.work:
			fn()
		}
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Scheduler returns a real-time scheduler that re-enters this loop.
func (l *Loop) Scheduler() Scheduler {
	return loopScheduler{loop: l}
}

type loopScheduler struct {
	loop *Loop
}

func (s loopScheduler) AfterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, func() { s.loop.Post(fn) })
	return func() { t.Stop() }
}

// gestureTimer adapts a Scheduler to gesture.Timer.
type gestureTimer struct {
	sched Scheduler
}

func (g gestureTimer) Start(d time.Duration, fire func()) func() {
	return g.sched.AfterFunc(d, fire)
}
