// Package loop provides the single logical thread caretip components run on.
//
// Every callback a component reacts to (socket data, dial results, process
// exits, timers, editor events) is posted to one Loop and executed one at a
// time in FIFO order. Component state is only touched from loop callbacks,
// so components themselves carry no locks.
package loop

import (
	"log/slog"
	"sync"
	"time"

	"github.com/tessro/caretip/internal/logging"
)

// Loop executes posted functions sequentially on a dedicated goroutine.
type Loop struct {
	mu sync.Mutex
	// +checklocks:mu
	queue []func()
	// +checklocks:mu
	timers map[*Timer]struct{}
	// +checklocks:mu
	closed bool

	wake      chan struct{}
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a loop and starts its goroutine.
func New() *Loop {
	l := &Loop{
		timers: make(map[*Timer]struct{}),
		wake:   make(chan struct{}, 1),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go l.run()
	return l
}

// Post queues fn to run on the loop. It never blocks and is safe to call from
// any goroutine, including loop callbacks. Returns false if the loop is closed.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Call runs fn on the loop and waits for it to finish. Returns false without
// running fn if the loop is closed.
//
// Call must not be used from a loop callback; it would wait on itself.
func (l *Loop) Call(fn func()) bool {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return false
	}
	select {
	case <-finished:
		return true
	case <-l.done:
		// Closed before fn was reached; it will never run.
		select {
		case <-finished:
			return true
		default:
			return false
		}
	}
}

// Done is closed once the loop goroutine has exited.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Close stops the loop. Pending timers are stopped and queued work that has
// not started is dropped. Safe to call more than once; must not be called
// from a loop callback.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		l.mu.Lock()
		l.closed = true
		for t := range l.timers {
			t.t.Stop()
		}
		clear(l.timers)
		l.queue = nil
		l.mu.Unlock()

		close(l.quit)
	})
	<-l.done
}

// Pending returns the number of timers scheduled but not yet fired or stopped.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers)
}

func (l *Loop) run() {
	defer close(l.done)

	for {
		select {
		case <-l.quit:
			return
		case <-l.wake:
		}

		for {
			l.mu.Lock()
			if l.closed || len(l.queue) == 0 {
				l.mu.Unlock()
				break
			}
			fn := l.queue[0]
			l.queue[0] = nil
			l.queue = l.queue[1:]
			l.mu.Unlock()

			l.invoke(fn)
		}
	}
}

func (l *Loop) invoke(fn func()) {
	defer logging.LogPanic("loop", func(any) {
		slog.Warn("loop callback panicked, continuing")
	})
	fn()
}

// Timer is a one-shot timer whose callback runs on the loop.
type Timer struct {
	l *Loop
	t *time.Timer
}

// AfterFunc schedules fn to run on the loop after d. The returned timer is
// tracked by the loop and stopped automatically by Close.
// Returns nil if the loop is closed.
func (l *Loop) AfterFunc(d time.Duration, fn func()) *Timer {
	tm := &Timer{l: l}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.timers[tm] = struct{}{}
	tm.t = time.AfterFunc(d, func() {
		l.Post(func() {
			// A Stop that ran before this callback wins.
			if !l.untrack(tm) {
				return
			}
			fn()
		})
	})
	return tm
}

// Stop cancels the timer. Returns true if the callback had not run yet and
// now never will. Safe on a nil timer.
func (t *Timer) Stop() bool {
	if t == nil {
		return false
	}
	t.t.Stop()
	return t.l.untrack(t)
}

func (l *Loop) untrack(t *Timer) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.timers[t]; !ok {
		return false
	}
	delete(l.timers, t)
	return true
}
