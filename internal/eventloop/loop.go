// Package eventloop runs page state changes on a single goroutine.
//
// Tasks posted to a Loop run one at a time in FIFO order. Blocking work is
// started with Go, which runs the work on its own goroutine and posts the
// continuation it returns back onto the loop. State that is only touched from
// tasks therefore needs no locking.
package eventloop

import (
	"context"
	"sync"
)

// Poster is the part of the loop that asynchronous sources need.
type Poster interface {
	Post(task func())
	Go(work func() func())
}

// Loop is a cooperative single-threaded task queue.
type Loop struct {
	mu       sync.Mutex
	queue    []func()
	inflight int
	wake     chan struct{}
}

// New creates an empty loop.
func New() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post queues a task.
func (l *Loop) Post(task func()) {
	if task == nil {
		return
	}
	l.mu.Lock()
	l.queue = append(l.queue, task)
	l.mu.Unlock()
	l.signal()
}

// Go runs work on a new goroutine and posts the continuation it returns.
// A nil continuation is allowed.
func (l *Loop) Go(work func() func()) {
	l.mu.Lock()
	l.inflight++
	l.mu.Unlock()

	go func() {
		next := work()

		l.mu.Lock()
		l.inflight--
		if next != nil {
			l.queue = append(l.queue, next)
		}
		l.mu.Unlock()
		l.signal()
	}()
}

// Run executes tasks until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	return l.run(ctx, false)
}

// RunUntilIdle executes tasks until the queue is empty and no work started
// with Go is outstanding, or until ctx is done.
func (l *Loop) RunUntilIdle(ctx context.Context) error {
	return l.run(ctx, true)
}

func (l *Loop) run(ctx context.Context, stopWhenIdle bool) error {
	for {
		task, idle := l.next()
		if task != nil {
			task()
			continue
		}
		if idle && stopWhenIdle {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.queue) == 0 {
		return nil, l.inflight == 0
	}
	task := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return task, false
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}
