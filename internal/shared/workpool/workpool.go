// Package workpool provides a fixed-size worker pool for offloading blocking
// calls (PDF parsing, LLM requests) without unbounded goroutine growth.
package workpool

import (
	"fmt"
	"sync"

	"claim-backend/internal/shared/telemetry"
)

// Pool runs submitted tasks on a fixed number of worker goroutines.
// Tasks submitted after Shutdown run inline on the caller's goroutine so
// callers never lose work during drain.
type Pool struct {
	tasks  chan func()
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// New starts a pool with the given number of workers. A size below one is
// treated as one.
func New(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{tasks: make(chan func())}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer p.wg.Done()
			for task := range p.tasks {
				runTask(task)
			}
		}()
	}
	return p
}

// runTask contains a task panic to the task itself so one bad task cannot
// take down a worker or the process. Deferred cleanup inside the task, such
// as a WaitGroup barrier, still runs during unwinding.
func runTask(task func()) {
	defer func() {
		if rec := recover(); rec != nil {
			telemetry.Error("workpool.task_panic", map[string]any{"error": fmt.Sprint(rec)})
		}
	}()
	task()
}

// Submit schedules task on a worker, blocking until a worker can accept it.
func (p *Pool) Submit(task func()) {
	if task == nil {
		return
	}
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		runTask(task)
		return
	}
	// The read lock is held across the send so Shutdown cannot close the
	// channel while a submission is in flight.
	p.tasks <- task
	p.mu.RUnlock()
}

// Shutdown stops accepting new tasks and waits for in-flight tasks to drain.
// It is safe to call more than once.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()
	p.wg.Wait()
}
