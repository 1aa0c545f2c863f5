package executor

import (
	"context"
	"sync"

	"github.com/zeromicro/go-zero/core/threading"
)

type Executor[P interface{}] struct {
	ctx     context.Context
	tasks   chan P
	handler func(task P)
	workers int
	cancel  context.CancelFunc
	pending sync.WaitGroup
}

func NewExecutor[P interface{}](ctx context.Context, workers int, queueSize int, handler func(task P)) *Executor[P] {
	if workers < 1 {
		workers = 1
	}
	ret := &Executor[P]{
		tasks:   make(chan P, queueSize),
		handler: handler,
		workers: workers,
	}
	ret.ctx, ret.cancel = context.WithCancel(ctx)
	return ret
}

func (e *Executor[P]) Start() {
	for i := 0; i < e.workers; i++ {
		go func() {
			for {
				select {
				case <-e.ctx.Done():
					return
				case task := <-e.tasks:
					threading.RunSafe(func() {
						defer e.pending.Done()
						e.handler(task)
					})
				}
			}
		}()
	}
}

func (e *Executor[P]) Stop() {
	e.cancel()
}

func (e *Executor[P]) QueueSize() int {
	return len(e.tasks)
}

// Commit queues a task, blocking while the queue is full. It returns false
// if the executor stopped before the task was queued.
func (e *Executor[P]) Commit(task P) bool {
	e.pending.Add(1)
	if e.ctx.Err() != nil {
		e.pending.Done()
		return false
	}
	select {
	case e.tasks <- task:
		return true
	case <-e.ctx.Done():
		e.pending.Done()
		return false
	}
}

// Wait blocks until every committed task has run, or until the executor is
// stopped, in which case queued tasks are discarded and the context error is returned.
func (e *Executor[P]) Wait() error {
	done := make(chan struct{})
	go func() {
		e.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-e.ctx.Done():
		e.drain()
		return e.ctx.Err()
	}
}

func (e *Executor[P]) drain() {
	for {
		select {
		case <-e.tasks:
			e.pending.Done()
		default:
			return
		}
	}
}
