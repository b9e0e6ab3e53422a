package scheduler

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kubev2v/index-orchestrator/pkg/future"
)

type queue[T any] []T

func (wq *queue[T]) Len() int { return len(*wq) }

func (wq *queue[T]) Pop() T {
	old := *wq
	x := old[0]
	var zero T
	old[0] = zero
	*wq = old[1:]
	return x
}

func (wq *queue[T]) Push(t T) {
	*wq = append(*wq, t)
}

type workRequest struct {
	fn  Work[any]
	f   *future.Future[any]
	ctx context.Context
}

type worker struct {
	done chan any
	wg   *sync.WaitGroup
}

func (w worker) Work(r workRequest) {
	defer func() {
		if rec := recover(); rec != nil {
			r.f.Fail(fmt.Errorf("worker panicked: %v", rec))
		}
		w.done <- struct{}{}
		w.wg.Done()
	}()

	// stopped before it got a worker
	if r.ctx.Err() != nil {
		r.f.Cancel()
		return
	}

	v, err := r.fn(r.ctx)
	if err != nil {
		r.f.Fail(err)
		return
	}
	r.f.Complete(v)
}

func newWorker(done chan any, wg *sync.WaitGroup) worker {
	return worker{done: done, wg: wg}
}

type Scheduler struct {
	name       string
	workers    *queue[worker]
	workQueue  *queue[workRequest]
	close      chan any
	stopped    chan any
	done       chan any
	work       chan workRequest
	mainCtx    context.Context
	mainCancel context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

func NewScheduler(nbWorkers int) *Scheduler {
	return NewNamedScheduler("scheduler", nbWorkers)
}

func NewNamedScheduler(name string, nbWorkers int) *Scheduler {
	if nbWorkers <= 0 {
		nbWorkers = 1
	}
	done := make(chan any, nbWorkers)
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		name:       name,
		workers:    &queue[worker]{},
		workQueue:  &queue[workRequest]{},
		close:      make(chan any),
		stopped:    make(chan any),
		done:       done,
		work:       make(chan workRequest),
		mainCtx:    ctx,
		mainCancel: cancel,
	}
	for range nbWorkers {
		s.workers.Push(newWorker(done, &s.wg))
	}
	go s.run()
	return s
}

func (s *Scheduler) Name() string {
	return s.name
}

// Submit hands w to the scheduler. It fails with ErrSchedulerClosed when the
// scheduler no longer accepts work; the returned future is then nil.
func (s *Scheduler) Submit(w Work[any]) (*future.Future[any], error) {
	if s.mainCtx.Err() != nil {
		return nil, ErrSchedulerClosed
	}

	ctx, cancel := context.WithCancel(s.mainCtx)
	f := future.New[any](cancel)

	select {
	case <-s.mainCtx.Done():
		cancel()
		return nil, ErrSchedulerClosed
	case s.work <- workRequest{fn: w, f: f, ctx: ctx}:
	}

	return f, nil
}

// AddWork is Submit for callers that only care about the future: a rejected
// submission yields a future cancelled with context.Canceled.
func (s *Scheduler) AddWork(w Work[any]) *future.Future[any] {
	f, err := s.Submit(w)
	if err != nil {
		f = future.New[any](nil)
		f.Cancel()
	}
	return f
}

func (s *Scheduler) Close() {
	s.once.Do(func() {
		s.mainCancel()
		s.close <- struct{}{}
		<-s.stopped
	})
}

func (s *Scheduler) run() {
	defer close(s.stopped)
	for {
		select {
		case w := <-s.work:
			s.workQueue.Push(w)
			s.dispatch()
		case <-s.done:
			s.workers.Push(newWorker(s.done, &s.wg))
			s.dispatch()
		case <-s.close:
			for s.workQueue.Len() > 0 {
				s.workQueue.Pop().f.Cancel()
			}
			s.wg.Wait()
			zap.S().Named("scheduler").Debugw("scheduler closed", "name", s.name)
			return
		}
	}
}

// dispatch drains the workQueue as much as possible
// based on available workers
func (s *Scheduler) dispatch() {
	for s.workers.Len() > 0 && s.workQueue.Len() > 0 {
		r := s.workQueue.Pop()
		worker := s.workers.Pop()
		s.wg.Add(1)
		go worker.Work(r)
	}
}
