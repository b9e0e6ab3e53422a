package singleton_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/index-orchestrator/pkg/failure"
	"github.com/kubev2v/index-orchestrator/pkg/future"
	"github.com/kubev2v/index-orchestrator/pkg/scheduler"
	"github.com/kubev2v/index-orchestrator/pkg/singleton"
)

type testWorker struct {
	runs      atomic.Int32
	completes atomic.Int32
	inside    atomic.Int32
	maxInside atomic.Int32

	work     func(ctx context.Context, run int32) *future.Future[struct{}]
	complete func(n int32)
}

func (w *testWorker) Work(ctx context.Context) *future.Future[struct{}] {
	n := w.runs.Add(1)
	in := w.inside.Add(1)
	defer w.inside.Add(-1)
	for {
		m := w.maxInside.Load()
		if in <= m || w.maxInside.CompareAndSwap(m, in) {
			break
		}
	}

	if w.work != nil {
		return w.work(ctx, n)
	}
	return future.Completed(struct{}{})
}

func (w *testWorker) Complete() {
	n := w.completes.Add(1)
	if w.complete != nil {
		w.complete(n)
	}
}

type recordingHandler struct {
	mu       sync.Mutex
	failures []failure.Context
}

func (h *recordingHandler) Handle(c failure.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.failures = append(h.failures, c)
}

func (h *recordingHandler) Failures() []failure.Context {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]failure.Context(nil), h.failures...)
}

var _ = Describe("Task", func() {
	var (
		sched   *scheduler.Scheduler
		worker  *testWorker
		handler *recordingHandler
		task    *singleton.Task
	)

	BeforeEach(func() {
		sched = scheduler.NewNamedScheduler("singleton-test", 4)
		worker = &testWorker{}
		handler = &recordingHandler{}
		task = singleton.NewTask("test", worker, sched, handler)
	})

	AfterEach(func() {
		task.Stop()
		sched.Close()
	})

	It("should return a completed future when idle", func() {
		Expect(task.Status()).To(Equal(singleton.StatusIdle))
		Expect(task.Completion().IsDone()).To(BeTrue())
	})

	It("should run the worker once and call Complete", func() {
		// Act
		task.EnsureScheduled()
		done := task.Completion()

		// Assert
		Eventually(done.Done()).Should(BeClosed())
		Expect(done.Err()).NotTo(HaveOccurred())
		Expect(worker.runs.Load()).To(Equal(int32(1)))
		Expect(worker.completes.Load()).To(Equal(int32(1)))
		Eventually(task.Status).Should(Equal(singleton.StatusIdle))
	})

	It("should collapse requests made during a run into one extra run", func() {
		// Given a run blocked inside the worker
		started := make(chan struct{}, 1)
		release := make(chan struct{})
		worker.work = func(ctx context.Context, run int32) *future.Future[struct{}] {
			if run == 1 {
				started <- struct{}{}
				<-release
			}
			return future.Completed(struct{}{})
		}
		task.EnsureScheduled()
		done := task.Completion()
		Eventually(started).Should(Receive())

		// When many callers ask for a run at once
		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				task.EnsureScheduled()
			}()
		}
		wg.Wait()
		close(release)

		// Then exactly one extra run happens and Complete is called once
		Eventually(done.Done()).Should(BeClosed())
		Expect(worker.runs.Load()).To(Equal(int32(2)))
		Expect(worker.completes.Load()).To(Equal(int32(1)))
		Consistently(worker.runs.Load, 100*time.Millisecond).Should(Equal(int32(2)))
	})

	Context("Schedule", func() {
		It("should resolve after a run started after the call", func() {
			// Act
			done := task.Schedule()

			// Assert
			Eventually(done.Done()).Should(BeClosed())
			Expect(done.Err()).NotTo(HaveOccurred())
			Expect(worker.runs.Load()).To(Equal(int32(1)))
			Expect(worker.completes.Load()).To(Equal(int32(1)))
		})

		// Given a run that is completing
		// When a caller asks for a run from inside Complete
		// Then its future waits for the extra run instead of the ending one
		It("should not resolve with the run that is completing", func() {
			// Arrange
			requested := make(chan *future.Future[struct{}], 1)
			worker.complete = func(n int32) {
				if n == 1 {
					requested <- task.Schedule()
				}
			}

			// Act
			first := task.Schedule()
			Eventually(first.Done()).Should(BeClosed())
			var second *future.Future[struct{}]
			Eventually(requested).Should(Receive(&second))

			// Assert
			Eventually(second.Done()).Should(BeClosed())
			Expect(second.Err()).NotTo(HaveOccurred())
			Expect(worker.runs.Load()).To(Equal(int32(2)))
			Expect(worker.completes.Load()).To(Equal(int32(2)))
		})

		It("should share the extra run between callers during a run", func() {
			// Given a run blocked inside the worker
			started := make(chan struct{}, 1)
			release := make(chan struct{})
			worker.work = func(ctx context.Context, run int32) *future.Future[struct{}] {
				if run == 1 {
					started <- struct{}{}
					<-release
				}
				return future.Completed(struct{}{})
			}
			first := task.Schedule()
			Eventually(started).Should(Receive())

			// When two callers ask for a run
			a, b := task.Schedule(), task.Schedule()
			Expect(a).To(BeIdenticalTo(b))
			close(release)

			// Then both resolve after the single extra run
			Eventually(a.Done()).Should(BeClosed())
			Expect(first.IsDone()).To(BeTrue())
			Expect(worker.runs.Load()).To(Equal(int32(2)))
		})

		It("should fail when the run is rejected", func() {
			sched.Close()

			done := task.Schedule()

			Expect(done.Err()).To(MatchError(scheduler.ErrSchedulerClosed))
			Expect(task.Status()).To(Equal(singleton.StatusIdle))
		})

		It("should cancel pending futures on Stop", func() {
			busy := scheduler.NewNamedScheduler("busy", 1)
			defer busy.Close()
			release := make(chan struct{})
			_, err := busy.Submit(func(ctx context.Context) (any, error) {
				<-release
				return nil, nil
			})
			Expect(err).NotTo(HaveOccurred())

			t := singleton.NewTask("pending", worker, busy, handler)
			done := t.Schedule()

			t.Stop()
			close(release)

			Expect(done.IsCancelled()).To(BeTrue())
			Expect(t.Schedule().IsCancelled()).To(BeTrue())
		})
	})

	It("should never run the worker concurrently", func() {
		worker.work = func(ctx context.Context, run int32) *future.Future[struct{}] {
			time.Sleep(time.Millisecond)
			return future.Completed(struct{}{})
		}

		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 20 {
					task.EnsureScheduled()
					time.Sleep(100 * time.Microsecond)
				}
			}()
		}
		wg.Wait()

		Eventually(func() bool { return task.Completion().IsDone() }).Should(BeTrue())
		Expect(worker.maxInside.Load()).To(Equal(int32(1)))
		Expect(worker.runs.Load()).To(BeNumerically(">=", 1))
	})

	It("should run again when the worker asks for it", func() {
		worker.work = func(ctx context.Context, run int32) *future.Future[struct{}] {
			if run < 3 {
				task.EnsureScheduled()
			}
			return future.Completed(struct{}{})
		}

		task.EnsureScheduled()
		done := task.Completion()

		Eventually(done.Done()).Should(BeClosed())
		Expect(worker.runs.Load()).To(Equal(int32(3)))
		Expect(worker.completes.Load()).To(Equal(int32(1)))
	})

	It("should wait for the future returned by the worker", func() {
		// Given a worker whose run finishes asynchronously
		pending := future.New[struct{}](nil)
		worker.work = func(ctx context.Context, run int32) *future.Future[struct{}] {
			return pending
		}

		// When
		task.EnsureScheduled()
		done := task.Completion()

		// Then
		Consistently(done.Done(), 100*time.Millisecond).ShouldNot(BeClosed())
		Expect(task.Status()).To(Equal(singleton.StatusScheduled))

		pending.Complete(struct{}{})
		Eventually(done.Done()).Should(BeClosed())
		Expect(worker.completes.Load()).To(Equal(int32(1)))
	})

	It("should report a failed run and still complete", func() {
		worker.work = func(ctx context.Context, run int32) *future.Future[struct{}] {
			return future.Failed[struct{}](errors.New("boom"))
		}

		task.EnsureScheduled()
		done := task.Completion()

		Eventually(done.Done()).Should(BeClosed())
		Expect(done.Err()).NotTo(HaveOccurred())
		Expect(worker.completes.Load()).To(Equal(int32(1)))

		failures := handler.Failures()
		Expect(failures).To(HaveLen(1))
		Expect(failures[0].FailingOperation).To(ContainSubstring("Running task"))
		Expect(failures[0].Err).To(MatchError("boom"))
	})

	It("should report a panicking worker", func() {
		worker.work = func(ctx context.Context, run int32) *future.Future[struct{}] {
			panic("kaboom")
		}

		task.EnsureScheduled()

		Eventually(handler.Failures).Should(HaveLen(1))
		Expect(handler.Failures()[0].Err.Error()).To(ContainSubstring("kaboom"))
		Eventually(task.Status).Should(Equal(singleton.StatusIdle))
	})

	It("should report a rejected run and go back to idle", func() {
		// Given
		sched.Close()

		// When
		task.EnsureScheduled()

		// Then
		Expect(task.Status()).To(Equal(singleton.StatusIdle))
		Expect(worker.runs.Load()).To(BeZero())
		failures := handler.Failures()
		Expect(failures).To(HaveLen(1))
		Expect(failures[0].Err).To(MatchError(scheduler.ErrSchedulerClosed))
		Expect(task.Completion().IsDone()).To(BeTrue())
	})

	Context("Stop", func() {
		It("should cancel a pending run and the completion future", func() {
			// Given a scheduler whose only worker is busy
			busy := scheduler.NewNamedScheduler("busy", 1)
			defer busy.Close()
			release := make(chan struct{})
			_, err := busy.Submit(func(ctx context.Context) (any, error) {
				<-release
				return nil, nil
			})
			Expect(err).NotTo(HaveOccurred())

			t := singleton.NewTask("pending", worker, busy, handler)
			t.EnsureScheduled()
			done := t.Completion()

			// When
			t.Stop()
			close(release)

			// Then
			Expect(done.IsCancelled()).To(BeTrue())
			Consistently(worker.runs.Load, 100*time.Millisecond).Should(BeZero())
			Expect(handler.Failures()).To(BeEmpty())
		})

		It("should cancel the context of a running worker", func() {
			// Given a worker waiting on its context
			started := make(chan struct{}, 1)
			worker.work = func(ctx context.Context, run int32) *future.Future[struct{}] {
				started <- struct{}{}
				<-ctx.Done()
				return future.Failed[struct{}](ctx.Err())
			}
			task.EnsureScheduled()
			done := task.Completion()
			Eventually(started).Should(Receive())

			// When
			task.Stop()

			// Then
			Expect(done.IsCancelled()).To(BeTrue())
			Eventually(task.Status).Should(Equal(singleton.StatusIdle))
			Expect(worker.completes.Load()).To(BeZero())
			Expect(handler.Failures()).To(BeEmpty())
		})

		It("should ignore EnsureScheduled after Stop", func() {
			task.Stop()

			task.EnsureScheduled()

			Consistently(worker.runs.Load, 100*time.Millisecond).Should(BeZero())
			Expect(task.Status()).To(Equal(singleton.StatusIdle))
		})
	})
})
