package solver

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Task is one unit of work submitted to a WorkerPool: either an
// island to solve, or (internally) a chunk of the refresh step.
type Task struct {
	Execute func() error
	ID      int
}

type taskExecution struct {
	task   Task
	result chan<- error
}

// WorkerPool is a fixed-size channel-based worker pool, adapted from
// the teacher's WorkerPool: a caller may hand it whole islands to
// Solve concurrently, and Solver uses it internally to parallelise
// the refresh step across chunks of contacts (spec.md §5 permits
// parallelising refresh only, since each joint's refresh touches
// only its own bodies and limiter fields).
type WorkerPool struct {
	workers    int
	taskQueue  chan taskExecution
	wg         sync.WaitGroup
	quit       chan struct{}
	once       sync.Once
	activeJobs int64
	totalJobs  int64
}

// NewWorkerPool starts workers goroutines draining a shared task queue.
func NewWorkerPool(workers int) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	wp := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan taskExecution, workers*8),
		quit:      make(chan struct{}),
	}
	wp.start()
	return wp
}

func (wp *WorkerPool) start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for {
		select {
		case execution := <-wp.taskQueue:
			atomic.AddInt64(&wp.activeJobs, 1)
			err := execution.task.Execute()
			atomic.AddInt64(&wp.activeJobs, -1)
			atomic.AddInt64(&wp.totalJobs, 1)

			select {
			case execution.result <- err:
			case <-wp.quit:
				return
			}
		case <-wp.quit:
			return
		}
	}
}

// Submit enqueues task and reports completion on result.
func (wp *WorkerPool) Submit(task Task, result chan<- error) {
	select {
	case wp.taskQueue <- taskExecution{task: task, result: result}:
	case <-wp.quit:
		result <- fmt.Errorf("worker pool closed")
	}
}

// GetStats reports the number of jobs currently executing and the
// total number completed since the pool was created.
func (wp *WorkerPool) GetStats() (active int64, total int64) {
	return atomic.LoadInt64(&wp.activeJobs), atomic.LoadInt64(&wp.totalJobs)
}

// Close stops all workers and waits for them to drain. Safe to call
// more than once.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		close(wp.quit)
		wp.wg.Wait()
	})
}

// ParallelChunks splits [0, n) into chunks of chunkSize contiguous
// indices (the last chunk holds the remainder and may be shorter) and
// runs fn on each chunk concurrently across the pool, blocking until
// all chunks complete.
func (wp *WorkerPool) ParallelChunks(n, chunkSize int, fn func(begin, end int)) {
	if chunkSize < 1 {
		chunkSize = 1
	}

	chunks := (n + chunkSize - 1) / chunkSize
	results := make(chan error, chunks)
	submitted := 0

	for begin := 0; begin < n; begin += chunkSize {
		end := begin + chunkSize
		if end > n {
			end = n
		}
		b, e := begin, end
		wp.Submit(Task{Execute: func() error {
			fn(b, e)
			return nil
		}}, results)
		submitted++
	}

	for i := 0; i < submitted; i++ {
		<-results
	}
}
