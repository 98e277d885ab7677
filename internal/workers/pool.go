package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"autocomplete-hw/internal/utils/metrics"
)

// WorkerPool runs a fixed number of goroutines draining a shared job
// queue. Each job's result is published on Results; failed jobs are also
// appended, one JSON object per line, to an error log file. Metrics
// accumulates per-job success/failure counts and timing.
type WorkerPool[T any] struct {
	jobs          chan Job[T]
	Results       chan Result[T]
	Done          chan struct{}
	Metrics       *metrics.Metrics
	activeWorkers int32
	logFile       *os.File
	logMutex      sync.Mutex
}

type JobError struct {
	JobDescription JobDescriptor `json:"job_description"`
	Error          string        `json:"error"`
}

// New creates a pool with room for queueSize pending jobs and creates
// errorLogPath (truncating any existing file) for failure logging.
func New[T any](errorLogPath string, queueSize int) (*WorkerPool[T], error) {
	const op = "workers.New"

	f, err := os.Create(errorLogPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &WorkerPool[T]{
		jobs:    make(chan Job[T], queueSize),
		Results: make(chan Result[T], queueSize),
		Done:    make(chan struct{}),
		Metrics: &metrics.Metrics{},
		logFile: f,
	}, nil
}

// AddJob enqueues job, blocking if the queue is full.
func (wp *WorkerPool[T]) AddJob(job Job[T]) {
	wp.jobs <- job
}

// CloseJobs signals that no further jobs will be added. Workers drain
// whatever remains in the queue, then exit.
func (wp *WorkerPool[T]) CloseJobs() {
	close(wp.jobs)
}

func (wp *WorkerPool[T]) ActiveWorkersCount() int32 {
	return atomic.LoadInt32(&wp.activeWorkers)
}

func (wp *WorkerPool[T]) JobChannelCount() int {
	return len(wp.jobs)
}

func (wp *WorkerPool[T]) MemoryUsage() uint64 {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	return memStats.Alloc
}

// Run starts workerCount goroutines and returns immediately. Results and
// Done are both closed once every worker has exited, which happens when
// ctx is cancelled or the job queue is closed and drained.
func (wp *WorkerPool[T]) Run(ctx context.Context, workerCount int) {
	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go wp.worker(ctx, &wg)
	}

	go func() {
		wg.Wait()
		close(wp.Results)
		close(wp.Done)
	}()
}

func (wp *WorkerPool[T]) worker(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	atomic.AddInt32(&wp.activeWorkers, 1)
	defer atomic.AddInt32(&wp.activeWorkers, -1)

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			jobStart := time.Now()
			result := job.execute(ctx)
			if result.Err != nil {
				wp.Metrics.RecordFailure(time.Since(jobStart))
				wp.logError(result)
			} else {
				wp.Metrics.RecordSuccess(time.Since(jobStart))
			}
			wp.Results <- result
		}
	}
}

func (wp *WorkerPool[T]) logError(result Result[T]) {
	jobErr := JobError{
		JobDescription: result.Description,
		Error:          result.Err.Error(),
	}

	wp.logMutex.Lock()
	defer wp.logMutex.Unlock()

	encoder := json.NewEncoder(wp.logFile)
	if err := encoder.Encode(jobErr); err != nil {
		slog.Error("failed to write job error log", "error", err)
	}
}

func (wp *WorkerPool[T]) CloseLogFile() error {
	if err := wp.logFile.Close(); err != nil {
		return fmt.Errorf("workers.CloseLogFile: %w", err)
	}
	return nil
}
