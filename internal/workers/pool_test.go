package workers

import (
	"context"
	"errors"
	"os"
	"testing"
)

func TestWorkerPoolRunsAllJobsAndCollectsResults(t *testing.T) {
	logPath := t.TempDir() + "/errors.json"
	pool, err := New[int](logPath, 4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer pool.CloseLogFile()

	pool.Run(context.Background(), 3)

	const jobCount = 10
	for i := 0; i < jobCount; i++ {
		n := i
		pool.AddJob(Job[int]{
			Description: JobDescriptor{ID: JobID("job")},
			ExecFn: func(_ context.Context, args int) (int, error) {
				return args * 2, nil
			},
			Args: n,
		})
	}
	pool.CloseJobs()

	sum := 0
	count := 0
	for result := range pool.Results {
		if result.Err != nil {
			t.Fatalf("unexpected job error: %v", result.Err)
		}
		sum += result.Value
		count++
	}

	if count != jobCount {
		t.Fatalf("got %d results, want %d", count, jobCount)
	}
	want := 0
	for i := 0; i < jobCount; i++ {
		want += i * 2
	}
	if sum != want {
		t.Fatalf("sum = %d, want %d", sum, want)
	}
	<-pool.Done
}

func TestWorkerPoolLogsFailedJobs(t *testing.T) {
	logPath := t.TempDir() + "/errors.json"
	pool, err := New[int](logPath, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	pool.Run(context.Background(), 1)

	pool.AddJob(Job[int]{
		Description: JobDescriptor{ID: JobID("bad")},
		ExecFn: func(_ context.Context, args int) (int, error) {
			return 0, errors.New("boom")
		},
		Args: 1,
	})
	pool.CloseJobs()

	var failed bool
	for result := range pool.Results {
		if result.Err != nil {
			failed = true
		}
	}
	if !failed {
		t.Fatal("expected the failing job's result to carry an error")
	}

	if err := pool.CloseLogFile(); err != nil {
		t.Fatalf("CloseLogFile: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading error log: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected a non-empty error log after a failed job")
	}
}

func TestWorkerPoolRespectsContextCancellation(t *testing.T) {
	logPath := t.TempDir() + "/errors.json"
	pool, err := New[int](logPath, 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer pool.CloseLogFile()

	ctx, cancel := context.WithCancel(context.Background())
	pool.Run(ctx, 2)
	cancel()

	<-pool.Done
}
