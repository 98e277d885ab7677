package metrics

import (
	"bytes"
	"log/slog"
	"testing"
	"time"
)

func TestRecordSuccessAndFailureAccumulate(t *testing.T) {
	m := &Metrics{}
	m.RecordSuccess(10 * time.Millisecond)
	m.RecordSuccess(20 * time.Millisecond)
	m.RecordFailure(5 * time.Millisecond)

	if m.totalJobs != 3 {
		t.Fatalf("totalJobs = %d, want 3", m.totalJobs)
	}
	if m.successfulJobs != 2 {
		t.Fatalf("successfulJobs = %d, want 2", m.successfulJobs)
	}
	if m.failedJobs != 1 {
		t.Fatalf("failedJobs = %d, want 1", m.failedJobs)
	}
}

func TestPrintMetricsLogsSummary(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	m := &Metrics{}
	m.RecordSuccess(10 * time.Millisecond)
	m.PrintMetrics(log)

	if buf.Len() == 0 {
		t.Fatal("expected PrintMetrics to emit a log line")
	}
}

func TestPrintMetricsOnEmptyMetricsDoesNotPanic(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	(&Metrics{}).PrintMetrics(log)

	if buf.Len() == 0 {
		t.Fatal("expected PrintMetrics to emit a log line even with zero jobs")
	}
}
