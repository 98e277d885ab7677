package frequency

import (
	"bytes"
	"log/slog"
	"testing"
	"time"
)

func TestCheckLogsOnlyAfterIntervalElapses(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	f := &Frequency{Interval: time.Hour, LastTime: time.Now()}
	f.Add(5)
	f.Check(log)

	if buf.Len() != 0 {
		t.Fatalf("expected no log before interval elapses, got %q", buf.String())
	}

	f.LastTime = time.Now().Add(-2 * time.Hour)
	f.Check(log)

	if buf.Len() == 0 {
		t.Fatal("expected a log line once the interval has elapsed")
	}
}

func TestAddAccumulatesCount(t *testing.T) {
	f := &Frequency{Interval: time.Hour, LastTime: time.Now()}
	f.Add(3)
	f.Add(4)
	if f.total != 7 {
		t.Fatalf("total = %d, want 7", f.total)
	}
}
