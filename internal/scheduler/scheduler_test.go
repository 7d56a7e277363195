package scheduler_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ndewijer/Investment-Research-Backend/internal/logging"
	"github.com/ndewijer/Investment-Research-Backend/internal/model"
	"github.com/ndewijer/Investment-Research-Backend/internal/scheduler"
)

type fakeRefresher struct {
	calls atomic.Int32
	err   error
}

func (f *fakeRefresher) RefreshActive(ctx context.Context) (model.PriceRefreshResponse, error) {
	f.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return model.PriceRefreshResponse{}, errors.New("expected a deadline")
	}
	return model.PriceRefreshResponse{Success: f.err == nil, UpdatedCount: 1}, f.err
}

func TestScheduler_AddPriceRefresh(t *testing.T) {
	t.Run("empty schedule registers nothing", func(t *testing.T) {
		s := scheduler.New(logging.NewSilent(), time.Second)

		if err := s.AddPriceRefresh("", &fakeRefresher{}); err != nil {
			t.Fatalf("AddPriceRefresh() returned unexpected error: %v", err)
		}
		if s.Entries() != 0 {
			t.Errorf("Expected 0 entries, got %d", s.Entries())
		}
	})

	t.Run("valid schedule registers one job", func(t *testing.T) {
		s := scheduler.New(logging.NewSilent(), time.Second)

		if err := s.AddPriceRefresh("*/15 9-17 * * 1-5", &fakeRefresher{}); err != nil {
			t.Fatalf("AddPriceRefresh() returned unexpected error: %v", err)
		}
		if s.Entries() != 1 {
			t.Errorf("Expected 1 entry, got %d", s.Entries())
		}
	})

	t.Run("invalid schedule returns error", func(t *testing.T) {
		s := scheduler.New(logging.NewSilent(), time.Second)

		if err := s.AddPriceRefresh("every tuesday", &fakeRefresher{}); err == nil {
			t.Error("Expected error for invalid schedule, got nil")
		}
	})
}

func TestScheduler_RunPriceRefresh(t *testing.T) {
	t.Run("runs the refresher with a deadline", func(t *testing.T) {
		s := scheduler.New(logging.NewSilent(), time.Second)
		r := &fakeRefresher{}

		s.RunPriceRefresh(r)

		if r.calls.Load() != 1 {
			t.Errorf("Expected 1 call, got %d", r.calls.Load())
		}
	})

	t.Run("refresher error does not panic", func(t *testing.T) {
		s := scheduler.New(logging.NewSilent(), time.Second)
		r := &fakeRefresher{err: errors.New("yahoo down")}

		s.RunPriceRefresh(r)

		if r.calls.Load() != 1 {
			t.Errorf("Expected 1 call, got %d", r.calls.Load())
		}
	})
}

func TestScheduler_StartStop(t *testing.T) {
	s := scheduler.New(logging.NewSilent(), time.Second)
	r := &fakeRefresher{}

	if err := s.AddPriceRefresh("@every 1s", r); err != nil {
		t.Fatalf("AddPriceRefresh() returned unexpected error: %v", err)
	}

	s.Start()
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Errorf("Stop() returned unexpected error: %v", err)
	}
	if err := s.Stop(ctx); err != nil {
		t.Errorf("second Stop() returned unexpected error: %v", err)
	}
}

// syncBuffer is a bytes.Buffer safe for the cron goroutine and the test to share.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type panickingRefresher struct{}

func (panickingRefresher) RefreshActive(context.Context) (model.PriceRefreshResponse, error) {
	panic("refresh exploded")
}

func TestCronLogger(t *testing.T) {
	t.Run("errors are written with their key values", func(t *testing.T) {
		var buf syncBuffer
		l := scheduler.NewCronLogger(logging.NewWithOutput("info", &buf))

		l.Error(errors.New("boom"), "panic", "stack", "frame")

		out := buf.String()
		for _, want := range []string{`"level":"error"`, "boom", `"message":"panic"`, `"stack":"frame"`} {
			if !strings.Contains(out, want) {
				t.Errorf("Expected log output to contain %s, got %s", want, out)
			}
		}
	})

	t.Run("info goes to debug", func(t *testing.T) {
		var buf syncBuffer
		l := scheduler.NewCronLogger(logging.NewWithOutput("info", &buf))

		l.Info("wake", "now", "later")

		if buf.String() != "" {
			t.Errorf("Expected no output at info level, got %s", buf.String())
		}
	})
}

func TestScheduler_RecoveredPanicIsLogged(t *testing.T) {
	var buf syncBuffer
	s := scheduler.New(logging.NewWithOutput("info", &buf), time.Second)

	if err := s.AddPriceRefresh("@every 1s", panickingRefresher{}); err != nil {
		t.Fatalf("AddPriceRefresh() returned unexpected error: %v", err)
	}
	s.Start()

	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(buf.String(), "refresh exploded") && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Errorf("Stop() returned unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "refresh exploded") {
		t.Fatalf("Expected the recovered panic in the scheduler log, got %s", out)
	}
	if !strings.Contains(out, `"level":"error"`) {
		t.Errorf("Expected the panic logged at error level, got %s", out)
	}
}
