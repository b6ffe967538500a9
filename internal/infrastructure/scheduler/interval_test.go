package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestIntervalSchedulerRunsImmediatelyThenOnTick(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	s := NewIntervalScheduler(10 * time.Millisecond)

	if err := s.Start(context.Background(), func() { runs.Add(1) }); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	defer s.Stop(context.Background())

	deadline := time.After(2 * time.Second)
	for runs.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 3 runs, got %d", runs.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestIntervalSchedulerStopHaltsTicking(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	s := NewIntervalScheduler(5 * time.Millisecond)

	if err := s.Start(context.Background(), func() { runs.Add(1) }); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop error: %v", err)
	}

	stopped := runs.Load()
	time.Sleep(30 * time.Millisecond)
	if runs.Load() != stopped {
		t.Fatalf("job still running after Stop: %d -> %d", stopped, runs.Load())
	}
}

func TestIntervalSchedulerSecondStartIsNoOp(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler(time.Hour)
	defer s.Stop(context.Background())

	if err := s.Start(context.Background(), func() {}); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if err := s.Start(context.Background(), func() {}); err != nil {
		t.Fatalf("second Start error: %v", err)
	}
}

func TestIntervalSchedulerConcurrentStartStop(t *testing.T) {
	t.Parallel()

	s := NewIntervalScheduler(time.Millisecond)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Start(context.Background(), func() {})
		}()
		go func() {
			defer wg.Done()
			_ = s.Stop(context.Background())
		}()
	}
	wg.Wait()
	_ = s.Stop(context.Background())
}

func TestIntervalSchedulerRestartsAfterStop(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	s := NewIntervalScheduler(time.Hour)

	if err := s.Start(context.Background(), func() { runs.Add(1) }); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
	if err := s.Start(context.Background(), func() { runs.Add(1) }); err != nil {
		t.Fatalf("restart error: %v", err)
	}
	defer s.Stop(context.Background())

	deadline := time.After(2 * time.Second)
	for runs.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("expected both immediate runs, got %d", runs.Load())
		case <-time.After(time.Millisecond):
		}
	}
}

func TestIntervalSchedulerContextCancelStops(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	s := NewIntervalScheduler(5 * time.Millisecond)

	if err := s.Start(ctx, func() { runs.Add(1) }); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	time.Sleep(15 * time.Millisecond)
	cancel()

	time.Sleep(10 * time.Millisecond)
	stopped := runs.Load()
	time.Sleep(30 * time.Millisecond)
	if runs.Load() != stopped {
		t.Fatalf("job still running after cancel: %d -> %d", stopped, runs.Load())
	}
}
