package poller

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestTaskRunsImmediatelyAndStops(t *testing.T) {
	var runs int32
	task := New("status", time.Hour, func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		task.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for atomic.LoadInt32(&runs) == 0 {
		select {
		case <-deadline:
			t.Fatal("Expected an immediate run")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected Run to return after cancel")
	}
}

func TestTaskSkipsWhileRunning(t *testing.T) {
	release := make(chan struct{})
	var runs int32
	task := New("slow", 5*time.Millisecond, func(ctx context.Context) error {
		atomic.AddInt32(&runs, 1)
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		task.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for task.Skipped() < 3 {
		select {
		case <-deadline:
			t.Fatalf("Expected skipped ticks, got %d", task.Skipped())
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if n := atomic.LoadInt32(&runs); n != 1 {
		t.Errorf("Expected a single run in flight, got %d", n)
	}

	close(release)
	cancel()
	<-done
}

func TestSnapshotKeepsValueOnError(t *testing.T) {
	fail := false
	snap := NewSnapshot(func(ctx context.Context) (int, error) {
		if fail {
			return 0, errors.New("gateway down")
		}
		return 42, nil
	})

	if err := snap.Refresh(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	fail = true
	if err := snap.Refresh(context.Background()); err == nil {
		t.Fatal("Expected error, got nil")
	}

	value, updated, err := snap.Get()
	if value != 42 {
		t.Errorf("Expected previous value 42, got %d", value)
	}
	if updated.IsZero() {
		t.Error("Expected update time to be set")
	}
	if err == nil {
		t.Error("Expected last error to be reported")
	}
}

func TestTaskNonPositiveIntervalFallsBack(t *testing.T) {
	testCases := []time.Duration{0, -time.Second}

	for _, interval := range testCases {
		t.Run(interval.String(), func(t *testing.T) {
			var runs int32
			task := New("status", interval, func(ctx context.Context) error {
				atomic.AddInt32(&runs, 1)
				return nil
			})

			if task.Interval() != DefaultInterval {
				t.Errorf("Expected interval %v, got %v", DefaultInterval, task.Interval())
			}

			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				defer close(done)
				task.Run(ctx)
			}()

			deadline := time.After(2 * time.Second)
			for atomic.LoadInt32(&runs) == 0 {
				select {
				case <-deadline:
					t.Fatal("Expected an immediate run")
				default:
					time.Sleep(time.Millisecond)
				}
			}
			cancel()

			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("Expected Run to return after cancel")
			}
		})
	}
}
