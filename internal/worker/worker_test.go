package worker

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/simonsobs/mapcat/internal/coverage"
	"github.com/simonsobs/mapcat/internal/logger"
)

type countingReconciler struct {
	mu    sync.Mutex
	calls int
	err   error
	panic bool
}

func (c *countingReconciler) Reconcile(ctx context.Context) (*coverage.Report, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	if c.panic {
		panic("boom")
	}
	return &coverage.Report{RunID: "test"}, c.err
}

func (c *countingReconciler) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func quietLogger() *logger.Logger {
	return logger.New(logger.Config{Output: io.Discard})
}

func TestWorker_RunsImmediatelyAndOnInterval(t *testing.T) {
	rec := &countingReconciler{}
	w := NewWorker(rec, 10*time.Millisecond, quietLogger())

	reports := make(chan *coverage.Report, 16)
	w.OnReport = func(r *coverage.Report, _ error) {
		select {
		case reports <- r:
		default:
		}
	}

	w.Start()
	for i := 0; i < 3; i++ {
		select {
		case r := <-reports:
			if r == nil || r.RunID != "test" {
				t.Errorf("Unexpected report %+v", r)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("Timed out waiting for pass %d", i+1)
		}
	}
	w.Stop()

	n := rec.count()
	if n < 3 {
		t.Errorf("Expected at least 3 passes, got %d", n)
	}
	time.Sleep(30 * time.Millisecond)
	if rec.count() != n {
		t.Error("Expected no passes after Stop")
	}
}

func TestWorker_SurvivesErrorsAndPanics(t *testing.T) {
	tests := []struct {
		name string
		rec  *countingReconciler
	}{
		{"error", &countingReconciler{err: errors.New("database is locked")}},
		{"panic", &countingReconciler{panic: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorker(tt.rec, 5*time.Millisecond, quietLogger())

			errs := make(chan error, 16)
			w.OnReport = func(_ *coverage.Report, err error) {
				select {
				case errs <- err:
				default:
				}
			}

			w.Start()
			defer w.Stop()

			for i := 0; i < 2; i++ {
				select {
				case err := <-errs:
					if err == nil {
						t.Error("Expected the pass error to be reported")
					}
				case <-time.After(2 * time.Second):
					t.Fatal("Timed out waiting for pass")
				}
			}
		})
	}
}
