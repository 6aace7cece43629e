// Package worker runs coverage reconcile passes on a fixed interval.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/simonsobs/mapcat/internal/coverage"
	"github.com/simonsobs/mapcat/internal/logger"
)

// Reconciler is a single coverage pass.
type Reconciler interface {
	Reconcile(ctx context.Context) (*coverage.Report, error)
}

type Worker struct {
	Reconciler Reconciler
	Interval   time.Duration
	Logger     *logger.Logger

	// OnReport, if set, receives every finished pass.
	OnReport func(*coverage.Report, error)

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func NewWorker(rec Reconciler, interval time.Duration, log *logger.Logger) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		Reconciler: rec,
		Interval:   interval,
		Logger:     log.WithComponent("worker"),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start runs one pass immediately and then one per interval until Stop.
func (w *Worker) Start() {
	w.Logger.Info("Starting coverage worker", "interval", w.Interval.String())

	w.wg.Add(1)
	go w.loop()
}

// Stop cancels any running pass and waits for the loop to exit.
func (w *Worker) Stop() {
	w.Logger.Info("Stopping coverage worker")
	w.cancel()
	w.wg.Wait()
}

func (w *Worker) loop() {
	defer w.wg.Done()
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	w.runPass()
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.runPass()
		}
	}
}

func (w *Worker) runPass() {
	report, err := w.safeReconcile()
	if err != nil && w.ctx.Err() == nil {
		w.Logger.Error("Coverage pass failed", "error", err)
	}
	if w.OnReport != nil {
		w.OnReport(report, err)
	}
}

func (w *Worker) safeReconcile() (report *coverage.Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in coverage pass: %v", r)
		}
	}()
	return w.Reconciler.Reconcile(w.ctx)
}
