package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/nezhar/voicevault/internal/classify"
	"github.com/nezhar/voicevault/internal/config"
	"github.com/nezhar/voicevault/internal/entry"
)

// Start runs the polling loop: sleep for the configured interval, fetch one
// batch for the configured mode, process it one entry at a time. Stop and
// context cancellation are checked only between cycles.
func (w *implWorker) Start(ctx context.Context) error {
	defer close(w.done)

	w.logger.Info(ctx, "Worker started (mode: %s, interval: %s, batch size: %d)",
		w.cfg.Worker.Mode, w.interval, w.cfg.Worker.BatchSize)

	timer := time.NewTimer(w.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Worker stopped: %v", ctx.Err())
			return ctx.Err()
		case <-w.stop:
			w.logger.Info(ctx, "Worker stopped")
			return nil
		case <-timer.C:
		}

		w.runCycle(ctx)
		timer.Reset(w.interval)
	}
}

// Stop signals the loop to exit at the next cycle boundary and waits for
// in-flight entry processing to finish.
func (w *implWorker) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
	<-w.done
}

// runCycle dispatches one batch. Entry processing runs on a non-cancellable
// child context so that a shutdown signal never interrupts an in-flight
// external call; the loop still exits at the next cycle boundary.
func (w *implWorker) runCycle(ctx context.Context) {
	work := context.WithoutCancel(ctx)

	switch w.cfg.Worker.Mode {
	case config.ModeDownload:
		w.runDownloadCycle(work)
	case config.ModeASR:
		w.runASRCycle(work)
	}
}

// recordFailure classifies a per-entry failure and applies the resulting
// transition: permanent errors land in ERROR, transient ones go back to NEW
// for a later cycle until the retry cap is reached.
func (w *implWorker) recordFailure(ctx context.Context, e *entry.Entry, failure error) {
	msg := failure.Error()

	if classify.Classify(failure) == classify.Permanent {
		w.fail(ctx, e, msg)
		return
	}

	attempt := e.Attempts + 1
	if attempt >= w.cfg.Worker.MaxRetries {
		w.fail(ctx, e, fmt.Sprintf("%s (retry limit reached after %d attempts)", msg, attempt))
		return
	}

	requeued, err := w.store.Requeue(ctx, e.ID, msg)
	if err != nil {
		w.logger.Error(ctx, "Requeue entry %s: %v", e.ID, err)
		return
	}
	if !requeued {
		w.logger.Warn(ctx, "Entry %s changed state before requeue", e.ID)
		return
	}
	w.logger.Warn(ctx, "Entry %s requeued (attempt %d/%d): %s", e.ID, attempt, w.cfg.Worker.MaxRetries, msg)
}

func (w *implWorker) fail(ctx context.Context, e *entry.Entry, msg string) {
	failed, err := w.store.Fail(ctx, e.ID, msg)
	if err != nil {
		w.logger.Error(ctx, "Mark entry %s failed: %v", e.ID, err)
		return
	}
	if !failed {
		w.logger.Warn(ctx, "Entry %s changed state before failure could be recorded", e.ID)
		return
	}
	w.logger.Error(ctx, "Entry %s failed permanently: %s", e.ID, msg)
}
