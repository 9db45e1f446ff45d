package worker

import (
	"context"
	"fmt"

	"github.com/nezhar/voicevault/internal/classify"
	"github.com/nezhar/voicevault/internal/entry"
)

// runASRCycle drains the oldest IN_PROGRESS entries through validation and
// transcription.
func (w *implWorker) runASRCycle(ctx context.Context) {
	entries, err := w.store.FetchInProgress(ctx, w.cfg.Worker.BatchSize)
	if err != nil {
		w.logger.Error(ctx, "Fetch transcription batch: %v", err)
		return
	}
	if len(entries) == 0 {
		return
	}

	w.logger.Info(ctx, "Processing %d entries for transcription", len(entries))
	for i := range entries {
		w.processTranscription(ctx, &entries[i])
	}
}

func (w *implWorker) processTranscription(ctx context.Context, e *entry.Entry) {
	w.logger.Info(ctx, "Transcribing entry %s: %s", e.ID, e.Title)

	if e.FileRef == nil {
		w.recordFailure(ctx, e, classify.Permanentf("entry has no file reference"))
		return
	}

	if err := w.transcriber.Validate(ctx, *e.FileRef); err != nil {
		w.recordFailure(ctx, e, fmt.Errorf("file validation failed: %w", err))
		return
	}

	transcript, err := w.transcriber.Transcribe(ctx, *e.FileRef, e.ID.String())
	if err != nil {
		w.recordFailure(ctx, e, err)
		return
	}

	ready, err := w.store.MarkReady(ctx, e.ID, transcript)
	if err != nil {
		w.logger.Error(ctx, "Mark entry %s ready: %v", e.ID, err)
		return
	}
	if !ready {
		w.logger.Warn(ctx, "Entry %s changed state before the transcript could be saved", e.ID)
		return
	}

	w.logger.Info(ctx, "Entry %s transcribed (%d characters)", e.ID, len(transcript))
}
