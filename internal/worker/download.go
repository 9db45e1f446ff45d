package worker

import (
	"context"

	"github.com/nezhar/voicevault/internal/classify"
	"github.com/nezhar/voicevault/internal/entry"
)

// runDownloadCycle stages queued uploads for the ASR worker, then drains the
// oldest NEW url entries through the downloader.
func (w *implWorker) runDownloadCycle(ctx context.Context) {
	w.stageUploads(ctx)

	entries, err := w.store.FetchNewDownloads(ctx, w.cfg.Worker.BatchSize)
	if err != nil {
		w.logger.Error(ctx, "Fetch download batch: %v", err)
		return
	}
	if len(entries) == 0 {
		return
	}

	w.logger.Info(ctx, "Processing %d entries for download", len(entries))
	for i := range entries {
		w.processDownload(ctx, &entries[i])
	}
}

// stageUploads moves freshly uploaded entries to IN_PROGRESS so the ASR
// worker picks them up. Uploads already carry a file reference, so there is
// nothing to download.
func (w *implWorker) stageUploads(ctx context.Context) {
	staged, err := w.store.StageUploads(ctx, w.cfg.Worker.BatchSize)
	if err != nil {
		w.logger.Error(ctx, "Stage uploaded entries: %v", err)
		return
	}
	for i := range staged {
		w.logger.Info(ctx, "Entry %s staged for transcription: %s", staged[i].ID, staged[i].Title)
	}
}

func (w *implWorker) processDownload(ctx context.Context, e *entry.Entry) {
	claimed, err := w.store.ClaimForProcessing(ctx, e.ID)
	if err != nil {
		w.logger.Error(ctx, "Claim entry %s: %v", e.ID, err)
		return
	}
	if !claimed {
		w.logger.Debug(ctx, "Entry %s already claimed by another worker", e.ID)
		return
	}

	w.logger.Info(ctx, "Downloading entry %s: %s", e.ID, e.Title)

	if e.SourceURL == nil {
		w.recordFailure(ctx, e, classify.Permanentf("entry has no source URL"))
		return
	}

	res, err := w.downloader.Download(ctx, *e.SourceURL, e.ID.String())
	if err != nil {
		w.recordFailure(ctx, e, err)
		return
	}

	// The entry stays IN_PROGRESS; the ASR worker takes it from here.
	if err := w.store.SetFileReference(ctx, e.ID, res.FileRef, res.Filename); err != nil {
		w.logger.Error(ctx, "Record file reference for entry %s: %v", e.ID, err)
		return
	}

	w.logger.Info(ctx, "Entry %s downloaded and staged: %s", e.ID, res.FileRef)
}
