package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/nezhar/voicevault/internal/blob"
	"github.com/nezhar/voicevault/internal/entry"
)

// Start begins monitoring the inbox directory for new media files. Each file
// is staged into blob storage and recorded as a NEW upload entry; staging
// runs concurrently up to the configured limit.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Inbox watcher started (max concurrent: %d). Monitoring: %s", w.maxConcurrent, w.inbox)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for in-flight staging to complete...")
			w.wg.Wait()
			w.logger.Info(ctx, "Inbox watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}

			// Only process CREATE events
			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !w.isMediaFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-media file: %s", event.Name)
				continue
			}

			w.logger.Info(ctx, "New media detected: %s", event.Name)

			// Acquire semaphore slot (blocks if max concurrent reached)
			select {
			case w.semaphore <- struct{}{}:
				w.wg.Add(1)
				go func(path string) {
					defer w.wg.Done()
					defer func() { <-w.semaphore }() // Release semaphore

					// Small delay to ensure file is fully written
					time.Sleep(w.settle)

					if err := w.ingest(ctx, path); err != nil {
						w.logger.Error(ctx, "Failed to ingest %s: %v", path, err)
					}
				}(event.Name)
			case <-ctx.Done():
				return ctx.Err()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

// ingest stages one inbox file into blob storage and creates its entry. On
// failure the local file stays in place for a later drop or manual cleanup.
func (w *implWatcher) ingest(ctx context.Context, path string) error {
	filename := filepath.Base(path)
	id := uuid.New()
	key := blob.Key(id.String(), filename)

	if err := w.blob.Put(ctx, path, key, blob.ContentTypeForFile(filename)); err != nil {
		return fmt.Errorf("stage %s: %w", filename, err)
	}

	e := &entry.Entry{
		ID:         id,
		Title:      strings.TrimSuffix(filename, filepath.Ext(filename)),
		SourceType: entry.SourceUpload,
		FileRef:    &key,
		Filename:   &filename,
		Status:     entry.StatusNew,
	}
	if err := w.store.Create(ctx, e); err != nil {
		// Best-effort removal of the staged object.
		if derr := w.blob.Delete(ctx, key); derr != nil {
			w.logger.Warn(ctx, "Remove staged object %s: %v", key, derr)
		}
		return fmt.Errorf("create entry for %s: %w", filename, err)
	}

	if err := os.Remove(path); err != nil {
		w.logger.Warn(ctx, "Remove ingested file %s: %v", path, err)
	}

	w.logger.Info(ctx, "Entry %s created for upload: %s", id, filename)
	return nil
}

// isMediaFile checks if the file has a supported media extension
func (w *implWatcher) isMediaFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	supportedFormats := []string{".mp3", ".wav", ".m4a", ".flac", ".mp4", ".webm", ".ogg"}

	for _, format := range supportedFormats {
		if ext == format {
			return true
		}
	}

	return false
}
