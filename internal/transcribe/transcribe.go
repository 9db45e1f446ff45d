package transcribe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nezhar/voicevault/internal/classify"
	"github.com/nezhar/voicevault/internal/media"
)

// Transcribe fetches the stored media and produces its transcript. Media
// over the provider's request ceiling is split and transcribed chunk by
// chunk, sequentially, in temporal order.
func (s *implService) Transcribe(ctx context.Context, fileRef, entryID string) (string, error) {
	scratch := filepath.Join(s.cfg.Paths.Spool, entryID)
	localPath, err := s.blob.FetchToLocal(ctx, fileRef, scratch)
	if err != nil {
		return "", fmt.Errorf("fetch media: %w", err)
	}
	defer s.cleanupScratch(ctx, scratch)

	info, err := os.Stat(localPath)
	if err != nil {
		return "", fmt.Errorf("stat media: %w", err)
	}

	size := info.Size()
	ceiling := s.cfg.ASR.MaxRequestBytes
	if size <= ceiling {
		s.logger.Info(ctx, "Entry %s: %d bytes within request ceiling, transcribing in one call", entryID, size)
		return s.singleShot(ctx, localPath)
	}

	duration, err := s.prober.Duration(ctx, localPath)
	if err != nil {
		return "", err
	}

	plan := media.PlanChunks(size, duration, ceiling, s.cfg.ASR.ChunkSeconds)
	if !plan.NeedsSplit {
		return s.singleShot(ctx, localPath)
	}

	s.logger.Info(ctx, "Entry %s: %d bytes exceeds request ceiling %d, splitting into %.1fs chunks",
		entryID, size, ceiling, plan.ChunkSeconds)

	chunks, err := s.splitter.Split(ctx, localPath, plan.ChunkSeconds, ceiling)
	if err != nil {
		return "", err
	}
	defer s.splitter.Cleanup(ctx, chunks)

	return s.transcribeChunks(ctx, chunks, ceiling, entryID)
}

func (s *implService) singleShot(ctx context.Context, localPath string) (string, error) {
	text, err := s.transcriber.Transcribe(ctx, localPath)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", classify.Transientf("empty transcript returned")
	}
	return text, nil
}

// transcribeChunks submits chunks one at a time, skipping individual
// failures. Partial transcripts join in chunk order, which is the source's
// temporal order.
func (s *implService) transcribeChunks(ctx context.Context, chunks []string, ceiling int64, entryID string) (string, error) {
	parts := make([]string, 0, len(chunks))

	for i, chunk := range chunks {
		if i > 0 {
			time.Sleep(s.chunkPause)
		}

		info, err := os.Stat(chunk)
		if err != nil {
			s.logger.Warn(ctx, "Entry %s: skipping unreadable chunk %d/%d: %v", entryID, i+1, len(chunks), err)
			continue
		}
		if info.Size() > ceiling {
			s.logger.Warn(ctx, "Entry %s: skipping oversized chunk %d/%d (%d bytes)", entryID, i+1, len(chunks), info.Size())
			continue
		}

		text, err := s.transcriber.Transcribe(ctx, chunk)
		if err != nil {
			s.logger.Warn(ctx, "Entry %s: chunk %d/%d failed, continuing: %v", entryID, i+1, len(chunks), err)
			continue
		}
		if text != "" {
			parts = append(parts, text)
		}

		s.logger.Debug(ctx, "Entry %s: chunk %d/%d transcribed (%d chars)", entryID, i+1, len(chunks), len(text))
	}

	if len(parts) == 0 {
		return "", classify.Transientf("transcription produced no text from %d chunks", len(chunks))
	}

	return strings.Join(parts, "\n\n"), nil
}

func (s *implService) cleanupScratch(ctx context.Context, dir string) {
	if err := os.RemoveAll(dir); err != nil {
		s.logger.Warn(ctx, "Failed to remove scratch dir %s: %v", dir, err)
	}
}
