package transcribe

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/nezhar/voicevault/internal/classify"
)

var supportedExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
	".flac": true,
	".mp4":  true,
	".webm": true,
	".ogg":  true,
}

// Validate checks the stored media against format and size rules. Rule
// violations come back permanent; storage lookups that fail stay transient
// so the entry is retried.
func (s *implService) Validate(ctx context.Context, fileRef string) error {
	exists, err := s.blob.Exists(ctx, fileRef)
	if err != nil {
		// Typed transient, not a bare wrap: callers prefix validation
		// failures with text the pattern table reads as permanent.
		return classify.Transientf("check media: %w", err)
	}
	if !exists {
		return classify.Permanentf("file not found in storage: %s", fileRef)
	}

	ext := strings.ToLower(filepath.Ext(fileRef))
	if !supportedExtensions[ext] {
		return classify.Permanentf("unsupported file format: %q", ext)
	}

	info, err := s.blob.Info(ctx, fileRef)
	if err != nil {
		return classify.Transientf("media info: %w", err)
	}
	if info.Size == 0 {
		return classify.Permanentf("file is empty: %s", fileRef)
	}
	if info.Size > s.cfg.Download.MaxFileBytes {
		return classify.Permanentf("file too large: %d bytes, ingestion ceiling %d", info.Size, s.cfg.Download.MaxFileBytes)
	}

	return nil
}
