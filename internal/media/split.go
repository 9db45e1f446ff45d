package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/nezhar/voicevault/internal/classify"
)

// Split segments localPath with ffmpeg's segment muxer. Every chunk is
// re-encoded to mp3 at a fixed bitrate, sample rate and channel count so the
// output size per second is predictable.
func (m *implMedia) Split(ctx context.Context, localPath string, chunkSeconds float64, ceilingBytes int64) ([]string, error) {
	dir, err := os.MkdirTemp(filepath.Dir(localPath), "chunks_")
	if err != nil {
		return nil, fmt.Errorf("create chunk dir: %w", err)
	}

	pattern := filepath.Join(dir, "chunk_%03d.mp3")
	_, err = m.executor.Execute(ctx, "ffmpeg",
		"-i", localPath,
		"-f", "segment",
		"-segment_time", strconv.FormatFloat(chunkSeconds, 'f', 1, 64),
		"-c:a", "libmp3lame",
		"-b:a", "128k",
		"-ar", "44100",
		"-ac", "2",
		"-avoid_negative_ts", "make_zero",
		"-reset_timestamps", "1",
		"-y",
		pattern,
	)
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("segment media: %w", err)
	}

	// chunk_%03d names sort lexicographically in creation order.
	chunks, err := filepath.Glob(filepath.Join(dir, "chunk_*.mp3"))
	if err != nil || len(chunks) == 0 {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("segmenting %s produced no chunks", filepath.Base(localPath))
	}
	sort.Strings(chunks)

	for _, chunk := range chunks {
		info, err := os.Stat(chunk)
		if err != nil {
			os.RemoveAll(dir)
			return nil, fmt.Errorf("stat chunk: %w", err)
		}
		if info.Size() > ceilingBytes {
			os.RemoveAll(dir)
			return nil, fmt.Errorf("%w: %s is %d bytes, ceiling %d",
				classify.ErrSegmentationIneffective, filepath.Base(chunk), info.Size(), ceilingBytes)
		}
	}

	m.logger.Info(ctx, "Split %s into %d chunks of %.1fs", filepath.Base(localPath), len(chunks), chunkSeconds)
	return chunks, nil
}

// Cleanup removes the chunk files and the scratch directory Split created
// for them. Missing files are ignored.
func (m *implMedia) Cleanup(ctx context.Context, chunks []string) {
	if len(chunks) == 0 {
		return
	}

	for _, chunk := range chunks {
		if err := os.Remove(chunk); err != nil && !os.IsNotExist(err) {
			m.logger.Warn(ctx, "Failed to remove chunk %s: %v", chunk, err)
		}
	}

	if err := os.Remove(filepath.Dir(chunks[0])); err != nil && !os.IsNotExist(err) {
		m.logger.Warn(ctx, "Failed to remove chunk dir: %v", err)
	}
}
