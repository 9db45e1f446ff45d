package media

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/nezhar/voicevault/internal/classify"
)

// Duration asks ffprobe for the container-level duration in seconds.
func (m *implMedia) Duration(ctx context.Context, localPath string) (float64, error) {
	out, err := m.executor.Execute(ctx, "ffprobe",
		"-v", "quiet",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		localPath,
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", classify.ErrDurationUnavailable, err)
	}

	// ParseFloat accepts "nan" and "inf"; neither is a usable duration.
	seconds, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil || math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return 0, fmt.Errorf("%w: ffprobe output %q", classify.ErrDurationUnavailable, strings.TrimSpace(out))
	}

	return seconds, nil
}
