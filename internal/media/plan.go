package media

import "math"

const (
	// sizeSafetyMargin keeps re-encoded chunks under the ceiling despite
	// encoder overhead and bitrate variance.
	sizeSafetyMargin = 0.8

	minChunkSeconds = 30
	maxChunkSeconds = 600
)

// Plan describes how a media file will be segmented.
type Plan struct {
	NeedsSplit   bool
	ChunkSeconds float64
}

// PlanChunks decides whether a file of sizeBytes must be split to fit
// ceilingBytes per request and, if so, picks the segment duration. The
// bitrate is estimated from size and duration, so the duration produced for
// one encoding stays valid after the canonical re-encode only because of the
// safety margin.
func PlanChunks(sizeBytes int64, durationSeconds float64, ceilingBytes int64, nominalSeconds int) Plan {
	if sizeBytes <= ceilingBytes {
		return Plan{NeedsSplit: false}
	}

	bitrate := float64(sizeBytes) * 8 / durationSeconds
	targetSeconds := float64(ceilingBytes) * sizeSafetyMargin * 8 / bitrate

	// NaN estimates (duration 0/0 upstream) fall to the floor like any
	// other degenerate value; math.Max would pass them through.
	chunkSeconds := math.Min(float64(nominalSeconds), targetSeconds)
	if math.IsNaN(chunkSeconds) || chunkSeconds < minChunkSeconds {
		chunkSeconds = minChunkSeconds
	}
	chunkSeconds = math.Min(chunkSeconds, maxChunkSeconds)

	return Plan{NeedsSplit: true, ChunkSeconds: chunkSeconds}
}
