package media

import "context"

// Prober reads media metadata from local files.
type Prober interface {
	// Duration returns the media length in seconds.
	Duration(ctx context.Context, localPath string) (float64, error)
}

// Splitter segments a local media file into ordered, size-bounded chunks.
type Splitter interface {
	// Split re-encodes localPath into chunks of chunkSeconds each and
	// verifies every chunk fits ceilingBytes. Returned paths are in
	// temporal order. On any failure all chunk files are removed before
	// returning.
	Split(ctx context.Context, localPath string, chunkSeconds float64, ceilingBytes int64) ([]string, error)

	// Cleanup removes chunk files produced by Split and their scratch
	// directory.
	Cleanup(ctx context.Context, chunks []string)
}

// Media combines probing and splitting over the same ffmpeg toolchain.
type Media interface {
	Prober
	Splitter
}
