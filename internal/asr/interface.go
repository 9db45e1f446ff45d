package asr

import "context"

// Transcriber converts one local media file into text. Calls are synchronous
// and subject to the provider's per-request byte ceiling, which the caller
// enforces by chunking beforehand.
type Transcriber interface {
	Transcribe(ctx context.Context, localPath string) (string, error)
	Name() string
}
