package transcribe

import "context"

// Service drives transcription for one entry's stored media: validation,
// size-bounded chunking and sequential ASR calls.
type Service interface {
	// Validate checks the stored media against format and size rules
	// before any expensive work. Validation failures are permanent.
	Validate(ctx context.Context, fileRef string) error

	// Transcribe produces the full transcript for the stored media,
	// splitting it first when it exceeds the provider's request ceiling.
	Transcribe(ctx context.Context, fileRef, entryID string) (string, error)
}
