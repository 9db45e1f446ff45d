package entry

import (
	"context"

	"github.com/google/uuid"
)

// Store defines the persistence interface for entry lifecycle transitions.
// Mutations are row-scoped conditional updates so that concurrent workers
// sharing the table cannot advance the same entry twice.
type Store interface {
	// Create inserts a new entry. Used by the inbox ingester for uploads.
	Create(ctx context.Context, e *Entry) error

	// FetchNewDownloads returns up to limit NEW url-sourced entries,
	// oldest first.
	FetchNewDownloads(ctx context.Context, limit int) ([]Entry, error)

	// StageUploads atomically moves up to limit NEW upload entries with a
	// file reference to IN_PROGRESS and returns the staged rows.
	StageUploads(ctx context.Context, limit int) ([]Entry, error)

	// FetchInProgress returns up to limit IN_PROGRESS entries with a file
	// reference, oldest first.
	FetchInProgress(ctx context.Context, limit int) ([]Entry, error)

	// ClaimForProcessing flips one NEW entry to IN_PROGRESS. It reports
	// false when another worker claimed the entry first.
	ClaimForProcessing(ctx context.Context, id uuid.UUID) (bool, error)

	// SetFileReference records the blob key and filename produced by a
	// download.
	SetFileReference(ctx context.Context, id uuid.UUID, fileRef, filename string) error

	// MarkReady stores the transcript, clears any error residue and moves
	// the entry to READY. It reports false when the entry left
	// IN_PROGRESS in the meantime.
	MarkReady(ctx context.Context, id uuid.UUID, transcript string) (bool, error)

	// Requeue resets the entry to NEW for retry, recording the failure
	// and counting the attempt.
	Requeue(ctx context.Context, id uuid.UUID, errorMessage string) (bool, error)

	// Fail moves the entry to terminal ERROR with the failure recorded.
	Fail(ctx context.Context, id uuid.UUID, errorMessage string) (bool, error)
}
