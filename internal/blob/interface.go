package blob

import "context"

// Info describes a stored object.
type Info struct {
	Size        int64
	ContentType string
}

// Store defines the interface for blob storage operations. Keys are opaque
// object references, never local paths.
type Store interface {
	Exists(ctx context.Context, key string) (bool, error)

	Info(ctx context.Context, key string) (*Info, error)

	// FetchToLocal downloads the object into dir and returns the local
	// file path.
	FetchToLocal(ctx context.Context, key, dir string) (string, error)

	Put(ctx context.Context, localPath, key, contentType string) error

	Delete(ctx context.Context, key string) error
}

// Key builds the canonical object key for an entry's media file.
func Key(entryID, filename string) string {
	return "files/" + entryID + "/" + filename
}
