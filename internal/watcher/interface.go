package watcher

import "context"

// Watcher monitors the inbox directory and registers dropped media files as
// upload entries for the worker to process.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}
