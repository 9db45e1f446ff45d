package download

import "context"

// Result describes a download staged into blob storage.
type Result struct {
	FileRef  string
	Filename string
}

// Downloader fetches remote media and stages it into blob storage. URLs
// outside the configured domain allow-list are rejected before any network
// call.
type Downloader interface {
	Download(ctx context.Context, url, entryID string) (*Result, error)
}
