package watcher

import (
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nezhar/voicevault/internal/blob"
	"github.com/nezhar/voicevault/internal/entry"
	"github.com/nezhar/voicevault/internal/logger"
)

type implWatcher struct {
	inbox         string
	store         entry.Store
	blob          blob.Store
	logger        logger.Logger
	watcher       *fsnotify.Watcher
	maxConcurrent int
	semaphore     chan struct{}
	settle        time.Duration
	wg            sync.WaitGroup
}

// New creates a new Watcher instance over the inbox directory with
// concurrency control for staging.
func New(inbox string, store entry.Store, blobStore blob.Store, log logger.Logger, maxConcurrent int) (Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fsw.Add(inbox); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	// Default to 2 concurrent if not specified
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	return &implWatcher{
		inbox:         inbox,
		store:         store,
		blob:          blobStore,
		logger:        log,
		watcher:       fsw,
		maxConcurrent: maxConcurrent,
		semaphore:     make(chan struct{}, maxConcurrent),
		settle:        500 * time.Millisecond,
	}, nil
}
