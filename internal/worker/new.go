package worker

import (
	"sync"
	"time"

	"github.com/nezhar/voicevault/internal/config"
	"github.com/nezhar/voicevault/internal/download"
	"github.com/nezhar/voicevault/internal/entry"
	"github.com/nezhar/voicevault/internal/logger"
	"github.com/nezhar/voicevault/internal/transcribe"
)

type implWorker struct {
	cfg         *config.Config
	store       entry.Store
	downloader  download.Downloader
	transcriber transcribe.Service
	logger      logger.Logger
	interval    time.Duration
	stopOnce    sync.Once
	stop        chan struct{}
	done        chan struct{}
}

// New creates a new Worker instance for the mode in cfg. Only the
// collaborator for that mode is used: d in download mode, t in ASR mode;
// the other may be nil.
func New(cfg *config.Config, store entry.Store, d download.Downloader, t transcribe.Service, log logger.Logger) Worker {
	return &implWorker{
		cfg:         cfg,
		store:       store,
		downloader:  d,
		transcriber: t,
		logger:      log,
		interval:    time.Duration(cfg.Worker.Interval) * time.Second,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}
