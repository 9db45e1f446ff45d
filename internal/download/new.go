package download

import (
	"github.com/nezhar/voicevault/internal/blob"
	"github.com/nezhar/voicevault/internal/config"
	"github.com/nezhar/voicevault/internal/logger"
	"github.com/nezhar/voicevault/pkg/executor"
)

type implDownloader struct {
	cfg      *config.Config
	blob     blob.Store
	executor executor.Executor
	logger   logger.Logger
}

// New creates a new Downloader instance backed by yt-dlp.
func New(cfg *config.Config, store blob.Store, exec executor.Executor, log logger.Logger) Downloader {
	return &implDownloader{
		cfg:      cfg,
		blob:     store,
		executor: exec,
		logger:   log,
	}
}
