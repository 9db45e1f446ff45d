package media

import (
	"github.com/nezhar/voicevault/internal/logger"
	"github.com/nezhar/voicevault/pkg/executor"
)

type implMedia struct {
	executor executor.Executor
	logger   logger.Logger
}

// New creates a new Media instance backed by ffmpeg and ffprobe.
func New(exec executor.Executor, log logger.Logger) Media {
	return &implMedia{
		executor: exec,
		logger:   log,
	}
}
