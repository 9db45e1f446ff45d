package transcribe

import (
	"time"

	"github.com/nezhar/voicevault/internal/asr"
	"github.com/nezhar/voicevault/internal/blob"
	"github.com/nezhar/voicevault/internal/config"
	"github.com/nezhar/voicevault/internal/logger"
	"github.com/nezhar/voicevault/internal/media"
)

type implService struct {
	cfg         *config.Config
	blob        blob.Store
	prober      media.Prober
	splitter    media.Splitter
	transcriber asr.Transcriber
	logger      logger.Logger

	// chunkPause spaces out sequential per-chunk provider calls.
	chunkPause time.Duration
}

// New creates a new Service instance.
func New(cfg *config.Config, store blob.Store, prober media.Prober, splitter media.Splitter, t asr.Transcriber, log logger.Logger) Service {
	return &implService{
		cfg:         cfg,
		blob:        store,
		prober:      prober,
		splitter:    splitter,
		transcriber: t,
		logger:      log,
		chunkPause:  time.Second,
	}
}
